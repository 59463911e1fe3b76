package volunteers

import "time"

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Volunteer es un inscripto del formulario público de voluntariado.
type Volunteer struct {
	ID int64

	Name  string
	Email string
	Phone string // solo dígitos

	Availability string
	Experience   string

	// Areas se persiste JSON-encoded en una columna TEXT (herencia del
	// esquema original); en memoria siempre es lista.
	Areas []string

	Status Status

	CreatedAt time.Time
}
