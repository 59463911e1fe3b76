package dogs

import "time"

// Size define los tamaños soportados.
type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

// Gender define el sexo del animal.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// AnimalType: el modelo se llama Dog por herencia histórica,
// pero la ONG también registra gatos.
type AnimalType string

const (
	AnimalTypeDog AnimalType = "dog"
	AnimalTypeCat AnimalType = "cat"
)

// Status refleja la disponibilidad del animal para adopción.
// Invariante: Available == true sii Status != StatusAdopted.
type Status string

const (
	StatusAvailable Status = "available"
	StatusAdopted   Status = "adopted"
)

// Dog representa un animal registrado para adopción.
type Dog struct {
	ID int64

	Name        string
	Age         string // texto libre ("2 anos", "filhote")
	Size        Size
	Gender      Gender
	Breed       string
	AnimalType  AnimalType
	Description string
	Temperament string

	Vaccinated bool
	Neutered   bool

	Available bool
	Status    Status

	// Images siempre canónico en memoria: lista ordenada de URLs.
	// La normalización de formatos legacy vive en images.go.
	Images []string

	CreatedAt time.Time
	UpdatedAt time.Time
}
