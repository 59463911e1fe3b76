package contacts

import "time"

type Status string

const (
	StatusUnread Status = "unread"
	StatusRead   Status = "read"
)

// Contact es un mensaje del formulario público de contacto.
type Contact struct {
	ID int64

	Name    string
	Email   string
	Subject string
	Message string

	Status Status

	CreatedAt time.Time
}
