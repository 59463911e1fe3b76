package notify

import (
	"context"
	"time"
)

// Tipos de evento que el backend publica para el worker de avisos
// (emails al staff, etc). El consumidor vive fuera de este repo.
const (
	EventAdoptionSubmitted   = "adoption.submitted"
	EventContactReceived     = "contact.received"
	EventVolunteerRegistered = "volunteer.registered"
)

type Event struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload"`
}

// Publisher publica eventos de notificación. Siempre best-effort:
// los servicios loguean el error y siguen; un aviso perdido no puede
// tumbar un formulario público.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}
