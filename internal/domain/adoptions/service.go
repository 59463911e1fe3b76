package adoptions

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"ong-shelter-api/internal/domain/dogs"
	"ong-shelter-api/internal/platform/logger"
	"ong-shelter-api/internal/ports/notify"
)

var (
	ErrNotFound       = errors.New("adoption request not found")
	ErrDogNotFound    = errors.New("dog not found")
	ErrDogUnavailable = errors.New("dog is no longer available for adoption")
	ErrInvalidStatus  = errors.New("invalid status")
)

// ValidationError lleva el primer campo que falló; el mensaje va tal cual
// al cliente (400).
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalidField(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// DogCatalog es lo único que el coordinador necesita del catálogo de
// animales. *dogs.Service lo satisface.
type DogCatalog interface {
	GetByID(ctx context.Context, id int64) (dogs.Dog, error)
	MarkAdopted(ctx context.Context, id int64) error
	Reopen(ctx context.Context, id int64) error
}

// Service es el coordinador del ciclo de adopción: valida solicitudes
// contra la disponibilidad del animal y mantiene available/status del
// animal en sincronía con las decisiones del staff.
type Service struct {
	repo      Repository
	catalog   DogCatalog
	publisher notify.Publisher // puede ser nil
	log       logger.Logger
	now       func() time.Time
}

func NewService(repo Repository, catalog DogCatalog, publisher notify.Publisher, log logger.Logger) *Service {
	return &Service{
		repo:      repo,
		catalog:   catalog,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

type SubmitInput struct {
	DogID      int64
	Name       string
	Email      string
	Phone      string
	Address    string
	Experience string
	Reason     string
}

// normalizePhone deja solo dígitos: "(11) 98888-7777" => "11988887777".
func normalizePhone(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func validateSubmit(in SubmitInput) (SubmitInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Address = strings.TrimSpace(in.Address)
	in.Experience = strings.TrimSpace(in.Experience)
	in.Reason = strings.TrimSpace(in.Reason)

	if in.DogID <= 0 {
		return in, invalidField("dogId", "dogId must be a positive number")
	}
	if n := len([]rune(in.Name)); n < 2 || n > 100 {
		return in, invalidField("name", "name must be between 2 and 100 characters")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return in, invalidField("email", "email must be a valid email address")
	}
	in.Phone = normalizePhone(in.Phone)
	if n := len(in.Phone); n < 10 || n > 15 {
		return in, invalidField("phone", "phone must have between 10 and 15 digits")
	}
	if n := len([]rune(in.Address)); n < 10 || n > 500 {
		return in, invalidField("address", "address must be between 10 and 500 characters")
	}
	if n := len([]rune(in.Experience)); n < 10 || n > 1000 {
		return in, invalidField("experience", "experience must be between 10 and 1000 characters")
	}
	if n := len([]rune(in.Reason)); n < 10 || n > 1000 {
		return in, invalidField("reason", "reason must be between 10 and 1000 characters")
	}

	return in, nil
}

// Submit crea una solicitud pending para un animal disponible.
// Sin efectos si la validación o los chequeos de disponibilidad fallan.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (AdoptionRequest, error) {
	in, err := validateSubmit(in)
	if err != nil {
		return AdoptionRequest{}, err
	}

	d, err := s.catalog.GetByID(ctx, in.DogID)
	if err != nil {
		if errors.Is(err, dogs.ErrNotFound) {
			return AdoptionRequest{}, ErrDogNotFound
		}
		return AdoptionRequest{}, err
	}
	if !d.Available {
		return AdoptionRequest{}, ErrDogUnavailable
	}

	now := s.now()
	a := AdoptionRequest{
		DogID:      in.DogID,
		Name:       in.Name,
		Email:      in.Email,
		Phone:      in.Phone,
		Address:    in.Address,
		Experience: in.Experience,
		Reason:     in.Reason,
		Status:     StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	created, err := s.repo.Create(ctx, a)
	if err != nil {
		return AdoptionRequest{}, err
	}

	s.publish(ctx, notify.EventAdoptionSubmitted, map[string]any{
		"adoption_id": created.ID,
		"dog_id":      created.DogID,
		"dog_name":    d.Name,
		"applicant":   created.Name,
		"email":       created.Email,
	})

	return created, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter, page Page) ([]AdoptionRequest, int, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, 0, ErrInvalidStatus
	}
	return s.repo.List(ctx, filter, page.Normalize(20))
}

// UpdateStatusResult separa el efecto primario (el cambio de estado de la
// solicitud) del secundario (la sincronización del animal), para que
// callers y tests puedan afirmar sobre ambos sin leer logs.
type UpdateStatusResult struct {
	Adoption AdoptionRequest

	// DogSyncErr != nil significa que el estado de la solicitud SÍ cambió
	// pero el animal no pudo sincronizarse (p.ej. borrado concurrente).
	DogSyncErr error
}

// UpdateStatus aplica una decisión del staff y sincroniza el animal:
//
//   - nuevo estado approved        => animal adoptado / no disponible
//   - previo approved, nuevo != ap => animal reabierto para adopción
//   - cualquier otra transición    => el animal no se toca
//
// Lectura de estado previo + escritura del nuevo van juntas en una
// transacción con lock de fila (UpdateStatusLocked), para que dos
// decisiones concurrentes no vean un "previo" viejo y rompan el invariante.
//
// La mutación del animal es deliberadamente best-effort: si falla, el cambio
// de estado ya persistido NO se revierte; se loguea warning y el resultado
// lo expone en DogSyncErr. Política heredada del sistema original: el estado
// de la solicitud es el efecto primario, el sync del animal es secundario.
func (s *Service) UpdateStatus(ctx context.Context, id int64, newStatus Status, reason string) (UpdateStatusResult, error) {
	if !newStatus.Valid() {
		return UpdateStatusResult{}, ErrInvalidStatus
	}

	var reasonPtr *string
	if reason = strings.TrimSpace(reason); reason != "" && newStatus == StatusRejected {
		reasonPtr = &reason
	}

	updated, prev, err := s.repo.UpdateStatusLocked(ctx, id, newStatus, reasonPtr)
	if err != nil {
		return UpdateStatusResult{}, err
	}

	var syncErr error
	switch {
	case newStatus == StatusApproved:
		// Idempotente hacia "adoptado", sin mirar el estado previo del animal.
		syncErr = s.catalog.MarkAdopted(ctx, updated.DogID)
	case prev == StatusApproved && newStatus != StatusApproved:
		// El staff revirtió una aprobación: el animal vuelve a estar disponible.
		syncErr = s.catalog.Reopen(ctx, updated.DogID)
	}

	if syncErr != nil {
		s.log.Warn("dog availability sync failed after adoption status change", map[string]any{
			"adoption_id": id,
			"dog_id":      updated.DogID,
			"status":      string(newStatus),
			"error":       syncErr.Error(),
		})
	}

	// El caller debe ver estado post-mutación, no el pre-fetch.
	full, err := s.repo.GetByIDWithDog(ctx, id)
	if err != nil {
		return UpdateStatusResult{}, err
	}

	return UpdateStatusResult{Adoption: full, DogSyncErr: syncErr}, nil
}

func (s *Service) publish(ctx context.Context, eventType string, payload map[string]any) {
	if s.publisher == nil {
		return
	}
	err := s.publisher.Publish(ctx, notify.Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: s.now(),
		Payload:    payload,
	})
	if err != nil {
		s.log.Warn("notification publish failed", map[string]any{
			"event": eventType,
			"error": err.Error(),
		})
	}
}
