package contacts

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"ong-shelter-api/internal/platform/logger"
	"ong-shelter-api/internal/ports/notify"
)

var (
	ErrNotFound      = errors.New("contact message not found")
	ErrInvalidStatus = errors.New("invalid status")
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalidField(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

type Service struct {
	repo      Repository
	publisher notify.Publisher // puede ser nil
	log       logger.Logger
	now       func() time.Time
}

func NewService(repo Repository, publisher notify.Publisher, log logger.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

type SubmitInput struct {
	Name    string
	Email   string
	Subject string
	Message string
}

func validateSubmit(in SubmitInput) (SubmitInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Subject = strings.TrimSpace(in.Subject)
	in.Message = strings.TrimSpace(in.Message)

	if n := len([]rune(in.Name)); n < 2 || n > 100 {
		return in, invalidField("name", "name must be between 2 and 100 characters")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return in, invalidField("email", "email must be a valid email address")
	}
	if len([]rune(in.Subject)) > 200 {
		return in, invalidField("subject", "subject must be at most 200 characters")
	}
	if n := len([]rune(in.Message)); n < 10 || n > 1000 {
		return in, invalidField("message", "message must be between 10 and 1000 characters")
	}

	return in, nil
}

func (s *Service) Submit(ctx context.Context, in SubmitInput) (Contact, error) {
	in, err := validateSubmit(in)
	if err != nil {
		return Contact{}, err
	}

	c := Contact{
		Name:      in.Name,
		Email:     in.Email,
		Subject:   in.Subject,
		Message:   in.Message,
		Status:    StatusUnread,
		CreatedAt: s.now(),
	}

	created, err := s.repo.Create(ctx, c)
	if err != nil {
		return Contact{}, err
	}

	if s.publisher != nil {
		err := s.publisher.Publish(ctx, notify.Event{
			ID:         uuid.NewString(),
			Type:       notify.EventContactReceived,
			OccurredAt: s.now(),
			Payload: map[string]any{
				"contact_id": created.ID,
				"name":       created.Name,
				"email":      created.Email,
				"subject":    created.Subject,
			},
		})
		if err != nil {
			s.log.Warn("notification publish failed", map[string]any{
				"event": notify.EventContactReceived,
				"error": err.Error(),
			})
		}
	}

	return created, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter, page Page) ([]Contact, int, error) {
	return s.repo.List(ctx, filter, page.Normalize(20))
}

func (s *Service) UpdateStatus(ctx context.Context, id int64, status Status) (Contact, error) {
	switch status {
	case StatusRead, StatusUnread:
	default:
		return Contact{}, ErrInvalidStatus
	}
	return s.repo.UpdateStatus(ctx, id, status)
}
