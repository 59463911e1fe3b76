package volunteers

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
	ErrNotFound      = errors.New("volunteer not found")
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

type RegisterInput struct {
	Name         string
	Email        string
	Phone        string
	Availability string
	Experience   string
	Areas        []string
}

func validateRegister(in RegisterInput) (RegisterInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Availability = strings.TrimSpace(in.Availability)
	in.Experience = strings.TrimSpace(in.Experience)

	if n := len([]rune(in.Name)); n < 2 || n > 100 {
		return in, invalidField("name", "name must be between 2 and 100 characters")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return in, invalidField("email", "email must be a valid email address")
	}

	var digits strings.Builder
	for _, r := range in.Phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	in.Phone = digits.String()
	if n := len(in.Phone); n < 10 || n > 15 {
		return in, invalidField("phone", "phone must have between 10 and 15 digits")
	}

	if n := len([]rune(in.Availability)); n < 10 || n > 500 {
		return in, invalidField("availability", "availability must be between 10 and 500 characters")
	}
	if len([]rune(in.Experience)) > 1000 {
		return in, invalidField("experience", "experience must be at most 1000 characters")
	}

	areas := make([]string, 0, len(in.Areas))
	for _, a := range in.Areas {
		if a = strings.TrimSpace(a); a != "" {
			areas = append(areas, a)
		}
	}
	if len(areas) == 0 {
		return in, invalidField("areas", "at least one area is required")
	}
	in.Areas = areas

	return in, nil
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (Volunteer, error) {
	in, err := validateRegister(in)
	if err != nil {
		return Volunteer{}, err
	}

	v := Volunteer{
		Name:         in.Name,
		Email:        in.Email,
		Phone:        in.Phone,
		Availability: in.Availability,
		Experience:   in.Experience,
		Areas:        in.Areas,
		Status:       StatusActive,
		CreatedAt:    s.now(),
	}

	created, err := s.repo.Create(ctx, v)
	if err != nil {
		return Volunteer{}, err
	}

	if s.publisher != nil {
		err := s.publisher.Publish(ctx, notify.Event{
			ID:         uuid.NewString(),
			Type:       notify.EventVolunteerRegistered,
			OccurredAt: s.now(),
			Payload: map[string]any{
				"volunteer_id": created.ID,
				"name":         created.Name,
				"email":        created.Email,
			},
		})
		if err != nil {
			s.log.Warn("notification publish failed", map[string]any{
				"event": notify.EventVolunteerRegistered,
				"error": err.Error(),
			})
		}
	}

	return created, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter, page Page) ([]Volunteer, int, error) {
	return s.repo.List(ctx, filter, page.Normalize(20))
}

func (s *Service) UpdateStatus(ctx context.Context, id int64, status Status) (Volunteer, error) {
	switch status {
	case StatusActive, StatusInactive:
	default:
		return Volunteer{}, ErrInvalidStatus
	}
	return s.repo.UpdateStatus(ctx, id, status)
}
