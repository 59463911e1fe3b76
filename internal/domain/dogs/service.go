package dogs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrNotFound     = errors.New("dog not found")
	ErrInvalidInput = errors.New("invalid input")
)

// ValidationError identifica el primer campo que falló, estilo Joi:
// el mensaje se devuelve tal cual al cliente (400).
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalidField(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type Input struct {
	Name        string
	Age         string
	Size        string
	Gender      string
	Breed       string
	AnimalType  string
	Description string
	Temperament string
	Vaccinated  bool
	Neutered    bool
	Available   *bool
	Images      []string
}

// validate replica los límites del formulario del admin.
// Devuelve el primer error de campo, no todos.
func validate(in Input) (Input, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Age = strings.TrimSpace(in.Age)
	in.Breed = strings.TrimSpace(in.Breed)
	in.Description = strings.TrimSpace(in.Description)
	in.Temperament = strings.TrimSpace(in.Temperament)

	if n := len([]rune(in.Name)); n < 2 || n > 50 {
		return in, invalidField("name", "name must be between 2 and 50 characters")
	}
	if in.Age == "" {
		return in, invalidField("age", "age is required")
	}
	switch Size(in.Size) {
	case SizeSmall, SizeMedium, SizeLarge:
	default:
		return in, invalidField("size", "size must be one of small, medium, large")
	}
	switch Gender(in.Gender) {
	case GenderMale, GenderFemale:
	default:
		return in, invalidField("gender", "gender must be male or female")
	}
	if len([]rune(in.Breed)) > 50 {
		return in, invalidField("breed", "breed must be at most 50 characters")
	}
	if in.AnimalType == "" {
		in.AnimalType = string(AnimalTypeDog)
	}
	switch AnimalType(in.AnimalType) {
	case AnimalTypeDog, AnimalTypeCat:
	default:
		return in, invalidField("animalType", "animalType must be dog or cat")
	}
	if n := len([]rune(in.Description)); n < 10 || n > 1000 {
		return in, invalidField("description", "description must be between 10 and 1000 characters")
	}
	if n := len([]rune(in.Temperament)); n < 5 || n > 200 {
		return in, invalidField("temperament", "temperament must be between 5 and 200 characters")
	}

	images := make([]string, 0, len(in.Images))
	for _, u := range in.Images {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") && !strings.HasPrefix(u, "/") {
			return in, invalidField("images", "images must be valid URLs")
		}
		images = append(images, u)
	}
	in.Images = images

	return in, nil
}

func (s *Service) Create(ctx context.Context, in Input) (Dog, error) {
	in, err := validate(in)
	if err != nil {
		return Dog{}, err
	}

	now := s.now()
	available := true
	if in.Available != nil {
		available = *in.Available
	}

	d := Dog{
		Name:        in.Name,
		Age:         in.Age,
		Size:        Size(in.Size),
		Gender:      Gender(in.Gender),
		Breed:       in.Breed,
		AnimalType:  AnimalType(in.AnimalType),
		Description: in.Description,
		Temperament: in.Temperament,
		Vaccinated:  in.Vaccinated,
		Neutered:    in.Neutered,
		Available:   available,
		Status:      statusFor(available),
		Images:      in.Images,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	return s.repo.Create(ctx, d)
}

func (s *Service) GetByID(ctx context.Context, id int64) (Dog, error) {
	if id <= 0 {
		return Dog{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter, page Page) ([]Dog, int, error) {
	return s.repo.List(ctx, filter, page.Normalize(12))
}

// Update es un reemplazo completo (PUT): escalares + set de imágenes.
func (s *Service) Update(ctx context.Context, id int64, in Input) (Dog, error) {
	in, err := validate(in)
	if err != nil {
		return Dog{}, err
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Dog{}, err
	}

	current.Name = in.Name
	current.Age = in.Age
	current.Size = Size(in.Size)
	current.Gender = Gender(in.Gender)
	current.Breed = in.Breed
	current.AnimalType = AnimalType(in.AnimalType)
	current.Description = in.Description
	current.Temperament = in.Temperament
	current.Vaccinated = in.Vaccinated
	current.Neutered = in.Neutered
	if in.Available != nil {
		current.Available = *in.Available
		current.Status = statusFor(*in.Available)
	}
	current.Images = in.Images
	current.UpdatedAt = s.now()

	return s.repo.Update(ctx, current)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}

// MarkAdopted / Reopen son los dos únicos movimientos de disponibilidad
// que dispara el coordinador de adopciones. Mantienen el invariante
// available == (status != adopted) porque mutan ambos campos juntos.
func (s *Service) MarkAdopted(ctx context.Context, id int64) error {
	return s.repo.SetAvailability(ctx, id, false, StatusAdopted)
}

func (s *Service) Reopen(ctx context.Context, id int64) error {
	return s.repo.SetAvailability(ctx, id, true, StatusAvailable)
}

func statusFor(available bool) Status {
	if available {
		return StatusAvailable
	}
	return StatusAdopted
}
