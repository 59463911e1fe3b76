package dogs

import "context"

type ListFilter struct {
	Size       Size
	Gender     Gender
	AnimalType AnimalType
	Search     string

	// Available filtra por disponibilidad exacta. Nil = default del catálogo
	// (solo disponibles y no adoptados), salvo que All sea true.
	Available *bool
	All       bool
}

type Page struct {
	Page  int
	Limit int
}

// Normalize aplica defaults y el tope de limit, igual en handler y servicio.
func (p Page) Normalize(defaultLimit int) Page {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.Limit <= 0 || p.Limit > 100 {
		p.Limit = defaultLimit
	}
	return p
}

type Repository interface {
	Create(ctx context.Context, d Dog) (Dog, error)
	GetByID(ctx context.Context, id int64) (Dog, error)
	List(ctx context.Context, filter ListFilter, page Page) ([]Dog, int, error)

	// Update reemplaza los campos escalares y el set completo de imágenes
	// en una sola transacción.
	Update(ctx context.Context, d Dog) (Dog, error)
	Delete(ctx context.Context, id int64) error

	// SetAvailability sincroniza available/status en un solo paso.
	// Es la única mutación que el coordinador de adopciones necesita.
	SetAvailability(ctx context.Context, id int64, available bool, status Status) error

	Count(ctx context.Context, onlyAvailable bool) (int, error)
}
