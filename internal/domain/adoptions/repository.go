package adoptions

import "context"

type ListFilter struct {
	Status *Status
}

type Page struct {
	Page  int
	Limit int
}

// Normalize aplica defaults y el tope de limit. Handler y servicio comparten
// esta normalización para que la paginación de la respuesta coincida con la
// página realmente servida.
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
	// Create persiste la solicitud y la devuelve con el join del animal.
	Create(ctx context.Context, a AdoptionRequest) (AdoptionRequest, error)

	GetByID(ctx context.Context, id int64) (AdoptionRequest, error)

	// GetByIDWithDog devuelve la solicitud con la vista fresca del animal
	// (nombre, imágenes normalizadas, disponibilidad actual).
	GetByIDWithDog(ctx context.Context, id int64) (AdoptionRequest, error)

	// List devuelve solicitudes con join del animal, más recientes primero,
	// y el total sin paginar.
	List(ctx context.Context, filter ListFilter, page Page) ([]AdoptionRequest, int, error)

	// UpdateStatusLocked lee el estado previo y escribe el nuevo con el
	// registro bloqueado (una sola transacción por solicitud), para que dos
	// decisiones concurrentes del staff no lean un "previo" viejo. Si reason
	// es nil, el motivo anterior queda intacto.
	// Devuelve la solicitud ya actualizada y el estado previo.
	UpdateStatusLocked(ctx context.Context, id int64, status Status, reason *string) (AdoptionRequest, Status, error)

	CountByStatus(ctx context.Context, status Status) (int, error)
}
