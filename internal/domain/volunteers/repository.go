package volunteers

import "context"

type ListFilter struct {
	Status *Status
}

type Page struct {
	Page  int
	Limit int
}

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
	Create(ctx context.Context, v Volunteer) (Volunteer, error)
	List(ctx context.Context, filter ListFilter, page Page) ([]Volunteer, int, error)
	UpdateStatus(ctx context.Context, id int64, status Status) (Volunteer, error)
	CountByStatus(ctx context.Context, status Status) (int, error)
}
