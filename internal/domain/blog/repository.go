package blog

import "context"

type ListFilter struct {
	Category      *Category
	PublishedOnly bool
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
	Create(ctx context.Context, p Post) (Post, error)
	GetByID(ctx context.Context, id int64) (Post, error)

	// GetPublishedBySlug es la lectura del sitio público: borradores no existen.
	GetPublishedBySlug(ctx context.Context, slug string) (Post, error)

	// List ordena por publishedAt desc para el sitio y createdAt desc para el panel.
	List(ctx context.Context, filter ListFilter, page Page) ([]Post, int, error)

	Update(ctx context.Context, p Post) (Post, error)
	Delete(ctx context.Context, id int64) error

	SlugExists(ctx context.Context, slug string) (bool, error)
}
