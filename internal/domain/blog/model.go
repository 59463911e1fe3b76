package blog

import "time"

// Category del post. Las cuatro secciones fijas del sitio.
type Category string

const (
	CategoryResgates      Category = "resgates"
	CategoryEventos       Category = "eventos"
	CategoryCampanhas     Category = "campanhas"
	CategoryTransparencia Category = "transparencia"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryResgates, CategoryEventos, CategoryCampanhas, CategoryTransparencia:
		return true
	}
	return false
}

type Post struct {
	ID int64

	Title   string
	Slug    string
	Content string
	Excerpt string

	Category Category
	Image    string

	Published bool
	// PublishedAt se setea en la primera publicación y no se pisa después.
	PublishedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
