package blog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrNotFound = errors.New("post not found")
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
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type PostInput struct {
	Title     string
	Content   string
	Excerpt   string
	Category  string
	Image     string
	Published bool
}

func validatePost(in PostInput) (PostInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	in.Excerpt = strings.TrimSpace(in.Excerpt)
	in.Image = strings.TrimSpace(in.Image)

	if n := len([]rune(in.Title)); n < 5 || n > 200 {
		return in, invalidField("title", "title must be between 5 and 200 characters")
	}
	if len([]rune(in.Content)) < 50 {
		return in, invalidField("content", "content must be at least 50 characters")
	}
	if n := len([]rune(in.Excerpt)); n < 20 || n > 300 {
		return in, invalidField("excerpt", "excerpt must be between 20 and 300 characters")
	}
	if !Category(in.Category).Valid() {
		return in, invalidField("category", "category must be one of resgates, eventos, campanhas, transparencia")
	}

	return in, nil
}

// uniqueSlug agrega sufijo numérico si el slug base ya existe: feira, feira-2, feira-3...
func (s *Service) uniqueSlug(ctx context.Context, base string) (string, error) {
	if base == "" {
		base = "post"
	}

	slug := base
	for i := 2; ; i++ {
		exists, err := s.repo.SlugExists(ctx, slug)
		if err != nil {
			return "", err
		}
		if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

func (s *Service) Create(ctx context.Context, in PostInput) (Post, error) {
	in, err := validatePost(in)
	if err != nil {
		return Post{}, err
	}

	slug, err := s.uniqueSlug(ctx, Slugify(in.Title))
	if err != nil {
		return Post{}, err
	}

	now := s.now()
	p := Post{
		Title:     in.Title,
		Slug:      slug,
		Content:   in.Content,
		Excerpt:   in.Excerpt,
		Category:  Category(in.Category),
		Image:     in.Image,
		Published: in.Published,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.Published {
		p.PublishedAt = &now
	}

	return s.repo.Create(ctx, p)
}

func (s *Service) Update(ctx context.Context, id int64, in PostInput) (Post, error) {
	in, err := validatePost(in)
	if err != nil {
		return Post{}, err
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Post{}, err
	}

	now := s.now()
	current.Title = in.Title
	current.Content = in.Content
	current.Excerpt = in.Excerpt
	current.Category = Category(in.Category)
	current.Image = in.Image
	current.UpdatedAt = now

	// El slug no se regenera en updates: las URLs públicas ya circularon.
	if in.Published && !current.Published && current.PublishedAt == nil {
		current.PublishedAt = &now
	}
	current.Published = in.Published

	return s.repo.Update(ctx, current)
}

func (s *Service) GetPublishedBySlug(ctx context.Context, slug string) (Post, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return Post{}, ErrNotFound
	}
	return s.repo.GetPublishedBySlug(ctx, slug)
}

func (s *Service) ListPublished(ctx context.Context, category *Category, page Page) ([]Post, int, error) {
	return s.list(ctx, ListFilter{Category: category, PublishedOnly: true}, page, 10)
}

func (s *Service) ListAll(ctx context.Context, page Page) ([]Post, int, error) {
	return s.list(ctx, ListFilter{}, page, 10)
}

func (s *Service) list(ctx context.Context, filter ListFilter, page Page, defaultLimit int) ([]Post, int, error) {
	return s.repo.List(ctx, filter, page.Normalize(defaultLimit))
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}
