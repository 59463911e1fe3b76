package blog

import (
	"context"
	"strings"
	"testing"
	"time"
)

type testRepo struct {
	seq  int64
	byID map[int64]Post
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[int64]Post{}}
}

func (r *testRepo) Create(ctx context.Context, p Post) (Post, error) {
	r.seq++
	p.ID = r.seq
	r.byID[p.ID] = p
	return p, nil
}

func (r *testRepo) GetByID(ctx context.Context, id int64) (Post, error) {
	p, ok := r.byID[id]
	if !ok {
		return Post{}, ErrNotFound
	}
	return p, nil
}

func (r *testRepo) GetPublishedBySlug(ctx context.Context, slug string) (Post, error) {
	for _, p := range r.byID {
		if p.Slug == slug && p.Published {
			return p, nil
		}
	}
	return Post{}, ErrNotFound
}

func (r *testRepo) List(ctx context.Context, filter ListFilter, page Page) ([]Post, int, error) {
	out := make([]Post, 0)
	for _, p := range r.byID {
		if filter.PublishedOnly && !p.Published {
			continue
		}
		out = append(out, p)
	}
	return out, len(out), nil
}

func (r *testRepo) Update(ctx context.Context, p Post) (Post, error) {
	if _, ok := r.byID[p.ID]; !ok {
		return Post{}, ErrNotFound
	}
	r.byID[p.ID] = p
	return p, nil
}

func (r *testRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *testRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	for _, p := range r.byID {
		if p.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func validPost() PostInput {
	return PostInput{
		Title:    "Feira de Adoção 2026",
		Content:  strings.Repeat("Venha conhecer os animais disponíveis. ", 3),
		Excerpt:  "Feira de adoção no parque central, sábado de manhã.",
		Category: "eventos",
	}
}

func TestService_Create_SlugCollision_AddsSuffix(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	p1, err := svc.Create(context.Background(), validPost())
	if err != nil {
		t.Fatalf("create #1 error: %v", err)
	}
	p2, err := svc.Create(context.Background(), validPost())
	if err != nil {
		t.Fatalf("create #2 error: %v", err)
	}
	p3, err := svc.Create(context.Background(), validPost())
	if err != nil {
		t.Fatalf("create #3 error: %v", err)
	}

	if p1.Slug != "feira-de-adocao-2026" {
		t.Fatalf("unexpected base slug %q", p1.Slug)
	}
	if p2.Slug != "feira-de-adocao-2026-2" || p3.Slug != "feira-de-adocao-2026-3" {
		t.Fatalf("expected numeric suffixes, got %q and %q", p2.Slug, p3.Slug)
	}
}

func TestService_PublishedAt_SetOnFirstPublishOnly(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	t1 := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return t1 }

	in := validPost()
	p, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if p.PublishedAt != nil {
		t.Fatalf("draft should not have PublishedAt")
	}

	// primera publicación
	t2 := t1.Add(24 * time.Hour)
	svc.now = func() time.Time { return t2 }
	in.Published = true
	p, err = svc.Update(context.Background(), p.ID, in)
	if err != nil {
		t.Fatalf("publish error: %v", err)
	}
	if p.PublishedAt == nil || !p.PublishedAt.Equal(t2) {
		t.Fatalf("expected PublishedAt=t2, got %v", p.PublishedAt)
	}

	// despublicar y republicar: PublishedAt original se conserva
	t3 := t2.Add(24 * time.Hour)
	svc.now = func() time.Time { return t3 }
	in.Published = false
	if _, err := svc.Update(context.Background(), p.ID, in); err != nil {
		t.Fatalf("unpublish error: %v", err)
	}
	in.Published = true
	p, err = svc.Update(context.Background(), p.ID, in)
	if err != nil {
		t.Fatalf("republish error: %v", err)
	}
	if p.PublishedAt == nil || !p.PublishedAt.Equal(t2) {
		t.Fatalf("expected original PublishedAt kept, got %v", p.PublishedAt)
	}
}

func TestService_Update_KeepsSlug(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	p, err := svc.Create(context.Background(), validPost())
	if err != nil {
		t.Fatalf("create error: %v", err)
	}

	in := validPost()
	in.Title = "Título completamente distinto"
	updated, err := svc.Update(context.Background(), p.ID, in)
	if err != nil {
		t.Fatalf("update error: %v", err)
	}
	if updated.Slug != p.Slug {
		t.Fatalf("slug must not change on update: %q vs %q", updated.Slug, p.Slug)
	}
}
