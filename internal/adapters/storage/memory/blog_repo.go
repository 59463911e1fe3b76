package memory

import (
	"context"
	"sort"
	"sync"

	"ong-shelter-api/internal/domain/blog"
)

type blogRepo struct {
	mu   sync.RWMutex
	seq  int64
	byID map[int64]blog.Post
}

func NewBlogRepo() blog.Repository {
	return &blogRepo{
		byID: make(map[int64]blog.Post),
	}
}

func (r *blogRepo) Create(ctx context.Context, p blog.Post) (blog.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	p.ID = r.seq
	r.byID[p.ID] = p
	return p, nil
}

func (r *blogRepo) GetByID(ctx context.Context, id int64) (blog.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return blog.Post{}, blog.ErrNotFound
	}
	return p, nil
}

func (r *blogRepo) GetPublishedBySlug(ctx context.Context, slug string) (blog.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.byID {
		if p.Slug == slug && p.Published {
			return p, nil
		}
	}
	return blog.Post{}, blog.ErrNotFound
}

func (r *blogRepo) List(ctx context.Context, filter blog.ListFilter, page blog.Page) ([]blog.Post, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]blog.Post, 0, len(r.byID))
	for _, p := range r.byID {
		if filter.PublishedOnly && !p.Published {
			continue
		}
		if filter.Category != nil && p.Category != *filter.Category {
			continue
		}
		all = append(all, p)
	}

	if filter.PublishedOnly {
		sort.Slice(all, func(i, j int) bool {
			ti, tj := all[i].PublishedAt, all[j].PublishedAt
			if ti == nil || tj == nil {
				return all[i].ID > all[j].ID
			}
			return ti.After(*tj)
		})
	} else {
		sort.Slice(all, func(i, j int) bool {
			if all[i].CreatedAt.Equal(all[j].CreatedAt) {
				return all[i].ID > all[j].ID
			}
			return all[i].CreatedAt.After(all[j].CreatedAt)
		})
	}

	total := len(all)
	lo, hi := pageBounds(total, page.Page, page.Limit)
	return all[lo:hi], total, nil
}

func (r *blogRepo) Update(ctx context.Context, p blog.Post) (blog.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[p.ID]; !ok {
		return blog.Post{}, blog.ErrNotFound
	}
	r.byID[p.ID] = p
	return p, nil
}

func (r *blogRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return blog.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *blogRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.byID {
		if p.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}
