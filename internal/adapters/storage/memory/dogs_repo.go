// Package memory implementa los repositorios en memoria para dev y tests.
// No hay durabilidad; la semántica replica la de postgres.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"ong-shelter-api/internal/domain/dogs"
)

type dogRepo struct {
	mu   sync.RWMutex
	seq  int64
	byID map[int64]dogs.Dog
}

func NewDogRepo() dogs.Repository {
	return &dogRepo{
		byID: make(map[int64]dogs.Dog),
	}
}

func (r *dogRepo) Create(ctx context.Context, d dogs.Dog) (dogs.Dog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	d.ID = r.seq
	r.byID[d.ID] = d
	return d, nil
}

func (r *dogRepo) GetByID(ctx context.Context, id int64) (dogs.Dog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.byID[id]
	if !ok {
		return dogs.Dog{}, dogs.ErrNotFound
	}
	return d, nil
}

func (r *dogRepo) List(ctx context.Context, filter dogs.ListFilter, page dogs.Page) ([]dogs.Dog, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]dogs.Dog, 0, len(r.byID))
	for _, d := range r.byID {
		if matchesDogFilter(d, filter) {
			all = append(all, d)
		}
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	total := len(all)
	lo, hi := pageBounds(total, page.Page, page.Limit)
	return all[lo:hi], total, nil
}

func (r *dogRepo) Update(ctx context.Context, d dogs.Dog) (dogs.Dog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[d.ID]; !ok {
		return dogs.Dog{}, dogs.ErrNotFound
	}
	r.byID[d.ID] = d
	return d, nil
}

func (r *dogRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return dogs.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *dogRepo) SetAvailability(ctx context.Context, id int64, available bool, status dogs.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.byID[id]
	if !ok {
		return dogs.ErrNotFound
	}
	d.Available = available
	d.Status = status
	r.byID[id] = d
	return nil
}

func (r *dogRepo) Count(ctx context.Context, onlyAvailable bool) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, d := range r.byID {
		if !onlyAvailable || d.Available {
			n++
		}
	}
	return n, nil
}

func matchesDogFilter(d dogs.Dog, filter dogs.ListFilter) bool {
	switch {
	case filter.All:
		// sin filtro de disponibilidad
	case filter.Available != nil:
		if d.Available != *filter.Available {
			return false
		}
	default:
		if !d.Available || d.Status == dogs.StatusAdopted {
			return false
		}
	}

	if filter.Size != "" && d.Size != filter.Size {
		return false
	}
	if filter.Gender != "" && d.Gender != filter.Gender {
		return false
	}
	if filter.AnimalType != "" && d.AnimalType != filter.AnimalType {
		return false
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		if !strings.Contains(strings.ToLower(d.Name), strings.ToLower(s)) {
			return false
		}
	}
	return true
}

func pageBounds(total, page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = total
	}
	lo := (page - 1) * limit
	if lo > total {
		lo = total
	}
	hi := lo + limit
	if hi > total {
		hi = total
	}
	return lo, hi
}
