package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"ong-shelter-api/internal/domain/adoptions"
	"ong-shelter-api/internal/domain/dogs"
)

type adoptionRepo struct {
	mu   sync.Mutex
	seq  int64
	byID map[int64]adoptions.AdoptionRequest

	// catálogo para el join de la vista; en postgres es un LEFT JOIN
	dogs dogs.Repository
}

func NewAdoptionRepo(dogsRepo dogs.Repository) adoptions.Repository {
	return &adoptionRepo{
		byID: make(map[int64]adoptions.AdoptionRequest),
		dogs: dogsRepo,
	}
}

func (r *adoptionRepo) Create(ctx context.Context, a adoptions.AdoptionRequest) (adoptions.AdoptionRequest, error) {
	r.mu.Lock()
	r.seq++
	a.ID = r.seq
	r.byID[a.ID] = a
	r.mu.Unlock()

	return r.GetByIDWithDog(ctx, a.ID)
}

func (r *adoptionRepo) GetByID(ctx context.Context, id int64) (adoptions.AdoptionRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return adoptions.AdoptionRequest{}, adoptions.ErrNotFound
	}
	return a, nil
}

func (r *adoptionRepo) GetByIDWithDog(ctx context.Context, id int64) (adoptions.AdoptionRequest, error) {
	a, err := r.GetByID(ctx, id)
	if err != nil {
		return adoptions.AdoptionRequest{}, err
	}
	a.Dog = r.dogView(ctx, a.DogID)
	return a, nil
}

func (r *adoptionRepo) List(ctx context.Context, filter adoptions.ListFilter, page adoptions.Page) ([]adoptions.AdoptionRequest, int, error) {
	r.mu.Lock()
	all := make([]adoptions.AdoptionRequest, 0, len(r.byID))
	for _, a := range r.byID {
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		all = append(all, a)
	}
	r.mu.Unlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID > all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	total := len(all)
	lo, hi := pageBounds(total, page.Page, page.Limit)
	out := all[lo:hi]
	for i := range out {
		out[i].Dog = r.dogView(ctx, out[i].DogID)
	}
	return out, total, nil
}

func (r *adoptionRepo) UpdateStatusLocked(ctx context.Context, id int64, status adoptions.Status, reason *string) (adoptions.AdoptionRequest, adoptions.Status, error) {
	// El mutex cumple el rol del row lock: previo y nuevo son atómicos.
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return adoptions.AdoptionRequest{}, "", adoptions.ErrNotFound
	}

	prev := a.Status
	a.Status = status
	if reason != nil {
		a.RejectionReason = *reason
	}
	a.UpdatedAt = time.Now().UTC()
	r.byID[id] = a
	return a, prev, nil
}

func (r *adoptionRepo) CountByStatus(ctx context.Context, status adoptions.Status) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, a := range r.byID {
		if a.Status == status {
			n++
		}
	}
	return n, nil
}

func (r *adoptionRepo) dogView(ctx context.Context, dogID int64) *adoptions.DogView {
	if r.dogs == nil {
		return nil
	}
	d, err := r.dogs.GetByID(ctx, dogID)
	if err != nil {
		return nil
	}
	return &adoptions.DogView{
		Name:      d.Name,
		Images:    d.Images,
		Available: d.Available,
		Status:    string(d.Status),
	}
}
