package memory

import (
	"context"
	"sort"
	"sync"

	"ong-shelter-api/internal/domain/volunteers"
)

type volunteerRepo struct {
	mu   sync.RWMutex
	seq  int64
	byID map[int64]volunteers.Volunteer
}

func NewVolunteerRepo() volunteers.Repository {
	return &volunteerRepo{
		byID: make(map[int64]volunteers.Volunteer),
	}
}

func (r *volunteerRepo) Create(ctx context.Context, v volunteers.Volunteer) (volunteers.Volunteer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	v.ID = r.seq
	r.byID[v.ID] = v
	return v, nil
}

func (r *volunteerRepo) List(ctx context.Context, filter volunteers.ListFilter, page volunteers.Page) ([]volunteers.Volunteer, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]volunteers.Volunteer, 0, len(r.byID))
	for _, v := range r.byID {
		if filter.Status != nil && v.Status != *filter.Status {
			continue
		}
		all = append(all, v)
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID > all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	total := len(all)
	lo, hi := pageBounds(total, page.Page, page.Limit)
	return all[lo:hi], total, nil
}

func (r *volunteerRepo) UpdateStatus(ctx context.Context, id int64, status volunteers.Status) (volunteers.Volunteer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.byID[id]
	if !ok {
		return volunteers.Volunteer{}, volunteers.ErrNotFound
	}
	v.Status = status
	r.byID[id] = v
	return v, nil
}

func (r *volunteerRepo) CountByStatus(ctx context.Context, status volunteers.Status) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, v := range r.byID {
		if v.Status == status {
			n++
		}
	}
	return n, nil
}
