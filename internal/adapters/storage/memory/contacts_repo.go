package memory

import (
	"context"
	"sort"
	"sync"

	"ong-shelter-api/internal/domain/contacts"
)

type contactRepo struct {
	mu   sync.RWMutex
	seq  int64
	byID map[int64]contacts.Contact
}

func NewContactRepo() contacts.Repository {
	return &contactRepo{
		byID: make(map[int64]contacts.Contact),
	}
}

func (r *contactRepo) Create(ctx context.Context, c contacts.Contact) (contacts.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	c.ID = r.seq
	r.byID[c.ID] = c
	return c, nil
}

func (r *contactRepo) List(ctx context.Context, filter contacts.ListFilter, page contacts.Page) ([]contacts.Contact, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]contacts.Contact, 0, len(r.byID))
	for _, c := range r.byID {
		if filter.Status != nil && c.Status != *filter.Status {
			continue
		}
		all = append(all, c)
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

func (r *contactRepo) UpdateStatus(ctx context.Context, id int64, status contacts.Status) (contacts.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.byID[id]
	if !ok {
		return contacts.Contact{}, contacts.ErrNotFound
	}
	c.Status = status
	r.byID[id] = c
	return c, nil
}

func (r *contactRepo) CountByStatus(ctx context.Context, status contacts.Status) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, c := range r.byID {
		if c.Status == status {
			n++
		}
	}
	return n, nil
}
