package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"ong-shelter-api/internal/domain/donations"
)

type donationRepo struct {
	mu   sync.RWMutex
	seq  int64
	byID map[int64]donations.Donation
}

func NewDonationRepo() donations.Repository {
	return &donationRepo{
		byID: make(map[int64]donations.Donation),
	}
}

func (r *donationRepo) Create(ctx context.Context, d donations.Donation) (donations.Donation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	d.ID = r.seq
	r.byID[d.ID] = d
	return d, nil
}

func (r *donationRepo) GetByID(ctx context.Context, id int64) (donations.Donation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.byID[id]
	if !ok {
		return donations.Donation{}, donations.ErrNotFound
	}
	return d, nil
}

func (r *donationRepo) MarkCompletedBySession(ctx context.Context, sessionID string) (donations.Donation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, d := range r.byID {
		if d.StripeSessionID != "" && d.StripeSessionID == sessionID {
			d.Status = donations.StatusCompleted
			d.UpdatedAt = time.Now().UTC()
			r.byID[id] = d
			return d, nil
		}
	}
	return donations.Donation{}, donations.ErrNotFound
}

func (r *donationRepo) ListRecentCompleted(ctx context.Context, limit int) ([]donations.Donation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]donations.Donation, 0)
	for _, d := range r.byID {
		if d.Status == donations.StatusCompleted {
			out = append(out, d)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *donationRepo) SumCompleted(ctx context.Context) (float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var sum float64
	for _, d := range r.byID {
		if d.Status == donations.StatusCompleted {
			sum += d.Amount
		}
	}
	return sum, nil
}
