package adoptions

import (
	"context"
	"errors"
	"testing"
	"time"

	"ong-shelter-api/internal/domain/dogs"
	"ong-shelter-api/internal/platform/logger"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	seq  int64
	byID map[int64]AdoptionRequest
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[int64]AdoptionRequest{}}
}

func (r *testRepo) Create(ctx context.Context, a AdoptionRequest) (AdoptionRequest, error) {
	r.seq++
	a.ID = r.seq
	r.byID[a.ID] = a
	return a, nil
}

func (r *testRepo) GetByID(ctx context.Context, id int64) (AdoptionRequest, error) {
	a, ok := r.byID[id]
	if !ok {
		return AdoptionRequest{}, ErrNotFound
	}
	return a, nil
}

func (r *testRepo) GetByIDWithDog(ctx context.Context, id int64) (AdoptionRequest, error) {
	return r.GetByID(ctx, id)
}

func (r *testRepo) List(ctx context.Context, filter ListFilter, page Page) ([]AdoptionRequest, int, error) {
	out := make([]AdoptionRequest, 0, len(r.byID))
	for _, a := range r.byID {
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		out = append(out, a)
	}
	return out, len(out), nil
}

func (r *testRepo) UpdateStatusLocked(ctx context.Context, id int64, status Status, reason *string) (AdoptionRequest, Status, error) {
	a, ok := r.byID[id]
	if !ok {
		return AdoptionRequest{}, "", ErrNotFound
	}
	prev := a.Status
	a.Status = status
	if reason != nil {
		a.RejectionReason = *reason
	}
	r.byID[id] = a
	return a, prev, nil
}

func (r *testRepo) CountByStatus(ctx context.Context, status Status) (int, error) {
	n := 0
	for _, a := range r.byID {
		if a.Status == status {
			n++
		}
	}
	return n, nil
}

// -------------------------
// Test catalog
// -------------------------

type testCatalog struct {
	byID map[int64]dogs.Dog

	markAdoptedCalls []int64
	reopenCalls      []int64
	failSync         error
}

func newTestCatalog(ds ...dogs.Dog) *testCatalog {
	c := &testCatalog{byID: map[int64]dogs.Dog{}}
	for _, d := range ds {
		c.byID[d.ID] = d
	}
	return c
}

func (c *testCatalog) GetByID(ctx context.Context, id int64) (dogs.Dog, error) {
	d, ok := c.byID[id]
	if !ok {
		return dogs.Dog{}, dogs.ErrNotFound
	}
	return d, nil
}

func (c *testCatalog) MarkAdopted(ctx context.Context, id int64) error {
	if c.failSync != nil {
		return c.failSync
	}
	c.markAdoptedCalls = append(c.markAdoptedCalls, id)
	d, ok := c.byID[id]
	if !ok {
		return dogs.ErrNotFound
	}
	d.Available = false
	d.Status = dogs.StatusAdopted
	c.byID[id] = d
	return nil
}

func (c *testCatalog) Reopen(ctx context.Context, id int64) error {
	if c.failSync != nil {
		return c.failSync
	}
	c.reopenCalls = append(c.reopenCalls, id)
	d, ok := c.byID[id]
	if !ok {
		return dogs.ErrNotFound
	}
	d.Available = true
	d.Status = dogs.StatusAvailable
	c.byID[id] = d
	return nil
}

func availableDog(id int64) dogs.Dog {
	return dogs.Dog{
		ID:        id,
		Name:      "Thor",
		Available: true,
		Status:    dogs.StatusAvailable,
	}
}

func validSubmit(dogID int64) SubmitInput {
	return SubmitInput{
		DogID:      dogID,
		Name:       "Maria Silva",
		Email:      "maria@example.com",
		Phone:      "(11) 98888-7777",
		Address:    "Rua das Flores 123, São Paulo",
		Experience: "I had two dogs before",
		Reason:     "I want to give a dog a home",
	}
}

func newTestService(repo Repository, catalog DogCatalog) *Service {
	return NewService(repo, catalog, nil, logger.New(logger.Options{Level: logger.Error}))
}

// -------------------------
// Tests
// -------------------------

func TestService_Submit_NormalizesPhone_AndStartsPending(t *testing.T) {
	repo := newTestRepo()
	catalog := newTestCatalog(availableDog(7))
	svc := newTestService(repo, catalog)

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	a, err := svc.Submit(context.Background(), validSubmit(7))
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if a.Status != StatusPending {
		t.Fatalf("expected status pending, got %s", a.Status)
	}
	if a.Phone != "11988887777" {
		t.Fatalf("expected digits-only phone, got %q", a.Phone)
	}
	if a.CreatedAt != now || a.UpdatedAt != now {
		t.Fatalf("expected CreatedAt/UpdatedAt to be now")
	}
}

func TestService_Submit_RejectsUnknownDog(t *testing.T) {
	svc := newTestService(newTestRepo(), newTestCatalog())

	_, err := svc.Submit(context.Background(), validSubmit(99))
	if !errors.Is(err, ErrDogNotFound) {
		t.Fatalf("expected ErrDogNotFound, got %v", err)
	}
}

func TestService_Submit_RejectsUnavailableDog(t *testing.T) {
	d := availableDog(7)
	d.Available = false
	d.Status = dogs.StatusAdopted

	repo := newTestRepo()
	svc := newTestService(repo, newTestCatalog(d))

	_, err := svc.Submit(context.Background(), validSubmit(7))
	if !errors.Is(err, ErrDogUnavailable) {
		t.Fatalf("expected ErrDogUnavailable, got %v", err)
	}
	if len(repo.byID) != 0 {
		t.Fatalf("expected no request persisted, got %d", len(repo.byID))
	}
}

func TestService_Submit_ValidationReportsField(t *testing.T) {
	svc := newTestService(newTestRepo(), newTestCatalog(availableDog(7)))

	in := validSubmit(7)
	in.Phone = "123"

	_, err := svc.Submit(context.Background(), in)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Field != "phone" {
		t.Fatalf("expected failing field phone, got %s", verr.Field)
	}
}

func TestService_UpdateStatus_ApproveMarksDogAdopted(t *testing.T) {
	repo := newTestRepo()
	catalog := newTestCatalog(availableDog(7))
	svc := newTestService(repo, catalog)

	a, err := svc.Submit(context.Background(), validSubmit(7))
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}

	res, err := svc.UpdateStatus(context.Background(), a.ID, StatusApproved, "")
	if err != nil {
		t.Fatalf("UpdateStatus error: %v", err)
	}
	if res.Adoption.Status != StatusApproved {
		t.Fatalf("expected approved, got %s", res.Adoption.Status)
	}
	if res.DogSyncErr != nil {
		t.Fatalf("unexpected sync error: %v", res.DogSyncErr)
	}
	if len(catalog.markAdoptedCalls) != 1 || catalog.markAdoptedCalls[0] != 7 {
		t.Fatalf("expected MarkAdopted(7), got %v", catalog.markAdoptedCalls)
	}

	d, _ := catalog.GetByID(context.Background(), 7)
	if d.Available || d.Status != dogs.StatusAdopted {
		t.Fatalf("expected dog adopted and unavailable, got available=%v status=%s", d.Available, d.Status)
	}
}

func TestService_UpdateStatus_ReversalReopensDog(t *testing.T) {
	repo := newTestRepo()
	catalog := newTestCatalog(availableDog(7))
	svc := newTestService(repo, catalog)

	a, _ := svc.Submit(context.Background(), validSubmit(7))
	if _, err := svc.UpdateStatus(context.Background(), a.ID, StatusApproved, ""); err != nil {
		t.Fatalf("approve error: %v", err)
	}

	res, err := svc.UpdateStatus(context.Background(), a.ID, StatusRejected, "changed our minds")
	if err != nil {
		t.Fatalf("reject error: %v", err)
	}
	if res.Adoption.Status != StatusRejected {
		t.Fatalf("expected rejected, got %s", res.Adoption.Status)
	}
	if res.Adoption.RejectionReason != "changed our minds" {
		t.Fatalf("expected rejection reason persisted, got %q", res.Adoption.RejectionReason)
	}
	if len(catalog.reopenCalls) != 1 || catalog.reopenCalls[0] != 7 {
		t.Fatalf("expected Reopen(7), got %v", catalog.reopenCalls)
	}

	d, _ := catalog.GetByID(context.Background(), 7)
	if !d.Available || d.Status != dogs.StatusAvailable {
		t.Fatalf("expected dog reopened, got available=%v status=%s", d.Available, d.Status)
	}
}

func TestService_UpdateStatus_PendingToRejected_DoesNotTouchDog(t *testing.T) {
	repo := newTestRepo()
	catalog := newTestCatalog(availableDog(7))
	svc := newTestService(repo, catalog)

	a, _ := svc.Submit(context.Background(), validSubmit(7))

	res, err := svc.UpdateStatus(context.Background(), a.ID, StatusRejected, "not a good fit")
	if err != nil {
		t.Fatalf("UpdateStatus error: %v", err)
	}
	if res.Adoption.Status != StatusRejected {
		t.Fatalf("expected rejected, got %s", res.Adoption.Status)
	}
	if len(catalog.markAdoptedCalls) != 0 || len(catalog.reopenCalls) != 0 {
		t.Fatalf("expected no catalog calls, got mark=%v reopen=%v",
			catalog.markAdoptedCalls, catalog.reopenCalls)
	}
}

func TestService_UpdateStatus_RejectWithoutReason_KeepsPrevious(t *testing.T) {
	repo := newTestRepo()
	catalog := newTestCatalog(availableDog(7))
	svc := newTestService(repo, catalog)

	a, _ := svc.Submit(context.Background(), validSubmit(7))

	if _, err := svc.UpdateStatus(context.Background(), a.ID, StatusRejected, "too far away"); err != nil {
		t.Fatalf("reject error: %v", err)
	}
	// reaprobar y volver a rechazar sin motivo: el motivo anterior queda
	if _, err := svc.UpdateStatus(context.Background(), a.ID, StatusApproved, ""); err != nil {
		t.Fatalf("approve error: %v", err)
	}
	res, err := svc.UpdateStatus(context.Background(), a.ID, StatusRejected, "")
	if err != nil {
		t.Fatalf("second reject error: %v", err)
	}
	if res.Adoption.RejectionReason != "too far away" {
		t.Fatalf("expected previous reason kept, got %q", res.Adoption.RejectionReason)
	}
}

func TestService_UpdateStatus_DogSyncFailure_DoesNotRollBack(t *testing.T) {
	repo := newTestRepo()
	catalog := newTestCatalog(availableDog(7))
	svc := newTestService(repo, catalog)

	a, _ := svc.Submit(context.Background(), validSubmit(7))

	catalog.failSync = errors.New("dog deleted concurrently")

	res, err := svc.UpdateStatus(context.Background(), a.ID, StatusApproved, "")
	if err != nil {
		t.Fatalf("UpdateStatus should not fail on sync error, got %v", err)
	}
	if res.DogSyncErr == nil {
		t.Fatalf("expected DogSyncErr to surface the sync failure")
	}
	if res.Adoption.Status != StatusApproved {
		t.Fatalf("expected approved status persisted, got %s", res.Adoption.Status)
	}

	stored, _ := repo.GetByID(context.Background(), a.ID)
	if stored.Status != StatusApproved {
		t.Fatalf("expected approved in repo, got %s", stored.Status)
	}
}

func TestService_UpdateStatus_InvalidStatus(t *testing.T) {
	svc := newTestService(newTestRepo(), newTestCatalog())

	_, err := svc.UpdateStatus(context.Background(), 1, Status("archived"), "")
	if !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}
