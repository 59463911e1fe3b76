package donations

import "context"

type Repository interface {
	Create(ctx context.Context, d Donation) (Donation, error)
	GetByID(ctx context.Context, id int64) (Donation, error)

	// MarkCompletedBySession concilia un pago Stripe confirmado por webhook.
	MarkCompletedBySession(ctx context.Context, sessionID string) (Donation, error)

	ListRecentCompleted(ctx context.Context, limit int) ([]Donation, error)
	SumCompleted(ctx context.Context) (float64, error)
}
