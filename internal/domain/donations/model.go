package donations

import "time"

type Method string

const (
	MethodPix    Method = "pix"
	MethodStripe Method = "stripe"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Donation registra una intención de donación y su confirmación posterior
// (webhook Stripe o conciliación manual PIX).
type Donation struct {
	ID int64

	Amount float64 // BRL
	Method Method

	DonorName  string
	DonorEmail string
	Recurring  bool

	Status Status

	// PIX
	TxID       string
	PixPayload string

	// Stripe
	StripeSessionID string

	CreatedAt time.Time
	UpdatedAt time.Time
}
