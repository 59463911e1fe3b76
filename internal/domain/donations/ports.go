package donations

import "context"

// CheckoutInput es lo mínimo que Stripe necesita para armar la sesión.
type CheckoutInput struct {
	Amount     float64
	Recurring  bool
	DonorEmail string
}

type CheckoutSession struct {
	ID     string
	URL    string
	Status string // open | complete | expired
}

type WebhookEvent struct {
	Type      string // p.ej. checkout.session.completed
	SessionID string
}

// CheckoutProvider abstrae al proveedor de pago con tarjeta.
// La implementación real vive en internal/adapters/payments/stripe.
type CheckoutProvider interface {
	CreateSession(ctx context.Context, in CheckoutInput) (CheckoutSession, error)
	GetSession(ctx context.Context, id string) (CheckoutSession, error)

	// VerifyWebhook valida la firma y decodifica el evento. El caller decide
	// qué tipos le interesan.
	VerifyWebhook(payload []byte, signature string) (WebhookEvent, error)
}
