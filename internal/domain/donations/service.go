package donations

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"ong-shelter-api/internal/platform/logger"
	"ong-shelter-api/internal/platform/pix"
)

var (
	ErrNotFound            = errors.New("donation not found")
	ErrPixNotConfigured    = errors.New("pix payments are not configured")
	ErrStripeNotConfigured = errors.New("card payments are not configured")
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalidField(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

type Service struct {
	repo     Repository
	pixGen   *pix.Generator   // puede ser nil
	checkout CheckoutProvider // puede ser nil
	log      logger.Logger
	now      func() time.Time
}

func NewService(repo Repository, pixGen *pix.Generator, checkout CheckoutProvider, log logger.Logger) *Service {
	return &Service{
		repo:     repo,
		pixGen:   pixGen,
		checkout: checkout,
		log:      log,
		now:      time.Now,
	}
}

type Input struct {
	Amount     float64
	Method     string
	DonorName  string
	DonorEmail string
	Recurring  bool
}

func validate(in Input) (Input, error) {
	in.DonorName = strings.TrimSpace(in.DonorName)
	in.DonorEmail = strings.TrimSpace(in.DonorEmail)

	if in.Amount < 1 || in.Amount > 10000 {
		return in, invalidField("amount", "amount must be between 1 and 10000")
	}
	switch Method(in.Method) {
	case MethodPix, MethodStripe:
	default:
		return in, invalidField("paymentMethod", "paymentMethod must be pix or stripe")
	}
	if len([]rune(in.DonorName)) > 100 {
		return in, invalidField("donorName", "donorName must be at most 100 characters")
	}
	if in.DonorEmail != "" {
		if _, err := mail.ParseAddress(in.DonorEmail); err != nil {
			return in, invalidField("donorEmail", "donorEmail must be a valid email address")
		}
	}

	return in, nil
}

// Create registra una donación pending sin iniciar ningún cobro.
func (s *Service) Create(ctx context.Context, in Input) (Donation, error) {
	in, err := validate(in)
	if err != nil {
		return Donation{}, err
	}

	now := s.now()
	return s.repo.Create(ctx, Donation{
		Amount:     in.Amount,
		Method:     Method(in.Method),
		DonorName:  in.DonorName,
		DonorEmail: in.DonorEmail,
		Recurring:  in.Recurring,
		Status:     StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
}

// GeneratePix arma el payload copia-e-cola y deja la donación registrada
// como pending con su txid (la conciliación PIX es manual hoy).
func (s *Service) GeneratePix(ctx context.Context, in Input) (Donation, pix.Payload, error) {
	in.Method = string(MethodPix)
	in, err := validate(in)
	if err != nil {
		return Donation{}, pix.Payload{}, err
	}
	if !s.pixGen.IsConfigured() {
		return Donation{}, pix.Payload{}, ErrPixNotConfigured
	}

	payload, err := s.pixGen.Generate(in.Amount)
	if err != nil {
		return Donation{}, pix.Payload{}, err
	}

	now := s.now()
	d, err := s.repo.Create(ctx, Donation{
		Amount:     in.Amount,
		Method:     MethodPix,
		DonorName:  in.DonorName,
		DonorEmail: in.DonorEmail,
		Status:     StatusPending,
		TxID:       payload.TxID,
		PixPayload: payload.Code,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		return Donation{}, pix.Payload{}, err
	}

	return d, payload, nil
}

// CreateStripeSession crea la sesión de checkout y registra la donación
// pending atada a esa sesión.
func (s *Service) CreateStripeSession(ctx context.Context, in Input) (Donation, CheckoutSession, error) {
	in.Method = string(MethodStripe)
	in, err := validate(in)
	if err != nil {
		return Donation{}, CheckoutSession{}, err
	}
	if s.checkout == nil {
		return Donation{}, CheckoutSession{}, ErrStripeNotConfigured
	}

	session, err := s.checkout.CreateSession(ctx, CheckoutInput{
		Amount:     in.Amount,
		Recurring:  in.Recurring,
		DonorEmail: in.DonorEmail,
	})
	if err != nil {
		return Donation{}, CheckoutSession{}, err
	}

	now := s.now()
	d, err := s.repo.Create(ctx, Donation{
		Amount:          in.Amount,
		Method:          MethodStripe,
		DonorName:       in.DonorName,
		DonorEmail:      in.DonorEmail,
		Recurring:       in.Recurring,
		Status:          StatusPending,
		StripeSessionID: session.ID,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		return Donation{}, CheckoutSession{}, err
	}

	return d, session, nil
}

func (s *Service) GetStripeSession(ctx context.Context, sessionID string) (CheckoutSession, error) {
	if s.checkout == nil {
		return CheckoutSession{}, ErrStripeNotConfigured
	}
	return s.checkout.GetSession(ctx, sessionID)
}

// HandleStripeWebhook verifica la firma y concilia la donación si la sesión
// se completó. Eventos de otros tipos se ignoran sin error (Stripe reintenta
// solo ante non-2xx).
func (s *Service) HandleStripeWebhook(ctx context.Context, payload []byte, signature string) error {
	if s.checkout == nil {
		return ErrStripeNotConfigured
	}

	event, err := s.checkout.VerifyWebhook(payload, signature)
	if err != nil {
		return err
	}

	if event.Type != "checkout.session.completed" || event.SessionID == "" {
		return nil
	}

	d, err := s.repo.MarkCompletedBySession(ctx, event.SessionID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Sesión desconocida: webhook de otro entorno o donación borrada.
			s.log.Warn("stripe webhook for unknown session", map[string]any{
				"session_id": event.SessionID,
			})
			return nil
		}
		return err
	}

	s.log.Info("donation completed", map[string]any{
		"donation_id": d.ID,
		"amount":      d.Amount,
	})
	return nil
}
