package donations

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"ong-shelter-api/internal/platform/logger"
)

func RegisterRoutes(public chi.Router, svc *Service, log logger.Logger) {
	public.Post("/donations", createHandler(svc, log))

	public.Post("/payments/pix/generate", pixHandler(svc, log))
	public.Post("/payments/stripe/create-session", stripeSessionHandler(svc, log))
	public.Get("/payments/stripe/session/{sessionID}", stripeSessionStatusHandler(svc, log))
	public.Post("/payments/stripe/webhook", stripeWebhookHandler(svc, log))
}

type donationRequest struct {
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"paymentMethod"`
	DonorName     string  `json:"donorName"`
	DonorEmail    string  `json:"donorEmail"`
	Recurring     bool    `json:"recurring"`
}

type donationResponse struct {
	ID         int64     `json:"id"`
	Amount     float64   `json:"amount"`
	Method     string    `json:"paymentMethod"`
	DonorName  string    `json:"donorName,omitempty"`
	DonorEmail string    `json:"donorEmail,omitempty"`
	Recurring  bool      `json:"recurring"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (req donationRequest) toInput() Input {
	return Input{
		Amount:     req.Amount,
		Method:     req.PaymentMethod,
		DonorName:  req.DonorName,
		DonorEmail: req.DonorEmail,
		Recurring:  req.Recurring,
	}
}

func createHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req donationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		d, err := svc.Create(r.Context(), req.toInput())
		if err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) {
				writeError(w, http.StatusBadRequest, verr.Message)
				return
			}
			log.Error("donation create failed", map[string]any{"error": err.Error()})
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		writeJSON(w, http.StatusCreated, map[string]any{
			"message":  "donation registered successfully",
			"donation": toDonationResponse(d),
		})
	}
}

func pixHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req donationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		d, payload, err := svc.GeneratePix(r.Context(), req.toInput())
		if err != nil {
			var verr *ValidationError
			switch {
			case errors.As(err, &verr):
				writeError(w, http.StatusBadRequest, verr.Message)
			case errors.Is(err, ErrPixNotConfigured):
				writeError(w, http.StatusServiceUnavailable, ErrPixNotConfigured.Error())
			default:
				log.Error("pix generate failed", map[string]any{"error": err.Error()})
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
			return
		}

		writeJSON(w, http.StatusCreated, map[string]any{
			"donation":   toDonationResponse(d),
			"pixPayload": payload.Code,
			"txId":       payload.TxID,
			"amount":     payload.Amount,
		})
	}
}

func stripeSessionHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req donationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		d, session, err := svc.CreateStripeSession(r.Context(), req.toInput())
		if err != nil {
			var verr *ValidationError
			switch {
			case errors.As(err, &verr):
				writeError(w, http.StatusBadRequest, verr.Message)
			case errors.Is(err, ErrStripeNotConfigured):
				writeError(w, http.StatusServiceUnavailable, ErrStripeNotConfigured.Error())
			default:
				log.Error("stripe session create failed", map[string]any{"error": err.Error()})
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
			return
		}

		writeJSON(w, http.StatusCreated, map[string]any{
			"donation":  toDonationResponse(d),
			"sessionId": session.ID,
			"url":       session.URL,
		})
	}
}

func stripeSessionStatusHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := svc.GetStripeSession(r.Context(), chi.URLParam(r, "sessionID"))
		if err != nil {
			if errors.Is(err, ErrStripeNotConfigured) {
				writeError(w, http.StatusServiceUnavailable, ErrStripeNotConfigured.Error())
				return
			}
			log.Error("stripe session status failed", map[string]any{"error": err.Error()})
			writeError(w, http.StatusBadGateway, "payment provider error")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"sessionId": session.ID,
			"status":    session.Status,
		})
	}
}

func stripeWebhookHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// El body va crudo: la firma cubre los bytes exactos.
		payload, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid body")
			return
		}

		if err := svc.HandleStripeWebhook(r.Context(), payload, r.Header.Get("Stripe-Signature")); err != nil {
			log.Warn("stripe webhook rejected", map[string]any{"error": err.Error()})
			writeError(w, http.StatusBadRequest, "webhook error")
			return
		}

		writeJSON(w, http.StatusOK, map[string]bool{"received": true})
	}
}

func toDonationResponse(d Donation) donationResponse {
	return donationResponse{
		ID:         d.ID,
		Amount:     d.Amount,
		Method:     string(d.Method),
		DonorName:  d.DonorName,
		DonorEmail: d.DonorEmail,
		Recurring:  d.Recurring,
		Status:     string(d.Status),
		CreatedAt:  d.CreatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
