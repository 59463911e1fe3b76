package contacts

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"ong-shelter-api/internal/platform/logger"
)

func RegisterRoutes(public chi.Router, staff chi.Router, svc *Service, log logger.Logger) {
	public.Post("/contacts", submitHandler(svc, log))

	staff.Get("/contacts", listHandler(svc, log))
	staff.Patch("/contacts/{id}/status", updateStatusHandler(svc, log))
}

type submitRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type contactResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject,omitempty"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

func submitHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req submitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		c, err := svc.Submit(r.Context(), SubmitInput{
			Name:    req.Name,
			Email:   req.Email,
			Subject: req.Subject,
			Message: req.Message,
		})
		if err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) {
				writeError(w, http.StatusBadRequest, verr.Message)
				return
			}
			log.Error("contact submit failed", map[string]any{"error": err.Error()})
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		writeJSON(w, http.StatusCreated, map[string]any{
			"message": "message sent successfully",
			"contact": toContactResponse(c),
		})
	}
}

func listHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		var filter ListFilter
		if raw := q.Get("status"); raw != "" {
			st := Status(raw)
			if st != StatusRead && st != StatusUnread {
				writeError(w, http.StatusBadRequest, ErrInvalidStatus.Error())
				return
			}
			filter.Status = &st
		}

		page := Page{}
		if n, err := strconv.Atoi(q.Get("page")); err == nil {
			page.Page = n
		}
		if n, err := strconv.Atoi(q.Get("limit")); err == nil {
			page.Limit = n
		}
		page = page.Normalize(20)

		items, total, err := svc.List(r.Context(), filter, page)
		if err != nil {
			log.Error("contact list failed", map[string]any{"error": err.Error()})
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		out := make([]contactResponse, 0, len(items))
		for _, c := range items {
			out = append(out, toContactResponse(c))
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"contacts": out,
			"pagination": map[string]int{
				"page":  page.Page,
				"limit": page.Limit,
				"total": total,
				"pages": (total + page.Limit - 1) / page.Limit,
			},
		})
	}
}

func updateStatusHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusNotFound, ErrNotFound.Error())
			return
		}

		var req struct {
			Status string `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		c, err := svc.UpdateStatus(r.Context(), id, Status(req.Status))
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidStatus):
				writeError(w, http.StatusBadRequest, ErrInvalidStatus.Error())
			case errors.Is(err, ErrNotFound):
				writeError(w, http.StatusNotFound, ErrNotFound.Error())
			default:
				log.Error("contact status update failed", map[string]any{"contact_id": id, "error": err.Error()})
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"message": "contact status updated successfully",
			"contact": toContactResponse(c),
		})
	}
}

func toContactResponse(c Contact) contactResponse {
	return contactResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Subject:   c.Subject,
		Message:   c.Message,
		Status:    string(c.Status),
		CreatedAt: c.CreatedAt,
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
