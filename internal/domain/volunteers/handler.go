package volunteers

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
	public.Post("/volunteers", registerHandler(svc, log))

	staff.Get("/volunteers", listHandler(svc, log))
	staff.Patch("/volunteers/{id}/status", updateStatusHandler(svc, log))
}

type registerRequest struct {
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	Phone        string   `json:"phone"`
	Availability string   `json:"availability"`
	Experience   string   `json:"experience"`
	Areas        []string `json:"areas"`
}

type volunteerResponse struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Availability string    `json:"availability"`
	Experience   string    `json:"experience,omitempty"`
	Areas        []string  `json:"areas"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

func registerHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		v, err := svc.Register(r.Context(), RegisterInput{
			Name:         req.Name,
			Email:        req.Email,
			Phone:        req.Phone,
			Availability: req.Availability,
			Experience:   req.Experience,
			Areas:        req.Areas,
		})
		if err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) {
				writeError(w, http.StatusBadRequest, verr.Message)
				return
			}
			log.Error("volunteer register failed", map[string]any{"error": err.Error()})
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		writeJSON(w, http.StatusCreated, map[string]any{
			"message":   "volunteer registered successfully",
			"volunteer": toVolunteerResponse(v),
		})
	}
}

func listHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		var filter ListFilter
		if raw := q.Get("status"); raw != "" {
			st := Status(raw)
			if st != StatusActive && st != StatusInactive {
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
			log.Error("volunteer list failed", map[string]any{"error": err.Error()})
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		out := make([]volunteerResponse, 0, len(items))
		for _, v := range items {
			out = append(out, toVolunteerResponse(v))
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"volunteers": out,
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

		v, err := svc.UpdateStatus(r.Context(), id, Status(req.Status))
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidStatus):
				writeError(w, http.StatusBadRequest, ErrInvalidStatus.Error())
			case errors.Is(err, ErrNotFound):
				writeError(w, http.StatusNotFound, ErrNotFound.Error())
			default:
				log.Error("volunteer status update failed", map[string]any{"volunteer_id": id, "error": err.Error()})
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"message":   "volunteer status updated successfully",
			"volunteer": toVolunteerResponse(v),
		})
	}
}

func toVolunteerResponse(v Volunteer) volunteerResponse {
	areas := v.Areas
	if areas == nil {
		areas = []string{}
	}
	return volunteerResponse{
		ID:           v.ID,
		Name:         v.Name,
		Email:        v.Email,
		Phone:        v.Phone,
		Availability: v.Availability,
		Experience:   v.Experience,
		Areas:        areas,
		Status:       string(v.Status),
		CreatedAt:    v.CreatedAt,
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
