package adoptions

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
	// Público: cualquiera puede postular
	public.Post("/adoptions", submitHandler(svc, log))

	// Panel: listar y decidir
	staff.Get("/adoptions", listHandler(svc, log))
	staff.Patch("/adoptions/{id}/status", updateStatusHandler(svc, log))
}

type submitRequest struct {
	DogID      int64  `json:"dogId"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	Experience string `json:"experience"`
	Reason     string `json:"reason"`
}

type dogViewResponse struct {
	Name      string   `json:"name"`
	Images    []string `json:"images"`
	Available bool     `json:"available"`
	Status    string   `json:"status"`
}

type adoptionResponse struct {
	ID              int64            `json:"id"`
	DogID           int64            `json:"dogId"`
	Name            string           `json:"name"`
	Email           string           `json:"email"`
	Phone           string           `json:"phone"`
	Address         string           `json:"address"`
	Experience      string           `json:"experience"`
	Reason          string           `json:"reason"`
	Status          string           `json:"status"`
	RejectionReason string           `json:"rejectionReason,omitempty"`
	CreatedAt       time.Time        `json:"createdAt"`
	Dog             *dogViewResponse `json:"dog,omitempty"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

type paginationResponse struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

func submitHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req submitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		created, err := svc.Submit(r.Context(), SubmitInput{
			DogID:      req.DogID,
			Name:       req.Name,
			Email:      req.Email,
			Phone:      req.Phone,
			Address:    req.Address,
			Experience: req.Experience,
			Reason:     req.Reason,
		})
		if err != nil {
			var verr *ValidationError
			switch {
			case errors.As(err, &verr):
				writeError(w, http.StatusBadRequest, verr.Message)
			case errors.Is(err, ErrDogNotFound):
				writeError(w, http.StatusNotFound, ErrDogNotFound.Error())
			case errors.Is(err, ErrDogUnavailable):
				// Conflicto de disponibilidad: mensaje explícito, no éxito silencioso.
				writeError(w, http.StatusBadRequest, ErrDogUnavailable.Error())
			default:
				log.Error("adoption submit failed", map[string]any{"error": err.Error()})
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
			return
		}

		writeJSON(w, http.StatusCreated, map[string]any{
			"message":  "adoption request submitted successfully",
			"adoption": toAdoptionResponse(created),
		})
	}
}

func listHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		var filter ListFilter
		if raw := q.Get("status"); raw != "" {
			st := Status(raw)
			if !st.Valid() {
				writeError(w, http.StatusBadRequest, ErrInvalidStatus.Error())
				return
			}
			filter.Status = &st
		}

		// Normalizada acá mismo: la paginación de la respuesta debe reflejar
		// la página que el servicio realmente sirve, no la pedida.
		page := Page{
			Page:  atoiDefault(q.Get("page"), 1),
			Limit: atoiDefault(q.Get("limit"), 20),
		}.Normalize(20)

		items, total, err := svc.List(r.Context(), filter, page)
		if err != nil {
			log.Error("adoption list failed", map[string]any{"error": err.Error()})
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		out := make([]adoptionResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toAdoptionResponse(a))
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"adoptions":  out,
			"pagination": newPagination(page, total),
		})
	}
}

func updateStatusHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			writeError(w, http.StatusNotFound, ErrNotFound.Error())
			return
		}

		var req updateStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		res, err := svc.UpdateStatus(r.Context(), id, Status(req.Status), req.Reason)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidStatus):
				writeError(w, http.StatusBadRequest, ErrInvalidStatus.Error())
			case errors.Is(err, ErrNotFound):
				writeError(w, http.StatusNotFound, ErrNotFound.Error())
			default:
				log.Error("adoption status update failed", map[string]any{
					"adoption_id": id,
					"error":       err.Error(),
				})
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
			return
		}

		// DogSyncErr no cambia la respuesta: el efecto primario (estado de la
		// solicitud) persistió; el warning ya quedó logueado en el servicio.
		writeJSON(w, http.StatusOK, map[string]any{
			"message":  "adoption status updated successfully",
			"adoption": toAdoptionResponse(res.Adoption),
		})
	}
}

func toAdoptionResponse(a AdoptionRequest) adoptionResponse {
	out := adoptionResponse{
		ID:              a.ID,
		DogID:           a.DogID,
		Name:            a.Name,
		Email:           a.Email,
		Phone:           a.Phone,
		Address:         a.Address,
		Experience:      a.Experience,
		Reason:          a.Reason,
		Status:          string(a.Status),
		RejectionReason: a.RejectionReason,
		CreatedAt:       a.CreatedAt,
	}
	if a.Dog != nil {
		images := a.Dog.Images
		if images == nil {
			images = []string{}
		}
		out.Dog = &dogViewResponse{
			Name:      a.Dog.Name,
			Images:    images,
			Available: a.Dog.Available,
			Status:    a.Dog.Status,
		}
	}
	return out
}

func newPagination(page Page, total int) paginationResponse {
	pages := (total + page.Limit - 1) / page.Limit
	return paginationResponse{Page: page.Page, Limit: page.Limit, Total: total, Pages: pages}
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// writeJSON/writeError están duplicados a propósito en los handlers de cada
// módulo, igual que en el resto del repo: todavía no vale la pena un paquete
// helper compartido.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
