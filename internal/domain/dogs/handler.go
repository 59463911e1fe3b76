package dogs

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
	// Catálogo público
	public.Get("/dogs", listHandler(svc, log))
	public.Get("/dogs/{id}", getHandler(svc, log))

	// Gestión desde el panel
	staff.Post("/dogs", createHandler(svc, log))
	staff.Put("/dogs/{id}", updateHandler(svc, log))
	staff.Delete("/dogs/{id}", deleteHandler(svc, log))
}

type dogRequest struct {
	Name        string   `json:"name"`
	Age         string   `json:"age"`
	Size        string   `json:"size"`
	Gender      string   `json:"gender"`
	Breed       string   `json:"breed"`
	AnimalType  string   `json:"animalType"`
	Description string   `json:"description"`
	Temperament string   `json:"temperament"`
	Vaccinated  bool     `json:"vaccinated"`
	Neutered    bool     `json:"neutered"`
	Available   *bool    `json:"available"`
	Images      []string `json:"images"`
}

type dogResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Age         string    `json:"age"`
	Size        string    `json:"size"`
	Gender      string    `json:"gender"`
	Breed       string    `json:"breed,omitempty"`
	AnimalType  string    `json:"animalType"`
	Description string    `json:"description"`
	Temperament string    `json:"temperament"`
	Vaccinated  bool      `json:"vaccinated"`
	Neutered    bool      `json:"neutered"`
	Available   bool      `json:"available"`
	Status      string    `json:"status"`
	Images      []string  `json:"images"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type paginationResponse struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

func listHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		filter := ListFilter{
			Size:       Size(q.Get("size")),
			Gender:     Gender(q.Get("gender")),
			AnimalType: AnimalType(q.Get("animalType")),
			Search:     q.Get("search"),
			All:        q.Get("all") == "true",
		}
		if raw := q.Get("available"); raw != "" && !filter.All {
			v := raw == "true"
			filter.Available = &v
		}

		page := Page{
			Page:  atoiDefault(q.Get("page"), 1),
			Limit: atoiDefault(q.Get("limit"), 12),
		}.Normalize(12)

		items, total, err := svc.List(r.Context(), filter, page)
		if err != nil {
			log.Error("dog list failed", map[string]any{"error": err.Error()})
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		out := make([]dogResponse, 0, len(items))
		for _, d := range items {
			out = append(out, toDogResponse(d))
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"dogs":       out,
			"pagination": newPagination(page, total),
		})
	}
}

func getHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusNotFound, ErrNotFound.Error())
			return
		}

		d, err := svc.GetByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				writeError(w, http.StatusNotFound, ErrNotFound.Error())
				return
			}
			log.Error("dog get failed", map[string]any{"dog_id": id, "error": err.Error()})
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		writeJSON(w, http.StatusOK, toDogResponse(d))
	}
}

func createHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dogRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		d, err := svc.Create(r.Context(), toInput(req))
		if err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) {
				writeError(w, http.StatusBadRequest, verr.Message)
				return
			}
			log.Error("dog create failed", map[string]any{"error": err.Error()})
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		writeJSON(w, http.StatusCreated, map[string]any{
			"message": "dog registered successfully",
			"dog":     toDogResponse(d),
		})
	}
}

func updateHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusNotFound, ErrNotFound.Error())
			return
		}

		var req dogRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		d, err := svc.Update(r.Context(), id, toInput(req))
		if err != nil {
			var verr *ValidationError
			switch {
			case errors.As(err, &verr):
				writeError(w, http.StatusBadRequest, verr.Message)
			case errors.Is(err, ErrNotFound):
				writeError(w, http.StatusNotFound, ErrNotFound.Error())
			default:
				log.Error("dog update failed", map[string]any{"dog_id": id, "error": err.Error()})
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"message": "dog updated successfully",
			"dog":     toDogResponse(d),
		})
	}
}

func deleteHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusNotFound, ErrNotFound.Error())
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			if errors.Is(err, ErrNotFound) {
				writeError(w, http.StatusNotFound, ErrNotFound.Error())
				return
			}
			log.Error("dog delete failed", map[string]any{"dog_id": id, "error": err.Error()})
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": "dog removed successfully"})
	}
}

func toInput(req dogRequest) Input {
	return Input{
		Name:        req.Name,
		Age:         req.Age,
		Size:        req.Size,
		Gender:      req.Gender,
		Breed:       req.Breed,
		AnimalType:  req.AnimalType,
		Description: req.Description,
		Temperament: req.Temperament,
		Vaccinated:  req.Vaccinated,
		Neutered:    req.Neutered,
		Available:   req.Available,
		Images:      req.Images,
	}
}

func toDogResponse(d Dog) dogResponse {
	images := d.Images
	if images == nil {
		images = []string{}
	}
	return dogResponse{
		ID:          d.ID,
		Name:        d.Name,
		Age:         d.Age,
		Size:        string(d.Size),
		Gender:      string(d.Gender),
		Breed:       d.Breed,
		AnimalType:  string(d.AnimalType),
		Description: d.Description,
		Temperament: d.Temperament,
		Vaccinated:  d.Vaccinated,
		Neutered:    d.Neutered,
		Available:   d.Available,
		Status:      string(d.Status),
		Images:      images,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
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

// writeJSON/writeError duplicados por módulo, misma convención que adoptions.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
