package blog

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
	// Sitio público: solo publicados
	public.Get("/blog", listPublishedHandler(svc, log))
	public.Get("/blog/{slug}", getBySlugHandler(svc, log))

	// Panel: todo, incluidos borradores
	staff.Get("/admin/blog", listAllHandler(svc, log))
	staff.Post("/admin/blog", createHandler(svc, log))
	staff.Put("/admin/blog/{id}", updateHandler(svc, log))
	staff.Delete("/admin/blog/{id}", deleteHandler(svc, log))
}

type postRequest struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	Excerpt   string `json:"excerpt"`
	Category  string `json:"category"`
	Image     string `json:"image"`
	Published bool   `json:"published"`
}

type postSummaryResponse struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Excerpt     string     `json:"excerpt"`
	Category    string     `json:"category"`
	Image       string     `json:"image,omitempty"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
}

type postResponse struct {
	postSummaryResponse
	Content   string    `json:"content"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func listPublishedHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		var category *Category
		if raw := q.Get("category"); raw != "" {
			c := Category(raw)
			if !c.Valid() {
				writeError(w, http.StatusBadRequest, "invalid category")
				return
			}
			category = &c
		}

		page := pageFromQuery(r)
		items, total, err := svc.ListPublished(r.Context(), category, page)
		if err != nil {
			log.Error("blog list failed", map[string]any{"error": err.Error()})
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		out := make([]postSummaryResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toSummary(p))
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"posts":      out,
			"pagination": pagination(page, total),
		})
	}
}

func getBySlugHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.GetPublishedBySlug(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				writeError(w, http.StatusNotFound, ErrNotFound.Error())
				return
			}
			log.Error("blog get failed", map[string]any{"error": err.Error()})
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		writeJSON(w, http.StatusOK, toPost(p))
	}
}

func listAllHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := pageFromQuery(r)
		items, total, err := svc.ListAll(r.Context(), page)
		if err != nil {
			log.Error("blog admin list failed", map[string]any{"error": err.Error()})
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		out := make([]postResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPost(p))
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"posts":      out,
			"pagination": pagination(page, total),
		})
	}
}

func createHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req postRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		p, err := svc.Create(r.Context(), toInput(req))
		if err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) {
				writeError(w, http.StatusBadRequest, verr.Message)
				return
			}
			log.Error("blog create failed", map[string]any{"error": err.Error()})
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		writeJSON(w, http.StatusCreated, map[string]any{
			"message": "post created successfully",
			"post":    toPost(p),
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

		var req postRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		p, err := svc.Update(r.Context(), id, toInput(req))
		if err != nil {
			var verr *ValidationError
			switch {
			case errors.As(err, &verr):
				writeError(w, http.StatusBadRequest, verr.Message)
			case errors.Is(err, ErrNotFound):
				writeError(w, http.StatusNotFound, ErrNotFound.Error())
			default:
				log.Error("blog update failed", map[string]any{"post_id": id, "error": err.Error()})
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"message": "post updated successfully",
			"post":    toPost(p),
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
			log.Error("blog delete failed", map[string]any{"post_id": id, "error": err.Error()})
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": "post removed successfully"})
	}
}

func toInput(req postRequest) PostInput {
	return PostInput{
		Title:     req.Title,
		Content:   req.Content,
		Excerpt:   req.Excerpt,
		Category:  req.Category,
		Image:     req.Image,
		Published: req.Published,
	}
}

func toSummary(p Post) postSummaryResponse {
	return postSummaryResponse{
		ID:          p.ID,
		Title:       p.Title,
		Slug:        p.Slug,
		Excerpt:     p.Excerpt,
		Category:    string(p.Category),
		Image:       p.Image,
		PublishedAt: p.PublishedAt,
	}
}

func toPost(p Post) postResponse {
	return postResponse{
		postSummaryResponse: toSummary(p),
		Content:             p.Content,
		Published:           p.Published,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
}

func pageFromQuery(r *http.Request) Page {
	q := r.URL.Query()
	page := Page{}
	if n, err := strconv.Atoi(q.Get("page")); err == nil {
		page.Page = n
	}
	if n, err := strconv.Atoi(q.Get("limit")); err == nil {
		page.Limit = n
	}
	return page.Normalize(10)
}

func pagination(page Page, total int) map[string]int {
	return map[string]int{
		"page":  page.Page,
		"limit": page.Limit,
		"total": total,
		"pages": (total + page.Limit - 1) / page.Limit,
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
