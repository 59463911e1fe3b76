package stats

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"ong-shelter-api/internal/domain/donations"
	"ong-shelter-api/internal/platform/logger"
)

func RegisterRoutes(public chi.Router, staff chi.Router, svc *Service, log logger.Logger) {
	public.Get("/stats", publicHandler(svc, log))
	staff.Get("/admin/dashboard", dashboardHandler(svc, log))
}

type recentDonationResponse struct {
	ID        int64     `json:"id"`
	Amount    float64   `json:"amount"`
	DonorName string    `json:"donorName,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func publicHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := svc.Public(r.Context())
		if err != nil {
			log.Error("public stats failed", map[string]any{"error": err.Error()})
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"dogsRescued":      st.DogsRescued,
			"dogsAdopted":      st.DogsAdopted,
			"activeVolunteers": st.ActiveVolunteers,
			"totalDonations":   st.TotalDonations,
		})
	}
}

func dashboardHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := svc.AdminDashboard(r.Context())
		if err != nil {
			log.Error("dashboard failed", map[string]any{"error": err.Error()})
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		recent := make([]recentDonationResponse, 0, len(d.RecentDonations))
		for _, dn := range d.RecentDonations {
			recent = append(recent, toRecentDonation(dn))
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"stats": map[string]any{
				"totalDogs":        d.TotalDogs,
				"availableDogs":    d.AvailableDogs,
				"pendingAdoptions": d.PendingAdoptions,
				"totalVolunteers":  d.TotalVolunteers,
				"unreadContacts":   d.UnreadContacts,
				"totalDonations":   d.TotalDonations,
			},
			"recentDonations": recent,
		})
	}
}

func toRecentDonation(d donations.Donation) recentDonationResponse {
	return recentDonationResponse{
		ID:        d.ID,
		Amount:    d.Amount,
		DonorName: d.DonorName,
		CreatedAt: d.CreatedAt,
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
