package middleware

import (
	"encoding/json"
	"net/http"

	"ong-shelter-api/internal/ports/auth"
)

// RequireStaff corta requests sin claims de staff.
// Se monta sobre los grupos de rutas del panel, no ruta por ruta.
func RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := GetClaims(r.Context())
		if !ok || claims.UserID == "" {
			writeAuthError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		if !claims.IsStaff() {
			writeAuthError(w, http.StatusForbidden, "forbidden")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole exige un rol puntual (p.ej. gestión de usuarios solo admin).
func RequireRole(role auth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := GetClaims(r.Context())
			if !ok || claims.UserID == "" {
				writeAuthError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			if claims.Role != role {
				writeAuthError(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeAuthError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
