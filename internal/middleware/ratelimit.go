package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimit aplica una ventana fija por IP sobre los formularios públicos
// (adopciones, contacto, voluntarios, donaciones). Con rdb == nil queda
// deshabilitado (dev/tests sin Redis).
//
// Si Redis falla, el request pasa: preferimos aceptar un formulario de más
// antes que rechazar uno válido por infraestructura caída.
func RateLimit(rdb *redis.Client, limit int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if rdb == nil || limit <= 0 {
			return next
		}

		// La clave de ventana divide por segundos enteros: una ventana
		// sub-segundo daría división por cero.
		if window < time.Second {
			window = time.Second
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// chi RealIP ya normalizó RemoteAddr.
			key := fmt.Sprintf("ratelimit:%s:%s:%d",
				r.URL.Path, r.RemoteAddr, time.Now().Unix()/int64(window.Seconds()))

			count, err := rdb.Incr(r.Context(), key).Result()
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			if count == 1 {
				rdb.Expire(r.Context(), key, window)
			}

			if count > int64(limit) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"error": "too many requests, try again later",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
