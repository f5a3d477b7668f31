package middleware

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"gotransfer/internal/api/response"
	"gotransfer/internal/domain"
	"gotransfer/internal/pkg/cache"
	"gotransfer/internal/pkg/logger"
)

// RateLimiter limita requisições por IP em janelas fixas. Se o cache falhar, a requisição passa.
func RateLimiter(client cache.Client, limit int, period time.Duration, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limit <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}
			key := "rate-limit:" + ip

			count, err := client.IncrWithTTL(r.Context(), key, period)
			if err != nil {
				log.Error("Falha no contador de rate limit; requisição liberada.", err)
				next.ServeHTTP(w, r)
				return
			}

			if count > limit {
				w.Header().Set("X-RateLimit-Remaining", "0")
				w.Header().Set("Retry-After", strconv.Itoa(int(period.Seconds())))
				response.JSON(w, log, http.StatusTooManyRequests, domain.ErrorResponse{
					Code:     http.StatusTooManyRequests,
					Category: "RATE_LIMITED",
					Message:  "Limite de requisições excedido. Tente novamente em instantes.",
				})
				return
			}

			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(limit-count))
			next.ServeHTTP(w, r)
		})
	}
}
