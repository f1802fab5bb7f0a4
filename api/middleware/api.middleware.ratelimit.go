package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	nuts "github.com/vaudience/go-nuts"

	"github.com/roomsense/hub/internal/errors"
)

// RateLimitConfig caps motion submissions per sensor token.
type RateLimitConfig struct {
	Addr     string
	Password string
	DB       int
	// PerMinute of zero disables limiting.
	PerMinute int
}

// IngestRateLimiter throttles motion-event submissions using a
// per-token fixed window counter in redis. Sensors misbehave in the
// field; this keeps a chattering device from flooding the event log.
type IngestRateLimiter struct {
	client    *redis.Client
	perMinute int
}

// NewIngestRateLimiter creates the limiter; a nil return means limiting
// is disabled by configuration.
func NewIngestRateLimiter(config RateLimitConfig) *IngestRateLimiter {
	if config.PerMinute <= 0 || config.Addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})
	return &IngestRateLimiter{client: client, perMinute: config.PerMinute}
}

// Limit wraps a handler with the per-token counter. The token is read
// from the submitted form or JSON is left to the handler; here the
// remote address plus token header keys the window.
func (l *IngestRateLimiter) Limit(next http.Handler) http.Handler {
	if l == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := fmt.Sprintf("ingest:%s:%d", clientKey(r), time.Now().Unix()/60)

		count, err := l.client.Incr(r.Context(), key).Result()
		if err != nil {
			// redis being down must not take the ingest path with it
			nuts.L.Warnf("[RateLimit] Counter unavailable: %v", err)
			next.ServeHTTP(w, r)
			return
		}
		if count == 1 {
			l.client.Expire(r.Context(), key, time.Minute)
		}
		if count > int64(l.perMinute) {
			handleError(w, errors.NewRateLimitError("too many submissions", nil))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientKey(r *http.Request) string {
	if token := r.Header.Get("X-Sensor-Token"); token != "" {
		return token
	}
	return r.RemoteAddr
}

func handleError(w http.ResponseWriter, apiErr *errors.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.Code)
	json.NewEncoder(w).Encode(apiErr)
}
