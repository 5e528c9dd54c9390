package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/taskdeck/taskdeck/internal/server/models"
)

type ctxKey string

const principalKey ctxKey = "principal"

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header. The second return is false when the header is missing or malformed.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}

	return parts[1], true
}

// authenticate is the access guard: it resolves the inbound bearer token to
// the authenticated user and stores it in the request context. Every failure
// yields the same 401 body, regardless of which check failed.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeUnauthorized(w, "Could not validate credentials")
			return
		}

		user, err := s.auth.ResolveUser(r.Context(), token)
		if err != nil {
			writeUnauthorized(w, "Could not validate credentials")
			return
		}

		ctx := context.WithValue(r.Context(), principalKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// principalFromContext returns the user resolved by the access guard.
func principalFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(principalKey).(*models.User)
	return user, ok
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// requestLogger tags every request with an id and logs method, path, status,
// and duration.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		s.logger.Info(r.Context(), "request",
			"request_id", uuid.NewString(),
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start).String(),
		)
	})
}
