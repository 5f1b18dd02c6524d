package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/premOFbounteous/backFinal/internal/auth"
	"github.com/premOFbounteous/backFinal/internal/metrics"
)

type contextKey string

const (
	userIDKey   contextKey = "user_id"
	vendorIDKey contextKey = "vendor_id"
)

func userIDFromContext(ctx context.Context) string {
	if userID, ok := ctx.Value(userIDKey).(string); ok {
		return userID
	}
	return ""
}

func vendorIDFromContext(ctx context.Context) string {
	if vendorID, ok := ctx.Value(vendorIDKey).(string); ok {
		return vendorID
	}
	return ""
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return header[len("Bearer "):]
	}
	return ""
}

// AuthMiddleware validates the bearer token and requires a user principal.
func AuthMiddleware(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				respondError(w, http.StatusUnauthorized, "Could not validate credentials")
				return
			}

			claims, err := tokens.Verify(token)
			if err != nil || claims.Role != auth.RoleUser || claims.UserID == "" {
				respondError(w, http.StatusUnauthorized, "Could not validate credentials")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// VendorAuthMiddleware is the vendor counterpart of AuthMiddleware.
func VendorAuthMiddleware(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				respondError(w, http.StatusUnauthorized, "Could not validate credentials")
				return
			}

			claims, err := tokens.Verify(token)
			if err != nil || claims.Role != auth.RoleVendor || claims.VendorID == "" {
				respondError(w, http.StatusUnauthorized, "Could not validate credentials")
				return
			}

			ctx := context.WithValue(r.Context(), vendorIDKey, claims.VendorID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// MetricsMiddleware records request counts and latency per route pattern.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		// The route pattern is only known after routing; labelling with the
		// raw path would mint one series per concrete id.
		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			path = rctx.RoutePattern()
		}
		metrics.HTTPRequests.WithLabelValues(path, strconv.Itoa(ww.Status())).Inc()
		metrics.HTTPLatencyMS.WithLabelValues(path).Observe(float64(time.Since(start).Milliseconds()))
	})
}
