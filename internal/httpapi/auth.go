package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"halldesk/hall-service/internal/models"
	"halldesk/hall-service/internal/store"
)

type authContextKey struct{}

// AuthMiddleware resolves the coordinator access token on every /api request.
// An unknown token is a terminal denial: no partial data is ever rendered
// for an unauthenticated caller.
func AuthMiddleware(coordinators store.CoordinatorStore, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isPublicEndpoint(r) {
			next.ServeHTTP(w, r)
			return
		}
		token := tokenFromRequest(r)
		if token == "" {
			writeError(w, requestIDFromRequest(r), http.StatusUnauthorized, "unauthorized", "missing access token")
			return
		}
		coordinator, err := coordinators.GetCoordinator(r.Context(), token)
		if err != nil {
			if errors.Is(err, store.ErrAccessDenied) {
				writeError(w, requestIDFromRequest(r), http.StatusUnauthorized, "access_denied", "access denied")
				return
			}
			writeError(w, requestIDFromRequest(r), http.StatusInternalServerError, "internal_error", "internal server error")
			return
		}
		ctx := context.WithValue(r.Context(), authContextKey{}, coordinator)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func coordinatorFromContext(ctx context.Context) (models.Coordinator, bool) {
	value := ctx.Value(authContextKey{})
	if value == nil {
		return models.Coordinator{}, false
	}
	coordinator, ok := value.(models.Coordinator)
	return coordinator, ok
}

func requireCoordinator(w http.ResponseWriter, r *http.Request) (models.Coordinator, bool) {
	coordinator, ok := coordinatorFromContext(r.Context())
	if !ok {
		writeError(w, requestIDFromRequest(r), http.StatusUnauthorized, "unauthorized", "missing access token")
		return models.Coordinator{}, false
	}
	return coordinator, true
}

func tokenFromRequest(r *http.Request) string {
	if token := bearerToken(r.Header.Get("Authorization")); token != "" {
		return token
	}
	return strings.TrimSpace(r.Header.Get("X-Access-Token"))
}

func requestIDFromRequest(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("X-Request-ID"))
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.Fields(header)
	if len(parts) != 2 {
		return ""
	}
	if strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return parts[1]
}

func isPublicEndpoint(r *http.Request) bool {
	switch r.URL.Path {
	case "/healthz", "/metrics":
		return true
	default:
		return r.Method == http.MethodOptions
	}
}
