package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"tempest-reviews/internal/authz"
	"tempest-reviews/pkg/utils"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// TokenVerifier turns a bearer token into a verified identity.
type TokenVerifier interface {
	Verify(ctx context.Context, raw string) (*authz.Identity, error)
}

// Authenticate rejects requests without a valid bearer token and stores the
// verified identity in the request context.
func Authenticate(verifier TokenVerifier, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				utils.ResponseUnauthorized(w, "Missing or malformed authorization token. Use: Bearer <token>")
				return
			}

			identity, err := verifier.Verify(r.Context(), raw)
			if err != nil {
				if !errors.Is(err, utils.ErrInvalidToken) {
					logger.Error("Failed to verify token",
						zap.Error(err),
						zap.String("request_id", chimw.GetReqID(r.Context())))
					utils.ResponseInternalError(w, "Internal server error")
					return
				}
				logger.Debug("Rejected token",
					zap.Error(err),
					zap.String("path", r.URL.Path))
				utils.ResponseUnauthorized(w, "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(authz.WithIdentity(r.Context(), identity)))
		})
	}
}

// Require denies, with 403, identities that may not perform action on any
// resource. Use it for role-only actions; ownership checks need the resource
// and happen in the services.
func Require(action authz.Action, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := authz.IdentityFromContext(r.Context())
			if !ok {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			if !authz.CanPerform(identity, action, nil) {
				logger.Warn("Access denied",
					zap.String("action", string(action)),
					zap.String("user_id", identity.UserID.String()),
					zap.String("path", r.URL.Path))
				utils.ResponseForbidden(w, "You are not allowed to perform this action")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// bearerToken accepts "Bearer <token>" with any scheme casing.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
