package middleware

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/model"
	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/util"

	"github.com/rs/zerolog"
)

// Injected key type to avoid context collisions
type contextKey string

const (
	UserContextKey = contextKey("user")
	RoleContextKey = contextKey("role")
)

// TokenCookieName is the cookie the login endpoint sets.
const TokenCookieName = "token"

// AuthMiddleware accepts a JWT from the token cookie or a Bearer header and
// puts the user ID and role into the request context.
func AuthMiddleware(jwtSecret string, logger zerolog.Logger) func(http.Handler) http.Handler {
	logger = logger.With().Str("middleware", "auth").Logger()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := tokenFromRequest(r)
			if tokenString == "" {
				writeError(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			claims, err := util.ValidateJWT(tokenString, jwtSecret)
			if err != nil {
				logger.Debug().Err(err).Msg("Invalid token")
				writeError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}
			ctx := context.WithValue(r.Context(), UserContextKey, claims.Subject)
			ctx = context.WithValue(ctx, RoleContextKey, model.Role(claims.Role))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects requests whose role is not listed. It must run after
// AuthMiddleware.
func RequireRole(roles ...model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := RoleFromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			if !slices.Contains(roles, role) {
				writeError(w, http.StatusForbidden, "Forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AccountLookup loads the account behind a token subject. It returns nil when
// the account no longer exists.
type AccountLookup func(ctx context.Context, userID string) (*model.User, error)

// RequireAccount rejects tokens whose account was deleted, blocked or given a
// different role since the token was issued. It must run after AuthMiddleware.
func RequireAccount(lookup AccountLookup, logger zerolog.Logger) func(http.Handler) http.Handler {
	logger = logger.With().Str("middleware", "account").Logger()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := UserIDFromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			user, err := lookup(r.Context(), userID)
			if err != nil {
				logger.Error().Err(err).Str("user_id", userID).Msg("Failed to load account")
				writeError(w, http.StatusInternalServerError, "Internal server error")
				return
			}
			role, _ := RoleFromContext(r.Context())
			if user == nil || user.Role != role {
				writeError(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			if user.Blocked {
				writeError(w, http.StatusForbidden, "account is blocked")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(UserContextKey).(string)
	return id, ok && id != ""
}

func RoleFromContext(ctx context.Context) (model.Role, bool) {
	role, ok := ctx.Value(RoleContextKey).(model.Role)
	return role, ok && role != ""
}

func tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(TokenCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}
