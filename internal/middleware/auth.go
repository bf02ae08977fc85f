package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Yaswanth0403/BookHaven/internal/service"
	"github.com/Yaswanth0403/BookHaven/internal/session"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type contextKey string

const (
	UserIDKey    contextKey = "user_id"
	UserRoleKey  contextKey = "user_role"
	SessionIDKey contextKey = "session_id"
)

// AuthConfig selects where credentials are read from
type AuthConfig struct {
	CookieName string
}

// TokenValidator checks bearer access tokens. service.UserService satisfies it.
type TokenValidator interface {
	ValidateToken(tokenString string) (*service.Claims, error)
}

// AuthMiddleware resolves the caller from the session cookie, falling back to
// a bearer JWT. Requests carrying neither are rejected with 401.
func AuthMiddleware(cfg AuthConfig, sessions session.Store, tokens TokenValidator, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cookie, err := r.Cookie(cfg.CookieName); err == nil && cookie.Value != "" {
				sess, err := sessions.Get(r.Context(), cookie.Value)
				switch {
				case err == nil:
					ctx := withIdentity(r.Context(), sess.UserID, sess.Role)
					ctx = context.WithValue(ctx, SessionIDKey, sess.ID)
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				case errors.Is(err, session.ErrSessionNotFound):
					logger.Debug("Unknown or expired session")
				default:
					logger.Error("Failed to load session", zap.Error(err))
					RespondWithError(w, http.StatusInternalServerError, "internal server error")
					return
				}
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Debug("Missing session and authorization header")
				RespondWithError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				logger.Debug("Invalid authorization header format")
				RespondWithError(w, http.StatusUnauthorized, "invalid authorization header format")
				return
			}

			claims, err := tokens.ValidateToken(parts[1])
			if err != nil {
				logger.Debug("Token validation failed", zap.Error(err))
				if errors.Is(err, service.ErrTokenExpired) {
					RespondWithError(w, http.StatusUnauthorized, "token expired")
				} else {
					RespondWithError(w, http.StatusUnauthorized, "invalid token")
				}
				return
			}

			logger.Debug("User authenticated",
				zap.String("user_id", claims.UserID.String()),
				zap.String("role", claims.Role),
			)

			next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), claims.UserID, claims.Role)))
		})
	}
}

func withIdentity(ctx context.Context, userID uuid.UUID, role string) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID)
	return context.WithValue(ctx, UserRoleKey, role)
}

// GetUserID extracts user ID from request context
func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

// GetUserRole extracts user role from request context
func GetUserRole(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(UserRoleKey).(string)
	return role, ok
}

// GetSessionID returns the id of the session the request was authenticated
// with, if any
func GetSessionID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(SessionIDKey).(string)
	return id, ok
}
