package middleware

import (
	"context"
	"net/http"
	"strings"

	"lifeos-backend/internal/contextutil"
	"lifeos-backend/pkg/jwt"
	"lifeos-backend/pkg/response"
)

type contextKey string

const (
	UserIDKey contextKey = "userID"
	EmailKey  contextKey = "email"
)

type TokenVerifier interface {
	VerifyToken(token string) (*jwt.Claims, error)
}

func AuthMiddleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				response.Unauthorized(w, "Missing authorization header")
				return
			}

			parts := strings.Fields(authHeader)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				response.Unauthorized(w, "Invalid authorization header format")
				return
			}

			claims, err := verifier.VerifyToken(parts[1])
			if err != nil {
				contextutil.LoggerFromContext(r.Context()).Debug("Token rejected", "error", err)
				response.Unauthorized(w, "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), claims.UserID, claims.Email)))
		})
	}
}

// WithUser attaches the authenticated identity and tags the request logger with it.
func WithUser(ctx context.Context, userID, email string) context.Context {
	setAccessUser(ctx, userID)

	ctx = context.WithValue(ctx, UserIDKey, userID)
	ctx = context.WithValue(ctx, EmailKey, email)
	return contextutil.WithLogger(ctx, contextutil.LoggerFromContext(ctx).With("user_id", userID))
}

func GetUserID(r *http.Request) string {
	userID, ok := r.Context().Value(UserIDKey).(string)
	if !ok {
		return ""
	}
	return userID
}

func GetUserEmail(r *http.Request) string {
	email, _ := r.Context().Value(EmailKey).(string)
	return email
}

// BearerToken reads a token from the Authorization header or, for websocket clients
// that cannot set headers, the token query parameter.
func BearerToken(r *http.Request) string {
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}

	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}
