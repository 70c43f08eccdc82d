package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/pratik-mahalle/bizlytic/internal/auth"
	"github.com/pratik-mahalle/bizlytic/internal/domain/user"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/errors"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/logger"
	"github.com/pratik-mahalle/bizlytic/internal/pkg/utils"
)

// ContextKey is a custom type for context keys
type ContextKey string

const (
	// UserIDKey is the context key for user ID
	UserIDKey ContextKey = "userID"
	// UserEmailKey is the context key for user email
	UserEmailKey ContextKey = "email"
)

// AccessTokenCookie is the cookie that may carry the access token
const AccessTokenCookie = "accessToken"

// tokenFromRequest reads a bearer token, falling back to the access token cookie
func tokenFromRequest(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}
	if cookie, err := r.Cookie(AccessTokenCookie); err == nil {
		return cookie.Value
	}
	return ""
}

// AuthMiddleware returns a middleware that validates JWT access tokens
func AuthMiddleware(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := tokenFromRequest(r)
			if tokenStr == "" {
				utils.WriteError(w, errors.Unauthorized("Access token required"))
				return
			}

			claims, err := auth.ParseClaims(tokenStr, jwtSecret, auth.TokenAccess)
			if err != nil {
				utils.WriteError(w, errors.Unauthorized("Invalid or expired token"))
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, UserEmailKey, claims.Email)

			AddRequestLogField(r, "user_id", claims.UserID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuthMiddleware is like AuthMiddleware but doesn't reject requests without tokens
func OptionalAuthMiddleware(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tokenStr := tokenFromRequest(r); tokenStr != "" {
				if claims, err := auth.ParseClaims(tokenStr, jwtSecret, auth.TokenAccess); err == nil {
					ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
					ctx = context.WithValue(ctx, UserEmailKey, claims.Email)
					AddRequestLogField(r, "user_id", claims.UserID)
					r = r.WithContext(ctx)
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// UserLookup loads the current account for plan checks
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*user.User, error)
}

// RequirePro rejects callers whose account does not currently hold the pro plan.
// It must run after AuthMiddleware.
func RequirePro(users UserLookup, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := GetUserID(r)
			if !ok {
				utils.WriteError(w, errors.Unauthorized("Access token required"))
				return
			}

			u, err := users.GetByID(r.Context(), userID)
			if err != nil {
				appErr := errors.From(err)
				if appErr.Code == errors.ErrCodeNotFound {
					appErr = errors.Unauthorized("User not found")
				} else {
					log.ErrorWithErr(err, "Failed to load user for plan check")
				}
				utils.WriteError(w, appErr)
				return
			}
			if !u.IsPro() {
				utils.WriteError(w, errors.PlanRequired(user.PlanPro))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetUserID extracts the user ID from the request context
func GetUserID(r *http.Request) (string, bool) {
	userID, ok := r.Context().Value(UserIDKey).(string)
	return userID, ok && userID != ""
}

// GetUserEmail extracts the user email from the request context
func GetUserEmail(r *http.Request) (string, bool) {
	email, ok := r.Context().Value(UserEmailKey).(string)
	return email, ok
}
