package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/m04kA/BarberBookingService/internal/api/handlers"
)

const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"

	RoleAdmin  = "admin"
	RoleClient = "client"
)

const (
	msgMissingUserID = "identifiant utilisateur manquant"
	msgAdminOnly     = "accès réservé aux administrateurs"
)

type contextKey string

const sessionKey contextKey = "session"

// SessionContext пользователь, прошедший аутентификацию на шлюзе.
// Роль приходит заголовком X-User-Role, по умолчанию client
type SessionContext struct {
	UserID string
	Role   string
}

func (s SessionContext) IsAdmin() bool {
	return s.Role == RoleAdmin
}

// Auth требует заголовок X-User-ID и кладет SessionContext в контекст запроса
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimSpace(r.Header.Get(HeaderUserID))
		if userID == "" {
			handlers.RespondUnauthorized(w, msgMissingUserID)
			return
		}

		role := strings.ToLower(strings.TrimSpace(r.Header.Get(HeaderUserRole)))
		if role == "" {
			role = RoleClient
		}

		ctx := WithSession(r.Context(), SessionContext{UserID: userID, Role: role})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin пропускает только роль admin; ставится после Auth
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := GetSession(r.Context())
		if !ok {
			handlers.RespondUnauthorized(w, msgMissingUserID)
			return
		}
		if !session.IsAdmin() {
			handlers.RespondForbidden(w, msgAdminOnly)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func WithSession(ctx context.Context, s SessionContext) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

func GetSession(ctx context.Context) (SessionContext, bool) {
	s, ok := ctx.Value(sessionKey).(SessionContext)
	return s, ok
}

// GetUserID ID пользователя из контекста (через middleware Auth)
func GetUserID(ctx context.Context) (string, bool) {
	s, ok := GetSession(ctx)
	if !ok || s.UserID == "" {
		return "", false
	}
	return s.UserID, true
}
