package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

const (
	// Заголовки проставляет API-шлюз после проверки токена
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"

	msgMissingUser = "не передан идентификатор пользователя"
	msgInvalidUser = "некорректный идентификатор пользователя"
	msgInvalidRole = "некорректная роль пользователя"
	msgAdminsOnly  = "операция доступна только администратору"
)

type ctxKey int

const actorKey ctxKey = iota

// Auth извлекает пользователя из заголовков и кладет его в контекст.
// Роль по умолчанию - client.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawID := r.Header.Get(HeaderUserID)
		if rawID == "" {
			handlers.RespondUnauthorized(w, msgMissingUser)
			return
		}

		userID, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondUnauthorized(w, msgInvalidUser)
			return
		}

		role := domain.RoleClient
		if rawRole := r.Header.Get(HeaderUserRole); rawRole != "" {
			role = domain.Role(rawRole)
			if role != domain.RoleClient && role != domain.RoleAdmin {
				handlers.RespondUnauthorized(w, msgInvalidRole)
				return
			}
		}

		ctx := WithActor(r.Context(), domain.Actor{UserID: userID, Role: role})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin пропускает только администраторов. Ставится после Auth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := GetActor(r.Context())
		if !ok {
			handlers.RespondUnauthorized(w, msgMissingUser)
			return
		}
		if !actor.IsAdmin() {
			handlers.RespondForbidden(w, msgAdminsOnly)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithActor кладет пользователя в контекст
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// GetActor достает пользователя из контекста
func GetActor(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(domain.Actor)
	return actor, ok
}

// GetUserID достает идентификатор пользователя из контекста
func GetUserID(ctx context.Context) (int64, bool) {
	actor, ok := GetActor(ctx)
	if !ok {
		return 0, false
	}
	return actor.UserID, true
}
