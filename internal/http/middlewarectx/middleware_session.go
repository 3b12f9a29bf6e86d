// Package middlewarectx содержит HTTP middleware для проверки cookie-сессий.
//
// SessionMiddleware читает сессионную cookie, находит в Redis привязанный
// к ней UID, перечитывает пользователя из базы и кладёт в контекст его UID
// и роль для дальнейшего использования в обработчиках. Роль берётся из
// базы на каждом запросе, а не из сессии: смена роли действует немедленно,
// а сессии удалённых пользователей перестают работать.
//
// В случае ошибки проверки возвращает HTTP 401 Unauthorized с сообщением об ошибке.
package middlewarectx

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/expense-tracker/internal/http/response"
	"github.com/magabrotheeeer/expense-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/expense-tracker/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// UserUID — ключ для UID пользователя в контексте
	UserUID Key = "user_uid"
	// Role — ключ для роли пользователя в контексте
	Role Key = "role"
)

// SessionStore описывает интерфейс хранилища сессий.
type SessionStore interface {
	Get(ctx context.Context, token string) (string, bool, error)
}

// UserProvider описывает интерфейс для чтения пользователя по UID.
type UserProvider interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// SessionMiddleware возвращает HTTP middleware, который проверяет сессионную cookie.
//
// Если сессия валидна, добавляет UID и роль пользователя в контекст запроса,
// иначе возвращает ошибку с HTTP статусом 401 Unauthorized.
func SessionMiddleware(cookieName string, sessions SessionStore, users UserProvider, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.SessionMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			cookie, err := r.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				log.Error("missing session cookie")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("authentication required"))
				return
			}

			userUID, found, err := sessions.Get(r.Context(), cookie.Value)
			if err != nil {
				log.Error("failed to read session", sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("internal error"))
				return
			}
			if !found {
				log.Error("invalid or expired session")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("authentication required"))
				return
			}

			// Пользователь мог быть удалён после создания сессии
			user, err := users.GetUser(r.Context(), userUID)
			if errors.Is(err, sql.ErrNoRows) {
				log.Error("session user not found", slog.String("user_uid", userUID))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("authentication required"))
				return
			}
			if err != nil {
				log.Error("failed to read session user", sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("internal error"))
				return
			}

			ctx := context.WithValue(r.Context(), UserUID, user.UID)
			ctx = context.WithValue(ctx, Role, user.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
