// Package logout реализует HTTP-обработчик выхода из системы.
//
// Сессия удаляется из Redis, cookie сбрасывается. Повторный выход
// и выход без cookie успешны.
package logout

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/expense-tracker/internal/config"
	"github.com/magabrotheeeer/expense-tracker/internal/http/cookies"
	"github.com/magabrotheeeer/expense-tracker/internal/http/response"
	"github.com/magabrotheeeer/expense-tracker/internal/lib/sl"
)

// Handler обрабатывает запросы выхода.
type Handler struct {
	log        *slog.Logger
	service    Service
	sessionCfg config.Session
}

// Service описывает интерфейс удаления сессии.
type Service interface {
	Logout(ctx context.Context, token string) error
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, sessionCfg config.Session) *Handler {
	return &Handler{
		log:        log,
		service:    service,
		sessionCfg: sessionCfg,
	}
}

// ServeHTTP godoc
// @Summary Выход пользователя
// @Description Удаляет серверную сессию и сбрасывает cookie.
// @Tags Auth
// @Produce  json
// @Success 200 {object} map[string]any "Успешный выход"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth/logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if cookie, err := r.Cookie(h.sessionCfg.CookieName); err == nil && cookie.Value != "" {
		if err := h.service.Logout(r.Context(), cookie.Value); err != nil {
			log.Error("failed to delete session", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to logout"))
			return
		}
	}

	cookies.ClearSession(w, h.sessionCfg.CookieName)
	log.Info("logged out")
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "logged out successfully",
	}))
}
