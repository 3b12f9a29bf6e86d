// Package reset реализует HTTP-обработчик сброса системы.
//
// Удаляются все пользователи, кроме администраторов, и все расходы.
// Маршрут защищён middleware RequireAdmin.
package reset

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/expense-tracker/internal/http/response"
	"github.com/magabrotheeeer/expense-tracker/internal/lib/sl"
)

// Handler управляет HTTP-запросами сброса системы.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс сброса системы.
type Service interface {
	ResetSystem(ctx context.Context) (usersRemoved, expensesRemoved int, err error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Сброс системы
// @Description Удаляет всех пользователей, кроме администраторов, и все расходы. Только для администраторов.
// @Tags Admin
// @Produce  json
// @Success 200 {object} map[string]any "Количество удалённых записей"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Требуется роль admin"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /admin/reset [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.reset"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	users, expenses, err := h.service.ResetSystem(r.Context())
	if err != nil {
		log.Error("failed to reset system", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to reset system"))
		return
	}

	log.Info("system reset",
		slog.Int("users_removed", users),
		slog.Int("expenses_removed", expenses))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"users_removed":    users,
		"expenses_removed": expenses,
		"message":          "system reset successfully",
	}))
}
