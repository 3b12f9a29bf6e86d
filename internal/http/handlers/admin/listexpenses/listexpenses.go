// Package listexpenses реализует HTTP-обработчик списка расходов всех пользователей.
// Маршрут защищён middleware RequireAdmin.
package listexpenses

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/expense-tracker/internal/http/response"
	"github.com/magabrotheeeer/expense-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/expense-tracker/internal/models"
)

// Handler управляет HTTP-запросами списка всех расходов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс чтения расходов всех пользователей.
type Service interface {
	ListAllExpenses(ctx context.Context) ([]*models.Expense, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Расходы всех пользователей
// @Description Возвращает все записи расходов в системе. Только для администраторов.
// @Tags Admin
// @Produce  json
// @Success 200 {object} map[string]any "Список расходов"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Требуется роль admin"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /admin/expenses [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.listexpenses"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	expenses, err := h.service.ListAllExpenses(r.Context())
	if err != nil {
		log.Error("failed to list all expenses", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list expenses"))
		return
	}

	log.Info("success to list all expenses", slog.Int("count", len(expenses)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"expenses": expenses,
		"count":    len(expenses),
	}))
}
