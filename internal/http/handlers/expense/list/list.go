// Package list реализует HTTP-обработчик чтения расходов пользователя.
//
// Записи возвращаются от новых к старым. Не-администратор может читать
// только собственные расходы.
package list

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/expense-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/expense-tracker/internal/http/response"
	"github.com/magabrotheeeer/expense-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/expense-tracker/internal/models"
	services "github.com/magabrotheeeer/expense-tracker/internal/services/expense"
)

// Handler управляет HTTP-запросами на чтение расходов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения расходов.
type Service interface {
	List(ctx context.Context, actorUID, actorRole, userUID string) ([]*models.Expense, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список расходов пользователя
// @Description Возвращает расходы пользователя от новых к старым.
// @Tags Expenses
// @Produce  json
// @Param userId path string true "UID пользователя"
// @Success 200 {object} map[string]any "Список расходов"
// @Failure 400 {object} response.ErrorResponse "Некорректный UID"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Чужие расходы"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /expenses/{userId} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.expense.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID := chi.URLParam(r, "userId")
	if _, err := uuid.Parse(userUID); err != nil {
		log.Error("invalid user id format", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid user id"))
		return
	}

	actorUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || actorUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("authentication required"))
		return
	}
	actorRole, _ := r.Context().Value(middlewarectx.Role).(string)

	expenses, err := h.service.List(r.Context(), actorUID, actorRole, userUID)
	if err != nil {
		if errors.Is(err, services.ErrForbidden) {
			log.Error("cross-user read denied", slog.String("actor", actorUID))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("access denied"))
			return
		}
		log.Error("failed to list expenses", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list expenses"))
		return
	}

	log.Info("success to list expenses", slog.Int("count", len(expenses)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"expenses": expenses,
		"count":    len(expenses),
	}))
}
