// Package voice реализует HTTP-обработчик добавления расхода из свободного текста.
//
// Текст расшифровки голосового ввода разбирается на сумму, категорию
// и описание; запись создается с сегодняшней датой и методом voice.
package voice

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/expense-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/expense-tracker/internal/http/response"
	"github.com/magabrotheeeer/expense-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/expense-tracker/internal/lib/textparse"
	"github.com/magabrotheeeer/expense-tracker/internal/models"
)

// Request — структура входных данных с текстом расшифровки.
type Request struct {
	Transcript string `json:"transcript" validate:"required"`
}

// Handler управляет HTTP-запросами на голосовое добавление расходов.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики разбора текста в расход.
type Service interface {
	CreateFromText(ctx context.Context, actorUID, transcript string) (*models.Expense, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Добавить расход голосом
// @Description Разбирает текст расшифровки на сумму, категорию и описание и создает расход.
// @Tags Expenses
// @Accept  json
// @Produce  json
// @Param request body Request true "Текст расшифровки"
// @Success 200 {object} map[string]any "Созданный расход"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Не удалось извлечь сумму"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /expenses/voice [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.expense.voice"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	actorUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || actorUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("authentication required"))
		return
	}

	expense, err := h.service.CreateFromText(r.Context(), actorUID, req.Transcript)
	if err != nil {
		if errors.Is(err, textparse.ErrNoAmount) {
			log.Error("no amount in transcript", slog.String("transcript", req.Transcript))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("could not find an amount in the transcript"))
			return
		}
		log.Error("failed to create expense from text", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create expense"))
		return
	}

	log.Info("success to create voice expense", slog.String("id", expense.ID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"expense": expense,
	}))
}
