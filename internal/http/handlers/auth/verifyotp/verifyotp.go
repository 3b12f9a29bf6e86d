// Package verifyotp реализует HTTP-обработчик входа по одноразовому коду.
//
// При первом входе с незнакомого номера создается новый пользователь.
// Успешная проверка открывает сессию и устанавливает cookie.
package verifyotp

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/expense-tracker/internal/config"
	"github.com/magabrotheeeer/expense-tracker/internal/http/cookies"
	"github.com/magabrotheeeer/expense-tracker/internal/http/response"
	"github.com/magabrotheeeer/expense-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/expense-tracker/internal/models"
	services "github.com/magabrotheeeer/expense-tracker/internal/services/auth"
)

// Request — структура входных данных для проверки кода.
type Request struct {
	Phone string `json:"phone" validate:"required,min=10"`
	Code  string `json:"otp" validate:"required,len=6,numeric"`
}

// Handler обрабатывает запросы проверки OTP.
type Handler struct {
	log        *slog.Logger
	service    Service
	sessionCfg config.Session
	validate   *validator.Validate
}

// Service описывает интерфейс проверки кода и входа по телефону.
type Service interface {
	VerifyOTP(ctx context.Context, phone, code string) (*models.User, string, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, sessionCfg config.Session) *Handler {
	return &Handler{
		log:        log,
		service:    service,
		sessionCfg: sessionCfg,
		validate:   validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Вход по одноразовому коду
// @Description Проверяет OTP, при необходимости создает пользователя и устанавливает сессионную cookie.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Телефон и код"
// @Success 200 {object} map[string]any "Успешный вход"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Неверный или истёкший код"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth/verify-otp [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.verifyotp"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
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

	user, token, err := h.service.VerifyOTP(r.Context(), req.Phone, req.Code)
	if err != nil {
		if errors.Is(err, services.ErrInvalidOTP) {
			log.Error("invalid otp", slog.String("phone", req.Phone))
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("invalid otp"))
			return
		}
		log.Error("failed to verify otp", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to verify otp"))
		return
	}

	cookies.SetSession(w, h.sessionCfg.CookieName, token, h.sessionCfg.SessionTTL)
	log.Info("otp login success", slog.String("uid", user.UID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"user":    user,
		"message": "login successful",
	}))
}
