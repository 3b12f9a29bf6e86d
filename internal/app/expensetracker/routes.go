// Package expensetracker предоставляет маршруты для основного приложения.
package expensetracker

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/expense-tracker/internal/config"
	"github.com/magabrotheeeer/expense-tracker/internal/http/handlers/admin/listexpenses"
	"github.com/magabrotheeeer/expense-tracker/internal/http/handlers/admin/listusers"
	"github.com/magabrotheeeer/expense-tracker/internal/http/handlers/admin/removeuser"
	"github.com/magabrotheeeer/expense-tracker/internal/http/handlers/admin/reset"
	"github.com/magabrotheeeer/expense-tracker/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/expense-tracker/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/expense-tracker/internal/http/handlers/auth/me"
	"github.com/magabrotheeeer/expense-tracker/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/expense-tracker/internal/http/handlers/auth/sendotp"
	"github.com/magabrotheeeer/expense-tracker/internal/http/handlers/auth/update"
	"github.com/magabrotheeeer/expense-tracker/internal/http/handlers/auth/verifyotp"
	"github.com/magabrotheeeer/expense-tracker/internal/http/handlers/expense/clear"
	"github.com/magabrotheeeer/expense-tracker/internal/http/handlers/expense/create"
	"github.com/magabrotheeeer/expense-tracker/internal/http/handlers/expense/list"
	"github.com/magabrotheeeer/expense-tracker/internal/http/handlers/expense/remove"
	"github.com/magabrotheeeer/expense-tracker/internal/http/handlers/expense/sum"
	"github.com/magabrotheeeer/expense-tracker/internal/http/handlers/expense/voice"
	"github.com/magabrotheeeer/expense-tracker/internal/http/handlers/health"
	"github.com/magabrotheeeer/expense-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/expense-tracker/internal/session"
	"github.com/magabrotheeeer/expense-tracker/internal/storage/repository"

	adminservice "github.com/magabrotheeeer/expense-tracker/internal/services/admin"
	authservice "github.com/magabrotheeeer/expense-tracker/internal/services/auth"
	expenseservice "github.com/magabrotheeeer/expense-tracker/internal/services/expense"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config,
	db *repository.Storage, sessions *session.Store,
	authService *authservice.AuthService,
	expenseService *expenseservice.ExpenseService,
	adminService *adminservice.AdminService) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	otpLimiter := rate.NewLimiter(1, 3)

	r.Route("/api", func(r chi.Router) {
		// Открытые конечные точки
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", register.New(logger, authService, cfg.Session).ServeHTTP)
			r.Post("/login", login.New(logger, authService, cfg.Session).ServeHTTP)
			// Клиент дашборда вызывает logout обычным переходом, поэтому GET тоже принимается
			logoutHandler := logout.New(logger, authService, cfg.Session)
			r.Post("/logout", logoutHandler.ServeHTTP)
			r.Get("/logout", logoutHandler.ServeHTTP)
			r.With(middlewarectx.RateLimitMiddleware(otpLimiter, logger)).
				Post("/send-otp", sendotp.New(logger, authService).ServeHTTP)
			r.Post("/verify-otp", verifyotp.New(logger, authService, cfg.Session).ServeHTTP)

			// Профиль текущего пользователя требует сессии
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.SessionMiddleware(cfg.Session.CookieName, sessions, db, logger))
				r.Get("/me", me.New(logger, authService).ServeHTTP)
				r.Put("/update", update.New(logger, authService).ServeHTTP)
			})
		})

		// Группа с cookie-сессией
		r.Route("/expenses", func(r chi.Router) {
			r.Use(middlewarectx.SessionMiddleware(cfg.Session.CookieName, sessions, db, logger))
			r.Post("/", create.New(logger, expenseService).ServeHTTP)
			r.Post("/voice", voice.New(logger, expenseService).ServeHTTP)
			r.Get("/summary/{userId}", sum.New(logger, expenseService).ServeHTTP)
			r.Delete("/clear/{userId}", clear.New(logger, expenseService).ServeHTTP)
			r.Get("/{userId}", list.New(logger, expenseService).ServeHTTP)
			r.Delete("/{id}", remove.New(logger, expenseService).ServeHTTP)
		})

		// Администрирование: сессия + роль admin
		r.Route("/admin", func(r chi.Router) {
			r.Use(middlewarectx.SessionMiddleware(cfg.Session.CookieName, sessions, db, logger))
			r.Use(middlewarectx.RequireAdmin(logger))
			r.Get("/users", listusers.New(logger, adminService).ServeHTTP)
			r.Get("/expenses", listexpenses.New(logger, adminService).ServeHTTP)
			r.Delete("/users/{userId}", removeuser.New(logger, adminService).ServeHTTP)
			resetHandler := reset.New(logger, adminService)
			r.Delete("/reset", resetHandler.ServeHTTP)
			r.Post("/reset", resetHandler.ServeHTTP)
		})

		r.Get("/health", health.New(logger, db).ServeHTTP)
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
