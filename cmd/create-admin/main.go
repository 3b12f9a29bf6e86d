// Утилита первоначального создания администратора.
//
// Создает пользователя с ролью admin из секции admin конфига.
// Если пользователь с таким email уже существует, ничего не делает.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"os"

	"github.com/magabrotheeeer/expense-tracker/internal/config"
	"github.com/magabrotheeeer/expense-tracker/internal/lib/password"
	"github.com/magabrotheeeer/expense-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/expense-tracker/internal/migrations"
	"github.com/magabrotheeeer/expense-tracker/internal/models"
	"github.com/magabrotheeeer/expense-tracker/internal/storage/repository"
)

func main() {
	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{}))

	if cfg.Admin.BootstrapPass == "" {
		logger.Error("ADMIN_BOOTSTRAP_PASSWORD is not set")
		os.Exit(1)
	}

	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		logger.Error("failed to connect to storage", sl.Err(err))
		os.Exit(1)
	}
	defer func() {
		if err := db.DB.Close(); err != nil {
			logger.Error("failed to close database", sl.Err(err))
		}
	}()

	if err := migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		logger.Error("failed to run migrations", sl.Err(err))
		os.Exit(1)
	}

	ctx := context.Background()

	if existing, err := db.GetUserByEmail(ctx, cfg.Admin.BootstrapEmail); err == nil {
		logger.Info("admin already exists, nothing to do",
			slog.String("uid", existing.UID), slog.String("email", existing.Email))
		return
	} else if !errors.Is(err, sql.ErrNoRows) {
		logger.Error("failed to check existing admin", sl.Err(err))
		os.Exit(1)
	}

	hashed, err := password.GetHash(cfg.Admin.BootstrapPass)
	if err != nil {
		logger.Error("failed to hash password", sl.Err(err))
		os.Exit(1)
	}

	uid, err := db.RegisterUser(ctx, models.User{
		Name:         cfg.Admin.BootstrapName,
		Email:        cfg.Admin.BootstrapEmail,
		Phone:        cfg.Admin.BootstrapPhone,
		PasswordHash: hashed,
		Provider:     models.ProviderLocal,
		Role:         models.RoleAdmin,
	})
	if err != nil {
		logger.Error("failed to create admin", sl.Err(err))
		os.Exit(1)
	}

	logger.Info("admin created", slog.String("uid", uid), slog.String("email", cfg.Admin.BootstrapEmail))
}
