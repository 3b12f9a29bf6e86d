// Package services содержит операции администратора: обзор всех
// пользователей и расходов, каскадное удаление и сброс системы.
package services

import (
	"context"
	"log/slog"

	"github.com/magabrotheeeer/expense-tracker/internal/models"
)

// AdminRepository определяет методы хранилища, доступные администратору.
type AdminRepository interface {
	// ListUsers возвращает всех пользователей системы.
	ListUsers(ctx context.Context) ([]*models.User, error)
	// ListAllExpenses возвращает расходы всех пользователей.
	ListAllExpenses(ctx context.Context) ([]*models.Expense, error)
	// DeleteUser удаляет пользователя по UID, возвращает количество удалённых.
	DeleteUser(ctx context.Context, userUID string) (int, error)
	// ClearExpensesByUser удаляет все расходы пользователя.
	ClearExpensesByUser(ctx context.Context, userUID string) (int, error)
	// DeleteNonAdminUsers удаляет всех пользователей, кроме администраторов.
	DeleteNonAdminUsers(ctx context.Context) (int, error)
	// DeleteAllExpenses удаляет все расходы в системе.
	DeleteAllExpenses(ctx context.Context) (int, error)
}

// Invalidator сбрасывает кешированные списки расходов после мутаций.
type Invalidator interface {
	Invalidate(key string) error
	InvalidatePrefix(ctx context.Context, prefix string) error
}

// AdminService реализует административные операции. Проверка роли admin
// выполняется на уровне маршрутов, сюда запросы не-администраторов
// не доходят.
type AdminService struct {
	repo  AdminRepository
	cache Invalidator
	log   *slog.Logger
}

// NewAdminService создает новый экземпляр AdminService.
func NewAdminService(repo AdminRepository, cache Invalidator, log *slog.Logger) *AdminService {
	return &AdminService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// ListUsers возвращает всех пользователей системы.
func (s *AdminService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.repo.ListUsers(ctx)
}

// ListAllExpenses возвращает расходы всех пользователей.
func (s *AdminService) ListAllExpenses(ctx context.Context) ([]*models.Expense, error) {
	return s.repo.ListAllExpenses(ctx)
}

// DeleteUser удаляет пользователя и каскадно все его расходы.
// Операция идемпотентна: удаление отсутствующего пользователя успешно.
// Удаление записи пользователя и его расходов — два отдельных запроса;
// при сбое между ними остаются осиротевшие расходы, их подчистит
// следующий вызов с тем же UID.
func (s *AdminService) DeleteUser(ctx context.Context, userUID string) error {
	users, err := s.repo.DeleteUser(ctx, userUID)
	if err != nil {
		return err
	}
	expenses, err := s.repo.ClearExpensesByUser(ctx, userUID)
	if err != nil {
		return err
	}
	if err := s.cache.Invalidate("expenses:" + userUID); err != nil {
		s.log.Warn("failed to invalidate expenses cache", slog.String("user_uid", userUID), slog.Any("err", err))
	}
	s.log.Info("deleted user with expenses",
		slog.String("user_uid", userUID),
		slog.Int("users_removed", users),
		slog.Int("expenses_removed", expenses))
	return nil
}

// ResetSystem удаляет всех пользователей, кроме администраторов,
// и все расходы, включая расходы администраторов.
func (s *AdminService) ResetSystem(ctx context.Context) (usersRemoved, expensesRemoved int, err error) {
	usersRemoved, err = s.repo.DeleteNonAdminUsers(ctx)
	if err != nil {
		return 0, 0, err
	}
	expensesRemoved, err = s.repo.DeleteAllExpenses(ctx)
	if err != nil {
		return 0, 0, err
	}
	if err := s.cache.InvalidatePrefix(ctx, "expenses:"); err != nil {
		s.log.Warn("failed to invalidate expenses cache", slog.Any("err", err))
	}
	s.log.Info("system reset",
		slog.Int("users_removed", usersRemoved),
		slog.Int("expenses_removed", expensesRemoved))
	return usersRemoved, expensesRemoved, nil
}
