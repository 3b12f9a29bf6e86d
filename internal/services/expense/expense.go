// Package services содержит бизнес-логику работы с расходами, включая
// проверку владения записями и кеширование списков.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/expense-tracker/internal/lib/textparse"
	"github.com/magabrotheeeer/expense-tracker/internal/models"
)

// Ошибки бизнес-уровня. Обработчики сопоставляют их с HTTP-статусами.
var (
	// ErrForbidden возвращается, когда пользователь пытается работать
	// с чужими расходами без роли admin.
	ErrForbidden = errors.New("access to another user's expenses denied")
	// ErrInvalidDate возвращается при дате расхода не в формате YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid expense date")
)

// Время жизни кеша списка расходов. Списки короткоживущие:
// любая мутация инвалидирует ключ владельца.
const listCacheTTL = 5 * time.Minute

// ExpenseRepository определяет методы для работы с расходами в хранилище.
type ExpenseRepository interface {
	// CreateExpense добавляет новую запись и возвращает её с присвоенным ID.
	CreateExpense(ctx context.Context, expense models.Expense) (*models.Expense, error)
	// GetExpense возвращает запись по ID, found = false если записи нет.
	GetExpense(ctx context.Context, id string) (*models.Expense, bool, error)
	// ListExpensesByUser возвращает расходы пользователя от новых к старым.
	ListExpensesByUser(ctx context.Context, userUID string) ([]*models.Expense, error)
	// RemoveExpense удаляет запись по ID и возвращает количество удалённых.
	RemoveExpense(ctx context.Context, id string) (int, error)
	// ClearExpensesByUser удаляет все расходы пользователя.
	ClearExpensesByUser(ctx context.Context, userUID string) (int, error)
	// SumExpensesByCategory агрегирует расходы пользователя по категориям.
	SumExpensesByCategory(ctx context.Context, userUID string) (*models.ExpenseSummary, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// ExpenseService реализует бизнес-логику работы с расходами.
// Все операции принимают UID и роль действующего пользователя из сессии:
// не-администратор может видеть и менять только собственные записи.
type ExpenseService struct {
	repo  ExpenseRepository
	cache Cache
	log   *slog.Logger
}

// NewExpenseService создает новый экземпляр ExpenseService.
func NewExpenseService(repo ExpenseRepository, cache Cache, log *slog.Logger) *ExpenseService {
	return &ExpenseService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

func listCacheKey(userUID string) string {
	return "expenses:" + userUID
}

func (s *ExpenseService) authorize(actorUID, actorRole, ownerUID string) error {
	if actorUID != ownerUID && actorRole != models.RoleAdmin {
		return ErrForbidden
	}
	return nil
}

// Create создает новую запись расхода. Владелец берётся из запроса, но
// не-администратор может создавать записи только для самого себя;
// пустой userId означает текущего пользователя.
func (s *ExpenseService) Create(ctx context.Context, actorUID, actorRole string, req models.DummyExpense) (*models.Expense, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}

	ownerUID := req.UserID
	if ownerUID == "" {
		ownerUID = actorUID
	}
	if err := s.authorize(actorUID, actorRole, ownerUID); err != nil {
		return nil, err
	}

	method := req.Method
	if method == "" {
		method = models.MethodManual
	}

	expense := models.Expense{
		UserUID:     ownerUID,
		Amount:      req.Amount,
		Category:    req.Category,
		Description: req.Description,
		Date:        date,
		InputMethod: method,
	}
	created, err := s.repo.CreateExpense(ctx, expense)
	if err != nil {
		return nil, err
	}
	s.log.Info("created new expense", slog.String("id", created.ID), slog.String("user_uid", ownerUID))

	if err := s.cache.Invalidate(listCacheKey(ownerUID)); err != nil {
		s.log.Warn("failed to invalidate expenses cache", slog.String("user_uid", ownerUID), slog.Any("err", err))
	}
	return created, nil
}

// CreateFromText разбирает свободный текст (голосовой ввод) и создает
// расход с датой "сегодня" и методом voice. Возвращает ошибку разбора,
// если сумму извлечь не удалось.
func (s *ExpenseService) CreateFromText(ctx context.Context, actorUID, transcript string) (*models.Expense, error) {
	parsed, err := textparse.Parse(transcript)
	if err != nil {
		return nil, err
	}

	req := models.DummyExpense{
		Amount:      parsed.Amount,
		Category:    parsed.Category,
		Description: parsed.Description,
		Date:        time.Now().UTC().Format("2006-01-02"),
		UserID:      actorUID,
		Method:      models.MethodVoice,
	}
	return s.Create(ctx, actorUID, models.RoleUser, req)
}

// List возвращает расходы пользователя от новых к старым,
// используя кеш или репозиторий.
func (s *ExpenseService) List(ctx context.Context, actorUID, actorRole, userUID string) ([]*models.Expense, error) {
	if err := s.authorize(actorUID, actorRole, userUID); err != nil {
		return nil, err
	}

	var cached []*models.Expense
	cacheKey := listCacheKey(userUID)
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read expenses cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	if found {
		return cached, nil
	}

	expenses, err := s.repo.ListExpensesByUser(ctx, userUID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(cacheKey, expenses, listCacheTTL); err != nil {
		s.log.Warn("failed to cache expenses", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return expenses, nil
}

// Remove удаляет запись по ID. Удаление идемпотентно: отсутствие записи
// не считается ошибкой. Проверка владельца выполняется только для
// существующей записи.
func (s *ExpenseService) Remove(ctx context.Context, actorUID, actorRole, id string) (int, error) {
	expense, found, err := s.repo.GetExpense(ctx, id)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, nil
	}
	if err := s.authorize(actorUID, actorRole, expense.UserUID); err != nil {
		return 0, err
	}

	count, err := s.repo.RemoveExpense(ctx, id)
	if err != nil {
		return 0, err
	}
	if err := s.cache.Invalidate(listCacheKey(expense.UserUID)); err != nil {
		s.log.Warn("failed to invalidate expenses cache", slog.String("user_uid", expense.UserUID), slog.Any("err", err))
	}
	return count, nil
}

// ClearAll удаляет все расходы пользователя.
func (s *ExpenseService) ClearAll(ctx context.Context, actorUID, actorRole, userUID string) (int, error) {
	if err := s.authorize(actorUID, actorRole, userUID); err != nil {
		return 0, err
	}

	count, err := s.repo.ClearExpensesByUser(ctx, userUID)
	if err != nil {
		return 0, err
	}
	if err := s.cache.Invalidate(listCacheKey(userUID)); err != nil {
		s.log.Warn("failed to invalidate expenses cache", slog.String("user_uid", userUID), slog.Any("err", err))
	}
	return count, nil
}

// Summary возвращает агрегаты расходов пользователя для дашборда.
func (s *ExpenseService) Summary(ctx context.Context, actorUID, actorRole, userUID string) (*models.ExpenseSummary, error) {
	if err := s.authorize(actorUID, actorRole, userUID); err != nil {
		return nil, err
	}
	return s.repo.SumExpensesByCategory(ctx, userUID)
}
