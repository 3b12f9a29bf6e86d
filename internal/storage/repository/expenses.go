package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/expense-tracker/internal/models"
)

const expenseColumns = `id, user_uid, amount, category, description, expense_date, input_method, created_at`

func scanExpense(row interface{ Scan(dest ...any) error }) (*models.Expense, error) {
	var e models.Expense
	if err := row.Scan(&e.ID, &e.UserUID, &e.Amount, &e.Category, &e.Description,
		&e.Date, &e.InputMethod, &e.CreatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

// CreateExpense вставляет новую запись расхода и возвращает её вместе
// с присвоенным идентификатором и датой создания.
func (s *Storage) CreateExpense(ctx context.Context, expense models.Expense) (*models.Expense, error) {
	const op = "storage.CreateExpense"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO expenses (user_uid, amount, category, description, expense_date, input_method)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING ` + expenseColumns
	created, err := scanExpense(s.DB.QueryRowContext(ctx, query,
		expense.UserUID, expense.Amount, expense.Category, expense.Description,
		expense.Date, expense.InputMethod))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

// GetExpense возвращает расход по его идентификатору.
// Возвращает found = false без ошибки, если записи нет.
func (s *Storage) GetExpense(ctx context.Context, id string) (*models.Expense, bool, error) {
	const op = "storage.GetExpense"
	select {
	case <-ctx.Done():
		return nil, false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE id = $1`
	e, err := scanExpense(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	return e, true, nil
}

// ListExpensesByUser возвращает все расходы пользователя,
// отсортированные от новых к старым по дате создания записи.
func (s *Storage) ListExpensesByUser(ctx context.Context, userUID string) ([]*models.Expense, error) {
	const op = "storage.ListExpensesByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + expenseColumns + `
			  FROM expenses
			  WHERE user_uid = $1
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListAllExpenses возвращает все расходы всех пользователей.
func (s *Storage) ListAllExpenses(ctx context.Context) ([]*models.Expense, error) {
	const op = "storage.ListAllExpenses"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + expenseColumns + `
			  FROM expenses
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// RemoveExpense удаляет расход по идентификатору и возвращает
// количество удалённых строк.
func (s *Storage) RemoveExpense(ctx context.Context, id string) (int, error) {
	const op = "storage.RemoveExpense"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM expenses WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ClearExpensesByUser удаляет все расходы пользователя.
func (s *Storage) ClearExpensesByUser(ctx context.Context, userUID string) (int, error) {
	const op = "storage.ClearExpensesByUser"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM expenses WHERE user_uid = $1`
	result, err := s.DB.ExecContext(ctx, query, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// DeleteAllExpenses удаляет все расходы без исключения.
func (s *Storage) DeleteAllExpenses(ctx context.Context) (int, error) {
	const op = "storage.DeleteAllExpenses"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	result, err := s.DB.ExecContext(ctx, `DELETE FROM expenses`)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// SumExpensesByCategory подсчитывает количество и сумму расходов
// пользователя в разрезе категорий.
func (s *Storage) SumExpensesByCategory(ctx context.Context, userUID string) (*models.ExpenseSummary, error) {
	const op = "storage.SumExpensesByCategory"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT category, COUNT(*), COALESCE(SUM(amount), 0)
			  FROM expenses
			  WHERE user_uid = $1
			  GROUP BY category`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	summary := &models.ExpenseSummary{ByCategory: make(map[string]float64)}
	for rows.Next() {
		var category string
		var count int
		var sum float64
		if err := rows.Scan(&category, &count, &sum); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		summary.ByCategory[category] = sum
		summary.Total += sum
		summary.Count += count
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return summary, nil
}
