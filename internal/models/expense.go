// Package models содержит доменные структуры расходов,
// а также вспомогательные типы для работы с данными из JSON-запросов.
package models

import "time"

// Способы добавления расхода.
const (
	MethodManual  = "manual"
	MethodQuick   = "quick"
	MethodVoice   = "voice"
	MethodReceipt = "receipt"
)

// Expense представляет собой запись о расходе пользователя.
// Дата расхода (Date) отличается от даты создания записи (CreatedAt):
// расход можно внести задним числом.
type Expense struct {
	ID          string    `json:"id"`          // Уникальный идентификатор записи
	UserUID     string    `json:"userId"`      // Идентификатор владельца
	Amount      float64   `json:"amount"`      // Сумма расхода, неотрицательная
	Category    string    `json:"category"`    // Категория расхода
	Description string    `json:"description"` // Описание
	Date        time.Time `json:"date"`        // Календарная дата расхода
	InputMethod string    `json:"method"`      // Способ добавления: manual, quick, voice, receipt
	CreatedAt   time.Time `json:"created_at"`  // Дата создания записи
}

// DummyExpense используется для приёма данных из JSON-запроса,
// прежде чем конвертировать их в Expense. Дата приходит строкой,
// чтобы её можно было валидировать и парсить вручную.
type DummyExpense struct {
	Amount      float64 `json:"amount" validate:"gte=0"`                                        // Сумма (>= 0)
	Category    string  `json:"category"`                                                       // Категория
	Description string  `json:"description"`                                                    // Описание
	Date        string  `json:"date" validate:"required"`                                       // Дата в формате 2006-01-02
	UserID      string  `json:"userId"`                                                         // Владелец; пустое значение — текущий пользователь
	Method      string  `json:"method" validate:"omitempty,oneof=manual quick voice receipt"` // Способ добавления
}

// ExpenseSummary содержит агрегаты по расходам пользователя
// для экрана дашборда.
type ExpenseSummary struct {
	Total      float64            `json:"total"`
	Count      int                `json:"count"`
	ByCategory map[string]float64 `json:"by_category"`
}
