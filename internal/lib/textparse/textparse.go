// Package textparse разбирает свободный текст о расходе (распознанную речь
// или результат обработки чека) в сумму, категорию и описание.
//
// Категория выбирается голосованием по словарю ключевых слов: побеждает
// категория с наибольшим числом совпадений, при отсутствии совпадений — Other.
package textparse

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrNoAmount возвращается, когда в тексте не найдена сумма.
var ErrNoAmount = errors.New("no amount found in text")

// ParsedExpense результат разбора текста.
type ParsedExpense struct {
	Amount      float64
	Category    string
	Description string
}

var (
	amountRe   = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:rupees?|rs\.?|₹)?`)
	verbPrefix = regexp.MustCompile(`^(?i)(i\s+)?(spent|paid|bought|purchased)\s*`)
)

// Словарь категорий. Порядок обхода фиксирован, чтобы результат
// голосования был детерминированным при равном числе совпадений.
var categoryOrder = []string{
	"Food", "Transportation", "Bills", "Shopping",
	"Entertainment", "Healthcare", "Education", "Travel",
}

var categoryKeywords = map[string][]string{
	"Food":           {"restaurant", "food", "lunch", "dinner", "breakfast", "chai", "tea", "coffee", "meal", "snack", "dosa", "biryani", "pizza", "burger", "swiggy", "zomato", "dhaba"},
	"Transportation": {"uber", "ola", "taxi", "auto", "bus", "train", "metro", "petrol", "diesel", "fuel", "cab", "rickshaw", "flight", "bike"},
	"Bills":          {"electricity", "water", "gas", "internet", "wifi", "mobile", "phone", "rent", "bill", "jio", "airtel", "bsnl"},
	"Shopping":       {"shopping", "clothes", "shirt", "shoes", "mall", "store", "amazon", "flipkart", "myntra", "grocery", "vegetables"},
	"Entertainment":  {"movie", "cinema", "pvr", "inox", "netflix", "amazon prime", "hotstar", "game", "party", "club"},
	"Healthcare":     {"doctor", "hospital", "medicine", "pharmacy", "apollo", "fortis", "medical", "health", "checkup"},
	"Education":      {"fees", "books", "course", "coaching", "exam", "school", "college", "university"},
	"Travel":         {"hotel", "booking", "oyo", "trip", "vacation", "travel", "tour", "holiday"},
}

// Parse извлекает из текста сумму, категорию и описание.
// Возвращает ErrNoAmount, если сумму найти не удалось.
func Parse(text string) (*ParsedExpense, error) {
	const op = "textparse.Parse"

	lower := strings.ToLower(text)

	match := amountRe.FindStringSubmatch(lower)
	if match == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrNoAmount)
	}
	amount, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	category := "Other"
	maxMatches := 0
	for _, cat := range categoryOrder {
		matches := 0
		for _, keyword := range categoryKeywords[cat] {
			if strings.Contains(lower, keyword) {
				matches++
			}
		}
		if matches > maxMatches {
			maxMatches = matches
			category = cat
		}
	}

	description := strings.TrimSpace(amountRe.ReplaceAllString(text, ""))
	description = strings.TrimSpace(verbPrefix.ReplaceAllString(description, ""))
	if description == "" {
		description = category + " expense"
	}

	return &ParsedExpense{
		Amount:      amount,
		Category:    category,
		Description: description,
	}, nil
}
