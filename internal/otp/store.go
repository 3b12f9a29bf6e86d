// Package otp реализует хранилище одноразовых кодов входа по телефону.
//
// Код хранится в Redis с TTL и потребляется ровно один раз: Consume
// атомарно читает и удаляет ключ, поэтому повторная проверка того же
// кода всегда завершается неудачей. Новый код для того же номера
// перезаписывает предыдущий.
package otp

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store хранит одноразовые коды в Redis.
type Store struct {
	db  *redis.Client
	ttl time.Duration
}

// New создает хранилище кодов поверх существующего клиента Redis.
func New(db *redis.Client, ttl time.Duration) *Store {
	return &Store{db: db, ttl: ttl}
}

func key(phone string) string {
	return "otp:" + phone
}

// GenerateCode возвращает случайный 6-значный код.
func GenerateCode() (string, error) {
	const op = "otp.GenerateCode"
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// Save сохраняет код для номера телефона, перезаписывая предыдущий.
func (s *Store) Save(ctx context.Context, phone, code string) error {
	const op = "otp.Save"
	if err := s.db.Set(ctx, key(phone), code, s.ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Consume атомарно извлекает и удаляет код для номера телефона.
// Возвращает found = false, если кода нет или он истёк.
func (s *Store) Consume(ctx context.Context, phone string) (string, bool, error) {
	const op = "otp.Consume"
	code, err := s.db.GetDel(ctx, key(phone)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", op, err)
	}
	return code, true, nil
}
