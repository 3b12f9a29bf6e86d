// Package session реализует серверное хранилище cookie-сессий на основе Redis.
//
// Сессия — это непрозрачный токен, выдаваемый клиенту в HttpOnly-cookie
// и сопоставленный на сервере с UID пользователя. Сессия действительна,
// пока ключ существует в Redis: логаут или истечение TTL делают токен
// недействительным на всех инстансах, разделяющих Redis.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Store хранит сессии в Redis с заданным временем жизни.
type Store struct {
	db  *redis.Client
	ttl time.Duration
}

// New создает хранилище сессий поверх существующего клиента Redis.
func New(db *redis.Client, ttl time.Duration) *Store {
	return &Store{db: db, ttl: ttl}
}

func key(token string) string {
	return "session:" + token
}

// Create выдает новый токен сессии для пользователя.
func (s *Store) Create(ctx context.Context, userUID string) (string, error) {
	const op = "session.Create"
	token := uuid.NewString()
	if err := s.db.Set(ctx, key(token), userUID, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return token, nil
}

// Get возвращает UID пользователя по токену.
// Возвращает found = false без ошибки, если сессии нет или она истекла.
func (s *Store) Get(ctx context.Context, token string) (string, bool, error) {
	const op = "session.Get"
	userUID, err := s.db.Get(ctx, key(token)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", op, err)
	}
	return userUID, true, nil
}

// Delete уничтожает сессию. Отсутствие сессии ошибкой не считается.
func (s *Store) Delete(ctx context.Context, token string) error {
	const op = "session.Delete"
	if err := s.db.Del(ctx, key(token)).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
