// Package models содержит доменную модель пользователя системы.
// Пользователь может быть создан через регистрацию по email либо
// автоматически при первом входе по номеру телефона (OTP).
package models

import "time"

// Роли пользователей. Роль admin выдается при регистрации с email
// на служебном домене либо через команду create-admin.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Провайдеры учетной записи.
const (
	ProviderLocal = "local"
	ProviderPhone = "phone"
)

// User представляет зарегистрированного пользователя системы.
// Хотя бы одно из полей Email или Phone всегда заполнено.
type User struct {
	UID          string    `json:"id"`              // Уникальный идентификатор пользователя
	Name         string    `json:"name,omitempty"`  // Имя (опционально)
	Email        string    `json:"email,omitempty"` // Электронная почта (уникальна, если задана)
	Phone        string    `json:"phone,omitempty"` // Телефон (уникален, если задан)
	PasswordHash string    `json:"-"`               // Хэш пароля, наружу не отдается
	Provider     string    `json:"provider"`        // Способ создания учетной записи: local или phone
	Role         string    `json:"role"`            // Роль пользователя, admin или user
	CreatedAt    time.Time `json:"created_at"`      // Дата создания
}

// UpdateProfileRequest используется для приёма данных из JSON-запроса
// на обновление профиля. Пустой пароль означает "не менять".
type UpdateProfileRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" validate:"omitempty,min=6"`
}
