// Package services содержит логику бизнес-уровня для работы с пользователями,
// cookie-сессиями и входом по одноразовым кодам.
package services

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/expense-tracker/internal/config"
	"github.com/magabrotheeeer/expense-tracker/internal/lib/password"
	"github.com/magabrotheeeer/expense-tracker/internal/models"
)

// Ошибки бизнес-уровня. Обработчики сопоставляют их с HTTP-статусами.
var (
	ErrEmailTaken         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidOTP         = errors.New("invalid otp")
	ErrMissingContact     = errors.New("email or phone is required")
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его UID.
	RegisterUser(ctx context.Context, user models.User) (string, error)
	// GetUser возвращает пользователя по UID.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	// GetUserByEmail возвращает пользователя по email или ошибку, если не найден.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// GetUserByPhone возвращает пользователя по телефону или ошибку, если не найден.
	GetUserByPhone(ctx context.Context, phone string) (*models.User, error)
	// UpdateUser обновляет профиль и возвращает обновлённую запись.
	UpdateUser(ctx context.Context, user models.User) (*models.User, error)
}

// SessionStore описывает контракт серверного хранилища сессий.
type SessionStore interface {
	Create(ctx context.Context, userUID string) (string, error)
	Delete(ctx context.Context, token string) error
}

// OTPStore описывает контракт хранилища одноразовых кодов.
type OTPStore interface {
	Save(ctx context.Context, phone, code string) error
	Consume(ctx context.Context, phone string) (string, bool, error)
}

// CodeGenerator генерирует одноразовый код. Выделен в поле,
// чтобы тесты могли подставить предсказуемый код.
type CodeGenerator func() (string, error)

// AuthService отвечает за регистрацию, вход по паролю и по OTP,
// профиль текущего пользователя и логаут.
type AuthService struct {
	users    UserRepository
	sessions SessionStore
	otps     OTPStore
	genCode  CodeGenerator
	otpCfg   config.OTP
	adminCfg config.Admin
	log      *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, sessions SessionStore, otps OTPStore,
	genCode CodeGenerator, otpCfg config.OTP, adminCfg config.Admin, log *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		otps:     otps,
		genCode:  genCode,
		otpCfg:   otpCfg,
		adminCfg: adminCfg,
		log:      log,
	}
}

// RoleForEmail возвращает роль, которую получит пользователь с данным email:
// admin для служебного домена, иначе user.
func (s *AuthService) RoleForEmail(email string) string {
	if email != "" && strings.HasSuffix(email, s.adminCfg.AdminEmailDomain) {
		return models.RoleAdmin
	}
	return models.RoleUser
}

// Register создает нового пользователя с хэшированием пароля, ролью по
// домену email и сразу открывает для него сессию.
func (s *AuthService) Register(ctx context.Context, name, email, rawPassword, phone string) (*models.User, string, error) {
	if email == "" && phone == "" {
		return nil, "", ErrMissingContact
	}

	if email != "" {
		if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
			return nil, "", ErrEmailTaken
		} else if !errors.Is(err, sql.ErrNoRows) {
			return nil, "", err
		}
	}

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return nil, "", err
	}

	user := models.User{
		Name:         name,
		Email:        email,
		Phone:        phone,
		PasswordHash: hashed,
		Provider:     models.ProviderLocal,
		Role:         s.RoleForEmail(email),
	}
	uid, err := s.users.RegisterUser(ctx, user)
	if err != nil {
		return nil, "", err
	}
	user.UID = uid

	token, err := s.sessions.Create(ctx, uid)
	if err != nil {
		return nil, "", err
	}
	s.log.Info("auto-logged in new user", slog.String("uid", uid), slog.String("role", user.Role))
	return &user, token, nil
}

// Login проверяет пароль пользователя и открывает сессию.
// Роль берётся из хранилища и при входе не пересчитывается.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (*models.User, string, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", ErrUserNotFound
		}
		return nil, "", err
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.sessions.Create(ctx, user.UID)
	if err != nil {
		return nil, "", err
	}
	s.log.Info("logged in user", slog.String("uid", user.UID))
	return user, token, nil
}

// SendOTP генерирует и сохраняет одноразовый код для номера телефона.
// Для демо-номера код фиксирован и не сохраняется. Код "доставляется"
// записью в лог; реальная отправка SMS вне рамок системы. Ответ всегда
// успешный, чтобы не раскрывать, зарегистрирован ли номер.
func (s *AuthService) SendOTP(ctx context.Context, phone string) (string, error) {
	if phone == s.otpCfg.DemoPhone {
		s.log.Info("demo OTP requested", slog.String("phone", phone))
		return "OTP sent (Demo: " + s.otpCfg.DemoCode + ")", nil
	}

	code, err := s.genCode()
	if err != nil {
		return "", err
	}
	if err := s.otps.Save(ctx, phone, code); err != nil {
		return "", err
	}
	s.log.Info("OTP generated", slog.String("phone", phone), slog.String("code", code))
	return "OTP sent successfully", nil
}

// VerifyOTP проверяет код: сначала демо-пару, затем сохранённый код,
// который потребляется ровно один раз. При успехе находит либо создает
// пользователя по номеру телефона и открывает сессию.
func (s *AuthService) VerifyOTP(ctx context.Context, phone, code string) (*models.User, string, error) {
	if phone == s.otpCfg.DemoPhone && code == s.otpCfg.DemoCode {
		// Демо-вход без сохранённого кода
	} else {
		stored, found, err := s.otps.Consume(ctx, phone)
		if err != nil {
			return nil, "", err
		}
		if !found || stored != code {
			return nil, "", ErrInvalidOTP
		}
	}

	user, err := s.users.GetUserByPhone(ctx, phone)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, "", err
		}
		newUser := models.User{
			Name:     "Mobile User",
			Phone:    phone,
			Provider: models.ProviderPhone,
			Role:     models.RoleUser,
		}
		uid, err := s.users.RegisterUser(ctx, newUser)
		if err != nil {
			return nil, "", err
		}
		newUser.UID = uid
		user = &newUser
		s.log.Info("created user from OTP login", slog.String("uid", uid))
	}

	token, err := s.sessions.Create(ctx, user.UID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// CurrentUser возвращает пользователя, привязанного к сессии.
func (s *AuthService) CurrentUser(ctx context.Context, userUID string) (*models.User, error) {
	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile применяет непустые поля запроса к профилю пользователя.
// Пароль перехэшируется, только если передан непустым.
func (s *AuthService) UpdateProfile(ctx context.Context, userUID string, req models.UpdateProfileRequest) (*models.User, error) {
	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	if req.Password != "" {
		hashed, err := password.GetHash(req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hashed
	}

	return s.users.UpdateUser(ctx, *user)
}

// Logout уничтожает сессию. Повторный логаут — no-op.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}
