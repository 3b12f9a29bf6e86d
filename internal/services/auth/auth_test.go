package services_test

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/magabrotheeeer/expense-tracker/internal/config"
	"github.com/magabrotheeeer/expense-tracker/internal/lib/password"
	"github.com/magabrotheeeer/expense-tracker/internal/models"
	services "github.com/magabrotheeeer/expense-tracker/internal/services/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Мок для UserRepository
type UserRepoMock struct {
	mock.Mock
}

func (m *UserRepoMock) RegisterUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *UserRepoMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) GetUserByPhone(ctx context.Context, phone string) (*models.User, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) UpdateUser(ctx context.Context, user models.User) (*models.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// Мок для SessionStore
type SessionStoreMock struct {
	mock.Mock
}

func (m *SessionStoreMock) Create(ctx context.Context, userUID string) (string, error) {
	args := m.Called(ctx, userUID)
	return args.String(0), args.Error(1)
}

func (m *SessionStoreMock) Delete(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

// Мок для OTPStore
type OTPStoreMock struct {
	mock.Mock
}

func (m *OTPStoreMock) Save(ctx context.Context, phone, code string) error {
	args := m.Called(ctx, phone, code)
	return args.Error(0)
}

func (m *OTPStoreMock) Consume(ctx context.Context, phone string) (string, bool, error) {
	args := m.Called(ctx, phone)
	return args.String(0), args.Bool(1), args.Error(2)
}

func testOTPConfig() config.OTP {
	return config.OTP{DemoPhone: "1234567890", DemoCode: "123456"}
}

func testAdminConfig() config.Admin {
	return config.Admin{AdminEmailDomain: "@ded.com"}
}

func newTestService(repo *UserRepoMock, sessions *SessionStoreMock, otps *OTPStoreMock) *services.AuthService {
	genCode := func() (string, error) { return "654321", nil }
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return services.NewAuthService(repo, sessions, otps, genCode,
		testOTPConfig(), testAdminConfig(), slog.New(h))
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name       string
		userName   string
		email      string
		password   string
		phone      string
		setupMocks func(r *UserRepoMock, s *SessionStoreMock)
		wantRole   string
		wantToken  string
		wantErr    error
	}{
		{
			name:     "successful registration",
			userName: "Test User",
			email:    "test@gmail.com",
			password: "password123",
			setupMocks: func(r *UserRepoMock, s *SessionStoreMock) {
				r.On("GetUserByEmail", mock.Anything, "test@gmail.com").Return(nil, sql.ErrNoRows).Once()
				r.On("RegisterUser", mock.Anything, mock.MatchedBy(func(user models.User) bool {
					return user.Email == "test@gmail.com" &&
						user.PasswordHash != "" &&
						user.Provider == models.ProviderLocal &&
						user.Role == models.RoleUser
				})).Return("uid-1", nil).Once()
				s.On("Create", mock.Anything, "uid-1").Return("token-1", nil).Once()
			},
			wantRole:  models.RoleUser,
			wantToken: "token-1",
		},
		{
			name:     "admin domain email gets admin role",
			userName: "Boss",
			email:    "boss@ded.com",
			password: "password123",
			setupMocks: func(r *UserRepoMock, s *SessionStoreMock) {
				r.On("GetUserByEmail", mock.Anything, "boss@ded.com").Return(nil, sql.ErrNoRows).Once()
				r.On("RegisterUser", mock.Anything, mock.MatchedBy(func(user models.User) bool {
					return user.Role == models.RoleAdmin
				})).Return("uid-2", nil).Once()
				s.On("Create", mock.Anything, "uid-2").Return("token-2", nil).Once()
			},
			wantRole:  models.RoleAdmin,
			wantToken: "token-2",
		},
		{
			name:     "duplicate email",
			userName: "Test User",
			email:    "taken@gmail.com",
			password: "password123",
			setupMocks: func(r *UserRepoMock, _ *SessionStoreMock) {
				r.On("GetUserByEmail", mock.Anything, "taken@gmail.com").
					Return(&models.User{UID: "uid-old", Email: "taken@gmail.com"}, nil).Once()
			},
			wantErr: services.ErrEmailTaken,
		},
		{
			name:       "no email and no phone",
			userName:   "Nobody",
			setupMocks: func(_ *UserRepoMock, _ *SessionStoreMock) {},
			wantErr:    services.ErrMissingContact,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			sessions := new(SessionStoreMock)
			otps := new(OTPStoreMock)
			svc := newTestService(repo, sessions, otps)

			tt.setupMocks(repo, sessions)

			user, token, err := svc.Register(context.Background(), tt.userName, tt.email, tt.password, tt.phone)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantRole, user.Role)
				assert.Equal(t, tt.wantToken, token)
			}

			repo.AssertExpectations(t)
			sessions.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	rawPassword := "correctpassword"
	hashedPassword, err := password.GetHash(rawPassword)
	require.NoError(t, err)

	testUser := &models.User{
		UID:          "uid-1",
		Email:        "test@gmail.com",
		PasswordHash: hashedPassword,
		Role:         models.RoleAdmin, // роль при входе берётся из хранилища
	}

	tests := []struct {
		name       string
		email      string
		password   string
		setupMocks func(r *UserRepoMock, s *SessionStoreMock)
		wantRole   string
		wantToken  string
		wantErr    error
	}{
		{
			name:     "successful login",
			email:    "test@gmail.com",
			password: rawPassword,
			setupMocks: func(r *UserRepoMock, s *SessionStoreMock) {
				r.On("GetUserByEmail", mock.Anything, "test@gmail.com").Return(testUser, nil).Once()
				s.On("Create", mock.Anything, "uid-1").Return("token-1", nil).Once()
			},
			wantRole:  models.RoleAdmin,
			wantToken: "token-1",
		},
		{
			name:     "user not found",
			email:    "nobody@gmail.com",
			password: rawPassword,
			setupMocks: func(r *UserRepoMock, _ *SessionStoreMock) {
				r.On("GetUserByEmail", mock.Anything, "nobody@gmail.com").Return(nil, sql.ErrNoRows).Once()
			},
			wantErr: services.ErrUserNotFound,
		},
		{
			name:     "wrong password",
			email:    "test@gmail.com",
			password: "wrongpassword",
			setupMocks: func(r *UserRepoMock, _ *SessionStoreMock) {
				r.On("GetUserByEmail", mock.Anything, "test@gmail.com").Return(testUser, nil).Once()
			},
			wantErr: services.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			sessions := new(SessionStoreMock)
			svc := newTestService(repo, sessions, new(OTPStoreMock))

			tt.setupMocks(repo, sessions)

			user, token, err := svc.Login(context.Background(), tt.email, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantRole, user.Role)
				assert.Equal(t, tt.wantToken, token)
			}

			repo.AssertExpectations(t)
			sessions.AssertExpectations(t)
		})
	}
}

func TestAuthService_SendOTP(t *testing.T) {
	t.Run("demo phone is not persisted", func(t *testing.T) {
		otps := new(OTPStoreMock)
		svc := newTestService(new(UserRepoMock), new(SessionStoreMock), otps)

		msg, err := svc.SendOTP(context.Background(), "1234567890")
		require.NoError(t, err)
		assert.Equal(t, "OTP sent (Demo: 123456)", msg)
		otps.AssertNotCalled(t, "Save")
	})

	t.Run("regular phone saves generated code", func(t *testing.T) {
		otps := new(OTPStoreMock)
		otps.On("Save", mock.Anything, "9876543210", "654321").Return(nil).Once()
		svc := newTestService(new(UserRepoMock), new(SessionStoreMock), otps)

		msg, err := svc.SendOTP(context.Background(), "9876543210")
		require.NoError(t, err)
		assert.Equal(t, "OTP sent successfully", msg)
		otps.AssertExpectations(t)
	})
}

func TestAuthService_VerifyOTP(t *testing.T) {
	existing := &models.User{UID: "uid-1", Phone: "9876543210", Provider: models.ProviderPhone, Role: models.RoleUser}

	tests := []struct {
		name       string
		phone      string
		code       string
		setupMocks func(r *UserRepoMock, s *SessionStoreMock, o *OTPStoreMock)
		wantUID    string
		wantErr    error
	}{
		{
			name:  "existing user with valid code",
			phone: "9876543210",
			code:  "654321",
			setupMocks: func(r *UserRepoMock, s *SessionStoreMock, o *OTPStoreMock) {
				o.On("Consume", mock.Anything, "9876543210").Return("654321", true, nil).Once()
				r.On("GetUserByPhone", mock.Anything, "9876543210").Return(existing, nil).Once()
				s.On("Create", mock.Anything, "uid-1").Return("token-1", nil).Once()
			},
			wantUID: "uid-1",
		},
		{
			name:  "unknown phone creates mobile user",
			phone: "5550001111",
			code:  "654321",
			setupMocks: func(r *UserRepoMock, s *SessionStoreMock, o *OTPStoreMock) {
				o.On("Consume", mock.Anything, "5550001111").Return("654321", true, nil).Once()
				r.On("GetUserByPhone", mock.Anything, "5550001111").Return(nil, sql.ErrNoRows).Once()
				r.On("RegisterUser", mock.Anything, mock.MatchedBy(func(user models.User) bool {
					return user.Name == "Mobile User" &&
						user.Phone == "5550001111" &&
						user.Provider == models.ProviderPhone &&
						user.Role == models.RoleUser
				})).Return("uid-new", nil).Once()
				s.On("Create", mock.Anything, "uid-new").Return("token-new", nil).Once()
			},
			wantUID: "uid-new",
		},
		{
			name:  "wrong code",
			phone: "9876543210",
			code:  "000000",
			setupMocks: func(_ *UserRepoMock, _ *SessionStoreMock, o *OTPStoreMock) {
				o.On("Consume", mock.Anything, "9876543210").Return("654321", true, nil).Once()
			},
			wantErr: services.ErrInvalidOTP,
		},
		{
			name:  "expired or missing code",
			phone: "9876543210",
			code:  "654321",
			setupMocks: func(_ *UserRepoMock, _ *SessionStoreMock, o *OTPStoreMock) {
				o.On("Consume", mock.Anything, "9876543210").Return("", false, nil).Once()
			},
			wantErr: services.ErrInvalidOTP,
		},
		{
			name:  "demo pair bypasses stored codes",
			phone: "1234567890",
			code:  "123456",
			setupMocks: func(r *UserRepoMock, s *SessionStoreMock, _ *OTPStoreMock) {
				r.On("GetUserByPhone", mock.Anything, "1234567890").
					Return(&models.User{UID: "uid-demo", Phone: "1234567890"}, nil).Once()
				s.On("Create", mock.Anything, "uid-demo").Return("token-demo", nil).Once()
			},
			wantUID: "uid-demo",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			sessions := new(SessionStoreMock)
			otps := new(OTPStoreMock)
			svc := newTestService(repo, sessions, otps)

			tt.setupMocks(repo, sessions, otps)

			user, token, err := svc.VerifyOTP(context.Background(), tt.phone, tt.code)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantUID, user.UID)
				assert.NotEmpty(t, token)
			}

			repo.AssertExpectations(t)
			sessions.AssertExpectations(t)
			otps.AssertExpectations(t)
		})
	}
}

func TestAuthService_UpdateProfile(t *testing.T) {
	stored := &models.User{
		UID:          "uid-1",
		Name:         "Old Name",
		Email:        "old@gmail.com",
		PasswordHash: "old-hash",
		Role:         models.RoleUser,
	}

	t.Run("updates only provided fields", func(t *testing.T) {
		repo := new(UserRepoMock)
		repo.On("GetUser", mock.Anything, "uid-1").Return(stored, nil).Once()
		repo.On("UpdateUser", mock.Anything, mock.MatchedBy(func(user models.User) bool {
			return user.Name == "New Name" &&
				user.Email == "old@gmail.com" &&
				user.PasswordHash == "old-hash"
		})).Return(&models.User{UID: "uid-1", Name: "New Name", Email: "old@gmail.com"}, nil).Once()
		svc := newTestService(repo, new(SessionStoreMock), new(OTPStoreMock))

		updated, err := svc.UpdateProfile(context.Background(), "uid-1", models.UpdateProfileRequest{Name: "New Name"})
		require.NoError(t, err)
		assert.Equal(t, "New Name", updated.Name)
		repo.AssertExpectations(t)
	})

	t.Run("rehashes password when provided", func(t *testing.T) {
		repo := new(UserRepoMock)
		repo.On("GetUser", mock.Anything, "uid-1").Return(stored, nil).Once()
		repo.On("UpdateUser", mock.Anything, mock.MatchedBy(func(user models.User) bool {
			return user.PasswordHash != "old-hash" &&
				password.CompareHash(user.PasswordHash, "newpassword") == nil
		})).Return(stored, nil).Once()
		svc := newTestService(repo, new(SessionStoreMock), new(OTPStoreMock))

		_, err := svc.UpdateProfile(context.Background(), "uid-1", models.UpdateProfileRequest{Password: "newpassword"})
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("unknown user", func(t *testing.T) {
		repo := new(UserRepoMock)
		repo.On("GetUser", mock.Anything, "uid-missing").Return(nil, sql.ErrNoRows).Once()
		svc := newTestService(repo, new(SessionStoreMock), new(OTPStoreMock))

		_, err := svc.UpdateProfile(context.Background(), "uid-missing", models.UpdateProfileRequest{Name: "X"})
		assert.ErrorIs(t, err, services.ErrUserNotFound)
	})
}

func TestAuthService_Logout(t *testing.T) {
	sessions := new(SessionStoreMock)
	sessions.On("Delete", mock.Anything, "token-1").Return(nil).Once()
	svc := newTestService(new(UserRepoMock), sessions, new(OTPStoreMock))

	require.NoError(t, svc.Logout(context.Background(), "token-1"))
	sessions.AssertExpectations(t)
}

func TestAuthService_SessionError(t *testing.T) {
	repo := new(UserRepoMock)
	repo.On("GetUserByEmail", mock.Anything, "test@gmail.com").Return(nil, sql.ErrNoRows).Once()
	repo.On("RegisterUser", mock.Anything, mock.Anything).Return("uid-1", nil).Once()
	sessions := new(SessionStoreMock)
	sessions.On("Create", mock.Anything, "uid-1").Return("", errors.New("redis down")).Once()
	svc := newTestService(repo, sessions, new(OTPStoreMock))

	_, _, err := svc.Register(context.Background(), "Test", "test@gmail.com", "password123", "")
	assert.ErrorContains(t, err, "redis down")
}
