package login

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/magabrotheeeer/expense-tracker/internal/config"
	"github.com/magabrotheeeer/expense-tracker/internal/models"
	services "github.com/magabrotheeeer/expense-tracker/internal/services/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockService реализует интерфейс login.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Login(ctx context.Context, email, rawPassword string) (*models.User, string, error) {
	args := m.Called(ctx, email, rawPassword)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*models.User), args.String(1), args.Error(2)
}

func TestLoginHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	sessionCfg := config.Session{CookieName: "ded.sid", SessionTTL: time.Hour}

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "successful login",
			body: `{"email":"test@gmail.com","password":"password123"}`,
			setupMock: func(m *MockService) {
				m.On("Login", mock.Anything, "test@gmail.com", "password123").
					Return(&models.User{UID: "uid-1", Email: "test@gmail.com"}, "token-1", nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"message":"login successful"`,
		},
		{
			name: "unknown user looks like bad password",
			body: `{"email":"nobody@gmail.com","password":"password123"}`,
			setupMock: func(m *MockService) {
				m.On("Login", mock.Anything, "nobody@gmail.com", "password123").
					Return(nil, "", services.ErrUserNotFound)
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"invalid credentials"`,
		},
		{
			name: "wrong password",
			body: `{"email":"test@gmail.com","password":"wrongpass"}`,
			setupMock: func(m *MockService) {
				m.On("Login", mock.Anything, "test@gmail.com", "wrongpass").
					Return(nil, "", services.ErrInvalidCredentials)
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"invalid credentials"`,
		},
		{
			name:           "email is not valid",
			body:           `{"email":"not-an-email","password":"password123"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Email must be a valid email address`,
		},
		{
			name: "service error",
			body: `{"email":"test@gmail.com","password":"password123"}`,
			setupMock: func(m *MockService) {
				m.On("Login", mock.Anything, "test@gmail.com", "password123").
					Return(nil, "", errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"failed to login"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService, sessionCfg)

			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)

			mockService.AssertExpectations(t)
		})
	}
}
