package register

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
	"github.com/stretchr/testify/require"
)

// MockService реализует интерфейс register.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Register(ctx context.Context, name, email, rawPassword, phone string) (*models.User, string, error) {
	args := m.Called(ctx, name, email, rawPassword, phone)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*models.User), args.String(1), args.Error(2)
}

func testSessionCfg() config.Session {
	return config.Session{CookieName: "ded.sid", SessionTTL: time.Hour}
}

func TestRegisterHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
		wantCookie     bool
	}{
		{
			name: "successful registration",
			body: `{"name":"Test User","email":"test@gmail.com","password":"password123"}`,
			setupMock: func(m *MockService) {
				m.On("Register", mock.Anything, "Test User", "test@gmail.com", "password123", "").
					Return(&models.User{UID: "uid-1", Name: "Test User", Role: models.RoleUser}, "token-1", nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"message":"user created successfully"`,
			wantCookie:     true,
		},
		{
			name:           "invalid json",
			body:           `{not json`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid request body"`,
		},
		{
			name:           "password too short",
			body:           `{"name":"Test User","email":"test@gmail.com","password":"123"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Password is too short`,
		},
		{
			name: "duplicate email",
			body: `{"name":"Test User","email":"taken@gmail.com","password":"password123"}`,
			setupMock: func(m *MockService) {
				m.On("Register", mock.Anything, "Test User", "taken@gmail.com", "password123", "").
					Return(nil, "", services.ErrEmailTaken)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"user already exists"`,
		},
		{
			name: "service error",
			body: `{"name":"Test User","email":"test@gmail.com","password":"password123"}`,
			setupMock: func(m *MockService) {
				m.On("Register", mock.Anything, "Test User", "test@gmail.com", "password123", "").
					Return(nil, "", errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"failed to register user"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService, testSessionCfg())

			req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)

			if tt.wantCookie {
				res := w.Result()
				require.NotEmpty(t, res.Cookies())
				cookie := res.Cookies()[0]
				assert.Equal(t, "ded.sid", cookie.Name)
				assert.Equal(t, "token-1", cookie.Value)
				assert.True(t, cookie.HttpOnly)
			}

			mockService.AssertExpectations(t)
		})
	}
}
