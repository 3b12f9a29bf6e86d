package verifyotp

import (
	"context"
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

// MockService реализует интерфейс verifyotp.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) VerifyOTP(ctx context.Context, phone, code string) (*models.User, string, error) {
	args := m.Called(ctx, phone, code)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*models.User), args.String(1), args.Error(2)
}

func TestVerifyOTPHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	sessionCfg := config.Session{CookieName: "ded.sid", SessionTTL: time.Hour}

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
		wantCookie     bool
	}{
		{
			name: "successful otp login",
			body: `{"phone":"9876543210","otp":"654321"}`,
			setupMock: func(m *MockService) {
				m.On("VerifyOTP", mock.Anything, "9876543210", "654321").
					Return(&models.User{UID: "uid-1", Phone: "9876543210"}, "token-1", nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"message":"login successful"`,
			wantCookie:     true,
		},
		{
			name: "wrong code",
			body: `{"phone":"9876543210","otp":"000000"}`,
			setupMock: func(m *MockService) {
				m.On("VerifyOTP", mock.Anything, "9876543210", "000000").
					Return(nil, "", services.ErrInvalidOTP)
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"invalid otp"`,
		},
		{
			name:           "code of wrong length",
			body:           `{"phone":"9876543210","otp":"12345"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Code`,
		},
		{
			name:           "missing phone",
			body:           `{"otp":"654321"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Phone is a required field`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService, sessionCfg)

			req := httptest.NewRequest(http.MethodPost, "/api/auth/verify-otp", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)

			if tt.wantCookie {
				res := w.Result()
				require.NotEmpty(t, res.Cookies())
				assert.Equal(t, "token-1", res.Cookies()[0].Value)
			}

			mockService.AssertExpectations(t)
		})
	}
}
