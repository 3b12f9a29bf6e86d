package list

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/magabrotheeeer/expense-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/expense-tracker/internal/models"
	services "github.com/magabrotheeeer/expense-tracker/internal/services/expense"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockService реализует интерфейс list.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) List(ctx context.Context, actorUID, actorRole, userUID string) ([]*models.Expense, error) {
	args := m.Called(ctx, actorUID, actorRole, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Expense), args.Error(1)
}

const ownerUID = "6f1e1c5a-9f9e-4a3e-8b1a-222222222222"

func newRequest(userID, actorUID, actorRole string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/expenses/"+userID, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("userId", userID)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	ctx = context.WithValue(ctx, middlewarectx.UserUID, actorUID)
	ctx = context.WithValue(ctx, middlewarectx.Role, actorRole)
	return req.WithContext(ctx)
}

func TestListHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	expenses := []*models.Expense{
		{ID: "exp-2", UserUID: ownerUID, Amount: 100},
		{ID: "exp-1", UserUID: ownerUID, Amount: 50},
	}

	tests := []struct {
		name           string
		userID         string
		actorUID       string
		actorRole      string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:      "owner lists own expenses",
			userID:    ownerUID,
			actorUID:  ownerUID,
			actorRole: models.RoleUser,
			setupMock: func(m *MockService) {
				m.On("List", mock.Anything, ownerUID, models.RoleUser, ownerUID).Return(expenses, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"count":2`,
		},
		{
			name:           "malformed user id",
			userID:         "42",
			actorUID:       ownerUID,
			actorRole:      models.RoleUser,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid user id"`,
		},
		{
			name:      "foreign list is denied",
			userID:    ownerUID,
			actorUID:  "6f1e1c5a-9f9e-4a3e-8b1a-333333333333",
			actorRole: models.RoleUser,
			setupMock: func(m *MockService) {
				m.On("List", mock.Anything, "6f1e1c5a-9f9e-4a3e-8b1a-333333333333", models.RoleUser, ownerUID).
					Return(nil, services.ErrForbidden)
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `"error":"access denied"`,
		},
		{
			name:      "admin lists foreign expenses",
			userID:    ownerUID,
			actorUID:  "6f1e1c5a-9f9e-4a3e-8b1a-444444444444",
			actorRole: models.RoleAdmin,
			setupMock: func(m *MockService) {
				m.On("List", mock.Anything, "6f1e1c5a-9f9e-4a3e-8b1a-444444444444", models.RoleAdmin, ownerUID).
					Return(expenses, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"count":2`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, newRequest(tt.userID, tt.actorUID, tt.actorRole))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)

			mockService.AssertExpectations(t)
		})
	}
}
