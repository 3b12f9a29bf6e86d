package removeuser

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockService реализует интерфейс removeuser.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) DeleteUser(ctx context.Context, userUID string) error {
	args := m.Called(ctx, userUID)
	return args.Error(0)
}

const userUID = "6f1e1c5a-9f9e-4a3e-8b1a-555555555555"

func newRequest(id string) *http.Request {
	req := httptest.NewRequest(http.MethodDelete, "/api/admin/users/"+id, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("userId", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestRemoveUserHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	tests := []struct {
		name           string
		id             string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "successful cascade delete",
			id:   userUID,
			setupMock: func(m *MockService) {
				m.On("DeleteUser", mock.Anything, userUID).Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"message":"user and expenses deleted successfully"`,
		},
		{
			name: "missing user still succeeds",
			id:   userUID,
			setupMock: func(m *MockService) {
				m.On("DeleteUser", mock.Anything, userUID).Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"OK"`,
		},
		{
			name:           "malformed user id",
			id:             "abc",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid user id"`,
		},
		{
			name: "service error",
			id:   userUID,
			setupMock: func(m *MockService) {
				m.On("DeleteUser", mock.Anything, userUID).Return(errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"failed to delete user"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, newRequest(tt.id))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)

			mockService.AssertExpectations(t)
		})
	}
}
