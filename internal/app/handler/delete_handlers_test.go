package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/atinyakov/shortlinks/internal/app/service"
	"github.com/atinyakov/shortlinks/internal/middleware"
	"github.com/atinyakov/shortlinks/internal/mocks"
)

func TestDeleteUserURL(t *testing.T) {
	userID := uuid.New()
	id := uuid.New()

	tests := []struct {
		name         string
		param        string
		anonymous    bool
		mockErr      error
		callsService bool
		expectedCode int
		expectedBody string
	}{
		{
			name:         "Owner deletes",
			param:        id.String(),
			callsService: true,
			expectedCode: http.StatusOK,
			expectedBody: fmt.Sprintf(`{"message":"URL deleted successfully","id":%q}`, id),
		},
		{
			name:         "Already deleted or foreign",
			param:        id.String(),
			callsService: true,
			mockErr:      service.ErrNotFound,
			expectedCode: http.StatusNotFound,
		},
		{
			name:         "Store failure",
			param:        id.String(),
			callsService: true,
			mockErr:      errors.New("db down"),
			expectedCode: http.StatusInternalServerError,
		},
		{
			name:         "Bad id",
			param:        "not-a-uuid",
			expectedCode: http.StatusNotFound,
		},
		{
			name:         "Anonymous caller",
			param:        id.String(),
			anonymous:    true,
			expectedCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockService := mocks.NewMockLinkServiceIface(ctrl)
			if tt.callsService {
				mockService.EXPECT().DeleteOwnedLink(gomock.Any(), userID, id).Return(tt.mockErr)
			}
			h := NewDelete(mockService, zap.NewNop())

			req := httptest.NewRequest(http.MethodDelete, "/user/urls/"+tt.param, nil)
			req = withURLParam(req, "id", tt.param)
			if !tt.anonymous {
				req = middleware.InjectUserID(req, userID)
			}
			w := httptest.NewRecorder()

			h.DeleteUserURL(w, req)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedBody != "" {
				assert.JSONEq(t, tt.expectedBody, w.Body.String())
			}
		})
	}
}
