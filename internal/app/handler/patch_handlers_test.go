package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/atinyakov/shortlinks/internal/app/service"
	"github.com/atinyakov/shortlinks/internal/middleware"
	"github.com/atinyakov/shortlinks/internal/mocks"
	"github.com/atinyakov/shortlinks/internal/models"
	"github.com/atinyakov/shortlinks/internal/storage"
)

func TestUpdateUserURL(t *testing.T) {
	userID := uuid.New()
	id := uuid.New()
	updated := time.Date(2026, 5, 2, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		param        string
		body         string
		anonymous    bool
		prepare      func(m *mocks.MockLinkServiceIface)
		expectedCode int
	}{
		{
			name:  "Owner updates",
			param: id.String(),
			body:  `{"original_url":"https://new.example/path"}`,
			prepare: func(m *mocks.MockLinkServiceIface) {
				m.EXPECT().UpdateOwnedLink(gomock.Any(), userID, id, "https://new.example/path").
					Return(&storage.Link{ID: id, ShortCode: "abc123", OriginalURL: "https://new.example/path", UpdatedAt: updated}, nil)
				m.EXPECT().ShortURL("abc123").Return("http://localhost:8080/abc123")
			},
			expectedCode: http.StatusOK,
		},
		{
			name:  "Foreign or deleted link",
			param: id.String(),
			body:  `{"original_url":"https://new.example"}`,
			prepare: func(m *mocks.MockLinkServiceIface) {
				m.EXPECT().UpdateOwnedLink(gomock.Any(), userID, id, "https://new.example").
					Return(nil, service.ErrNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
		{
			name:         "Id is not a uuid",
			param:        "abc123",
			body:         `{"original_url":"https://new.example"}`,
			expectedCode: http.StatusNotFound,
		},
		{
			name:         "Invalid URL",
			param:        id.String(),
			body:         `{"original_url":"javascript:alert(1)"}`,
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "Anonymous caller",
			param:        id.String(),
			body:         `{"original_url":"https://new.example"}`,
			anonymous:    true,
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:  "Store failure",
			param: id.String(),
			body:  `{"original_url":"https://new.example"}`,
			prepare: func(m *mocks.MockLinkServiceIface) {
				m.EXPECT().UpdateOwnedLink(gomock.Any(), userID, id, "https://new.example").
					Return(nil, errors.New("db down"))
			},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockService := mocks.NewMockLinkServiceIface(ctrl)
			if tt.prepare != nil {
				tt.prepare(mockService)
			}
			h := NewPatch(mockService, zap.NewNop())

			req := httptest.NewRequest(http.MethodPatch, "/user/urls/"+tt.param, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			req = withURLParam(req, "id", tt.param)
			if !tt.anonymous {
				req = middleware.InjectUserID(req, userID)
			}
			w := httptest.NewRecorder()

			h.UpdateUserURL(w, req)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedCode == http.StatusOK {
				var resp models.UpdateURLResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, id, resp.ID)
				assert.Equal(t, "https://new.example/path", resp.OriginalURL)
				assert.Equal(t, "abc123", resp.ShortCode)
				assert.Equal(t, "http://localhost:8080/abc123", resp.ShortURL)
				assert.True(t, updated.Equal(resp.UpdatedAt))
			}
		})
	}
}
