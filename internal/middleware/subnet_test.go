package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"

	"github.com/atinyakov/shortlinks/internal/middleware"
)

func TestWithSubnet(t *testing.T) {
	tests := []struct {
		name           string
		subnet         string
		remoteAddr     string
		realIP         string
		expectedStatus int
	}{
		{
			name:           "Allowed subnet",
			subnet:         "192.168.0.0/24",
			remoteAddr:     "192.168.0.45:40000",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Forbidden subnet",
			subnet:         "10.0.0.0/8",
			remoteAddr:     "192.168.0.1:40000",
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "X-Real-IP is not trusted",
			subnet:         "10.0.0.0/8",
			remoteAddr:     "203.0.113.9:40000",
			realIP:         "10.1.2.3",
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "Address without port",
			subnet:         "127.0.0.0/8",
			remoteAddr:     "127.0.0.1",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Unparsable client ip",
			subnet:         "192.168.1.0/24",
			remoteAddr:     "not-an-ip",
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "Malformed subnet denies",
			subnet:         "192.168.1",
			remoteAddr:     "192.168.1.5:40000",
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "Empty subnet disables the check",
			subnet:         "",
			remoteAddr:     "8.8.8.8:40000",
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.realIP != "" {
				req.Header.Set("X-Real-IP", tt.realIP)
			}
			rec := httptest.NewRecorder()

			middleware.WithSubnet(tt.subnet)(handler).ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, tt.expectedStatus == http.StatusOK, called)
		})
	}
}

func TestWithSubnet_BehindRealIP(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	chain := middleware.WithPeerAddr(chimw.RealIP(middleware.WithSubnet("10.0.0.0/8")(ok)))

	tests := []struct {
		name       string
		remoteAddr string
		header     string
		value      string
		want       int
	}{
		{name: "spoofed X-Real-IP", remoteAddr: "203.0.113.9:40000", header: "X-Real-IP", value: "10.1.2.3", want: http.StatusForbidden},
		{name: "spoofed X-Forwarded-For", remoteAddr: "203.0.113.9:40000", header: "X-Forwarded-For", value: "10.1.2.3", want: http.StatusForbidden},
		{name: "trusted peer", remoteAddr: "10.0.0.7:40000", want: http.StatusOK},
		{name: "trusted peer forwarding an outside client", remoteAddr: "10.0.0.7:40000", header: "X-Real-IP", value: "203.0.113.9", want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			rec := httptest.NewRecorder()

			chain.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
