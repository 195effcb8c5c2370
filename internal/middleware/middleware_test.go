package middleware

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"lifeos-backend/internal/contextutil"
	"lifeos-backend/pkg/jwt"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVerifier struct{}

func (stubVerifier) VerifyToken(token string) (*jwt.Claims, error) {
	if token != "good" {
		return nil, errors.New("invalid token")
	}
	return &jwt.Claims{UserID: "user-1", Email: "a@example.com"}, nil
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good", http.StatusUnauthorized},
		{"invalid token", "Bearer bad", http.StatusUnauthorized},
		{"valid token", "Bearer good", http.StatusOK},
		{"lowercase scheme", "bearer good", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUser, gotEmail string
			handler := AuthMiddleware(stubVerifier{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUser = GetUserID(r)
				gotEmail = GetUserEmail(r)
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/notes", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "user-1", gotUser)
				assert.Equal(t, "a@example.com", gotEmail)
			} else {
				assert.Contains(t, rec.Body.String(), `"error"`)
			}
		})
	}
}

func TestBearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/ws?token=q", nil)
	req.Header.Set("Authorization", "Bearer h")
	assert.Equal(t, "q", BearerToken(req))

	req = httptest.NewRequest(http.MethodGet, "/ws", nil)
	req.Header.Set("Authorization", "Bearer h")
	assert.Equal(t, "h", BearerToken(req))

	req = httptest.NewRequest(http.MethodGet, "/ws", nil)
	assert.Empty(t, BearerToken(req))
}

func TestLoggerMiddleware(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contextutil.LoggerFromContext(r.Context()).Info("inside handler")
		w.WriteHeader(http.StatusTeapot)
	})

	handler := chimw.RequestID(LoggerMiddleware(base)(AuthMiddleware(stubVerifier{})(inner)))

	req := httptest.NewRequest(http.MethodPost, "/api/notes", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusTeapot, rec.Code)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"msg":"inside handler"`)
	assert.Contains(t, lines[0], `"user_id":"user-1"`)
	assert.Contains(t, lines[0], `"request_id":`)
	assert.Contains(t, lines[1], `"status":418`)
	assert.Contains(t, lines[1], `"user":"user-1"`)
	assert.Contains(t, lines[1], `"path":"/api/notes"`)
}

func TestCORSMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	handler := CORSMiddleware("https://app.example", "GET,POST", "Content-Type,Authorization")(next)

	req := httptest.NewRequest(http.MethodOptions, "/api/notes", nil)
	req.Header.Set("Origin", "https://app.example")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://app.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET,POST", rec.Header().Get("Access-Control-Allow-Methods"))

	req = httptest.NewRequest(http.MethodGet, "/api/notes", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	wild := CORSMiddleware("*", "GET", "Content-Type")(next)
	rec = httptest.NewRecorder()
	wild.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecoveryMiddleware(t *testing.T) {
	handler := RecoveryMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, rec.Body.String())
}
