package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func echoIdentity(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	sessionID, _ := SessionIDFromContext(r.Context())
	w.Header().Set("X-User", userID)
	w.Header().Set("X-Session", sessionID)
	w.WriteHeader(http.StatusOK)
}

func TestAuthMiddleware(t *testing.T) {
	jwtService := NewJWTService(testSecret)
	valid, _ := jwtService.GenerateJWT("user-1", "session-1", time.Now().Add(time.Hour))
	handler := AuthMiddleware(jwtService)(http.HandlerFunc(echoIdentity))

	tests := []struct {
		name           string
		header         string
		expectedStatus int
		expectedUser   string
	}{
		{"No header", "", http.StatusUnauthorized, ""},
		{"Not a bearer", "Basic abc", http.StatusUnauthorized, ""},
		{"Bad token", "Bearer nope", http.StatusUnauthorized, ""},
		{"Valid token", "Bearer " + valid, http.StatusOK, "user-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, r)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedUser, w.Header().Get("X-User"))
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, "session-1", w.Header().Get("X-Session"))
			}
		})
	}
}

func TestOptionalAuthMiddleware(t *testing.T) {
	jwtService := NewJWTService(testSecret)
	valid, _ := jwtService.GenerateJWT("user-1", "session-1", time.Now().Add(time.Hour))
	handler := OptionalAuthMiddleware(jwtService)(http.HandlerFunc(echoIdentity))

	tests := []struct {
		name         string
		header       string
		expectedUser string
	}{
		{"Anonymous", "", ""},
		{"Bad token is ignored", "Bearer nope", ""},
		{"Valid token", "Bearer " + valid, "user-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, r)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.expectedUser, w.Header().Get("X-User"))
		})
	}
}

type sessionSet map[string]bool

func (s sessionSet) IsAuthenticated(_ context.Context, sessionID string) bool {
	return s[sessionID]
}

func TestSessionMiddleware(t *testing.T) {
	jwtService := NewJWTService(testSecret)
	open, _ := jwtService.GenerateJWT("user-1", "session-1", time.Now().Add(time.Hour))
	closed, _ := jwtService.GenerateJWT("user-1", "session-2", time.Now().Add(time.Hour))
	handler := AuthMiddleware(jwtService)(
		SessionMiddleware(sessionSet{"session-1": true})(http.HandlerFunc(echoIdentity)),
	)

	tests := []struct {
		name           string
		token          string
		expectedStatus int
	}{
		{"Open session", open, http.StatusOK},
		{"Logged out", closed, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.Header.Set("Authorization", "Bearer "+tt.token)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, r)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}

	w := httptest.NewRecorder()
	SessionMiddleware(sessionSet{})(http.HandlerFunc(echoIdentity)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
