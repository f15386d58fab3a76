package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SoumeyaMouaki/Dawini-sub001/config"
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/domain/entity"
	"github.com/SoumeyaMouaki/Dawini-sub001/internal/service"
	"github.com/SoumeyaMouaki/Dawini-sub001/pkg/jwt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryTokenStore struct {
	tokens map[string]bool
	err    error
}

func newMemoryTokenStore() *memoryTokenStore {
	return &memoryTokenStore{tokens: map[string]bool{}}
}

func (s *memoryTokenStore) key(kind service.TokenKind, userID uuid.UUID, tokenID string) string {
	return string(kind) + ":" + userID.String() + ":" + tokenID
}

func (s *memoryTokenStore) Save(_ context.Context, kind service.TokenKind, userID uuid.UUID, tokenID string, _ time.Duration) error {
	s.tokens[s.key(kind, userID, tokenID)] = true
	return nil
}

func (s *memoryTokenStore) Exists(_ context.Context, kind service.TokenKind, userID uuid.UUID, tokenID string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.tokens[s.key(kind, userID, tokenID)], nil
}

func (s *memoryTokenStore) Delete(_ context.Context, kind service.TokenKind, userID uuid.UUID, tokenID string) error {
	delete(s.tokens, s.key(kind, userID, tokenID))
	return nil
}

func (s *memoryTokenStore) RevokeAll(context.Context, uuid.UUID) error {
	s.tokens = map[string]bool{}
	return nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func echoUser(w http.ResponseWriter, r *http.Request) {
	userID, _ := GetUserIDFromContext(r.Context())
	io.WriteString(w, userID.String())
}

func TestAuthenticate(t *testing.T) {
	jwtService := jwt.NewJWTService(config.JWTConfig{Secret: "test", AccessExpiry: time.Minute, RefreshExpiry: time.Hour})
	store := newMemoryTokenStore()
	auth := NewAuthMiddleware(jwtService, store, quietLogger())
	handler := auth.Authenticate(http.HandlerFunc(echoUser))

	userID := uuid.New()
	access, accessID, err := jwtService.GenerateAccessToken(userID, "doc@dawini.test", entity.RoleIDDoctor)
	require.NoError(t, err)
	require.NoError(t, store.Save(context.Background(), service.AccessTokenKind, userID, accessID, time.Minute))
	refresh, _, err := jwtService.GenerateRefreshToken(userID, "doc@dawini.test", entity.RoleIDDoctor)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Token " + access, http.StatusUnauthorized},
		{"garbage token", "Bearer nope", http.StatusUnauthorized},
		{"refresh token", "Bearer " + refresh, http.StatusUnauthorized},
		{"valid", "Bearer " + access, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusOK {
				assert.Equal(t, userID.String(), rec.Body.String())
			}
		})
	}

	t.Run("revoked", func(t *testing.T) {
		require.NoError(t, store.Delete(context.Background(), service.AccessTokenKind, userID, accessID))
		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
		req.Header.Set("Authorization", "Bearer "+access)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("store failure", func(t *testing.T) {
		store.err = errors.New("redis down")
		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
		req.Header.Set("Authorization", "Bearer "+access)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestRequireRole(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	serve := func(h http.Handler, ctx context.Context) int {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx))
		return rec.Code
	}

	pharmacy := context.WithValue(context.Background(), RoleIDKey, entity.RoleIDPharmacy)
	patient := context.WithValue(context.Background(), RoleIDKey, entity.RoleIDPatient)

	assert.Equal(t, http.StatusOK, serve(RequirePharmacy(ok), pharmacy))
	assert.Equal(t, http.StatusForbidden, serve(RequirePharmacy(ok), patient))
	assert.Equal(t, http.StatusOK, serve(RequirePatient(ok), patient))
	assert.Equal(t, http.StatusUnauthorized, serve(RequireAdmin(ok), context.Background()))

	either := RequireRole(entity.RoleIDDoctor, entity.RoleIDPharmacy)
	assert.Equal(t, http.StatusOK, serve(either(ok), pharmacy))
	assert.Equal(t, http.StatusForbidden, serve(either(ok), patient))
}

func TestRequestID(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestCORSPreflight(t *testing.T) {
	called := false
	handler := NewCORSMiddleware(nil).Handle(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/v1/doctors", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.False(t, called)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSAllowList(t *testing.T) {
	handler := NewCORSMiddleware([]string{"https://dawini.dz/", " https://admin.dawini.dz"}).
		Handle(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }))

	serve := func(origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/doctors", nil)
		req.Header.Set("Origin", origin)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	rec := serve("https://dawini.dz")
	assert.Equal(t, "https://dawini.dz", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Origin", rec.Header().Get("Vary"))

	assert.Equal(t, "https://admin.dawini.dz", serve("https://admin.dawini.dz").Header().Get("Access-Control-Allow-Origin"))

	rec = serve("https://evil.example")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	wildcard := NewCORSMiddleware([]string{"*", "https://dawini.dz"}).Handle(http.NotFoundHandler())
	rec = httptest.NewRecorder()
	wildcard.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimiterDisabledPassesThrough(t *testing.T) {
	limiter := NewRateLimiter(nil, quietLogger(), 0, time.Minute)
	handler := limiter.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) }))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestClientKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.7:51234"
	assert.Equal(t, "ip:10.0.0.7", clientKey(req))

	req.Header.Set("X-Forwarded-For", "41.200.1.1, 10.0.0.1")
	assert.Equal(t, "ip:41.200.1.1", clientKey(req))

	userID := uuid.New()
	req = req.WithContext(context.WithValue(req.Context(), UserIDKey, userID))
	assert.Equal(t, "user:"+userID.String(), clientKey(req))
}
