package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dom/movie-night/internal/api/middleware"
	"github.com/dom/movie-night/internal/domain"
	"github.com/dom/movie-night/internal/logger"
	"github.com/dom/movie-night/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestTokenFromHeader(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{name: "bearer scheme", header: "Bearer abc123", want: "abc123"},
		{name: "scheme is case insensitive", header: "bearer abc123", want: "abc123"},
		{name: "raw token", header: "abc123", want: "abc123"},
		{name: "surrounding space", header: "  Bearer   abc123  ", want: "abc123"},
		{name: "empty", header: "", want: ""},
		{name: "scheme only", header: "Bearer", want: "Bearer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, middleware.TokenFromHeader(tt.header))
		})
	}
}

// tokenStore answers GetByToken from a fixed table; everything else is unused.
type tokenStore struct {
	users map[string]*domain.User
	err   error
}

func (s *tokenStore) GetByToken(_ context.Context, token string) (*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	user, ok := s.users[token]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (s *tokenStore) Create(context.Context, *domain.User) error { return errors.New("unused") }

func (s *tokenStore) GetByID(context.Context, uuid.UUID) (*domain.User, error) {
	return nil, errors.New("unused")
}

func (s *tokenStore) GetByEmail(context.Context, string) (*domain.User, error) {
	return nil, errors.New("unused")
}

func (s *tokenStore) GetByName(context.Context, string) (*domain.User, error) {
	return nil, errors.New("unused")
}

func (s *tokenStore) SearchByName(context.Context, string, bool) ([]*domain.User, error) {
	return nil, errors.New("unused")
}

func TestAuth(t *testing.T) {
	alice := &domain.User{ID: uuid.New(), Name: "alice"}

	tests := []struct {
		name           string
		store          *tokenStore
		header         string
		expectedStatus int
		wantMessage    string
	}{
		{
			name:           "valid bearer token",
			store:          &tokenStore{users: map[string]*domain.User{"tok": alice}},
			header:         "Bearer tok",
			expectedStatus: http.StatusNoContent,
		},
		{
			name:           "missing token",
			store:          &tokenStore{},
			expectedStatus: http.StatusForbidden,
			wantMessage:    "You need to login to access this page",
		},
		{
			name:           "unknown token",
			store:          &tokenStore{users: map[string]*domain.User{"tok": alice}},
			header:         "other",
			expectedStatus: http.StatusForbidden,
			wantMessage:    "You need to login to access this page",
		},
		{
			name:           "store failure",
			store:          &tokenStore{err: errors.New("connection refused")},
			header:         "tok",
			expectedStatus: http.StatusInternalServerError,
			wantMessage:    "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := logger.Nop()
			auth := middleware.Auth(service.NewAuthService(tt.store, nil, log), log)

			var seen *domain.User
			handler := auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen, _ = middleware.GetUser(r.Context())
				w.WriteHeader(http.StatusNoContent)
			}))

			req := httptest.NewRequest(http.MethodGet, "/secrets", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			require.Equal(t, tt.expectedStatus, rec.Code)
			if tt.wantMessage == "" {
				require.NotNil(t, seen)
				assert.Equal(t, alice.ID, seen.ID)
				return
			}

			assert.Nil(t, seen)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantMessage, body["message"])
		})
	}
}
