package api_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dom/movie-night/internal/api"
	"github.com/dom/movie-night/internal/config"
	"github.com/dom/movie-night/internal/logger"
	"github.com/dom/movie-night/internal/repository"
	"github.com/dom/movie-night/internal/service"
	"github.com/dom/movie-night/internal/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const someUserID = "6f1c2a9e-3b1d-4c55-9a53-2f4d8c0e7b11"

// newStoreless builds the full router over services with no stores behind
// them. Requests that are rejected before any lookup still get real answers.
func newStoreless(t *testing.T) http.Handler {
	t.Helper()

	log := logger.Nop()
	services := service.NewServices(&repository.Repositories{}, service.Dependencies{Logger: log})
	return api.NewRouter(services, websocket.NewHub(log), &config.Config{}, log)
}

func TestRouter_RoutesResolve(t *testing.T) {
	routes, ok := newStoreless(t).(chi.Routes)
	require.True(t, ok, "router must expose its route table")

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/"},
		{http.MethodGet, "/health"},
		{http.MethodPost, "/users"},
		{http.MethodPost, "/sessions"},
		{http.MethodGet, "/secrets"},
		{http.MethodGet, "/users/me"},
		{http.MethodGet, "/users/" + someUserID},
		{http.MethodPut, "/users/" + someUserID},
		{http.MethodGet, "/users/" + someUserID + "/movies"},
		{http.MethodGet, "/users/" + someUserID + "/allUsers"},
		{http.MethodGet, "/users/" + someUserID + "/otherUser"},
		{http.MethodGet, "/movies/" + someUserID},
		{http.MethodGet, "/comments/42"},
		{http.MethodPut, "/comments/42"},
		{http.MethodDelete, "/comments/42"},
		{http.MethodGet, "/comments/42/ws"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			assert.True(t, routes.Match(chi.NewRouteContext(), tt.method, tt.path))
		})
	}

	t.Run("unknown route", func(t *testing.T) {
		assert.False(t, routes.Match(chi.NewRouteContext(), http.MethodPost, "/movies/"+someUserID))
	})
}

func TestRouter_RejectsBeforeStoreAccess(t *testing.T) {
	router := newStoreless(t)

	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		expectedStatus int
	}{
		{name: "root", method: http.MethodGet, path: "/", expectedStatus: http.StatusOK},
		{name: "health", method: http.MethodGet, path: "/health", expectedStatus: http.StatusOK},
		{name: "register validates", method: http.MethodPost, path: "/users", body: `{}`, expectedStatus: http.StatusBadRequest},
		{name: "register with trailing slash", method: http.MethodPost, path: "/users/", body: `{}`, expectedStatus: http.StatusBadRequest},
		{name: "login with broken body", method: http.MethodPost, path: "/sessions", body: `{`, expectedStatus: http.StatusBadRequest},
		{name: "secrets without token", method: http.MethodGet, path: "/secrets", expectedStatus: http.StatusForbidden},
		{name: "me without token", method: http.MethodGet, path: "/users/me", expectedStatus: http.StatusForbidden},
		{name: "user by id without token", method: http.MethodGet, path: "/users/" + someUserID, expectedStatus: http.StatusForbidden},
		{name: "rate with bad user id", method: http.MethodPut, path: "/users/nope", body: `{"movieId":1}`, expectedStatus: http.StatusBadRequest},
		{name: "rate without movie", method: http.MethodPut, path: "/users/" + someUserID, body: `{}`, expectedStatus: http.StatusBadRequest},
		{name: "list with bad page", method: http.MethodGet, path: "/users/" + someUserID + "/movies?page=0", expectedStatus: http.StatusBadRequest},
		{name: "other user with bad id", method: http.MethodGet, path: "/users/nope/otherUser", expectedStatus: http.StatusBadRequest},
		{name: "matches without friend", method: http.MethodGet, path: "/movies/" + someUserID, expectedStatus: http.StatusBadRequest},
		{name: "comments with bad movie", method: http.MethodGet, path: "/comments/abc", expectedStatus: http.StatusBadRequest},
		{name: "comment without body", method: http.MethodPut, path: "/comments/42", body: `{}`, expectedStatus: http.StatusBadRequest},
		{name: "delete comment without body", method: http.MethodDelete, path: "/comments/42", body: `{}`, expectedStatus: http.StatusBadRequest},
		{name: "feed with bad movie", method: http.MethodGet, path: "/comments/abc/ws", expectedStatus: http.StatusBadRequest},
		{name: "unknown path", method: http.MethodGet, path: "/nowhere", expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code, rec.Body.String())
		})
	}
}
