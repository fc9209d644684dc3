package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dom/movie-night/internal/domain"
	"github.com/dom/movie-night/internal/service"
	"go.uber.org/zap"
)

type contextKey string

const (
	UserKey contextKey = "user"
)

const loginRequiredMessage = "You need to login to access this page"

// Auth resolves the access token in the Authorization header. Both
// "Bearer <token>" and a bare token are accepted. Unknown or missing tokens
// get a 403.
func Auth(authService *service.AuthService, logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFromHeader(r.Header.Get("Authorization"))
			if token == "" {
				forbidden(w)
				return
			}

			user, err := authService.Authenticate(r.Context(), token)
			if err != nil {
				if !errors.Is(err, service.ErrInvalidToken) {
					logger.Errorw("token lookup failed", "error", err)
					writeMessage(w, http.StatusInternalServerError, "Internal server error")
					return
				}
				forbidden(w)
				return
			}

			ctx := context.WithValue(r.Context(), UserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// TokenFromHeader extracts the token from an Authorization header value.
func TokenFromHeader(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}

func GetUser(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(UserKey).(*domain.User)
	return user, ok
}

func forbidden(w http.ResponseWriter) {
	writeMessage(w, http.StatusForbidden, loginRequiredMessage)
}

// writeMessage sends a {"message": ...} body with the given status.
func writeMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
