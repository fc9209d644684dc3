package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/dom/movie-night/internal/api/middleware"
	"github.com/dom/movie-night/internal/domain"
	"github.com/dom/movie-night/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserHandler struct {
	authService   *service.AuthService
	userService   *service.UserService
	ratingService *service.RatingService
	logger        *zap.SugaredLogger
}

func NewUserHandler(authService *service.AuthService, userService *service.UserService, ratingService *service.RatingService, logger *zap.SugaredLogger) *UserHandler {
	return &UserHandler{
		authService:   authService,
		userService:   userService,
		ratingService: ratingService,
		logger:        logger,
	}
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=20"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=5"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type UserResponse struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Movies    []uuid.UUID `json:"movies"`
	CreatedAt time.Time   `json:"createdAt"`
}

// RegisterResponse is the only payload that ever carries a user's token.
type RegisterResponse struct {
	UserResponse
	AccessToken string `json:"accessToken"`
}

type LoginResponse struct {
	Name        string `json:"name"`
	UserID      string `json:"userId"`
	AccessToken string `json:"accessToken"`
}

type PublicUserResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type OtherUserResponse struct {
	OtherUser []*domain.RatedMovie `json:"otherUser"`
	Name      string               `json:"name"`
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeAndValidate(w, r, &req, "Could not create user") {
		return
	}

	user, err := h.authService.Register(r.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNameTaken):
			writeValidationError(w, "Could not create user", map[string]string{"name": "is already taken"})
		case errors.Is(err, service.ErrEmailTaken):
			writeValidationError(w, "Could not create user", map[string]string{"email": "is already registered"})
		default:
			h.logger.Errorw("failed to register user", "error", err)
			writeInternalError(w)
		}
		return
	}

	h.logger.Infow("user registered", "userId", user.ID)
	writeJSON(w, http.StatusCreated, RegisterResponse{
		UserResponse: toUserResponse(user, []uuid.UUID{}),
		AccessToken:  user.AccessToken,
	})
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := readJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]bool{"notFound": true})
		return
	}

	user, err := h.authService.Login(r.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeJSON(w, http.StatusBadRequest, map[string]bool{"notFound": true})
			return
		}
		h.logger.Errorw("failed to log in", "error", err)
		writeInternalError(w)
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		Name:        user.Name,
		UserID:      user.ID.String(),
		AccessToken: user.AccessToken,
	})
}

func (h *UserHandler) Secrets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"secret": "This is a super secret message"})
}

// Me returns the authenticated user.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		writeMessage(w, http.StatusForbidden, "You need to login to access this page")
		return
	}

	profile, err := h.userService.ProfileFor(r.Context(), user)
	if err != nil {
		h.logger.Errorw("failed to load profile", "userId", user.ID, "error", err)
		writeInternalError(w)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(profile.User, profile.Movies))
}

// GetByID returns the user named in the path, whoever is asking.
func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	profile, err := h.userService.GetProfile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeMessage(w, http.StatusNotFound, "User not found")
			return
		}
		h.logger.Errorw("failed to load profile", "userId", userID, "error", err)
		writeInternalError(w)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(profile.User, profile.Movies))
}

// Search lists users whose name contains ?name=, ignoring case.
func (h *UserHandler) Search(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.SearchUsers(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		h.logger.Errorw("failed to search users", "error", err)
		writeInternalError(w)
		return
	}

	resp := make([]PublicUserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, PublicUserResponse{ID: u.ID.String(), Name: u.Name})
	}
	writeJSON(w, http.StatusOK, resp)
}

// OtherUser returns every record of the user in the path with their name.
func (h *UserHandler) OtherUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	user, movies, err := h.ratingService.ListAllForUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeMessage(w, http.StatusNotFound, "User not found")
			return
		}
		h.logger.Errorw("failed to list user movies", "userId", userID, "error", err)
		writeInternalError(w)
		return
	}

	if movies == nil {
		movies = []*domain.RatedMovie{}
	}
	writeJSON(w, http.StatusOK, OtherUserResponse{OtherUser: movies, Name: user.Name})
}

func toUserResponse(user *domain.User, movies []uuid.UUID) UserResponse {
	return UserResponse{
		ID:        user.ID.String(),
		Name:      user.Name,
		Email:     user.Email,
		Movies:    movies,
		CreatedAt: user.CreatedAt,
	}
}

func userIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		writeValidationError(w, "Invalid user id", map[string]string{"userId": "must be a valid id"})
		return uuid.Nil, false
	}
	return id, true
}
