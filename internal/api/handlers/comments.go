package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dom/movie-night/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CommentHandler struct {
	commentService *service.CommentService
	logger         *zap.SugaredLogger
}

func NewCommentHandler(commentService *service.CommentService, logger *zap.SugaredLogger) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		logger:         logger,
	}
}

type AddCommentRequest struct {
	UserID     uuid.UUID `json:"userId" validate:"required"`
	Comment    string    `json:"comment" validate:"required,max=1000"`
	UserName   string    `json:"userName" validate:"max=20"`
	MovieTitle string    `json:"movieTitle" validate:"max=300"`
}

type DeleteCommentRequest struct {
	UserID    uuid.UUID `json:"userId" validate:"required"`
	CreatedAt time.Time `json:"createdAt" validate:"required"`
}

func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	movieID, ok := movieIDParam(w, r)
	if !ok {
		return
	}

	comments, err := h.commentService.ListCommentsForMovie(r.Context(), movieID)
	if err != nil {
		h.logger.Errorw("failed to list comments", "movieId", movieID, "error", err)
		writeInternalError(w)
		return
	}

	writeJSON(w, http.StatusOK, comments)
}

func (h *CommentHandler) Add(w http.ResponseWriter, r *http.Request) {
	movieID, ok := movieIDParam(w, r)
	if !ok {
		return
	}

	var req AddCommentRequest
	if !decodeAndValidate(w, r, &req, "Could not add comment") {
		return
	}

	movie, err := h.commentService.AddComment(r.Context(), service.AddCommentInput{
		UserID:     req.UserID,
		MovieID:    movieID,
		Comment:    req.Comment,
		UserName:   req.UserName,
		MovieTitle: req.MovieTitle,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidComment):
			writeValidationError(w, "Could not add comment", map[string]string{"comment": "must be between 1 and 1000 characters"})
		case errors.Is(err, service.ErrUserNotFound):
			writeMessage(w, http.StatusNotFound, "User not found")
		default:
			h.logger.Errorw("failed to add comment", "movieId", movieID, "error", err)
			writeInternalError(w)
		}
		return
	}

	writeJSON(w, http.StatusCreated, movie)
}

func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	movieID, ok := movieIDParam(w, r)
	if !ok {
		return
	}

	var req DeleteCommentRequest
	if err := readJSON(w, r, &req); err != nil || validate.Struct(&req) != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"errorMessage": "Couldn't delete comment"})
		return
	}

	err := h.commentService.RemoveComment(r.Context(), movieID, req.UserID, req.CreatedAt)
	if err != nil {
		if !errors.Is(err, service.ErrCommentNotFound) {
			h.logger.Errorw("failed to delete comment", "movieId", movieID, "error", err)
			writeInternalError(w)
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"errorMessage": "Couldn't delete comment"})
		return
	}

	writeMessage(w, http.StatusOK, "Successfully deleted comment")
}

func movieIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "movieId"), 10, 64)
	if err != nil || id <= 0 {
		writeValidationError(w, "Invalid movie id", map[string]string{"movieId": "must be a positive number"})
		return 0, false
	}
	return id, true
}
