package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/dom/movie-night/internal/domain"
	"github.com/dom/movie-night/internal/service"
	"go.uber.org/zap"
)

type RatingHandler struct {
	ratingService *service.RatingService
	logger        *zap.SugaredLogger
}

func NewRatingHandler(ratingService *service.RatingService, logger *zap.SugaredLogger) *RatingHandler {
	return &RatingHandler{
		ratingService: ratingService,
		logger:        logger,
	}
}

type RateMovieRequest struct {
	MovieID     int64               `json:"movieId" validate:"required,gt=0"`
	MovieTitle  string              `json:"movieTitle" validate:"max=300"`
	MovieImage  *string             `json:"movieImage" validate:"omitempty,max=2048"`
	Rating      optionalInt         `json:"rating"`
	WatchStatus *domain.WatchStatus `json:"watchStatus"`
	UserName    *string             `json:"userName" validate:"omitempty,max=20"`
}

// optionalInt tells an absent field apart from an explicit null.
type optionalInt struct {
	Set   bool
	Value *int
}

func (o *optionalInt) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(data, []byte("null")) {
		o.Value = nil
		return nil
	}
	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// Rate creates or updates the path user's record for a movie. Only the
// fields present in the body are written; "rating": null clears the score.
func (h *RatingHandler) Rate(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	var req RateMovieRequest
	if !decodeAndValidate(w, r, &req, "Could not rate movie") {
		return
	}

	movie, created, err := h.ratingService.UpsertRating(r.Context(), service.UpsertRatingInput{
		UserID:      userID,
		MovieID:     req.MovieID,
		MovieTitle:  req.MovieTitle,
		MovieImage:  req.MovieImage,
		Rating:      req.Rating.Value,
		ClearRating: req.Rating.Set && req.Rating.Value == nil,
		WatchStatus: req.WatchStatus,
		UserName:    req.UserName,
	})
	if err != nil {
		h.writeRatingError(w, err, "Could not rate movie")
		return
	}

	h.logger.Debugw("movie rated", "userId", userID, "movieId", req.MovieID, "created", created)
	writeJSON(w, http.StatusCreated, movie)
}

// List serves ?rating=&watchStatus=&page= listings and ?movieId= lookups.
func (h *RatingHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	input, fields := parseListQuery(r)
	if len(fields) > 0 {
		writeValidationError(w, "Invalid query", fields)
		return
	}

	movies, err := h.ratingService.ListRatingsForUser(r.Context(), userID, input)
	if err != nil {
		h.writeRatingError(w, err, "Invalid query")
		return
	}

	if input.MovieID != nil {
		writeJSON(w, http.StatusOK, movies[0])
		return
	}
	if len(movies) == 0 {
		writeMessage(w, http.StatusNotFound, "No movies rated yet")
		return
	}
	writeJSON(w, http.StatusOK, movies)
}

func parseListQuery(r *http.Request) (service.ListRatingsInput, map[string]string) {
	q := r.URL.Query()
	var input service.ListRatingsInput
	fields := make(map[string]string)

	if raw := q.Get("rating"); raw != "" {
		rating, err := strconv.Atoi(raw)
		if err != nil || domain.ValidateRating(rating) != nil {
			fields["rating"] = "must be a whole number from 0 to 10"
		} else {
			input.Rating = &rating
		}
	}
	if raw := q.Get("watchStatus"); raw != "" {
		status, err := domain.ParseWatchStatus(raw)
		if err != nil {
			fields["watchStatus"] = watchStatusReason
		} else {
			input.WatchStatus = &status
		}
	}
	if raw := q.Get("movieId"); raw != "" {
		movieID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || movieID <= 0 {
			fields["movieId"] = "must be a positive number"
		} else {
			input.MovieID = &movieID
		}
	}
	if raw := q.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			fields["page"] = "must be 1 or greater"
		} else {
			input.Page = page
		}
	}

	return input, fields
}

func (h *RatingHandler) writeRatingError(w http.ResponseWriter, err error, message string) {
	switch {
	case errors.Is(err, service.ErrRatingNotFound):
		writeMessage(w, http.StatusNotFound, "Rated movie not found")
	case errors.Is(err, service.ErrUserNotFound):
		writeMessage(w, http.StatusNotFound, "User not found")
	case errors.Is(err, domain.ErrInvalidRating):
		writeValidationError(w, message, map[string]string{"rating": "must be 0 or greater and 10 or less"})
	case errors.Is(err, domain.ErrInvalidWatchStatus):
		writeValidationError(w, message, map[string]string{"watchStatus": watchStatusReason})
	case errors.Is(err, service.ErrInvalidMovieID):
		writeValidationError(w, message, map[string]string{"movieId": "must be a positive number"})
	case errors.Is(err, service.ErrInvalidPage):
		writeValidationError(w, message, map[string]string{"page": "must be 1 or greater"})
	default:
		h.logger.Errorw("rating request failed", "error", err)
		writeInternalError(w)
	}
}
