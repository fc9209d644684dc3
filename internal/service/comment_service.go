package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dom/movie-night/internal/domain"
	"github.com/dom/movie-night/internal/events"
	"github.com/dom/movie-night/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxCommentLength = 1000

var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrInvalidComment  = errors.New("comment must be between 1 and 1000 characters")
)

// CommentNotifier pushes comment activity to live listeners.
type CommentNotifier interface {
	NotifyCommentAdded(movieID int64, userID uuid.UUID, comment domain.Comment)
	NotifyCommentRemoved(movieID int64, userID uuid.UUID, createdAt time.Time)
}

type CommentService struct {
	ratings    *RatingService
	ratingRepo repository.RatingRepository
	notifier   CommentNotifier
	logger     *zap.SugaredLogger
}

// NewCommentService wires the service. notifier may be nil.
func NewCommentService(ratings *RatingService, ratingRepo repository.RatingRepository, notifier CommentNotifier, logger *zap.SugaredLogger) *CommentService {
	return &CommentService{
		ratings:    ratings,
		ratingRepo: ratingRepo,
		notifier:   notifier,
		logger:     logger,
	}
}

type AddCommentInput struct {
	UserID     uuid.UUID
	MovieID    int64
	Comment    string
	UserName   string
	MovieTitle string
}

// AddComment appends a comment to the user's record for the movie, creating
// the record first when the user has not rated the movie yet.
func (s *CommentService) AddComment(ctx context.Context, input AddCommentInput) (*domain.RatedMovie, error) {
	body := strings.TrimSpace(input.Comment)
	if body == "" || utf8.RuneCountInString(body) > maxCommentLength {
		return nil, ErrInvalidComment
	}

	if _, _, err := s.ratings.UpsertRating(ctx, UpsertRatingInput{
		UserID:     input.UserID,
		MovieID:    input.MovieID,
		MovieTitle: input.MovieTitle,
	}); err != nil {
		return nil, err
	}

	comment := domain.NewComment(body, input.UserName)
	if err := s.ratingRepo.AppendComment(ctx, input.UserID, input.MovieID, comment); err != nil {
		return nil, fmt.Errorf("append comment: %w", err)
	}

	movie, err := s.ratings.GetRating(ctx, input.UserID, input.MovieID)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.NotifyCommentAdded(input.MovieID, input.UserID, comment)
	}
	at := comment.CreatedAt
	s.ratings.publish(ctx, events.Event{
		Type:      events.TypeCommentAdded,
		UserID:    input.UserID,
		MovieID:   input.MovieID,
		RatingID:  movie.ID,
		CommentAt: &at,
	})

	return movie, nil
}

// RemoveComment deletes the comment stamped createdAt from the user's record
// for the movie. A second call with the same key returns ErrCommentNotFound.
func (s *CommentService) RemoveComment(ctx context.Context, movieID int64, userID uuid.UUID, createdAt time.Time) error {
	removed, err := s.ratingRepo.RemoveComment(ctx, userID, movieID, createdAt)
	if err != nil {
		return fmt.Errorf("remove comment: %w", err)
	}
	if !removed {
		return ErrCommentNotFound
	}

	if s.notifier != nil {
		s.notifier.NotifyCommentRemoved(movieID, userID, createdAt)
	}
	at := createdAt
	s.ratings.publish(ctx, events.Event{
		Type:      events.TypeCommentRemoved,
		UserID:    userID,
		MovieID:   movieID,
		CommentAt: &at,
	})

	return nil
}

// ListCommentsForMovie gathers the comments of every user's record for the
// movie, newest first.
func (s *CommentService) ListCommentsForMovie(ctx context.Context, movieID int64) ([]domain.MovieComment, error) {
	movies, err := s.ratingRepo.ListByMovie(ctx, movieID)
	if err != nil {
		return nil, err
	}

	comments := make([]domain.MovieComment, 0)
	for _, m := range movies {
		for _, c := range m.Comments {
			comments = append(comments, domain.MovieComment{
				UserID:  m.UserID,
				MovieID: m.MovieID,
				Comment: c,
			})
		}
	}

	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].CreatedAt.After(comments[j].CreatedAt)
	})
	return comments, nil
}
