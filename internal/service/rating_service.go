package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dom/movie-night/internal/domain"
	"github.com/dom/movie-night/internal/events"
	"github.com/dom/movie-night/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PageSize is the fixed number of records per listing page.
const PageSize = 10

var (
	ErrRatingNotFound = errors.New("rated movie not found")
	ErrInvalidPage    = errors.New("page must be 1 or greater")
	ErrInvalidMovieID = errors.New("movie id must be positive")
)

type RatingService struct {
	userRepo   repository.UserRepository
	ratingRepo repository.RatingRepository
	publisher  events.Publisher
	logger     *zap.SugaredLogger
}

func NewRatingService(userRepo repository.UserRepository, ratingRepo repository.RatingRepository, publisher events.Publisher, logger *zap.SugaredLogger) *RatingService {
	return &RatingService{
		userRepo:   userRepo,
		ratingRepo: ratingRepo,
		publisher:  publisher,
		logger:     logger,
	}
}

// UpsertRatingInput carries a partial update. Nil fields are left as they
// are on an existing record and take their defaults on a new one. Setting
// ClearRating with a nil Rating removes a stored score.
type UpsertRatingInput struct {
	UserID      uuid.UUID
	MovieID     int64
	MovieTitle  string
	MovieImage  *string
	Rating      *int
	ClearRating bool
	WatchStatus *domain.WatchStatus
	UserName    *string
}

// ListRatingsInput filters a user's records. When MovieID is set the lookup
// is exact and Page is ignored.
type ListRatingsInput struct {
	Rating      *int
	WatchStatus *domain.WatchStatus
	MovieID     *int64
	Page        int
}

// UpsertRating creates the user's record for the movie or merges the given
// fields into the existing one. created reports which happened.
func (s *RatingService) UpsertRating(ctx context.Context, input UpsertRatingInput) (movie *domain.RatedMovie, created bool, err error) {
	if input.MovieID <= 0 {
		return nil, false, ErrInvalidMovieID
	}
	if input.Rating != nil {
		if err := domain.ValidateRating(*input.Rating); err != nil {
			return nil, false, err
		}
	}
	if input.WatchStatus != nil && !input.WatchStatus.IsValid() {
		return nil, false, domain.ErrInvalidWatchStatus
	}

	movie, created, err = s.ratingRepo.Upsert(ctx, input.UserID, input.MovieID, repository.RatingChanges{
		MovieTitle:  input.MovieTitle,
		MovieImage:  input.MovieImage,
		Rating:      input.Rating,
		ClearRating: input.ClearRating && input.Rating == nil,
		WatchStatus: input.WatchStatus,
		UserName:    input.UserName,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, false, ErrUserNotFound
		}
		return nil, false, fmt.Errorf("upsert rated movie: %w", err)
	}

	s.publish(ctx, events.Event{
		Type:     events.TypeRatingUpserted,
		UserID:   movie.UserID,
		MovieID:  movie.MovieID,
		RatingID: movie.ID,
		Created:  created,
	})

	return movie, created, nil
}

func (s *RatingService) GetRating(ctx context.Context, userID uuid.UUID, movieID int64) (*domain.RatedMovie, error) {
	movie, err := s.ratingRepo.GetByUserAndMovie(ctx, userID, movieID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRatingNotFound
		}
		return nil, err
	}
	return movie, nil
}

// ListRatingsForUser returns one page of the user's records, newest first.
func (s *RatingService) ListRatingsForUser(ctx context.Context, userID uuid.UUID, input ListRatingsInput) ([]*domain.RatedMovie, error) {
	if input.MovieID != nil {
		movie, err := s.GetRating(ctx, userID, *input.MovieID)
		if err != nil {
			return nil, err
		}
		return []*domain.RatedMovie{movie}, nil
	}

	page := input.Page
	if page == 0 {
		page = 1
	}
	if page < 1 {
		return nil, ErrInvalidPage
	}
	if input.WatchStatus != nil && !input.WatchStatus.IsValid() {
		return nil, domain.ErrInvalidWatchStatus
	}

	filter := repository.RatingFilter{
		Rating:      input.Rating,
		WatchStatus: input.WatchStatus,
	}
	return s.ratingRepo.ListByUser(ctx, userID, filter, PageSize, (page-1)*PageSize)
}

// ListAllForUser returns another user and every record they own.
func (s *RatingService) ListAllForUser(ctx context.Context, userID uuid.UUID) (*domain.User, []*domain.RatedMovie, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, err
	}

	movies, err := s.ratingRepo.ListAllByUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return user, movies, nil
}

func (s *RatingService) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	event.OccurredAt = time.Now().UTC()
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warnw("failed to publish event", "type", event.Type, "movieId", event.MovieID, "error", err)
	}
}
