package repository

import (
	"context"
	"time"

	"github.com/dom/movie-night/internal/domain"
	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByName(ctx context.Context, name string) (*domain.User, error)
	GetByToken(ctx context.Context, token string) (*domain.User, error)
	SearchByName(ctx context.Context, pattern string, caseInsensitive bool) ([]*domain.User, error)
}

// RatingFilter narrows a user's rated movies. Nil fields are not applied.
type RatingFilter struct {
	Rating      *int
	WatchStatus *domain.WatchStatus
}

// RatingChanges lists the columns an upsert may overwrite on an existing row.
// Only non-nil fields are written; MovieTitle is written when non-empty.
// ClearRating resets the rating to unset and is ignored when Rating is set.
type RatingChanges struct {
	MovieTitle  string
	MovieImage  *string
	Rating      *int
	ClearRating bool
	WatchStatus *domain.WatchStatus
	UserName    *string
}

type RatingRepository interface {
	Upsert(ctx context.Context, userID uuid.UUID, movieID int64, changes RatingChanges) (*domain.RatedMovie, bool, error)
	GetByUserAndMovie(ctx context.Context, userID uuid.UUID, movieID int64) (*domain.RatedMovie, error)
	ListByUser(ctx context.Context, userID uuid.UUID, filter RatingFilter, limit, offset int) ([]*domain.RatedMovie, error)
	ListAllByUser(ctx context.Context, userID uuid.UUID) ([]*domain.RatedMovie, error)
	ListIDsByUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	ListByMovie(ctx context.Context, movieID int64) ([]*domain.RatedMovie, error)
	ListWatchedByUser(ctx context.Context, userID uuid.UUID) ([]*domain.RatedMovie, error)
	AppendComment(ctx context.Context, userID uuid.UUID, movieID int64, comment domain.Comment) error
	RemoveComment(ctx context.Context, userID uuid.UUID, movieID int64, createdAt time.Time) (bool, error)
}

// TokenCache remembers which user an access token belongs to.
type TokenCache interface {
	Get(ctx context.Context, token string) (uuid.UUID, bool, error)
	Set(ctx context.Context, token string, userID uuid.UUID) error
}

type Repositories struct {
	User   UserRepository
	Rating RatingRepository
}
