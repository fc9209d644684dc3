package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	MinRating = 0
	MaxRating = 10
)

// RatedMovie is one user's entry for one movie. The composite unique index
// keeps at most one row per (user, movie).
type RatedMovie struct {
	ID          uuid.UUID                    `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID      uuid.UUID                    `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_rated_movies_user_movie"`
	MovieID     int64                        `json:"movieId" gorm:"not null;uniqueIndex:idx_rated_movies_user_movie;index"`
	MovieTitle  string                       `json:"movieTitle" gorm:"not null;default:''"`
	MovieImage  string                       `json:"movieImage,omitempty"`
	Rating      *int                         `json:"rating"`
	WatchStatus WatchStatus                  `json:"watchStatus" gorm:"type:varchar(20);not null;default:'not_started'"`
	UserName    string                       `json:"userName" gorm:"not null;default:''"`
	Comments    datatypes.JSONSlice[Comment] `json:"comments" gorm:"type:jsonb;not null;default:'[]'"`
	CreatedAt   time.Time                    `json:"createdAt" gorm:"index"`
	UpdatedAt   time.Time                    `json:"updatedAt"`

	User *User `json:"-" gorm:"foreignKey:UserID"`
}

// TableName returns the table name for GORM
func (RatedMovie) TableName() string {
	return "rated_movies"
}

// Comment is embedded in its RatedMovie. CreatedAt doubles as its identifier.
type Comment struct {
	Comment   string    `json:"comment"`
	UserName  string    `json:"userName"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewComment stamps a comment with the current time at the precision
// Postgres timestamps keep, so the value can later be matched exactly.
func NewComment(body, userName string) Comment {
	return Comment{
		Comment:   body,
		UserName:  userName,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
}

// MovieComment is a comment flattened out of its record for per-movie listings
type MovieComment struct {
	UserID  uuid.UUID `json:"userId"`
	MovieID int64     `json:"movieId"`
	Comment
}

// ValidateRating checks a score against the accepted range
func ValidateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return ErrInvalidRating
	}
	return nil
}
