package testutil

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/dom/movie-night/internal/domain"
	"github.com/dom/movie-night/internal/service"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	name     string
	email    string
	password string
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	suffix := uuid.New().String()[:8]
	return &UserBuilder{
		name:     "user_" + suffix,
		email:    fmt.Sprintf("user_%s@example.com", suffix),
		password: "testpassword123",
	}
}

// WithName sets the name
func (b *UserBuilder) WithName(name string) *UserBuilder {
	b.name = name
	return b
}

// WithEmail sets the email
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

// WithPassword sets the password
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	token, err := service.GenerateAccessToken()
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Name:         b.name,
		Email:        b.email,
		PasswordHash: string(hashedPassword),
		AccessToken:  token,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// RegisterResponse matches the API registration response
type RegisterResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Movies      []string `json:"movies"`
	AccessToken string   `json:"accessToken"`
}

// BuildAndAuthenticate registers the user via the API and returns the user and access token
func (b *UserBuilder) BuildAndAuthenticate(t *testing.T, ts *TestServer) (*domain.User, string) {
	t.Helper()

	resp := ts.Do(t, http.MethodPost, "/users", map[string]string{
		"name":     b.name,
		"email":    b.email,
		"password": b.password,
	}, "")

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("unexpected status code: %d", resp.StatusCode)
	}

	var reg RegisterResponse
	AssertJSONResponse(t, resp, &reg)

	userID, err := uuid.Parse(reg.ID)
	if err != nil {
		t.Fatalf("invalid user id in response: %v", err)
	}

	return &domain.User{ID: userID, Name: reg.Name, Email: reg.Email}, reg.AccessToken
}

// RatedMovieBuilder creates rated movie records with a builder pattern
type RatedMovieBuilder struct {
	user        *domain.User
	movieID     int64
	title       string
	rating      *int
	watchStatus domain.WatchStatus
	comments    []domain.Comment
	createdAt   time.Time
}

// NewRatedMovieBuilder creates a new RatedMovieBuilder with default values
func NewRatedMovieBuilder() *RatedMovieBuilder {
	movieID := time.Now().UnixNano() % 1_000_000
	return &RatedMovieBuilder{
		movieID:     movieID + 1,
		title:       fmt.Sprintf("Movie %d", movieID+1),
		watchStatus: domain.WatchStatusNotStarted,
	}
}

// WithUser sets the owning user
func (b *RatedMovieBuilder) WithUser(user *domain.User) *RatedMovieBuilder {
	b.user = user
	return b
}

// WithMovie sets the movie id and title
func (b *RatedMovieBuilder) WithMovie(movieID int64, title string) *RatedMovieBuilder {
	b.movieID = movieID
	b.title = title
	return b
}

// WithRating sets the score
func (b *RatedMovieBuilder) WithRating(rating int) *RatedMovieBuilder {
	b.rating = &rating
	return b
}

// WithWatchStatus sets the watch status
func (b *RatedMovieBuilder) WithWatchStatus(status domain.WatchStatus) *RatedMovieBuilder {
	b.watchStatus = status
	return b
}

// WithComment appends a comment stamped at the given time
func (b *RatedMovieBuilder) WithComment(body, userName string, at time.Time) *RatedMovieBuilder {
	b.comments = append(b.comments, domain.Comment{
		Comment:   body,
		UserName:  userName,
		CreatedAt: at.UTC().Truncate(time.Microsecond),
	})
	return b
}

// WithCreatedAt pins the creation time, for ordering tests
func (b *RatedMovieBuilder) WithCreatedAt(at time.Time) *RatedMovieBuilder {
	b.createdAt = at
	return b
}

// Build creates the record in the database
func (b *RatedMovieBuilder) Build(t *testing.T, db *gorm.DB) *domain.RatedMovie {
	t.Helper()

	if b.user == nil {
		user, _ := NewUserBuilder().Build(t, db)
		b.user = user
	}

	createdAt := b.createdAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	comments := datatypes.JSONSlice[domain.Comment]{}
	comments = append(comments, b.comments...)

	movie := &domain.RatedMovie{
		ID:          uuid.New(),
		UserID:      b.user.ID,
		MovieID:     b.movieID,
		MovieTitle:  b.title,
		Rating:      b.rating,
		WatchStatus: b.watchStatus,
		UserName:    b.user.Name,
		Comments:    comments,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}

	if err := db.Create(movie).Error; err != nil {
		t.Fatalf("failed to create rated movie: %v", err)
	}

	return movie
}
