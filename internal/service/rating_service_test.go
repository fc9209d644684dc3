package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dom/movie-night/internal/domain"
	"github.com/dom/movie-night/internal/events"
	"github.com/dom/movie-night/internal/logger"
	"github.com/dom/movie-night/internal/repository/postgres"
	"github.com/dom/movie-night/internal/service"
	"github.com/dom/movie-night/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatingService_UpsertRating(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	publisher := &recordingPublisher{}
	ratingService := service.NewRatingService(repos.User, repos.Rating, publisher, logger.Nop())
	users := service.NewUserService(repos.User, repos.Rating)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().WithName("alice").Build(t, testDB.DB)

	created, isNew, err := ratingService.UpsertRating(ctx, service.UpsertRatingInput{
		UserID:     user.ID,
		MovieID:    42,
		MovieTitle: "Dune",
		Rating:     intPtr(5),
	})
	require.NoError(t, err)
	assert.True(t, isNew)

	profile, err := users.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{created.ID}, profile.Movies)

	updated, isNew, err := ratingService.UpsertRating(ctx, service.UpsertRatingInput{
		UserID:      user.ID,
		MovieID:     42,
		WatchStatus: statusPtr(domain.WatchStatusWatched),
	})
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, 5, *updated.Rating)
	assert.Equal(t, domain.WatchStatusWatched, updated.WatchStatus)

	profile, err = users.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, profile.Movies, 1)

	require.Len(t, publisher.events, 2)
	assert.Equal(t, events.TypeRatingUpserted, publisher.events[0].Type)
	assert.True(t, publisher.events[0].Created)
	assert.False(t, publisher.events[1].Created)
	assert.Equal(t, created.ID, publisher.events[1].RatingID)
	assert.False(t, publisher.events[1].OccurredAt.IsZero())
}

func TestRatingService_UpsertRatingValidation(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	ratingService := service.NewRatingService(repos.User, repos.Rating, events.NopPublisher{}, logger.Nop())
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	bogus := domain.WatchStatus("someday")

	tests := []struct {
		name    string
		input   service.UpsertRatingInput
		wantErr error
	}{
		{
			name:    "rating above range",
			input:   service.UpsertRatingInput{UserID: user.ID, MovieID: 1, Rating: intPtr(11)},
			wantErr: domain.ErrInvalidRating,
		},
		{
			name:    "negative rating",
			input:   service.UpsertRatingInput{UserID: user.ID, MovieID: 1, Rating: intPtr(-1)},
			wantErr: domain.ErrInvalidRating,
		},
		{
			name:    "unknown status",
			input:   service.UpsertRatingInput{UserID: user.ID, MovieID: 1, WatchStatus: &bogus},
			wantErr: domain.ErrInvalidWatchStatus,
		},
		{
			name:    "zero movie id",
			input:   service.UpsertRatingInput{UserID: user.ID, MovieID: 0},
			wantErr: service.ErrInvalidMovieID,
		},
		{
			name:    "unknown user",
			input:   service.UpsertRatingInput{UserID: uuid.New(), MovieID: 1},
			wantErr: service.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ratingService.UpsertRating(ctx, tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRatingService_PublishFailureIsIgnored(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	publisher := &recordingPublisher{err: errors.New("broker down")}
	ratingService := service.NewRatingService(repos.User, repos.Rating, publisher, logger.Nop())

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	movie, _, err := ratingService.UpsertRating(context.Background(), service.UpsertRatingInput{
		UserID:     user.ID,
		MovieID:    3,
		MovieTitle: "Jaws",
	})
	require.NoError(t, err)
	assert.Equal(t, "Jaws", movie.MovieTitle)
	assert.Len(t, publisher.events, 1)
}

func TestRatingService_ListRatingsForUser(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	ratingService := service.NewRatingService(repos.User, repos.Rating, events.NopPublisher{}, logger.Nop())
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	base := time.Now().Add(-time.Hour)
	for i := 1; i <= 12; i++ {
		testutil.NewRatedMovieBuilder().
			WithUser(user).
			WithMovie(int64(i), "Movie").
			WithRating(i%3).
			WithCreatedAt(base.Add(time.Duration(i) * time.Minute)).
			Build(t, testDB.DB)
	}
	movieID := int64(4)
	missing := int64(400)

	tests := []struct {
		name      string
		input     service.ListRatingsInput
		wantLen   int
		wantFirst int64
		wantErr   error
	}{
		{name: "page zero means first page", input: service.ListRatingsInput{}, wantLen: 10, wantFirst: 12},
		{name: "second page", input: service.ListRatingsInput{Page: 2}, wantLen: 2, wantFirst: 2},
		{name: "third page is empty", input: service.ListRatingsInput{Page: 3}, wantLen: 0},
		{name: "negative page", input: service.ListRatingsInput{Page: -1}, wantErr: service.ErrInvalidPage},
		{name: "rating filter", input: service.ListRatingsInput{Rating: intPtr(0)}, wantLen: 4, wantFirst: 12},
		{name: "movie id ignores page", input: service.ListRatingsInput{MovieID: &movieID, Page: 9}, wantLen: 1, wantFirst: 4},
		{name: "missing movie id", input: service.ListRatingsInput{MovieID: &missing}, wantErr: service.ErrRatingNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			movies, err := ratingService.ListRatingsForUser(ctx, user.ID, tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Len(t, movies, tt.wantLen)
			if tt.wantLen > 0 {
				assert.Equal(t, tt.wantFirst, movies[0].MovieID)
			}
		})
	}
}

func TestRatingService_ListAllForUser(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	ratingService := service.NewRatingService(repos.User, repos.Rating, events.NopPublisher{}, logger.Nop())
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().WithName("bob").Build(t, testDB.DB)
	testutil.NewRatedMovieBuilder().WithUser(user).Build(t, testDB.DB)

	got, movies, err := ratingService.ListAllForUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob", got.Name)
	assert.Len(t, movies, 1)

	_, _, err = ratingService.ListAllForUser(ctx, uuid.New())
	assert.ErrorIs(t, err, service.ErrUserNotFound)
}
