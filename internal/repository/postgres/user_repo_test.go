package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/dom/movie-night/internal/domain"
	"github.com/dom/movie-night/internal/repository/postgres"
	"github.com/dom/movie-night/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newUser(name, email, token string) *domain.User {
	return &domain.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: "hashedpassword",
		AccessToken:  token,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

func TestUserRepository_Create(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewUserRepository(testDB.DB)
	ctx := context.Background()

	tests := []struct {
		name    string
		user    *domain.User
		wantErr error
	}{
		{
			name:    "successful creation",
			user:    newUser("alice", "alice@example.com", "token-1"),
			wantErr: nil,
		},
		{
			name:    "duplicate name",
			user:    newUser("alice", "other@example.com", "token-2"),
			wantErr: gorm.ErrDuplicatedKey,
		},
		{
			name:    "duplicate email",
			user:    newUser("bob", "alice@example.com", "token-3"),
			wantErr: gorm.ErrDuplicatedKey,
		},
		{
			name:    "duplicate token",
			user:    newUser("carol", "carol@example.com", "token-1"),
			wantErr: gorm.ErrDuplicatedKey,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Create(ctx, tt.user)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestUserRepository_Lookups(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewUserRepository(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().
		WithName("lookup_user").
		WithEmail("lookup@example.com").
		Build(t, testDB.DB)

	tests := []struct {
		name    string
		lookup  func() (*domain.User, error)
		wantErr bool
	}{
		{
			name:   "by id",
			lookup: func() (*domain.User, error) { return repo.GetByID(ctx, user.ID) },
		},
		{
			name:   "by email",
			lookup: func() (*domain.User, error) { return repo.GetByEmail(ctx, "lookup@example.com") },
		},
		{
			name:   "by name",
			lookup: func() (*domain.User, error) { return repo.GetByName(ctx, "lookup_user") },
		},
		{
			name:   "by token",
			lookup: func() (*domain.User, error) { return repo.GetByToken(ctx, user.AccessToken) },
		},
		{
			name:    "unknown id",
			lookup:  func() (*domain.User, error) { return repo.GetByID(ctx, uuid.New()) },
			wantErr: true,
		},
		{
			name:    "unknown token",
			lookup:  func() (*domain.User, error) { return repo.GetByToken(ctx, "nope") },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.lookup()
			if tt.wantErr {
				assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, user.ID, got.ID)
			assert.Equal(t, user.Name, got.Name)
		})
	}
}

func TestUserRepository_SearchByName(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewUserRepository(testDB.DB)
	ctx := context.Background()

	for _, name := range []string{"Anna", "anneli", "Bob", "100%_real"} {
		testutil.NewUserBuilder().WithName(name).Build(t, testDB.DB)
	}

	tests := []struct {
		name            string
		pattern         string
		caseInsensitive bool
		want            []string
	}{
		{
			name:            "case insensitive substring",
			pattern:         "ann",
			caseInsensitive: true,
			want:            []string{"Anna", "anneli"},
		},
		{
			name:            "case sensitive substring",
			pattern:         "ann",
			caseInsensitive: false,
			want:            []string{"anneli"},
		},
		{
			name:            "wildcards are literal",
			pattern:         "%_",
			caseInsensitive: true,
			want:            []string{"100%_real"},
		},
		{
			name:            "empty pattern lists everyone",
			pattern:         "",
			caseInsensitive: true,
			want:            []string{"100%_real", "Anna", "Bob", "anneli"},
		},
		{
			name:            "no match",
			pattern:         "zed",
			caseInsensitive: true,
			want:            []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users, err := repo.SearchByName(ctx, tt.pattern, tt.caseInsensitive)
			require.NoError(t, err)

			names := make([]string, 0, len(users))
			for _, u := range users {
				names = append(names, u.Name)
			}
			assert.ElementsMatch(t, tt.want, names)
		})
	}
}
