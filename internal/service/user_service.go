package service

import (
	"context"
	"errors"

	"github.com/dom/movie-night/internal/domain"
	"github.com/dom/movie-night/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserService struct {
	userRepo   repository.UserRepository
	ratingRepo repository.RatingRepository
}

func NewUserService(userRepo repository.UserRepository, ratingRepo repository.RatingRepository) *UserService {
	return &UserService{
		userRepo:   userRepo,
		ratingRepo: ratingRepo,
	}
}

// Profile is a user together with the ids of the movies they have rated.
// Movies is read from the rating store each time, never cached on the user.
type Profile struct {
	User   *domain.User
	Movies []uuid.UUID
}

func (s *UserService) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// GetProfile loads a user by id along with their rated movie ids.
func (s *UserService) GetProfile(ctx context.Context, id uuid.UUID) (*Profile, error) {
	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.ProfileFor(ctx, user)
}

// ProfileFor builds the profile of an already loaded user.
func (s *UserService) ProfileFor(ctx context.Context, user *domain.User) (*Profile, error) {
	ids, err := s.ratingRepo.ListIDsByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []uuid.UUID{}
	}
	return &Profile{User: user, Movies: ids}, nil
}

// SearchUsers finds users by case-insensitive name substring. An empty name
// lists every user.
func (s *UserService) SearchUsers(ctx context.Context, name string) ([]*domain.User, error) {
	return s.userRepo.SearchByName(ctx, name, true)
}
