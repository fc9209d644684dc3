package service

import (
	"context"

	"github.com/dom/movie-night/internal/domain"
	"github.com/dom/movie-night/internal/repository"
	"github.com/google/uuid"
)

type MatchService struct {
	ratingRepo repository.RatingRepository
}

func NewMatchService(ratingRepo repository.RatingRepository) *MatchService {
	return &MatchService{ratingRepo: ratingRepo}
}

// FindMatches returns the user's watched movies that the friend has also
// watched, joined on movie id, in the user's own order.
func (s *MatchService) FindMatches(ctx context.Context, userID, friendID uuid.UUID) ([]*domain.RatedMovie, error) {
	mine, err := s.ratingRepo.ListWatchedByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	theirs, err := s.ratingRepo.ListWatchedByUser(ctx, friendID)
	if err != nil {
		return nil, err
	}

	friendMovies := make(map[int64]bool, len(theirs))
	for _, m := range theirs {
		friendMovies[m.MovieID] = true
	}

	matches := make([]*domain.RatedMovie, 0)
	for _, m := range mine {
		if friendMovies[m.MovieID] {
			matches = append(matches, m)
		}
	}
	return matches, nil
}
