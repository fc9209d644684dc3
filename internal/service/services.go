package service

import (
	"github.com/dom/movie-night/internal/events"
	"github.com/dom/movie-night/internal/repository"
	"go.uber.org/zap"
)

type Services struct {
	Auth    *AuthService
	User    *UserService
	Rating  *RatingService
	Comment *CommentService
	Match   *MatchService
}

// Dependencies are the optional collaborators. Nil TokenCache and Notifier
// disable caching and live feeds; a nil Publisher drops events.
type Dependencies struct {
	TokenCache repository.TokenCache
	Publisher  events.Publisher
	Notifier   CommentNotifier
	Logger     *zap.SugaredLogger
}

func NewServices(repos *repository.Repositories, deps Dependencies) *Services {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	publisher := deps.Publisher
	if publisher == nil {
		publisher = events.NopPublisher{}
	}

	ratings := NewRatingService(repos.User, repos.Rating, publisher, logger)
	return &Services{
		Auth:    NewAuthService(repos.User, deps.TokenCache, logger),
		User:    NewUserService(repos.User, repos.Rating),
		Rating:  ratings,
		Comment: NewCommentService(ratings, repos.Rating, deps.Notifier, logger),
		Match:   NewMatchService(repos.Rating),
	}
}
