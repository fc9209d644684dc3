package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dom/movie-night/internal/domain"
	"github.com/dom/movie-night/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// accessTokenBytes of randomness, hex encoded to twice as many characters.
const accessTokenBytes = 128

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid access token")
	ErrNameTaken          = errors.New("name already exists")
	ErrEmailTaken         = errors.New("email already exists")
	ErrUserNotFound       = errors.New("user not found")
)

type AuthService struct {
	userRepo   repository.UserRepository
	tokenCache repository.TokenCache
	logger     *zap.SugaredLogger
}

// NewAuthService wires the service. tokenCache may be nil.
func NewAuthService(userRepo repository.UserRepository, tokenCache repository.TokenCache, logger *zap.SugaredLogger) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		tokenCache: tokenCache,
		logger:     logger,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	email := normalizeEmail(input.Email)

	if existing, err := s.userRepo.GetByName(ctx, input.Name); err == nil && existing != nil {
		return nil, ErrNameTaken
	}
	if existing, err := s.userRepo.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	token, err := GenerateAccessToken()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New(),
		Name:         input.Name,
		Email:        email,
		PasswordHash: string(hashedPassword),
		AccessToken:  token,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost a race with a concurrent registration; report which field.
			if _, lookupErr := s.userRepo.GetByName(ctx, input.Name); lookupErr == nil {
				return nil, ErrNameTaken
			}
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*domain.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// Authenticate resolves a bearer token to its user. Cache failures are
// logged and fall through to the store.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	if s.tokenCache != nil {
		userID, ok, err := s.tokenCache.Get(ctx, token)
		if err != nil {
			s.logger.Warnw("token cache lookup failed", "error", err)
		} else if ok {
			user, err := s.userRepo.GetByID(ctx, userID)
			if err == nil {
				return user, nil
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
		}
	}

	user, err := s.userRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	if s.tokenCache != nil {
		if err := s.tokenCache.Set(ctx, token, user.ID); err != nil {
			s.logger.Warnw("token cache write failed", "userId", user.ID, "error", err)
		}
	}

	return user, nil
}

// GenerateAccessToken returns 128 bytes from crypto/rand as 256 hex characters.
func GenerateAccessToken() (string, error) {
	buf := make([]byte, accessTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
