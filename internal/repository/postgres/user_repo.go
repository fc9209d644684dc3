package postgres

import (
	"context"
	"strings"

	"github.com/dom/movie-night/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *userRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByName(ctx context.Context, name string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).First(&user, "name = ?", name).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByToken(ctx context.Context, token string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).First(&user, "access_token = ?", token).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// SearchByName returns users whose name contains pattern. An empty pattern
// matches everyone.
func (r *userRepository) SearchByName(ctx context.Context, pattern string, caseInsensitive bool) ([]*domain.User, error) {
	var users []*domain.User
	query := r.db.WithContext(ctx).Order("name ASC")
	if pattern != "" {
		op := "LIKE"
		if caseInsensitive {
			op = "ILIKE"
		}
		query = query.Where("name "+op+" ? ESCAPE '\\'", "%"+escapeLike(pattern)+"%")
	}
	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
