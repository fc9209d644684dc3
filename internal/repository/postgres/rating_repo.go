package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dom/movie-night/internal/domain"
	"github.com/dom/movie-night/internal/repository"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ratingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) *ratingRepository {
	return &ratingRepository{db: db}
}

// Upsert inserts a new row for (userID, movieID) or, on conflict, overwrites
// only the columns named in changes. The boolean reports whether a new row
// was created.
func (r *ratingRepository) Upsert(ctx context.Context, userID uuid.UUID, movieID int64, changes repository.RatingChanges) (*domain.RatedMovie, bool, error) {
	now := time.Now()
	newID := uuid.New()
	movie := &domain.RatedMovie{
		ID:          newID,
		UserID:      userID,
		MovieID:     movieID,
		MovieTitle:  changes.MovieTitle,
		WatchStatus: domain.WatchStatusNotStarted,
		Comments:    datatypes.JSONSlice[domain.Comment]{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	updates := []string{"updated_at"}
	if changes.MovieTitle != "" {
		updates = append(updates, "movie_title")
	}
	if changes.MovieImage != nil {
		movie.MovieImage = *changes.MovieImage
		updates = append(updates, "movie_image")
	}
	if changes.Rating != nil {
		rating := *changes.Rating
		movie.Rating = &rating
		updates = append(updates, "rating")
	} else if changes.ClearRating {
		updates = append(updates, "rating")
	}
	if changes.WatchStatus != nil {
		movie.WatchStatus = *changes.WatchStatus
		updates = append(updates, "watch_status")
	}
	if changes.UserName != nil {
		movie.UserName = *changes.UserName
		updates = append(updates, "user_name")
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "movie_id"}},
			DoUpdates: clause.AssignmentColumns(updates),
		}).
		Create(movie).Error
	if err != nil {
		return nil, false, err
	}

	stored, err := r.GetByUserAndMovie(ctx, userID, movieID)
	if err != nil {
		return nil, false, err
	}
	return stored, stored.ID == newID, nil
}

func (r *ratingRepository) GetByUserAndMovie(ctx context.Context, userID uuid.UUID, movieID int64) (*domain.RatedMovie, error) {
	var movie domain.RatedMovie
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND movie_id = ?", userID, movieID).
		First(&movie).Error
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

func (r *ratingRepository) ListByUser(ctx context.Context, userID uuid.UUID, filter repository.RatingFilter, limit, offset int) ([]*domain.RatedMovie, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if filter.Rating != nil {
		query = query.Where("rating = ?", *filter.Rating)
	}
	if filter.WatchStatus != nil {
		query = query.Where("watch_status = ?", *filter.WatchStatus)
	}

	var movies []*domain.RatedMovie
	err := query.
		Order("created_at DESC, id").
		Limit(limit).
		Offset(offset).
		Find(&movies).Error
	if err != nil {
		return nil, err
	}
	return movies, nil
}

func (r *ratingRepository) ListAllByUser(ctx context.Context, userID uuid.UUID) ([]*domain.RatedMovie, error) {
	var movies []*domain.RatedMovie
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id").
		Find(&movies).Error
	if err != nil {
		return nil, err
	}
	return movies, nil
}

// ListIDsByUser is the owned-records view of a user, derived on every call.
func (r *ratingRepository) ListIDsByUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&domain.RatedMovie{}).
		Where("user_id = ?", userID).
		Order("created_at ASC, id").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *ratingRepository) ListByMovie(ctx context.Context, movieID int64) ([]*domain.RatedMovie, error) {
	var movies []*domain.RatedMovie
	err := r.db.WithContext(ctx).
		Where("movie_id = ?", movieID).
		Find(&movies).Error
	if err != nil {
		return nil, err
	}
	return movies, nil
}

func (r *ratingRepository) ListWatchedByUser(ctx context.Context, userID uuid.UUID) ([]*domain.RatedMovie, error) {
	var movies []*domain.RatedMovie
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND watch_status = ?", userID, domain.WatchStatusWatched).
		Order("created_at DESC, id").
		Find(&movies).Error
	if err != nil {
		return nil, err
	}
	return movies, nil
}

// AppendComment pushes a comment onto the record in a single statement.
func (r *ratingRepository) AppendComment(ctx context.Context, userID uuid.UUID, movieID int64, comment domain.Comment) error {
	payload, err := json.Marshal([]domain.Comment{comment})
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&domain.RatedMovie{}).
		Where("user_id = ? AND movie_id = ?", userID, movieID).
		Updates(map[string]interface{}{
			"comments":   gorm.Expr("(CASE WHEN jsonb_typeof(comments) = 'array' THEN comments ELSE '[]'::jsonb END) || ?::jsonb", string(payload)),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// RemoveComment drops every comment stamped exactly createdAt. It reports
// false when the record or the comment did not exist.
func (r *ratingRepository) RemoveComment(ctx context.Context, userID uuid.UUID, movieID int64, createdAt time.Time) (bool, error) {
	at := createdAt.UTC()
	result := r.db.WithContext(ctx).Exec(`
		UPDATE rated_movies
		SET comments = (
			SELECT COALESCE(jsonb_agg(c ORDER BY ord), '[]'::jsonb)
			FROM jsonb_array_elements(comments) WITH ORDINALITY AS e(c, ord)
			WHERE (c->>'createdAt')::timestamptz IS DISTINCT FROM ?
		), updated_at = ?
		WHERE user_id = ? AND movie_id = ?
		AND jsonb_typeof(comments) = 'array'
		AND EXISTS (
			SELECT 1 FROM jsonb_array_elements(comments) AS x(c)
			WHERE (c->>'createdAt')::timestamptz = ?
		)`, at, time.Now(), userID, movieID, at)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
