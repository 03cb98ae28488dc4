package repository

import (
	"context"
	"errors"
	"fmt"

	"tempest-reviews/internal/data/entity"
	"tempest-reviews/pkg/database"
	"tempest-reviews/pkg/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ReviewRepository interface {
	// Create fails with utils.ErrNotFound when the user or movie does not exist.
	Create(ctx context.Context, review *entity.Review) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.ReviewDetail, error)
	FindByMovieID(ctx context.Context, movieID uuid.UUID) ([]*entity.ReviewDetail, error)
	// FindByMovieIDs groups reviews of several movies in one query.
	FindByMovieIDs(ctx context.Context, movieIDs []uuid.UUID) (map[uuid.UUID][]*entity.ReviewDetail, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.ReviewDetail, error)
	// Update fails with utils.ErrNotFound when no row matched.
	Update(ctx context.Context, review *entity.Review) error
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

type reviewRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewReviewRepository(db database.PgxIface, log *zap.Logger) ReviewRepository {
	return &reviewRepository{
		db:  db,
		log: log.With(zap.String("repository", "review")),
	}
}

const reviewDetailSelect = `
	SELECT r.id, r.user_id, r.movie_id, r.content, r.quality, r.fun,
	       r.created_at, r.updated_at, u.email, u.name, m.title
	FROM reviews r
	JOIN users u ON u.id = r.user_id
	JOIN movies m ON m.id = r.movie_id
`

func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	query := `
		INSERT INTO reviews (id, user_id, movie_id, content, quality, fun, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		review.ID,
		review.UserID,
		review.MovieID,
		review.Content,
		review.Quality,
		review.Fun,
		review.CreatedAt,
		review.UpdatedAt,
	)

	// the movie may have been deleted since the service looked it up
	if database.IsForeignKeyViolation(err) {
		return fmt.Errorf("create review for movie %s: %w", review.MovieID, utils.ErrNotFound)
	}
	if err != nil {
		r.log.Error("Failed to create review",
			zap.Error(err),
			zap.String("user_id", review.UserID.String()),
			zap.String("movie_id", review.MovieID.String()),
		)
		return fmt.Errorf("create review for movie %s by user %s: %w",
			review.MovieID.String(), review.UserID.String(), err)
	}

	return nil
}

func (r *reviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.ReviewDetail, error) {
	query := reviewDetailSelect + ` WHERE r.id = $1`

	review, err := scanReviewDetail(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find review by ID",
			zap.Error(err),
			zap.String("review_id", id.String()),
		)
		return nil, fmt.Errorf("find review by ID %s: %w", id.String(), err)
	}

	return review, nil
}

func (r *reviewRepository) FindByMovieID(ctx context.Context, movieID uuid.UUID) ([]*entity.ReviewDetail, error) {
	query := reviewDetailSelect + `
		WHERE r.movie_id = $1
		ORDER BY r.created_at ASC, r.id ASC
	`

	reviews, err := r.queryDetails(ctx, query, movieID)
	if err != nil {
		r.log.Error("Failed to find reviews by movie ID",
			zap.Error(err),
			zap.String("movie_id", movieID.String()),
		)
		return nil, fmt.Errorf("find reviews by movie ID %s: %w", movieID.String(), err)
	}

	return reviews, nil
}

func (r *reviewRepository) FindByMovieIDs(ctx context.Context, movieIDs []uuid.UUID) (map[uuid.UUID][]*entity.ReviewDetail, error) {
	grouped := make(map[uuid.UUID][]*entity.ReviewDetail, len(movieIDs))
	if len(movieIDs) == 0 {
		return grouped, nil
	}

	ids := make([]string, len(movieIDs))
	for i, id := range movieIDs {
		ids[i] = id.String()
	}

	query := reviewDetailSelect + `
		WHERE r.movie_id = ANY($1::uuid[])
		ORDER BY r.created_at ASC, r.id ASC
	`

	reviews, err := r.queryDetails(ctx, query, ids)
	if err != nil {
		r.log.Error("Failed to find reviews by movie IDs",
			zap.Error(err),
			zap.Int("movie_count", len(movieIDs)),
		)
		return nil, fmt.Errorf("find reviews by movie IDs: %w", err)
	}

	for _, review := range reviews {
		grouped[review.MovieID] = append(grouped[review.MovieID], review)
	}
	return grouped, nil
}

func (r *reviewRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.ReviewDetail, error) {
	query := reviewDetailSelect + `
		WHERE r.user_id = $1
		ORDER BY r.created_at DESC, r.id ASC
	`

	reviews, err := r.queryDetails(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to find reviews by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find reviews by user ID %s: %w", userID.String(), err)
	}

	return reviews, nil
}

func (r *reviewRepository) Update(ctx context.Context, review *entity.Review) error {
	query := `
		UPDATE reviews
		SET content = $2, quality = $3, fun = $4, updated_at = $5
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		review.ID,
		review.Content,
		review.Quality,
		review.Fun,
		review.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update review",
			zap.Error(err),
			zap.String("review_id", review.ID.String()),
		)
		return fmt.Errorf("update review %s: %w", review.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("review %s: %w", review.ID.String(), utils.ErrNotFound)
	}

	return nil
}

func (r *reviewRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	query := `DELETE FROM reviews WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete review",
			zap.Error(err),
			zap.String("review_id", id.String()),
		)
		return 0, fmt.Errorf("delete review %s: %w", id.String(), err)
	}

	if result.RowsAffected() > 0 {
		r.log.Info("Review deleted", zap.String("review_id", id.String()))
	}
	return result.RowsAffected(), nil
}

func (r *reviewRepository) queryDetails(ctx context.Context, query string, args ...any) ([]*entity.ReviewDetail, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := []*entity.ReviewDetail{}
	for rows.Next() {
		review, err := scanReviewDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, review)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review rows: %w", err)
	}
	return reviews, nil
}

func scanReviewDetail(row pgx.Row) (*entity.ReviewDetail, error) {
	var review entity.ReviewDetail
	err := row.Scan(
		&review.ID,
		&review.UserID,
		&review.MovieID,
		&review.Content,
		&review.Quality,
		&review.Fun,
		&review.CreatedAt,
		&review.UpdatedAt,
		&review.AuthorEmail,
		&review.AuthorName,
		&review.MovieTitle,
	)
	if err != nil {
		return nil, err
	}
	return &review, nil
}
