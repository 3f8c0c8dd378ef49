package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pudey33/DreamRate/internal/data/entity"
	"github.com/pudey33/DreamRate/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) (*entity.Review, error)
	FindByDream(ctx context.Context, dreamID int64) ([]entity.Review, error)
	FindByOwner(ctx context.Context, userID uuid.UUID) ([]entity.ReviewWithDream, error)
	// Update replaces the body and all four ratings of review.ID.
	Update(ctx context.Context, review *entity.Review) (*entity.Review, error)
	Delete(ctx context.Context, id int64) error
}

const reviewColumns = `r.id, r.created_at, r.created_by, r.dream_id, r.review,
		r.overall_rating, r.ethics_rating, r.creativity_rating, r.writing_rating`

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

func scanReview(row scanner, extra ...any) (entity.Review, error) {
	var rv entity.Review
	dest := append([]any{
		&rv.ID,
		&rv.CreatedAt,
		&rv.CreatedBy,
		&rv.DreamID,
		&rv.Body,
		&rv.OverallRating,
		&rv.EthicsRating,
		&rv.CreativityRating,
		&rv.WritingRating,
	}, extra...)
	err := row.Scan(dest...)
	return rv, err
}

func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) (*entity.Review, error) {
	query := `
		INSERT INTO reviews AS r (created_by, dream_id, review, overall_rating,
		                          ethics_rating, creativity_rating, writing_rating)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + reviewColumns

	var created entity.Review
	err := database.WithUserClaims(ctx, r.db, func(q database.Querier) error {
		var err error
		created, err = scanReview(q.QueryRow(ctx, query,
			review.CreatedBy,
			review.DreamID,
			review.Body,
			review.OverallRating,
			review.EthicsRating,
			review.CreativityRating,
			review.WritingRating,
		))
		return err
	})
	if err != nil {
		r.log.Error("Failed to create review",
			zap.Error(err),
			zap.String("user_id", review.CreatedBy.String()),
			zap.Int64("dream_id", review.DreamID),
		)
		return nil, fromPgx("create review", err)
	}

	return &created, nil
}

func (r *reviewRepository) FindByDream(ctx context.Context, dreamID int64) ([]entity.Review, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews r
		WHERE r.dream_id = $1
		ORDER BY r.created_at DESC
	`

	reviews := []entity.Review{}
	err := database.WithUserClaims(ctx, r.db, func(q database.Querier) error {
		rows, err := q.Query(ctx, query, dreamID)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			rv, err := scanReview(rows)
			if err != nil {
				return fmt.Errorf("scan review row: %w", err)
			}
			reviews = append(reviews, rv)
		}
		return rows.Err()
	})
	if err != nil {
		r.log.Error("Failed to find reviews by dream",
			zap.Error(err),
			zap.Int64("dream_id", dreamID),
		)
		return nil, fromPgx("find reviews by dream", err)
	}

	return reviews, nil
}

func (r *reviewRepository) FindByOwner(ctx context.Context, userID uuid.UUID) ([]entity.ReviewWithDream, error) {
	query := `
		SELECT ` + reviewColumns + `, row_to_json(d)
		FROM reviews r
		LEFT JOIN dreams d ON d.id = r.dream_id
		WHERE r.created_by = $1
		ORDER BY r.created_at DESC
	`

	reviews := []entity.ReviewWithDream{}
	err := database.WithUserClaims(ctx, r.db, func(q database.Querier) error {
		rows, err := q.Query(ctx, query, userID)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var raw []byte
			rv, err := scanReview(rows, &raw)
			if err != nil {
				return fmt.Errorf("scan review row: %w", err)
			}

			item := entity.ReviewWithDream{Review: rv}
			if len(raw) > 0 && string(raw) != "null" {
				item.Dream = &entity.Dream{}
				if err := json.Unmarshal(raw, item.Dream); err != nil {
					return fmt.Errorf("decode parent dream of review %d: %w", rv.ID, err)
				}
			}
			reviews = append(reviews, item)
		}
		return rows.Err()
	})
	if err != nil {
		r.log.Error("Failed to find reviews by owner",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fromPgx("find reviews by owner", err)
	}

	return reviews, nil
}

func (r *reviewRepository) Update(ctx context.Context, review *entity.Review) (*entity.Review, error) {
	query := `
		UPDATE reviews AS r
		SET review = $2,
		    overall_rating = $3,
		    ethics_rating = $4,
		    creativity_rating = $5,
		    writing_rating = $6
		WHERE r.id = $1
		RETURNING ` + reviewColumns

	var updated entity.Review
	err := database.WithUserClaims(ctx, r.db, func(q database.Querier) error {
		var err error
		updated, err = scanReview(q.QueryRow(ctx, query,
			review.ID,
			review.Body,
			review.OverallRating,
			review.EthicsRating,
			review.CreativityRating,
			review.WritingRating,
		))
		return err
	})
	if err != nil {
		serr := fromPgx("update review", err)
		if !errors.Is(serr, ErrNotFound) {
			r.log.Error("Failed to update review",
				zap.Error(err),
				zap.Int64("review_id", review.ID),
			)
		}
		return nil, serr
	}

	return &updated, nil
}

// Delete succeeds whether or not a row with id exists.
func (r *reviewRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM reviews WHERE id = $1`

	err := database.WithUserClaims(ctx, r.db, func(q database.Querier) error {
		_, err := q.Exec(ctx, query, id)
		return err
	})
	if err != nil {
		r.log.Error("Failed to delete review",
			zap.Error(err),
			zap.Int64("review_id", id),
		)
		return fromPgx("delete review", err)
	}

	r.log.Info("Review deleted", zap.Int64("review_id", id))
	return nil
}
