package repository

import (
	"context"

	"github.com/pudey33/DreamRate/internal/data/entity"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type reviewInsert struct {
	CreatedBy        uuid.UUID `json:"created_by"`
	DreamID          int64     `json:"dream_id"`
	Body             string    `json:"review"`
	OverallRating    int       `json:"overall_rating"`
	EthicsRating     *int      `json:"ethics_rating"`
	CreativityRating *int      `json:"creativity_rating"`
	WritingRating    *int      `json:"writing_rating"`
}

type reviewPatch struct {
	Body             string `json:"review"`
	OverallRating    int    `json:"overall_rating"`
	EthicsRating     *int   `json:"ethics_rating"`
	CreativityRating *int   `json:"creativity_rating"`
	WritingRating    *int   `json:"writing_rating"`
}

type restReviewRepository struct {
	db  Table
	log *zap.Logger
}

func NewRESTReviewRepository(db Table, log *zap.Logger) ReviewRepository {
	return &restReviewRepository{
		db:  db,
		log: log.With(zap.String("repository", "rest_review")),
	}
}

func (r *restReviewRepository) Create(ctx context.Context, review *entity.Review) (*entity.Review, error) {
	if err := ctx.Err(); err != nil {
		return nil, fromREST("create review", err)
	}

	row := reviewInsert{
		CreatedBy:        review.CreatedBy,
		DreamID:          review.DreamID,
		Body:             review.Body,
		OverallRating:    review.OverallRating,
		EthicsRating:     review.EthicsRating,
		CreativityRating: review.CreativityRating,
		WritingRating:    review.WritingRating,
	}

	var created entity.Review
	_, err := r.db.From(ctx, reviewsTable).
		Insert(row, false, "", "representation", "").
		Single().
		ExecuteTo(&created)
	if err != nil {
		r.log.Error("Failed to create review",
			zap.Error(err),
			zap.String("user_id", review.CreatedBy.String()),
			zap.Int64("dream_id", review.DreamID),
		)
		return nil, fromREST("create review", err)
	}

	return &created, nil
}

func (r *restReviewRepository) FindByDream(ctx context.Context, dreamID int64) ([]entity.Review, error) {
	if err := ctx.Err(); err != nil {
		return nil, fromREST("find reviews by dream", err)
	}

	reviews := []entity.Review{}
	_, err := r.db.From(ctx, reviewsTable).
		Select("*", "", false).
		Eq("dream_id", formatID(dreamID)).
		Order("created_at", newestFirst).
		ExecuteTo(&reviews)
	if err != nil {
		r.log.Error("Failed to find reviews by dream",
			zap.Error(err),
			zap.Int64("dream_id", dreamID),
		)
		return nil, fromREST("find reviews by dream", err)
	}

	return reviews, nil
}

func (r *restReviewRepository) FindByOwner(ctx context.Context, userID uuid.UUID) ([]entity.ReviewWithDream, error) {
	if err := ctx.Err(); err != nil {
		return nil, fromREST("find reviews by owner", err)
	}

	reviews := []entity.ReviewWithDream{}
	_, err := r.db.From(ctx, reviewsTable).
		Select("*, dreams(*)", "", false).
		Eq("created_by", userID.String()).
		Order("created_at", newestFirst).
		ExecuteTo(&reviews)
	if err != nil {
		r.log.Error("Failed to find reviews by owner",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fromREST("find reviews by owner", err)
	}

	return reviews, nil
}

func (r *restReviewRepository) Update(ctx context.Context, review *entity.Review) (*entity.Review, error) {
	if err := ctx.Err(); err != nil {
		return nil, fromREST("update review", err)
	}

	patch := reviewPatch{
		Body:             review.Body,
		OverallRating:    review.OverallRating,
		EthicsRating:     review.EthicsRating,
		CreativityRating: review.CreativityRating,
		WritingRating:    review.WritingRating,
	}

	var updated entity.Review
	_, err := r.db.From(ctx, reviewsTable).
		Update(patch, "representation", "").
		Eq("id", formatID(review.ID)).
		Single().
		ExecuteTo(&updated)
	if err != nil {
		r.log.Warn("Failed to update review",
			zap.Error(err),
			zap.Int64("review_id", review.ID),
		)
		return nil, fromREST("update review", err)
	}

	return &updated, nil
}

// Delete succeeds whether or not a row with id exists.
func (r *restReviewRepository) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return fromREST("delete review", err)
	}

	_, _, err := r.db.From(ctx, reviewsTable).
		Delete("minimal", "").
		Eq("id", formatID(id)).
		Execute()
	if err != nil {
		r.log.Error("Failed to delete review",
			zap.Error(err),
			zap.Int64("review_id", id),
		)
		return fromREST("delete review", err)
	}

	r.log.Info("Review deleted", zap.Int64("review_id", id))
	return nil
}
