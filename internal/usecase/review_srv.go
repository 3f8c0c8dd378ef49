package usecase

import (
	"context"
	"fmt"

	"github.com/pudey33/DreamRate/internal/data/entity"
	"github.com/pudey33/DreamRate/internal/data/repository"
	"github.com/pudey33/DreamRate/internal/dto/request"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReviewService interface {
	GetReviewsForDream(ctx context.Context, dreamID int64) ([]entity.Review, error)
	GetUserReviews(ctx context.Context, userID uuid.UUID) ([]entity.ReviewWithDream, error)

	CreateReview(ctx context.Context, userID uuid.UUID, req *request.CreateReviewRequest) (*entity.Review, error)
	UpdateReview(ctx context.Context, reviewID int64, req *request.UpdateReviewRequest) (*entity.Review, error)
	DeleteReview(ctx context.Context, reviewID int64) error
}

type reviewService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewReviewService(repo *repository.Repository, log *zap.Logger) ReviewService {
	return &reviewService{
		repo: repo,
		log:  log.With(zap.String("service", "review")),
	}
}

func (s *reviewService) GetReviewsForDream(ctx context.Context, dreamID int64) ([]entity.Review, error) {
	reviews, err := s.repo.Review.FindByDream(ctx, dreamID)
	if err != nil {
		return nil, fmt.Errorf("get reviews for dream %d: %w", dreamID, err)
	}
	return reviews, nil
}

func (s *reviewService) GetUserReviews(ctx context.Context, userID uuid.UUID) ([]entity.ReviewWithDream, error) {
	reviews, err := s.repo.Review.FindByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user reviews: %w", err)
	}

	s.log.Debug("User reviews retrieved",
		zap.String("user_id", userID.String()),
		zap.Int("count", len(reviews)),
	)
	return reviews, nil
}

func (s *reviewService) CreateReview(ctx context.Context, userID uuid.UUID, req *request.CreateReviewRequest) (*entity.Review, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Create review validation failed", zap.Error(err))
		return nil, err
	}

	review, err := s.repo.Review.Create(ctx, &entity.Review{
		Owned:            entity.Owned{CreatedBy: userID},
		DreamID:          req.DreamID,
		Body:             req.Review,
		OverallRating:    req.OverallRating,
		EthicsRating:     req.EthicsRating,
		CreativityRating: req.CreativityRating,
		WritingRating:    req.WritingRating,
	})
	if err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	s.log.Info("Review created",
		zap.Int64("review_id", review.ID),
		zap.Int64("dream_id", review.DreamID),
		zap.String("user_id", userID.String()),
		zap.Int("overall_rating", review.OverallRating),
	)
	return review, nil
}

func (s *reviewService) UpdateReview(ctx context.Context, reviewID int64, req *request.UpdateReviewRequest) (*entity.Review, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Update review validation failed", zap.Error(err))
		return nil, err
	}

	review, err := s.repo.Review.Update(ctx, &entity.Review{
		Owned:            entity.Owned{ID: reviewID},
		Body:             req.Review,
		OverallRating:    req.OverallRating,
		EthicsRating:     req.EthicsRating,
		CreativityRating: req.CreativityRating,
		WritingRating:    req.WritingRating,
	})
	if err != nil {
		return nil, fmt.Errorf("update review %d: %w", reviewID, err)
	}

	s.log.Info("Review updated", zap.Int64("review_id", reviewID))
	return review, nil
}

func (s *reviewService) DeleteReview(ctx context.Context, reviewID int64) error {
	if err := s.repo.Review.Delete(ctx, reviewID); err != nil {
		return fmt.Errorf("delete review %d: %w", reviewID, err)
	}
	return nil
}
