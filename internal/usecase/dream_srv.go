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

// MaxSampleSize bounds count on the HTTP and CLI surfaces.
const MaxSampleSize = 50

type DreamService interface {
	GetUserDreams(ctx context.Context, userID uuid.UUID) ([]entity.Dream, error)
	// GetRandomDream returns nil, nil when no dream by another user exists.
	GetRandomDream(ctx context.Context, userID uuid.UUID) (*entity.Dream, error)
	GetRandomDreams(ctx context.Context, userID uuid.UUID, count int) ([]entity.Dream, error)
	GetDreamWithReviews(ctx context.Context, dreamID int64) (*entity.DreamWithReviews, error)
	GetDreamsWithReviews(ctx context.Context, userID uuid.UUID, count int) ([]entity.DreamWithReviews, error)

	CreateDream(ctx context.Context, userID uuid.UUID, req *request.CreateDreamRequest) (*entity.Dream, error)
	UpdateDream(ctx context.Context, dreamID int64, req *request.UpdateDreamRequest) (*entity.Dream, error)
	DeleteDream(ctx context.Context, dreamID int64) error
}

type dreamService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewDreamService(repo *repository.Repository, log *zap.Logger) DreamService {
	return &dreamService{
		repo: repo,
		log:  log.With(zap.String("service", "dream")),
	}
}

func (s *dreamService) GetUserDreams(ctx context.Context, userID uuid.UUID) ([]entity.Dream, error) {
	dreams, err := s.repo.Dream.FindByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user dreams: %w", err)
	}

	s.log.Debug("User dreams retrieved",
		zap.String("user_id", userID.String()),
		zap.Int("count", len(dreams)),
	)
	return dreams, nil
}

func (s *dreamService) GetRandomDream(ctx context.Context, userID uuid.UUID) (*entity.Dream, error) {
	dreams, err := s.GetRandomDreams(ctx, userID, 1)
	if err != nil {
		return nil, err
	}
	if len(dreams) == 0 {
		return nil, nil
	}
	return &dreams[0], nil
}

func (s *dreamService) GetRandomDreams(ctx context.Context, userID uuid.UUID, count int) ([]entity.Dream, error) {
	if count <= 0 {
		return []entity.Dream{}, nil
	}

	dreams, err := s.repo.Dream.SampleExcludingOwner(ctx, userID, count)
	if err != nil {
		return nil, fmt.Errorf("get random dreams: %w", err)
	}

	s.log.Debug("Random dreams retrieved",
		zap.String("user_id", userID.String()),
		zap.Int("requested", count),
		zap.Int("count", len(dreams)),
	)
	return dreams, nil
}

func (s *dreamService) GetDreamWithReviews(ctx context.Context, dreamID int64) (*entity.DreamWithReviews, error) {
	dream, err := s.repo.Dream.FindWithReviews(ctx, dreamID)
	if err != nil {
		return nil, fmt.Errorf("get dream %d with reviews: %w", dreamID, err)
	}
	return dream, nil
}

func (s *dreamService) GetDreamsWithReviews(ctx context.Context, userID uuid.UUID, count int) ([]entity.DreamWithReviews, error) {
	if count <= 0 {
		return []entity.DreamWithReviews{}, nil
	}

	dreams, err := s.repo.Dream.SampleWithReviews(ctx, userID, count)
	if err != nil {
		return nil, fmt.Errorf("get dreams with reviews: %w", err)
	}
	return dreams, nil
}

func (s *dreamService) CreateDream(ctx context.Context, userID uuid.UUID, req *request.CreateDreamRequest) (*entity.Dream, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Create dream validation failed", zap.Error(err))
		return nil, err
	}

	dream, err := s.repo.Dream.Create(ctx, &entity.Dream{
		Owned:   entity.Owned{CreatedBy: userID},
		Title:   req.Title,
		Content: req.Content,
		Tags:    req.Tags,
	})
	if err != nil {
		return nil, fmt.Errorf("create dream: %w", err)
	}

	s.log.Info("Dream created",
		zap.Int64("dream_id", dream.ID),
		zap.String("user_id", userID.String()),
	)
	return dream, nil
}

func (s *dreamService) UpdateDream(ctx context.Context, dreamID int64, req *request.UpdateDreamRequest) (*entity.Dream, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Update dream validation failed", zap.Error(err))
		return nil, err
	}

	// ownership is enforced by the store
	dream, err := s.repo.Dream.Update(ctx, dreamID, req.Title, req.Content)
	if err != nil {
		return nil, fmt.Errorf("update dream %d: %w", dreamID, err)
	}

	s.log.Info("Dream updated", zap.Int64("dream_id", dreamID))
	return dream, nil
}

func (s *dreamService) DeleteDream(ctx context.Context, dreamID int64) error {
	if err := s.repo.Dream.Delete(ctx, dreamID); err != nil {
		return fmt.Errorf("delete dream %d: %w", dreamID, err)
	}
	return nil
}
