package usecase

import (
	"github.com/pudey33/DreamRate/internal/data/repository"

	"github.com/supabase-community/gotrue-go"
	"go.uber.org/zap"
)

type Service struct {
	Auth   AuthService
	Dream  DreamService
	Review ReviewService
}

func NewService(repo *repository.Repository, auth gotrue.Client, log *zap.Logger) *Service {
	return &Service{
		Auth:   NewAuthService(auth, log),
		Dream:  NewDreamService(repo, log),
		Review: NewReviewService(repo, log),
	}
}
