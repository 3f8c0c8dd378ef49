package adaptor

import (
	"context"

	"github.com/pudey33/DreamRate/internal/data/entity"
	"github.com/pudey33/DreamRate/internal/dto/request"
	"github.com/pudey33/DreamRate/internal/dto/response"
	"github.com/pudey33/DreamRate/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockDreamService struct{ mock.Mock }

var _ usecase.DreamService = (*mockDreamService)(nil)

func (m *mockDreamService) GetUserDreams(ctx context.Context, userID uuid.UUID) ([]entity.Dream, error) {
	args := m.Called(ctx, userID)
	dreams, _ := args.Get(0).([]entity.Dream)
	return dreams, args.Error(1)
}

func (m *mockDreamService) GetRandomDream(ctx context.Context, userID uuid.UUID) (*entity.Dream, error) {
	args := m.Called(ctx, userID)
	dream, _ := args.Get(0).(*entity.Dream)
	return dream, args.Error(1)
}

func (m *mockDreamService) GetRandomDreams(ctx context.Context, userID uuid.UUID, count int) ([]entity.Dream, error) {
	args := m.Called(ctx, userID, count)
	dreams, _ := args.Get(0).([]entity.Dream)
	return dreams, args.Error(1)
}

func (m *mockDreamService) GetDreamWithReviews(ctx context.Context, dreamID int64) (*entity.DreamWithReviews, error) {
	args := m.Called(ctx, dreamID)
	dream, _ := args.Get(0).(*entity.DreamWithReviews)
	return dream, args.Error(1)
}

func (m *mockDreamService) GetDreamsWithReviews(ctx context.Context, userID uuid.UUID, count int) ([]entity.DreamWithReviews, error) {
	args := m.Called(ctx, userID, count)
	dreams, _ := args.Get(0).([]entity.DreamWithReviews)
	return dreams, args.Error(1)
}

func (m *mockDreamService) CreateDream(ctx context.Context, userID uuid.UUID, req *request.CreateDreamRequest) (*entity.Dream, error) {
	args := m.Called(ctx, userID, req)
	dream, _ := args.Get(0).(*entity.Dream)
	return dream, args.Error(1)
}

func (m *mockDreamService) UpdateDream(ctx context.Context, dreamID int64, req *request.UpdateDreamRequest) (*entity.Dream, error) {
	args := m.Called(ctx, dreamID, req)
	dream, _ := args.Get(0).(*entity.Dream)
	return dream, args.Error(1)
}

func (m *mockDreamService) DeleteDream(ctx context.Context, dreamID int64) error {
	return m.Called(ctx, dreamID).Error(0)
}

type mockReviewService struct{ mock.Mock }

var _ usecase.ReviewService = (*mockReviewService)(nil)

func (m *mockReviewService) GetReviewsForDream(ctx context.Context, dreamID int64) ([]entity.Review, error) {
	args := m.Called(ctx, dreamID)
	reviews, _ := args.Get(0).([]entity.Review)
	return reviews, args.Error(1)
}

func (m *mockReviewService) GetUserReviews(ctx context.Context, userID uuid.UUID) ([]entity.ReviewWithDream, error) {
	args := m.Called(ctx, userID)
	reviews, _ := args.Get(0).([]entity.ReviewWithDream)
	return reviews, args.Error(1)
}

func (m *mockReviewService) CreateReview(ctx context.Context, userID uuid.UUID, req *request.CreateReviewRequest) (*entity.Review, error) {
	args := m.Called(ctx, userID, req)
	review, _ := args.Get(0).(*entity.Review)
	return review, args.Error(1)
}

func (m *mockReviewService) UpdateReview(ctx context.Context, reviewID int64, req *request.UpdateReviewRequest) (*entity.Review, error) {
	args := m.Called(ctx, reviewID, req)
	review, _ := args.Get(0).(*entity.Review)
	return review, args.Error(1)
}

func (m *mockReviewService) DeleteReview(ctx context.Context, reviewID int64) error {
	return m.Called(ctx, reviewID).Error(0)
}

type mockAuthService struct{ mock.Mock }

var _ usecase.AuthService = (*mockAuthService)(nil)

func (m *mockAuthService) SignUp(ctx context.Context, req *request.SignUpRequest) (*response.AuthResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*response.AuthResponse)
	return resp, args.Error(1)
}

func (m *mockAuthService) SignIn(ctx context.Context, req *request.SignInRequest) (*response.AuthResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*response.AuthResponse)
	return resp, args.Error(1)
}

func (m *mockAuthService) SignOut(ctx context.Context, accessToken string) error {
	return m.Called(ctx, accessToken).Error(0)
}

func (m *mockAuthService) GetUser(ctx context.Context, accessToken string) (*entity.AuthUser, error) {
	args := m.Called(ctx, accessToken)
	user, _ := args.Get(0).(*entity.AuthUser)
	return user, args.Error(1)
}

func (m *mockAuthService) Refresh(ctx context.Context, refreshToken string) (*response.AuthResponse, error) {
	args := m.Called(ctx, refreshToken)
	resp, _ := args.Get(0).(*response.AuthResponse)
	return resp, args.Error(1)
}

func (m *mockAuthService) OnAuthStateChange(fn func(usecase.AuthEvent)) func() {
	return func() {}
}
