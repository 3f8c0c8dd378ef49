package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/pudey33/DreamRate/internal/data/entity"
	"github.com/pudey33/DreamRate/internal/data/repository"
	"github.com/pudey33/DreamRate/internal/dto/request"
	"github.com/pudey33/DreamRate/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var (
	u1 = uuid.MustParse("aaaaaaaa-0000-4000-8000-000000000001")
	u2 = uuid.MustParse("aaaaaaaa-0000-4000-8000-000000000002")
	u3 = uuid.MustParse("aaaaaaaa-0000-4000-8000-000000000003")
)

func as(id uuid.UUID) context.Context {
	return utils.WithCaller(context.Background(), utils.Caller{UserID: id})
}

func newServices(t *testing.T) (*memStore, DreamService, ReviewService) {
	store := newMemStore()
	repo := store.repository()
	log := zaptest.NewLogger(t)
	return store, NewDreamService(repo, log), NewReviewService(repo, log)
}

func TestDreamService_CreateThenListIncludesIt(t *testing.T) {
	_, dreams, _ := newServices(t)

	created, err := dreams.CreateDream(as(u1), u1, &request.CreateDreamRequest{
		Title: "T", Content: "hello", Tags: []string{"lucid"},
	})
	require.NoError(t, err)
	assert.Equal(t, u1, created.CreatedBy)

	mine, err := dreams.GetUserDreams(as(u1), u1)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, created.ID, mine[0].ID)
	assert.Equal(t, []string{"lucid"}, mine[0].Tags)
}

func TestDreamService_RandomDreamsExcludeCaller(t *testing.T) {
	_, dreams, _ := newServices(t)

	for _, title := range []string{"a", "b"} {
		_, err := dreams.CreateDream(as(u1), u1, &request.CreateDreamRequest{Title: title, Content: "c"})
		require.NoError(t, err)
	}
	other, err := dreams.CreateDream(as(u2), u2, &request.CreateDreamRequest{Title: "z", Content: "c"})
	require.NoError(t, err)

	got, err := dreams.GetRandomDreams(as(u1), u1, 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, other.ID, got[0].ID)
	assert.Equal(t, u2, got[0].CreatedBy)
}

func TestDreamService_RandomDreamsCountBounds(t *testing.T) {
	_, dreams, _ := newServices(t)
	for i := 0; i < 6; i++ {
		_, err := dreams.CreateDream(as(u2), u2, &request.CreateDreamRequest{Title: "t", Content: "c"})
		require.NoError(t, err)
	}

	for _, count := range []int{1, 3, 6, 10} {
		got, err := dreams.GetRandomDreams(as(u1), u1, count)
		require.NoError(t, err)
		assert.Len(t, got, min(count, 6))

		seen := map[int64]bool{}
		for _, d := range got {
			assert.False(t, seen[d.ID])
			seen[d.ID] = true
		}
	}
}

func TestDreamService_GetRandomDream(t *testing.T) {
	_, dreams, _ := newServices(t)

	none, err := dreams.GetRandomDream(as(u1), u1)
	require.NoError(t, err)
	assert.Nil(t, none)

	_, err = dreams.CreateDream(as(u1), u1, &request.CreateDreamRequest{Title: "mine", Content: "c"})
	require.NoError(t, err)
	none, err = dreams.GetRandomDream(as(u1), u1)
	require.NoError(t, err)
	assert.Nil(t, none, "own dreams are never eligible")

	theirs, err := dreams.CreateDream(as(u2), u2, &request.CreateDreamRequest{Title: "theirs", Content: "c"})
	require.NoError(t, err)
	got, err := dreams.GetRandomDream(as(u1), u1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, theirs.ID, got.ID)
}

type mockDreams struct {
	mock.Mock
	repository.DreamRepository
}

func (m *mockDreams) SampleExcludingOwner(ctx context.Context, userID uuid.UUID, count int) ([]entity.Dream, error) {
	args := m.Called(ctx, userID, count)
	dreams, _ := args.Get(0).([]entity.Dream)
	return dreams, args.Error(1)
}

func TestDreamService_NonPositiveCountSkipsStore(t *testing.T) {
	repo := &mockDreams{}
	svc := NewDreamService(&repository.Repository{Dream: repo}, zaptest.NewLogger(t))

	got, err := svc.GetRandomDreams(context.Background(), u1, 0)
	require.NoError(t, err)
	assert.Empty(t, got)

	withReviews, err := svc.GetDreamsWithReviews(context.Background(), u1, -3)
	require.NoError(t, err)
	assert.Empty(t, withReviews)

	repo.AssertNotCalled(t, "SampleExcludingOwner", mock.Anything, mock.Anything, mock.Anything)
}

func TestDreamService_StoreErrorsKeepTheirKind(t *testing.T) {
	repo := &mockDreams{}
	svc := NewDreamService(&repository.Repository{Dream: repo}, zaptest.NewLogger(t))

	transport := &repository.StoreError{Op: "sample dreams", Kind: repository.ErrTransport, Err: errors.New("dial tcp")}
	repo.On("SampleExcludingOwner", mock.Anything, u1, 1).Return(nil, transport)

	got, err := svc.GetRandomDream(context.Background(), u1)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, repository.ErrTransport)
	repo.AssertExpectations(t)
}

func TestDreamService_Validation(t *testing.T) {
	store, dreams, _ := newServices(t)

	tests := []struct {
		name  string
		req   request.CreateDreamRequest
		field string
	}{
		{"empty title", request.CreateDreamRequest{Content: "c"}, "title"},
		{"long title", request.CreateDreamRequest{Title: strings.Repeat("x", 201), Content: "c"}, "title"},
		{"empty content", request.CreateDreamRequest{Title: "t"}, "content"},
		{"too many tags", request.CreateDreamRequest{Title: "t", Content: "c", Tags: make([]string, 11)}, "tags"},
		{"empty tag", request.CreateDreamRequest{Title: "t", Content: "c", Tags: []string{""}}, "tags[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := dreams.CreateDream(as(u1), u1, &tt.req)
			assert.ErrorIs(t, err, ErrValidation)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.field)
		})
	}

	assert.Zero(t, store.calls, "rejected input never reaches the store")
}

func TestDreamService_UpdateThenRead(t *testing.T) {
	_, dreams, _ := newServices(t)
	created, err := dreams.CreateDream(as(u1), u1, &request.CreateDreamRequest{Title: "old", Content: "old"})
	require.NoError(t, err)

	_, err = dreams.UpdateDream(as(u1), created.ID, &request.UpdateDreamRequest{Title: "new", Content: "body"})
	require.NoError(t, err)

	got, err := dreams.GetDreamWithReviews(as(u1), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "new", got.Title)
	assert.Equal(t, "body", got.Content)
}

func TestDreamService_UpdateOthersDreamIsNotFound(t *testing.T) {
	_, dreams, _ := newServices(t)
	created, err := dreams.CreateDream(as(u1), u1, &request.CreateDreamRequest{Title: "t", Content: "c"})
	require.NoError(t, err)

	_, err = dreams.UpdateDream(as(u2), created.ID, &request.UpdateDreamRequest{Title: "x", Content: "y"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDreamService_DeleteThenGetIsNotFound(t *testing.T) {
	_, dreams, _ := newServices(t)
	created, err := dreams.CreateDream(as(u1), u1, &request.CreateDreamRequest{Title: "t", Content: "c"})
	require.NoError(t, err)

	require.NoError(t, dreams.DeleteDream(as(u1), created.ID))

	_, err = dreams.GetDreamWithReviews(as(u1), created.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assert.NoError(t, dreams.DeleteDream(as(u1), created.ID), "deleting a missing id succeeds")
}

func TestDreamService_DreamsWithReviewsMatchDreamID(t *testing.T) {
	_, dreams, reviews := newServices(t)
	d1, err := dreams.CreateDream(as(u2), u2, &request.CreateDreamRequest{Title: "a", Content: "c"})
	require.NoError(t, err)
	d2, err := dreams.CreateDream(as(u3), u3, &request.CreateDreamRequest{Title: "b", Content: "c"})
	require.NoError(t, err)

	for _, d := range []*entity.Dream{d1, d1, d2} {
		_, err := reviews.CreateReview(as(u1), u1, &request.CreateReviewRequest{DreamID: d.ID, OverallRating: 3})
		require.NoError(t, err)
	}

	got, err := dreams.GetDreamsWithReviews(as(u1), u1, 5)
	require.NoError(t, err)
	require.Len(t, got, 2)
	total := 0
	for _, d := range got {
		for _, rv := range d.Reviews {
			assert.Equal(t, d.ID, rv.DreamID)
		}
		total += len(d.Reviews)
	}
	assert.Equal(t, 3, total)
}
