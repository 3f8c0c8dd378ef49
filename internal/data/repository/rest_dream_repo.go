package repository

import (
	"context"
	"math/rand/v2"

	"github.com/pudey33/DreamRate/internal/data/entity"
	"github.com/pudey33/DreamRate/pkg/utils"

	"github.com/google/uuid"
	"github.com/supabase-community/postgrest-go"
	"go.uber.org/zap"
)

type dreamInsert struct {
	CreatedBy uuid.UUID `json:"created_by"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
}

type dreamPatch struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type restDreamRepository struct {
	db  Table
	rng *rand.Rand
	log *zap.Logger
}

// NewRESTDreamRepository reads and writes dreams through PostgREST. A nil rng uses the
// global random source.
func NewRESTDreamRepository(db Table, rng *rand.Rand, log *zap.Logger) DreamRepository {
	return &restDreamRepository{
		db:  db,
		rng: rng,
		log: log.With(zap.String("repository", "rest_dream")),
	}
}

func (r *restDreamRepository) Create(ctx context.Context, dream *entity.Dream) (*entity.Dream, error) {
	if err := ctx.Err(); err != nil {
		return nil, fromREST("create dream", err)
	}

	row := dreamInsert{
		CreatedBy: dream.CreatedBy,
		Title:     dream.Title,
		Content:   dream.Content,
		Tags:      dream.Tags,
	}

	var created entity.Dream
	_, err := r.db.From(ctx, dreamsTable).
		Insert(row, false, "", "representation", "").
		Single().
		ExecuteTo(&created)
	if err != nil {
		r.log.Error("Failed to create dream",
			zap.Error(err),
			zap.String("user_id", dream.CreatedBy.String()),
		)
		return nil, fromREST("create dream", err)
	}

	return &created, nil
}

func (r *restDreamRepository) FindByOwner(ctx context.Context, userID uuid.UUID) ([]entity.Dream, error) {
	if err := ctx.Err(); err != nil {
		return nil, fromREST("find dreams by owner", err)
	}

	dreams := []entity.Dream{}
	_, err := r.db.From(ctx, dreamsTable).
		Select("*", "", false).
		Eq("created_by", userID.String()).
		Order("created_at", newestFirst).
		ExecuteTo(&dreams)
	if err != nil {
		r.log.Error("Failed to find dreams by owner",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fromREST("find dreams by owner", err)
	}

	return dreams, nil
}

func (r *restDreamRepository) FindWithReviews(ctx context.Context, id int64) (*entity.DreamWithReviews, error) {
	if err := ctx.Err(); err != nil {
		return nil, fromREST("find dream with reviews", err)
	}

	var dream entity.DreamWithReviews
	_, err := r.db.From(ctx, dreamsTable).
		Select("*, reviews(*)", "", false).
		Eq("id", formatID(id)).
		Order("created_at", &postgrest.OrderOpts{Ascending: false, ForeignTable: reviewsTable}).
		Single().
		ExecuteTo(&dream)
	if err != nil {
		serr := fromREST("find dream with reviews", err)
		r.log.Warn("Failed to find dream with reviews",
			zap.Error(err),
			zap.Int64("dream_id", id),
		)
		return nil, serr
	}

	if dream.Reviews == nil {
		dream.Reviews = []entity.Review{}
	}
	return &dream, nil
}

// sampleIDs pages the ids of every dream not created by userID through a reservoir.
// The server may cap a page below samplePageSize (max-rows), so paging advances by
// the rows actually returned and ends only on an empty page.
func (r *restDreamRepository) sampleIDs(ctx context.Context, userID uuid.UUID, count int) ([]int64, error) {
	sampler := utils.NewReservoir[int64](count, r.rng)

	for from := 0; ; {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var page []struct {
			ID int64 `json:"id"`
		}
		_, err := r.db.From(ctx, dreamsTable).
			Select("id", "", false).
			Neq("created_by", userID.String()).
			Order("id", byID).
			Range(from, from+samplePageSize-1, "").
			ExecuteTo(&page)
		if err != nil {
			return nil, err
		}

		if len(page) == 0 {
			break
		}
		for _, row := range page {
			sampler.Offer(row.ID)
		}
		from += len(page)
	}

	r.log.Debug("Sampled dream ids",
		zap.Int("eligible", sampler.Seen()),
		zap.Int("count", count),
	)
	return sampler.Items(), nil
}

// fetchByIDs loads the rows selected by columns and returns them in the order of ids.
func fetchByIDs[T any](ctx context.Context, db Table, columns string, ids []int64, key func(T) int64, order *postgrest.OrderOpts) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	query := db.From(ctx, dreamsTable).
		Select(columns, "", false).
		In("id", formatIDs(ids))
	if order != nil {
		query = query.Order("created_at", order)
	}

	var rows []T
	if _, err := query.ExecuteTo(&rows); err != nil {
		return nil, err
	}

	byKey := make(map[int64]T, len(rows))
	for _, row := range rows {
		byKey[key(row)] = row
	}

	// rows deleted between the two round trips are skipped
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		if row, ok := byKey[id]; ok {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *restDreamRepository) SampleExcludingOwner(ctx context.Context, userID uuid.UUID, count int) ([]entity.Dream, error) {
	if count <= 0 {
		return []entity.Dream{}, nil
	}

	ids, err := r.sampleIDs(ctx, userID, count)
	if err == nil && len(ids) == 0 {
		return []entity.Dream{}, nil
	}
	var dreams []entity.Dream
	if err == nil {
		dreams, err = fetchByIDs(ctx, r.db, "*", ids, func(d entity.Dream) int64 { return d.ID }, nil)
	}
	if err != nil {
		r.log.Error("Failed to sample dreams",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.Int("count", count),
		)
		return nil, fromREST("sample dreams", err)
	}

	return dreams, nil
}

func (r *restDreamRepository) SampleWithReviews(ctx context.Context, userID uuid.UUID, count int) ([]entity.DreamWithReviews, error) {
	if count <= 0 {
		return []entity.DreamWithReviews{}, nil
	}

	ids, err := r.sampleIDs(ctx, userID, count)
	if err == nil && len(ids) == 0 {
		return []entity.DreamWithReviews{}, nil
	}
	var dreams []entity.DreamWithReviews
	if err == nil {
		dreams, err = fetchByIDs(ctx, r.db, "*, reviews(*)", ids,
			func(d entity.DreamWithReviews) int64 { return d.ID },
			&postgrest.OrderOpts{Ascending: false, ForeignTable: reviewsTable})
	}
	if err != nil {
		r.log.Error("Failed to sample dreams with reviews",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.Int("count", count),
		)
		return nil, fromREST("sample dreams with reviews", err)
	}

	for i := range dreams {
		if dreams[i].Reviews == nil {
			dreams[i].Reviews = []entity.Review{}
		}
	}
	return dreams, nil
}

func (r *restDreamRepository) Update(ctx context.Context, id int64, title, content string) (*entity.Dream, error) {
	if err := ctx.Err(); err != nil {
		return nil, fromREST("update dream", err)
	}

	var updated entity.Dream
	_, err := r.db.From(ctx, dreamsTable).
		Update(dreamPatch{Title: title, Content: content}, "representation", "").
		Eq("id", formatID(id)).
		Single().
		ExecuteTo(&updated)
	if err != nil {
		r.log.Warn("Failed to update dream",
			zap.Error(err),
			zap.Int64("dream_id", id),
		)
		return nil, fromREST("update dream", err)
	}

	return &updated, nil
}

// Delete succeeds whether or not a row with id exists.
func (r *restDreamRepository) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return fromREST("delete dream", err)
	}

	_, _, err := r.db.From(ctx, dreamsTable).
		Delete("minimal", "").
		Eq("id", formatID(id)).
		Execute()
	if err != nil {
		r.log.Error("Failed to delete dream",
			zap.Error(err),
			zap.Int64("dream_id", id),
		)
		return fromREST("delete dream", err)
	}

	r.log.Info("Dream deleted", zap.Int64("dream_id", id))
	return nil
}
