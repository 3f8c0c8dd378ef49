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

type DreamRepository interface {
	Create(ctx context.Context, dream *entity.Dream) (*entity.Dream, error)
	FindByOwner(ctx context.Context, userID uuid.UUID) ([]entity.Dream, error)
	FindWithReviews(ctx context.Context, id int64) (*entity.DreamWithReviews, error)
	Update(ctx context.Context, id int64, title, content string) (*entity.Dream, error)
	Delete(ctx context.Context, id int64) error

	// Uniform random samples of dreams not created by userID.
	SampleExcludingOwner(ctx context.Context, userID uuid.UUID, count int) ([]entity.Dream, error)
	SampleWithReviews(ctx context.Context, userID uuid.UUID, count int) ([]entity.DreamWithReviews, error)
}

const (
	dreamColumns = `d.id, d.created_at, d.created_by, d.title, d.content, d.tags`

	// reviews of d as a JSON array, newest first
	nestedReviews = `COALESCE((
			SELECT json_agg(r ORDER BY r.created_at DESC)
			FROM reviews r
			WHERE r.dream_id = d.id
		), '[]'::json)`
)

type scanner interface {
	Scan(dest ...any) error
}

type dreamRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewDreamRepository(db database.PgxIface, log *zap.Logger) DreamRepository {
	return &dreamRepository{
		db:  db,
		log: log.With(zap.String("repository", "dream")),
	}
}

func scanDream(row scanner, extra ...any) (entity.Dream, error) {
	var d entity.Dream
	dest := append([]any{&d.ID, &d.CreatedAt, &d.CreatedBy, &d.Title, &d.Content, &d.Tags}, extra...)
	err := row.Scan(dest...)
	return d, err
}

func scanDreamWithReviews(row scanner) (entity.DreamWithReviews, error) {
	var raw []byte
	d, err := scanDream(row, &raw)
	if err != nil {
		return entity.DreamWithReviews{}, err
	}

	out := entity.DreamWithReviews{Dream: d, Reviews: []entity.Review{}}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out.Reviews); err != nil {
			return entity.DreamWithReviews{}, fmt.Errorf("decode nested reviews of dream %d: %w", d.ID, err)
		}
	}
	return out, nil
}

// tagsParam keeps a nil slice as SQL NULL rather than JSON null.
func tagsParam(tags []string) any {
	if tags == nil {
		return nil
	}
	return tags
}

func (r *dreamRepository) Create(ctx context.Context, dream *entity.Dream) (*entity.Dream, error) {
	query := `
		INSERT INTO dreams AS d (created_by, title, content, tags)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + dreamColumns

	var created entity.Dream
	err := database.WithUserClaims(ctx, r.db, func(q database.Querier) error {
		var err error
		created, err = scanDream(q.QueryRow(ctx, query,
			dream.CreatedBy,
			dream.Title,
			dream.Content,
			tagsParam(dream.Tags),
		))
		return err
	})
	if err != nil {
		r.log.Error("Failed to create dream",
			zap.Error(err),
			zap.String("user_id", dream.CreatedBy.String()),
		)
		return nil, fromPgx("create dream", err)
	}

	return &created, nil
}

func (r *dreamRepository) FindByOwner(ctx context.Context, userID uuid.UUID) ([]entity.Dream, error) {
	query := `
		SELECT ` + dreamColumns + `
		FROM dreams d
		WHERE d.created_by = $1
		ORDER BY d.created_at DESC
	`

	dreams := []entity.Dream{}
	err := database.WithUserClaims(ctx, r.db, func(q database.Querier) error {
		rows, err := q.Query(ctx, query, userID)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			d, err := scanDream(rows)
			if err != nil {
				return fmt.Errorf("scan dream row: %w", err)
			}
			dreams = append(dreams, d)
		}
		return rows.Err()
	})
	if err != nil {
		r.log.Error("Failed to find dreams by owner",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fromPgx("find dreams by owner", err)
	}

	return dreams, nil
}

func (r *dreamRepository) FindWithReviews(ctx context.Context, id int64) (*entity.DreamWithReviews, error) {
	query := `
		SELECT ` + dreamColumns + `, ` + nestedReviews + `
		FROM dreams d
		WHERE d.id = $1
	`

	var dream entity.DreamWithReviews
	err := database.WithUserClaims(ctx, r.db, func(q database.Querier) error {
		var err error
		dream, err = scanDreamWithReviews(q.QueryRow(ctx, query, id))
		return err
	})
	if err != nil {
		serr := fromPgx("find dream with reviews", err)
		if !errors.Is(serr, ErrNotFound) {
			r.log.Error("Failed to find dream with reviews",
				zap.Error(err),
				zap.Int64("dream_id", id),
			)
		}
		return nil, serr
	}

	return &dream, nil
}

func (r *dreamRepository) SampleExcludingOwner(ctx context.Context, userID uuid.UUID, count int) ([]entity.Dream, error) {
	if count <= 0 {
		return []entity.Dream{}, nil
	}

	query := `
		SELECT ` + dreamColumns + `
		FROM dreams d
		WHERE d.created_by <> $1
		ORDER BY random()
		LIMIT $2
	`

	dreams := make([]entity.Dream, 0, count)
	err := database.WithUserClaims(ctx, r.db, func(q database.Querier) error {
		rows, err := q.Query(ctx, query, userID, count)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			d, err := scanDream(rows)
			if err != nil {
				return fmt.Errorf("scan dream row: %w", err)
			}
			dreams = append(dreams, d)
		}
		return rows.Err()
	})
	if err != nil {
		r.log.Error("Failed to sample dreams",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.Int("count", count),
		)
		return nil, fromPgx("sample dreams", err)
	}

	return dreams, nil
}

func (r *dreamRepository) SampleWithReviews(ctx context.Context, userID uuid.UUID, count int) ([]entity.DreamWithReviews, error) {
	if count <= 0 {
		return []entity.DreamWithReviews{}, nil
	}

	query := `
		SELECT ` + dreamColumns + `, ` + nestedReviews + `
		FROM dreams d
		WHERE d.created_by <> $1
		ORDER BY random()
		LIMIT $2
	`

	dreams := make([]entity.DreamWithReviews, 0, count)
	err := database.WithUserClaims(ctx, r.db, func(q database.Querier) error {
		rows, err := q.Query(ctx, query, userID, count)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			d, err := scanDreamWithReviews(rows)
			if err != nil {
				return fmt.Errorf("scan dream row: %w", err)
			}
			dreams = append(dreams, d)
		}
		return rows.Err()
	})
	if err != nil {
		r.log.Error("Failed to sample dreams with reviews",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.Int("count", count),
		)
		return nil, fromPgx("sample dreams with reviews", err)
	}

	return dreams, nil
}

func (r *dreamRepository) Update(ctx context.Context, id int64, title, content string) (*entity.Dream, error) {
	query := `
		UPDATE dreams AS d
		SET title = $2, content = $3
		WHERE d.id = $1
		RETURNING ` + dreamColumns

	var updated entity.Dream
	err := database.WithUserClaims(ctx, r.db, func(q database.Querier) error {
		var err error
		updated, err = scanDream(q.QueryRow(ctx, query, id, title, content))
		return err
	})
	if err != nil {
		serr := fromPgx("update dream", err)
		if !errors.Is(serr, ErrNotFound) {
			r.log.Error("Failed to update dream",
				zap.Error(err),
				zap.Int64("dream_id", id),
			)
		}
		return nil, serr
	}

	return &updated, nil
}

// Delete succeeds whether or not a row with id exists.
func (r *dreamRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM dreams WHERE id = $1`

	err := database.WithUserClaims(ctx, r.db, func(q database.Querier) error {
		_, err := q.Exec(ctx, query, id)
		return err
	})
	if err != nil {
		r.log.Error("Failed to delete dream",
			zap.Error(err),
			zap.Int64("dream_id", id),
		)
		return fromPgx("delete dream", err)
	}

	r.log.Info("Dream deleted", zap.Int64("dream_id", id))
	return nil
}
