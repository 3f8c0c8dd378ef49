package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pudey33/DreamRate/pkg/utils"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the statement surface shared by the pool and a transaction.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PgxIface abstracts the pool so repositories can run against pgxmock.
type PgxIface interface {
	Querier
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

type DB struct {
	pool *pgxpool.Pool
}

func (db *DB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return db.pool.Query(ctx, sql, args...)
}

func (db *DB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return db.pool.QueryRow(ctx, sql, args...)
}

func (db *DB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return db.pool.Exec(ctx, sql, args...)
}

func (db *DB) Begin(ctx context.Context) (pgx.Tx, error) {
	return db.pool.Begin(ctx)
}

func (db *DB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

func (db *DB) Close() {
	db.pool.Close()
}

// InitDB opens a pool on config.URL and pings it before returning.
func InitDB(config utils.DatabaseConfig) (PgxIface, error) {
	poolConfig, err := pgxpool.ParseConfig(config.URL)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}

	if config.MaxConns > 0 {
		poolConfig.MaxConns = config.MaxConns
	}
	poolConfig.MinConns = min(5, poolConfig.MaxConns)
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 5 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute
	poolConfig.ConnConfig.ConnectTimeout = 5 * time.Second

	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database failed: %w", err)
	}

	return &DB{pool: pool}, nil
}

const (
	setClaimsSQL = `SELECT set_config('request.jwt.claims', $1, true)`
	setRoleSQL   = `SET LOCAL ROLE authenticated`
)

// WithUserClaims runs fn as the caller found in ctx. When there is one, fn runs in a
// transaction that carries the caller's JWT claims and the authenticated role, so
// row-level security policies using auth.uid() apply. Without a caller fn runs on db.
func WithUserClaims(ctx context.Context, db PgxIface, fn func(q Querier) error) error {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return fn(db)
	}

	role, ok := utils.GetRoleFromContext(ctx)
	if !ok {
		role = "authenticated"
	}
	claims, err := json.Marshal(map[string]string{"sub": userID.String(), "role": role})
	if err != nil {
		return fmt.Errorf("encode claims: %w", err)
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := runInTx(ctx, tx, string(claims), fn); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func runInTx(ctx context.Context, tx pgx.Tx, claims string, fn func(q Querier) error) error {
	if _, err := tx.Exec(ctx, setClaimsSQL, claims); err != nil {
		return fmt.Errorf("set request claims: %w", err)
	}
	if _, err := tx.Exec(ctx, setRoleSQL); err != nil {
		return fmt.Errorf("set role: %w", err)
	}
	return fn(tx)
}
