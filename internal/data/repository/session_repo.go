package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pudey33/DreamRate/internal/data/entity"

	"go.uber.org/zap"
)

// SessionRepository persists the signed-in client's session between runs.
type SessionRepository interface {
	// Load returns nil, nil when nothing is stored.
	Load(ctx context.Context) (*entity.AuthSession, error)
	Save(ctx context.Context, session *entity.AuthSession) error
	Clear(ctx context.Context) error
}

type fileSessionRepository struct {
	path string
	log  *zap.Logger
}

// NewSessionRepository stores the session as JSON at path, readable only by the owner.
func NewSessionRepository(path string, log *zap.Logger) SessionRepository {
	return &fileSessionRepository{
		path: path,
		log:  log.With(zap.String("repository", "session")),
	}
}

func (r *fileSessionRepository) Load(ctx context.Context) (*entity.AuthSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to read session file", zap.Error(err), zap.String("path", r.path))
		return nil, fmt.Errorf("read session file %s: %w", r.path, err)
	}

	var session entity.AuthSession
	if err := json.Unmarshal(data, &session); err != nil {
		r.log.Warn("Discarding unreadable session file", zap.Error(err), zap.String("path", r.path))
		return nil, nil
	}
	if session.AccessToken == "" {
		return nil, nil
	}

	return &session, nil
}

func (r *fileSessionRepository) Save(ctx context.Context, session *entity.AuthSession) error {
	if session == nil {
		return r.Clear(ctx)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".session-*")
	if err != nil {
		return fmt.Errorf("create session file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod session file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close session file: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("replace session file: %w", err)
	}

	r.log.Debug("Session saved", zap.String("user_id", session.User.ID.String()))
	return nil
}

func (r *fileSessionRepository) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.Remove(r.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}

	r.log.Debug("Session cleared")
	return nil
}
