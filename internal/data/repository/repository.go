package repository

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/pudey33/DreamRate/pkg/database"
	"github.com/pudey33/DreamRate/pkg/utils"

	"go.uber.org/zap"
)

type Repository struct {
	Dream   DreamRepository
	Review  ReviewRepository
	Session SessionRepository
}

// Stores are the handles repositories are built on. Postgres is needed only by the
// postgres backend.
type Stores struct {
	Gateway     Table
	Postgres    database.PgxIface
	SessionFile string
	Rand        *rand.Rand
}

// NewRepository builds the repositories of the given backend.
func NewRepository(backend string, stores Stores, log *zap.Logger) (*Repository, error) {
	repo := &Repository{
		Session: NewSessionRepository(stores.SessionFile, log),
	}

	switch backend {
	case utils.BackendREST, "":
		if stores.Gateway == nil {
			return nil, errors.New("rest backend needs a gateway")
		}
		repo.Dream = NewRESTDreamRepository(stores.Gateway, stores.Rand, log)
		repo.Review = NewRESTReviewRepository(stores.Gateway, log)
	case utils.BackendPostgres:
		if stores.Postgres == nil {
			return nil, errors.New("postgres backend needs a connection pool")
		}
		repo.Dream = NewDreamRepository(stores.Postgres, log)
		repo.Review = NewReviewRepository(stores.Postgres, log)
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}

	return repo, nil
}
