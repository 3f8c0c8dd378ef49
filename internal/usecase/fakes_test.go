package usecase

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/pudey33/DreamRate/internal/data/entity"
	"github.com/pudey33/DreamRate/internal/data/repository"
	"github.com/pudey33/DreamRate/pkg/utils"

	"github.com/google/uuid"
)

// memStore is an in-memory stand-in for the store, including its rule that only
// the creator may change a row.
type memStore struct {
	mu      sync.Mutex
	nextID  int64
	clock   time.Time
	dreams  []entity.Dream
	reviews []entity.Review
	calls   int
}

func newMemStore() *memStore {
	return &memStore{clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (m *memStore) repository() *repository.Repository {
	return &repository.Repository{
		Dream:  &memDreams{m},
		Review: &memReviews{m},
	}
}

func (m *memStore) stamp(owner uuid.UUID) entity.Owned {
	m.nextID++
	m.clock = m.clock.Add(time.Minute)
	return entity.Owned{ID: m.nextID, CreatedAt: m.clock, CreatedBy: owner}
}

func caller(ctx context.Context) uuid.UUID {
	id, _ := utils.GetUserIDFromContext(ctx)
	return id
}

func notFound(op string) error {
	return &repository.StoreError{Op: op, Kind: repository.ErrNotFound, Err: repository.ErrNotFound}
}

type memDreams struct{ *memStore }

func (m *memDreams) Create(ctx context.Context, d *entity.Dream) (*entity.Dream, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	created := *d
	created.Owned = m.stamp(d.CreatedBy)
	m.dreams = append(m.dreams, created)
	return &created, nil
}

func (m *memDreams) FindByOwner(ctx context.Context, userID uuid.UUID) ([]entity.Dream, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	out := []entity.Dream{}
	for i := len(m.dreams) - 1; i >= 0; i-- {
		if m.dreams[i].CreatedBy == userID {
			out = append(out, m.dreams[i])
		}
	}
	return out, nil
}

func (m *memDreams) withReviews(d entity.Dream) entity.DreamWithReviews {
	out := entity.DreamWithReviews{Dream: d, Reviews: []entity.Review{}}
	for i := len(m.reviews) - 1; i >= 0; i-- {
		if m.reviews[i].DreamID == d.ID {
			out.Reviews = append(out.Reviews, m.reviews[i])
		}
	}
	return out
}

func (m *memDreams) FindWithReviews(ctx context.Context, id int64) (*entity.DreamWithReviews, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	for _, d := range m.dreams {
		if d.ID == id {
			out := m.withReviews(d)
			return &out, nil
		}
	}
	return nil, notFound("find dream with reviews")
}

func (m *memDreams) eligible(userID uuid.UUID, count int) []entity.Dream {
	var out []entity.Dream
	for _, d := range m.dreams {
		if d.CreatedBy != userID {
			out = append(out, d)
		}
	}
	utils.Shuffle(out, nil)
	if len(out) > count {
		out = out[:count]
	}
	return out
}

func (m *memDreams) SampleExcludingOwner(ctx context.Context, userID uuid.UUID, count int) ([]entity.Dream, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	return append([]entity.Dream{}, m.eligible(userID, count)...), nil
}

func (m *memDreams) SampleWithReviews(ctx context.Context, userID uuid.UUID, count int) ([]entity.DreamWithReviews, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	out := []entity.DreamWithReviews{}
	for _, d := range m.eligible(userID, count) {
		out = append(out, m.withReviews(d))
	}
	return out, nil
}

func (m *memDreams) Update(ctx context.Context, id int64, title, content string) (*entity.Dream, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	for i := range m.dreams {
		if m.dreams[i].ID == id && m.dreams[i].CreatedBy == caller(ctx) {
			m.dreams[i].Title = title
			m.dreams[i].Content = content
			out := m.dreams[i]
			return &out, nil
		}
	}
	return nil, notFound("update dream")
}

func (m *memDreams) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	m.dreams = slices.DeleteFunc(m.dreams, func(d entity.Dream) bool {
		return d.ID == id && d.CreatedBy == caller(ctx)
	})
	m.reviews = slices.DeleteFunc(m.reviews, func(r entity.Review) bool {
		return !slices.ContainsFunc(m.dreams, func(d entity.Dream) bool { return d.ID == r.DreamID })
	})
	return nil
}

type memReviews struct{ *memStore }

func (m *memReviews) Create(ctx context.Context, r *entity.Review) (*entity.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	if !slices.ContainsFunc(m.dreams, func(d entity.Dream) bool { return d.ID == r.DreamID }) {
		return nil, &repository.StoreError{Op: "create review", Code: "23503", Kind: repository.ErrConstraint, Err: repository.ErrConstraint}
	}

	created := *r
	created.Owned = m.stamp(r.CreatedBy)
	m.reviews = append(m.reviews, created)
	return &created, nil
}

func (m *memReviews) FindByDream(ctx context.Context, dreamID int64) ([]entity.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	out := []entity.Review{}
	for i := len(m.reviews) - 1; i >= 0; i-- {
		if m.reviews[i].DreamID == dreamID {
			out = append(out, m.reviews[i])
		}
	}
	return out, nil
}

func (m *memReviews) FindByOwner(ctx context.Context, userID uuid.UUID) ([]entity.ReviewWithDream, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	out := []entity.ReviewWithDream{}
	for i := len(m.reviews) - 1; i >= 0; i-- {
		r := m.reviews[i]
		if r.CreatedBy != userID {
			continue
		}
		item := entity.ReviewWithDream{Review: r}
		for _, d := range m.dreams {
			if d.ID == r.DreamID {
				item.Dream = &d
			}
		}
		out = append(out, item)
	}
	return out, nil
}

func (m *memReviews) Update(ctx context.Context, r *entity.Review) (*entity.Review, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	for i := range m.reviews {
		cur := &m.reviews[i]
		if cur.ID == r.ID && cur.CreatedBy == caller(ctx) {
			cur.Body = r.Body
			cur.OverallRating = r.OverallRating
			cur.EthicsRating = r.EthicsRating
			cur.CreativityRating = r.CreativityRating
			cur.WritingRating = r.WritingRating
			out := *cur
			return &out, nil
		}
	}
	return nil, notFound("update review")
}

func (m *memReviews) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	m.reviews = slices.DeleteFunc(m.reviews, func(r entity.Review) bool {
		return r.ID == id && r.CreatedBy == caller(ctx)
	})
	return nil
}

// memSessions keeps the persisted session in memory.
type memSessions struct {
	mu      sync.Mutex
	session *entity.AuthSession
	loads   int
	saves   int
	clears  int
	loadErr error
	block   chan struct{} // when set, Load waits for it
}

func (s *memSessions) Load(ctx context.Context) (*entity.AuthSession, error) {
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loads++
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.session, nil
}

func (s *memSessions) Save(ctx context.Context, session *entity.AuthSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	s.session = session
	return nil
}

func (s *memSessions) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clears++
	s.session = nil
	return nil
}

func (s *memSessions) stored() *entity.AuthSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}
