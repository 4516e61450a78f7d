package store

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/iwvelando/builduction/internal/project"
	"go.uber.org/zap"
)

// MemoryStore is a Store held in process memory. It is safe for concurrent
// use.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*project.Project
	order   []uuid.UUID
	logger  *zap.Logger
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore(logger *zap.Logger) *MemoryStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MemoryStore{
		records: make(map[uuid.UUID]*project.Project),
		logger:  logger,
	}
}

// Fetch returns every stored project in insertion order.
func (s *MemoryStore) Fetch(ctx context.Context) ([]*project.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	projects := make([]*project.Project, 0, len(s.order))
	for _, id := range s.order {
		projects = append(projects, s.records[id].Clone())
	}
	return projects, nil
}

// Find returns the project with the given id or ErrNotFound.
func (s *MemoryStore) Find(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p.Clone(), nil
}

// Add stores a new project, returning ErrConflict if the id exists.
func (s *MemoryStore) Add(ctx context.Context, p *project.Project) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validate(p); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[p.ID]; exists {
		return ErrConflict
	}
	s.insert(p)
	return nil
}

// Update replaces a stored project, returning ErrNotFound if it is absent.
func (s *MemoryStore) Update(ctx context.Context, p *project.Project) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validate(p); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[p.ID]; !exists {
		return ErrNotFound
	}
	s.records[p.ID] = p.Clone()
	s.logger.Debug("updated project",
		zap.String("op", "store.MemoryStore.Update"),
		zap.String("id", p.ID.String()),
	)
	return nil
}

// AddOrUpdate stores p, replacing any record with the same id.
func (s *MemoryStore) AddOrUpdate(ctx context.Context, p *project.Project) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validate(p); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[p.ID]; exists {
		s.records[p.ID] = p.Clone()
		return nil
	}
	s.insert(p)
	return nil
}

// Delete removes the project with the given id.
func (s *MemoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[id]; !exists {
		return ErrNotFound
	}
	delete(s.records, id)
	for i, other := range s.order {
		if other == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Purge removes every project.
func (s *MemoryStore) Purge(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make(map[uuid.UUID]*project.Project)
	s.order = nil
	return nil
}

// Close is a no-op for the memory store.
func (s *MemoryStore) Close() error {
	return nil
}

// insert must be called with the write lock held.
func (s *MemoryStore) insert(p *project.Project) {
	s.records[p.ID] = p.Clone()
	s.order = append(s.order, p.ID)
	s.logger.Debug("added project",
		zap.String("op", "store.MemoryStore.Add"),
		zap.String("id", p.ID.String()),
	)
}
