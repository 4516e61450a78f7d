// Package store keeps project records between calculations.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/iwvelando/builduction/internal/config"
	"github.com/iwvelando/builduction/internal/project"
	"github.com/iwvelando/builduction/pkg/constants"
	"go.uber.org/zap"
)

var (
	// ErrNotFound is returned when no record has the requested id.
	ErrNotFound = errors.New("project not found")
	// ErrConflict is returned by Add when the id is already stored.
	ErrConflict = errors.New("project already exists")
	// ErrInvalidProject wraps the reason a record cannot be stored.
	ErrInvalidProject = errors.New("invalid project")
)

// Store persists project records keyed by id. Records go in and come out
// unchanged; callers never share memory with the store.
type Store interface {
	// Fetch returns every record in insertion order.
	Fetch(ctx context.Context) ([]*project.Project, error)
	// Find returns the record with the given id or ErrNotFound.
	Find(ctx context.Context, id uuid.UUID) (*project.Project, error)
	// Add stores a new record. ErrConflict if the id is taken.
	Add(ctx context.Context, p *project.Project) error
	// Update replaces an existing record. ErrNotFound if it is absent.
	Update(ctx context.Context, p *project.Project) error
	// AddOrUpdate replaces the record if present, otherwise adds it.
	AddOrUpdate(ctx context.Context, p *project.Project) error
	// Delete removes a record. ErrNotFound if it is absent.
	Delete(ctx context.Context, id uuid.UUID) error
	// Purge removes every record.
	Purge(ctx context.Context) error
	// Close releases the store's resources.
	Close() error
}

// Open returns the store selected by cfg.
func Open(cfg config.StorageConfig, logger *zap.Logger) (Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch cfg.Driver {
	case "", constants.StorageDriverMemory:
		logger.Debug("using in-memory project store",
			zap.String("op", "store.Open"),
		)
		return NewMemoryStore(logger), nil
	case constants.StorageDriverSQLite:
		path := cfg.Path
		if path == "" {
			path = constants.DefaultSQLitePath
		}
		logger.Debug("using sqlite project store",
			zap.String("op", "store.Open"),
			zap.String("path", path),
		)
		return NewSQLiteStore(path, logger)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}

func validate(p *project.Project) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProject, err)
	}
	return nil
}
