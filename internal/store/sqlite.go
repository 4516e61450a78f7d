package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/builduction/internal/project"
	"github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// SQLiteStore is a Store backed by a SQLite file. Each record is kept as a
// JSON document, so non-finite figures are read back as unset.
type SQLiteStore struct {
	conn   *sql.DB
	logger *zap.Logger
}

// NewSQLiteStore opens (creating if needed) the database at path.
func NewSQLiteStore(path string, logger *zap.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SQLite database: %w", err)
	}
	// SQLite allows a single writer; one connection also keeps ":memory:"
	// databases from splitting across the pool.
	conn.SetMaxOpenConns(1)

	if err := initTables(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize database tables: %w", err)
	}

	return &SQLiteStore{conn: conn, logger: logger}, nil
}

func initTables(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE TABLE IF NOT EXISTS projects (
			id TEXT PRIMARY KEY,
			data TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);
	`)
	return err
}

// Fetch returns every stored project in insertion order.
func (s *SQLiteStore) Fetch(ctx context.Context) ([]*project.Project, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT data FROM projects ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []*project.Project
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		p, err := decode(data)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// Find returns the project with the given id or ErrNotFound.
func (s *SQLiteStore) Find(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	var data string
	err := s.conn.QueryRowContext(ctx, `SELECT data FROM projects WHERE id = ?`, id.String()).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project %s: %w", id, err)
	}
	return decode(data)
}

// Add stores a new project, returning ErrConflict if the id exists.
func (s *SQLiteStore) Add(ctx context.Context, p *project.Project) error {
	data, err := encode(p)
	if err != nil {
		return err
	}

	_, err = s.conn.ExecContext(ctx,
		`INSERT INTO projects (id, data, updated_at) VALUES (?, ?, ?)`,
		p.ID.String(), data, now())
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return ErrConflict
		}
		return fmt.Errorf("failed to add project %s: %w", p.ID, err)
	}

	s.logger.Debug("added project",
		zap.String("op", "store.SQLiteStore.Add"),
		zap.String("id", p.ID.String()),
	)
	return nil
}

// Update replaces a stored project, returning ErrNotFound if it is absent.
func (s *SQLiteStore) Update(ctx context.Context, p *project.Project) error {
	data, err := encode(p)
	if err != nil {
		return err
	}

	result, err := s.conn.ExecContext(ctx,
		`UPDATE projects SET data = ?, updated_at = ? WHERE id = ?`,
		data, now(), p.ID.String())
	if err != nil {
		return fmt.Errorf("failed to update project %s: %w", p.ID, err)
	}
	return requireRow(result)
}

// AddOrUpdate stores p, replacing any record with the same id.
func (s *SQLiteStore) AddOrUpdate(ctx context.Context, p *project.Project) error {
	data, err := encode(p)
	if err != nil {
		return err
	}

	// The upsert keeps the original rowid, so Fetch order is preserved.
	_, err = s.conn.ExecContext(ctx, `
		INSERT INTO projects (id, data, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		p.ID.String(), data, now())
	if err != nil {
		return fmt.Errorf("failed to save project %s: %w", p.ID, err)
	}
	return nil
}

// Delete removes the project with the given id.
func (s *SQLiteStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.conn.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete project %s: %w", id, err)
	}
	return requireRow(result)
}

// Purge removes every project.
func (s *SQLiteStore) Purge(ctx context.Context) error {
	result, err := s.conn.ExecContext(ctx, `DELETE FROM projects`)
	if err != nil {
		return fmt.Errorf("failed to purge projects: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil {
		s.logger.Info("purged projects",
			zap.String("op", "store.SQLiteStore.Purge"),
			zap.Int64("count", n),
		)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}

func requireRow(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func encode(p *project.Project) (string, error) {
	if err := validate(p); err != nil {
		return "", err
	}
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("failed to encode project %s: %w", p.ID, err)
	}
	return string(data), nil
}

func decode(data string) (*project.Project, error) {
	var p project.Project
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("failed to decode project: %w", err)
	}
	return &p, nil
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
