package history

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStore opens the history database at dbPath.
// Use ":memory:" for an in-memory database, or a file path for persistent storage.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// Each connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS generations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		build_id TEXT NOT NULL,
		pass INTEGER NOT NULL,
		phase TEXT NOT NULL,
		records INTEGER NOT NULL,
		groups_count INTEGER NOT NULL,
		hash TEXT NOT NULL,
		changed INTEGER NOT NULL,
		timestamp INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_generations_build_id ON generations(build_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append records g and fills in its ID and, when unset, its timestamp.
func (s *SQLiteStore) Append(ctx context.Context, g *Generation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if g.Timestamp.IsZero() {
		g.Timestamp = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO generations (build_id, pass, phase, records, groups_count, hash, changed, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		g.BuildID, g.Pass, g.Phase, g.Records, g.Groups, g.Hash, g.Changed, g.Timestamp.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert generation: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("read generation id: %w", err)
	}
	g.ID = id
	return nil
}

// List returns up to limit generations, newest first. A limit of zero or
// less returns all of them.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]*Generation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, build_id, pass, phase, records, groups_count, hash, changed, timestamp
		 FROM generations ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query generations: %w", err)
	}
	defer rows.Close()

	return scanGenerations(rows)
}

// ListByBuild returns the generations of one build in the order they ran.
func (s *SQLiteStore) ListByBuild(ctx context.Context, buildID string) ([]*Generation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, build_id, pass, phase, records, groups_count, hash, changed, timestamp
		 FROM generations WHERE build_id = ? ORDER BY id`,
		buildID,
	)
	if err != nil {
		return nil, fmt.Errorf("query generations: %w", err)
	}
	defer rows.Close()

	return scanGenerations(rows)
}

func scanGenerations(rows *sql.Rows) ([]*Generation, error) {
	var out []*Generation
	for rows.Next() {
		var g Generation
		var ts int64
		if err := rows.Scan(&g.ID, &g.BuildID, &g.Pass, &g.Phase, &g.Records, &g.Groups, &g.Hash, &g.Changed, &ts); err != nil {
			return nil, fmt.Errorf("scan generation: %w", err)
		}
		g.Timestamp = time.UnixMilli(ts).UTC()
		out = append(out, &g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
