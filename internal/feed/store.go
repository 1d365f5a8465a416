// Package feed persists the demo list of fetch timestamps.
package feed

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// SeedInterval separates seeded entries.
const SeedInterval = 90 * time.Second

// Entry is one row of the feed.
type Entry struct {
	ID        int64     `json:"id"`
	Position  int64     `json:"position"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Store handles all database operations for the feed.
type Store struct {
	db *sql.DB
}

// Open opens the SQLite database at path and runs migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Pragmas must be set outside of transactions
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set journal mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA synchronous = NORMAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set synchronous mode: %w", err)
	}

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set dialect: %w", err)
	}
	goose.SetLogger(goose.NopLogger())

	if err := goose.Up(db, "migrations"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Prepend inserts an entry before every existing one.
func (s *Store) Prepend(ctx context.Context, at time.Time) (Entry, error) {
	return s.insert(ctx, at, "SELECT COALESCE(MIN(position), 1) - 1 FROM entries")
}

// Append inserts an entry after every existing one.
func (s *Store) Append(ctx context.Context, at time.Time) (Entry, error) {
	return s.insert(ctx, at, "SELECT COALESCE(MAX(position), -1) + 1 FROM entries")
}

func (s *Store) insert(ctx context.Context, at time.Time, positionQuery string) (Entry, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	e := Entry{FetchedAt: at.UTC().Truncate(time.Second)}
	if err := tx.QueryRowContext(ctx, positionQuery).Scan(&e.Position); err != nil {
		return Entry{}, fmt.Errorf("failed to compute position: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		"INSERT INTO entries (position, fetched_at) VALUES (?, ?)",
		e.Position, e.FetchedAt.Format(time.RFC3339))
	if err != nil {
		return Entry{}, fmt.Errorf("failed to insert entry: %w", err)
	}
	if e.ID, err = res.LastInsertId(); err != nil {
		return Entry{}, fmt.Errorf("failed to read entry id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Entry{}, fmt.Errorf("failed to commit entry: %w", err)
	}
	return e, nil
}

// List returns every entry ordered by position.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, position, fetched_at FROM entries ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var fetchedAt string
		if err := rows.Scan(&e.ID, &e.Position, &fetchedAt); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		e.FetchedAt, err = time.Parse(time.RFC3339, fetchedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse fetched_at %q: %w", fetchedAt, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate entries: %w", err)
	}
	return entries, nil
}

// Count returns the number of entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM entries").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}
	return n, nil
}

// Seed appends n entries going back in time from now, SeedInterval apart.
func (s *Store) Seed(ctx context.Context, n int, now time.Time) error {
	for i := 0; i < n; i++ {
		if _, err := s.Append(ctx, now.Add(-time.Duration(i)*SeedInterval)); err != nil {
			return fmt.Errorf("failed to seed entry %d: %w", i, err)
		}
	}
	return nil
}

// Clear removes every entry.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM entries"); err != nil {
		return fmt.Errorf("failed to clear entries: %w", err)
	}
	return nil
}
