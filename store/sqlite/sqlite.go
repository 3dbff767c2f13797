/*
Package sqlite provides a SQLite-backed implementation of the royalty store.

PURPOSE:
  Implements royalty.Store using SQLite. In production, the same patterns
  apply to PostgreSQL - only minor SQL dialect differences.

FIELD-LEVEL UPDATES:
  UpdateFields builds a targeted UPDATE naming exactly the mutated columns.
  No whole-row rewrites exist, so the ingestion path (AddStreams) and the
  accounting path never clobber each other. The single UPDATE statement is
  the atomicity boundary for a record.

SOFT DELETE:
  Every lookup and mutation carries "retired = 0". Once an artist is
  retired the row is retained but unreachable; a concurrent retire between
  a caller's read and write therefore surfaces as ErrArtistNotFound rather
  than a silent write to a dead record.

NAME UNIQUENESS:
  A partial unique index over non-retired rows enforces "unique among
  active artists": retiring an artist frees the name for reuse.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/royalty.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  svc := royalty.NewService(store)

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - royalty/store.go: Interface definition
  - royalty/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/royalty-engine/royalty"
)

// Store implements royalty.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS artists (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		rate TEXT NOT NULL,
		streams INTEGER NOT NULL DEFAULT 0,
		paid_streams INTEGER NOT NULL DEFAULT 0,
		last_paid_at TEXT,
		paid_by TEXT,
		created_by TEXT NOT NULL,
		retired INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Name uniqueness holds among active artists only; retiring frees the name
	CREATE UNIQUE INDEX IF NOT EXISTS idx_artists_active_name
		ON artists(name) WHERE retired = 0;

	CREATE INDEX IF NOT EXISTS idx_artists_retired
		ON artists(retired);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// LOOKUPS
// =============================================================================

const artistColumns = `id, name, rate, streams, paid_streams, last_paid_at,
	paid_by, created_by, retired, created_at, updated_at`

// FindActive returns the artist for id, filtering retired records.
func (s *Store) FindActive(ctx context.Context, id royalty.ArtistID) (*royalty.Artist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+artistColumns+` FROM artists WHERE id = ? AND retired = 0`, id)

	a, err := scanArtist(row)
	if err == sql.ErrNoRows {
		return nil, royalty.ErrArtistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load artist: %w", err)
	}
	return a, nil
}

// ListActive returns all non-retired artists ordered by name.
func (s *Store) ListActive(ctx context.Context) ([]royalty.Artist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+artistColumns+` FROM artists WHERE retired = 0 ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list artists: %w", err)
	}
	defer rows.Close()

	var artists []royalty.Artist
	for rows.Next() {
		a, err := scanArtist(rows)
		if err != nil {
			return nil, err
		}
		artists = append(artists, *a)
	}
	return artists, rows.Err()
}

// =============================================================================
// WRITES
// =============================================================================

// Insert persists a new artist record.
func (s *Store) Insert(ctx context.Context, a royalty.Artist) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO artists
		(id, name, rate, streams, paid_streams, last_paid_at, paid_by, created_by, retired, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID,
		a.Name,
		a.Rate.String(),
		a.Streams,
		a.PaidStreams,
		nullTime(a.LastPaidAt),
		nullUser(a.PaidBy),
		a.CreatedBy,
		boolToInt(a.Retired),
		a.CreatedAt.UTC().Format(time.RFC3339),
		a.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return royalty.ErrNameTaken
		}
		return fmt.Errorf("failed to insert artist: %w", err)
	}
	return nil
}

// UpdateFields applies a field-level mutation to a single active record.
func (s *Store) UpdateFields(ctx context.Context, id royalty.ArtistID, mut royalty.Mutation) error {
	if mut.IsZero() {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		sets []string
		args []any
	)
	if mut.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *mut.Name)
	}
	if mut.Rate != nil {
		sets = append(sets, "rate = ?")
		args = append(args, mut.Rate.String())
	}
	if mut.PaidStreams != nil {
		sets = append(sets, "paid_streams = ?")
		args = append(args, *mut.PaidStreams)
	}
	if mut.LastPaidAt != nil {
		sets = append(sets, "last_paid_at = ?")
		args = append(args, mut.LastPaidAt.UTC().Format(time.RFC3339))
	}
	if mut.PaidBy != nil {
		sets = append(sets, "paid_by = ?")
		args = append(args, string(*mut.PaidBy))
	}
	if mut.Retired != nil {
		sets = append(sets, "retired = ?")
		args = append(args, boolToInt(*mut.Retired))
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC().Format(time.RFC3339))
	args = append(args, id)

	res, err := s.db.ExecContext(ctx,
		`UPDATE artists SET `+strings.Join(sets, ", ")+` WHERE id = ? AND retired = 0`,
		args...)
	if err != nil {
		if isUniqueConstraintError(err) {
			return royalty.ErrNameTaken
		}
		return fmt.Errorf("failed to update artist: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update artist: %w", err)
	}
	if n == 0 {
		return royalty.ErrArtistNotFound
	}
	return nil
}

// AddStreams records externally ingested usage against an active artist.
func (s *Store) AddStreams(ctx context.Context, id royalty.ArtistID, n int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE artists SET streams = streams + ?, updated_at = ? WHERE id = ? AND retired = 0`,
		n, time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("failed to record streams: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to record streams: %w", err)
	}
	if affected == 0 {
		return royalty.ErrArtistNotFound
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArtist(row rowScanner) (*royalty.Artist, error) {
	var (
		a          royalty.Artist
		rate       string
		lastPaidAt sql.NullString
		paidBy     sql.NullString
		retired    int
		createdAt  string
		updatedAt  string
	)

	err := row.Scan(
		&a.ID, &a.Name, &rate, &a.Streams, &a.PaidStreams,
		&lastPaidAt, &paidBy, &a.CreatedBy, &retired, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.Rate, err = decimal.NewFromString(rate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse stored rate %q: %w", rate, err)
	}
	a.Retired = retired != 0

	if lastPaidAt.Valid {
		t, err := time.Parse(time.RFC3339, lastPaidAt.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse last_paid_at %q: %w", lastPaidAt.String, err)
		}
		a.LastPaidAt = &t
	}
	if paidBy.Valid {
		u := royalty.UserID(paidBy.String)
		a.PaidBy = &u
	}
	a.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	a.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)

	return &a, nil
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(time.RFC3339), Valid: true}
}

func nullUser(u *royalty.UserID) sql.NullString {
	if u == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*u), Valid: true}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func isUniqueConstraintError(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "duplicate key"))
}
