package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/crmbridge/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/crmbridge/internal/core/domain"
	"github.com/custodia-labs/crmbridge/internal/core/ports/driven"
)

// Store is the SQLite-backed local state of the bridge. It holds the
// personal access grants; delegated credentials themselves never touch
// disk here.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.crmbridge/data/bridge.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".crmbridge", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "bridge.db")

	// WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// GrantStore returns a GrantStore interface backed by this store.
func (s *Store) GrantStore() driven.GrantStore {
	return &grantStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// grantStore implements driven.GrantStore.
type grantStore struct {
	store *Store
}

var _ driven.GrantStore = (*grantStore)(nil)

// Save stores a grant, replacing any existing grant for the same subject.
func (s *grantStore) Save(ctx context.Context, grant domain.PersonalAccessGrant) error {
	if grant.ID == "" || grant.SubjectID == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO grants (id, subject_id, token, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(subject_id) DO UPDATE SET
			id = excluded.id,
			token = excluded.token,
			created_at = excluded.created_at
	`, grant.ID, grant.SubjectID, grant.Token, grant.CreatedAt.UTC())

	if err != nil {
		return fmt.Errorf("saving grant: %w", err)
	}
	return nil
}

// GetBySubject retrieves the grant held for a subject.
func (s *grantStore) GetBySubject(ctx context.Context, subjectID string) (*domain.PersonalAccessGrant, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, subject_id, token, created_at
		FROM grants WHERE subject_id = ?
	`, subjectID)

	var grant domain.PersonalAccessGrant
	var createdAt sql.NullTime
	if err := row.Scan(&grant.ID, &grant.SubjectID, &grant.Token, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning grant: %w", err)
	}

	if createdAt.Valid {
		grant.CreatedAt = createdAt.Time
	}

	return &grant, nil
}

// DeleteBySubject removes the grant held for a subject.
func (s *grantStore) DeleteBySubject(ctx context.Context, subjectID string) error {
	res, err := s.store.db.ExecContext(ctx, "DELETE FROM grants WHERE subject_id = ?", subjectID)
	if err != nil {
		return fmt.Errorf("deleting grant: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
