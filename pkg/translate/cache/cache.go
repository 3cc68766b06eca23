// Package cache implements the sqlite-backed translation memory. Recurring
// UI strings are translated once per (backend, model, locale pair) and
// reused across runs; lookups key on the exact source text.
package cache

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/jingkaihe/lingo/pkg/db"
)

const schema = `
CREATE TABLE IF NOT EXISTS translation_memory (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    source_text TEXT NOT NULL,
    from_locale TEXT NOT NULL,
    to_locale TEXT NOT NULL,
    backend TEXT NOT NULL,
    model TEXT NOT NULL DEFAULT '',
    translation TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    UNIQUE(source_text, from_locale, to_locale, backend, model)
);
`

// Store is the translation memory.
type Store struct {
	db *sqlx.DB
}

// entry mirrors one translation_memory row.
type entry struct {
	Translation string `db:"translation"`
}

// NewStore opens the translation memory at dbPath, creating the schema on
// first use.
func NewStore(ctx context.Context, dbPath string) (*Store, error) {
	conn, err := db.Open(ctx, dbPath)
	if err != nil {
		return nil, err
	}
	if _, err := conn.ExecContext(ctx, schema); err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "failed to initialize translation memory schema")
	}
	return &Store{db: conn}, nil
}

// Get looks up a cached translation; the second result reports a hit.
func (s *Store) Get(ctx context.Context, text, from, to, backend, model string) (string, bool, error) {
	var e entry
	err := s.db.GetContext(ctx, &e,
		`SELECT translation FROM translation_memory
		 WHERE source_text = ? AND from_locale = ? AND to_locale = ? AND backend = ? AND model = ?`,
		text, from, to, backend, model)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrap(err, "failed to query translation memory")
	}
	return e.Translation, true, nil
}

// Put records a translation. Duplicate inserts are ignored so concurrent
// runs stay additive.
func (s *Store) Put(ctx context.Context, text, from, to, backend, model, translation string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO translation_memory
		 (source_text, from_locale, to_locale, backend, model, translation, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		text, from, to, backend, model, translation, time.Now().UTC())
	return errors.Wrap(err, "failed to write translation memory")
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
