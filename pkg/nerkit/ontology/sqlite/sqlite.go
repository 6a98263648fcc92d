// Package sqlite persists ontology feed records in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/cognicore/nerkit/pkg/nerkit/internalerr"
	"github.com/cognicore/nerkit/pkg/nerkit/ontology"
)

// Source reads and writes ontology records in a SQLite file.
type Source struct {
	db *sql.DB
}

// Open opens a SQLite database with WAL mode enabled and creates the schema.
func Open(ctx context.Context, path string) (*Source, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &Source{db: db}, nil
}

// Close closes the database connection
func (s *Source) Close() error {
	return s.db.Close()
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS ontology_records (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	term TEXT NOT NULL,
	kind TEXT NOT NULL,
	slots_json TEXT NOT NULL DEFAULT '[]',
	UNIQUE(term, kind)
);

CREATE INDEX IF NOT EXISTS idx_ontology_term ON ontology_records(term);
`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("init ontology schema: %w", err)
	}
	return nil
}

// Import upserts records in one transaction. A record with the same term and
// kind replaces the stored slots.
func (s *Source) Import(ctx context.Context, records []ontology.Record) error {
	for _, r := range records {
		if err := r.Validate(); err != nil {
			return err
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO ontology_records(term, kind, slots_json) VALUES (?, ?, ?)
ON CONFLICT(term, kind) DO UPDATE SET slots_json = excluded.slots_json`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range records {
		slots := r.Slots
		if slots == nil {
			slots = []ontology.SlotOverride{}
		}
		raw, err := json.Marshal(slots)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, r.Term, r.Kind, string(raw)); err != nil {
			return fmt.Errorf("insert %q: %w", r.Term, err)
		}
	}
	return tx.Commit()
}

// Records implements ontology.Source. Records come back in insertion order.
func (s *Source) Records(ctx context.Context) ([]ontology.Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT term, kind, slots_json FROM ontology_records ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ontology.Record
	for rows.Next() {
		var r ontology.Record
		var raw string
		if err := rows.Scan(&r.Term, &r.Kind, &raw); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(raw), &r.Slots); err != nil {
			return nil, fmt.Errorf("decode slots for %q: %w", r.Term, err)
		}
		if len(r.Slots) == 0 {
			r.Slots = nil
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Count returns the number of stored records.
func (s *Source) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ontology_records`).Scan(&n)
	return n, err
}

// Delete removes the record with the given term and kind.
func (s *Source) Delete(ctx context.Context, term, kind string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM ontology_records WHERE term = ? AND kind = ?`, term, kind)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s/%s", internalerr.ErrNotFound, kind, term)
	}
	return nil
}
