// Package saltstore keeps the salts behind on-ledger commitments so they can
// be revealed later. Salts never leave the local machine.
package saltstore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/agenticaihome/agenticaihome-v2/pkg/errors"
	"github.com/agenticaihome/agenticaihome-v2/pkg/logtrace"
)

const dbName = "salts.sqlite3"

// Kind tells which commitment a salt belongs to.
type Kind string

const (
	KindInput  Kind = "input"
	KindRating Kind = "rating"
)

// Entry is one remembered commitment.
type Entry struct {
	Commitment string `db:"commitment"` // hex
	Kind       Kind   `db:"kind"`
	TaskID     string `db:"task_id"`
	TxID       string `db:"tx_id"`
	Salt       []byte `db:"salt"`
	Rating     int    `db:"rating"`
	CreatedAt  int64  `db:"created_at"` // unix seconds
}

// Created returns CreatedAt as a time.
func (e Entry) Created() time.Time {
	return time.Unix(e.CreatedAt, 0).UTC()
}

// Store is a sqlite backed salt vault.
type Store struct {
	db *sqlx.DB
}

// NewStore opens (creating if needed) the vault under dataDir.
func NewStore(ctx context.Context, dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("mkdir %q: %w", dataDir, err)
	}

	dbFile := filepath.Join(dataDir, dbName)
	db, err := sqlx.Connect("sqlite", dbFile)
	if err != nil {
		return nil, fmt.Errorf("cannot open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("cannot create table(s) in sqlite database: %w", err)
	}

	logtrace.Debug(ctx, "salt store opened", logtrace.Fields{logtrace.FieldModule: logtrace.ValueSaltStore, "path": dbFile})
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS salts (
	commitment TEXT PRIMARY KEY,
	kind       TEXT NOT NULL,
	task_id    TEXT NOT NULL DEFAULT '',
	tx_id      TEXT NOT NULL DEFAULT '',
	salt       BLOB NOT NULL,
	rating     INTEGER NOT NULL DEFAULT 0,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_salts_task_id ON salts(task_id);`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Put stores or replaces the entry for e.Commitment.
func (s *Store) Put(ctx context.Context, e Entry) error {
	if e.Commitment == "" || len(e.Salt) == 0 {
		return errors.InvalidParameter("entry", "commitment and salt", "empty")
	}
	if e.CreatedAt == 0 {
		e.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.NamedExecContext(ctx, `
INSERT OR REPLACE INTO salts (commitment, kind, task_id, tx_id, salt, rating, created_at)
VALUES (:commitment, :kind, :task_id, :tx_id, :salt, :rating, :created_at)`, e)
	if err != nil {
		logtrace.Error(ctx, "failed to store salt", logtrace.Fields{
			logtrace.FieldModule: logtrace.ValueSaltStore,
			logtrace.FieldTaskID: e.TaskID,
			logtrace.FieldError:  err.Error(),
		})
		return fmt.Errorf("store salt: %w", err)
	}
	return nil
}

// Get returns the entry for a hex commitment, or NotFound.
func (s *Store) Get(ctx context.Context, commitment string) (*Entry, error) {
	var e Entry
	err := s.db.GetContext(ctx, &e, `SELECT * FROM salts WHERE commitment = ?`, commitment)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.NotFound("Salt", commitment)
	}
	if err != nil {
		return nil, fmt.Errorf("load salt: %w", err)
	}
	return &e, nil
}

// ListByTask returns the entries recorded for a task, oldest first.
func (s *Store) ListByTask(ctx context.Context, taskID string) ([]Entry, error) {
	var entries []Entry
	if err := s.db.SelectContext(ctx, &entries, `SELECT * FROM salts WHERE task_id = ? ORDER BY created_at, commitment`, taskID); err != nil {
		return nil, fmt.Errorf("list salts: %w", err)
	}
	return entries, nil
}

// Delete forgets a commitment. Deleting an unknown commitment is not an error.
func (s *Store) Delete(ctx context.Context, commitment string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM salts WHERE commitment = ?`, commitment); err != nil {
		return fmt.Errorf("delete salt: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
