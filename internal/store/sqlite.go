package store

import (
	"context"
	"database/sql"
	"encoding/json"

	_ "modernc.org/sqlite" // pure-Go sqlite driver

	"github.com/refcanon/refcanon/pkg/errors"
)

// entitySchema holds every entity kind in one table; rows are JSON
// documents keyed by (kind, code value).
const entitySchema = `
CREATE TABLE IF NOT EXISTS entities (
	kind       TEXT NOT NULL,
	code_value TEXT NOT NULL,
	data       TEXT NOT NULL,
	PRIMARY KEY (kind, code_value)
);`

// OpenDB opens (creating if necessary) the SQLite database at path and
// ensures the entity schema exists.
func OpenDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	// The reconciler is the only writer; a single connection avoids
	// SQLITE_BUSY on concurrent chunk saves.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(entitySchema); err != nil {
		_ = db.Close()
		return nil, errors.WrapResource("create", "entity schema", "", err)
	}
	return db, nil
}

// SQLite is a Store implementation persisting entities as JSON rows in
// a SQLite database.
type SQLite[E any] struct {
	db   *sql.DB
	kind string
	key  func(*E) string
}

// NewSQLite creates a SQLite-backed store for one entity kind over an
// already opened database.
func NewSQLite[E any](db *sql.DB, kind string, key func(*E) string) *SQLite[E] {
	return &SQLite[E]{db: db, kind: kind, key: key}
}

// FindAll returns every persisted entity of this kind.
func (s *SQLite[E]) FindAll(ctx context.Context) ([]*E, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT data FROM entities WHERE kind = ?`, s.kind)
	if err != nil {
		return nil, errors.WrapResource("load", s.kind, "", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var out []*E
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, errors.WrapResource("load", s.kind, "", err)
		}
		var entity E
		if err := json.Unmarshal(data, &entity); err != nil {
			return nil, errors.WrapParse("json", s.kind, err)
		}
		out = append(out, &entity)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapResource("load", s.kind, "", err)
	}
	return out, nil
}

// FindByCodeValue returns the entity with the given natural key.
func (s *SQLite[E]) FindByCodeValue(ctx context.Context, codeValue string) (*E, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM entities WHERE kind = ? AND code_value = ?`, s.kind, codeValue).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(s.kind, codeValue)
	}
	if err != nil {
		return nil, errors.WrapResource("load", s.kind, codeValue, err)
	}

	var entity E
	if err := json.Unmarshal(data, &entity); err != nil {
		return nil, errors.WrapParse("json", s.kind, err)
	}
	return &entity, nil
}

// Save persists one entity.
func (s *SQLite[E]) Save(ctx context.Context, entity *E) error {
	return s.SaveAll(ctx, []*E{entity})
}

// SaveAll persists a batch of entities in one transaction.
func (s *SQLite[E]) SaveAll(ctx context.Context, entities []*E) error {
	if len(entities) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.WrapResource("save", s.kind, "", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO entities (kind, code_value, data) VALUES (?, ?, ?)
		ON CONFLICT (kind, code_value) DO UPDATE SET data = excluded.data`)
	if err != nil {
		_ = tx.Rollback()
		return errors.WrapResource("save", s.kind, "", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	for _, entity := range entities {
		data, err := json.Marshal(entity)
		if err != nil {
			_ = tx.Rollback()
			return errors.WrapParse("json", s.kind, err)
		}
		if _, err := stmt.ExecContext(ctx, s.kind, s.key(entity), data); err != nil {
			_ = tx.Rollback()
			return errors.WrapResource("save", s.kind, s.key(entity), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.WrapResource("save", s.kind, "", err)
	}
	return nil
}
