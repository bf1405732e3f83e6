package ledger

import (
	"context"
	"database/sql"
	"time"

	"github.com/agentstation/utc"
	_ "modernc.org/sqlite" // pure-Go sqlite driver

	"github.com/refcanon/refcanon/pkg/errors"
)

// runSchema is the audit table; one row per ingestion run.
const runSchema = `
CREATE TABLE IF NOT EXISTS ingestion_runs (
	id       TEXT PRIMARY KEY,
	dataset  TEXT NOT NULL,
	source   TEXT NOT NULL,
	version  TEXT NOT NULL,
	state    TEXT NOT NULL,
	error    TEXT NOT NULL DEFAULT '',
	started  TEXT NOT NULL,
	finished TEXT
);
CREATE INDEX IF NOT EXISTS ingestion_runs_dataset ON ingestion_runs (dataset, started);`

// SQLite is a Ledger persisting runs in a SQLite database, so version
// gates survive process restarts.
type SQLite struct {
	db  *sql.DB
	now func() utc.Time
}

// NewSQLite creates a SQLite-backed ledger over an already opened
// database, ensuring the run schema exists.
func NewSQLite(db *sql.DB) (*SQLite, error) {
	if _, err := db.Exec(runSchema); err != nil {
		return nil, errors.WrapResource("create", "run schema", "", err)
	}
	return &SQLite{db: db, now: utc.Now}, nil
}

// ShouldIngest reports whether the dataset needs work for the
// candidate version.
func (l *SQLite) ShouldIngest(ctx context.Context, dataset, version string) (bool, error) {
	last, err := l.LastSuccess(ctx, dataset)
	if errors.IsNotFound(err) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return last.Version != version, nil
}

// Begin records a RUNNING run for the dataset.
func (l *SQLite) Begin(ctx context.Context, dataset, source, version string) (*Run, error) {
	run := newRun(dataset, source, version, l.now())
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO ingestion_runs (id, dataset, source, version, state, started)
		VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.Dataset, run.Source, run.Version, string(run.State), formatTime(run.Started))
	if err != nil {
		return nil, errors.WrapResource("record", "run", run.ID, err)
	}
	return run, nil
}

// MarkSuccess finalizes the run as SUCCESS.
func (l *SQLite) MarkSuccess(ctx context.Context, run *Run) error {
	return l.finalize(ctx, run, StateSuccess, "")
}

// MarkFailed finalizes the run as FAILED with its cause.
func (l *SQLite) MarkFailed(ctx context.Context, run *Run, cause error) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	return l.finalize(ctx, run, StateFailed, msg)
}

func (l *SQLite) finalize(ctx context.Context, run *Run, target State, cause string) error {
	if err := finalize(run, target, cause, l.now()); err != nil {
		return err
	}
	// On a repeated terminal call the WHERE clause matches nothing,
	// leaving the already-final row untouched.
	_, err := l.db.ExecContext(ctx, `
		UPDATE ingestion_runs SET state = ?, error = ?, finished = ?
		WHERE id = ? AND state = ?`,
		string(run.State), run.Error, formatTime(*run.Finished), run.ID, string(StateRunning))
	if err != nil {
		return errors.WrapResource("finalize", "run", run.ID, err)
	}
	return nil
}

// LastSuccess returns the most recent SUCCESS run for the dataset.
func (l *SQLite) LastSuccess(ctx context.Context, dataset string) (*Run, error) {
	row := l.db.QueryRowContext(ctx, `
		SELECT id, dataset, source, version, state, error, started, finished
		FROM ingestion_runs WHERE dataset = ? AND state = ?
		ORDER BY started DESC LIMIT 1`,
		dataset, string(StateSuccess))

	run, err := scanRun(row.Scan)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError("run", dataset)
	}
	if err != nil {
		return nil, errors.WrapResource("load", "run", dataset, err)
	}
	return run, nil
}

// History returns every recorded run for the dataset, most recent
// first.
func (l *SQLite) History(ctx context.Context, dataset string) ([]*Run, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, dataset, source, version, state, error, started, finished
		FROM ingestion_runs WHERE dataset = ?
		ORDER BY started DESC`,
		dataset)
	if err != nil {
		return nil, errors.WrapResource("load", "runs", dataset, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var out []*Run
	for rows.Next() {
		run, err := scanRun(rows.Scan)
		if err != nil {
			return nil, errors.WrapResource("load", "runs", dataset, err)
		}
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapResource("load", "runs", dataset, err)
	}
	return out, nil
}

func scanRun(scan func(dest ...any) error) (*Run, error) {
	var (
		run      Run
		state    string
		started  string
		finished sql.NullString
	)
	if err := scan(&run.ID, &run.Dataset, &run.Source, &run.Version, &state, &run.Error, &started, &finished); err != nil {
		return nil, err
	}
	run.State = State(state)

	t, err := parseTime(started)
	if err != nil {
		return nil, err
	}
	run.Started = t

	if finished.Valid {
		t, err := parseTime(finished.String)
		if err != nil {
			return nil, err
		}
		run.Finished = &t
	}
	return &run, nil
}

// timeLayout keeps a fixed-width fraction so lexical order on the
// started column equals chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t utc.Time) string {
	return t.Format(timeLayout)
}

func parseTime(s string) (utc.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return utc.Time{}, err
	}
	return utc.New(t), nil
}
