package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/zero-day-ai/conductor/internal/tool"
	"github.com/zero-day-ai/conductor/internal/types"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS audit_log (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id      TEXT NOT NULL,
	recorded_at TEXT NOT NULL,
	input       TEXT NOT NULL,
	decision    TEXT,
	result      TEXT
);
CREATE INDEX IF NOT EXISTS idx_audit_log_run_id ON audit_log(run_id);
`

// SQLiteRecorder is a durable Recorder backed by a WAL-mode SQLite database.
type SQLiteRecorder struct {
	conn *sql.DB
	path string
}

// OpenSQLite opens (and if needed creates) the audit database at path.
func OpenSQLite(path string) (*SQLiteRecorder, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000", path)

	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, types.WrapError(types.AUDIT_OPEN_FAILED, "failed to open audit database", err)
	}

	if _, err := conn.Exec(createTableSQL); err != nil {
		conn.Close()
		return nil, types.WrapError(types.AUDIT_OPEN_FAILED, "failed to create audit schema", err)
	}

	return &SQLiteRecorder{
		conn: conn,
		path: path,
	}, nil
}

// Record appends one audit row. A nil decision is stored as NULL.
func (r *SQLiteRecorder) Record(ctx context.Context, entry Entry) error {
	recordedAt := entry.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now().UTC()
	}

	var decisionJSON sql.NullString
	if entry.Decision != nil {
		data, err := json.Marshal(entry.Decision)
		if err != nil {
			return types.WrapError(types.AUDIT_RECORD_FAILED, "failed to serialize decision", err)
		}
		decisionJSON = sql.NullString{String: string(data), Valid: true}
	}

	var resultJSON sql.NullString
	if entry.Result != nil {
		data, err := json.Marshal(entry.Result)
		if err != nil {
			return types.WrapError(types.AUDIT_RECORD_FAILED, "failed to serialize result", err)
		}
		resultJSON = sql.NullString{String: string(data), Valid: true}
	}

	_, err := r.conn.ExecContext(ctx,
		`INSERT INTO audit_log (run_id, recorded_at, input, decision, result) VALUES (?, ?, ?, ?, ?)`,
		entry.RunID.String(),
		recordedAt.Format(time.RFC3339Nano),
		entry.Input,
		decisionJSON,
		resultJSON,
	)
	if err != nil {
		return types.WrapError(types.AUDIT_RECORD_FAILED, "failed to insert audit row", err)
	}

	return nil
}

// List returns all entries recorded for a run, oldest first.
func (r *SQLiteRecorder) List(ctx context.Context, runID types.ID) ([]Entry, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT run_id, recorded_at, input, decision, result FROM audit_log WHERE run_id = ? ORDER BY id`,
		runID.String(),
	)
	if err != nil {
		return nil, types.WrapError(types.AUDIT_RECORD_FAILED, "failed to query audit rows", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			rawRunID     string
			rawRecorded  string
			input        string
			decisionJSON sql.NullString
			resultJSON   sql.NullString
		)
		if err := rows.Scan(&rawRunID, &rawRecorded, &input, &decisionJSON, &resultJSON); err != nil {
			return nil, types.WrapError(types.AUDIT_RECORD_FAILED, "failed to scan audit row", err)
		}

		entry := Entry{
			RunID: types.ID(rawRunID),
			Input: input,
		}
		if ts, err := time.Parse(time.RFC3339Nano, rawRecorded); err == nil {
			entry.RecordedAt = ts
		}
		if decisionJSON.Valid {
			var d tool.Decision
			if err := json.Unmarshal([]byte(decisionJSON.String), &d); err != nil {
				return nil, types.WrapError(types.AUDIT_RECORD_FAILED, "failed to decode decision", err)
			}
			entry.Decision = &d
		}
		if resultJSON.Valid {
			if err := json.Unmarshal([]byte(resultJSON.String), &entry.Result); err != nil {
				return nil, types.WrapError(types.AUDIT_RECORD_FAILED, "failed to decode result", err)
			}
		}

		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// Close closes the underlying database connection.
func (r *SQLiteRecorder) Close() error {
	return r.conn.Close()
}

// Path returns the database file path.
func (r *SQLiteRecorder) Path() string {
	return r.path
}
