package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// IndexConfig contains configuration for the SQLite query index.
type IndexConfig struct {
	// Path is the database file path.
	Path string

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds.
	BusyTimeout time.Duration

	// WALMode enables Write-Ahead Logging for better concurrency.
	// Default: true.
	WALMode bool
}

// DefaultIndexConfig returns the default index configuration.
func DefaultIndexConfig() *IndexConfig {
	return &IndexConfig{
		Path:        "data/audit-index.db",
		BusyTimeout: 5 * time.Second,
		WALMode:     true,
	}
}

// indexSchema is insert-only: mirrored records are never updated or deleted,
// matching the append-only contract of the ledger file.
const indexSchema = `
CREATE TABLE IF NOT EXISTS audit_records (
	id        TEXT PRIMARY KEY,
	timestamp DATETIME NOT NULL,
	status    TEXT NOT NULL,
	action    TEXT,
	intent    TEXT,
	decision  TEXT,
	result    TEXT
);
CREATE INDEX IF NOT EXISTS idx_audit_timestamp ON audit_records(timestamp);
CREATE INDEX IF NOT EXISTS idx_audit_status ON audit_records(status);
`

// Index mirrors appended records into SQLite for fast filtered queries over
// large ledgers. The JSONL ledger remains the source of truth; the index is
// a read accelerator and can always be rebuilt from the file.
type Index struct {
	db     *sql.DB
	config *IndexConfig
	logger *slog.Logger
}

// NewIndex opens (creating if needed) the SQLite index.
func NewIndex(config *IndexConfig, logger *slog.Logger) (*Index, error) {
	if config == nil {
		config = DefaultIndexConfig()
	}
	if logger == nil {
		logger = slog.Default().With("component", "audit.index")
	}

	db, err := sql.Open("sqlite3", config.Path)
	if err != nil {
		return nil, NewStorageError("sqlite", "open", err)
	}

	idx := &Index{db: db, config: config, logger: logger}
	if err := idx.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("audit index opened",
		"path", config.Path,
		"wal_mode", config.WALMode,
	)

	return idx, nil
}

// initialize applies pragmas and creates the schema.
func (i *Index) initialize() error {
	if i.config.WALMode {
		if _, err := i.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return NewStorageError("sqlite", "enable_wal", err)
		}
	}

	busyTimeoutMs := i.config.BusyTimeout.Milliseconds()
	if _, err := i.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeoutMs)); err != nil {
		return NewStorageError("sqlite", "set_busy_timeout", err)
	}

	if _, err := i.db.Exec(indexSchema); err != nil {
		return NewStorageError("sqlite", "create_schema", err)
	}

	return nil
}

// Store mirrors one record into the index.
func (i *Index) Store(ctx context.Context, record *Record) error {
	intentJSON, _ := json.Marshal(record.Intent)
	decisionJSON, _ := json.Marshal(record.Decision)
	resultJSON, _ := json.Marshal(record.Result)

	action := ""
	if record.Intent != nil {
		action = record.Intent.Action
	}

	_, err := i.db.ExecContext(ctx, `
		INSERT INTO audit_records (id, timestamp, status, action, intent, decision, result)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.Timestamp, string(record.Status), action,
		string(intentJSON), string(decisionJSON), string(resultJSON),
	)
	if err != nil {
		return NewStorageError("sqlite", "store", err)
	}
	return nil
}

// Query retrieves records matching q in chronological order.
func (i *Index) Query(ctx context.Context, q Query) ([]*Record, error) {
	where, args := buildWhereClause(q)

	sqlQuery := "SELECT id, timestamp, status, intent, decision, result FROM audit_records"
	if where != "" {
		sqlQuery += " WHERE " + where
	}
	sqlQuery += " ORDER BY timestamp ASC"

	rows, err := i.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, NewStorageError("sqlite", "query", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		record, err := scanIndexRow(rows)
		if err != nil {
			return nil, NewStorageError("sqlite", "scan", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, NewStorageError("sqlite", "query", err)
	}

	return records, nil
}

// Count returns the number of records matching q.
func (i *Index) Count(ctx context.Context, q Query) (int64, error) {
	where, args := buildWhereClause(q)

	sqlQuery := "SELECT COUNT(*) FROM audit_records"
	if where != "" {
		sqlQuery += " WHERE " + where
	}

	var count int64
	if err := i.db.QueryRowContext(ctx, sqlQuery, args...).Scan(&count); err != nil {
		return 0, NewStorageError("sqlite", "count", err)
	}
	return count, nil
}

// Close releases the database handle.
func (i *Index) Close() error {
	if err := i.db.Close(); err != nil {
		return NewStorageError("sqlite", "close", err)
	}
	return nil
}

// buildWhereClause translates a Query into SQL conditions.
func buildWhereClause(q Query) (string, []any) {
	var (
		clause string
		args   []any
	)

	add := func(cond string, arg any) {
		if clause != "" {
			clause += " AND "
		}
		clause += cond
		args = append(args, arg)
	}

	if q.Start != nil {
		add("timestamp >= ?", *q.Start)
	}
	if q.End != nil {
		add("timestamp <= ?", *q.End)
	}
	if q.Status != "" {
		add("status = ?", string(q.Status))
	}

	return clause, args
}

// scanIndexRow reconstructs a Record from an index row.
func scanIndexRow(rows *sql.Rows) (*Record, error) {
	var record Record
	var status string
	var intentJSON, decisionJSON, resJSON sql.NullString

	if err := rows.Scan(&record.ID, &record.Timestamp, &status, &intentJSON, &decisionJSON, &resJSON); err != nil {
		return nil, err
	}
	record.Status = Status(status)

	if intentJSON.Valid && intentJSON.String != "" && intentJSON.String != "null" {
		var in IntentRecord
		if err := json.Unmarshal([]byte(intentJSON.String), &in); err == nil {
			record.Intent = &in
		}
	}
	if decisionJSON.Valid && decisionJSON.String != "" && decisionJSON.String != "null" {
		var d DecisionRecord
		if err := json.Unmarshal([]byte(decisionJSON.String), &d); err == nil {
			record.Decision = &d
		}
	}
	if resJSON.Valid && resJSON.String != "" && resJSON.String != "null" {
		var r OutcomeRecord
		if err := json.Unmarshal([]byte(resJSON.String), &r); err == nil {
			record.Result = &r
		}
	}

	return &record, nil
}
