package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// LogFileName is the name of the append-only ledger file inside the log
// directory.
const LogFileName = "audit.log"

// errorChannelSize bounds the error side channel; when nobody drains it,
// further errors are dropped after being logged rather than blocking a
// writer.
const errorChannelSize = 64

// indexWriteTimeout bounds a single mirror write into the SQLite index.
const indexWriteTimeout = 5 * time.Second

// Log is the append-only audit store: one JSON record per line, in
// chronological write order. A mutex serializes concurrent appenders so
// interleaved partial writes cannot corrupt the ledger.
type Log struct {
	path   string
	logger *slog.Logger

	mu   sync.Mutex
	file *os.File

	// index, when attached, receives a best-effort mirror of every
	// appended record. The file stays the source of truth.
	index *Index

	errs chan error
}

// NewLog opens (creating if needed) the audit log under dir.
func NewLog(dir string, logger *slog.Logger) (*Log, error) {
	if logger == nil {
		logger = slog.Default().With("component", "audit.log")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create audit log directory %q: %w", dir, err)
	}

	path := filepath.Join(dir, LogFileName)
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log %q: %w", path, err)
	}

	logger.Info("audit log opened", "path", path)

	return &Log{
		path:   path,
		logger: logger,
		file:   file,
		errs:   make(chan error, errorChannelSize),
	}, nil
}

// Path returns the ledger file path.
func (l *Log) Path() string {
	return l.path
}

// Append writes one record to the ledger. It never returns an error:
// storage failures are logged, surfaced on Errors, and otherwise swallowed
// so that audit trouble cannot crash or block the enforcement pipeline.
func (l *Log) Append(record *Record) {
	if record == nil {
		l.reportError(NewStorageError("file", "append", fmt.Errorf("nil record")))
		return
	}

	data, err := json.Marshal(record)
	if err != nil {
		l.reportError(NewStorageError("file", "marshal", err))
		return
	}
	data = append(data, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		l.reportError(NewStorageError("file", "append", fmt.Errorf("log is closed")))
		return
	}

	if _, err := l.file.Write(data); err != nil {
		l.reportError(NewStorageError("file", "write", err))
		return
	}

	if l.index != nil {
		ctx, cancel := context.WithTimeout(context.Background(), indexWriteTimeout)
		defer cancel()
		if err := l.index.Store(ctx, record); err != nil {
			// Index failures degrade query speed, not correctness.
			l.reportError(err)
		}
	}
}

// AttachIndex mirrors subsequent appends into a SQLite query index.
func (l *Log) AttachIndex(index *Index) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.index = index
}

// Errors exposes storage failures to whoever wants to watch them. The
// channel is buffered; it is safe to never drain it.
func (l *Log) Errors() <-chan error {
	return l.errs
}

// Close closes the underlying file. Appends after Close report an error on
// the side channel.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// reportError logs the failure and offers it to the side channel without
// ever blocking.
func (l *Log) reportError(err error) {
	l.logger.Error("audit storage failure", "error", err)
	select {
	case l.errs <- err:
	default:
	}
}
