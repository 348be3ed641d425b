// Package audit maintains the append-only ledger of every processed
// command: what was asked, what policy decided, and what execution did.
//
// Records are written one JSON object per line to an append-only log file
// in chronological write order. Append never returns an error to its
// caller; storage failures are surfaced on a side channel (Errors) and
// logged, because a broken audit disk must not crash or block the
// enforcement pipeline. Records are never mutated or deleted.
//
// Query reads the whole store, tolerating corrupted lines (they are skipped
// with a warning and counted), and filters by inclusive time range and/or
// exact status. A store that does not exist yet queries as empty.
//
// Two optional companions exist: an Index mirrors appended records into
// SQLite for fast filtered queries over large logs (the JSONL file remains
// the source of truth), and a Scanner with a cron Scheduler periodically
// sweeps the log to report record and corrupt-line counts.
package audit
