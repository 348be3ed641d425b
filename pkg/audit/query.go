package audit

import (
	"bufio"
	"encoding/json"
	"os"
	"time"
)

// Query filters a ledger read. Zero-value fields do not filter.
type Query struct {
	// Start is the inclusive lower bound on record timestamps.
	Start *time.Time

	// End is the inclusive upper bound on record timestamps.
	End *time.Time

	// Status restricts results to records with this exact status.
	Status Status
}

// maxLineSize bounds a single ledger line; records are small, but a corrupt
// line must not abort the scan.
const maxLineSize = 1 << 20

// Query reads the full ledger in write order and returns the records that
// match. Corrupted lines are skipped with a warning and the rest of the
// ledger is still processed. A ledger that does not exist yet returns an
// empty result. Read failures go to the error side channel, never to the
// caller.
func (l *Log) Query(q Query) []*Record {
	records, corrupt := l.scan(q)
	if corrupt > 0 {
		l.logger.Warn("skipped corrupted audit entries", "count", corrupt)
	}
	return records
}

// scan reads the ledger applying q, returning matches and the number of
// lines that failed to parse.
func (l *Log) scan(q Query) ([]*Record, int) {
	file, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0
		}
		l.reportError(NewStorageError("file", "open", err))
		return nil, 0
	}
	defer file.Close()

	var (
		records []*Record
		corrupt int
	)

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}

		var record Record
		if err := json.Unmarshal(raw, &record); err != nil {
			corrupt++
			l.logger.Warn("corrupted audit entry", "line", line, "error", err)
			continue
		}

		if !matches(&record, q) {
			continue
		}
		records = append(records, &record)
	}

	if err := scanner.Err(); err != nil {
		l.reportError(NewStorageError("file", "read", err))
	}

	return records, corrupt
}

// matches applies the query filters to a single record.
func matches(record *Record, q Query) bool {
	if q.Start != nil && record.Timestamp.Before(*q.Start) {
		return false
	}
	if q.End != nil && record.Timestamp.After(*q.End) {
		return false
	}
	if q.Status != "" && record.Status != q.Status {
		return false
	}
	return true
}
