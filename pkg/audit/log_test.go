package audit

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func testRecord(status Status) *Record {
	return NewRecord(status,
		&IntentRecord{Action: "generate_report", Confidence: 0.95, Timestamp: time.Now()},
		&DecisionRecord{Allowed: status != StatusBlocked, Reason: "test", MatchedRule: "generate_report"},
		&OutcomeRecord{Success: status == StatusSuccess, Message: "test outcome"},
	)
}

func TestAppendAndQuery(t *testing.T) {
	log, err := NewLog(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("NewLog failed: %v", err)
	}
	defer log.Close()

	log.Append(testRecord(StatusSuccess))
	log.Append(testRecord(StatusBlocked))
	log.Append(testRecord(StatusError))

	records := log.Query(Query{})
	if len(records) != 3 {
		t.Fatalf("record count = %d, want 3", len(records))
	}

	// Write order is preserved.
	wantOrder := []Status{StatusSuccess, StatusBlocked, StatusError}
	for i, want := range wantOrder {
		if records[i].Status != want {
			t.Errorf("records[%d].Status = %q, want %q", i, records[i].Status, want)
		}
	}

	for _, record := range records {
		if record.ID == "" {
			t.Error("record missing ID")
		}
		if record.Timestamp.IsZero() {
			t.Error("record missing timestamp")
		}
	}
}

func TestQueryStatusFilter(t *testing.T) {
	log, err := NewLog(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("NewLog failed: %v", err)
	}
	defer log.Close()

	log.Append(testRecord(StatusSuccess))
	log.Append(testRecord(StatusBlocked))
	log.Append(testRecord(StatusBlocked))

	blocked := log.Query(Query{Status: StatusBlocked})
	if len(blocked) != 2 {
		t.Errorf("blocked count = %d, want 2", len(blocked))
	}
	if successes := log.Query(Query{Status: StatusSuccess}); len(successes) != 1 {
		t.Errorf("success count = %d, want 1", len(successes))
	}
}

func TestQueryTimeWindow(t *testing.T) {
	log, err := NewLog(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("NewLog failed: %v", err)
	}
	defer log.Close()

	old := testRecord(StatusSuccess)
	old.Timestamp = time.Now().Add(-2 * time.Hour)
	log.Append(old)
	log.Append(testRecord(StatusSuccess))

	cutoff := time.Now().Add(-1 * time.Hour)
	recent := log.Query(Query{Start: &cutoff})
	if len(recent) != 1 {
		t.Fatalf("recent count = %d, want 1", len(recent))
	}

	ancient := time.Now().Add(-3 * time.Hour)
	all := log.Query(Query{Start: &ancient})
	if len(all) != 2 {
		t.Errorf("windowed count = %d, want 2", len(all))
	}

	before := log.Query(Query{End: &cutoff})
	if len(before) != 1 {
		t.Errorf("end-bounded count = %d, want 1", len(before))
	}
}

func TestQueryMissingLedger(t *testing.T) {
	log, err := NewLog(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("NewLog failed: %v", err)
	}
	defer log.Close()

	if err := os.Remove(log.Path()); err != nil {
		t.Fatalf("failed to remove ledger: %v", err)
	}

	if records := log.Query(Query{}); len(records) != 0 {
		t.Errorf("missing ledger should query empty, got %d records", len(records))
	}
}

func TestQuerySkipsCorruptLines(t *testing.T) {
	dir := t.TempDir()
	log, err := NewLog(dir, nil)
	if err != nil {
		t.Fatalf("NewLog failed: %v", err)
	}
	defer log.Close()

	log.Append(testRecord(StatusSuccess))

	// Corrupt the ledger by hand, then append another good record.
	file, err := os.OpenFile(filepath.Join(dir, LogFileName), os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("failed to open ledger: %v", err)
	}
	if _, err := file.WriteString("{not json at all\n"); err != nil {
		t.Fatalf("failed to corrupt ledger: %v", err)
	}
	file.Close()

	log.Append(testRecord(StatusError))

	records := log.Query(Query{})
	if len(records) != 2 {
		t.Errorf("record count = %d, want 2 (corrupt line skipped)", len(records))
	}
}

func TestAppendNeverErrorsToCaller(t *testing.T) {
	log, err := NewLog(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("NewLog failed: %v", err)
	}
	if err := log.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// Append after close must not panic or block; the failure goes to the
	// side channel.
	log.Append(testRecord(StatusSuccess))

	select {
	case err := <-log.Errors():
		if err == nil {
			t.Error("side channel delivered nil error")
		}
	case <-time.After(time.Second):
		t.Error("expected a storage failure on the side channel")
	}
}

func TestAppendNilRecord(t *testing.T) {
	log, err := NewLog(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("NewLog failed: %v", err)
	}
	defer log.Close()

	log.Append(nil)

	select {
	case <-log.Errors():
	case <-time.After(time.Second):
		t.Error("nil record should surface on the side channel")
	}
	if records := log.Query(Query{}); len(records) != 0 {
		t.Errorf("nil record should not be persisted, got %d records", len(records))
	}
}

func TestConcurrentAppends(t *testing.T) {
	log, err := NewLog(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("NewLog failed: %v", err)
	}
	defer log.Close()

	const writers = 8
	const perWriter = 25

	done := make(chan struct{})
	for i := 0; i < writers; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < perWriter; j++ {
				log.Append(testRecord(StatusSuccess))
			}
		}()
	}
	for i := 0; i < writers; i++ {
		<-done
	}

	records := log.Query(Query{})
	if len(records) != writers*perWriter {
		t.Errorf("record count = %d, want %d (no interleaved partial writes)", len(records), writers*perWriter)
	}
}
