package agent

import "sync/atomic"

// stats counts processed commands by outcome. All fields are updated
// atomically; Snapshot reads may interleave with writers and can be
// momentarily inconsistent between counters, which is fine for telemetry.
type stats struct {
	total      atomic.Int64
	successful atomic.Int64
	blocked    atomic.Int64
	errors     atomic.Int64
}

// Stats is a point-in-time view of the agent's counters.
type Stats struct {
	TotalCommands      int64 `json:"total_commands"`
	SuccessfulCommands int64 `json:"successful_commands"`
	BlockedCommands    int64 `json:"blocked_commands"`
	ErrorCommands      int64 `json:"error_commands"`
}

func (s *stats) snapshot() Stats {
	return Stats{
		TotalCommands:      s.total.Load(),
		SuccessfulCommands: s.successful.Load(),
		BlockedCommands:    s.blocked.Load(),
		ErrorCommands:      s.errors.Load(),
	}
}
