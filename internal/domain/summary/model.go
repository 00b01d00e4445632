package summary

import (
	"fmt"
	"time"
)

// Record is the per-project session-memory document: a current-state block,
// an append-only decision log, a replaceable next-step list, and a version
// log with one row per accepted update.
type Record struct {
	Path         string     `json:"path"`
	Name         string     `json:"name"`
	Version      int        `json:"version"`
	CurrentState string     `json:"current_state"`
	Decisions    []string   `json:"decisions"`
	NextSteps    []string   `json:"next_steps"`
	VersionLog   []LogEntry `json:"version_log"`
	LastUpdated  time.Time  `json:"last_updated"`
}

// LogEntry is one row of the version log.
type LogEntry struct {
	Version int       `json:"version"`
	Date    time.Time `json:"date"`
	Summary string    `json:"summary"`
}

// Delta is an incremental update to a record. Decisions are appended in
// order and never deduplicated. A nil NextSteps leaves the existing list
// unchanged; a non-nil slice (including an empty one) replaces it wholesale.
type Delta struct {
	CurrentState *string  `json:"current_state,omitempty"`
	Decisions    []string `json:"decisions,omitempty"`
	NextSteps    []string `json:"next_steps,omitempty"`
	Summary      string   `json:"summary"`
}

// SnapshotID identifies an immutable copy of a record at a past version.
type SnapshotID struct {
	Path    string `json:"path"`
	Version int    `json:"version"`
}

func (id SnapshotID) String() string {
	return fmt.Sprintf("%s@v%d", id.Path, id.Version)
}

// Clone returns a deep copy of the record. Apply mutates a clone so the
// caller's record stays untouched when persistence fails.
func (r *Record) Clone() *Record {
	cp := *r
	cp.Decisions = append([]string(nil), r.Decisions...)
	cp.NextSteps = append([]string(nil), r.NextSteps...)
	cp.VersionLog = append([]LogEntry(nil), r.VersionLog...)
	return &cp
}
