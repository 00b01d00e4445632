package registry

import "time"

// Entry is one registered project. The registry is the locator's fallback
// when the marker-file walk fails: it maps known project roots to their
// summary directories, with freshness bookkeeping maintained by the
// watcher.
type Entry struct {
	Path        string    `json:"path"`
	Name        string    `json:"name"`
	SummaryDir  string    `json:"summary_dir"`
	LastTouched time.Time `json:"last_touched"`
	Expires     time.Time `json:"expires,omitempty"`
}

// Expired reports whether the entry's freshness window has passed. A zero
// Expires means the entry never expires.
func (e *Entry) Expired(now time.Time) bool {
	return !e.Expires.IsZero() && now.After(e.Expires)
}
