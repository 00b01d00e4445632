package activity

import "time"

// Type classifies an activity entry.
type Type string

const (
	TypeCreated Type = "summary_created"
	TypeUpdated Type = "session_saved"
)

// Entry is one row of the append-only update log.
type Entry struct {
	ID          string    `json:"id"`
	ProjectPath string    `json:"project_path"`
	Type        Type      `json:"type"`
	Version     int       `json:"version"`
	Summary     string    `json:"summary"`
	CreatedAt   time.Time `json:"created_at"`
}
