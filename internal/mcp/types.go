package mcp

import (
	"time"

	"github.com/ganot/chronicle/internal/domain/activity"
	"github.com/ganot/chronicle/internal/domain/locator"
	"github.com/ganot/chronicle/internal/domain/summary"
)

type LocateProjectParams struct {
	Dir string `json:"dir" jsonschema:"directory to resolve, typically the assistant's working directory"`
}

type LocateProjectResult struct {
	Project *locator.Project `json:"project"`
}

type GetSummaryParams struct {
	Path string `json:"path" jsonschema:"project root directory"`
}

type GetSummaryResult struct {
	Record *summary.Record `json:"record"`
}

type CreateSummaryParams struct {
	Path         string `json:"path" jsonschema:"project root directory"`
	Name         string `json:"name" jsonschema:"project display name"`
	InitialState string `json:"initial_state,omitempty" jsonschema:"short description of where the project stands"`
	SeedStep     string `json:"seed_step,omitempty" jsonschema:"first next-step entry (optional)"`
}

type CreateSummaryResult struct {
	Record *summary.Record `json:"record"`
}

type SaveContextParams struct {
	Path         string   `json:"path" jsonschema:"project root directory"`
	CurrentState *string  `json:"current_state,omitempty" jsonschema:"replacement current-state block (omit to keep)"`
	Decisions    []string `json:"decisions,omitempty" jsonschema:"decisions to append, in order"`
	NextSteps    []string `json:"next_steps,omitempty" jsonschema:"replacement next-step list (omit to keep)"`
	Summary      string   `json:"summary" jsonschema:"one-line session summary for the version log"`
}

type SaveContextResult struct {
	Record *summary.Record `json:"record"`
}

type ListProjectsParams struct{}

type ProjectEntry struct {
	Path        string    `json:"path"`
	Name        string    `json:"name"`
	LastTouched time.Time `json:"last_touched"`
	Expires     time.Time `json:"expires,omitzero"`
}

type ListProjectsResult struct {
	Projects []ProjectEntry `json:"projects"`
}

type GetRecentActivityParams struct {
	ProjectPath string `json:"project_path,omitempty" jsonschema:"filter to one project root"`
	Limit       int    `json:"limit,omitempty" jsonschema:"maximum number of entries"`
}

type GetRecentActivityResult struct {
	Activity []activity.Entry `json:"activity"`
}
