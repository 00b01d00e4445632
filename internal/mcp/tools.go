package mcp

import (
	"context"
	"encoding/json"
	"log/slog"
	"path/filepath"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ganot/chronicle/internal/domain/activity"
	"github.com/ganot/chronicle/internal/domain/summary"
	"github.com/ganot/chronicle/internal/summaryfile"
)

func summaryDir(projectPath string) string {
	return filepath.Join(projectPath, summaryfile.MarkerDir)
}

// handler carries the domain services behind the MCP tools.
type handler struct {
	services Services
	logger   *slog.Logger
}

func newHandler(services Services, logger *slog.Logger) *handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &handler{services: services, logger: logger}
}

func registerTools(server *sdkmcp.Server, h *handler) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "locate_project",
		Description: "Find the tracked project covering a directory, via marker walk then registry",
	}, h.locateProject)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_summary",
		Description: "Load the summary record for a project path",
	}, h.getSummary)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_summary",
		Description: "Start tracking a project: create its version-1 summary record and register it",
	}, h.createSummary)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "save_context",
		Description: "Apply a session update: snapshot the current version, then record new decisions, next steps, and a version-log entry",
	}, h.saveContext)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List all registered projects",
	}, h.listProjects)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_recent_activity",
		Description: "Get recent accepted updates, optionally filtered to one project",
	}, h.getRecentActivity)
}

func (h *handler) locateProject(ctx context.Context, _ *sdkmcp.CallToolRequest, params LocateProjectParams) (*sdkmcp.CallToolResult, LocateProjectResult, error) {
	proj, err := h.services.Locator.Locate(ctx, params.Dir)
	if err != nil {
		return errorResult(err), LocateProjectResult{}, nil
	}
	return nil, LocateProjectResult{Project: proj}, nil
}

func (h *handler) getSummary(ctx context.Context, _ *sdkmcp.CallToolRequest, params GetSummaryParams) (*sdkmcp.CallToolResult, GetSummaryResult, error) {
	rec, err := h.services.Summary.Load(ctx, params.Path)
	if err != nil {
		return errorResult(err), GetSummaryResult{}, nil
	}
	return nil, GetSummaryResult{Record: rec}, nil
}

func (h *handler) createSummary(ctx context.Context, _ *sdkmcp.CallToolRequest, params CreateSummaryParams) (*sdkmcp.CallToolResult, CreateSummaryResult, error) {
	rec, err := h.services.Summary.Create(ctx, summary.CreateRequest{
		Dir:          params.Path,
		Name:         params.Name,
		InitialState: params.InitialState,
		SeedStep:     params.SeedStep,
	})
	if err != nil {
		return errorResult(err), CreateSummaryResult{}, nil
	}

	// Registration and the activity row are advisory; the record is
	// already persisted.
	if _, err := h.services.Registry.Register(ctx, rec.Path, rec.Name, summaryDir(rec.Path)); err != nil {
		h.logger.Warn("register after create failed", "path", rec.Path, "error", err)
	}
	if err := h.services.Activity.LogCreate(ctx, rec.Path, rec.Name); err != nil {
		h.logger.Warn("activity log after create failed", "path", rec.Path, "error", err)
	}

	return nil, CreateSummaryResult{Record: rec}, nil
}

func (h *handler) saveContext(ctx context.Context, _ *sdkmcp.CallToolRequest, params SaveContextParams) (*sdkmcp.CallToolResult, SaveContextResult, error) {
	rec, err := h.services.Sessions.Apply(ctx, params.Path, summary.Delta{
		CurrentState: params.CurrentState,
		Decisions:    params.Decisions,
		NextSteps:    params.NextSteps,
		Summary:      params.Summary,
	})
	if err != nil {
		return errorResult(err), SaveContextResult{}, nil
	}
	return nil, SaveContextResult{Record: rec}, nil
}

func (h *handler) listProjects(ctx context.Context, _ *sdkmcp.CallToolRequest, _ ListProjectsParams) (*sdkmcp.CallToolResult, ListProjectsResult, error) {
	entries, err := h.services.Registry.List(ctx)
	if err != nil {
		return errorResult(err), ListProjectsResult{}, nil
	}
	result := ListProjectsResult{Projects: make([]ProjectEntry, 0, len(entries))}
	for _, e := range entries {
		result.Projects = append(result.Projects, ProjectEntry{
			Path:        e.Path,
			Name:        e.Name,
			LastTouched: e.LastTouched,
			Expires:     e.Expires,
		})
	}
	return nil, result, nil
}

func (h *handler) getRecentActivity(ctx context.Context, _ *sdkmcp.CallToolRequest, params GetRecentActivityParams) (*sdkmcp.CallToolResult, GetRecentActivityResult, error) {
	entries, err := h.services.Activity.Recent(ctx, activity.ListOptions{
		ProjectPath: params.ProjectPath,
		Limit:       params.Limit,
	})
	if err != nil {
		return errorResult(err), GetRecentActivityResult{}, nil
	}
	return nil, GetRecentActivityResult{Activity: entries}, nil
}

// errorResult converts a domain error into a structured tool error. Errors
// without a mapping surface their plain text.
func errorResult(err error) *sdkmcp.CallToolResult {
	apiErr := MapError(err)
	if apiErr == nil {
		apiErr = &APIError{Code: "INTERNAL", Message: err.Error()}
	}
	payload, marshalErr := json.Marshal(apiErr)
	if marshalErr != nil {
		payload = []byte(apiErr.Error())
	}
	return &sdkmcp.CallToolResult{
		IsError: true,
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(payload)}},
	}
}
