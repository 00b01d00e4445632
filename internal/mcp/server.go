package mcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ganot/chronicle/internal/domain/activity"
	"github.com/ganot/chronicle/internal/domain/locator"
	"github.com/ganot/chronicle/internal/domain/registry"
	"github.com/ganot/chronicle/internal/domain/summary"
)

const serverInstructions = `chronicle keeps a durable per-project session memory (SUMMARY.md) for coding assistants.

Mental model:
- Project: a directory tree owning one summary document, found via a .chronicle marker or the registry.
- Summary record: current state + append-only decisions + replaceable next steps + a version log, one row per save.
- Every save snapshots the previous version first; history is never rewritten.

Default workflow:
1) Orient: call locate_project with your working directory.
2) Read: get_summary for the located path; use it to restore context.
3) On "save project context": call save_context with a one-line session summary; add decisions made and the revised next steps.
4) New project: create_summary once, then save_context on subsequent sessions.
5) Browse: list_projects and get_recent_activity for cross-project orientation.

Rules:
- Never call create_summary to "fix" an existing record; it fails on purpose.
- save_context rejects empty updates; always provide a meaningful summary line.
- Decisions are permanent. Phrase them as decisions, not progress notes.`

// LocatorService defines locate operations needed by MCP.
type LocatorService interface {
	Locate(ctx context.Context, currentDir string) (*locator.Project, error)
}

// SummaryService defines record lifecycle operations needed by MCP.
type SummaryService interface {
	Load(ctx context.Context, dir string) (*summary.Record, error)
	Create(ctx context.Context, req summary.CreateRequest) (*summary.Record, error)
}

// SessionService defines update operations needed by MCP.
type SessionService interface {
	Apply(ctx context.Context, dir string, delta summary.Delta) (*summary.Record, error)
}

// RegistryService defines registry operations needed by MCP.
type RegistryService interface {
	Register(ctx context.Context, path, name, summaryDir string) (*registry.Entry, error)
	List(ctx context.Context) ([]registry.Entry, error)
}

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	LogCreate(ctx context.Context, projectPath, name string) error
	Recent(ctx context.Context, opts activity.ListOptions) ([]activity.Entry, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Locator  LocatorService
	Summary  SummaryService
	Sessions SessionService
	Registry RegistryService
	Activity ActivityService
}

// Config contains server configuration.
type Config struct {
	Services Services
	Logger   *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "chronicle",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, newHandler(cfg.Services, cfg.Logger))

	return server
}
