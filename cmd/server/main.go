package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/ganot/chronicle/internal/config"
	"github.com/ganot/chronicle/internal/domain/activity"
	"github.com/ganot/chronicle/internal/domain/locator"
	"github.com/ganot/chronicle/internal/domain/registry"
	"github.com/ganot/chronicle/internal/domain/session"
	"github.com/ganot/chronicle/internal/domain/summary"
	"github.com/ganot/chronicle/internal/mcp"
	"github.com/ganot/chronicle/internal/sqlite"
	"github.com/ganot/chronicle/internal/summaryfile"
)

func main() {
	cmd := &cli.Command{
		Name:   "chronicle",
		Usage:  "MCP server giving coding assistants durable per-project session memory",
		Action: run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file",
				Sources: cli.EnvVars("CHRONICLE_CONFIG_PATH"),
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "chronicle: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	if path := cmd.String("config"); path != "" {
		os.Setenv("CHRONICLE_CONFIG_PATH", path)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		return fmt.Errorf("prepare database path: %w", err)
	}

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	registryRepo := sqlite.NewRegistryRepository(db)
	activityRepo := sqlite.NewActivityRepository(db)
	docs := summaryfile.NewStore()

	registrySvc := registry.NewService(registryRepo, cfg.Registry.TTL, logger)
	activitySvc := activity.NewService(activityRepo, logger)
	summarySvc := summary.NewStore(docs, summary.SnapshotPolicy(cfg.Snapshots.DuplicatePolicy), logger)
	sessionSvc := session.NewService(summarySvc, activitySvc, registrySvc, logger)
	locatorSvc := locator.NewService(registrySvc, summarySvc, cfg.Locator.MaxWalkDepth, logger)

	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Locator:  locatorSvc,
			Summary:  summarySvc,
			Sessions: sessionSvc,
			Registry: registrySvc,
			Activity: activitySvc,
		},
		Logger: logger,
	})

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)

	if cfg.Registry.Watch {
		watcher := registry.NewWatcher(registrySvc, cfg.Registry.WatchInterval, logger)
		group.Go(func() error { return watcher.Run(ctx) })
	}

	// The watcher only stops on context cancellation, so the transport
	// goroutine cancels explicitly when it finishes (e.g. stdin closes).
	if cfg.Transport.Mode == "stdio" {
		group.Go(func() error {
			defer stop()
			return runStdio(ctx, logger, mcpServer)
		})
	} else {
		group.Go(func() error {
			defer stop()
			return runHTTP(ctx, logger, mcpServer, cfg.Server.Host, cfg.Server.Port)
		})
	}

	if err := group.Wait(); err != nil {
		logger.Error("server error", "error", err)
		return err
	}
	return nil
}

func runStdio(ctx context.Context, logger *slog.Logger, server *sdkmcp.Server) error {
	logger.Info("starting stdio transport")
	return server.Run(ctx, &sdkmcp.StdioTransport{})
}

func runHTTP(ctx context.Context, logger *slog.Logger, server *sdkmcp.Server, host string, port int) error {
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(r *http.Request) *sdkmcp.Server { return server },
		&sdkmcp.StreamableHTTPOptions{
			Stateless:      false,
			SessionTimeout: 30 * time.Minute,
		},
	)

	router := http.NewServeMux()
	router.Handle("/mcp", mcpHandler)
	router.Handle("/mcp/", mcpHandler)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	addr := fmt.Sprintf("%s:%d", host, port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger.Info("shutting down")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown error", "error", err)
		}
	}()

	logger.Info("server listening", "addr", addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// newLogger builds the process logger. Stdio mode logs to stderr so stdout
// stays clean for JSON-RPC; a log file path in config takes precedence.
func newLogger(cfg config.Config) (*slog.Logger, func(), error) {
	writer := io.Writer(os.Stdout)
	if cfg.Transport.Mode == "stdio" {
		writer = os.Stderr
	}

	closeLog := func() {}
	if cfg.Log.Path != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Log.Path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("prepare log path: %w", err)
		}
		file, err := os.OpenFile(cfg.Log.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		writer = file
		closeLog = func() { file.Close() }
	}

	logger := slog.New(slog.NewTextHandler(writer, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))
	return logger, closeLog, nil
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
