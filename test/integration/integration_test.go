package integration_test

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ganot/chronicle/internal/domain/activity"
	"github.com/ganot/chronicle/internal/domain/locator"
	"github.com/ganot/chronicle/internal/domain/registry"
	"github.com/ganot/chronicle/internal/domain/session"
	"github.com/ganot/chronicle/internal/domain/summary"
	"github.com/ganot/chronicle/internal/sqlite"
	"github.com/ganot/chronicle/internal/summaryfile"
	"github.com/ganot/chronicle/internal/testutil"
)

type testEnv struct {
	db           *sqlite.DB
	registryRepo *sqlite.RegistryRepository
	activityRepo *sqlite.ActivityRepository

	summarySvc  *summary.Store
	sessionSvc  *session.Service
	registrySvc *registry.Service
	activitySvc *activity.Service
	locatorSvc  *locator.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { _ = db.Close() })

	registryRepo := sqlite.NewRegistryRepository(db)
	activityRepo := sqlite.NewActivityRepository(db)

	summarySvc := summary.NewStore(summaryfile.NewStore(), summary.SnapshotPolicyIgnore, nil)
	registrySvc := registry.NewService(registryRepo, 30*24*time.Hour, nil)
	activitySvc := activity.NewService(activityRepo, nil)
	sessionSvc := session.NewService(summarySvc, activitySvc, registrySvc, nil)
	locatorSvc := locator.NewService(registrySvc, summarySvc, 0, nil)

	return &testEnv{
		db:           db,
		registryRepo: registryRepo,
		activityRepo: activityRepo,
		summarySvc:   summarySvc,
		sessionSvc:   sessionSvc,
		registrySvc:  registrySvc,
		activitySvc:  activitySvc,
		locatorSvc:   locatorSvc,
	}
}

func TestIntegration_ColdStartWorkflow(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	root := testutil.ProjectDir(t, filepath.Join("internal", "api"))

	// New project: create the summary record, then register it.
	rec, err := env.summarySvc.Create(ctx, summary.CreateRequest{
		Dir:          root,
		Name:         "Widget",
		InitialState: "initial setup",
	})
	require.NoError(t, err)
	require.Equal(t, 1, rec.Version)

	_, err = env.registrySvc.Register(ctx, root, "Widget", filepath.Join(root, ".chronicle"))
	require.NoError(t, err)

	// A later session in a subdirectory finds the project via the marker walk.
	workdir := filepath.Join(root, "internal", "api")
	proj, err := env.locatorSvc.Locate(ctx, workdir)
	require.NoError(t, err)
	require.Equal(t, root, proj.Path)
	require.Equal(t, "Widget", proj.Name)

	// Two session saves accumulate decisions and version-log rows.
	rec, err = env.sessionSvc.Apply(ctx, proj.Path, summary.Delta{
		Decisions: []string{"use SQLite for the registry"},
		NextSteps: []string{"write the watcher"},
		Summary:   "wired storage",
	})
	require.NoError(t, err)
	require.Equal(t, 2, rec.Version)

	rec, err = env.sessionSvc.Apply(ctx, proj.Path, summary.Delta{
		Summary: "watcher done",
	})
	require.NoError(t, err)
	require.Equal(t, 3, rec.Version)
	require.Len(t, rec.Decisions, 1)
	require.Len(t, rec.VersionLog, 2)

	// The document round-trips: a fresh load sees exactly what was saved.
	reloaded, err := env.summarySvc.Load(ctx, proj.Path)
	require.NoError(t, err)
	require.Equal(t, rec.Version, reloaded.Version)
	require.Equal(t, rec.Decisions, reloaded.Decisions)
	require.Equal(t, rec.NextSteps, reloaded.NextSteps)
	require.Equal(t, rec.CurrentState, reloaded.CurrentState)

	// Snapshots exist for every superseded version.
	docs := summaryfile.NewStore()
	for v := 1; v <= 2; v++ {
		exists, err := docs.SnapshotExists(ctx, proj.Path, v)
		require.NoError(t, err)
		require.True(t, exists, "missing snapshot for version %d", v)
	}

	// Both saves landed in the activity log, newest first.
	entries, err := env.activitySvc.Recent(ctx, activity.ListOptions{ProjectPath: proj.Path})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, activity.TypeUpdated, entries[0].Type)
	require.Equal(t, "watcher done", entries[0].Summary)
}

func TestIntegration_RegistryFallbackLocate(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	// Deep enough that the marker walk gives up before reaching the root.
	root := testutil.ProjectDir(t, filepath.Join("a", "b", "c", "d", "e"))

	_, err := env.summarySvc.Create(ctx, summary.CreateRequest{Dir: root, Name: "Widget"})
	require.NoError(t, err)
	_, err = env.registrySvc.Register(ctx, root, "Widget", filepath.Join(root, ".chronicle"))
	require.NoError(t, err)

	deep := filepath.Join(root, "a", "b", "c", "d", "e")
	proj, err := env.locatorSvc.Locate(ctx, deep)
	require.NoError(t, err)
	require.Equal(t, root, proj.Path)
	require.Equal(t, "Widget", proj.Name)
}

func TestIntegration_SaveRefreshesRegistryFreshness(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	root := t.TempDir()

	_, err := env.summarySvc.Create(ctx, summary.CreateRequest{Dir: root, Name: "Widget"})
	require.NoError(t, err)
	before, err := env.registrySvc.Register(ctx, root, "Widget", filepath.Join(root, ".chronicle"))
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	_, err = env.sessionSvc.Apply(ctx, root, summary.Delta{Summary: "touch check"})
	require.NoError(t, err)

	after, err := env.registrySvc.Lookup(ctx, root)
	require.NoError(t, err)
	require.True(t, after.LastTouched.After(before.LastTouched), "apply must refresh registry freshness")
}

func TestIntegration_CreateRefusedForTrackedProject(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	root := t.TempDir()

	_, err := env.summarySvc.Create(ctx, summary.CreateRequest{Dir: root, Name: "Widget"})
	require.NoError(t, err)

	_, err = env.summarySvc.Create(ctx, summary.CreateRequest{Dir: root, Name: "Widget Again"})
	require.ErrorIs(t, err, summary.ErrAlreadyExists)

	// The original record is untouched.
	rec, err := env.summarySvc.Load(ctx, root)
	require.NoError(t, err)
	require.Equal(t, "Widget", rec.Name)
	require.Equal(t, 1, rec.Version)
}
