package main

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/calegria/ytfill/internal/models"
	"github.com/calegria/ytfill/internal/repositories"
	"github.com/calegria/ytfill/internal/services"
	"github.com/calegria/ytfill/internal/shared"
	tu "github.com/calegria/ytfill/internal/testing"
	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
)

type testApp struct {
	app    *cli.Command
	db     *sql.DB
	output *bytes.Buffer
}

// newTestApp builds a CLI wired to an in-memory database and a mock fetcher.
// The exit error handler is disabled so exit-coded errors come back to the
// test instead of terminating the process.
func newTestApp(t *testing.T, fetcher services.BatchFetcher) *testApp {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	var output bytes.Buffer
	runner := NewRunner(RunnerOpts{
		Logger:  log.New(&bytes.Buffer{}),
		Output:  &output,
		DB:      db,
		Fetcher: fetcher,
	})

	app := &cli.Command{
		Name:           "ytfill",
		Commands:       runner.register(),
		ExitErrHandler: func(ctx context.Context, cmd *cli.Command, err error) {},
	}

	return &testApp{app: app, db: db, output: &output}
}

func (a *testApp) run(t *testing.T, args ...string) error {
	t.Helper()
	return a.app.Run(context.Background(), append([]string{"ytfill"}, args...))
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	var coder cli.ExitCoder
	if !errors.As(err, &coder) {
		t.Fatalf("expected exit-coded error, got %v", err)
	}
	return coder.ExitCode()
}

func TestNewRunnerDefaults(t *testing.T) {
	runner := NewRunner(RunnerOpts{})

	if runner.config == nil {
		t.Error("expected default config")
	}
	if runner.logger == nil {
		t.Error("expected default logger")
	}
	if runner.output == nil {
		t.Error("expected default output")
	}
}

func TestLockHolder(t *testing.T) {
	holder := lockHolder()
	if !strings.Contains(holder, "#") || !strings.Contains(holder, "/") {
		t.Errorf("expected host#pid/id shape, got %q", holder)
	}
	if holder == lockHolder() {
		t.Error("holders must be unique per invocation")
	}
}

func TestSeedCommand(t *testing.T) {
	app := newTestApp(t, &tu.MockFetcher{})

	if err := app.run(t, "seed"); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if !strings.Contains(app.output.String(), "categories") || !strings.Contains(app.output.String(), "topics") {
		t.Errorf("expected seed summary, got %q", app.output.String())
	}

	refs := repositories.NewReferenceRepository(app.db)
	if count, _ := refs.CountCategories(); count == 0 {
		t.Error("expected categories to be seeded")
	}
	if count, _ := refs.CountTopics(); count == 0 {
		t.Error("expected topics to be seeded")
	}
}

func TestIngestCommand(t *testing.T) {
	app := newTestApp(t, &tu.MockFetcher{})

	if err := app.run(t, "ingest", "abc", "def"); err != nil {
		t.Fatalf("ingest failed: %v", err)
	}
	if !strings.Contains(app.output.String(), "Ingested 2 of 2") {
		t.Errorf("unexpected output: %q", app.output.String())
	}

	// Duplicates are skipped, not errors.
	app.output.Reset()
	if err := app.run(t, "ingest", "abc", "ghi"); err != nil {
		t.Fatalf("second ingest failed: %v", err)
	}
	if !strings.Contains(app.output.String(), "Ingested 1 of 2") {
		t.Errorf("unexpected output: %q", app.output.String())
	}

	video, err := repositories.NewVideoRepository(app.db).GetByVideoID("abc")
	if err != nil {
		t.Fatalf("failed to get ingested video: %v", err)
	}
	if video.Title() != models.PlaceholderTitle("abc") {
		t.Errorf("expected placeholder title, got %q", video.Title())
	}

	if err := app.run(t, "ingest"); err == nil {
		t.Error("ingest without ids should fail")
	}
}

func TestEnrichCommand(t *testing.T) {
	t.Run("end to end run", func(t *testing.T) {
		fetcher := &tu.MockFetcher{Items: map[string]services.RemoteVideo{
			"abc": tu.RemoteVideoFixture("abc", "A Real Title", "UCchannel"),
		}}
		app := newTestApp(t, fetcher)

		if err := app.run(t, "ingest", "abc", "def"); err != nil {
			t.Fatalf("ingest failed: %v", err)
		}
		if err := app.run(t, "enrich", "--priority", "high", "--auto-seed"); err != nil {
			t.Fatalf("enrich failed: %v", err)
		}

		if fetcher.Calls != 1 {
			t.Errorf("expected one remote call, got %d", fetcher.Calls)
		}

		videos := repositories.NewVideoRepository(app.db)
		enriched, err := videos.GetByVideoID("abc")
		if err != nil {
			t.Fatalf("failed to get video: %v", err)
		}
		if enriched.Title() != "A Real Title" {
			t.Errorf("expected enriched title, got %q", enriched.Title())
		}
		gone, err := videos.GetByVideoID("def")
		if err != nil {
			t.Fatalf("failed to get video: %v", err)
		}
		if !gone.Deleted() {
			t.Error("expected def to be marked deleted")
		}

		// Lock must be released after the run.
		state, err := repositories.NewLockRepository(app.db).State()
		if err != nil {
			t.Fatalf("failed to read lock state: %v", err)
		}
		if state.Held {
			t.Error("lock should be free after the run")
		}
	})

	t.Run("invalid priority is rejected", func(t *testing.T) {
		app := newTestApp(t, &tu.MockFetcher{})

		err := app.run(t, "enrich", "--priority", "urgent")
		if !errors.Is(err, shared.ErrInvalidPriority) {
			t.Errorf("expected ErrInvalidPriority, got %v", err)
		}
	})

	t.Run("missing prerequisites exit 3", func(t *testing.T) {
		app := newTestApp(t, &tu.MockFetcher{})

		err := app.run(t, "enrich")
		if code := exitCode(t, err); code != 3 {
			t.Errorf("expected exit code 3, got %d", code)
		}
	})

	t.Run("held lock exits 4", func(t *testing.T) {
		app := newTestApp(t, &tu.MockFetcher{})
		if err := app.run(t, "seed"); err != nil {
			t.Fatalf("seed failed: %v", err)
		}

		if _, err := repositories.NewLockRepository(app.db).Acquire(false, "another-run"); err != nil {
			t.Fatalf("failed to pre-acquire lock: %v", err)
		}

		err := app.run(t, "enrich")
		if code := exitCode(t, err); code != 4 {
			t.Errorf("expected exit code 4, got %d", code)
		}

		// Force takes over.
		if err := app.run(t, "enrich", "--force"); err != nil {
			t.Errorf("force run should succeed: %v", err)
		}
	})

	t.Run("quota exhaustion exits 2", func(t *testing.T) {
		items := make(map[string]services.RemoteVideo)
		ids := make([]string, 0, 60)
		for i := 0; i < 60; i++ {
			id := string(rune('a'+i/26)) + string(rune('a'+i%26))
			ids = append(ids, id)
			items[id] = tu.RemoteVideoFixture(id, "Title "+id, "UCchannel")
		}
		app := newTestApp(t, &tu.MockFetcher{Items: items, FailAfter: 1})

		if err := app.run(t, append([]string{"ingest"}, ids...)...); err != nil {
			t.Fatalf("ingest failed: %v", err)
		}
		if err := app.run(t, "seed"); err != nil {
			t.Fatalf("seed failed: %v", err)
		}

		err := app.run(t, "enrich")
		if code := exitCode(t, err); code != 2 {
			t.Errorf("expected exit code 2, got %d", code)
		}

		// Partial progress must be visible and the lock released.
		state, err := repositories.NewLockRepository(app.db).State()
		if err != nil {
			t.Fatalf("failed to read lock state: %v", err)
		}
		if state.Held {
			t.Error("lock should be released after an interrupted run")
		}
	})

	t.Run("dry run leaves the archive untouched", func(t *testing.T) {
		fetcher := &tu.MockFetcher{Items: map[string]services.RemoteVideo{
			"abc": tu.RemoteVideoFixture("abc", "A Real Title", "UCchannel"),
		}}
		app := newTestApp(t, fetcher)

		if err := app.run(t, "ingest", "abc"); err != nil {
			t.Fatalf("ingest failed: %v", err)
		}
		if err := app.run(t, "enrich", "--dry-run", "--auto-seed"); err != nil {
			t.Fatalf("dry run failed: %v", err)
		}

		video, err := repositories.NewVideoRepository(app.db).GetByVideoID("abc")
		if err != nil {
			t.Fatalf("failed to get video: %v", err)
		}
		if video.Title() != models.PlaceholderTitle("abc") {
			t.Error("dry run must not mutate the archive")
		}
	})

	t.Run("json output", func(t *testing.T) {
		fetcher := &tu.MockFetcher{Items: map[string]services.RemoteVideo{
			"abc": tu.RemoteVideoFixture("abc", "A Real Title", "UCchannel"),
		}}
		app := newTestApp(t, fetcher)

		if err := app.run(t, "ingest", "abc"); err != nil {
			t.Fatalf("ingest failed: %v", err)
		}
		if err := app.run(t, "enrich", "--auto-seed", "--json"); err != nil {
			t.Fatalf("enrich failed: %v", err)
		}
		if !strings.Contains(app.output.String(), `"videos_updated":1`) {
			t.Errorf("expected JSON summary in output, got %q", app.output.String())
		}
	})
}

func TestStatusCommand(t *testing.T) {
	app := newTestApp(t, &tu.MockFetcher{})

	if err := app.run(t, "ingest", "abc", "def"); err != nil {
		t.Fatalf("ingest failed: %v", err)
	}
	if err := app.run(t, "status"); err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if !strings.Contains(app.output.String(), "enriched") {
		t.Errorf("expected status output, got %q", app.output.String())
	}

	app.output.Reset()
	if err := app.run(t, "status", "--json"); err != nil {
		t.Fatalf("status --json failed: %v", err)
	}
	if !strings.Contains(app.output.String(), `"total_videos":2`) {
		t.Errorf("expected JSON status, got %q", app.output.String())
	}
}

func TestLockCommands(t *testing.T) {
	app := newTestApp(t, &tu.MockFetcher{})

	if err := app.run(t, "lock", "show"); err != nil {
		t.Fatalf("lock show failed: %v", err)
	}
	if !strings.Contains(app.output.String(), "Lock free") {
		t.Errorf("expected free lock, got %q", app.output.String())
	}

	if _, err := repositories.NewLockRepository(app.db).Acquire(false, "stuck-run"); err != nil {
		t.Fatalf("failed to acquire lock: %v", err)
	}

	app.output.Reset()
	if err := app.run(t, "lock", "show"); err != nil {
		t.Fatalf("lock show failed: %v", err)
	}
	if !strings.Contains(app.output.String(), "stuck-run") {
		t.Errorf("expected lock holder in output, got %q", app.output.String())
	}

	app.output.Reset()
	if err := app.run(t, "lock", "clear"); err != nil {
		t.Fatalf("lock clear failed: %v", err)
	}
	if !strings.Contains(app.output.String(), "Lock cleared") {
		t.Errorf("expected clear confirmation, got %q", app.output.String())
	}

	state, err := repositories.NewLockRepository(app.db).State()
	if err != nil {
		t.Fatalf("failed to read state: %v", err)
	}
	if state.Held {
		t.Error("lock should be free after clear")
	}
}
