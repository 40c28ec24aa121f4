package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/calegria/ytfill/internal/enrich"
	"github.com/calegria/ytfill/internal/formatter"
	"github.com/calegria/ytfill/internal/models"
	"github.com/calegria/ytfill/internal/repositories"
	"github.com/calegria/ytfill/internal/shared"
	"github.com/urfave/cli/v3"
)

// Process exit codes for the distinct run outcomes. Partial progress is
// committed for quota and shutdown exits; re-running continues the work.
const (
	exitQuotaExceeded = 2
	exitPrereqMissing = 3
	exitLockHeld      = 4
	exitInterrupted   = 5
)

// Enrich runs one reconciliation pass: prerequisite gate, lock acquisition,
// engine run, report output, lock release on every path.
func (r *Runner) Enrich(ctx context.Context, cmd *cli.Command) error {
	priority, err := models.ParsePriority(cmd.String("priority"))
	if err != nil {
		return err
	}

	config := r.loadConfig(cmd)
	db, shouldClose, err := r.openDB(config)
	if err != nil {
		return err
	}
	if shouldClose {
		defer db.Close()
	}

	skipPrereq := cmd.Bool("skip-prereq-check")
	if !skipPrereq {
		if err := r.ensurePrerequisites(db, cmd.Bool("auto-seed")); err != nil {
			var prereqErr *shared.PrerequisiteError
			if errors.As(err, &prereqErr) {
				return cli.Exit(fmt.Sprintf("%v (run 'ytfill seed' or pass --auto-seed)", prereqErr), exitPrereqMissing)
			}
			return err
		}
	}

	lockRepo := repositories.NewLockRepository(db)
	handle, err := lockRepo.Acquire(cmd.Bool("force"), lockHolder())
	if err != nil {
		if errors.Is(err, shared.ErrLockHeld) {
			return cli.Exit(err.Error(), exitLockHeld)
		}
		return err
	}
	defer handle.Release()

	shutdown := enrich.NewShutdownCoordinator(r.logger)
	shutdown.Install()
	defer shutdown.Uninstall()

	engine := enrich.NewEngine(enrich.EngineOpts{
		DB:          db,
		Fetcher:     r.fetcherFor(config),
		Logger:      r.logger,
		Shutdown:    shutdown,
		BatchSize:   config.Enrichment.BatchSize,
		QuotaBudget: config.Enrichment.QuotaBudget,
	})

	report, runErr := engine.Enrich(ctx, enrich.Options{
		Priority:           priority,
		Limit:              int(cmd.Int("limit")),
		IncludeDeleted:     cmd.Bool("include-deleted"),
		DryRun:             cmd.Bool("dry-run"),
		CheckPrerequisites: !skipPrereq,
	})

	if report != nil {
		if err := r.outputReport(report, cmd); err != nil {
			return err
		}
	}

	if runErr != nil {
		switch {
		case errors.Is(runErr, shared.ErrPrerequisitesMissing):
			return cli.Exit(runErr.Error(), exitPrereqMissing)
		case errors.Is(runErr, shared.ErrQuotaExceeded):
			return cli.Exit(runErr.Error(), exitQuotaExceeded)
		case errors.Is(runErr, shared.ErrShutdown):
			return cli.Exit(runErr.Error(), exitInterrupted)
		default:
			return runErr
		}
	}

	return nil
}

// ensurePrerequisites runs the pre-flight reference-table check, optionally
// seeding missing tables once and re-checking.
func (r *Runner) ensurePrerequisites(db repositories.Querier, autoSeed bool) error {
	checker := enrich.NewPrerequisiteChecker(db)

	err := checker.Check()
	if err == nil || !autoSeed {
		return err
	}

	var prereqErr *shared.PrerequisiteError
	if !errors.As(err, &prereqErr) {
		return err
	}

	refs := repositories.NewReferenceRepository(db)
	for _, table := range prereqErr.Missing {
		switch table {
		case "categories":
			if _, err := refs.SeedCategories(); err != nil {
				return err
			}
		case "topics":
			if _, err := refs.SeedTopics(); err != nil {
				return err
			}
		}
		r.logger.Info("seeded reference table", "table", table)
	}

	return checker.Check()
}

func (r *Runner) outputReport(report *models.EnrichmentReport, cmd *cli.Command) error {
	if path := cmd.String("report"); path != "" {
		if err := formatter.WriteReportJSON(report, path); err != nil {
			return err
		}
		r.logger.Info("wrote report artifact", "path", path)
	}

	if path := cmd.String("csv"); path != "" {
		data, err := formatter.ExportReportCSV(report)
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed to write CSV export: %w", err)
		}
		r.logger.Info("wrote CSV export", "path", path)
	}

	if cmd.Bool("json") {
		return r.writeJSON(report, cmd.Bool("pretty"))
	}
	return r.writePlain("%s", formatter.RenderReport(report))
}

// lockHolder identifies this process in the lock row so a stale lock is
// attributable.
func lockHolder() string {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}
	return fmt.Sprintf("%s#%d/%s", host, os.Getpid(), shared.GenerateID()[:8])
}
