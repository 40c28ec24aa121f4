package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/calegria/ytfill/internal/models"
	"github.com/calegria/ytfill/internal/repositories"
	"github.com/calegria/ytfill/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup initializes the config file (if missing) and applies database
// migrations.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")
	if err := shared.CreateConfigFile(path); err == nil {
		r.logger.Info("created config file", "path", path)
	}

	config := r.loadConfig(cmd)
	db, shouldClose, err := r.openDB(config)
	if err != nil {
		return err
	}
	if shouldClose {
		defer db.Close()
	}

	if err := shared.RunMigrations(db); err != nil {
		return err
	}

	r.logger.Info("database ready", "path", config.Database.Path)
	return nil
}

// Seed populates the category and topic reference tables. Both are seeded
// unless one is selected explicitly.
func (r *Runner) Seed(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd)
	db, shouldClose, err := r.openDB(config)
	if err != nil {
		return err
	}
	if shouldClose {
		defer db.Close()
	}

	refs := repositories.NewReferenceRepository(db)

	onlyCategories := cmd.Bool("categories")
	onlyTopics := cmd.Bool("topics")
	seedBoth := !onlyCategories && !onlyTopics

	if onlyCategories || seedBoth {
		inserted, err := refs.SeedCategories()
		if err != nil {
			return err
		}
		r.writePlain("Seeded %d categories\n", inserted)
	}

	if onlyTopics || seedBoth {
		inserted, err := refs.SeedTopics()
		if err != nil {
			return err
		}
		r.writePlain("Seeded %d topics\n", inserted)
	}

	return nil
}

// Ingest registers video ids in the archive with placeholder metadata. The
// records start fully un-enriched and deleted=false; a later enrichment run
// fills them in.
func (r *Runner) Ingest(ctx context.Context, cmd *cli.Command) error {
	ids := cmd.Args().Slice()
	if len(ids) == 0 {
		return fmt.Errorf("%w: at least one video id", shared.ErrInvalidInput)
	}

	config := r.loadConfig(cmd)
	db, shouldClose, err := r.openDB(config)
	if err != nil {
		return err
	}
	if shouldClose {
		defer db.Close()
	}

	videos := repositories.NewVideoRepository(db)

	created := 0
	for _, id := range ids {
		if _, err := videos.GetByVideoID(id); err == nil {
			r.logger.Debug("video already archived", "video_id", id)
			continue
		} else if !errors.Is(err, shared.ErrVideoNotFound) {
			return err
		}

		if err := videos.Create(models.NewPlaceholderVideo(id)); err != nil {
			return err
		}
		created++
	}

	r.writePlain("Ingested %d of %d videos\n", created, len(ids))
	return nil
}

// LockShow prints the current enrichment lock state.
func (r *Runner) LockShow(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd)
	db, shouldClose, err := r.openDB(config)
	if err != nil {
		return err
	}
	if shouldClose {
		defer db.Close()
	}

	state, err := repositories.NewLockRepository(db).State()
	if err != nil {
		return err
	}

	if !state.Held {
		return r.writePlain("Lock free\n")
	}
	return r.writePlain("Lock held by %s since %s\n", state.Holder, state.AcquiredAt.Format("2006-01-02 15:04:05"))
}

// LockClear force-releases the enrichment lock. Recovery path for locks left
// behind by a crashed run; never use while a run is actually in flight.
func (r *Runner) LockClear(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd)
	db, shouldClose, err := r.openDB(config)
	if err != nil {
		return err
	}
	if shouldClose {
		defer db.Close()
	}

	if err := repositories.NewLockRepository(db).Clear(); err != nil {
		return err
	}
	return r.writePlain("Lock cleared\n")
}
