package main

import (
	"context"

	"github.com/calegria/ytfill/internal/enrich"
	"github.com/calegria/ytfill/internal/formatter"
	"github.com/urfave/cli/v3"
)

// Status prints tier counts and the overall enrichment percentage. Read-only
// and lock-free, so it is safe while an enrichment run is in flight.
func (r *Runner) Status(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd)
	db, shouldClose, err := r.openDB(config)
	if err != nil {
		return err
	}
	if shouldClose {
		defer db.Close()
	}

	status, err := enrich.NewStatusReporter(db).Status()
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(status, cmd.Bool("pretty"))
	}
	return r.writePlain("%s", formatter.RenderStatus(status))
}
