// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// setupCommand initializes config and database
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Initialize config file and run database migrations",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Setup,
	}
}

// enrichCommand runs the reconciliation engine
func enrichCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "enrich",
		Aliases: []string{"run"},
		Usage:   "Reconcile placeholder metadata against the YouTube Data API",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:    "priority",
				Aliases: []string{"p"},
				Usage:   "Priority tier: high, medium, low, or all",
				Value:   "high",
			},
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Maximum number of videos to select (0 = no limit)",
			},
			&cli.BoolFlag{
				Name:  "include-deleted",
				Usage: "Let soft-deleted videos into the selection",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Report what would change without touching the database",
			},
			&cli.BoolFlag{
				Name:    "force",
				Aliases: []string{"f"},
				Usage:   "Take over a held enrichment lock (crash recovery)",
			},
			&cli.BoolFlag{
				Name:  "skip-prereq-check",
				Usage: "Skip the reference-table pre-flight check",
			},
			&cli.BoolFlag{
				Name:  "auto-seed",
				Usage: "Seed missing reference tables instead of aborting",
			},
			&cli.StringFlag{
				Name:  "report",
				Usage: "Write the full report as JSON to this path",
			},
			&cli.StringFlag{
				Name:  "csv",
				Usage: "Write per-video details as CSV to this path",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the report as JSON instead of a summary table",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print JSON output",
			},
		},
		Action: r.Enrich,
	}
}

// statusCommand reports enrichment progress
func statusCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show per-tier counts and enrichment percentage",
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
		},
		Action: r.Status,
	}
}

// seedCommand populates reference tables
func seedCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Seed category and topic reference tables",
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{
				Name:  "categories",
				Usage: "Seed only video categories",
			},
			&cli.BoolFlag{
				Name:  "topics",
				Usage: "Seed only topics",
			},
		},
		Action: r.Seed,
	}
}

// ingestCommand registers placeholder records
func ingestCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "ingest",
		Usage:     "Register video ids with placeholder metadata",
		ArgsUsage: "VIDEO_ID [VIDEO_ID...]",
		Flags:     []cli.Flag{configFlag()},
		Action:    r.Ingest,
	}
}

// lockCommand inspects and clears the enrichment lock
func lockCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "lock",
		Usage: "Inspect or clear the enrichment run lock",
		Commands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the current lock state",
				Flags:  []cli.Flag{configFlag()},
				Action: r.LockShow,
			},
			{
				Name:   "clear",
				Usage:  "Force-release the lock left by a crashed run",
				Flags:  []cli.Flag{configFlag()},
				Action: r.LockClear,
			},
		},
	}
}
