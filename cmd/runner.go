package main

import (
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/calegria/ytfill/internal/services"
	"github.com/calegria/ytfill/internal/shared"
	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for
// each command action.
type Runner struct {
	config  *shared.Config
	logger  *log.Logger
	output  io.Writer
	db      *sql.DB               // injected in tests; opened from config otherwise
	fetcher services.BatchFetcher // injected in tests; YouTube client otherwise
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config  *shared.Config
	Logger  *log.Logger
	Output  io.Writer
	DB      *sql.DB
	Fetcher services.BatchFetcher
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:  opts.Config,
		logger:  opts.Logger,
		output:  opts.Output,
		db:      opts.DB,
		fetcher: opts.Fetcher,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, enrichCommand, statusCommand, seedCommand, ingestCommand, lockCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// loadConfig reads the config file named by the --config flag, falling back
// to defaults when the file does not exist.
func (r *Runner) loadConfig(cmd *cli.Command) *shared.Config {
	path := cmd.String("config")
	if path == "" {
		return r.config
	}
	if _, err := os.Stat(path); err != nil {
		return r.config
	}

	config, err := shared.LoadConfig(path)
	if err != nil {
		r.logger.Warn("failed to load config, using defaults", "path", path, "error", err)
		return r.config
	}
	return config
}

// openDB returns the injected database or opens one from config. The caller
// owns closing when shouldClose is true.
func (r *Runner) openDB(config *shared.Config) (db *sql.DB, shouldClose bool, err error) {
	if r.db != nil {
		return r.db, false, nil
	}

	db, err = shared.NewDatabase(config.Database.Path)
	if err != nil {
		return nil, false, err
	}
	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
	return db, true, nil
}

// fetcherFor returns the injected fetcher or a YouTube client built from
// config.
func (r *Runner) fetcherFor(config *shared.Config) services.BatchFetcher {
	if r.fetcher != nil {
		return r.fetcher
	}
	return services.NewYouTubeService(config.YouTube.BaseURL, config.YouTube.APIKey, config.YouTube.RateLimit)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return err
	}

	if _, err := r.output.Write(append(output, '\n')); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
