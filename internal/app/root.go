// Package app contains the Cobra command tree for hoshin.
package app

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/blackwell-systems/hoshin/internal/config"
	"github.com/blackwell-systems/hoshin/internal/output"
	"github.com/blackwell-systems/hoshin/internal/store"
	"github.com/blackwell-systems/hoshin/internal/tracker"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var appVersion = "dev"

// SetVersion sets the application version (called from main with ldflags value).
func SetVersion(v string) {
	appVersion = v
	rootCmd.Version = v
}

var (
	flagNoColor bool
	flagJSON    bool
	flagVerbose bool
	flagConfig  string
)

var rootCmd = &cobra.Command{
	Use:   "hoshin",
	Short: "Kano feature analysis and competitive insights for Hoshin Kanri planning",
	Long: `hoshin classifies product features with the Kano model, scores each
company's feature set, and compares your company against one or two
competitors to surface opportunities, threats, strengths and weaknesses.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		fmt.Fprintln(w, "hoshin", appVersion)
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Use a subcommand:")
		fmt.Fprintln(w, "  analysis  Create, list, show, import and export company analyses")
		fmt.Fprintln(w, "  feature   Add, update and remove features of an analysis")
		fmt.Fprintln(w, "  compare   Compare your company against one or two competitors")
		fmt.Fprintln(w, "  classify  Classify a single score pair")
		fmt.Fprintln(w, "  serve     Serve the JSON API")
		fmt.Fprintln(w, "  mcp       Run an MCP stdio server")
		return nil
	},
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/hoshin/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose output")
}

// env holds what most commands need: configuration, a logger and the
// tracker over an open store.
type env struct {
	cfg     *config.Config
	logger  zerolog.Logger
	db      *store.DB
	tracker *tracker.Service
}

func (e *env) Close() error {
	return e.db.Close()
}

// setup loads config, configures output and logging, and opens the store.
func setup() (*env, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	configureOutput(cfg)

	logger, err := newLogger(os.Stderr, cfg.Log.Level, flagVerbose)
	if err != nil {
		return nil, err
	}

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	logger.Debug().Str("db", cfg.DBPath).Msg("store opened")

	return &env{
		cfg:     cfg,
		logger:  logger,
		db:      db,
		tracker: tracker.New(db, cfg.Thresholds.Kano(), tracker.WithLogger(logger)),
	}, nil
}

func configureOutput(cfg *config.Config) {
	if flagNoColor || !cfg.Output.Color || !output.StdoutIsTerminal() {
		output.SetNoColor(true)
	}
}

// newLogger builds the diagnostic logger. Logs go to w, human-readable on a
// terminal and JSON otherwise.
func newLogger(w io.Writer, level string, verbose bool) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("parsing log level: %w", err)
	}
	if verbose {
		lvl = zerolog.DebugLevel
	}

	out := w
	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen, NoColor: output.IsNoColor()}
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger(), nil
}
