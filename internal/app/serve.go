package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/blackwell-systems/hoshin/internal/server"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	serveAddr    string
	serveEnvFile string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON API",
	Long: `Serve analyses, features, comparisons and classification over HTTP under
/api/v1. Environment variables from a .env file are applied before the
configuration is loaded, so HOSHIN_* settings can live there.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config server.addr)")
	serveCmd.Flags().StringVar(&serveEnvFile, "env-file", ".env", "Environment file to load if present")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := loadEnvFile(serveEnvFile); err != nil {
		return err
	}

	e, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = e.Close() }()

	addr := e.cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	api := server.NewWebAPI(e.logger, server.Config{
		Addr:            addr,
		ShutdownTimeout: e.cfg.Server.ShutdownGrace(),
		Tracker:         e.tracker,
	})

	ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return api.Start(ctx)
}

// loadEnvFile applies variables from path without overriding ones already
// set. A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
