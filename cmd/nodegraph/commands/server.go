package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/nodegraph/am"
	"github.com/teranos/nodegraph/errors"
	"github.com/teranos/nodegraph/logger"
	"github.com/teranos/nodegraph/server"
)

// ServerCmd starts the websocket layout server
var ServerCmd = &cobra.Command{
	Use:     "server",
	Aliases: []string{"serve"},
	Short:   "Start the nodegraph layout server",
	Long: `Launch the nodegraph server. Browsers connect to /ws, load a tag filter or a
focus node, and receive simulation frames while they drag, click and zoom.

HTTP endpoints:
  /health       server status, version and memory
  /api/graph    projected graph for ?q=
  /api/tags     tag tree
  /api/layout   headless converged frame for ?q=
  /api/import   POST a json, yaml or toml graph`,
	RunE: runServer,
}

var (
	serverPort    int
	serverDBPath  string
	serverNoWatch bool
)

func init() {
	ServerCmd.Flags().IntVar(&serverPort, "port", 0, "Port to listen on (default from config, then 8787)")
	ServerCmd.Flags().StringVar(&serverDBPath, "db-path", "", "Custom database path (overrides config)")
	ServerCmd.Flags().BoolVar(&serverNoWatch, "no-watch", false, "Do not reload config files when they change")
}

func runServer(cmd *cobra.Command, args []string) error {
	// Get verbosity flag - default to 1 (Info) for server
	verbosity, _ := cmd.Flags().GetCount("verbose")
	if verbosity == 0 {
		verbosity = logger.VerbosityInfo
	}
	jsonLogs, _ := cmd.Flags().GetBool("json-logs")

	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	if err := logger.Setup(logger.Options{
		JSON:  jsonLogs,
		Level: logger.VerbosityToLevel(verbosity),
		Theme: cfg.GetServerLogTheme(),
	}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	port := serverPort
	if port == 0 {
		port = cfg.GetServerPort()
	}

	database, dbPath, err := openDatabase(serverDBPath)
	if err != nil {
		return errors.Wrap(err, "failed to open database")
	}
	defer database.Close()

	printStartupBanner(verbosity, dbPath, port)

	srv, err := server.New(database, cfg, verbosity, logger.Logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	if !serverNoWatch {
		if err := srv.WatchConfig(am.ConfigPaths()...); err != nil {
			pterm.Warning.Printf("Config hot reload disabled: %v\n", err)
		}
	}

	logger.OpenInfow("Server starting", logger.FieldPort, port, logger.FieldFile, dbPath)
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start(port)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return errors.Wrap(err, "server failed to start")
	case <-sigChan:
		// First Ctrl+C - graceful shutdown
		pterm.Info.Println("\nShutting down gracefully (press Ctrl+C again to force)...")

		shutdownDone := make(chan error, 1)
		go func() {
			shutdownDone <- srv.Stop()
		}()

		select {
		case err := <-shutdownDone:
			if err != nil {
				return fmt.Errorf("shutdown error: %w", err)
			}
			logger.CloseInfow("Server stopped", logger.FieldPort, port)
			pterm.Success.Println("Server stopped cleanly")
			return nil
		case <-sigChan:
			// Second Ctrl+C - force immediate exit
			pterm.Warning.Println("\nForce shutdown - exiting immediately")
			os.Exit(1)
			return nil
		}
	}
}
