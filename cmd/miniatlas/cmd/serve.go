package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"miniatlas/internal/eventbus"
	"miniatlas/internal/observability"
	"miniatlas/internal/search"
	"miniatlas/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dataset as a read-only JSON API",
	Long:  "Serves countries, search, regions and insights over HTTP until interrupted.",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, \":8080\")")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	logger, err := observability.NewLogger(cfg.Log.Level, "stdout")
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	bus := eventbus.New(logger)
	defer bus.Close()
	defer subscribeAudit(bus, logger)()

	data, err := loadDataset(cfg, bus)
	if err != nil {
		return err
	}

	handlers := server.NewHandlers(data, search.NewRanker(cfg.Search.Language))
	router := server.NewRouter(handlers, logger)
	return server.Run(cmd.Context(), router, server.Options{
		Addr:         cfg.Server.Addr,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
		IdleTimeout:  cfg.Server.IdleTimeout.Duration,
	}, logger)
}
