package cmd

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"miniatlas/internal/config"
	"miniatlas/internal/domain"
	"miniatlas/internal/eventbus"
	"miniatlas/internal/highlight"
	"miniatlas/internal/observability"
	"miniatlas/internal/search"
	"miniatlas/internal/ui"
)

var (
	configPath   string
	dataPath     string
	geometryPath string
)

var rootCmd = &cobra.Command{
	Use:   "miniatlas",
	Short: "miniatlas: interactive country atlas",
	Long: "Search countries by name, code or capital, explore them on a terminal world map\n" +
		"and serve the dataset as JSON.",
	SilenceUsage: true,
	RunE:         runTUI,
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default: user config dir)")
	rootCmd.PersistentFlags().StringVar(&dataPath, "data", "", "countries JSON file (default: bundled dataset)")
	rootCmd.PersistentFlags().StringVar(&geometryPath, "geometry", "", "GeoJSON world geometry (default: bundled)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(regionsCmd)
	rootCmd.AddCommand(configCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// The terminal belongs to the UI, so logs go to a file
	logger, err := observability.NewLogger(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	bus := eventbus.New(logger)
	defer bus.Close()
	defer subscribeAudit(bus, logger)()

	data, atlas, err := loadAtlas(cfg, bus)
	if err != nil {
		return err
	}

	coord := highlight.NewCoordinator(data, search.NewRanker(cfg.Search.Language), bus)
	model := ui.NewModel(coord, atlas, cfg, logger)

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithContext(cmd.Context()),
	)
	model.SetProgram(p)

	// Set up event forwarding to UI
	eventChan := make(chan eventbus.DomainEvent, 100)
	done := make(chan struct{})
	defer close(done)
	forward := func(e eventbus.DomainEvent) {
		select {
		case eventChan <- e:
		default:
			// Channel full, drop event
			logger.Warn("event channel full, dropping event", zap.String("type", string(e.Type())))
		}
	}
	for _, t := range []domain.EventType{domain.EventRegionToggled, domain.EventFiltersCleared, domain.EventError} {
		defer bus.Subscribe(t, forward)()
	}
	go func() {
		for {
			select {
			case event := <-eventChan:
				p.Send(ui.EventMsg{Event: event})
			case <-done:
				return
			}
		}
	}()

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}

// loadConfig reads the config file, then applies command-line overrides
func loadConfig() (*config.Config, error) {
	cfg, err := configService().Load()
	if err != nil {
		return nil, err
	}
	if dataPath != "" {
		cfg.Data.Countries = dataPath
	}
	if geometryPath != "" {
		cfg.Data.Geometry = geometryPath
	}
	return cfg, nil
}

func configService() config.ConfigService {
	if configPath != "" {
		return config.NewConfigServiceAt(configPath)
	}
	return config.NewConfigService()
}
