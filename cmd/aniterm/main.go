package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/rsawada/aniterm/internal/api"
	"github.com/rsawada/aniterm/internal/config"
	applog "github.com/rsawada/aniterm/internal/log"
	"github.com/rsawada/aniterm/internal/service"
	"github.com/rsawada/aniterm/internal/session"
	"github.com/rsawada/aniterm/internal/store"
	"github.com/rsawada/aniterm/internal/tui"
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	showVersion := flag.Bool("version", false, "print version and exit")
	baseURL := flag.String("api", "", "backend base URL (overrides config)")
	flushCache := flag.Bool("flush-cache", false, "drop cached catalog lists before starting")
	flag.Parse()

	if *showVersion {
		fmt.Printf("aniterm %s\n", version)
		return nil
	}

	// Optional deep link argument, e.g. "browse?genre=Action&page=2".
	seedLink := flag.Arg(0)

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("aniterm requires an interactive terminal")
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if *baseURL != "" {
		cfg.API.BaseURL = *baseURL
	}

	// Setup logger
	logger, err := applog.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = applog.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting aniterm", "version", version, "backend", cfg.API.BaseURL)

	// Local store for session credentials and catalog cache
	db, err := store.Open(config.DefaultDataPath())
	if err != nil {
		return fmt.Errorf("failed to open local store: %w", err)
	}
	defer db.Close()

	if *flushCache {
		if err := db.InvalidateCache(); err != nil {
			logger.Warn("failed to flush cache", "error", err)
		}
	}

	client := api.NewClient(cfg.API.BaseURL, time.Duration(cfg.API.TimeoutSeconds)*time.Second, logger)

	// Services
	sess := session.NewStore(client, db, logger)
	catalogSvc := service.NewCatalogService(client, db, logger)
	recSvc := service.NewRecommendService(client, logger)
	profileSvc := service.NewProfileService(client, logger)
	adminSvc := service.NewAdminService(client, logger)

	model := tui.NewModel(sess, catalogSvc, recSvc, profileSvc, adminSvc, cfg, logger, seedLink)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}
