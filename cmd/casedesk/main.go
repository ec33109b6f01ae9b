package main

import (
	"context"
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/jask/casedesk/internal/backend"
	"github.com/jask/casedesk/internal/config"
	"github.com/jask/casedesk/internal/history"
	"github.com/jask/casedesk/internal/logging"
	"github.com/jask/casedesk/internal/session"
	"github.com/jask/casedesk/internal/tui"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, level, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("logging: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := config.Watch(ctx, config.Path(), func(c config.Config, err error) {
		if err != nil {
			logger.Warn("config reload rejected", zap.Error(err))
			return
		}
		if logging.SetLevel(level, c.Log.Level) {
			logger.Info("log level changed", zap.String("level", c.Log.Level))
		}
	}); err != nil {
		logger.Info("config watch disabled", zap.Error(err))
	}

	client, err := backend.New(cfg.Backend, logger)
	if err != nil {
		log.Fatalf("backend: %v", err)
	}
	hist, err := history.New(cfg.Session.HistoryCases, cfg.Session.HistorySize)
	if err != nil {
		log.Fatalf("history: %v", err)
	}

	logger.Info("starting", zap.String("backend", cfg.Backend.BaseURL), zap.String("case_id", cfg.Session.DefaultCase))

	p := tea.NewProgram(tui.New(ctx, cfg, client, session.New(logger), hist, logger), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}
