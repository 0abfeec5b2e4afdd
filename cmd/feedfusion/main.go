package main

import (
	"context"
	"io"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/vavlxxx/Feed-Fusion/internal/api"
	"github.com/vavlxxx/Feed-Fusion/internal/app"
	"github.com/vavlxxx/Feed-Fusion/internal/config"
	"github.com/vavlxxx/Feed-Fusion/internal/directory"
	"github.com/vavlxxx/Feed-Fusion/internal/session"
	"github.com/vavlxxx/Feed-Fusion/internal/storage"
	"github.com/vavlxxx/Feed-Fusion/internal/tui"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := newLogger(cfg.LogFile)

	repo, err := storage.NewRepository(cfg.DBPath)
	if err != nil {
		log.Fatalf("storage init error: %v", err)
	}
	defer repo.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := repo.Init(ctx); err != nil {
		log.Fatalf("storage schema error: %v", err)
	}
	if err := repo.CheckWritable(ctx); err != nil {
		log.Fatalf("storage write check failed (%v). Verify FEEDFUSION_DB_PATH is writable: %s", err, cfg.DBPath)
	}

	creds, err := storage.NewCredentialSlot(ctx, repo, logger)
	if err != nil {
		log.Fatalf("cannot load stored credential: %v", err)
	}

	client := api.NewClient(cfg.APIBaseURL, creds, nil, logger)
	sess := session.NewManager(client, creds, logger)
	dir := directory.NewCache(client)
	service := app.NewService(client, sess, dir, cfg.PageSize, logger)

	program := tea.NewProgram(tui.NewModel(service), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		log.Fatalf("tui error: %v", err)
	}
}

// newLogger writes to the configured file, or discards everything: the TUI
// owns stdout and stderr.
func newLogger(path string) zerolog.Logger {
	if path == "" {
		return zerolog.New(io.Discard)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Printf("warning: cannot open log file %s: %v", path, err)
		return zerolog.New(io.Discard)
	}
	return zerolog.New(file).With().Timestamp().Logger()
}
