package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackbridge/jackbridge/internal/api"
	"github.com/jackbridge/jackbridge/internal/catalog"
	"github.com/jackbridge/jackbridge/internal/config"
	"github.com/jackbridge/jackbridge/internal/database"
	"github.com/jackbridge/jackbridge/internal/history"
	"github.com/jackbridge/jackbridge/internal/jackett"
	"github.com/jackbridge/jackbridge/internal/logger"
	"github.com/jackbridge/jackbridge/internal/scheduler"
	"github.com/jackbridge/jackbridge/internal/search"
)

const historyPruneCron = "0 4 * * *"

func main() {
	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(logger.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Path:       cfg.Logging.Path,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
	})
	defer log.Close()

	log.Info().
		Str("jackettUrl", cfg.Jackett.URL).
		Int("port", cfg.Server.Port).
		Msg("starting jackbridge")

	db, err := database.New(cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	jackettClient, err := jackett.NewClient(jackett.ClientConfig{
		URL:     cfg.Jackett.URL,
		APIKey:  cfg.Jackett.APIKey,
		Timeout: cfg.Jackett.Timeout,
		Logger:  log.Logger,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create jackett client")
	}

	catalogService := catalog.NewService(jackettClient, log.Logger)
	historyService := history.NewService(db.Conn(), log.Logger)

	dispatcher := search.NewDispatcher(
		jackettClient,
		time.Duration(cfg.Jackett.Timeout)*time.Second,
		log.Logger,
	)
	searchService := search.NewService(catalogService, dispatcher, log.Logger)
	searchService.SetHistoryRecorder(historyService)
	searchService.SetAllowedIndexers(cfg.Jackett.Indexers)

	sched, err := scheduler.New(log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create scheduler")
	}

	if err := sched.RegisterTask(scheduler.TaskConfig{
		ID:         "catalog-refresh",
		Name:       "Catalog Refresh",
		Cron:       cfg.Catalog.RefreshCron,
		Func:       catalogService.Refresh,
		RunOnStart: true,
	}); err != nil {
		log.Fatal().Err(err).Msg("failed to register catalog refresh task")
	}

	retention := time.Duration(cfg.History.RetentionDays) * 24 * time.Hour
	if err := sched.RegisterTask(scheduler.TaskConfig{
		ID:   "history-prune",
		Name: "History Prune",
		Cron: historyPruneCron,
		Func: func(ctx context.Context) error {
			return historyService.Prune(ctx, retention)
		},
	}); err != nil {
		log.Fatal().Err(err).Msg("failed to register history prune task")
	}

	sched.Start()

	server := api.NewServer(jackettClient, catalogService, searchService, historyService, log.Logger)

	go func() {
		if err := server.Start(cfg.Server.Address()); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	log.Info().Str("address", cfg.Server.Address()).Msg("server started")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	log.Info().Msg("received shutdown signal")

	if err := sched.Stop(); err != nil {
		log.Error().Err(err).Msg("scheduler shutdown error")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}

	log.Info().Msg("server stopped")
}
