package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"eutectic-bot/config"
	"eutectic-bot/internal/container"
	"eutectic-bot/internal/domain/port"
	"eutectic-bot/internal/infrastructure/imageio"
	"eutectic-bot/internal/infrastructure/storage"
	"eutectic-bot/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	if err := config.SetupLogger(cfg.LogLevel, cfg.LogFormat); err != nil {
		logrus.Fatalf("Failed to setup logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	analyzer, err := container.NewAnalyzer(cfg.AnalyzerBackend)
	if err != nil {
		logrus.Fatalf("Failed to create analyzer: %v", err)
	}

	// Отчёты дублируются в PostgreSQL, если задан DATABASE_URL
	var reports port.ReportRepository
	if cfg.DatabaseURL != "" {
		db, err := storage.NewPostgresDB(ctx, cfg.DatabaseURL)
		if err != nil {
			logrus.Fatalf("Failed to connect to postgres: %v", err)
		}
		defer db.Close()

		repo := storage.NewPostgresReportRepository(db)
		if err := repo.Migrate(ctx); err != nil {
			logrus.Fatalf("Failed to migrate: %v", err)
		}
		reports = repo
	}

	appContainer := container.New(container.Dependencies{
		Users:    storage.NewMemoryUserRepository(),
		Analyzer: analyzer,
		Codec:    imageio.NewCodec(),
		Store:    storage.NewFileArtifactStore(cfg.StoragePath),
		Reports:  reports,
	})

	handler := worker.NewHandler(appContainer.AnalysisService, cfg.DefaultSettings().Params(), cfg.ExportFormat)
	consumer := worker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.GroupID, handler)

	logrus.WithFields(logrus.Fields{
		"brokers": cfg.Kafka.Brokers,
		"topic":   cfg.Kafka.Topic,
		"group":   cfg.Kafka.GroupID,
		"storage": cfg.StoragePath,
	}).Info("Connecting to Kafka")

	if err := consumer.Run(ctx); err != nil {
		logrus.Fatalf("Worker error: %v", err)
	}
}
