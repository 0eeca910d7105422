package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"eutectic-bot/config"
	telegram "eutectic-bot/internal/api"
	"eutectic-bot/internal/container"
	"eutectic-bot/internal/domain/port"
	"eutectic-bot/internal/infrastructure/imageio"
	"eutectic-bot/internal/infrastructure/storage"
	"eutectic-bot/internal/transport"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	if err := config.SetupLogger(cfg.LogLevel, cfg.LogFormat); err != nil {
		logrus.Fatalf("Failed to setup logger: %v", err)
	}

	if cfg.TelegramToken == "" && cfg.HTTPAddr == "" {
		logrus.Fatal("TELEGRAM_TOKEN or HTTP_ADDR is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Хранилище пользователей: Redis, если задан адрес, иначе память
	var userRepo port.UserRepository
	if cfg.Redis.Addr != "" {
		client, err := storage.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logrus.Fatalf("Failed to connect to redis: %v", err)
		}
		defer client.Close()
		userRepo = storage.NewRedisUserRepository(client, cfg.Redis.TTL, cfg.DefaultSettings())
	} else {
		userRepo = storage.NewMemoryUserRepositoryWithDefaults(cfg.DefaultSettings())
	}

	analyzer, err := container.NewAnalyzer(cfg.AnalyzerBackend)
	if err != nil {
		logrus.Fatalf("Failed to create analyzer: %v", err)
	}

	// Сводки воркера читаются из PostgreSQL через GET /api/v1/reports/:id
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

	// Собираем сервисы приложения
	appContainer := container.New(container.Dependencies{
		Users:    userRepo,
		Analyzer: analyzer,
		Codec:    imageio.NewCodec(),
		Reports:  reports,
	})

	errCh := make(chan error, 2)
	running := 0

	var server *transport.Server
	if cfg.HTTPAddr != "" {
		gin.SetMode(cfg.GinMode)
		handler := transport.NewAnalysisHandler(
			appContainer.AnalysisService,
			cfg.DefaultSettings().Params(),
			cfg.ExportFormat,
			cfg.MaxUploadBytes,
		)
		server = transport.NewServer(cfg.HTTPAddr, transport.InitRoutes(handler))

		running++
		go func() {
			logrus.WithField("addr", cfg.HTTPAddr).Info("HTTP server is running")
			errCh <- server.Run()
		}()
	}

	if cfg.TelegramToken != "" {
		bot, err := telegram.NewBot(cfg.TelegramToken, appContainer, telegram.Options{
			PreviewMaxSide: cfg.PreviewMaxSide,
			MaxUploadBytes: cfg.MaxUploadBytes,
		})
		if err != nil {
			logrus.Fatalf("Failed to create bot: %v", err)
		}

		running++
		go func() {
			logrus.Info("Bot is running...")
			errCh <- bot.Run(ctx)
		}()
	}

	select {
	case <-ctx.Done():
		logrus.Info("Shutting down")
	case err := <-errCh:
		running--
		if err != nil {
			logrus.WithError(err).Error("Service stopped with error")
		}
		stop()
	}

	if server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logrus.WithError(err).Error("HTTP server shutdown failed")
		}
	}

	for ; running > 0; running-- {
		if err := <-errCh; err != nil {
			logrus.WithError(err).Error("Service stopped with error")
		}
	}
}
