package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"eutectic-bot/internal/domain/entity"
)

const (
	BackendNative = "native"
	BackendGoCV   = "gocv"
)

type Config struct {
	TelegramToken   string
	HTTPAddr        string
	GinMode         string
	AnalyzerBackend string

	MinRegionSize  int
	Polarity       entity.Polarity
	ExportFormat   entity.ExportFormat
	PreviewMaxSide int
	MaxUploadBytes int64

	LogLevel  string
	LogFormat string

	Redis RedisConfig
	Kafka KafkaConfig

	StoragePath string
	DatabaseURL string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
	GroupID string
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	polarity, err := entity.ParsePolarity(v.GetString("POLARITY"))
	if err != nil {
		return nil, fmt.Errorf("POLARITY: %w", err)
	}
	format, err := entity.ParseExportFormat(v.GetString("EXPORT_FORMAT"))
	if err != nil {
		return nil, fmt.Errorf("EXPORT_FORMAT: %w", err)
	}

	cfg := &Config{
		TelegramToken:   v.GetString("TELEGRAM_TOKEN"),
		HTTPAddr:        v.GetString("HTTP_ADDR"),
		GinMode:         v.GetString("GIN_MODE"),
		AnalyzerBackend: strings.ToLower(v.GetString("ANALYZER_BACKEND")),

		MinRegionSize:  v.GetInt("MIN_REGION_SIZE"),
		Polarity:       polarity,
		ExportFormat:   format,
		PreviewMaxSide: v.GetInt("PREVIEW_MAX_SIDE"),
		MaxUploadBytes: v.GetInt64("MAX_UPLOAD_BYTES"),

		LogLevel:  v.GetString("LOG_LEVEL"),
		LogFormat: v.GetString("LOG_FORMAT"),

		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			TTL:      v.GetDuration("REDIS_TTL"),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(v.GetString("KAFKA_BROKERS")),
			Topic:   v.GetString("KAFKA_TOPIC"),
			GroupID: v.GetString("KAFKA_GROUP_ID"),
		},

		StoragePath: v.GetString("STORAGE_PATH"),
		DatabaseURL: v.GetString("DATABASE_URL"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("ANALYZER_BACKEND", BackendNative)
	v.SetDefault("MIN_REGION_SIZE", entity.DefaultMinRegionSize)
	v.SetDefault("POLARITY", string(entity.PolarityDark))
	v.SetDefault("EXPORT_FORMAT", string(entity.FormatPNG))
	v.SetDefault("PREVIEW_MAX_SIDE", 1280)
	v.SetDefault("MAX_UPLOAD_BYTES", 20<<20)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_TTL", time.Duration(0))
	v.SetDefault("KAFKA_BROKERS", "localhost:9094")
	v.SetDefault("KAFKA_TOPIC", "eutectic-tasks")
	v.SetDefault("KAFKA_GROUP_ID", "eutectic-worker")
	v.SetDefault("STORAGE_PATH", "./storage")
}

// Validate проверяет значения, которые нельзя исправить молча.
func (c *Config) Validate() error {
	params := entity.AnalysisParams{MinRegionSize: c.MinRegionSize, Polarity: c.Polarity}
	if err := params.Validate(); err != nil {
		return fmt.Errorf("MIN_REGION_SIZE/POLARITY: %w", err)
	}
	if c.AnalyzerBackend != BackendNative && c.AnalyzerBackend != BackendGoCV {
		return fmt.Errorf("ANALYZER_BACKEND: unknown backend %q", c.AnalyzerBackend)
	}
	if c.PreviewMaxSide <= 0 {
		return fmt.Errorf("PREVIEW_MAX_SIDE must be positive, got %d", c.PreviewMaxSide)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive, got %d", c.MaxUploadBytes)
	}
	return nil
}

// DefaultSettings настройки анализа для новых пользователей бота.
func (c *Config) DefaultSettings() entity.UserSettings {
	return entity.UserSettings{
		ExportFormat:  c.ExportFormat,
		MinRegionSize: c.MinRegionSize,
		Polarity:      c.Polarity,
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
