package port

import (
	"context"

	"eutectic-bot/internal/domain/entity"
)

// ArtifactStore хранилище выгруженных изображений и отчётов пакетной обработки
type ArtifactStore interface {
	// SaveArtifact сохраняет изображение в каталог задачи и возвращает путь
	SaveArtifact(ctx context.Context, taskID string, artifact entity.Artifact) (string, error)

	// SaveReport сохраняет JSON-отчёт задачи и возвращает путь
	SaveReport(ctx context.Context, taskID string, report entity.AnalysisReport) (string, error)
}

// ReportRepository хранилище сводок анализа
type ReportRepository interface {
	// SaveReport сохраняет сводку
	SaveReport(ctx context.Context, report entity.AnalysisReport) error

	// GetReport возвращает сводку по ID или entity.ErrReportNotFound
	GetReport(ctx context.Context, id string) (*entity.AnalysisReport, error)
}
