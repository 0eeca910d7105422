package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	app "eutectic-bot/internal/application"
	"eutectic-bot/internal/domain/entity"
)

var ErrEmptySource = errors.New("task has no source_path")

type Handler struct {
	service  *app.AnalysisService
	defaults entity.AnalysisParams
	format   entity.ExportFormat
}

func NewHandler(service *app.AnalysisService, defaults entity.AnalysisParams, format entity.ExportFormat) *Handler {
	return &Handler{service: service, defaults: defaults, format: format}
}

// HandleMessage разбирает задачу, читает снимок с диска и сохраняет результаты анализа.
func (h *Handler) HandleMessage(ctx context.Context, value []byte) (*entity.AnalysisReport, error) {
	var task AnalysisTask
	if err := json.Unmarshal(value, &task); err != nil {
		return nil, fmt.Errorf("parse task: %w", err)
	}
	return h.Handle(ctx, task)
}

func (h *Handler) Handle(ctx context.Context, task AnalysisTask) (*entity.AnalysisReport, error) {
	if task.SourcePath == "" {
		return nil, ErrEmptySource
	}
	if task.ID == "" {
		task.ID = uuid.New().String()
	}

	params, format, err := h.resolve(task)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(task.SourcePath)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}

	log := logrus.WithFields(logrus.Fields{
		"task_id":  task.ID,
		"source":   task.SourcePath,
		"min_size": params.MinRegionSize,
		"polarity": params.Polarity,
	})
	log.Info("Processing analysis task")

	report, err := h.service.AnalyzeAndStore(ctx, task.ID, task.SourcePath, data, params, format)
	if err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"threshold":       report.Threshold,
		"fraction_before": report.FractionBefore,
		"fraction_after":  report.FractionAfter,
	}).Info("Analysis task completed")
	return report, nil
}

func (h *Handler) resolve(task AnalysisTask) (entity.AnalysisParams, entity.ExportFormat, error) {
	params := h.defaults
	format := h.format

	if task.MinSize != nil {
		params.MinRegionSize = *task.MinSize
	}
	if task.Polarity != "" {
		p, err := entity.ParsePolarity(task.Polarity)
		if err != nil {
			return params, format, err
		}
		params.Polarity = p
	}
	if task.Format != "" {
		f, err := entity.ParseExportFormat(task.Format)
		if err != nil {
			return params, format, err
		}
		format = f
	}

	return params, format, params.Validate()
}
