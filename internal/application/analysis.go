package app

import (
	"context"
	"errors"
	"fmt"

	"eutectic-bot/internal/domain/entity"
	"eutectic-bot/internal/domain/port"
)

// Имена выгружаемых изображений.
const (
	ArtifactOriginal    = "original_image"
	ArtifactThresholded = "otsu_thresh"
	ArtifactCleaned     = "cleaned_binary"
)

// ErrNotConfigured зависимость сервиса не передана в контейнер.
var ErrNotConfigured = errors.New("dependency is not configured")

type AnalysisService struct {
	analyzer port.PhaseAnalyzer
	codec    port.ImageCodec
	store    port.ArtifactStore
	reports  port.ReportRepository
}

// AnalysisOutput содержит результат анализа и закодированные изображения.
type AnalysisOutput struct {
	Image       entity.Image
	Result      *entity.AnalysisResult
	Original    entity.Artifact
	Thresholded entity.Artifact
	Cleaned     entity.Artifact
}

// Artifacts возвращает изображения в порядке показа: исходное, после порога, после очистки.
func (o *AnalysisOutput) Artifacts() []entity.Artifact {
	return []entity.Artifact{o.Original, o.Thresholded, o.Cleaned}
}

// Artifact ищет изображение по имени (original_image, otsu_thresh, cleaned_binary).
func (o *AnalysisOutput) Artifact(name string) (entity.Artifact, bool) {
	for _, a := range o.Artifacts() {
		if a.Name == name {
			return a, true
		}
	}
	return entity.Artifact{}, false
}

// NewAnalysisService создаёт сервис анализа. store и reports могут быть nil.
func NewAnalysisService(analyzer port.PhaseAnalyzer, codec port.ImageCodec, store port.ArtifactStore, reports port.ReportRepository) *AnalysisService {
	return &AnalysisService{
		analyzer: analyzer,
		codec:    codec,
		store:    store,
		reports:  reports,
	}
}

// Analyze декодирует загрузку, прогоняет конвейер и кодирует три изображения в выбранный формат.
func (s *AnalysisService) Analyze(ctx context.Context, data []byte, params entity.AnalysisParams, format entity.ExportFormat) (*AnalysisOutput, error) {
	if s.analyzer == nil || s.codec == nil {
		return nil, fmt.Errorf("analysis service: %w", ErrNotConfigured)
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	img, err := s.codec.Decode(data)
	if err != nil {
		return nil, err
	}

	result, err := s.analyzer.Analyze(ctx, img, params)
	if err != nil {
		return nil, err
	}

	out := &AnalysisOutput{Image: img, Result: result}
	if out.Original, err = s.encodeImage(ArtifactOriginal, img, format); err != nil {
		return nil, err
	}
	if out.Thresholded, err = s.encodeMask(ArtifactThresholded, result.Thresholded, format); err != nil {
		return nil, err
	}
	if out.Cleaned, err = s.encodeMask(ArtifactCleaned, result.Cleaned, format); err != nil {
		return nil, err
	}

	return out, nil
}

// Preview готовит уменьшенную PNG-копию маски для показа в чате.
func (s *AnalysisService) Preview(mask entity.Mask, maxSide int) ([]byte, error) {
	if s.codec == nil {
		return nil, fmt.Errorf("analysis service: %w", ErrNotConfigured)
	}
	return s.codec.Preview(mask, maxSide)
}

// AnalyzeAndStore анализирует изображение пакетной задачи, сохраняет изображения и отчёт.
func (s *AnalysisService) AnalyzeAndStore(ctx context.Context, id, source string, data []byte, params entity.AnalysisParams, format entity.ExportFormat) (*entity.AnalysisReport, error) {
	if s.store == nil {
		return nil, fmt.Errorf("artifact store: %w", ErrNotConfigured)
	}

	out, err := s.Analyze(ctx, data, params, format)
	if err != nil {
		return nil, err
	}

	for _, a := range out.Artifacts() {
		if _, err := s.store.SaveArtifact(ctx, id, a); err != nil {
			return nil, fmt.Errorf("save %s: %w", a.Name, err)
		}
	}

	report := out.Result.Report()
	report.ID = id
	report.Source = source

	if _, err := s.store.SaveReport(ctx, id, report); err != nil {
		return nil, fmt.Errorf("save report: %w", err)
	}
	if s.reports != nil {
		if err := s.reports.SaveReport(ctx, report); err != nil {
			return nil, err
		}
	}

	return &report, nil
}

// Report читает сохранённую сводку пакетной обработки.
func (s *AnalysisService) Report(ctx context.Context, id string) (*entity.AnalysisReport, error) {
	if s.reports == nil {
		return nil, fmt.Errorf("report repository: %w", ErrNotConfigured)
	}
	return s.reports.GetReport(ctx, id)
}

func (s *AnalysisService) encodeImage(name string, img entity.Image, format entity.ExportFormat) (entity.Artifact, error) {
	data, err := s.codec.EncodeImage(img, format)
	if err != nil {
		return entity.Artifact{}, fmt.Errorf("encode %s: %w", name, err)
	}
	return entity.Artifact{Name: name, Format: format, Data: data}, nil
}

func (s *AnalysisService) encodeMask(name string, mask entity.Mask, format entity.ExportFormat) (entity.Artifact, error) {
	data, err := s.codec.EncodeMask(mask, format)
	if err != nil {
		return entity.Artifact{}, fmt.Errorf("encode %s: %w", name, err)
	}
	return entity.Artifact{Name: name, Format: format, Data: data}, nil
}
