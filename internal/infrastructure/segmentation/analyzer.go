package segmentation

import (
	"context"

	"eutectic-bot/internal/domain/entity"
	"eutectic-bot/internal/domain/port"
)

// Analyzer нативная реализация конвейера: порог Оцу, удаление мелких областей, доли фазы.
// Состояния не хранит, безопасен для конкурентных вызовов.
type Analyzer struct{}

// NewAnalyzer создаёт нативный анализатор
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze прогоняет изображение через весь конвейер.
func (a *Analyzer) Analyze(ctx context.Context, img entity.Image, params entity.AnalysisParams) (*entity.AnalysisResult, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mask, threshold, err := Binarize(img, params.Polarity)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	filtered, err := Filter(mask, params.MinRegionSize)
	if err != nil {
		return nil, err
	}

	before, err := Fraction(mask)
	if err != nil {
		return nil, err
	}
	after, err := Fraction(filtered.Cleaned)
	if err != nil {
		return nil, err
	}

	return &entity.AnalysisResult{
		Threshold:      threshold,
		Thresholded:    mask,
		Cleaned:        filtered.Cleaned,
		FractionBefore: before,
		FractionAfter:  after,
		RegionsBefore:  DescribeRegions(filtered.Areas),
		RegionsAfter:   DescribeRegions(filtered.KeptAreas),
		Params:         params,
	}, nil
}

// Проверка реализации интерфейса
var _ port.PhaseAnalyzer = (*Analyzer)(nil)
