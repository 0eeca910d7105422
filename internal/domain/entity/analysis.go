package entity

import (
	"fmt"
	"strings"
)

// DefaultMinRegionSize минимальная площадь области, которая остаётся после очистки.
const DefaultMinRegionSize = 300

// Polarity определяет, какие пиксели считаются эвтектической фазой.
type Polarity string

const (
	PolarityDark   Polarity = "dark"   // фаза темнее фона: <= порога
	PolarityBright Polarity = "bright" // фаза светлее фона: > порога
)

// ParsePolarity разбирает полярность из строки, пустая строка даёт dark.
func ParsePolarity(s string) (Polarity, error) {
	switch Polarity(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolarityDark:
		return PolarityDark, nil
	case PolarityBright:
		return PolarityBright, nil
	default:
		return "", fmt.Errorf("%w: unknown polarity %q", ErrInvalidParameter, s)
	}
}

// AnalysisParams параметры одного прогона анализа.
type AnalysisParams struct {
	MinRegionSize int      `json:"min_region_size"`
	Polarity      Polarity `json:"polarity"`
}

// DefaultAnalysisParams возвращает параметры исходного приложения.
func DefaultAnalysisParams() AnalysisParams {
	return AnalysisParams{MinRegionSize: DefaultMinRegionSize, Polarity: PolarityDark}
}

// Validate проверяет параметры анализа.
func (p AnalysisParams) Validate() error {
	if p.MinRegionSize <= 0 {
		return fmt.Errorf("%w: min region size must be positive, got %d", ErrInvalidParameter, p.MinRegionSize)
	}
	if p.Polarity != PolarityDark && p.Polarity != PolarityBright {
		return fmt.Errorf("%w: unknown polarity %q", ErrInvalidParameter, p.Polarity)
	}
	return nil
}

// AnalysisResult итог анализа одного изображения.
type AnalysisResult struct {
	Threshold      uint8       // порог Оцу
	Thresholded    Mask        // маска после порога
	Cleaned        Mask        // маска после удаления мелких областей
	FractionBefore float64     // доля фазы до очистки
	FractionAfter  float64     // доля фазы после очистки
	RegionsBefore  RegionStats // области до очистки
	RegionsAfter   RegionStats // области после очистки
	Params         AnalysisParams
}

// Report возвращает сериализуемую сводку без масок.
func (r *AnalysisResult) Report() AnalysisReport {
	return AnalysisReport{
		Width:          r.Thresholded.Width,
		Height:         r.Thresholded.Height,
		Threshold:      r.Threshold,
		FractionBefore: r.FractionBefore,
		FractionAfter:  r.FractionAfter,
		RegionsBefore:  r.RegionsBefore,
		RegionsAfter:   r.RegionsAfter,
		MinRegionSize:  r.Params.MinRegionSize,
		Polarity:       r.Params.Polarity,
	}
}

// AnalysisReport сводка анализа для JSON и хранилищ.
type AnalysisReport struct {
	ID             string      `json:"id,omitempty"`
	Source         string      `json:"source,omitempty"`
	Width          int         `json:"width"`
	Height         int         `json:"height"`
	Threshold      uint8       `json:"threshold"`
	FractionBefore float64     `json:"fraction_before"`
	FractionAfter  float64     `json:"fraction_after"`
	RegionsBefore  RegionStats `json:"regions_before"`
	RegionsAfter   RegionStats `json:"regions_after"`
	MinRegionSize  int         `json:"min_region_size"`
	Polarity       Polarity    `json:"polarity"`
}
