//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"errors"

	"eutectic-bot/internal/domain/entity"
	"eutectic-bot/internal/domain/port"
)

// ErrGoCVDisabled сборка без тега gocv.
var ErrGoCVDisabled = errors.New("gocv build tag is not enabled")

type GoCVAnalyzer struct {
	Connectivity int
}

// NewGoCVAnalyzer создаёт анализатор-заглушку (без OpenCV).
func NewGoCVAnalyzer() *GoCVAnalyzer {
	return &GoCVAnalyzer{Connectivity: 8}
}

// Analyze возвращает ошибку, если сборка без тега gocv.
func (a *GoCVAnalyzer) Analyze(ctx context.Context, img entity.Image, params entity.AnalysisParams) (*entity.AnalysisResult, error) {
	_ = ctx
	_ = img
	_ = params
	return nil, ErrGoCVDisabled
}

var _ port.PhaseAnalyzer = (*GoCVAnalyzer)(nil)
