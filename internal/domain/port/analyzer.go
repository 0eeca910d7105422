package port

import (
	"context"

	"eutectic-bot/internal/domain/entity"
)

// PhaseAnalyzer интерфейс анализатора доли эвтектической фазы
type PhaseAnalyzer interface {
	// Analyze бинаризует изображение, удаляет мелкие области и считает доли фазы
	Analyze(ctx context.Context, img entity.Image, params entity.AnalysisParams) (*entity.AnalysisResult, error)
}
