package container

import (
	"fmt"

	"eutectic-bot/config"
	"eutectic-bot/internal/domain/port"
	"eutectic-bot/internal/infrastructure/segmentation"
	"eutectic-bot/internal/infrastructure/vision"
)

// NewAnalyzer выбирает реализацию анализатора по имени бэкенда.
func NewAnalyzer(backend string) (port.PhaseAnalyzer, error) {
	switch backend {
	case "", config.BackendNative:
		return segmentation.NewAnalyzer(), nil
	case config.BackendGoCV:
		return vision.NewGoCVAnalyzer(), nil
	default:
		return nil, fmt.Errorf("unknown analyzer backend %q", backend)
	}
}
