package container

import (
	app "eutectic-bot/internal/application"
	"eutectic-bot/internal/domain/port"
)

type Container struct {
	UserService     *app.UserService
	AnalysisService *app.AnalysisService
}

// Dependencies адаптеры инфраструктуры. Store и Reports нужны только пакетной обработке.
type Dependencies struct {
	Users    port.UserRepository
	Analyzer port.PhaseAnalyzer
	Codec    port.ImageCodec
	Store    port.ArtifactStore
	Reports  port.ReportRepository
}

func New(deps Dependencies) *Container {
	userService := app.NewUserService(deps.Users)
	analysisService := app.NewAnalysisService(deps.Analyzer, deps.Codec, deps.Store, deps.Reports)

	return &Container{
		UserService:     userService,
		AnalysisService: analysisService,
	}
}
