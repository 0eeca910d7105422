package app

import (
	"context"

	"eutectic-bot/internal/domain/entity"
	"eutectic-bot/internal/domain/port"
)

type UserService struct {
	repo port.UserRepository
}

func NewUserService(repo port.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.repo.Get(ctx, userID, chatID)
}

// SetState меняет только состояние диалога, настройки пользователя не перезаписываются
func (s *UserService) SetState(ctx context.Context, userID, chatID int64, state entity.UserState) (*entity.User, error) {
	user, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateState(ctx, userID, state); err != nil {
		return nil, err
	}

	user.SetState(state)
	return user, nil
}

func (s *UserService) BeginAnalysis(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.SetState(ctx, userID, chatID, entity.StateAwaitingImage)
}

func (s *UserService) Cancel(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.SetState(ctx, userID, chatID, entity.StateMainMenu)
}

// SetExportFormat сохраняет формат выгрузки (png, jpg, jpeg, tiff, tif)
func (s *UserService) SetExportFormat(ctx context.Context, userID, chatID int64, raw string) (*entity.User, error) {
	format, err := entity.ParseExportFormat(raw)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, userID, chatID, func(u *entity.User) error {
		u.Settings.ExportFormat = format
		return nil
	})
}

// SetMinRegionSize сохраняет минимальную площадь области
func (s *UserService) SetMinRegionSize(ctx context.Context, userID, chatID int64, size int) (*entity.User, error) {
	params := entity.AnalysisParams{MinRegionSize: size, Polarity: entity.PolarityDark}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return s.update(ctx, userID, chatID, func(u *entity.User) error {
		u.Settings.MinRegionSize = size
		return nil
	})
}

// SetPolarity сохраняет полярность фазы (dark или bright)
func (s *UserService) SetPolarity(ctx context.Context, userID, chatID int64, raw string) (*entity.User, error) {
	polarity, err := entity.ParsePolarity(raw)
	if err != nil {
		return nil, err
	}
	return s.update(ctx, userID, chatID, func(u *entity.User) error {
		u.Settings.Polarity = polarity
		return nil
	})
}

func (s *UserService) update(ctx context.Context, userID, chatID int64, apply func(*entity.User) error) (*entity.User, error) {
	user, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	if err := apply(user); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}
