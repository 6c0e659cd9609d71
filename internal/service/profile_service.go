package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/hall_booking/internal/model"
	"github.com/Freeeeeet/hall_booking/internal/store"
	"go.uber.org/zap"
)

// ProfileService чтение профилей пользователей.
// Профили ведёт внешний сервис, здесь их только ищут.
type ProfileService struct {
	profiles store.Profiles
	logger   *zap.Logger
}

func NewProfileService(profiles store.Profiles, logger *zap.Logger) *ProfileService {
	return &ProfileService{
		profiles: profiles,
		logger:   logger,
	}
}

// Resolve возвращает профиль аутентифицированного пользователя
func (s *ProfileService) Resolve(ctx context.Context, uid string) (*model.UserProfile, error) {
	if uid == "" {
		return nil, forbiddenError("anonymous user")
	}

	profile, err := s.profiles.GetByUID(ctx, uid)
	if err != nil {
		return nil, storeError("get profile", err)
	}

	if profile == nil {
		s.logger.Debug("Profile not found", zap.String("uid", uid))
		return nil, fmt.Errorf("%w: no profile for user %s", ErrForbidden, uid)
	}

	return profile, nil
}

// GetByTelegramChatID получает профиль по чату Telegram, nil если чат не привязан
func (s *ProfileService) GetByTelegramChatID(ctx context.Context, chatID int64) (*model.UserProfile, error) {
	profile, err := s.profiles.GetByTelegramChatID(ctx, chatID)
	if err != nil {
		return nil, storeError("get profile by chat", err)
	}
	return profile, nil
}

// HallManagers возвращает заведующих залом
func (s *ProfileService) HallManagers(ctx context.Context, hall string) ([]*model.UserProfile, error) {
	managers, err := s.profiles.ListHallManagers(ctx, hall)
	if err != nil {
		return nil, storeError("list hall managers", err)
	}
	return managers, nil
}
