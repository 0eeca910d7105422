package storage

import (
	"context"
	"sync"

	"eutectic-bot/internal/domain/entity"
	"eutectic-bot/internal/domain/port"
)

// MemoryUserRepository in-memory хранилище пользователей
type MemoryUserRepository struct {
	mu       sync.RWMutex
	users    map[int64]*entity.User
	defaults entity.UserSettings
}

// NewMemoryUserRepository создаёт новое in-memory хранилище
func NewMemoryUserRepository() *MemoryUserRepository {
	return NewMemoryUserRepositoryWithDefaults(entity.DefaultUserSettings())
}

// NewMemoryUserRepositoryWithDefaults создаёт хранилище, выдающее новым пользователям заданные настройки
func NewMemoryUserRepositoryWithDefaults(defaults entity.UserSettings) *MemoryUserRepository {
	return &MemoryUserRepository{
		users:    make(map[int64]*entity.User),
		defaults: defaults,
	}
}

// Get возвращает копию пользователя по ID, создаёт нового если не найден
func (r *MemoryUserRepository) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	r.mu.RLock()
	user, exists := r.users[userID]
	r.mu.RUnlock()

	if exists {
		u := *user
		return &u, nil
	}

	// Создаём нового пользователя
	newUser := entity.NewUser(userID, chatID)
	newUser.Settings = r.defaults

	r.mu.Lock()
	if existing, ok := r.users[userID]; ok {
		r.mu.Unlock()
		u := *existing
		return &u, nil
	}
	stored := *newUser
	r.users[userID] = &stored
	r.mu.Unlock()

	return newUser, nil
}

// Save сохраняет состояние пользователя
func (r *MemoryUserRepository) Save(ctx context.Context, user *entity.User) error {
	u := *user

	r.mu.Lock()
	r.users[user.ID] = &u
	r.mu.Unlock()

	return nil
}

// UpdateState обновляет состояние пользователя
func (r *MemoryUserRepository) UpdateState(ctx context.Context, userID int64, state entity.UserState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user, exists := r.users[userID]; exists {
		user.SetState(state)
	}

	return nil
}

// Проверка реализации интерфейса
var _ port.UserRepository = (*MemoryUserRepository)(nil)
