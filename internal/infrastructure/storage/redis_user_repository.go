package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"eutectic-bot/internal/domain/entity"
	"eutectic-bot/internal/domain/port"
)

const userKeyPrefix = "user:"

// RedisUserRepository хранит пользователей и их настройки в Redis в виде JSON
type RedisUserRepository struct {
	client   *redis.Client
	ttl      time.Duration
	defaults entity.UserSettings
}

// NewRedisUserRepository создаёт хранилище поверх клиента Redis. ttl == 0 хранит без срока.
func NewRedisUserRepository(client *redis.Client, ttl time.Duration, defaults entity.UserSettings) *RedisUserRepository {
	return &RedisUserRepository{
		client:   client,
		ttl:      ttl,
		defaults: defaults,
	}
}

// NewRedisClient подключается к Redis и проверяет соединение
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}

// Get возвращает пользователя по ID, создаёт нового если не найден
func (r *RedisUserRepository) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	data, err := r.client.Get(ctx, userKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		user := entity.NewUser(userID, chatID)
		user.Settings = r.defaults
		if err := r.Save(ctx, user); err != nil {
			return nil, err
		}
		return user, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", userID, err)
	}

	var user entity.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("decode user %d: %w", userID, err)
	}

	return &user, nil
}

// Save сохраняет состояние пользователя
func (r *RedisUserRepository) Save(ctx context.Context, user *entity.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user %d: %w", user.ID, err)
	}

	if err := r.client.Set(ctx, userKey(user.ID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("save user %d: %w", user.ID, err)
	}
	return nil
}

// UpdateState обновляет состояние пользователя, если он уже есть в хранилище
func (r *RedisUserRepository) UpdateState(ctx context.Context, userID int64, state entity.UserState) error {
	data, err := r.client.Get(ctx, userKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("get user %d: %w", userID, err)
	}

	var user entity.User
	if err := json.Unmarshal(data, &user); err != nil {
		return fmt.Errorf("decode user %d: %w", userID, err)
	}

	user.SetState(state)
	return r.Save(ctx, &user)
}

func userKey(userID int64) string {
	return userKeyPrefix + strconv.FormatInt(userID, 10)
}

// Проверка реализации интерфейса
var _ port.UserRepository = (*RedisUserRepository)(nil)
