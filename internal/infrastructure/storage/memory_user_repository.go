package storage

import (
	"context"
	"sync"

	"github.com/nathaniel-sheetz/BananaVision/internal/domain/entity"
	"github.com/nathaniel-sheetz/BananaVision/internal/domain/port"
)

// MemoryUserRepository in-memory хранилище пользователей
type MemoryUserRepository struct {
	mu          sync.RWMutex
	users       map[int64]*entity.User
	defaultMode entity.Mode
}

// NewMemoryUserRepository создаёт новое in-memory хранилище.
// Новые пользователи получают режим defaultMode.
func NewMemoryUserRepository(defaultMode entity.Mode) *MemoryUserRepository {
	return &MemoryUserRepository{
		users:       make(map[int64]*entity.User),
		defaultMode: defaultMode,
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

	r.mu.Lock()
	defer r.mu.Unlock()

	// Другая горутина могла успеть создать пользователя
	if user, exists := r.users[userID]; exists {
		u := *user
		return &u, nil
	}

	newUser := entity.NewUser(userID, chatID, r.defaultMode)
	r.users[userID] = newUser

	u := *newUser
	return &u, nil
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

// UpdateMode обновляет режим анализа пользователя
func (r *MemoryUserRepository) UpdateMode(ctx context.Context, userID int64, mode entity.Mode) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user, exists := r.users[userID]; exists {
		user.SetMode(mode)
	}

	return nil
}

// Проверка реализации интерфейса
var _ port.UserRepository = (*MemoryUserRepository)(nil)
