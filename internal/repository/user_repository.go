package repository

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/aryan0dhankhar/allocdesk/internal/domain"
)

// MemoryUserRepository implements domain.UserRepository in memory, keyed by
// lower-cased email.
type MemoryUserRepository struct {
	mu     sync.RWMutex
	users  map[string]domain.User
	logger *slog.Logger
}

var _ domain.UserRepository = (*MemoryUserRepository)(nil)

// NewMemoryUserRepository creates an empty user repository
func NewMemoryUserRepository(logger *slog.Logger) *MemoryUserRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &MemoryUserRepository{users: make(map[string]domain.User), logger: logger}
}

// Create stores a new login
func (r *MemoryUserRepository) Create(user *domain.User) error {
	key := emailKey(user.Email)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[key]; exists {
		return fmt.Errorf("login for %q already exists: %w", user.Email, domain.ErrConflict)
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.users[key] = *user
	r.logger.Debug("user created", slog.String("email", user.Email))
	return nil
}

// GetByEmail retrieves a login by email
func (r *MemoryUserRepository) GetByEmail(email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[emailKey(email)]
	if !ok {
		return nil, fmt.Errorf("user %q: %w", email, domain.ErrNotFound)
	}
	return &u, nil
}

// Update replaces an existing login
func (r *MemoryUserRepository) Update(user *domain.User) error {
	key := emailKey(user.Email)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[key]; !ok {
		return fmt.Errorf("user %q: %w", user.Email, domain.ErrNotFound)
	}
	user.UpdatedAt = time.Now()
	r.users[key] = *user
	return nil
}

// Delete removes a login; deleting an unknown email is not an error
func (r *MemoryUserRepository) Delete(email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, emailKey(email))
	return nil
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
