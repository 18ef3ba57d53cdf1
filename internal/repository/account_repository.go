package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/spec-kit/config-manager/internal/domain"
)

var (
	// ErrAccountExists is returned by Create when the username is taken.
	ErrAccountExists = errors.New("account already exists")
	// ErrAccountNotFound is returned by lookups for unknown usernames.
	ErrAccountNotFound = errors.New("account not found")
)

// AccountRepository defines persistence access for the account directory.
// Create must be atomic with respect to the uniqueness of Username.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByUsername(ctx context.Context, username string) (*domain.Account, error)
}

type memoryAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]domain.Account
	now      func() time.Time
}

// NewMemoryAccountRepository returns a process-lifetime, map-backed implementation.
func NewMemoryAccountRepository() AccountRepository {
	return &memoryAccountRepository{
		accounts: make(map[string]domain.Account),
		now:      time.Now,
	}
}

func (r *memoryAccountRepository) Create(_ context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.accounts[account.Username]; exists {
		return ErrAccountExists
	}
	if account.CreatedAt.IsZero() {
		account.CreatedAt = r.now().UTC()
	}
	r.accounts[account.Username] = *account
	return nil
}

func (r *memoryAccountRepository) GetByUsername(_ context.Context, username string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.accounts[username]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return &account, nil
}
