package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/config-manager/internal/domain"
)

const accountKeyPrefix = "account:"

// createAccountScript claims the username and writes the remaining fields in
// one server-side step. Returns 0 when the key already holds an account.
var createAccountScript = redis.NewScript(`
if redis.call('HSETNX', KEYS[1], 'username', ARGV[1]) == 0 then
	return 0
end
redis.call('HSET', KEYS[1], 'email', ARGV[2], 'password_hash', ARGV[3], 'role', ARGV[4], 'created_at', ARGV[5])
return 1
`)

// Each account is one hash keyed by username.
type redisAccountRepository struct {
	client redis.Cmdable
	now    func() time.Time
}

// NewRedisAccountRepository returns a Redis-backed implementation.
func NewRedisAccountRepository(client redis.Cmdable) AccountRepository {
	return &redisAccountRepository{client: client, now: time.Now}
}

func accountKey(username string) string {
	return accountKeyPrefix + username
}

func (r *redisAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	createdAt := account.CreatedAt
	if createdAt.IsZero() {
		createdAt = r.now().UTC()
	}

	created, err := createAccountScript.Run(ctx, r.client,
		[]string{accountKey(account.Username)},
		account.Username,
		account.Email,
		account.PasswordHash,
		string(account.Role),
		createdAt.Format(time.RFC3339Nano),
	).Int()
	if err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	if created == 0 {
		return ErrAccountExists
	}
	account.CreatedAt = createdAt
	return nil
}

func (r *redisAccountRepository) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	fields, err := r.client.HGetAll(ctx, accountKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("read account: %w", err)
	}
	if len(fields) == 0 || fields["password_hash"] == "" {
		return nil, ErrAccountNotFound
	}

	account := &domain.Account{
		Username:     fields["username"],
		Email:        fields["email"],
		PasswordHash: fields["password_hash"],
		Role:         domain.Role(fields["role"]),
	}
	if ts := fields["created_at"]; ts != "" {
		createdAt, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		account.CreatedAt = createdAt
	}
	return account, nil
}
