package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/config-manager/internal/auth"
	"github.com/spec-kit/config-manager/internal/config"
	"github.com/spec-kit/config-manager/internal/domain"
	"github.com/spec-kit/config-manager/internal/events"
	"github.com/spec-kit/config-manager/internal/repository"
	apperrors "github.com/spec-kit/config-manager/pkg/util"
)

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func testConfig() config.Config {
	return config.Config{Auth: config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 24 * 60,
		BcryptCost:            bcrypt.MinCost,
	}}
}

func newTestAuthService(t *testing.T, repo repository.AccountRepository, dispatcher events.Dispatcher) (*AuthService, *testClock) {
	t.Helper()
	if repo == nil {
		repo = repository.NewMemoryAccountRepository()
	}
	clock := &testClock{t: time.Date(2025, 6, 14, 10, 0, 0, 0, time.UTC)}
	svc := NewAuthService(testConfig(), AuthDependencies{
		AccountRepo: repo,
		Dispatcher:  dispatcher,
		Clock:       clock.Now,
	})
	return svc, clock
}

type failingRepo struct {
	getErr    error
	createErr error
}

func (f *failingRepo) Create(context.Context, *domain.Account) error { return f.createErr }

func (f *failingRepo) GetByUsername(context.Context, string) (*domain.Account, error) {
	return nil, f.getErr
}

func TestRegister_StoresDigestAndDefaultsRole(t *testing.T) {
	repo := repository.NewMemoryAccountRepository()
	svc, _ := newTestAuthService(t, repo, nil)
	ctx := context.Background()

	acc, err := svc.Register(ctx, "alice", "a@x.com", "pw123", "")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, acc.Role)
	assert.NotEqual(t, "pw123", acc.PasswordHash)
	assert.NoError(t, auth.ComparePassword(acc.PasswordHash, "pw123"))

	stored, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, acc.PasswordHash, stored.PasswordHash)

	admin, err := svc.Register(ctx, "root", "r@x.com", "pw", domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, admin.Role)
}

func TestRegister_MissingFields(t *testing.T) {
	svc, _ := newTestAuthService(t, nil, nil)

	tests := []struct {
		name                      string
		username, email, password string
		missing                   []string
	}{
		{"no username", "", "a@x.com", "pw", []string{"username"}},
		{"no email", "alice", "", "pw", []string{"email"}},
		{"no password", "alice", "a@x.com", "", []string{"password"}},
		{"nothing", "", "", "", []string{"username", "email", "password"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tc.username, tc.email, tc.password, "")
			require.ErrorIs(t, err, apperrors.ErrMissingField)
			de := apperrors.ToDomainError(err)
			assert.Equal(t, "Missing required fields", de.Message)
			assert.Equal(t, tc.missing, de.Details["fields"])
		})
	}
}

func TestRegister_DuplicateFailsAndKeepsFirst(t *testing.T) {
	svc, _ := newTestAuthService(t, nil, nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "a@x.com", "pw123", "")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice", "other@x.com", "different", domain.RoleAdmin)
	require.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	assert.Equal(t, "Username already exists", apperrors.ToDomainError(err).Message)

	acc, err := svc.VerifyCredentials(ctx, "alice", "pw123")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", acc.Email)
	assert.Equal(t, domain.RoleUser, acc.Role)

	_, err = svc.VerifyCredentials(ctx, "alice", "different")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestRegister_ConcurrentDuplicates(t *testing.T) {
	svc, _ := newTestAuthService(t, nil, nil)
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		created atomic.Int32
		dupes   atomic.Int32
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Register(ctx, "race", "r@x.com", "pw", "")
			switch {
			case err == nil:
				created.Add(1)
			case errors.Is(err, apperrors.ErrAlreadyExists):
				dupes.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), created.Load())
	assert.Equal(t, int32(19), dupes.Load())
}

func TestRegister_RepositoryFailureIsUnexpected(t *testing.T) {
	svc, _ := newTestAuthService(t, &failingRepo{getErr: errors.New("connection refused")}, nil)

	_, err := svc.Register(context.Background(), "alice", "a@x.com", "pw", "")
	require.Error(t, err)
	de := apperrors.ToDomainError(err)
	assert.Equal(t, apperrors.CodeUnexpected, de.Code)
	assert.Equal(t, "connection refused", de.Message)
}

func TestVerifyCredentials(t *testing.T) {
	svc, _ := newTestAuthService(t, nil, nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "a@x.com", "pw123", "")
	require.NoError(t, err)

	acc, err := svc.VerifyCredentials(ctx, "alice", "pw123")
	require.NoError(t, err)
	assert.Equal(t, "alice", acc.Username)

	_, err = svc.VerifyCredentials(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = svc.VerifyCredentials(ctx, "nobody", "pw123")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestLogin_IssuesTokenThatVerifies(t *testing.T) {
	svc, clock := newTestAuthService(t, nil, nil)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "a@x.com", "pw123", "")
	require.NoError(t, err)

	acc, token, exp, err := svc.Login(ctx, "alice", "pw123")
	require.NoError(t, err)
	assert.Equal(t, "alice", acc.Username)
	assert.Equal(t, clock.Now().Add(24*time.Hour), exp)

	claims, err := svc.TokenManager().Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)

	clock.Advance(24*time.Hour + time.Second)
	_, err = svc.TokenManager().Verify(token)
	assert.ErrorIs(t, err, auth.ErrExpiredToken)
}

func TestLogin_Failures(t *testing.T) {
	svc, _ := newTestAuthService(t, nil, nil)
	ctx := context.Background()
	_, err := svc.Register(ctx, "alice", "a@x.com", "pw123", "")
	require.NoError(t, err)

	_, _, _, err = svc.Login(ctx, "alice", "")
	require.ErrorIs(t, err, apperrors.ErrMissingField)
	assert.Equal(t, "Missing username or password", apperrors.ToDomainError(err).Message)

	_, _, _, err = svc.Login(ctx, "alice", "wrong")
	require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	assert.Equal(t, "Invalid credentials", apperrors.ToDomainError(err).Message)
}

func TestFind(t *testing.T) {
	svc, _ := newTestAuthService(t, nil, nil)
	ctx := context.Background()
	_, err := svc.Register(ctx, "alice", "a@x.com", "pw123", "")
	require.NoError(t, err)

	acc, err := svc.Find(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", acc.Email)

	_, err = svc.Find(ctx, "ghost")
	require.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, "User not found", apperrors.ToDomainError(err).Message)
}

func TestAuthService_PublishesEvents(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	var seen []events.EventType
	record := func(_ context.Context, e events.Event) error {
		seen = append(seen, e.Type)
		return nil
	}
	dispatcher.Subscribe(events.EventAccountRegistered, record)
	dispatcher.Subscribe(events.EventLoginSucceeded, record)
	dispatcher.Subscribe(events.EventLoginFailed, record)

	svc, _ := newTestAuthService(t, nil, dispatcher)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "a@x.com", "pw123", "")
	require.NoError(t, err)
	_, _, _, err = svc.Login(ctx, "alice", "pw123")
	require.NoError(t, err)
	_, _, _, err = svc.Login(ctx, "alice", "nope")
	require.Error(t, err)

	assert.Equal(t, []events.EventType{
		events.EventAccountRegistered,
		events.EventLoginSucceeded,
		events.EventLoginFailed,
	}, seen)
}

func TestAuthService_FailingSubscriberDoesNotFailRequest(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	dispatcher.Subscribe(events.EventAccountRegistered, func(context.Context, events.Event) error {
		return errors.New("audit sink down")
	})

	svc, _ := newTestAuthService(t, nil, dispatcher)
	_, err := svc.Register(context.Background(), "alice", "a@x.com", "pw", "")
	assert.NoError(t, err)
}
