package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/config-manager/internal/auth"
	"github.com/spec-kit/config-manager/internal/config"
	"github.com/spec-kit/config-manager/internal/domain"
	"github.com/spec-kit/config-manager/internal/events"
	"github.com/spec-kit/config-manager/internal/repository"
	apperrors "github.com/spec-kit/config-manager/pkg/util"
)

// AuthService owns the account directory and issues session tokens.
type AuthService struct {
	accounts   repository.AccountRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	tokenMgr   *auth.TokenManager
	bcryptCost int
	now        func() time.Time
}

// AuthDependencies encapsulates collaborators for the auth service. Dispatcher,
// Logger and Clock are optional.
type AuthDependencies struct {
	AccountRepo repository.AccountRepository
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
	Clock       func() time.Time
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	now := deps.Clock
	if now == nil {
		now = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		accounts:   deps.AccountRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL(), auth.WithClock(now)),
		bcryptCost: cfg.Auth.BcryptCost,
		now:        now,
	}
}

// Register creates a new account. Role defaults to "user".
func (s *AuthService) Register(ctx context.Context, username, email, password string, role domain.Role) (*domain.Account, error) {
	if missing := missingFields(map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}); len(missing) > 0 {
		return nil, apperrors.NewMissingField("Missing required fields", missing...)
	}

	if _, err := s.accounts.GetByUsername(ctx, username); err == nil {
		return nil, apperrors.NewAlreadyExists("Username already exists")
	} else if !errors.Is(err, repository.ErrAccountNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := &domain.Account{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleOrDefault(role),
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrAccountExists) {
			return nil, apperrors.NewAlreadyExists("Username already exists")
		}
		return nil, err
	}

	s.publish(ctx, events.EventAccountRegistered, username, events.AccountRegisteredPayload{
		Email: account.Email,
		Role:  account.Role,
	})
	return account, nil
}

// VerifyCredentials returns the account when password matches its digest.
// Unknown usernames and wrong passwords are indistinguishable to the caller.
func (s *AuthService) VerifyCredentials(ctx context.Context, username, password string) (*domain.Account, error) {
	account, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, apperrors.NewInvalidCredentials()
		}
		return nil, err
	}
	if err := auth.ComparePassword(account.PasswordHash, password); err != nil {
		if auth.IsMismatch(err) {
			return nil, apperrors.NewInvalidCredentials()
		}
		return nil, fmt.Errorf("compare password: %w", err)
	}
	return account, nil
}

// Login verifies credentials and issues a session token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.Account, string, time.Time, error) {
	if username == "" || password == "" {
		return nil, "", time.Time{}, apperrors.NewMissingField("Missing username or password",
			missingFields(map[string]string{"username": username, "password": password})...)
	}

	account, err := s.VerifyCredentials(ctx, username, password)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidCredentials) {
			s.publish(ctx, events.EventLoginFailed, username, events.LoginFailedPayload{Reason: "invalid_credentials"})
		}
		return nil, "", time.Time{}, err
	}

	token, exp, err := s.tokenMgr.Issue(account.Username, account.Role)
	if err != nil {
		return nil, "", time.Time{}, fmt.Errorf("issue token: %w", err)
	}

	s.publish(ctx, events.EventLoginSucceeded, username, events.LoginSucceededPayload{TokenExpiresAt: exp})
	return account, token, exp, nil
}

// Find looks up an account by username.
func (s *AuthService) Find(ctx context.Context, username string) (*domain.Account, error) {
	account, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, apperrors.NewNotFound("User")
		}
		return nil, err
	}
	return account, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, username string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Username:  username,
		Timestamp: s.now().UTC(),
		Payload:   payload,
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(eventType)), zap.Error(err))
	}
}

// missingFields returns the names of empty values in a stable order.
func missingFields(fields map[string]string) []string {
	var missing []string
	for _, name := range []string{"username", "email", "password"} {
		val, ok := fields[name]
		if ok && val == "" {
			missing = append(missing, name)
		}
	}
	return missing
}
