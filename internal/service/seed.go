package service

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/spec-kit/config-manager/internal/domain"
	apperrors "github.com/spec-kit/config-manager/pkg/util"
)

type seedFile struct {
	Users []struct {
		Username string      `yaml:"username"`
		Email    string      `yaml:"email"`
		Password string      `yaml:"password"`
		Role     domain.Role `yaml:"role"`
	} `yaml:"users"`
}

// SeedAccounts registers the accounts listed in a YAML file. Entries without a
// username or password are skipped, as are usernames already present. It
// returns how many accounts were created.
func (s *AuthService) SeedAccounts(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read seed file: %w", err)
	}
	var sf seedFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return 0, fmt.Errorf("parse seed file: %w", err)
	}

	created := 0
	for _, u := range sf.Users {
		if u.Username == "" || u.Password == "" {
			s.logger.Warn("skipping incomplete seed entry", zap.String("username", u.Username))
			continue
		}
		email := u.Email
		if email == "" {
			email = u.Username + "@localhost"
		}
		if _, err := s.Register(ctx, u.Username, email, u.Password, u.Role); err != nil {
			if errors.Is(err, apperrors.ErrAlreadyExists) {
				continue
			}
			return created, fmt.Errorf("seed %s: %w", u.Username, err)
		}
		created++
	}
	return created, nil
}
