package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/config-manager/internal/domain"
	apperrors "github.com/spec-kit/config-manager/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	Username  string
	Role      domain.Role
	TokenID   string
	ExpiresAt time.Time
}

// AuthMiddleware validates bearer tokens. It does not consult the account
// directory; handlers decide what a missing account means for them.
type AuthMiddleware struct {
	tokens *TokenManager
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return apperrors.NewInvalidToken("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return apperrors.NewInvalidToken("invalid authorization header")
	}

	claims, err := m.tokens.Verify(strings.TrimSpace(parts[1]))
	if err != nil {
		if errors.Is(err, ErrExpiredToken) {
			return apperrors.NewExpiredToken()
		}
		return apperrors.NewInvalidToken("invalid token")
	}

	tok := claims.Token()
	c.Locals(principalKey, &Principal{
		Username:  tok.Username,
		Role:      tok.Role,
		TokenID:   tok.ID,
		ExpiresAt: tok.ExpiresAt,
	})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
