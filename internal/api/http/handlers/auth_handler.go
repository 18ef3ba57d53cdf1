package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/config-manager/internal/api/dto"
	"github.com/spec-kit/config-manager/internal/auth"
	"github.com/spec-kit/config-manager/internal/domain"
	"github.com/spec-kit/config-manager/internal/service"
	apperrors "github.com/spec-kit/config-manager/pkg/util"
)

// AuthHandler exposes registration, login and profile endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewMissingField("Missing required fields")
	}

	if _, err := h.auth.Register(c.UserContext(), req.Username, req.Email, req.Password, domain.SelfServiceRole(req.Role)); err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(dto.MessageResponse{Message: "User registered successfully"})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewMissingField("Missing username or password")
	}

	account, token, exp, err := h.auth.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(dto.LoginResponse{
		AccessToken: token,
		ExpiresAt:   exp,
		User:        dto.NewUserResponse(account),
	})
}

// Profile handles GET /api/auth/profile.
func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewInvalidToken("missing principal")
	}

	account, err := h.auth.Find(c.UserContext(), principal.Username)
	if err != nil {
		return err
	}

	return c.JSON(dto.ProfileResponse{User: dto.NewUserResponse(account)})
}
