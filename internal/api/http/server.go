package http

import (
	"github.com/gofiber/fiber/v2"
)

// NewApp builds the Fiber application with service-wide settings.
func NewApp(appName string) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:               appName,
		DisableStartupMessage: true,
	})
}
