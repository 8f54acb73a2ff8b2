package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const userIDKey = "user_id"

type identityResolver interface {
	Resolve(token string) (int64, error)
}

// AuthRequired resolves the bearer token before any handler runs and stores
// the caller's id in the request locals.
func AuthRequired(resolver identityResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing authorization header",
			})
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid authorization header format",
			})
		}

		userID, err := resolver.Resolve(parts[1])
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals(userIDKey, userID)
		return c.Next()
	}
}

// UserID returns the id stored by AuthRequired.
func UserID(c *fiber.Ctx) (int64, bool) {
	userID, ok := c.Locals(userIDKey).(int64)
	return userID, ok && userID > 0
}

// SetUserID is used by handlers that authenticate outside AuthRequired,
// such as the websocket upgrade.
func SetUserID(c *fiber.Ctx, userID int64) {
	c.Locals(userIDKey, userID)
}
