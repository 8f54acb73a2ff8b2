package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/soniarr234/fitlover-back/internal/middleware"
)

func currentUserID(c *fiber.Ctx) (int64, error) {
	userID, ok := middleware.UserID(c)
	if !ok {
		return 0, strconv.ErrSyntax
	}
	return userID, nil
}

func parseIDParam(c *fiber.Ctx, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func invalidToken(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
}
