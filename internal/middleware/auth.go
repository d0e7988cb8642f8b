package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/lexideck/internal/config"
	"github.com/localnerve/lexideck/internal/services"
	"github.com/localnerve/lexideck/internal/types"
	"github.com/localnerve/lexideck/internal/utils"
)

// UserKey is the Locals key holding the authenticated user id
const UserKey = "user"

// AuthUser validates the session cookie, or a bearer token, and stores
// the user id under UserKey.
func AuthUser(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(services.SessionCookie)
		if token == "" {
			if auth := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(auth, "Bearer ") {
				token = strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			}
		}

		userID, err := services.ValidateSession(cfg, token)
		if err != nil {
			return utils.ErrorFrom(c, err)
		}

		c.Locals(UserKey, userID)
		return c.Next()
	}
}

// UserID returns the authenticated user id. It fails with ErrUnauthorized
// on routes that were not wrapped by AuthUser.
func UserID(c *fiber.Ctx) (string, error) {
	userID, ok := c.Locals(UserKey).(string)
	if !ok || userID == "" {
		return "", types.ErrUnauthorized
	}
	return userID, nil
}
