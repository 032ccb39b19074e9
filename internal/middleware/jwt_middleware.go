package middleware

import (
	"log"
	"strings"

	"kafeku/internal/services"

	"github.com/gofiber/fiber/v2"
)

// UserKey is the fiber.Ctx locals key holding the authenticated *models.User.
const UserKey = "current_user"

// AuthRequired is a Fiber middleware to check for a valid JWT token and
// resolve its subject against the catalog store.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header is required",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			log.Printf("JWT validation failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
				"error":   err.Error(),
			})
		}

		// A token can outlive its user (cascade deletes remove admin
		// accounts), so resolve it on every request.
		user, err := authService.UserFromClaims(claims)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
				"error":   err.Error(),
			})
		}

		c.Locals(UserKey, user)
		return c.Next()
	}
}
