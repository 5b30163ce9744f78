package middleware

import (
	"log"
	"strings"

	"freshmart/internal/services"

	"github.com/gofiber/fiber/v2"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "session_token"

// SessionToken extracts the session token from the Authorization header
// ("Bearer <token>") or, failing that, the session cookie.
func SessionToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}
	return c.Cookies(SessionCookieName)
}

// UserID returns the signed-in user's ID stored by SessionRequired.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}

// SessionRequired is a Fiber middleware that resolves the session token
// against the session store and puts the user ID into the request context.
func SessionRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := SessionToken(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Not authenticated",
			})
		}

		session, err := authService.ValidateSession(token)
		if err != nil {
			log.Printf("Session validation failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired session",
			})
		}

		c.Locals("user_id", session.UserID)
		return c.Next()
	}
}
