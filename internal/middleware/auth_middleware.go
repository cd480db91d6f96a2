package middleware

import (
	"log"

	"criticizeit/internal/services"

	"github.com/gofiber/fiber/v2"
)

// TokenCookie is the name of the cookie carrying the session token.
const TokenCookie = "token"

// EmailLocal is the context key under which AuthRequired stores the
// authenticated email claim.
const EmailLocal = "email"

// AuthRequired is a Fiber middleware that checks for a valid session token
// in the auth cookie.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := c.Cookies(TokenCookie)
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "unauthorized access",
			})
		}

		claims, err := authService.ValidateToken(tokenString)
		if err != nil {
			log.Printf("JWT validation failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "unauthorized access",
			})
		}

		email, _ := claims["email"].(string)
		if email == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "unauthorized access",
			})
		}

		// Store the identity claim for subsequent handlers
		c.Locals(EmailLocal, email)

		return c.Next()
	}
}

// OwnerRequired is a Fiber middleware for owner-scoped routes carrying an
// :email path segment. The path email must match the authenticated email, so
// one user cannot read another's resources by varying the URL. Must run after
// AuthRequired.
func OwnerRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		email, _ := c.Locals(EmailLocal).(string)
		if email == "" || c.Params("email") != email {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "unauthorized access",
			})
		}
		return c.Next()
	}
}
