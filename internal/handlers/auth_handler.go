package handlers

import (
	"log"
	"time"

	"criticizeit/internal/middleware"
	"criticizeit/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for session issuance.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
	production  bool
}

// NewAuthHandler creates a new AuthHandler. In production the session cookie
// is marked Secure with SameSite=None so cross-site frontends can send it.
func NewAuthHandler(authService *services.AuthService, production bool) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
		production:  production,
	}
}

// RegisterRoutes registers the session routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/jwt", h.HandleIssueToken)
	router.Post("/logout", h.HandleLogout)
}

// TokenRequest represents the request body for session issuance.
type TokenRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// HandleIssueToken mints a session token for the supplied email and stores it
// in an HTTP-only cookie.
func (h *AuthHandler) HandleIssueToken(c *fiber.Ctx) error {
	var req TokenRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing token request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationMessages(err),
		})
	}

	token, err := h.authService.IssueToken(req.Email)
	if err != nil {
		log.Printf("Error issuing token for %s: %v", req.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not issue token",
		})
	}

	c.Cookie(h.sessionCookie(token, int(h.authService.TokenTTL().Seconds())))
	return c.JSON(fiber.Map{"success": true})
}

// HandleLogout clears the session cookie immediately.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	cookie := h.sessionCookie("", -1)
	cookie.Expires = time.Now().Add(-time.Hour)
	c.Cookie(cookie)
	return c.JSON(fiber.Map{"success": true})
}

// sessionCookie builds the auth cookie with the security attributes for the
// current deployment environment.
func (h *AuthHandler) sessionCookie(value string, maxAge int) *fiber.Cookie {
	cookie := &fiber.Cookie{
		Name:     middleware.TokenCookie,
		Value:    value,
		MaxAge:   maxAge,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
	if h.production {
		cookie.Secure = true
		cookie.SameSite = fiber.CookieSameSiteNoneMode
	}
	return cookie
}
