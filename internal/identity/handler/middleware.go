package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const sessionLocalKey = "session"

// SessionRequired validates the inbound session token and stores the
// session in request locals for downstream handlers.
func (h *AuthHandler) SessionRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Get("X-Session-Token")

		session, err := h.sessionService.Validate(c.Context(), token)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "internal error",
			})
		}
		if session == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid session",
			})
		}

		c.Locals(sessionLocalKey, session)
		return c.Next()
	}
}

// RequireRole gates a route group behind a verified access token carrying
// the given role.
func (h *AuthHandler) RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing or malformed token",
			})
		}

		claims, err := h.tokens.VerifyAccessToken(parts[1])
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid token",
			})
		}

		if claims.Role != role {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "insufficient role",
			})
		}

		c.Locals("claims", claims)
		return c.Next()
	}
}
