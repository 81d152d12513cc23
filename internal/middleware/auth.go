package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"doc-authorizer/internal/service/credential"
)

const ClaimsContextKey = "claims"

// AuthRequired accepts callers presenting a bearer credential signed with the
// shared service secret.
func AuthRequired(creds credential.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"code":    "UNAUTHORIZED",
				"message": "Missing authorization header",
			})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"code":    "UNAUTHORIZED",
				"message": "Invalid authorization header format",
			})
		}

		claims, err := creds.Validate(parts[1])
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"code":    "UNAUTHORIZED",
				"message": "Invalid or expired token",
			})
		}

		c.Locals(ClaimsContextKey, claims)
		return c.Next()
	}
}

func GetClaims(c *fiber.Ctx) *credential.Claims {
	claims, ok := c.Locals(ClaimsContextKey).(*credential.Claims)
	if !ok {
		return nil
	}
	return claims
}
