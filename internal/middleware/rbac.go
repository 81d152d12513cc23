package middleware

import (
	"github.com/gofiber/fiber/v2"
)

func RequireAnyRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := GetClaims(c)
		if claims == nil {
			return Unauthorized("Missing caller identity")
		}

		for _, role := range roles {
			if claims.Role == role {
				return c.Next()
			}
		}
		return Forbidden("Insufficient permissions for this operation")
	}
}
