package middleware

import (
	"strings"

	"github.com/abdelwahab/campuscard-api/internal/domain"
	"github.com/abdelwahab/campuscard-api/internal/dto"
	"github.com/abdelwahab/campuscard-api/internal/helper"
	"github.com/gofiber/fiber/v2"
)

func AuthMiddleware(auth helper.Auth) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		// 1) try cookie first
		tokenStr := strings.TrimSpace(ctx.Cookies("access_token"))

		// 2) fallback to Authorization header
		if tokenStr == "" {
			tokenStr = strings.TrimSpace(ctx.Get("Authorization"))
		}

		claims, err := auth.VerifyToken(tokenStr)
		if err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		ctx.Locals("userID", claims.UserID)
		ctx.Locals("user", claims)
		return ctx.Next()
	}
}

// OptionalAuth attaches claims when a valid token is presented but lets
// anonymous requests through. Used by the profile visibility gate.
func OptionalAuth(auth helper.Auth) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		tokenStr := strings.TrimSpace(ctx.Cookies("access_token"))
		if tokenStr == "" {
			tokenStr = strings.TrimSpace(ctx.Get("Authorization"))
		}
		if tokenStr == "" {
			return ctx.Next()
		}

		claims, err := auth.VerifyToken(tokenStr)
		if err != nil {
			// An invalid token is treated as anonymous, not rejected.
			return ctx.Next()
		}

		ctx.Locals("userID", claims.UserID)
		ctx.Locals("user", claims)
		return ctx.Next()
	}
}

// AdminOnly trusts the role claim carried by the token; admin rights do
// not change within a token's lifetime.
func AdminOnly() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		claims, ok := ctx.Locals("user").(dto.AuthClaims)
		if !ok || claims.UserID == 0 {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "unauthorized",
			})
		}

		if claims.Role != domain.RoleAdmin {
			return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "admin only",
			})
		}

		return ctx.Next()
	}
}
