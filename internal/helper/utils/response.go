package utils

import (
	"github.com/abdelwahab/campuscard-api/internal/apperr"
	"github.com/gofiber/fiber/v2"
)

func ResponseError(ctx *fiber.Ctx, status int, msg string) error {
	return ctx.Status(status).JSON(fiber.Map{
		"error": msg,
	})
}

func ResponseSuccess(ctx *fiber.Ctx, status int, data interface{}) error {
	return ctx.Status(status).JSON(fiber.Map{"data": data})
}

// HandleError maps a service error onto the HTTP response. Known
// application errors carry their own status and optional field map;
// anything else is a 500 with a generic body.
func HandleError(ctx *fiber.Ctx, err error) error {
	if appErr, ok := apperr.From(err); ok {
		body := fiber.Map{"error": appErr.Message}
		if len(appErr.Fields) > 0 {
			body["fields"] = appErr.Fields
		}
		return ctx.Status(appErr.Status).JSON(body)
	}
	return ResponseError(ctx, fiber.StatusInternalServerError, "Internal server error")
}
