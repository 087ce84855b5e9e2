package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/abdelwahab/campuscard-api/internal/helper/utils"
	"github.com/abdelwahab/campuscard-api/internal/services"
)

type PublicHandler struct {
	svc services.PublicService
}

func NewPublicHandler(svc services.PublicService) *PublicHandler {
	return &PublicHandler{svc: svc}
}

func (h *PublicHandler) SetupRoutes(app *fiber.App) {
	public := app.Group("/api/public")

	public.Get("/faculties", h.ListFaculties)
	public.Get("/departments", h.ListDepartments)
}

func (h *PublicHandler) ListFaculties(ctx *fiber.Ctx) error {
	faculties, err := h.svc.ListFaculties()
	if err != nil {
		return utils.HandleError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, faculties)
}

func (h *PublicHandler) ListDepartments(ctx *fiber.Ctx) error {
	var facultyID *uint
	if raw := ctx.QueryInt("facultyId"); raw > 0 {
		id := uint(raw)
		facultyID = &id
	}

	departments, err := h.svc.ListDepartments(facultyID)
	if err != nil {
		return utils.HandleError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, departments)
}
