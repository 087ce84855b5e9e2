package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/abdelwahab/campuscard-api/internal/api/rest/middleware"
	"github.com/abdelwahab/campuscard-api/internal/dto"
	"github.com/abdelwahab/campuscard-api/internal/helper"
	"github.com/abdelwahab/campuscard-api/internal/helper/utils"
	"github.com/abdelwahab/campuscard-api/internal/services"
)

type ProfileHandler struct {
	svc  services.ProfileService
	auth helper.Auth
}

func NewProfileHandler(svc services.ProfileService, auth helper.Auth) *ProfileHandler {
	return &ProfileHandler{svc: svc, auth: auth}
}

func (h *ProfileHandler) SetupRoutes(app *fiber.App) {
	profile := app.Group("/api/profile")

	// The directory and single-profile reads work for anonymous
	// visitors too; the visibility gate decides per profile.
	profile.Get("/public-students", h.ListPublicStudents)

	authed := profile.Group("", middleware.AuthMiddleware(h.auth))
	authed.Get("/", h.GetOwnProfile)
	authed.Put("/", h.UpdateProfile)
	authed.Put("/visibility", h.UpdateVisibility)
	authed.Post("/photo", h.UploadPhoto)
	authed.Post("/national-id-scan", h.UploadNationalIDScan)

	profile.Get("/:id", middleware.OptionalAuth(h.auth), h.GetProfile)
}

func (h *ProfileHandler) GetOwnProfile(ctx *fiber.Ctx) error {
	claims, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	resp, err := h.svc.GetOwnProfile(claims.UserID)
	if err != nil {
		return utils.HandleError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, resp)
}

func (h *ProfileHandler) GetProfile(ctx *fiber.Ctx) error {
	targetID, err := ctx.ParamsInt("id")
	if err != nil || targetID <= 0 {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid user id")
	}

	var viewer *dto.AuthClaims
	if claims, ok := ctx.Locals("user").(dto.AuthClaims); ok {
		viewer = &claims
	}

	resp, err := h.svc.GetProfile(uint(targetID), viewer)
	if err != nil {
		return utils.HandleError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, resp)
}

func (h *ProfileHandler) UpdateProfile(ctx *fiber.Ctx) error {
	claims, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	var requestBody dto.UpdateProfileRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	resp, err := h.svc.UpdateProfile(claims.UserID, requestBody)
	if err != nil {
		return utils.HandleError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, resp)
}

func (h *ProfileHandler) UpdateVisibility(ctx *fiber.Ctx) error {
	claims, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	var requestBody dto.UpdateVisibilityRequest
	if err := ctx.BodyParser(&requestBody); err != nil || requestBody.Visibility == "" {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "visibility is required")
	}

	resp, err := h.svc.UpdateVisibility(claims.UserID, requestBody.Visibility)
	if err != nil {
		return utils.HandleError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, resp)
}

func (h *ProfileHandler) UploadPhoto(ctx *fiber.Ctx) error {
	claims, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "file is required")
	}
	file, err := readUploadFile(fileHeader)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	resp, err := h.svc.UploadProfilePhoto(ctx.Context(), claims.UserID, file)
	if err != nil {
		return utils.HandleError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, resp)
}

func (h *ProfileHandler) UploadNationalIDScan(ctx *fiber.Ctx) error {
	claims, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "file is required")
	}
	file, err := readUploadFile(fileHeader)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	resp, err := h.svc.UploadNationalIDScan(ctx.Context(), claims.UserID, file)
	if err != nil {
		return utils.HandleError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, resp)
}

func (h *ProfileHandler) ListPublicStudents(ctx *fiber.Ctx) error {
	profiles, err := h.svc.ListPublicStudents()
	if err != nil {
		return utils.HandleError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, profiles)
}
