package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/abdelwahab/campuscard-api/internal/api/rest/middleware"
	"github.com/abdelwahab/campuscard-api/internal/dto"
	"github.com/abdelwahab/campuscard-api/internal/helper"
	"github.com/abdelwahab/campuscard-api/internal/helper/utils"
	"github.com/abdelwahab/campuscard-api/internal/services"
)

type AdminHandler struct {
	svc  services.AdminService
	auth helper.Auth
}

func NewAdminHandler(svc services.AdminService, auth helper.Auth) *AdminHandler {
	return &AdminHandler{svc: svc, auth: auth}
}

func (h *AdminHandler) SetupRoutes(app *fiber.App) {
	admin := app.Group("/api/admin",
		middleware.AuthMiddleware(h.auth),
		middleware.AdminOnly(),
	)

	// "/users/pending" must come before "/users/:id".
	admin.Get("/users/pending", h.ListPendingUsers)
	admin.Get("/users", h.ListAllUsers)
	admin.Get("/users/:id", h.GetUser)
	admin.Post("/users/approve-reject", h.Decide)
	admin.Post("/users/:id/send-verification", h.SendEmailVerification)
	admin.Post("/users/:id/verify-email/:token", h.VerifyEmail)
	admin.Post("/users/:id/change-role", h.ChangeRole)

	admin.Get("/dashboard/stats", h.DashboardStats)

	admin.Get("/banned-words", h.ListBannedWords)
	admin.Post("/banned-words", h.AddBannedWord)
	admin.Delete("/banned-words/:id", h.DeleteBannedWord)
	admin.Get("/flagged-content", h.ListFlaggedContent)
}

func (h *AdminHandler) ListPendingUsers(ctx *fiber.Ctx) error {
	users, err := h.svc.ListPendingUsers()
	if err != nil {
		return utils.HandleError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, users)
}

func (h *AdminHandler) ListAllUsers(ctx *fiber.Ctx) error {
	users, err := h.svc.ListAllUsers()
	if err != nil {
		return utils.HandleError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, users)
}

func (h *AdminHandler) GetUser(ctx *fiber.Ctx) error {
	userID, err := ctx.ParamsInt("id")
	if err != nil || userID <= 0 {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid user id")
	}

	user, err := h.svc.GetUser(uint(userID))
	if err != nil {
		return utils.HandleError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, user)
}

func (h *AdminHandler) Decide(ctx *fiber.Ctx) error {
	var requestBody dto.ApprovalDecisionRequest
	if err := ctx.BodyParser(&requestBody); err != nil || requestBody.UserID == 0 {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "userId and approved are required")
	}
	if requestBody.Approved == nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Approval decision is required")
	}

	user, err := h.svc.Decide(requestBody)
	if err != nil {
		return utils.HandleError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, user)
}

func (h *AdminHandler) SendEmailVerification(ctx *fiber.Ctx) error {
	userID, err := ctx.ParamsInt("id")
	if err != nil || userID <= 0 {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid user id")
	}

	resp, err := h.svc.SendEmailVerification(uint(userID))
	if err != nil {
		return utils.HandleError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, resp)
}

func (h *AdminHandler) VerifyEmail(ctx *fiber.Ctx) error {
	userID, err := ctx.ParamsInt("id")
	if err != nil || userID <= 0 {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid user id")
	}
	token := ctx.Params("token")
	if token == "" {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "token is required")
	}

	if err := h.svc.VerifyEmail(uint(userID), token); err != nil {
		return utils.HandleError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"message": "Email verified successfully",
	})
}

func (h *AdminHandler) ChangeRole(ctx *fiber.Ctx) error {
	userID, err := ctx.ParamsInt("id")
	if err != nil || userID <= 0 {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid user id")
	}

	var requestBody dto.ChangeRoleRequest
	if err := ctx.BodyParser(&requestBody); err != nil || requestBody.Role == "" {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "role is required")
	}

	claims, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "unauthorized")
	}

	user, err := h.svc.ChangeRole(claims.UserID, uint(userID), requestBody.Role)
	if err != nil {
		return utils.HandleError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, user)
}

func (h *AdminHandler) DashboardStats(ctx *fiber.Ctx) error {
	stats, err := h.svc.DashboardStats()
	if err != nil {
		return utils.HandleError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, stats)
}

func (h *AdminHandler) ListBannedWords(ctx *fiber.Ctx) error {
	words, err := h.svc.ListBannedWords()
	if err != nil {
		return utils.HandleError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, words)
}

func (h *AdminHandler) AddBannedWord(ctx *fiber.Ctx) error {
	var requestBody dto.AddBannedWordRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "word is required")
	}

	word, err := h.svc.AddBannedWord(requestBody.Word)
	if err != nil {
		return utils.HandleError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, word)
}

func (h *AdminHandler) DeleteBannedWord(ctx *fiber.Ctx) error {
	wordID, err := ctx.ParamsInt("id")
	if err != nil || wordID <= 0 {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid word id")
	}

	if err := h.svc.DeleteBannedWord(uint(wordID)); err != nil {
		return utils.HandleError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"message": "Banned word deleted",
	})
}

func (h *AdminHandler) ListFlaggedContent(ctx *fiber.Ctx) error {
	content, err := h.svc.ListFlaggedContent()
	if err != nil {
		return utils.HandleError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, content)
}
