package handlers

import (
	"errors"
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"github.com/abdelwahab/campuscard-api/internal/dto"
	"github.com/abdelwahab/campuscard-api/internal/helper/utils"
	"github.com/abdelwahab/campuscard-api/internal/services"
)

const maxUploadSize = 10 * 1024 * 1024 // 10MB

type AuthHandler struct {
	loginSvc      services.LoginService
	signupSvc     services.SignUpService
	loginLimiter  fiber.Handler
	signupLimiter fiber.Handler
}

func NewAuthHandler(
	loginSvc services.LoginService,
	signupSvc services.SignUpService,
	loginLimiter fiber.Handler,
	signupLimiter fiber.Handler,
) *AuthHandler {
	return &AuthHandler{
		loginSvc:      loginSvc,
		signupSvc:     signupSvc,
		loginLimiter:  loginLimiter,
		signupLimiter: signupLimiter,
	}
}

func (h *AuthHandler) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	api.Post("/login", h.loginLimiter, h.Login)
	api.Post("/signup", h.signupLimiter, h.SignUp)
}

func (h *AuthHandler) Login(ctx *fiber.Ctx) error {
	var requestBody dto.LoginRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "identifier and password are required")
	}

	resp, err := h.loginSvc.Login(requestBody)
	if err != nil {
		return utils.HandleError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, resp)
}

// SignUp handles the multipart registration form. The national-id scan
// arrives in the "nationalIdScan" part.
func (h *AuthHandler) SignUp(ctx *fiber.Ctx) error {
	var requestBody dto.SignUpRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	fileHeader, err := ctx.FormFile("nationalIdScan")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "National ID scan is required")
	}

	scan, err := readUploadFile(fileHeader)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
	}

	resp, err := h.signupSvc.SignUp(ctx.Context(), requestBody, scan)
	if err != nil {
		return utils.HandleError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, resp)
}

func readUploadFile(fh *multipart.FileHeader) (dto.UploadFile, error) {
	f, err := fh.Open()
	if err != nil {
		return dto.UploadFile{}, err
	}
	defer f.Close()

	// Read one byte past the limit to tell "at the limit" from "over it".
	b, err := io.ReadAll(io.LimitReader(f, maxUploadSize+1))
	if err != nil {
		return dto.UploadFile{}, err
	}
	if len(b) > maxUploadSize {
		return dto.UploadFile{}, errors.New("File size exceeds maximum limit of 10MB")
	}

	return dto.UploadFile{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Bytes:       b,
	}, nil
}
