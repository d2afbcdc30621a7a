package controller

import (
	"io"
	"strconv"

	"fitocharity-chatbot-be/internal/dto"
	"fitocharity-chatbot-be/internal/pkg/serverutils"
	"fitocharity-chatbot-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	ValidateKey(ctx *fiber.Ctx) error
	SaveKey(ctx *fiber.Ctx) error
	ClearKey(ctx *fiber.Ctx) error
	RebuildKnowledgebase(ctx *fiber.Ctx) error
	ClearKnowledgebase(ctx *fiber.Ctx) error
	GetDocuments(ctx *fiber.Ctx) error
	GetLogs(ctx *fiber.Ctx) error
}

type adminController struct {
	adminService service.IAdminService
}

func NewAdminController(adminService service.IAdminService) IAdminController {
	return &adminController{
		adminService: adminService,
	}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin/v1")
	h.Post("validate-key", c.ValidateKey)
	h.Post("key", c.SaveKey)
	h.Delete("key", c.ClearKey)
	h.Post("knowledgebase", c.RebuildKnowledgebase)
	h.Delete("knowledgebase", c.ClearKnowledgebase)
	h.Get("knowledgebase/documents", c.GetDocuments)
	h.Get("logs", c.GetLogs)
}

func (c *adminController) ValidateKey(ctx *fiber.Ctx) error {
	var req dto.ValidateKeyRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	valid, err := c.adminService.ValidateKey(ctx.Context(), req.ApiKey)
	if err != nil {
		return err
	}

	message := "API key is valid"
	if !valid {
		message = "API key was rejected"
	}
	return ctx.JSON(serverutils.SuccessResponse(message, dto.ValidateKeyResponse{Valid: valid}))
}

func (c *adminController) SaveKey(ctx *fiber.Ctx) error {
	var req dto.SaveKeyRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.adminService.SaveKey(ctx.Context(), req.ApiKey); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success save API key", nil))
}

func (c *adminController) ClearKey(ctx *fiber.Ctx) error {
	if err := c.adminService.ClearKey(ctx.Context()); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success clear API key", nil))
}

func (c *adminController) RebuildKnowledgebase(ctx *fiber.Ctx) error {
	form, err := ctx.MultipartForm()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "expected multipart form with 'files'")
	}

	fileHeaders := form.File["files"]
	if len(fileHeaders) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no files provided")
	}

	files := make([]dto.UploadedFile, 0, len(fileHeaders))
	for _, header := range fileHeaders {
		f, err := header.Open()
		if err != nil {
			return err
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return err
		}
		files = append(files, dto.UploadedFile{Name: header.Filename, Data: data})
	}

	res, err := c.adminService.RebuildKnowledgebase(ctx.Context(), files)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success rebuild knowledgebase", res))
}

func (c *adminController) ClearKnowledgebase(ctx *fiber.Ctx) error {
	if err := c.adminService.ClearKnowledgebase(ctx.Context()); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success clear knowledgebase", nil))
}

func (c *adminController) GetDocuments(ctx *fiber.Ctx) error {
	res := c.adminService.GetDocuments(ctx.Context())
	return ctx.JSON(serverutils.SuccessResponse("Success get documents", res))
}

func (c *adminController) GetLogs(ctx *fiber.Ctx) error {
	level := ctx.Query("level", "")
	limit, _ := strconv.Atoi(ctx.Query("limit", "100"))
	offset, _ := strconv.Atoi(ctx.Query("offset", "0"))

	logs, err := c.adminService.GetLogs(level, limit, offset)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get logs", logs))
}
