package controller

import (
	"fitocharity-chatbot-be/internal/dto"
	"fitocharity-chatbot-be/internal/pkg/serverutils"
	"fitocharity-chatbot-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IChatbotController interface {
	RegisterRoutes(r fiber.Router)
	GetStatus(ctx *fiber.Ctx) error
	CreateSession(ctx *fiber.Ctx) error
	SendChat(ctx *fiber.Ctx) error
	GetHistory(ctx *fiber.Ctx) error
	DeleteSession(ctx *fiber.Ctx) error
	GetSuggestedQuestions(ctx *fiber.Ctx) error
}

type chatbotController struct {
	chatbotService service.IChatbotService
}

func NewChatbotController(chatbotService service.IChatbotService) IChatbotController {
	return &chatbotController{
		chatbotService: chatbotService,
	}
}

func (c *chatbotController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chatbot/v1")
	h.Get("status", c.GetStatus)
	h.Post("create-session", c.CreateSession)
	h.Post("send-chat", c.SendChat)
	h.Get("session/:id/history", c.GetHistory)
	h.Delete("session/:id", c.DeleteSession)
	h.Get("suggested-questions", c.GetSuggestedQuestions)
}

func (c *chatbotController) GetStatus(ctx *fiber.Ctx) error {
	res := c.chatbotService.GetStatus(ctx.Context())
	return ctx.JSON(serverutils.SuccessResponse("Success get status", res))
}

func (c *chatbotController) CreateSession(ctx *fiber.Ctx) error {
	res, err := c.chatbotService.CreateSession(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success create session", res))
}

func (c *chatbotController) SendChat(ctx *fiber.Ctx) error {
	var req dto.SendChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatbotService.SendChat(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success send chat", res))
}

func (c *chatbotController) GetHistory(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid session id")
	}

	res, err := c.chatbotService.GetHistory(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get history", res))
}

func (c *chatbotController) DeleteSession(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid session id")
	}

	c.chatbotService.DeleteSession(ctx.Context(), id)
	return ctx.JSON(serverutils.SuccessResponse("Success delete session", nil))
}

func (c *chatbotController) GetSuggestedQuestions(ctx *fiber.Ctx) error {
	questions := c.chatbotService.GetSuggestedQuestions(ctx.Context())
	return ctx.JSON(serverutils.SuccessResponse("Success get suggested questions", dto.SuggestedQuestionsResponse{
		Questions: questions,
	}))
}
