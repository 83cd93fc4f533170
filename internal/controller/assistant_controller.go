package controller

import (
	"hr-assistant-be/internal/dto"
	"hr-assistant-be/internal/pkg/serverutils"
	"hr-assistant-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAssistantController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
	GetHistory(ctx *fiber.Ctx) error
	ResetSession(ctx *fiber.Ctx) error
	RefreshIndex(ctx *fiber.Ctx) error
}

type assistantController struct {
	assistantService service.IAssistantService
}

func NewAssistantController(assistantService service.IAssistantService) IAssistantController {
	return &assistantController{
		assistantService: assistantService,
	}
}

func (c *assistantController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/assistant/v1")
	h.Post("chat", c.Chat)
	h.Get("session/:threadId/history", c.GetHistory)
	h.Post("session/reset", c.ResetSession)
	h.Post("index/refresh", c.RefreshIndex)
}

func (c *assistantController) Chat(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.assistantService.Chat(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success process chat", res))
}

func (c *assistantController) GetHistory(ctx *fiber.Ctx) error {
	threadID := ctx.Params("threadId")
	if threadID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "thread id is required")
	}

	res, err := c.assistantService.GetHistory(ctx.Context(), threadID)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get history", res))
}

func (c *assistantController) ResetSession(ctx *fiber.Ctx) error {
	var req dto.ResetSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.assistantService.ResetSession(ctx.Context(), req.ThreadID); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success reset session", nil))
}

func (c *assistantController) RefreshIndex(ctx *fiber.Ctx) error {
	res, err := c.assistantService.RefreshIndex(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success refresh index", res))
}
