package controller

import (
	"sales-assist-bff/internal/dto"
	"sales-assist-bff/internal/pkg/serverutils"
	"sales-assist-bff/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IDeskController interface {
	RegisterRoutes(r fiber.Router)
	Open(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	StartSession(ctx *fiber.Ctx) error
	ResumeSession(ctx *fiber.Ctx) error
	SendMessage(ctx *fiber.Ctx) error
	AnswerQuestion(ctx *fiber.Ctx) error
	AttachFeedback(ctx *fiber.Ctx) error
	Refine(ctx *fiber.Ctx) error
	SetStage(ctx *fiber.Ctx) error
	AcceptSuggestedStage(ctx *fiber.Ctx) error
	RetryEnrichment(ctx *fiber.Ctx) error
	EndSession(ctx *fiber.Ctx) error
	Close(ctx *fiber.Ctx) error
	Recent(ctx *fiber.Ctx) error
}

type deskController struct {
	service service.IDeskService
}

func NewDeskController(service service.IDeskService) IDeskController {
	return &deskController{service: service}
}

func (c *deskController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/desks")
	h.Post("", c.Open)
	h.Get("recent", c.Recent)
	h.Get(":id", c.Show)
	h.Delete(":id", c.Close)
	h.Post(":id/session", c.StartSession)
	h.Post(":id/session/resume", c.ResumeSession)
	h.Post(":id/messages", c.SendMessage)
	h.Post(":id/answers", c.AnswerQuestion)
	h.Post(":id/feedback", c.AttachFeedback)
	h.Post(":id/refine", c.Refine)
	h.Put(":id/stage", c.SetStage)
	h.Post(":id/stage/accept", c.AcceptSuggestedStage)
	h.Post(":id/retry", c.RetryEnrichment)
	h.Post(":id/end", c.EndSession)
}

// parse binds and validates the JSON body into req.
func parse(ctx *fiber.Ctx, req interface{}) error {
	if err := ctx.BodyParser(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	return serverutils.ValidateRequest(req)
}

func (c *deskController) Open(ctx *fiber.Ctx) error {
	res, err := c.service.Open(ctx.UserContext())
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success open desk", res))
}

func (c *deskController) Show(ctx *fiber.Ctx) error {
	res, err := c.service.Show(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return domainError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get desk", res))
}

func (c *deskController) StartSession(ctx *fiber.Ctx) error {
	res, err := c.service.StartSession(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return domainError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success start session", res))
}

func (c *deskController) ResumeSession(ctx *fiber.Ctx) error {
	var req dto.ResumeSessionRequest
	if err := parse(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.ResumeSession(ctx.UserContext(), ctx.Params("id"), &req)
	if err != nil {
		return domainError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success resume session", res))
}

func (c *deskController) SendMessage(ctx *fiber.Ctx) error {
	var req dto.SendMessageRequest
	if err := parse(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.SendMessage(ctx.UserContext(), ctx.Params("id"), &req)
	if err != nil {
		return domainError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success send message", res))
}

func (c *deskController) AnswerQuestion(ctx *fiber.Ctx) error {
	var req dto.AnswerQuestionRequest
	if err := parse(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.AnswerQuestion(ctx.UserContext(), ctx.Params("id"), &req)
	if err != nil {
		return domainError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success send answer", res))
}

func (c *deskController) AttachFeedback(ctx *fiber.Ctx) error {
	var req dto.FeedbackRequest
	if err := parse(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.AttachFeedback(ctx.UserContext(), ctx.Params("id"), &req)
	if err != nil {
		return domainError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success attach feedback", res))
}

func (c *deskController) Refine(ctx *fiber.Ctx) error {
	var req dto.RefineRequest
	if err := parse(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Refine(ctx.UserContext(), ctx.Params("id"), &req)
	if err != nil {
		return domainError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success refine suggestion", res))
}

func (c *deskController) SetStage(ctx *fiber.Ctx) error {
	var req dto.SetStageRequest
	if err := parse(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.SetStage(ctx.UserContext(), ctx.Params("id"), &req)
	if err != nil {
		return domainError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success set stage", res))
}

func (c *deskController) AcceptSuggestedStage(ctx *fiber.Ctx) error {
	res, err := c.service.AcceptSuggestedStage(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return domainError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success accept suggested stage", res))
}

func (c *deskController) RetryEnrichment(ctx *fiber.Ctx) error {
	res, err := c.service.RetryEnrichment(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return domainError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success retry analysis", res))
}

func (c *deskController) EndSession(ctx *fiber.Ctx) error {
	var req dto.EndSessionRequest
	if err := parse(ctx, &req); err != nil {
		return err
	}

	if err := c.service.EndSession(ctx.UserContext(), ctx.Params("id"), &req); err != nil {
		return domainError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success end session", nil))
}

func (c *deskController) Close(ctx *fiber.Ctx) error {
	if err := c.service.Close(ctx.UserContext(), ctx.Params("id")); err != nil {
		return domainError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success close desk", nil))
}

func (c *deskController) Recent(ctx *fiber.Ctx) error {
	res, err := c.service.Recent(ctx.UserContext())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get recent sessions", res))
}
