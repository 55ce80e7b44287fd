package controller

import (
	"sales-assist-bff/internal/constant"
	"sales-assist-bff/internal/dto"
	"sales-assist-bff/internal/pkg/serverutils"
	"sales-assist-bff/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	Login(ctx *fiber.Ctx) error
	GetNuggets(ctx *fiber.Ctx) error
	AddNugget(ctx *fiber.Ctx) error
	DeleteNugget(ctx *fiber.Ctx) error
	GetGoldenStandards(ctx *fiber.Ctx) error
	CreateGoldenStandard(ctx *fiber.Ctx) error
	GetFeedbackGroups(ctx *fiber.Ctx) error
	GetFeedbackDetails(ctx *fiber.Ctx) error
	GetAnalytics(ctx *fiber.Ctx) error
	GetLogs(ctx *fiber.Ctx) error
	GetLogDetail(ctx *fiber.Ctx) error
}

type adminController struct {
	service   service.IAdminService
	jwtSecret string
}

func NewAdminController(service service.IAdminService, jwtSecret string) IAdminController {
	return &adminController{
		service:   service,
		jwtSecret: jwtSecret,
	}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin")
	h.Post("/login", c.Login)

	protected := h.Group("", serverutils.JwtMiddleware(c.jwtSecret, constant.RoleAdmin))
	protected.Get("/nuggets", c.GetNuggets)
	protected.Post("/nuggets", c.AddNugget)
	protected.Delete("/nuggets/:id", c.DeleteNugget)
	protected.Get("/standards", c.GetGoldenStandards)
	protected.Post("/standards", c.CreateGoldenStandard)
	protected.Get("/feedback/grouped", c.GetFeedbackGroups)
	protected.Get("/feedback/details", c.GetFeedbackDetails)
	protected.Get("/analytics", c.GetAnalytics)
	protected.Get("/logs", c.GetLogs)
	protected.Get("/logs/:id", c.GetLogDetail)
}

// parseQuery binds and validates query parameters into req.
func parseQuery(ctx *fiber.Ctx, req interface{}) error {
	if err := ctx.QueryParser(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid query parameters")
	}
	return serverutils.ValidateRequest(req)
}

func (c *adminController) Login(ctx *fiber.Ctx) error {
	var req dto.AdminLoginRequest
	if err := parse(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Login(ctx.UserContext(), &req)
	if err != nil {
		return domainError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Login successful", res))
}

func (c *adminController) GetNuggets(ctx *fiber.Ctx) error {
	var q dto.LanguageQuery
	if err := parseQuery(ctx, &q); err != nil {
		return err
	}

	res, err := c.service.GetNuggets(ctx.UserContext(), q.Language)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Knowledge nuggets", res))
}

func (c *adminController) AddNugget(ctx *fiber.Ctx) error {
	var req dto.AddNuggetRequest
	if err := parse(ctx, &req); err != nil {
		return err
	}

	if err := c.service.AddNugget(ctx.UserContext(), &req); err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse[any]("Nugget added", nil))
}

func (c *adminController) DeleteNugget(ctx *fiber.Ctx) error {
	if err := c.service.DeleteNugget(ctx.UserContext(), ctx.Params("id")); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Nugget deleted", nil))
}

func (c *adminController) GetGoldenStandards(ctx *fiber.Ctx) error {
	var q dto.LanguageQuery
	if err := parseQuery(ctx, &q); err != nil {
		return err
	}

	res, err := c.service.GetGoldenStandards(ctx.UserContext(), q.Language)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Golden standards", res))
}

func (c *adminController) CreateGoldenStandard(ctx *fiber.Ctx) error {
	var req dto.CreateGoldenStandardRequest
	if err := parse(ctx, &req); err != nil {
		return err
	}

	if err := c.service.CreateGoldenStandard(ctx.UserContext(), &req); err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse[any]("Golden standard created", nil))
}

func (c *adminController) GetFeedbackGroups(ctx *fiber.Ctx) error {
	var q dto.LanguageQuery
	if err := parseQuery(ctx, &q); err != nil {
		return err
	}

	res, err := c.service.GetFeedbackGroups(ctx.UserContext(), q.Language)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Feedback groups", res))
}

func (c *adminController) GetFeedbackDetails(ctx *fiber.Ctx) error {
	var q dto.FeedbackDetailsQuery
	if err := parseQuery(ctx, &q); err != nil {
		return err
	}

	res, err := c.service.GetFeedbackDetails(ctx.UserContext(), &q)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Feedback details", res))
}

func (c *adminController) GetAnalytics(ctx *fiber.Ctx) error {
	var q dto.AnalyticsQuery
	if err := parseQuery(ctx, &q); err != nil {
		return err
	}

	res, err := c.service.GetAnalytics(ctx.UserContext(), &q)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Analytics dashboard", res))
}

func (c *adminController) GetLogs(ctx *fiber.Ctx) error {
	var q dto.LogListQuery
	if err := parseQuery(ctx, &q); err != nil {
		return err
	}

	res, err := c.service.GetSystemLogs(ctx.UserContext(), &q)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("System logs", res))
}

func (c *adminController) GetLogDetail(ctx *fiber.Ctx) error {
	// Log ID is a string (MD5 hash), not UUID
	res, err := c.service.GetLogDetail(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return domainError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Log detail", res))
}
