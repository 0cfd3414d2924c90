package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Alwanly/service-config-client/internal/devserver/dto"
	"github.com/Alwanly/service-config-client/internal/devserver/repository"
	"github.com/Alwanly/service-config-client/internal/devserver/usecase"
	"github.com/Alwanly/service-config-client/pkg/deps"
	"github.com/Alwanly/service-config-client/pkg/logger"
	"github.com/Alwanly/service-config-client/pkg/middleware"
	"github.com/Alwanly/service-config-client/pkg/validate"
)

type Handler struct {
	Logger     *logger.CanonicalLogger
	UseCase    *usecase.UseCase
	Middleware *middleware.AuthMiddleware
}

func NewHandler(d deps.App) *Handler {
	repo := repository.NewRepository(d.Database, d.Pub)

	uc := usecase.NewUseCase(usecase.UseCase{
		Repo:   repo,
		Logger: d.Logger,
	})

	h := &Handler{
		Logger:     d.Logger,
		UseCase:    uc,
		Middleware: d.Middleware,
	}

	// Health check endpoint (no auth required)
	d.Fiber.Get("/health", h.health)

	// Public configuration endpoint with ETag support
	d.Fiber.Get("/config", h.getConfig)

	// Admin-protected endpoint for replacing the configuration
	d.Fiber.Post("/config", d.Middleware.BasicAuthAdmin(), h.setConfig)

	return h
}

func (h *Handler) health(c *fiber.Ctx) error {
	logger.AddToContext(c.UserContext(), logger.String(logger.FieldOperation, "health_check"))

	return c.JSON(fiber.Map{"status": "healthy"})
}

// getConfig serves the current document as plain JSON so any configuration
// client can consume it directly. If-None-Match short-circuits to 304.
func (h *Handler) getConfig(c *fiber.Ctx) error {
	logger.AddToContext(c.UserContext(), logger.String(logger.FieldOperation, "get_config"))

	etag := c.Get("If-None-Match")

	res, currentETag := h.UseCase.GetConfiguration(c.UserContext(), etag)

	if res.Code == fiber.StatusNotModified {
		c.Set("ETag", currentETag)
		return c.SendStatus(fiber.StatusNotModified)
	}

	if !res.Success {
		return c.Status(res.Code).JSON(fiber.Map{"error": res.Message})
	}

	c.Set("ETag", currentETag)
	return c.Status(res.Code).JSON(res.Data)
}

func (h *Handler) setConfig(c *fiber.Ctx) error {
	logger.AddToContext(c.UserContext(), logger.String(logger.FieldOperation, "set_config"))

	req := new(dto.SetConfigRequest)
	if err := c.BodyParser(req); err != nil {
		logger.AddToContext(c.UserContext(), zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := validate.ValidateStruct(req); err != nil {
		logger.AddToContext(c.UserContext(), zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	res := h.UseCase.SetConfiguration(c.UserContext(), req)

	return c.Status(res.Code).JSON(res.Data)
}
