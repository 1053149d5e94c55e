package handler

import (
	"jobboard/internal/delivery/http/dto"
	"jobboard/internal/delivery/http/middleware"
	"jobboard/internal/domain/application"
	"jobboard/internal/pkg/response"
	"jobboard/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type ApplicationHandler struct {
	applications *usecase.Applications
}

func NewApplicationHandler(applications *usecase.Applications) *ApplicationHandler {
	return &ApplicationHandler{applications: applications}
}

func (h *ApplicationHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/applications")
	grp.Post("/:applicationId/withdraw", h.HandleWithdraw)
	grp.Patch("/:applicationId/status", h.HandleUpdateStatus)
}

func (h *ApplicationHandler) HandleWithdraw(c fiber.Ctx) error {
	appID, err := parseUUIDParam(c, "applicationId")
	if err != nil {
		return err
	}

	app, err := h.applications.WithdrawApplication(c.Context(), middleware.IdentityFrom(c), appID)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewApplicationResponse(app))
}

func (h *ApplicationHandler) HandleUpdateStatus(c fiber.Ctx) error {
	appID, err := parseUUIDParam(c, "applicationId")
	if err != nil {
		return err
	}

	var req dto.UpdateApplicationStatusRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	app, err := h.applications.UpdateApplicationStatus(c.Context(), middleware.IdentityFrom(c), appID, application.Status(req.Status))
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewApplicationResponse(app))
}
