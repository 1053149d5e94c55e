package handler

import (
	"encoding/json"

	"jobboard/internal/delivery/http/dto"
	"jobboard/internal/delivery/http/middleware"
	"jobboard/internal/domain/user"
	"jobboard/internal/pkg/response"
	"jobboard/internal/pkg/webhook"
	"jobboard/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

// SyncHandler receives organization events from the identity provider.
// Bodies are signed with the shared sync secret.
type SyncHandler struct {
	sync   *usecase.OrgSync
	secret string
}

func NewSyncHandler(sync *usecase.OrgSync, secret string) *SyncHandler {
	return &SyncHandler{sync: sync, secret: secret}
}

func (h *SyncHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/sync", h.verify)
	grp.Post("/organizations", h.HandleOrganization)
	grp.Post("/memberships", h.HandleMembership)
}

func (h *SyncHandler) verify(c fiber.Ctx) error {
	if h.secret == "" || !webhook.VerifySignature(c.Body(), c.Get(webhook.SignatureHeader), h.secret) {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Invalid signature", nil, nil)
	}
	return c.Next()
}

func (h *SyncHandler) HandleOrganization(c fiber.Ctx) error {
	var req dto.OrganizationEventRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	co, err := h.sync.SyncOrganization(c.Context(), usecase.OrganizationEvent{
		Type:  req.Type,
		OrgID: req.Data.ID,
		Name:  req.Data.Name,
		Slug:  req.Data.Slug,
	})
	if err != nil {
		return err
	}
	if co == nil {
		return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.CompanyResponse{
		ID:            co.ID,
		ExternalOrgID: co.ExternalOrgID,
		Name:          co.Name,
		Slug:          co.Slug,
	})
}

func (h *SyncHandler) HandleMembership(c fiber.Ctx) error {
	var req dto.MembershipEventRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	m, err := h.sync.SyncMembership(c.Context(), usecase.MembershipEvent{
		Type:  req.Type,
		OrgID: req.Data.OrgID,
		Member: user.Identity{
			ExternalID: req.Data.UserID,
			Email:      req.Data.Email,
			FirstName:  req.Data.FirstName,
			LastName:   req.Data.LastName,
		},
		Role: req.Data.Role,
	})
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.MembershipResponse{
		CompanyID: m.CompanyID,
		UserID:    m.UserID,
		Role:      string(m.Role),
		Status:    string(m.Status),
	})
}
