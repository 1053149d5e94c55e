package ws

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"jobboard/internal/domain/user"
	"jobboard/internal/pkg/jwt"
	"jobboard/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	hub    *Hub
	tokens jwt.Service
	auth   Authorizer
	logger logrus.FieldLogger
}

func NewHandler(hub *Hub, tokens jwt.Service, auth Authorizer, logger logrus.FieldLogger) *Handler {
	return &Handler{hub: hub, tokens: tokens, auth: auth, logger: logger}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleLive upgrades the connection. Browsers cannot set headers on a
// websocket handshake, so the session token comes from the query string.
// Without a token the client may only follow public topics.
func (h *Handler) HandleLive(c fiber.Ctx) error {
	if h == nil || h.hub == nil {
		return fiber.ErrServiceUnavailable
	}

	var id user.Identity
	if token := strings.TrimSpace(c.Query("token")); token != "" {
		if h.tokens == nil {
			return fiber.ErrUnauthorized
		}
		claims, err := h.tokens.ValidateToken(token)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return fiber.NewError(fiber.StatusUnauthorized, "Token expired")
			}
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
		}
		id = claims.Identity()
	}

	fiberHandler := adaptor.HTTPHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			if h.logger != nil {
				h.logger.WithError(err).Warn("live upgrade failed")
			}
			return
		}

		client := NewClient(h.hub, conn, id, h.auth)
		h.hub.Register(client)
		go client.WritePump()
		go client.ReadPump()
	})

	return fiberHandler(c)
}

// TopicAuthorizer admits public topics for everyone, user topics for their
// owner and company topics for active members.
type TopicAuthorizer struct {
	identities *usecase.Identities
	companies  *usecase.Companies
}

func NewTopicAuthorizer(identities *usecase.Identities, companies *usecase.Companies) *TopicAuthorizer {
	return &TopicAuthorizer{identities: identities, companies: companies}
}

func (a *TopicAuthorizer) CanSubscribe(ctx context.Context, id user.Identity, topic string) bool {
	ref, ok := usecase.ParseTopic(topic)
	if !ok {
		return false
	}
	switch {
	case ref.Public():
		return true
	case ref.UserScoped():
		if a.identities == nil {
			return false
		}
		viewer, err := a.identities.ResolveViewer(ctx, id)
		return err == nil && viewer != nil && viewer.ID == ref.ID
	case ref.CompanyScoped():
		return a.companies != nil && a.companies.CanSubscribe(ctx, id, ref.ID)
	}
	return false
}
