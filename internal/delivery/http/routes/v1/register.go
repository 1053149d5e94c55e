package v1

import (
	"jobboard/internal/delivery/http/handler"
	"jobboard/internal/ws"

	"github.com/gofiber/fiber/v3"
)

// Handlers is everything mounted under /api/v1. Nil handlers are skipped.
type Handlers struct {
	Jobs         *handler.JobsHandler
	Me           *handler.MeHandler
	Applications *handler.ApplicationHandler
	Companies    *handler.CompanyHandler
	Sync         *handler.SyncHandler
	Live         *ws.Handler
}

func Register(r fiber.Router, h Handlers) {
	if r == nil {
		return
	}

	if h.Jobs != nil {
		h.Jobs.RegisterRoutes(r)
	}
	if h.Me != nil {
		h.Me.RegisterRoutes(r)
	}
	if h.Applications != nil {
		h.Applications.RegisterRoutes(r)
	}
	if h.Companies != nil {
		h.Companies.RegisterRoutes(r)
	}
	if h.Sync != nil {
		h.Sync.RegisterRoutes(r)
	}
	if h.Live != nil {
		r.Get("/live", h.Live.HandleLive)
	}
}
