package handler

import (
	"strconv"

	"jobboard/internal/delivery/http/dto"
	"jobboard/internal/delivery/http/middleware"
	"jobboard/internal/domain/listing"
	"jobboard/internal/pkg/response"
	"jobboard/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// JobsHandler serves the public job board and the candidate actions on a
// single listing.
type JobsHandler struct {
	listings     *usecase.Listings
	applications *usecase.Applications
	favorites    *usecase.Favorites
}

func NewJobsHandler(listings *usecase.Listings, applications *usecase.Applications, favorites *usecase.Favorites) *JobsHandler {
	return &JobsHandler{listings: listings, applications: applications, favorites: favorites}
}

func (h *JobsHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/jobs")
	grp.Get("/", h.HandleSearch)
	grp.Get("/:jobId", h.HandleGet)
	grp.Post("/:jobId/applications", h.HandleApply)
	grp.Get("/:jobId/favorite", h.HandleIsFavorited)
	grp.Put("/:jobId/favorite", h.HandleAddFavorite)
	grp.Delete("/:jobId/favorite", h.HandleRemoveFavorite)
}

func (h *JobsHandler) HandleSearch(c fiber.Ctx) error {
	limit, err := parseQueryIntStrict(c, "limit", 0)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	items, err := h.listings.SearchListings(c.Context(), listing.SearchFilter{
		Text:           c.Query("q"),
		Location:       c.Query("location"),
		WorkplaceType:  listing.WorkplaceType(c.Query("workplace_type")),
		EmploymentType: listing.EmploymentType(c.Query("employment_type")),
		Limit:          limit,
	})
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewJobListingList(items))
}

func (h *JobsHandler) HandleGet(c fiber.Ctx) error {
	jobID, err := parseUUIDParam(c, "jobId")
	if err != nil {
		return err
	}

	l, err := h.listings.GetJobListingByID(c.Context(), jobID)
	if err != nil {
		return err
	}
	if l == nil {
		return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewJobListingResponse(*l))
}

func (h *JobsHandler) HandleApply(c fiber.Ctx) error {
	jobID, err := parseUUIDParam(c, "jobId")
	if err != nil {
		return err
	}

	var req dto.ApplyRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().Body(&req); err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
		}
	}

	appID, err := h.applications.ApplyToJob(c.Context(), middleware.IdentityFrom(c), jobID, req.Submission())
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusCreated, response.MessageCreated, dto.ApplyResponse{ApplicationID: appID})
}

func (h *JobsHandler) HandleIsFavorited(c fiber.Ctx) error {
	jobID, err := parseUUIDParam(c, "jobId")
	if err != nil {
		return err
	}

	ok, err := h.favorites.IsJobFavorited(c.Context(), middleware.IdentityFrom(c), jobID)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.FavoriteStatusResponse{JobID: jobID, Favorited: ok})
}

func (h *JobsHandler) HandleAddFavorite(c fiber.Ctx) error {
	jobID, err := parseUUIDParam(c, "jobId")
	if err != nil {
		return err
	}

	if err := h.favorites.AddFavorite(c.Context(), middleware.IdentityFrom(c), jobID); err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.FavoriteStatusResponse{JobID: jobID, Favorited: true})
}

func (h *JobsHandler) HandleRemoveFavorite(c fiber.Ctx) error {
	jobID, err := parseUUIDParam(c, "jobId")
	if err != nil {
		return err
	}

	if err := h.favorites.RemoveFavorite(c.Context(), middleware.IdentityFrom(c), jobID); err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.FavoriteStatusResponse{JobID: jobID, Favorited: false})
}

func parseQueryIntStrict(c fiber.Ctx, key string, defaultVal int) (int, error) {
	s := c.Query(key)
	if s == "" {
		return defaultVal, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	return v, nil
}

func parseUUIDParam(c fiber.Ctx, key string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(key))
	if err != nil {
		return uuid.Nil, middleware.NewAppError(fiber.StatusBadRequest, "Invalid "+key+".", nil, err)
	}
	return id, nil
}
