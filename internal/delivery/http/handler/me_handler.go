package handler

import (
	"jobboard/internal/delivery/http/dto"
	"jobboard/internal/delivery/http/middleware"
	"jobboard/internal/pkg/response"
	"jobboard/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

// MeHandler serves the signed-in candidate's own data. List endpoints answer
// guests with empty lists.
type MeHandler struct {
	applications *usecase.Applications
	favorites    *usecase.Favorites
	profiles     *usecase.Profiles
}

func NewMeHandler(applications *usecase.Applications, favorites *usecase.Favorites, profiles *usecase.Profiles) *MeHandler {
	return &MeHandler{applications: applications, favorites: favorites, profiles: profiles}
}

func (h *MeHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/me")
	grp.Get("/applications", h.HandleListApplications)
	grp.Get("/favorites", h.HandleListFavorites)

	owned := grp.Group("", middleware.RequireIdentity())
	owned.Get("/profile", h.HandleGetProfile)
	owned.Put("/profile", h.HandleUpsertProfile)
	owned.Post("/resumes", h.HandleSaveResume)
	owned.Delete("/resumes/:resumeId", h.HandleDeleteResume)
}

func (h *MeHandler) HandleListApplications(c fiber.Ctx) error {
	limit, err := parseQueryIntStrict(c, "limit", 0)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	items, err := h.applications.ListMyApplications(c.Context(), middleware.IdentityFrom(c), limit)
	if err != nil {
		return err
	}

	out := make([]dto.MyApplicationResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.MyApplicationResponse{
			ApplicationResponse: dto.NewApplicationResponse(it.Application),
			Job:                 dto.NewJobListingPtr(it.Job),
		})
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *MeHandler) HandleListFavorites(c fiber.Ctx) error {
	limit, err := parseQueryIntStrict(c, "limit", 0)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	items, err := h.favorites.ListMyFavorites(c.Context(), middleware.IdentityFrom(c), limit)
	if err != nil {
		return err
	}

	out := make([]dto.FavoriteResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.FavoriteResponse{
			ID:        it.ID,
			JobID:     it.JobID,
			CreatedAt: dto.FormatTime(it.CreatedAt),
			Job:       dto.NewJobListingPtr(it.Job),
		})
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *MeHandler) HandleGetProfile(c fiber.Ctx) error {
	me, err := h.profiles.GetMyProfile(c.Context(), middleware.IdentityFrom(c))
	if err != nil {
		return err
	}

	out := dto.MyProfileResponse{Resumes: make([]dto.ResumeResponse, 0, len(me.Resumes))}
	if me.Profile != nil {
		p := dto.NewProfileResponse(*me.Profile)
		out.Profile = &p
	}
	for _, r := range me.Resumes {
		out.Resumes = append(out.Resumes, dto.NewResumeResponse(r))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func (h *MeHandler) HandleUpsertProfile(c fiber.Ctx) error {
	var req dto.UpsertProfileRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	p, err := h.profiles.UpsertMyProfile(c.Context(), middleware.IdentityFrom(c), usecase.ProfileInput{
		Headline:        req.Headline,
		Bio:             req.Bio,
		Location:        req.Location,
		YearsExperience: req.YearsExperience,
		Skills:          req.Skills,
		OpenToWork:      req.OpenToWork,
	})
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewProfileResponse(p))
}

func (h *MeHandler) HandleSaveResume(c fiber.Ctx) error {
	var req dto.SaveResumeRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	r, err := h.profiles.SaveResume(c.Context(), middleware.IdentityFrom(c), usecase.ResumeInput{
		Title:     req.Title,
		FileName:  req.FileName,
		FileURL:   req.FileURL,
		IsDefault: req.IsDefault,
	})
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusCreated, response.MessageCreated, dto.NewResumeResponse(r))
}

func (h *MeHandler) HandleDeleteResume(c fiber.Ctx) error {
	resumeID, err := parseUUIDParam(c, "resumeId")
	if err != nil {
		return err
	}

	if err := h.profiles.DeleteResume(c.Context(), middleware.IdentityFrom(c), resumeID); err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}
