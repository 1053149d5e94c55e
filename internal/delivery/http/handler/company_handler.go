package handler

import (
	"strconv"

	"jobboard/internal/delivery/http/dto"
	"jobboard/internal/delivery/http/middleware"
	"jobboard/internal/domain/application"
	"jobboard/internal/domain/listing"
	"jobboard/internal/pkg/response"
	"jobboard/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// CompanyHandler serves the recruiter side. Role checks happen in the
// usecases against stored memberships.
type CompanyHandler struct {
	companies    *usecase.Companies
	listings     *usecase.Listings
	applications *usecase.Applications
}

func NewCompanyHandler(companies *usecase.Companies, listings *usecase.Listings, applications *usecase.Applications) *CompanyHandler {
	return &CompanyHandler{companies: companies, listings: listings, applications: applications}
}

func (h *CompanyHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/companies")
	grp.Get("/context", h.HandleContext)
	grp.Get("/:companyId/jobs", h.HandleListJobs)
	grp.Post("/:companyId/jobs", h.HandleCreateJob)
	grp.Patch("/:companyId/jobs/:jobId", h.HandleUpdateJob)
	grp.Post("/:companyId/jobs/:jobId/close", h.HandleCloseJob)
	grp.Get("/:companyId/applications", h.HandleListApplications)
}

func (h *CompanyHandler) HandleContext(c fiber.Ctx) error {
	cc, err := h.companies.GetCompanyContext(c.Context(), middleware.IdentityFrom(c), c.Query("org_ref"))
	if err != nil {
		return err
	}
	if cc == nil {
		return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.CompanyContextResponse{
		CompanyID:   cc.CompanyID,
		CompanyName: cc.CompanyName,
		CompanySlug: cc.CompanySlug,
		Role:        string(cc.Role),
		OrgRef:      cc.OrgRef,
	})
}

func (h *CompanyHandler) HandleListJobs(c fiber.Ctx) error {
	companyID, err := parseUUIDParam(c, "companyId")
	if err != nil {
		return err
	}
	limit, err := parseQueryIntStrict(c, "limit", 0)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	includeClosed := true
	if raw := c.Query("include_closed"); raw != "" {
		includeClosed, err = strconv.ParseBool(raw)
		if err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
		}
	}

	items, err := h.listings.ListCompanyJobs(c.Context(), middleware.IdentityFrom(c), companyID, includeClosed, limit)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewJobListingList(items))
}

func (h *CompanyHandler) HandleCreateJob(c fiber.Ctx) error {
	companyID, err := parseUUIDParam(c, "companyId")
	if err != nil {
		return err
	}

	var req dto.CreateJobListingRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	l, err := h.listings.CreateListing(c.Context(), middleware.IdentityFrom(c), companyID, usecase.ListingInput{
		Title:          req.Title,
		Description:    req.Description,
		Location:       req.Location,
		EmploymentType: listing.EmploymentType(req.EmploymentType),
		WorkplaceType:  listing.WorkplaceType(req.WorkplaceType),
		Salary:         listing.Salary{Min: req.SalaryMin, Max: req.SalaryMax, Currency: req.SalaryCurrency},
		Tags:           req.Tags,
		IsActive:       req.IsActive,
	})
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusCreated, response.MessageCreated, dto.NewJobListingResponse(l))
}

func (h *CompanyHandler) HandleUpdateJob(c fiber.Ctx) error {
	companyID, err := parseUUIDParam(c, "companyId")
	if err != nil {
		return err
	}
	jobID, err := parseUUIDParam(c, "jobId")
	if err != nil {
		return err
	}

	var req dto.UpdateJobListingRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	patch := usecase.ListingPatch{
		Title:          req.Title,
		Description:    req.Description,
		Location:       req.Location,
		SalaryMin:      req.SalaryMin,
		SalaryMax:      req.SalaryMax,
		SalaryCurrency: req.SalaryCurrency,
		Tags:           req.Tags,
		IsActive:       req.IsActive,
	}
	if req.EmploymentType != nil {
		et := listing.EmploymentType(*req.EmploymentType)
		patch.EmploymentType = &et
	}
	if req.WorkplaceType != nil {
		wt := listing.WorkplaceType(*req.WorkplaceType)
		patch.WorkplaceType = &wt
	}

	l, err := h.listings.UpdateListing(c.Context(), middleware.IdentityFrom(c), companyID, jobID, patch)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewJobListingResponse(l))
}

func (h *CompanyHandler) HandleCloseJob(c fiber.Ctx) error {
	companyID, err := parseUUIDParam(c, "companyId")
	if err != nil {
		return err
	}
	jobID, err := parseUUIDParam(c, "jobId")
	if err != nil {
		return err
	}

	l, err := h.listings.CloseListing(c.Context(), middleware.IdentityFrom(c), companyID, jobID)
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewJobListingResponse(l))
}

func (h *CompanyHandler) HandleListApplications(c fiber.Ctx) error {
	companyID, err := parseUUIDParam(c, "companyId")
	if err != nil {
		return err
	}
	limit, err := parseQueryIntStrict(c, "limit", 0)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	q := usecase.CompanyApplicationsQuery{
		CompanyID: companyID,
		Status:    application.Status(c.Query("status")),
		Limit:     limit,
	}
	if raw := c.Query("job_id"); raw != "" {
		jobID, err := uuid.Parse(raw)
		if err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "Invalid job_id.", nil, err)
		}
		q.JobID = &jobID
	}

	items, err := h.applications.ListCompanyApplications(c.Context(), middleware.IdentityFrom(c), q)
	if err != nil {
		return err
	}

	out := make([]dto.CompanyApplicationResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.CompanyApplicationResponse{
			ApplicationResponse: dto.NewApplicationResponse(it.Application),
			Job:                 dto.NewJobListingPtr(it.Job),
			Applicant:           dto.NewApplicantResponse(it.Applicant),
		})
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}
