package usecase

import (
	"context"
	"errors"
	"strings"

	"jobboard/internal/domain/company"
	"jobboard/internal/domain/listing"
	"jobboard/internal/domain/user"
	"jobboard/internal/metrics"
	"jobboard/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type ListingInput struct {
	Title          string
	Description    string
	Location       string
	EmploymentType listing.EmploymentType
	WorkplaceType  listing.WorkplaceType
	Salary         listing.Salary
	Tags           []string
	// IsActive defaults to true.
	IsActive *bool
}

// ListingPatch changes only the fields that are set.
type ListingPatch struct {
	Title          *string
	Description    *string
	Location       *string
	EmploymentType *listing.EmploymentType
	WorkplaceType  *listing.WorkplaceType
	SalaryMin      *int64
	SalaryMax      *int64
	SalaryCurrency *string
	Tags           *[]string
	IsActive       *bool
}

type Listings struct {
	store     repository.Store
	cache     SearchCache
	publisher Publisher
	clock     Clock
	logger    logrus.FieldLogger
}

func NewListings(store repository.Store, cache SearchCache, publisher Publisher, clock Clock, logger logrus.FieldLogger) *Listings {
	return &Listings{store: store, cache: cache, publisher: publisherOrNop(publisher), clock: clock, logger: logger}
}

func (u *Listings) CreateListing(ctx context.Context, id user.Identity, companyID uuid.UUID, in ListingInput) (listing.JobListing, error) {
	now := u.clock.now()
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	l := listing.JobListing{
		ID:             uuid.New(),
		CompanyID:      companyID,
		Title:          strings.TrimSpace(in.Title),
		Description:    strings.TrimSpace(in.Description),
		Location:       strings.TrimSpace(in.Location),
		EmploymentType: in.EmploymentType,
		WorkplaceType:  in.WorkplaceType,
		Salary:         in.Salary,
		Tags:           listing.NormalizeTags(in.Tags),
		IsActive:       active,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := validateListing(l); err != nil {
		return listing.JobListing{}, err
	}

	err := u.store.WithinTx(ctx, func(r repository.Repositories) error {
		viewer, err := resolveOrCreate(ctx, r, id, u.clock)
		if err != nil {
			return err
		}
		if _, err := requireCompanyRole(ctx, r, companyID, viewer.ID, company.WriteRoles); err != nil {
			return err
		}
		c, err := r.Companies.GetByID(ctx, companyID)
		if err != nil {
			return err
		}
		l.CompanyName = c.Name
		l.CreatedByUserID = &viewer.ID
		return r.Listings.Create(ctx, l)
	})
	if err != nil {
		return listing.JobListing{}, internal(u.logger, "listing.create", err)
	}

	u.listingChanged(ctx, l)
	return l, nil
}

func (u *Listings) UpdateListing(ctx context.Context, id user.Identity, companyID, jobID uuid.UUID, patch ListingPatch) (listing.JobListing, error) {
	return u.modify(ctx, "listing.update", id, companyID, jobID, func(l *listing.JobListing) error {
		applyListingPatch(l, patch)
		return validateListing(*l)
	})
}

// CloseListing deactivates the listing. Listings are never hard deleted;
// reopening is an update with IsActive set.
func (u *Listings) CloseListing(ctx context.Context, id user.Identity, companyID, jobID uuid.UUID) (listing.JobListing, error) {
	return u.modify(ctx, "listing.close", id, companyID, jobID, func(l *listing.JobListing) error {
		l.IsActive = false
		return nil
	})
}

func (u *Listings) modify(ctx context.Context, op string, id user.Identity, companyID, jobID uuid.UUID, change func(l *listing.JobListing) error) (listing.JobListing, error) {
	var out listing.JobListing
	err := u.store.WithinTx(ctx, func(r repository.Repositories) error {
		viewer, err := resolveOrCreate(ctx, r, id, u.clock)
		if err != nil {
			return err
		}
		if _, err := requireCompanyRole(ctx, r, companyID, viewer.ID, company.WriteRoles); err != nil {
			return err
		}
		l, err := r.Listings.GetByIDForUpdate(ctx, jobID)
		if errors.Is(err, repository.ErrNotFound) || (err == nil && l.CompanyID != companyID) {
			return newError(ErrNotFound, "Job not found.")
		}
		if err != nil {
			return err
		}
		if err := change(&l); err != nil {
			return err
		}
		l.UpdatedAt = u.clock.now()
		if err := r.Listings.Update(ctx, l); err != nil {
			return err
		}
		out = l
		return nil
	})
	if err != nil {
		return listing.JobListing{}, internal(u.logger, op, err)
	}

	u.listingChanged(ctx, out)
	return out, nil
}

// SearchListings returns active listings, most recently updated first. The
// limit is clipped to [1, 200] rather than rejected.
func (u *Listings) SearchListings(ctx context.Context, f listing.SearchFilter) ([]listing.JobListing, error) {
	f.Text = strings.TrimSpace(f.Text)
	f.Location = strings.TrimSpace(f.Location)
	if f.WorkplaceType != "" && !f.WorkplaceType.Valid() {
		return nil, validation("Unknown workplace type.")
	}
	if f.EmploymentType != "" && !f.EmploymentType.Valid() {
		return nil, validation("Unknown employment type.")
	}
	f.Limit = repository.ClampLimit(f.Limit, repository.DefaultSearchLimit, repository.MaxListingLimit)

	gen, cacheable := searchGeneration(ctx, u.cache)
	key := ListingSearchCacheKey(f, gen)
	if cacheable {
		var cached []listing.JobListing
		hit, err := u.cache.GetJSON(ctx, key, &cached)
		if err == nil && hit {
			metrics.RecordCacheLookup(true)
			return cached, nil
		}
		metrics.RecordCacheLookup(false)
	}

	out, err := u.store.Repos().Listings.Search(ctx, f)
	if err != nil {
		return nil, internal(u.logger, "listing.search", err)
	}

	// A write that committed during the read has bumped the generation; the
	// page may predate it, so it is not stored.
	if cacheable {
		if now, ok := searchGeneration(ctx, u.cache); ok && now == gen {
			if err := u.cache.SetJSON(ctx, key, out, 0); err != nil && u.logger != nil {
				u.logger.WithError(err).WithField("key", key).Warn("search cache set failed")
			}
		}
	}
	return out, nil
}

func searchGeneration(ctx context.Context, cache SearchCache) (int64, bool) {
	if cache == nil {
		return 0, false
	}
	gen, err := cache.Counter(ctx, listingSearchGenKey)
	if err != nil {
		return 0, false
	}
	return gen, true
}

// ListCompanyJobs requires any active membership in the company.
func (u *Listings) ListCompanyJobs(ctx context.Context, id user.Identity, companyID uuid.UUID, includeClosed bool, limit int) ([]listing.JobListing, error) {
	r := u.store.Repos()
	viewer, err := resolveViewer(ctx, r, id, u.logger)
	if err != nil {
		return nil, err
	}
	if viewer == nil {
		return nil, errSignInRequired
	}
	if _, err := requireCompanyRole(ctx, r, companyID, viewer.ID, company.ReadRoles); err != nil {
		return nil, internal(u.logger, "listing.list_company", err)
	}

	out, err := r.Listings.ListByCompany(ctx, companyID, includeClosed, repository.ClampLimit(limit, repository.DefaultCompanyJobsLimit, repository.MaxListingLimit))
	if err != nil {
		return nil, internal(u.logger, "listing.list_company", err)
	}
	return out, nil
}

// GetJobListingByID is a public read. Missing listings are nil; closed
// listings are returned so callers can render them as unavailable.
func (u *Listings) GetJobListingByID(ctx context.Context, jobID uuid.UUID) (*listing.JobListing, error) {
	l, err := u.store.Repos().Listings.GetByID(ctx, jobID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, internal(u.logger, "listing.get", err)
	}
	return &l, nil
}

func (u *Listings) listingChanged(ctx context.Context, l listing.JobListing) {
	invalidateSearch(ctx, u.cache, u.logger)
	u.publisher.Publish(TopicListings, nil)
	u.publisher.Publish(ListingTopic(l.ID), nil)
	u.publisher.Publish(CompanyTopic(l.CompanyID, FeedJobs), nil)
}

// invalidateSearch bumps the search generation and drops every cached page.
// Any listing write can move a row in or out of any filter.
func invalidateSearch(ctx context.Context, cache SearchCache, logger logrus.FieldLogger) {
	if cache == nil {
		return
	}
	if _, err := cache.Incr(ctx, listingSearchGenKey); err != nil && logger != nil {
		logger.WithError(err).Warn("search generation bump failed")
	}
	if err := cache.DeleteByPattern(ctx, listingSearchPattern); err != nil && logger != nil {
		logger.WithError(err).Warn("search cache invalidation failed")
	}
}

func validateListing(l listing.JobListing) error {
	switch {
	case l.Title == "":
		return validation("Title is required.")
	case l.Description == "":
		return validation("Description is required.")
	case l.Location == "":
		return validation("Location is required.")
	case !l.EmploymentType.Valid():
		return validation("Unknown employment type.")
	case !l.WorkplaceType.Valid():
		return validation("Unknown workplace type.")
	case !l.Salary.Valid():
		return validation("Salary range is invalid.")
	}
	return nil
}

func applyListingPatch(l *listing.JobListing, p ListingPatch) {
	if p.Title != nil {
		l.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		l.Description = strings.TrimSpace(*p.Description)
	}
	if p.Location != nil {
		l.Location = strings.TrimSpace(*p.Location)
	}
	if p.EmploymentType != nil {
		l.EmploymentType = *p.EmploymentType
	}
	if p.WorkplaceType != nil {
		l.WorkplaceType = *p.WorkplaceType
	}
	if p.SalaryMin != nil {
		l.Salary.Min = p.SalaryMin
	}
	if p.SalaryMax != nil {
		l.Salary.Max = p.SalaryMax
	}
	if p.SalaryCurrency != nil {
		l.Salary.Currency = p.SalaryCurrency
	}
	if p.Tags != nil {
		l.Tags = listing.NormalizeTags(*p.Tags)
	}
	if p.IsActive != nil {
		l.IsActive = *p.IsActive
	}
}
