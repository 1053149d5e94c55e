package usecase

import (
	"context"
	"errors"
	"strings"

	"jobboard/internal/domain/application"
	"jobboard/internal/domain/company"
	"jobboard/internal/domain/listing"
	"jobboard/internal/domain/notification"
	"jobboard/internal/domain/user"
	"jobboard/internal/metrics"
	"jobboard/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	defaultMyApplicationsLimit      = 50
	maxMyApplicationsLimit          = 200
	defaultCompanyApplicationsLimit = 100
	maxCompanyApplicationsLimit     = 500
)

// ApplicationWithJob is an application joined with its listing. Job is nil
// when the listing no longer exists.
type ApplicationWithJob struct {
	application.Application
	Job *listing.JobListing
}

// CompanyApplication joins an application with its listing and applicant,
// either of which may be nil.
type CompanyApplication struct {
	application.Application
	Job       *listing.JobListing
	Applicant *user.User
}

type CompanyApplicationsQuery struct {
	CompanyID uuid.UUID
	Status    application.Status
	JobID     *uuid.UUID
	Limit     int
}

// Applications is the workflow engine. Every write runs in one transaction
// and publishes live-query invalidations only after it commits.
type Applications struct {
	store     repository.Store
	policy    application.Policy
	cache     SearchCache
	publisher Publisher
	clock     Clock
	logger    logrus.FieldLogger
}

func NewApplications(store repository.Store, policy application.Policy, cache SearchCache, publisher Publisher, clock Clock, logger logrus.FieldLogger) *Applications {
	if policy == "" {
		policy = application.PolicyStrict
	}
	return &Applications{
		store:     store,
		policy:    policy,
		cache:     cache,
		publisher: publisherOrNop(publisher),
		clock:     clock,
		logger:    logger,
	}
}

// ApplyToJob submits, or resubmits after a withdrawal, the caller's
// application to jobID and bumps the listing's counter in the same
// transaction. The counter is bumped on every successful call, reapplies
// included.
func (u *Applications) ApplyToJob(ctx context.Context, id user.Identity, jobID uuid.UUID, sub application.Submission) (uuid.UUID, error) {
	sub = normalizeSubmission(sub)

	var (
		app     application.Application
		reapply bool
	)
	err := u.store.WithinTx(ctx, func(r repository.Repositories) error {
		viewer, err := resolveOrCreate(ctx, r, id, u.clock)
		if err != nil {
			return err
		}

		job, err := r.Listings.GetByIDForUpdate(ctx, jobID)
		if errors.Is(err, repository.ErrNotFound) {
			return errJobUnavailableMissing
		}
		if err != nil {
			return err
		}
		if !job.IsActive {
			return errJobUnavailableClosed
		}

		if sub.ResumeID != nil {
			res, err := r.Profiles.GetResume(ctx, *sub.ResumeID)
			if errors.Is(err, repository.ErrNotFound) || (err == nil && res.UserID != viewer.ID) {
				return validation("Invalid resume selected.")
			}
			if err != nil {
				return err
			}
		}

		now := u.clock.now()
		existing, err := r.Applications.GetByJobAndApplicant(ctx, jobID, viewer.ID)
		switch {
		case err == nil:
			if existing.CanReapply() != nil {
				return conflict("You already applied for this job.")
			}
			existing.Resubmit(sub, now)
			if err := r.Applications.Update(ctx, existing); err != nil {
				return err
			}
			app, reapply = existing, true
		case errors.Is(err, repository.ErrNotFound):
			app = application.Application{
				ID:              uuid.New(),
				JobID:           job.ID,
				CompanyID:       job.CompanyID,
				ApplicantUserID: viewer.ID,
				Status:          application.StatusSubmitted,
				CoverLetter:     sub.CoverLetter,
				ResumeID:        sub.ResumeID,
				Answers:         sub.Answers,
				CreatedAt:       now,
				UpdatedAt:       now,
			}
			if err := r.Applications.Create(ctx, app); err != nil {
				if errors.Is(err, repository.ErrDuplicate) {
					return conflict("You already applied for this job.")
				}
				return err
			}
		default:
			return err
		}

		return r.Listings.IncrementApplicationCount(ctx, job.ID, now)
	})
	if err != nil {
		return uuid.Nil, internal(u.logger, "application.apply", err)
	}

	metrics.RecordApplicationSubmitted(reapply)
	if u.logger != nil {
		u.logger.WithFields(logrus.Fields{
			"application_id": app.ID,
			"job_id":         app.JobID,
			"reapply":        reapply,
		}).Info("application submitted")
	}
	invalidateSearch(ctx, u.cache, u.logger)
	u.applicationChanged(app)
	u.publisher.Publish(TopicListings, nil)
	u.publisher.Publish(ListingTopic(app.JobID), nil)
	u.publisher.Publish(CompanyTopic(app.CompanyID, FeedJobs), nil)
	return app.ID, nil
}

// ListMyApplications returns the caller's applications newest first. Guests
// get an empty list.
func (u *Applications) ListMyApplications(ctx context.Context, id user.Identity, limit int) ([]ApplicationWithJob, error) {
	r := u.store.Repos()
	viewer, err := resolveViewer(ctx, r, id, u.logger)
	if err != nil {
		return nil, err
	}
	if viewer == nil {
		return []ApplicationWithJob{}, nil
	}

	apps, err := r.Applications.ListByApplicant(ctx, viewer.ID, repository.ClampLimit(limit, defaultMyApplicationsLimit, maxMyApplicationsLimit))
	if err != nil {
		return nil, internal(u.logger, "application.list_mine", err)
	}
	jobs, err := r.Listings.GetByIDs(ctx, jobIDsOf(apps))
	if err != nil {
		return nil, internal(u.logger, "application.list_mine", err)
	}

	out := make([]ApplicationWithJob, 0, len(apps))
	for _, a := range apps {
		out = append(out, ApplicationWithJob{Application: a, Job: lookup(jobs, a.JobID)})
	}
	return out, nil
}

// ListCompanyApplications reads up to twice the limit from the company index
// (or the status index when Status is set) and then filters by JobID, so a
// job-filtered page may hold fewer than Limit rows even when more exist.
func (u *Applications) ListCompanyApplications(ctx context.Context, id user.Identity, q CompanyApplicationsQuery) ([]CompanyApplication, error) {
	if q.Status != "" && !q.Status.Valid() {
		return nil, validation("Unknown application status.")
	}
	r := u.store.Repos()
	viewer, err := resolveViewer(ctx, r, id, u.logger)
	if err != nil {
		return nil, err
	}
	if viewer == nil {
		return nil, newError(ErrUnauthenticated, "You must be signed in.")
	}
	if _, err := requireCompanyRole(ctx, r, q.CompanyID, viewer.ID, company.ReadRoles); err != nil {
		return nil, internal(u.logger, "application.list_company", err)
	}

	limit := repository.ClampLimit(q.Limit, defaultCompanyApplicationsLimit, maxCompanyApplicationsLimit)
	var rows []application.Application
	if q.Status != "" {
		rows, err = r.Applications.ListByCompanyStatus(ctx, q.CompanyID, q.Status, limit*2)
	} else {
		rows, err = r.Applications.ListByCompany(ctx, q.CompanyID, limit*2)
	}
	if err != nil {
		return nil, internal(u.logger, "application.list_company", err)
	}

	if q.JobID != nil {
		filtered := rows[:0]
		for _, a := range rows {
			if a.JobID == *q.JobID {
				filtered = append(filtered, a)
			}
		}
		rows = filtered
	}
	if len(rows) > limit {
		rows = rows[:limit]
	}

	jobs, err := r.Listings.GetByIDs(ctx, jobIDsOf(rows))
	if err != nil {
		return nil, internal(u.logger, "application.list_company", err)
	}
	applicantIDs := make([]uuid.UUID, 0, len(rows))
	for _, a := range rows {
		applicantIDs = append(applicantIDs, a.ApplicantUserID)
	}
	applicants, err := r.Users.GetByIDs(ctx, applicantIDs)
	if err != nil {
		return nil, internal(u.logger, "application.list_company", err)
	}

	out := make([]CompanyApplication, 0, len(rows))
	for _, a := range rows {
		out = append(out, CompanyApplication{
			Application: a,
			Job:         lookup(jobs, a.JobID),
			Applicant:   lookup(applicants, a.ApplicantUserID),
		})
	}
	return out, nil
}

// UpdateApplicationStatus records a company decision and notifies the
// applicant in the same transaction.
func (u *Applications) UpdateApplicationStatus(ctx context.Context, id user.Identity, applicationID uuid.UUID, status application.Status) (application.Application, error) {
	if !status.IsDecision() {
		return application.Application{}, validation("Status must be in_review, accepted or rejected.")
	}

	var (
		app    application.Application
		notice notification.Notification
	)
	err := u.store.WithinTx(ctx, func(r repository.Repositories) error {
		viewer, err := resolveOrCreate(ctx, r, id, u.clock)
		if err != nil {
			return err
		}
		app, err = r.Applications.GetByIDForUpdate(ctx, applicationID)
		if errors.Is(err, repository.ErrNotFound) {
			return errApplicationNotFound
		}
		if err != nil {
			return err
		}
		if _, err := requireCompanyRole(ctx, r, app.CompanyID, viewer.ID, company.WriteRoles); err != nil {
			return err
		}

		now := u.clock.now()
		if err := app.Decide(u.policy, status, viewer.ID, now); err != nil {
			return decisionError(err)
		}
		if err := r.Applications.Update(ctx, app); err != nil {
			return err
		}

		jobTitle := ""
		job, err := r.Listings.GetByID(ctx, app.JobID)
		switch {
		case err == nil:
			jobTitle = job.Title
		case !errors.Is(err, repository.ErrNotFound):
			return err
		}
		notice = notification.ApplicationStatusChanged(app, jobTitle, now)
		return r.Notifications.Insert(ctx, notice)
	})
	if err != nil {
		return application.Application{}, internal(u.logger, "application.update_status", err)
	}

	metrics.RecordStatusTransition(string(status))
	if u.logger != nil {
		u.logger.WithFields(logrus.Fields{
			"application_id": app.ID,
			"status":         app.Status,
		}).Info("application status updated")
	}
	u.applicationChanged(app)
	u.publisher.Publish(UserTopic(app.ApplicantUserID, FeedNotifications), notice)
	return app, nil
}

// WithdrawApplication lets the applicant retract a non-final application.
// Someone else's application reads as not found.
func (u *Applications) WithdrawApplication(ctx context.Context, id user.Identity, applicationID uuid.UUID) (application.Application, error) {
	var app application.Application
	err := u.store.WithinTx(ctx, func(r repository.Repositories) error {
		viewer, err := resolveOrCreate(ctx, r, id, u.clock)
		if err != nil {
			return err
		}
		app, err = r.Applications.GetByIDForUpdate(ctx, applicationID)
		if errors.Is(err, repository.ErrNotFound) || (err == nil && app.ApplicantUserID != viewer.ID) {
			return errApplicationNotFound
		}
		if err != nil {
			return err
		}
		if err := app.Withdraw(u.clock.now()); err != nil {
			return conflict("You cannot withdraw a finalized application.")
		}
		return r.Applications.Update(ctx, app)
	})
	if err != nil {
		return application.Application{}, internal(u.logger, "application.withdraw", err)
	}

	metrics.RecordWithdrawal()
	u.applicationChanged(app)
	return app, nil
}

func (u *Applications) applicationChanged(app application.Application) {
	u.publisher.Publish(UserTopic(app.ApplicantUserID, FeedApplications), nil)
	u.publisher.Publish(CompanyTopic(app.CompanyID, FeedApplications), nil)
}

func decisionError(err error) error {
	switch {
	case errors.Is(err, application.ErrInvalidDecision):
		return validation("Status must be in_review, accepted or rejected.")
	case errors.Is(err, application.ErrTransitionNotAllowed):
		return conflict("This application can no longer change status.")
	default:
		return err
	}
}

func normalizeSubmission(sub application.Submission) application.Submission {
	if sub.CoverLetter != nil {
		cl := strings.TrimSpace(*sub.CoverLetter)
		if cl == "" {
			sub.CoverLetter = nil
		} else {
			sub.CoverLetter = &cl
		}
	}
	answers := make([]application.Answer, 0, len(sub.Answers))
	for _, a := range sub.Answers {
		q := strings.TrimSpace(a.Question)
		if q == "" {
			continue
		}
		answers = append(answers, application.Answer{Question: q, Answer: strings.TrimSpace(a.Answer)})
	}
	sub.Answers = answers
	if len(sub.Answers) == 0 {
		sub.Answers = nil
	}
	return sub
}

func jobIDsOf(apps []application.Application) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(apps))
	out := make([]uuid.UUID, 0, len(apps))
	for _, a := range apps {
		if _, ok := seen[a.JobID]; ok {
			continue
		}
		seen[a.JobID] = struct{}{}
		out = append(out, a.JobID)
	}
	return out
}

func lookup[T any](m map[uuid.UUID]T, id uuid.UUID) *T {
	v, ok := m[id]
	if !ok {
		return nil
	}
	return &v
}
