package usecase

import (
	"context"
	"errors"
	"strings"

	"jobboard/internal/domain/company"
	"jobboard/internal/domain/user"
	"jobboard/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Event types sent by the organization provider.
const (
	EventOrganizationCreated = "organization.created"
	EventOrganizationUpdated = "organization.updated"
	EventOrganizationDeleted = "organization.deleted"
	EventMembershipCreated   = "organizationMembership.created"
	EventMembershipUpdated   = "organizationMembership.updated"
	EventMembershipDeleted   = "organizationMembership.deleted"
)

type OrganizationEvent struct {
	Type  string
	OrgID string
	Name  string
	Slug  string
}

type MembershipEvent struct {
	Type   string
	OrgID  string
	Member user.Identity
	Role   string
}

// OrgSync mirrors organizations and memberships pushed by the provider.
// Memberships are deactivated, never deleted.
type OrgSync struct {
	store     repository.Store
	publisher Publisher
	clock     Clock
	logger    logrus.FieldLogger
}

func NewOrgSync(store repository.Store, publisher Publisher, clock Clock, logger logrus.FieldLogger) *OrgSync {
	return &OrgSync{store: store, publisher: publisherOrNop(publisher), clock: clock, logger: logger}
}

// SyncOrganization upserts the company for ev.OrgID. Deleted organizations
// are kept so their listings and applications stay readable.
func (u *OrgSync) SyncOrganization(ctx context.Context, ev OrganizationEvent) (*company.Company, error) {
	ev.OrgID = strings.TrimSpace(ev.OrgID)
	ev.Name = strings.TrimSpace(ev.Name)
	if ev.OrgID == "" {
		return nil, validation("Organization id is required.")
	}
	switch ev.Type {
	case EventOrganizationCreated, EventOrganizationUpdated:
	case EventOrganizationDeleted:
		if u.logger != nil {
			u.logger.WithField("org_id", ev.OrgID).Info("organization deleted upstream, keeping company")
		}
		return nil, nil
	default:
		return nil, validation("Unsupported event type.")
	}
	if ev.Name == "" {
		return nil, validation("Organization name is required.")
	}
	slug := company.Slugify(ev.Slug)
	if slug == "" {
		slug = company.Slugify(ev.Name)
	}
	if slug == "" {
		slug = company.Slugify(ev.OrgID)
	}

	now := u.clock.now()
	var out company.Company
	err := u.store.WithinTx(ctx, func(r repository.Repositories) error {
		c, err := r.Companies.Upsert(ctx, company.Company{
			ID:            uuid.New(),
			ExternalOrgID: ev.OrgID,
			Name:          ev.Name,
			Slug:          slug,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
		if errors.Is(err, repository.ErrDuplicate) {
			return conflict("Company slug is already taken.")
		}
		out = c
		return err
	})
	if err != nil {
		return nil, internal(u.logger, "sync.organization", err)
	}

	if u.logger != nil {
		u.logger.WithFields(logrus.Fields{"org_id": out.ExternalOrgID, "company_id": out.ID}).Info("organization synced")
	}
	u.publisher.Publish(TopicListings, nil)
	u.publisher.Publish(CompanyTopic(out.ID, FeedJobs), nil)
	return &out, nil
}

// SyncMembership upserts the member's role in a synced company, creating the
// member's user row on first sight.
func (u *OrgSync) SyncMembership(ctx context.Context, ev MembershipEvent) (company.Membership, error) {
	ev.OrgID = strings.TrimSpace(ev.OrgID)
	if ev.OrgID == "" || !ev.Member.Valid() {
		return company.Membership{}, validation("Organization and user ids are required.")
	}

	status := company.MembershipActive
	switch ev.Type {
	case EventMembershipCreated, EventMembershipUpdated:
	case EventMembershipDeleted:
		status = company.MembershipInactive
	default:
		return company.Membership{}, validation("Unsupported event type.")
	}
	role, ok := company.ParseRole(ev.Role)
	if !ok {
		if status == company.MembershipActive {
			return company.Membership{}, validation("Unknown membership role.")
		}
		role = company.RoleMember
	}

	var out company.Membership
	err := u.store.WithinTx(ctx, func(r repository.Repositories) error {
		c, err := r.Companies.GetByExternalOrgID(ctx, ev.OrgID)
		if errors.Is(err, repository.ErrNotFound) {
			return newError(ErrNotFound, "Organization has not been synced.")
		}
		if err != nil {
			return err
		}
		member, err := resolveOrCreate(ctx, r, ev.Member, u.clock)
		if err != nil {
			return err
		}

		if status == company.MembershipInactive {
			existing, err := r.Companies.GetMembership(ctx, c.ID, member.ID)
			if err == nil {
				role = existing.Role
			} else if !errors.Is(err, repository.ErrNotFound) {
				return err
			}
		}

		now := u.clock.now()
		out, err = r.Companies.UpsertMembership(ctx, company.Membership{
			ID:        uuid.New(),
			CompanyID: c.ID,
			UserID:    member.ID,
			Role:      role,
			Status:    status,
			CreatedAt: now,
			UpdatedAt: now,
		})
		return err
	})
	if err != nil {
		return company.Membership{}, internal(u.logger, "sync.membership", err)
	}

	if u.logger != nil {
		u.logger.WithFields(logrus.Fields{
			"company_id": out.CompanyID,
			"user_id":    out.UserID,
			"role":       out.Role,
			"status":     out.Status,
		}).Info("membership synced")
	}
	return out, nil
}
