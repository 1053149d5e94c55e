package seeder

import (
	"context"

	"jobboard/internal/domain/user"
	"jobboard/internal/usecase"
)

// Demo organizations and the recruiter who posts for each of them.
var demoCompanies = []struct {
	OrgID     string
	Name      string
	Recruiter user.Identity
}{
	{
		OrgID:     "org_demo_acme",
		Name:      "Acme Robotics",
		Recruiter: user.Identity{ExternalID: "user_demo_acme_recruiter", FirstName: "Rita", LastName: "Ramos", Email: "rita@acme.example"},
	},
	{
		OrgID:     "org_demo_globex",
		Name:      "Globex",
		Recruiter: user.Identity{ExternalID: "user_demo_globex_recruiter", FirstName: "Hank", LastName: "Scorpio", Email: "hank@globex.example"},
	},
}

type CompaniesSeeder struct{}

func (CompaniesSeeder) Name() string { return "companies" }

func (CompaniesSeeder) Run(ctx context.Context, env Env) error {
	for _, dc := range demoCompanies {
		if _, err := env.Sync.SyncOrganization(ctx, usecase.OrganizationEvent{
			Type:  usecase.EventOrganizationCreated,
			OrgID: dc.OrgID,
			Name:  dc.Name,
		}); err != nil {
			return err
		}
		if _, err := env.Sync.SyncMembership(ctx, usecase.MembershipEvent{
			Type:   usecase.EventMembershipCreated,
			OrgID:  dc.OrgID,
			Member: dc.Recruiter,
			Role:   "org:admin",
		}); err != nil {
			return err
		}
	}
	return nil
}
