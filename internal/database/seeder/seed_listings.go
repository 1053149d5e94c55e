package seeder

import (
	"context"

	"jobboard/internal/domain/listing"
	"jobboard/internal/usecase"
)

func int64Ptr(v int64) *int64 { return &v }

func strPtr(s string) *string { return &s }

var demoListings = map[string][]usecase.ListingInput{
	"org_demo_acme": {
		{
			Title:          "Backend Engineer (Go)",
			Description:    "Build the services behind our warehouse robots.",
			Location:       "Berlin",
			EmploymentType: listing.EmploymentFullTime,
			WorkplaceType:  listing.WorkplaceHybrid,
			Salary:         listing.Salary{Min: int64Ptr(70000), Max: int64Ptr(90000), Currency: strPtr("EUR")},
			Tags:           []string{"Go", "PostgreSQL", "Redis"},
		},
		{
			Title:          "Robotics Intern",
			Description:    "Six months on the motion planning team.",
			Location:       "Berlin",
			EmploymentType: listing.EmploymentInternship,
			WorkplaceType:  listing.WorkplaceOnSite,
			Tags:           []string{"C++", "ROS"},
		},
	},
	"org_demo_globex": {
		{
			Title:          "Site Reliability Engineer",
			Description:    "Keep the volcano lair online.",
			Location:       "Remote",
			EmploymentType: listing.EmploymentContract,
			WorkplaceType:  listing.WorkplaceRemote,
			Tags:           []string{"Kubernetes", "Prometheus"},
		},
	},
}

// ListingsSeeder posts the demo listings for companies that have none yet.
type ListingsSeeder struct{}

func (ListingsSeeder) Name() string { return "listings" }

func (ListingsSeeder) Run(ctx context.Context, env Env) error {
	for _, dc := range demoCompanies {
		co, err := env.Sync.SyncOrganization(ctx, usecase.OrganizationEvent{
			Type:  usecase.EventOrganizationUpdated,
			OrgID: dc.OrgID,
			Name:  dc.Name,
		})
		if err != nil {
			return err
		}

		existing, err := env.Listings.ListCompanyJobs(ctx, dc.Recruiter, co.ID, true, 1)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			continue
		}

		for _, in := range demoListings[dc.OrgID] {
			if _, err := env.Listings.CreateListing(ctx, dc.Recruiter, co.ID, in); err != nil {
				return err
			}
		}
	}
	return nil
}
