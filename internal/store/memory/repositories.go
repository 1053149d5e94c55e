package memory

import (
	"context"
	"sort"
	"time"

	"jobboard/internal/domain/application"
	"jobboard/internal/domain/company"
	"jobboard/internal/domain/favorite"
	"jobboard/internal/domain/listing"
	"jobboard/internal/domain/notification"
	"jobboard/internal/domain/profile"
	"jobboard/internal/domain/user"
	"jobboard/internal/repository"

	"github.com/google/uuid"
)

type userRepo struct{ v *view }

func (r *userRepo) GetByID(_ context.Context, id uuid.UUID) (out user.User, err error) {
	r.v.read(func(st *state) {
		u, ok := st.users[id]
		if !ok {
			err = repository.ErrNotFound
			return
		}
		out = u
	})
	return out, err
}

func (r *userRepo) GetByExternalID(_ context.Context, externalID string) (out user.User, err error) {
	r.v.read(func(st *state) {
		u, ok := st.userByExternalID(externalID)
		if !ok {
			err = repository.ErrNotFound
			return
		}
		out = u
	})
	return out, err
}

func (r *userRepo) GetByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]user.User, error) {
	out := make(map[uuid.UUID]user.User, len(ids))
	r.v.read(func(st *state) {
		for _, id := range ids {
			if u, ok := st.users[id]; ok {
				out[id] = u
			}
		}
	})
	return out, nil
}

func (r *userRepo) CreateIfAbsent(_ context.Context, u user.User) (out user.User, err error) {
	r.v.write(func(st *state) {
		if existing, ok := st.userByExternalID(u.ExternalID); ok {
			out = existing
			return
		}
		st.users[u.ID] = u
		out = u
	})
	return out, nil
}

func (st *state) userByExternalID(externalID string) (user.User, bool) {
	for _, u := range st.users {
		if u.ExternalID == externalID {
			return u, true
		}
	}
	return user.User{}, false
}

type companyRepo struct{ v *view }

func (r *companyRepo) GetByID(_ context.Context, id uuid.UUID) (out company.Company, err error) {
	r.v.read(func(st *state) {
		c, ok := st.companies[id]
		if !ok {
			err = repository.ErrNotFound
			return
		}
		out = c
	})
	return out, err
}

func (r *companyRepo) GetByExternalOrgID(_ context.Context, orgID string) (out company.Company, err error) {
	r.v.read(func(st *state) {
		c, ok := st.companyByOrgID(orgID)
		if !ok {
			err = repository.ErrNotFound
			return
		}
		out = c
	})
	return out, err
}

func (r *companyRepo) Upsert(_ context.Context, c company.Company) (out company.Company, err error) {
	r.v.write(func(st *state) {
		existing, found := st.companyByOrgID(c.ExternalOrgID)
		for _, other := range st.companies {
			if other.Slug == c.Slug && other.ExternalOrgID != c.ExternalOrgID {
				err = repository.ErrDuplicate
				return
			}
		}
		if found {
			existing.Name = c.Name
			existing.Slug = c.Slug
			existing.UpdatedAt = c.UpdatedAt
			c = existing
		}
		st.companies[c.ID] = c
		out = c
	})
	return out, err
}

func (r *companyRepo) GetMembership(_ context.Context, companyID, userID uuid.UUID) (out company.Membership, err error) {
	r.v.read(func(st *state) {
		m, ok := st.membership(companyID, userID)
		if !ok {
			err = repository.ErrNotFound
			return
		}
		out = m
	})
	return out, err
}

func (r *companyRepo) UpsertMembership(_ context.Context, m company.Membership) (out company.Membership, err error) {
	r.v.write(func(st *state) {
		if _, ok := st.companies[m.CompanyID]; !ok {
			err = repository.ErrNotFound
			return
		}
		if _, ok := st.users[m.UserID]; !ok {
			err = repository.ErrNotFound
			return
		}
		if existing, ok := st.membership(m.CompanyID, m.UserID); ok {
			existing.Role = m.Role
			existing.Status = m.Status
			existing.UpdatedAt = m.UpdatedAt
			m = existing
		}
		st.memberships[m.ID] = m
		out = m
	})
	return out, err
}

func (st *state) companyByOrgID(orgID string) (company.Company, bool) {
	for _, c := range st.companies {
		if c.ExternalOrgID == orgID {
			return c, true
		}
	}
	return company.Company{}, false
}

func (st *state) membership(companyID, userID uuid.UUID) (company.Membership, bool) {
	for _, m := range st.memberships {
		if m.CompanyID == companyID && m.UserID == userID {
			return m, true
		}
	}
	return company.Membership{}, false
}

type listingRepo struct{ v *view }

func (r *listingRepo) Create(_ context.Context, l listing.JobListing) (err error) {
	r.v.write(func(st *state) {
		if _, ok := st.companies[l.CompanyID]; !ok {
			err = repository.ErrNotFound
			return
		}
		l.Tags = cloneStrings(l.Tags)
		st.listings[l.ID] = l
	})
	return err
}

func (r *listingRepo) GetByID(_ context.Context, id uuid.UUID) (out listing.JobListing, err error) {
	r.v.read(func(st *state) {
		l, ok := st.listings[id]
		if !ok {
			err = repository.ErrNotFound
			return
		}
		out = st.withCompany(l)
	})
	return out, err
}

func (r *listingRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (listing.JobListing, error) {
	return r.GetByID(ctx, id)
}

func (r *listingRepo) GetByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]listing.JobListing, error) {
	out := make(map[uuid.UUID]listing.JobListing, len(ids))
	r.v.read(func(st *state) {
		for _, id := range ids {
			if l, ok := st.listings[id]; ok {
				out[id] = st.withCompany(l)
			}
		}
	})
	return out, nil
}

func (r *listingRepo) Update(_ context.Context, l listing.JobListing) (err error) {
	r.v.write(func(st *state) {
		existing, ok := st.listings[l.ID]
		if !ok {
			err = repository.ErrNotFound
			return
		}
		l.CompanyID = existing.CompanyID
		l.ApplicationCount = existing.ApplicationCount
		l.CreatedByUserID = existing.CreatedByUserID
		l.CreatedAt = existing.CreatedAt
		l.Tags = cloneStrings(l.Tags)
		st.listings[l.ID] = l
	})
	return err
}

func (r *listingRepo) IncrementApplicationCount(_ context.Context, id uuid.UUID, at time.Time) (err error) {
	r.v.write(func(st *state) {
		l, ok := st.listings[id]
		if !ok {
			err = repository.ErrNotFound
			return
		}
		l.ApplicationCount++
		l.UpdatedAt = at
		st.listings[id] = l
	})
	return err
}

func (r *listingRepo) Search(_ context.Context, f listing.SearchFilter) ([]listing.JobListing, error) {
	limit := repository.ClampLimit(f.Limit, repository.DefaultSearchLimit, repository.MaxListingLimit)
	var out []listing.JobListing
	r.v.read(func(st *state) {
		for _, l := range st.listings {
			l = st.withCompany(l)
			if f.Matches(l) {
				out = append(out, l)
			}
		}
	})
	return newestListings(out, limit), nil
}

func (r *listingRepo) ListByCompany(_ context.Context, companyID uuid.UUID, includeClosed bool, limit int) ([]listing.JobListing, error) {
	limit = repository.ClampLimit(limit, repository.DefaultCompanyJobsLimit, repository.MaxListingLimit)
	var out []listing.JobListing
	r.v.read(func(st *state) {
		for _, l := range st.listings {
			if l.CompanyID != companyID || (!includeClosed && !l.IsActive) {
				continue
			}
			out = append(out, st.withCompany(l))
		}
	})
	return newestListings(out, limit), nil
}

func (st *state) withCompany(l listing.JobListing) listing.JobListing {
	if c, ok := st.companies[l.CompanyID]; ok {
		l.CompanyName = c.Name
	}
	l.Tags = cloneStrings(l.Tags)
	return l
}

func newestListings(in []listing.JobListing, limit int) []listing.JobListing {
	sort.Slice(in, func(i, j int) bool {
		if !in[i].UpdatedAt.Equal(in[j].UpdatedAt) {
			return in[i].UpdatedAt.After(in[j].UpdatedAt)
		}
		return in[i].ID.String() < in[j].ID.String()
	})
	if len(in) > limit {
		in = in[:limit]
	}
	if in == nil {
		in = []listing.JobListing{}
	}
	return in
}

type applicationRepo struct{ v *view }

func (r *applicationRepo) Create(_ context.Context, a application.Application) (err error) {
	r.v.write(func(st *state) {
		for _, other := range st.applications {
			if other.JobID == a.JobID && other.ApplicantUserID == a.ApplicantUserID {
				err = repository.ErrDuplicate
				return
			}
		}
		if _, ok := st.listings[a.JobID]; !ok {
			err = repository.ErrNotFound
			return
		}
		a.Answers = append([]application.Answer(nil), a.Answers...)
		st.applications[a.ID] = a
	})
	return err
}

func (r *applicationRepo) GetByID(_ context.Context, id uuid.UUID) (out application.Application, err error) {
	r.v.read(func(st *state) {
		a, ok := st.applications[id]
		if !ok {
			err = repository.ErrNotFound
			return
		}
		out = a
	})
	return out, err
}

func (r *applicationRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (application.Application, error) {
	return r.GetByID(ctx, id)
}

func (r *applicationRepo) GetByJobAndApplicant(_ context.Context, jobID, applicantID uuid.UUID) (out application.Application, err error) {
	err = repository.ErrNotFound
	r.v.read(func(st *state) {
		for _, a := range st.applications {
			if a.JobID == jobID && a.ApplicantUserID == applicantID {
				out, err = a, nil
				return
			}
		}
	})
	return out, err
}

func (r *applicationRepo) Update(_ context.Context, a application.Application) (err error) {
	r.v.write(func(st *state) {
		existing, ok := st.applications[a.ID]
		if !ok {
			err = repository.ErrNotFound
			return
		}
		a.JobID = existing.JobID
		a.CompanyID = existing.CompanyID
		a.ApplicantUserID = existing.ApplicantUserID
		a.CreatedAt = existing.CreatedAt
		a.Answers = append([]application.Answer(nil), a.Answers...)
		st.applications[a.ID] = a
	})
	return err
}

func (r *applicationRepo) ListByApplicant(_ context.Context, applicantID uuid.UUID, limit int) ([]application.Application, error) {
	return r.filter(limit, func(a application.Application) bool {
		return a.ApplicantUserID == applicantID
	}), nil
}

func (r *applicationRepo) ListByCompany(_ context.Context, companyID uuid.UUID, limit int) ([]application.Application, error) {
	return r.filter(limit, func(a application.Application) bool {
		return a.CompanyID == companyID
	}), nil
}

func (r *applicationRepo) ListByCompanyStatus(_ context.Context, companyID uuid.UUID, status application.Status, limit int) ([]application.Application, error) {
	return r.filter(limit, func(a application.Application) bool {
		return a.CompanyID == companyID && a.Status == status
	}), nil
}

func (r *applicationRepo) filter(limit int, keep func(application.Application) bool) []application.Application {
	limit = repository.ClampLimit(limit, repository.DefaultApplicationsLimit, repository.MaxApplicationsFetch)
	out := make([]application.Application, 0)
	r.v.read(func(st *state) {
		for _, a := range st.applications {
			if keep(a) {
				out = append(out, a)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

type favoriteRepo struct{ v *view }

func (r *favoriteRepo) Add(_ context.Context, f favorite.Favorite) (err error) {
	r.v.write(func(st *state) {
		if _, ok := st.listings[f.JobID]; !ok {
			err = repository.ErrNotFound
			return
		}
		for _, other := range st.favorites {
			if other.UserID == f.UserID && other.JobID == f.JobID {
				return
			}
		}
		st.favorites[f.ID] = f
	})
	return err
}

func (r *favoriteRepo) Remove(_ context.Context, userID, jobID uuid.UUID) error {
	r.v.write(func(st *state) {
		for id, f := range st.favorites {
			if f.UserID == userID && f.JobID == jobID {
				delete(st.favorites, id)
			}
		}
	})
	return nil
}

func (r *favoriteRepo) Exists(_ context.Context, userID, jobID uuid.UUID) (found bool, _ error) {
	r.v.read(func(st *state) {
		for _, f := range st.favorites {
			if f.UserID == userID && f.JobID == jobID {
				found = true
				return
			}
		}
	})
	return found, nil
}

func (r *favoriteRepo) ListByUser(_ context.Context, userID uuid.UUID, limit int) ([]favorite.Favorite, error) {
	limit = repository.ClampLimit(limit, repository.DefaultFavoritesLimit, repository.MaxFavoritesLimit)
	out := make([]favorite.Favorite, 0)
	r.v.read(func(st *state) {
		for _, f := range st.favorites {
			if f.UserID == userID {
				out = append(out, f)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type notificationRepo struct{ v *view }

func (r *notificationRepo) Insert(_ context.Context, n notification.Notification) error {
	r.v.write(func(st *state) {
		st.notifications = append(st.notifications, n)
	})
	return nil
}

func (r *notificationRepo) ListByUser(_ context.Context, userID uuid.UUID, limit int) ([]notification.Notification, error) {
	limit = repository.ClampLimit(limit, 50, 200)
	out := make([]notification.Notification, 0)
	r.v.read(func(st *state) {
		for i := len(st.notifications) - 1; i >= 0 && len(out) < limit; i-- {
			if st.notifications[i].UserID == userID {
				out = append(out, st.notifications[i])
			}
		}
	})
	return out, nil
}

type profileRepo struct{ v *view }

func (r *profileRepo) GetProfile(_ context.Context, userID uuid.UUID) (out profile.Profile, err error) {
	r.v.read(func(st *state) {
		p, ok := st.profiles[userID]
		if !ok {
			err = repository.ErrNotFound
			return
		}
		out = p
	})
	return out, err
}

func (r *profileRepo) UpsertProfile(_ context.Context, p profile.Profile) (out profile.Profile, err error) {
	r.v.write(func(st *state) {
		if existing, ok := st.profiles[p.UserID]; ok {
			p.ID = existing.ID
			p.CreatedAt = existing.CreatedAt
		}
		p.Skills = cloneStrings(p.Skills)
		st.profiles[p.UserID] = p
		out = p
	})
	return out, nil
}

func (r *profileRepo) ListResumes(_ context.Context, userID uuid.UUID) ([]profile.Resume, error) {
	out := make([]profile.Resume, 0)
	r.v.read(func(st *state) {
		for _, res := range st.resumes {
			if res.UserID == userID {
				out = append(out, res)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (r *profileRepo) GetResume(_ context.Context, id uuid.UUID) (out profile.Resume, err error) {
	r.v.read(func(st *state) {
		res, ok := st.resumes[id]
		if !ok {
			err = repository.ErrNotFound
			return
		}
		out = res
	})
	return out, err
}

func (r *profileRepo) CreateResume(_ context.Context, res profile.Resume) error {
	r.v.write(func(st *state) {
		st.resumes[res.ID] = res
	})
	return nil
}

func (r *profileRepo) DeleteResume(_ context.Context, id uuid.UUID) error {
	r.v.write(func(st *state) {
		delete(st.resumes, id)
		for appID, a := range st.applications {
			if a.ResumeID != nil && *a.ResumeID == id {
				a.ResumeID = nil
				st.applications[appID] = a
			}
		}
	})
	return nil
}

func (r *profileRepo) ClearDefaultResume(_ context.Context, userID uuid.UUID) error {
	r.v.write(func(st *state) {
		for id, res := range st.resumes {
			if res.UserID == userID && res.IsDefault {
				res.IsDefault = false
				st.resumes[id] = res
			}
		}
	})
	return nil
}

func (r *profileRepo) SetDefaultResume(_ context.Context, id uuid.UUID) (err error) {
	r.v.write(func(st *state) {
		res, ok := st.resumes[id]
		if !ok {
			err = repository.ErrNotFound
			return
		}
		res.IsDefault = true
		st.resumes[id] = res
	})
	return err
}
