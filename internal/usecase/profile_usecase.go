package usecase

import (
	"context"
	"errors"
	"strings"

	"jobboard/internal/domain/profile"
	"jobboard/internal/domain/user"
	"jobboard/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type ProfileInput struct {
	Headline        *string
	Bio             *string
	Location        *string
	YearsExperience *int
	Skills          []string
	// OpenToWork defaults to true.
	OpenToWork *bool
}

type ResumeInput struct {
	Title     string
	FileName  string
	FileURL   string
	IsDefault bool
}

// MyProfile is nil-profile safe: Profile is nil until the first upsert.
type MyProfile struct {
	Profile *profile.Profile
	Resumes []profile.Resume
}

type Profiles struct {
	store  repository.Store
	clock  Clock
	logger logrus.FieldLogger
}

func NewProfiles(store repository.Store, clock Clock, logger logrus.FieldLogger) *Profiles {
	return &Profiles{store: store, clock: clock, logger: logger}
}

func (u *Profiles) GetMyProfile(ctx context.Context, id user.Identity) (MyProfile, error) {
	out := MyProfile{Resumes: []profile.Resume{}}
	r := u.store.Repos()
	viewer, err := resolveViewer(ctx, r, id, u.logger)
	if err != nil || viewer == nil {
		return out, err
	}

	p, err := r.Profiles.GetProfile(ctx, viewer.ID)
	switch {
	case err == nil:
		out.Profile = &p
	case !errors.Is(err, repository.ErrNotFound):
		return out, internal(u.logger, "profile.get", err)
	}
	resumes, err := r.Profiles.ListResumes(ctx, viewer.ID)
	if err != nil {
		return out, internal(u.logger, "profile.get", err)
	}
	out.Resumes = resumes
	return out, nil
}

func (u *Profiles) UpsertMyProfile(ctx context.Context, id user.Identity, in ProfileInput) (profile.Profile, error) {
	if in.YearsExperience != nil && *in.YearsExperience < 0 {
		return profile.Profile{}, validation("Years of experience cannot be negative.")
	}
	openToWork := true
	if in.OpenToWork != nil {
		openToWork = *in.OpenToWork
	}

	var out profile.Profile
	err := u.store.WithinTx(ctx, func(r repository.Repositories) error {
		viewer, err := resolveOrCreate(ctx, r, id, u.clock)
		if err != nil {
			return err
		}
		now := u.clock.now()
		out, err = r.Profiles.UpsertProfile(ctx, profile.Profile{
			ID:              uuid.New(),
			UserID:          viewer.ID,
			Headline:        trimmedOrNil(in.Headline),
			Bio:             trimmedOrNil(in.Bio),
			Location:        trimmedOrNil(in.Location),
			YearsExperience: in.YearsExperience,
			Skills:          profile.NormalizeSkills(in.Skills),
			OpenToWork:      openToWork,
			CreatedAt:       now,
			UpdatedAt:       now,
		})
		return err
	})
	if err != nil {
		return profile.Profile{}, internal(u.logger, "profile.upsert", err)
	}
	return out, nil
}

// SaveResume stores a resume link. The first resume, or one saved with
// IsDefault, becomes the caller's only default.
func (u *Profiles) SaveResume(ctx context.Context, id user.Identity, in ResumeInput) (profile.Resume, error) {
	res := profile.Resume{
		ID:        uuid.New(),
		Title:     strings.TrimSpace(in.Title),
		FileName:  strings.TrimSpace(in.FileName),
		FileURL:   strings.TrimSpace(in.FileURL),
		IsDefault: in.IsDefault,
	}
	switch {
	case res.Title == "":
		return profile.Resume{}, validation("Resume title is required.")
	case res.FileName == "":
		return profile.Resume{}, validation("File name is required.")
	case !profile.ValidFileURL(res.FileURL):
		return profile.Resume{}, validation("File URL must be an absolute http(s) URL.")
	}

	err := u.store.WithinTx(ctx, func(r repository.Repositories) error {
		viewer, err := resolveOrCreate(ctx, r, id, u.clock)
		if err != nil {
			return err
		}
		existing, err := r.Profiles.ListResumes(ctx, viewer.ID)
		if err != nil {
			return err
		}
		if len(existing) == 0 {
			res.IsDefault = true
		}
		if res.IsDefault {
			if err := r.Profiles.ClearDefaultResume(ctx, viewer.ID); err != nil {
				return err
			}
		}
		now := u.clock.now()
		res.UserID = viewer.ID
		res.CreatedAt = now
		res.UpdatedAt = now
		return r.Profiles.CreateResume(ctx, res)
	})
	if err != nil {
		return profile.Resume{}, internal(u.logger, "profile.save_resume", err)
	}
	return res, nil
}

// DeleteResume removes one of the caller's resumes. Missing and foreign ids
// are a no-op. Removing the default promotes the newest remaining resume.
func (u *Profiles) DeleteResume(ctx context.Context, id user.Identity, resumeID uuid.UUID) error {
	err := u.store.WithinTx(ctx, func(r repository.Repositories) error {
		viewer, err := resolveOrCreate(ctx, r, id, u.clock)
		if err != nil {
			return err
		}
		res, err := r.Profiles.GetResume(ctx, resumeID)
		if errors.Is(err, repository.ErrNotFound) || (err == nil && res.UserID != viewer.ID) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := r.Profiles.DeleteResume(ctx, res.ID); err != nil {
			return err
		}
		if !res.IsDefault {
			return nil
		}
		rest, err := r.Profiles.ListResumes(ctx, viewer.ID)
		if err != nil || len(rest) == 0 {
			return err
		}
		return r.Profiles.SetDefaultResume(ctx, rest[0].ID)
	})
	if err != nil {
		return internal(u.logger, "profile.delete_resume", err)
	}
	return nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
