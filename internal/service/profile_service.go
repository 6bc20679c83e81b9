package service

import (
	"context"
	"encoding/json"
	"time"

	"devlink/internal/models"
	"devlink/internal/observability"
	"devlink/internal/repository"
	"devlink/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

// SkillsField accepts skills either as a JSON array of strings or as a single
// comma-separated string, the two shapes clients send.
type SkillsField []string

// UnmarshalJSON implements the dual-shape decoding.
func (s *SkillsField) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*s = validation.ParseSkills(list)
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	*s = validation.ParseSkills([]string{single})
	return nil
}

// UpsertProfileInput carries the profile fields from the request body.
// Pointer fields distinguish "absent" from "set to empty".
type UpsertProfileInput struct {
	UserID         uint
	Company        *string
	Website        *string
	Location       *string
	Status         *string
	Skills         SkillsField
	Bio            *string
	GithubUsername *string
	Youtube        *string
	Twitter        *string
	Facebook       *string
	Linkedin       *string
	Instagram      *string
}

// ExperienceInput carries a new experience entry.
type ExperienceInput struct {
	Title       string
	Company     string
	Location    string
	From        time.Time
	To          *time.Time
	Current     bool
	Description string
}

// EducationInput carries a new education entry.
type EducationInput struct {
	School       string
	Degree       string
	FieldOfStudy string
	From         time.Time
	To           *time.Time
	Current      bool
	Description  string
}

// ProfileService implements profile CRUD, the experience/education
// sub-collections, account deletion, and the GitHub repos lookup.
type ProfileService struct {
	profileRepo repository.ProfileRepository
	github      *GithubClient
}

// NewProfileService returns a ProfileService over the given dependencies.
func NewProfileService(profileRepo repository.ProfileRepository, github *GithubClient) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		github:      github,
	}
}

func (s *ProfileService) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	return s.profileRepo.GetByUserID(ctx, userID)
}

func (s *ProfileService) List(ctx context.Context, opts repository.ListOptions) ([]models.Profile, int64, error) {
	return s.profileRepo.List(ctx, opts)
}

// Upsert creates or updates the caller's profile from the provided fields
// only. Website and social URLs are canonicalized to https; empty strings
// stay empty so a field can be cleared.
func (s *ProfileService) Upsert(ctx context.Context, in UpsertProfileInput) (*models.Profile, error) {
	span, ctx := observability.NewSpan(ctx, "profile.upsert")
	defer span.End()
	span.AddAttributes(attribute.Int("user.id", int(in.UserID)))

	if in.Status == nil || *in.Status == "" {
		return nil, models.NewValidationError("Status is required")
	}
	if len(in.Skills) == 0 {
		return nil, models.NewValidationError("Skills are required")
	}

	fields := map[string]any{
		"status": *in.Status,
		"skills": []string(in.Skills),
	}

	setString := func(column string, v *string) {
		if v != nil {
			fields[column] = *v
		}
	}
	setString("company", in.Company)
	setString("location", in.Location)
	setString("bio", in.Bio)
	setString("github_username", in.GithubUsername)

	if in.Website != nil {
		normalized, err := validation.NormalizeURL(*in.Website)
		if err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		fields["website"] = normalized
	}

	social, err := buildSocialLinks(in)
	if err != nil {
		return nil, err
	}
	if social != nil {
		fields["social"] = *social
	}

	profile, err := s.profileRepo.Upsert(ctx, in.UserID, fields)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	return profile, nil
}

// buildSocialLinks normalizes any provided social URLs. Returns nil when no
// social field was present in the request.
func buildSocialLinks(in UpsertProfileInput) (*models.SocialLinks, error) {
	provided := false
	links := models.SocialLinks{}

	assign := func(dst *string, v *string) error {
		if v == nil {
			return nil
		}
		provided = true
		normalized, err := validation.NormalizeURL(*v)
		if err != nil {
			return models.NewValidationError(err.Error())
		}
		*dst = normalized
		return nil
	}

	if err := assign(&links.Youtube, in.Youtube); err != nil {
		return nil, err
	}
	if err := assign(&links.Twitter, in.Twitter); err != nil {
		return nil, err
	}
	if err := assign(&links.Facebook, in.Facebook); err != nil {
		return nil, err
	}
	if err := assign(&links.Linkedin, in.Linkedin); err != nil {
		return nil, err
	}
	if err := assign(&links.Instagram, in.Instagram); err != nil {
		return nil, err
	}

	if !provided {
		return nil, nil
	}
	return &links, nil
}

func (s *ProfileService) AddExperience(ctx context.Context, userID uint, in ExperienceInput) (*models.Profile, error) {
	if in.Title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if in.Company == "" {
		return nil, models.NewValidationError("Company is required")
	}
	if in.From.IsZero() {
		return nil, models.NewValidationError("From date is required")
	}

	exp := &models.Experience{
		Title:       in.Title,
		Company:     in.Company,
		Location:    in.Location,
		From:        in.From,
		To:          in.To,
		Current:     in.Current,
		Description: in.Description,
	}
	return s.profileRepo.AddExperience(ctx, userID, exp)
}

func (s *ProfileService) DeleteExperience(ctx context.Context, userID, expID uint) (*models.Profile, error) {
	return s.profileRepo.DeleteExperience(ctx, userID, expID)
}

func (s *ProfileService) AddEducation(ctx context.Context, userID uint, in EducationInput) (*models.Profile, error) {
	if in.School == "" {
		return nil, models.NewValidationError("School is required")
	}
	if in.Degree == "" {
		return nil, models.NewValidationError("Degree is required")
	}
	if in.FieldOfStudy == "" {
		return nil, models.NewValidationError("Field of study is required")
	}
	if in.From.IsZero() {
		return nil, models.NewValidationError("From date is required")
	}

	edu := &models.Education{
		School:       in.School,
		Degree:       in.Degree,
		FieldOfStudy: in.FieldOfStudy,
		From:         in.From,
		To:           in.To,
		Current:      in.Current,
		Description:  in.Description,
	}
	return s.profileRepo.AddEducation(ctx, userID, edu)
}

func (s *ProfileService) DeleteEducation(ctx context.Context, userID, eduID uint) (*models.Profile, error) {
	return s.profileRepo.DeleteEducation(ctx, userID, eduID)
}

// DeleteAccount removes the caller's posts, profile, and user record.
func (s *ProfileService) DeleteAccount(ctx context.Context, userID uint) error {
	span, ctx := observability.NewSpan(ctx, "profile.delete_account")
	defer span.End()
	span.AddAttributes(attribute.Int("user.id", int(userID)))

	if err := s.profileRepo.DeleteAccount(ctx, userID); err != nil {
		span.SetError(err)
		return err
	}
	return nil
}

// GithubRepos proxies the GitHub repository lookup for a profile page.
func (s *ProfileService) GithubRepos(ctx context.Context, username string) ([]GithubRepo, error) {
	if username == "" {
		return nil, models.NewValidationError("Github username is required")
	}

	span, ctx := observability.NewSpan(ctx, "profile.github_repos")
	defer span.End()
	span.AddAttributes(attribute.String("github.username", username))

	repos, err := s.github.ListRepos(ctx, username)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	return repos, nil
}
