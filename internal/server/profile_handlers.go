package server

import (
	"time"

	"devlink/internal/models"
	"devlink/internal/service"

	"github.com/gofiber/fiber/v2"
)

// profileListColumns whitelists the fields list queries may filter, sort,
// or select on.
var profileListColumns = map[string]string{
	"status":     "status",
	"company":    "company",
	"location":   "location",
	"user":       "user_id",
	"created_at": "created_at",
}

// UpsertProfileRequest is the payload for creating or updating a profile.
type UpsertProfileRequest struct {
	Company        *string             `json:"company"`
	Website        *string             `json:"website"`
	Location       *string             `json:"location"`
	Status         *string             `json:"status"`
	Skills         service.SkillsField `json:"skills"`
	Bio            *string             `json:"bio"`
	GithubUsername *string             `json:"github_username"`
	Youtube        *string             `json:"youtube"`
	Twitter        *string             `json:"twitter"`
	Facebook       *string             `json:"facebook"`
	Linkedin       *string             `json:"linkedin"`
	Instagram      *string             `json:"instagram"`
}

// ExperienceRequest is the payload for adding a work history entry. Dates
// accept both RFC 3339 and plain YYYY-MM-DD.
type ExperienceRequest struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	From        string `json:"from"`
	To          string `json:"to"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

// EducationRequest is the payload for adding a schooling entry.
type EducationRequest struct {
	School       string `json:"school"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"field_of_study"`
	From         string `json:"from"`
	To           string `json:"to"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

// GetProfiles handles GET /api/profile
func (s *Server) GetProfiles(c *fiber.Ctx) error {
	params := parseListParams(c, profileListColumns)
	profiles, total, err := s.profileService.List(c.Context(), params.Opts)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(listEnvelope(params, total, len(profiles), profiles))
}

// GetMyProfile handles GET /api/profile/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	profile, err := s.profileService.GetByUserID(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, profile)
}

// GetProfileByUserID handles GET /api/profile/user/:user_id
func (s *Server) GetProfileByUserID(c *fiber.Ctx) error {
	userID, ok := parseID(c, "user_id")
	if !ok {
		return nil
	}
	profile, err := s.profileService.GetByUserID(c.Context(), userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, profile)
}

// UpsertProfile handles POST /api/profile
func (s *Server) UpsertProfile(c *fiber.Ctx) error {
	var req UpsertProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	profile, err := s.profileService.Upsert(c.Context(), service.UpsertProfileInput{
		UserID:         currentUserID(c),
		Company:        req.Company,
		Website:        req.Website,
		Location:       req.Location,
		Status:         req.Status,
		Skills:         req.Skills,
		Bio:            req.Bio,
		GithubUsername: req.GithubUsername,
		Youtube:        req.Youtube,
		Twitter:        req.Twitter,
		Facebook:       req.Facebook,
		Linkedin:       req.Linkedin,
		Instagram:      req.Instagram,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, profile)
}

// DeleteAccount handles DELETE /api/profile
func (s *Server) DeleteAccount(c *fiber.Ctx) error {
	if err := s.profileService.DeleteAccount(c.Context(), currentUserID(c)); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, fiber.Map{"message": "User deleted"})
}

// AddExperience handles PUT /api/profile/experience
func (s *Server) AddExperience(c *fiber.Ctx) error {
	var req ExperienceRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	from, to, err := parseDateRange(req.From, req.To)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	profile, err := s.profileService.AddExperience(c.Context(), currentUserID(c), service.ExperienceInput{
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		From:        from,
		To:          to,
		Current:     req.Current,
		Description: req.Description,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, profile)
}

// DeleteExperience handles DELETE /api/profile/experience/:exp_id
func (s *Server) DeleteExperience(c *fiber.Ctx) error {
	expID, ok := parseID(c, "exp_id")
	if !ok {
		return nil
	}
	profile, err := s.profileService.DeleteExperience(c.Context(), currentUserID(c), expID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, profile)
}

// AddEducation handles PUT /api/profile/education
func (s *Server) AddEducation(c *fiber.Ctx) error {
	var req EducationRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	from, to, err := parseDateRange(req.From, req.To)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	profile, err := s.profileService.AddEducation(c.Context(), currentUserID(c), service.EducationInput{
		School:       req.School,
		Degree:       req.Degree,
		FieldOfStudy: req.FieldOfStudy,
		From:         from,
		To:           to,
		Current:      req.Current,
		Description:  req.Description,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, profile)
}

// DeleteEducation handles DELETE /api/profile/education/:edu_id
func (s *Server) DeleteEducation(c *fiber.Ctx) error {
	eduID, ok := parseID(c, "edu_id")
	if !ok {
		return nil
	}
	profile, err := s.profileService.DeleteEducation(c.Context(), currentUserID(c), eduID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, profile)
}

// GetGithubRepos handles GET /api/profile/github/:username
func (s *Server) GetGithubRepos(c *fiber.Ctx) error {
	repos, err := s.profileService.GithubRepos(c.Context(), c.Params("username"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, repos)
}

var dateLayouts = []string{time.RFC3339, "2006-01-02"}

func parseDate(raw string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		} else {
			lastErr = err
		}
	}
	return time.Time{}, lastErr
}

// parseDateRange parses the from/to pair shared by experience and education
// entries. From is required; To is optional.
func parseDateRange(fromRaw, toRaw string) (time.Time, *time.Time, error) {
	if fromRaw == "" {
		return time.Time{}, nil, models.NewValidationError("From date is required")
	}
	from, err := parseDate(fromRaw)
	if err != nil {
		return time.Time{}, nil, models.NewValidationError("From date is not a valid date")
	}
	if toRaw == "" {
		return from, nil, nil
	}
	to, err := parseDate(toRaw)
	if err != nil {
		return time.Time{}, nil, models.NewValidationError("To date is not a valid date")
	}
	return from, &to, nil
}
