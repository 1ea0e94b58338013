package services

import (
	"context"
	"mime/multipart"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/campuslink/campuslink/internal/app/auth"
	"github.com/campuslink/campuslink/internal/app/models"
	"github.com/campuslink/campuslink/internal/app/models/dto"
	"github.com/campuslink/campuslink/internal/app/repositories"
	"github.com/campuslink/campuslink/internal/middleware"
	"github.com/campuslink/campuslink/internal/permissions"
	"github.com/campuslink/campuslink/internal/pkg/apperrors"
	"github.com/campuslink/campuslink/internal/pkg/email"
	"github.com/campuslink/campuslink/internal/pkg/filestorage"
	"github.com/campuslink/campuslink/internal/pkg/validation"
	"github.com/campuslink/campuslink/internal/tenant"
)

// profileRepository is the slice of the profile repository this service
// consumes.
type profileRepository interface {
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	Update(ctx context.Context, p *models.Profile) error
	SetAvatarURL(ctx context.Context, id string, url *string) (*string, error)
	SetResumeURL(ctx context.Context, id string, url *string) (*string, error)
	Deactivate(ctx context.Context, id string) error
	SearchByDomain(ctx context.Context, collegeDomain, search string, offset uint64, limit int) ([]*models.Profile, int64, error)
	AddExperience(ctx context.Context, e *models.Experience) error
	ListExperiences(ctx context.Context, profileID string) ([]*models.Experience, error)
	DeleteExperience(ctx context.Context, id, profileID string) error
	AddSkill(ctx context.Context, s *models.Skill) error
	ListSkills(ctx context.Context, profileID string) ([]*models.Skill, error)
	DeleteSkill(ctx context.Context, id, profileID string) error
	UpdateRole(ctx context.Context, id, role string) error
}

// skillAnalyzer calls the skill-analysis stored procedure.
type skillAnalyzer interface {
	AnalyzeSkills(ctx context.Context, profileID string) (*repositories.SkillAnalysis, error)
}

// ProfileService defines the interface for profile operations
type ProfileService interface {
	Get(ctx context.Context, caller *auth.Identity, profileID string) (*models.Profile, error)
	Update(ctx context.Context, caller *auth.Identity, req *dto.UpdateProfileRequest) (*models.Profile, error)
	Search(ctx context.Context, caller *auth.Identity, query string, offset uint64, limit int) ([]*models.Profile, int64, error)
	UploadAvatar(ctx context.Context, caller *auth.Identity, file *multipart.FileHeader) (string, error)
	UploadResume(ctx context.Context, caller *auth.Identity, file *multipart.FileHeader) (string, error)
	Deactivate(ctx context.Context, caller *auth.Identity) error
	AddExperience(ctx context.Context, caller *auth.Identity, req *dto.AddExperienceRequest) (*models.Experience, error)
	ListExperiences(ctx context.Context, caller *auth.Identity, profileID string) ([]*models.Experience, error)
	DeleteExperience(ctx context.Context, caller *auth.Identity, experienceID string) error
	AddSkill(ctx context.Context, caller *auth.Identity, req *dto.AddSkillRequest) (*models.Skill, error)
	ListSkills(ctx context.Context, caller *auth.Identity, profileID string) ([]*models.Skill, error)
	DeleteSkill(ctx context.Context, caller *auth.Identity, skillID string) error
	AnalyzeSkills(ctx context.Context, caller *auth.Identity) (*dto.SkillAnalysisResponse, error)
}

type profileServiceImpl struct {
	profiles profileRepository
	rpc      skillAnalyzer
	guard    *tenant.Guard
	storage  filestorage.Storage
	mailer   email.EmailService
	logger   zerolog.Logger
}

// NewProfileService creates a new ProfileService
func NewProfileService(
	profiles profileRepository,
	rpc skillAnalyzer,
	guard *tenant.Guard,
	storage filestorage.Storage,
	mailer email.EmailService,
	logger zerolog.Logger,
) ProfileService {
	return &profileServiceImpl{
		profiles: profiles,
		rpc:      rpc,
		guard:    guard,
		storage:  storage,
		mailer:   mailer,
		logger:   logger,
	}
}

// Get returns a profile visible to the caller. Profiles are tenant-scoped:
// a profile from another college is reported as not found, not as forbidden,
// so existence does not leak across tenants.
func (s *profileServiceImpl) Get(ctx context.Context, caller *auth.Identity, profileID string) (*models.Profile, error) {
	if err := validation.UserID(profileID); err != nil {
		return nil, err
	}
	profile, err := s.profiles.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if !s.guard.SameTenant(ctx, caller.CollegeDomain, profile.CollegeDomain) {
		return nil, apperrors.ErrResourceNotFound
	}
	return profile, nil
}

// Update edits the caller's own profile. When the graduation year moves into
// the past for a student account the role is reclassified to alumni.
func (s *profileServiceImpl) Update(ctx context.Context, caller *auth.Identity, req *dto.UpdateProfileRequest) (*models.Profile, error) {
	profile, err := s.profiles.GetByID(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		name, err := validation.RequiredText("fullName", *req.FullName, validation.NameMaxLength)
		if err != nil {
			return nil, err
		}
		profile.FullName = name
	}
	if req.Headline != nil {
		headline, err := validation.OptionalText("headline", *req.Headline, validation.TitleMaxLength)
		if err != nil {
			return nil, err
		}
		profile.Headline = &headline
	}
	if req.Bio != nil {
		bio, err := validation.OptionalText("bio", *req.Bio, validation.ContentMaxLength)
		if err != nil {
			return nil, err
		}
		profile.Bio = &bio
	}
	if req.GraduationYear != nil {
		if err := validation.YearInRange("graduationYear", *req.GraduationYear, 1950, time.Now().Year()+10); err != nil {
			return nil, err
		}
		profile.GraduationYear = req.GraduationYear
	}
	if req.LinkedinURL != nil {
		profile.LinkedinURL = req.LinkedinURL
	}
	if req.GithubURL != nil {
		profile.GithubURL = req.GithubURL
	}

	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, err
	}

	if profile.GraduationYear != nil && profile.Role == string(permissions.RoleStudent) {
		if role := permissions.ClassifyByGraduationYear(*profile.GraduationYear, time.Now()); string(role) != profile.Role {
			if err := s.profiles.UpdateRole(ctx, profile.ID, string(role)); err != nil {
				return nil, err
			}
			profile.Role = string(role)
			s.logger.Info().Str("userId", profile.ID).Str("role", profile.Role).Msg("Role reclassified from graduation year")
		}
	}

	return profile, nil
}

// Search lists profiles in the caller's college matching the query
func (s *profileServiceImpl) Search(ctx context.Context, caller *auth.Identity, query string, offset uint64, limit int) ([]*models.Profile, int64, error) {
	return s.profiles.SearchByDomain(ctx, caller.CollegeDomain, query, offset, limit)
}

// UploadAvatar stores a new avatar and cleans up the replaced file in the
// background.
func (s *profileServiceImpl) UploadAvatar(ctx context.Context, caller *auth.Identity, file *multipart.FileHeader) (string, error) {
	url, err := s.storage.Save(file, filestorage.KindAvatar)
	if err != nil {
		return "", err
	}
	previous, err := s.profiles.SetAvatarURL(ctx, caller.UserID, &url)
	if err != nil {
		goBackground(s.logger, "delete_orphaned_avatar", func(context.Context) error {
			return s.storage.Delete(url)
		})
		return "", err
	}
	if previous != nil {
		old := *previous
		goBackground(s.logger, "delete_replaced_avatar", func(context.Context) error {
			return s.storage.Delete(old)
		})
	}
	return url, nil
}

// UploadResume stores a new resume the same way as UploadAvatar
func (s *profileServiceImpl) UploadResume(ctx context.Context, caller *auth.Identity, file *multipart.FileHeader) (string, error) {
	url, err := s.storage.Save(file, filestorage.KindResume)
	if err != nil {
		return "", err
	}
	previous, err := s.profiles.SetResumeURL(ctx, caller.UserID, &url)
	if err != nil {
		goBackground(s.logger, "delete_orphaned_resume", func(context.Context) error {
			return s.storage.Delete(url)
		})
		return "", err
	}
	if previous != nil {
		old := *previous
		goBackground(s.logger, "delete_replaced_resume", func(context.Context) error {
			return s.storage.Delete(old)
		})
	}
	return url, nil
}

// Deactivate soft-deletes the caller's account. The confirmation email kicks
// off the hosted deletion flow; sending it is best effort.
func (s *profileServiceImpl) Deactivate(ctx context.Context, caller *auth.Identity) error {
	profile, err := s.profiles.GetByID(ctx, caller.UserID)
	if err != nil {
		return err
	}
	if err := s.profiles.Deactivate(ctx, caller.UserID); err != nil {
		return err
	}
	s.logger.Info().Str("userId", caller.UserID).Msg("Account deactivated")

	goBackground(s.logger, "send_account_deletion_email", func(context.Context) error {
		return s.mailer.SendAccountDeletionEmail(profile.Email, profile.FullName)
	})
	return nil
}

// AddExperience creates an experience entry on the caller's profile
func (s *profileServiceImpl) AddExperience(ctx context.Context, caller *auth.Identity, req *dto.AddExperienceRequest) (*models.Experience, error) {
	title, err := validation.RequiredText("title", req.Title, validation.TitleMaxLength)
	if err != nil {
		return nil, err
	}
	company, err := validation.RequiredText("company", req.Company, validation.TitleMaxLength)
	if err != nil {
		return nil, err
	}
	if req.EndDate != nil && req.EndDate.Before(req.StartDate) {
		return nil, apperrors.NewValidationError("endDate must not precede startDate")
	}

	experience := &models.Experience{
		ID:          uuid.New().String(),
		ProfileID:   caller.UserID,
		Title:       title,
		Company:     company,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	}
	if err := s.profiles.AddExperience(ctx, experience); err != nil {
		return nil, err
	}
	return experience, nil
}

// ListExperiences returns a profile's experience entries, tenant-checked
func (s *profileServiceImpl) ListExperiences(ctx context.Context, caller *auth.Identity, profileID string) ([]*models.Experience, error) {
	if _, err := s.Get(ctx, caller, profileID); err != nil {
		return nil, err
	}
	return s.profiles.ListExperiences(ctx, profileID)
}

// DeleteExperience removes an experience entry owned by the caller
func (s *profileServiceImpl) DeleteExperience(ctx context.Context, caller *auth.Identity, experienceID string) error {
	if err := validation.ResourceID(experienceID); err != nil {
		return err
	}
	return s.profiles.DeleteExperience(ctx, experienceID, caller.UserID)
}

// AddSkill attaches a named skill to the caller's profile
func (s *profileServiceImpl) AddSkill(ctx context.Context, caller *auth.Identity, req *dto.AddSkillRequest) (*models.Skill, error) {
	name, err := validation.RequiredText("name", req.Name, validation.NameMaxLength)
	if err != nil {
		return nil, err
	}
	skill := &models.Skill{
		ID:        uuid.New().String(),
		ProfileID: caller.UserID,
		Name:      name,
	}
	if err := s.profiles.AddSkill(ctx, skill); err != nil {
		return nil, err
	}
	return skill, nil
}

// ListSkills returns a profile's skills, tenant-checked
func (s *profileServiceImpl) ListSkills(ctx context.Context, caller *auth.Identity, profileID string) ([]*models.Skill, error) {
	if _, err := s.Get(ctx, caller, profileID); err != nil {
		return nil, err
	}
	return s.profiles.ListSkills(ctx, profileID)
}

// DeleteSkill removes a skill owned by the caller
func (s *profileServiceImpl) DeleteSkill(ctx context.Context, caller *auth.Identity, skillID string) error {
	if err := validation.ResourceID(skillID); err != nil {
		return err
	}
	return s.profiles.DeleteSkill(ctx, skillID, caller.UserID)
}

// AnalyzeSkills returns the derived skill analysis. The backing procedure is
// cosmetic: when it is unavailable the response degrades to empty lists
// instead of failing.
func (s *profileServiceImpl) AnalyzeSkills(ctx context.Context, caller *auth.Identity) (*dto.SkillAnalysisResponse, error) {
	analysis, err := s.rpc.AnalyzeSkills(ctx, caller.UserID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrRemoteUnavailable) {
			s.logger.Warn().Str("userId", caller.UserID).Msg("Skill analysis unavailable, returning empty result")
			middleware.CountRPCFallback("analyze_profile_skills")
			return &dto.SkillAnalysisResponse{TopSkills: []string{}, MissingSkills: []string{}}, nil
		}
		return nil, err
	}
	return &dto.SkillAnalysisResponse{
		TopSkills:     analysis.TopSkills,
		MissingSkills: analysis.MissingSkills,
	}, nil
}
