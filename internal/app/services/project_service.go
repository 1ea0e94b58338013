package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/campuslink/campuslink/internal/app/auth"
	"github.com/campuslink/campuslink/internal/app/models"
	"github.com/campuslink/campuslink/internal/app/models/dto"
	"github.com/campuslink/campuslink/internal/permissions"
	"github.com/campuslink/campuslink/internal/pkg/apperrors"
	"github.com/campuslink/campuslink/internal/pkg/validation"
	"github.com/campuslink/campuslink/internal/tenant"
)

// projectRepository is the slice of the project repository this service
// consumes.
type projectRepository interface {
	Create(ctx context.Context, p *models.Project) error
	GetByID(ctx context.Context, id string) (*models.Project, error)
	List(ctx context.Context, collegeDomain string, openOnly bool, offset uint64, limit int) ([]*models.Project, int64, error)
	Update(ctx context.Context, p *models.Project) error
	Delete(ctx context.Context, id, ownerID string) error
	CreateApplication(ctx context.Context, a *models.ProjectApplication) error
	GetApplication(ctx context.Context, id string) (*models.ProjectApplication, error)
	ListApplications(ctx context.Context, projectID string) ([]*models.ProjectApplication, error)
	UpdateApplicationStatus(ctx context.Context, id string, status models.ApplicationStatus) error
	InsertMember(ctx context.Context, m *models.ProjectMember) error
	RecountMembers(ctx context.Context, projectID string) (*models.Project, error)
	ListMembers(ctx context.Context, projectID string) ([]*models.Profile, error)
}

// ProjectService defines the interface for team-up project operations
type ProjectService interface {
	Create(ctx context.Context, caller *auth.Identity, req *dto.CreateProjectRequest) (*models.Project, error)
	Get(ctx context.Context, caller *auth.Identity, projectID string) (*models.Project, error)
	List(ctx context.Context, caller *auth.Identity, openOnly bool, offset uint64, limit int) ([]*models.Project, int64, error)
	Update(ctx context.Context, caller *auth.Identity, projectID, title, description string, teamSize int, isOpen bool) (*models.Project, error)
	Delete(ctx context.Context, caller *auth.Identity, projectID string) error
	Apply(ctx context.Context, caller *auth.Identity, projectID string, pitch *string) (*models.ProjectApplication, error)
	ListApplications(ctx context.Context, caller *auth.Identity, projectID string) ([]*models.ProjectApplication, error)
	RespondToApplication(ctx context.Context, caller *auth.Identity, applicationID string, accept bool) (*models.Project, error)
	ListMembers(ctx context.Context, caller *auth.Identity, projectID string) ([]*models.Profile, error)
}

type projectServiceImpl struct {
	projects projectRepository
	guard    *tenant.Guard
	logger   zerolog.Logger
}

// NewProjectService creates a new ProjectService
func NewProjectService(projects projectRepository, guard *tenant.Guard, logger zerolog.Logger) ProjectService {
	return &projectServiceImpl{projects: projects, guard: guard, logger: logger}
}

// Create opens a team-up project with the owner as the first member. The
// creation is multi-step; every step is safe to retry and the counters come
// out of a recount, never an increment.
func (s *projectServiceImpl) Create(ctx context.Context, caller *auth.Identity, req *dto.CreateProjectRequest) (*models.Project, error) {
	if !caller.Can(permissions.CapCreateProject) {
		return nil, apperrors.NewForbiddenError("your role cannot create projects")
	}
	title, err := validation.RequiredText("title", req.Title, validation.TitleMaxLength)
	if err != nil {
		return nil, err
	}
	description, err := validation.RequiredText("description", req.Description, validation.ContentMaxLength)
	if err != nil {
		return nil, err
	}
	if req.TeamSize < 1 {
		return nil, apperrors.NewValidationError("teamSize must be at least 1")
	}

	project := &models.Project{
		ID:            uuid.New().String(),
		OwnerID:       caller.UserID,
		Title:         title,
		Description:   description,
		CollegeDomain: caller.CollegeDomain,
		TeamSize:      req.TeamSize,
		IsOpen:        true,
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, err
	}

	owner := &models.ProjectMember{
		ID:        uuid.New().String(),
		ProjectID: project.ID,
		ProfileID: caller.UserID,
	}
	if err := s.projects.InsertMember(ctx, owner); err != nil {
		return nil, err
	}

	return s.projects.RecountMembers(ctx, project.ID)
}

// getVisible loads a project and applies the tenant check
func (s *projectServiceImpl) getVisible(ctx context.Context, caller *auth.Identity, projectID string) (*models.Project, error) {
	if err := validation.ResourceID(projectID); err != nil {
		return nil, err
	}
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !s.guard.SameTenant(ctx, caller.CollegeDomain, project.CollegeDomain) {
		return nil, apperrors.ErrResourceNotFound
	}
	return project, nil
}

// Get returns a project visible to the caller
func (s *projectServiceImpl) Get(ctx context.Context, caller *auth.Identity, projectID string) (*models.Project, error) {
	return s.getVisible(ctx, caller, projectID)
}

// List returns the caller's tenant projects
func (s *projectServiceImpl) List(ctx context.Context, caller *auth.Identity, openOnly bool, offset uint64, limit int) ([]*models.Project, int64, error) {
	return s.projects.List(ctx, caller.CollegeDomain, openOnly, offset, limit)
}

// Update edits a project. Only the owner may edit.
func (s *projectServiceImpl) Update(ctx context.Context, caller *auth.Identity, projectID, title, description string, teamSize int, isOpen bool) (*models.Project, error) {
	project, err := s.getVisible(ctx, caller, projectID)
	if err != nil {
		return nil, err
	}
	if project.OwnerID != caller.UserID {
		return nil, apperrors.NewForbiddenError("only the owner can edit a project")
	}

	project.Title, err = validation.RequiredText("title", title, validation.TitleMaxLength)
	if err != nil {
		return nil, err
	}
	project.Description, err = validation.RequiredText("description", description, validation.ContentMaxLength)
	if err != nil {
		return nil, err
	}
	if teamSize < project.MemberCount {
		return nil, apperrors.NewValidationError("teamSize cannot be below the current member count")
	}
	project.TeamSize = teamSize
	project.IsOpen = isOpen

	if err := s.projects.Update(ctx, project); err != nil {
		return nil, err
	}
	return s.projects.RecountMembers(ctx, projectID)
}

// Delete removes a project owned by the caller
func (s *projectServiceImpl) Delete(ctx context.Context, caller *auth.Identity, projectID string) error {
	if _, err := s.getVisible(ctx, caller, projectID); err != nil {
		return err
	}
	return s.projects.Delete(ctx, projectID, caller.UserID)
}

// Apply files a join request. Owners cannot apply to their own project and a
// closed project rejects applications.
func (s *projectServiceImpl) Apply(ctx context.Context, caller *auth.Identity, projectID string, pitch *string) (*models.ProjectApplication, error) {
	project, err := s.getVisible(ctx, caller, projectID)
	if err != nil {
		return nil, err
	}
	if project.OwnerID == caller.UserID {
		return nil, apperrors.NewConflictError("cannot apply to your own project")
	}
	if !project.IsOpen {
		return nil, apperrors.NewConflictError("project is not accepting applications")
	}
	if pitch != nil {
		trimmed, err := validation.OptionalText("pitch", *pitch, validation.ContentMaxLength)
		if err != nil {
			return nil, err
		}
		pitch = &trimmed
	}

	application := &models.ProjectApplication{
		ID:          uuid.New().String(),
		ProjectID:   projectID,
		ApplicantID: caller.UserID,
		Pitch:       pitch,
		Status:      models.ApplicationPending,
	}
	if err := s.projects.CreateApplication(ctx, application); err != nil {
		return nil, err
	}
	return application, nil
}

// ListApplications returns a project's applications. Only the owner sees the
// queue.
func (s *projectServiceImpl) ListApplications(ctx context.Context, caller *auth.Identity, projectID string) ([]*models.ProjectApplication, error) {
	project, err := s.getVisible(ctx, caller, projectID)
	if err != nil {
		return nil, err
	}
	if project.OwnerID != caller.UserID {
		return nil, apperrors.NewForbiddenError("only the owner can view applications")
	}
	return s.projects.ListApplications(ctx, projectID)
}

// RespondToApplication accepts or rejects an application. Acceptance runs as
// idempotent steps: status update, membership insert (ON CONFLICT DO
// NOTHING), then a counter recount. A retry after a partial failure
// converges to the same state.
func (s *projectServiceImpl) RespondToApplication(ctx context.Context, caller *auth.Identity, applicationID string, accept bool) (*models.Project, error) {
	if err := validation.ResourceID(applicationID); err != nil {
		return nil, err
	}
	application, err := s.projects.GetApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	project, err := s.getVisible(ctx, caller, application.ProjectID)
	if err != nil {
		return nil, err
	}
	if project.OwnerID != caller.UserID {
		return nil, apperrors.NewForbiddenError("only the owner can respond to applications")
	}
	if application.Status == models.ApplicationRejected || (application.Status == models.ApplicationAccepted && !accept) {
		return nil, apperrors.NewConflictError("application has already been resolved")
	}

	if !accept {
		if err := s.projects.UpdateApplicationStatus(ctx, applicationID, models.ApplicationRejected); err != nil {
			return nil, err
		}
		return project, nil
	}

	if project.OpenRoles <= 0 {
		return nil, apperrors.NewConflictError("project has no open roles")
	}

	if err := s.projects.UpdateApplicationStatus(ctx, applicationID, models.ApplicationAccepted); err != nil {
		return nil, err
	}
	member := &models.ProjectMember{
		ID:        uuid.New().String(),
		ProjectID: project.ID,
		ProfileID: application.ApplicantID,
	}
	if err := s.projects.InsertMember(ctx, member); err != nil {
		return nil, err
	}
	return s.projects.RecountMembers(ctx, project.ID)
}

// ListMembers returns a project's members, tenant-checked
func (s *projectServiceImpl) ListMembers(ctx context.Context, caller *auth.Identity, projectID string) ([]*models.Profile, error) {
	if _, err := s.getVisible(ctx, caller, projectID); err != nil {
		return nil, err
	}
	return s.projects.ListMembers(ctx, projectID)
}
