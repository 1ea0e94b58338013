package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campuslink/campuslink/internal/app/models"
	"github.com/campuslink/campuslink/internal/pkg/apperrors"
	"github.com/campuslink/campuslink/internal/pkg/dberrors"
)

// ProjectRepository handles database operations for team-up projects,
// applications and memberships
type ProjectRepository struct {
	DB *pgxpool.Pool
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{DB: db}
}

// Create inserts a new project. The owner counts as the first member, so the
// caller follows up with InsertMember and RecountMembers.
func (r *ProjectRepository) Create(ctx context.Context, p *models.Project) error {
	query := `
		INSERT INTO projects (id, owner_id, title, description, college_domain, team_size, is_open)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`
	err := r.DB.QueryRow(ctx, query,
		p.ID, p.OwnerID, p.Title, p.Description, p.CollegeDomain, p.TeamSize, p.IsOpen).
		Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating project: %w", err)
	}
	return nil
}

// GetByID retrieves a project with the owner profile joined
func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	query := `
		SELECT p.id, p.owner_id, p.title, p.description, p.college_domain,
		       p.team_size, p.member_count, p.open_roles, p.is_open,
		       p.created_at, p.updated_at,
		       o.full_name, o.headline, o.role, o.avatar_url
		FROM projects p
		JOIN profiles o ON o.id = p.owner_id
		WHERE p.id = $1
	`
	var p models.Project
	var owner models.Profile
	err := r.DB.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.OwnerID, &p.Title, &p.Description, &p.CollegeDomain,
		&p.TeamSize, &p.MemberCount, &p.OpenRoles, &p.IsOpen,
		&p.CreatedAt, &p.UpdatedAt,
		&owner.FullName, &owner.Headline, &owner.Role, &owner.AvatarURL,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("error retrieving project: %w", err)
	}
	owner.ID = p.OwnerID
	p.Owner = &owner
	return &p, nil
}

// List returns a tenant's projects, optionally only open ones
func (r *ProjectRepository) List(ctx context.Context, collegeDomain string, openOnly bool, offset uint64, limit int) ([]*models.Project, int64, error) {
	builder := squirrel.Select(
		"p.id", "p.owner_id", "p.title", "p.description", "p.college_domain",
		"p.team_size", "p.member_count", "p.open_roles", "p.is_open",
		"p.created_at", "p.updated_at",
		"o.full_name", "o.headline", "o.role", "o.avatar_url",
	).
		From("projects p").
		Join("profiles o ON o.id = p.owner_id").
		Where(squirrel.Eq{"p.college_domain": collegeDomain}).
		OrderBy("p.created_at DESC").
		Offset(offset).
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar)

	countBuilder := squirrel.Select("COUNT(*)").
		From("projects p").
		Where(squirrel.Eq{"p.college_domain": collegeDomain}).
		PlaceholderFormat(squirrel.Dollar)

	if openOnly {
		builder = builder.Where(squirrel.Eq{"p.is_open": true})
		countBuilder = countBuilder.Where(squirrel.Eq{"p.is_open": true})
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing projects: %w", err)
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		var p models.Project
		var owner models.Profile
		if err := rows.Scan(
			&p.ID, &p.OwnerID, &p.Title, &p.Description, &p.CollegeDomain,
			&p.TeamSize, &p.MemberCount, &p.OpenRoles, &p.IsOpen,
			&p.CreatedAt, &p.UpdatedAt,
			&owner.FullName, &owner.Headline, &owner.Role, &owner.AvatarURL,
		); err != nil {
			return nil, 0, fmt.Errorf("error scanning project row: %w", err)
		}
		owner.ID = p.OwnerID
		p.Owner = &owner
		projects = append(projects, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating project rows: %w", err)
	}

	countSQL, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building count SQL: %w", err)
	}
	var total int64
	if err := r.DB.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting projects: %w", err)
	}

	return projects, total, nil
}

// Update edits project details owned by ownerID
func (r *ProjectRepository) Update(ctx context.Context, p *models.Project) error {
	query := `
		UPDATE projects
		SET title = $3, description = $4, team_size = $5, is_open = $6, updated_at = NOW()
		WHERE id = $1 AND owner_id = $2
	`
	result, err := r.DB.Exec(ctx, query, p.ID, p.OwnerID, p.Title, p.Description, p.TeamSize, p.IsOpen)
	if err != nil {
		return fmt.Errorf("error updating project: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}

// Delete removes a project owned by ownerID
func (r *ProjectRepository) Delete(ctx context.Context, id, ownerID string) error {
	result, err := r.DB.Exec(ctx,
		`DELETE FROM projects WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("error deleting project: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}

// CreateApplication inserts a join request. The unique (project_id,
// applicant_id) index rejects a duplicate application.
func (r *ProjectRepository) CreateApplication(ctx context.Context, a *models.ProjectApplication) error {
	query := `
		INSERT INTO project_applications (id, project_id, applicant_id, pitch, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`
	err := r.DB.QueryRow(ctx, query, a.ID, a.ProjectID, a.ApplicantID, a.Pitch, a.Status).
		Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrDuplicateRequest
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrResourceNotFound
		}
		return fmt.Errorf("error creating application: %w", err)
	}
	return nil
}

// GetApplication retrieves an application by ID
func (r *ProjectRepository) GetApplication(ctx context.Context, id string) (*models.ProjectApplication, error) {
	query := `
		SELECT id, project_id, applicant_id, pitch, status, created_at, updated_at
		FROM project_applications WHERE id = $1
	`
	var a models.ProjectApplication
	err := r.DB.QueryRow(ctx, query, id).
		Scan(&a.ID, &a.ProjectID, &a.ApplicantID, &a.Pitch, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("error retrieving application: %w", err)
	}
	return &a, nil
}

// ListApplications returns a project's applications with applicants joined
func (r *ProjectRepository) ListApplications(ctx context.Context, projectID string) ([]*models.ProjectApplication, error) {
	query := `
		SELECT a.id, a.project_id, a.applicant_id, a.pitch, a.status, a.created_at, a.updated_at,
		       p.full_name, p.headline, p.role, p.avatar_url
		FROM project_applications a
		JOIN profiles p ON p.id = a.applicant_id
		WHERE a.project_id = $1
		ORDER BY a.created_at ASC
	`
	rows, err := r.DB.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("error listing applications: %w", err)
	}
	defer rows.Close()

	var applications []*models.ProjectApplication
	for rows.Next() {
		var a models.ProjectApplication
		var applicant models.Profile
		if err := rows.Scan(
			&a.ID, &a.ProjectID, &a.ApplicantID, &a.Pitch, &a.Status, &a.CreatedAt, &a.UpdatedAt,
			&applicant.FullName, &applicant.Headline, &applicant.Role, &applicant.AvatarURL,
		); err != nil {
			return nil, fmt.Errorf("error scanning application row: %w", err)
		}
		applicant.ID = a.ApplicantID
		a.Applicant = &applicant
		applications = append(applications, &a)
	}
	return applications, rows.Err()
}

// UpdateApplicationStatus transitions an application's status
func (r *ProjectRepository) UpdateApplicationStatus(ctx context.Context, id string, status models.ApplicationStatus) error {
	result, err := r.DB.Exec(ctx,
		`UPDATE project_applications SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("error updating application status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}

// InsertMember adds a membership row. ON CONFLICT DO NOTHING keeps the step
// idempotent when an acceptance is retried.
func (r *ProjectRepository) InsertMember(ctx context.Context, m *models.ProjectMember) error {
	query := `
		INSERT INTO project_members (id, project_id, profile_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (project_id, profile_id) DO NOTHING
	`
	if _, err := r.DB.Exec(ctx, query, m.ID, m.ProjectID, m.ProfileID); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrResourceNotFound
		}
		return fmt.Errorf("error inserting project member: %w", err)
	}
	return nil
}

// RecountMembers recomputes member_count and open_roles from membership rows.
// Counters are recomputed, never incremented, so a retried acceptance
// converges on the same values.
func (r *ProjectRepository) RecountMembers(ctx context.Context, projectID string) (*models.Project, error) {
	query := `
		UPDATE projects
		SET member_count = sub.n,
		    open_roles = GREATEST(team_size - sub.n, 0),
		    is_open = is_open AND team_size - sub.n > 0,
		    updated_at = NOW()
		FROM (SELECT COUNT(*) AS n FROM project_members WHERE project_id = $1) sub
		WHERE id = $1
		RETURNING id, owner_id, title, description, college_domain,
		          team_size, member_count, open_roles, is_open, created_at, updated_at
	`
	var p models.Project
	err := r.DB.QueryRow(ctx, query, projectID).Scan(
		&p.ID, &p.OwnerID, &p.Title, &p.Description, &p.CollegeDomain,
		&p.TeamSize, &p.MemberCount, &p.OpenRoles, &p.IsOpen, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("error recounting project members: %w", err)
	}
	return &p, nil
}

// ListMembers returns a project's member profiles
func (r *ProjectRepository) ListMembers(ctx context.Context, projectID string) ([]*models.Profile, error) {
	query := `
		SELECT p.id, p.full_name, p.headline, p.role, p.avatar_url
		FROM project_members m
		JOIN profiles p ON p.id = m.profile_id
		WHERE m.project_id = $1
		ORDER BY m.created_at ASC
	`
	rows, err := r.DB.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("error listing project members: %w", err)
	}
	defer rows.Close()

	var members []*models.Profile
	for rows.Next() {
		var p models.Profile
		if err := rows.Scan(&p.ID, &p.FullName, &p.Headline, &p.Role, &p.AvatarURL); err != nil {
			return nil, fmt.Errorf("error scanning member row: %w", err)
		}
		members = append(members, &p)
	}
	return members, rows.Err()
}
