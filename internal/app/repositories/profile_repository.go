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

// ProfileRepository handles database operations for profiles
type ProfileRepository struct {
	DB *pgxpool.Pool
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{DB: db}
}

const profileColumns = `
	id, email, password, full_name, headline, bio, role, college_domain,
	graduation_year, avatar_url, resume_url, linkedin_url, github_url,
	is_active, email_verified, deactivated_at, last_login_at, created_at, updated_at
`

func scanProfile(row pgx.Row) (*models.Profile, error) {
	var p models.Profile
	err := row.Scan(
		&p.ID, &p.Email, &p.Password, &p.FullName, &p.Headline, &p.Bio,
		&p.Role, &p.CollegeDomain, &p.GraduationYear, &p.AvatarURL, &p.ResumeURL,
		&p.LinkedinURL, &p.GithubURL, &p.IsActive, &p.EmailVerified,
		&p.DeactivatedAt, &p.LastLoginAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error scanning profile: %w", err)
	}
	return &p, nil
}

// Create inserts a new profile
func (r *ProfileRepository) Create(ctx context.Context, p *models.Profile) error {
	query := `
		INSERT INTO profiles (
			id, email, password, full_name, role, college_domain, graduation_year
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`
	err := r.DB.QueryRow(ctx, query,
		p.ID, p.Email, p.Password, p.FullName, p.Role, p.CollegeDomain, p.GraduationYear,
	).Scan(&p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "profiles_email_key") {
			return apperrors.ErrEmailAlreadyExists
		}
		return fmt.Errorf("error creating profile: %w", err)
	}
	return nil
}

// GetByID retrieves a profile by its identifier
func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	return scanProfile(r.DB.QueryRow(ctx, query, id))
}

// GetByEmail retrieves a profile by email
func (r *ProfileRepository) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE email = $1`
	return scanProfile(r.DB.QueryRow(ctx, query, email))
}

// Update applies the mutable profile fields
func (r *ProfileRepository) Update(ctx context.Context, p *models.Profile) error {
	query := `
		UPDATE profiles
		SET full_name = $2, headline = $3, bio = $4, graduation_year = $5,
		    linkedin_url = $6, github_url = $7, role = $8, updated_at = NOW()
		WHERE id = $1
	`
	result, err := r.DB.Exec(ctx, query,
		p.ID, p.FullName, p.Headline, p.Bio, p.GraduationYear,
		p.LinkedinURL, p.GithubURL, p.Role,
	)
	if err != nil {
		return fmt.Errorf("error updating profile: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// SetAvatarURL updates the avatar URL, returning the previous value so the
// caller can clean up the orphaned file best-effort.
func (r *ProfileRepository) SetAvatarURL(ctx context.Context, id string, url *string) (previous *string, err error) {
	query := `
		UPDATE profiles p
		SET avatar_url = $2, updated_at = NOW()
		FROM (SELECT avatar_url FROM profiles WHERE id = $1) old
		WHERE p.id = $1
		RETURNING old.avatar_url
	`
	if err := r.DB.QueryRow(ctx, query, id, url).Scan(&previous); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error updating avatar: %w", err)
	}
	return previous, nil
}

// SetResumeURL updates the resume URL, returning the previous value
func (r *ProfileRepository) SetResumeURL(ctx context.Context, id string, url *string) (previous *string, err error) {
	query := `
		UPDATE profiles p
		SET resume_url = $2, updated_at = NOW()
		FROM (SELECT resume_url FROM profiles WHERE id = $1) old
		WHERE p.id = $1
		RETURNING old.resume_url
	`
	if err := r.DB.QueryRow(ctx, query, id, url).Scan(&previous); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error updating resume: %w", err)
	}
	return previous, nil
}

// Deactivate soft-deactivates a profile; the grace period is enforced by the
// account-deletion job, not here.
func (r *ProfileRepository) Deactivate(ctx context.Context, id string) error {
	query := `
		UPDATE profiles
		SET is_active = FALSE, deactivated_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND is_active = TRUE
	`
	result, err := r.DB.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("error deactivating profile: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// UpdateLastLogin stamps the last successful login time
func (r *ProfileRepository) UpdateLastLogin(ctx context.Context, id string) error {
	_, err := r.DB.Exec(ctx, `UPDATE profiles SET last_login_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error updating last login: %w", err)
	}
	return nil
}

// SetEmailVerified marks the profile's email as verified
func (r *ProfileRepository) SetEmailVerified(ctx context.Context, id string) error {
	_, err := r.DB.Exec(ctx, `UPDATE profiles SET email_verified = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error setting email verified: %w", err)
	}
	return nil
}

// SearchByDomain lists active profiles within one tenant, optionally filtered
// by a name search term.
func (r *ProfileRepository) SearchByDomain(ctx context.Context, collegeDomain, search string, offset uint64, limit int) ([]*models.Profile, int64, error) {
	builder := squirrel.Select(
		"id", "email", "full_name", "headline", "role", "college_domain",
		"graduation_year", "avatar_url", "created_at",
	).
		From("profiles").
		Where("college_domain = ?", collegeDomain).
		Where("is_active = TRUE").
		OrderBy("full_name ASC").
		Offset(offset).
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar)

	countBuilder := squirrel.Select("COUNT(*)").
		From("profiles").
		Where("college_domain = ?", collegeDomain).
		Where("is_active = TRUE").
		PlaceholderFormat(squirrel.Dollar)

	if search != "" {
		like := "%" + search + "%"
		builder = builder.Where("full_name ILIKE ?", like)
		countBuilder = countBuilder.Where("full_name ILIKE ?", like)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var profiles []*models.Profile
	for rows.Next() {
		var p models.Profile
		if err := rows.Scan(
			&p.ID, &p.Email, &p.FullName, &p.Headline, &p.Role,
			&p.CollegeDomain, &p.GraduationYear, &p.AvatarURL, &p.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("error scanning profile row: %w", err)
		}
		profiles = append(profiles, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating profile rows: %w", err)
	}

	countSQL, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building count SQL: %w", err)
	}
	var total int64
	if err := r.DB.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting profiles: %w", err)
	}

	return profiles, total, nil
}

// AddExperience inserts an experience entry for a profile
func (r *ProfileRepository) AddExperience(ctx context.Context, e *models.Experience) error {
	query := `
		INSERT INTO experiences (id, profile_id, title, company, description, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`
	err := r.DB.QueryRow(ctx, query,
		e.ID, e.ProfileID, e.Title, e.Company, e.Description, e.StartDate, e.EndDate,
	).Scan(&e.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating experience: %w", err)
	}
	return nil
}

// ListExperiences returns a profile's experience entries, newest first
func (r *ProfileRepository) ListExperiences(ctx context.Context, profileID string) ([]*models.Experience, error) {
	query := `
		SELECT id, profile_id, title, company, description, start_date, end_date, created_at
		FROM experiences WHERE profile_id = $1 ORDER BY start_date DESC
	`
	rows, err := r.DB.Query(ctx, query, profileID)
	if err != nil {
		return nil, fmt.Errorf("error listing experiences: %w", err)
	}
	defer rows.Close()

	var entries []*models.Experience
	for rows.Next() {
		var e models.Experience
		if err := rows.Scan(&e.ID, &e.ProfileID, &e.Title, &e.Company, &e.Description, &e.StartDate, &e.EndDate, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning experience row: %w", err)
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

// DeleteExperience removes an experience entry owned by profileID
func (r *ProfileRepository) DeleteExperience(ctx context.Context, id, profileID string) error {
	result, err := r.DB.Exec(ctx, `DELETE FROM experiences WHERE id = $1 AND profile_id = $2`, id, profileID)
	if err != nil {
		return fmt.Errorf("error deleting experience: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}

// AddSkill inserts a skill; duplicate names per profile conflict
func (r *ProfileRepository) AddSkill(ctx context.Context, s *models.Skill) error {
	query := `
		INSERT INTO skills (id, profile_id, name)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`
	if err := r.DB.QueryRow(ctx, query, s.ID, s.ProfileID, s.Name).Scan(&s.CreatedAt); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrConflict
		}
		return fmt.Errorf("error creating skill: %w", err)
	}
	return nil
}

// ListSkills returns a profile's skills
func (r *ProfileRepository) ListSkills(ctx context.Context, profileID string) ([]*models.Skill, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, profile_id, name, created_at FROM skills WHERE profile_id = $1 ORDER BY name`, profileID)
	if err != nil {
		return nil, fmt.Errorf("error listing skills: %w", err)
	}
	defer rows.Close()

	var skills []*models.Skill
	for rows.Next() {
		var s models.Skill
		if err := rows.Scan(&s.ID, &s.ProfileID, &s.Name, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning skill row: %w", err)
		}
		skills = append(skills, &s)
	}
	return skills, rows.Err()
}

// DeleteSkill removes a skill owned by profileID
func (r *ProfileRepository) DeleteSkill(ctx context.Context, id, profileID string) error {
	result, err := r.DB.Exec(ctx, `DELETE FROM skills WHERE id = $1 AND profile_id = $2`, id, profileID)
	if err != nil {
		return fmt.Errorf("error deleting skill: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}

// UpdateRole rewrites the stored role; used when graduation-year reclassification
// promotes a student to alumni.
func (r *ProfileRepository) UpdateRole(ctx context.Context, id, role string) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE profiles SET role = $2, updated_at = NOW() WHERE id = $1`, id, role)
	if err != nil {
		return fmt.Errorf("error updating role: %w", err)
	}
	return nil
}
