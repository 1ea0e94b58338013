package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campuslink/campuslink/internal/app/models"
	"github.com/campuslink/campuslink/internal/pkg/apperrors"
	"github.com/campuslink/campuslink/internal/pkg/dberrors"
)

// removalStatements maps reportable resource types to their takedown
// statements. Profiles are deactivated, not deleted, so the grace-period
// contract holds even for moderator takedowns.
var removalStatements = map[string]string{
	"post":             `DELETE FROM posts WHERE id = $1`,
	"comment":          `DELETE FROM comments WHERE id = $1`,
	"profile":          `UPDATE profiles SET is_active = FALSE, deactivated_at = NOW() WHERE id = $1`,
	"event":            `UPDATE events SET is_cancelled = TRUE WHERE id = $1`,
	"project":          `DELETE FROM projects WHERE id = $1`,
	"marketplace_item": `DELETE FROM marketplace_items WHERE id = $1`,
	"message":          `DELETE FROM messages WHERE id = $1`,
}

// ReportRepository handles database operations for moderation reports
type ReportRepository struct {
	DB *pgxpool.Pool
}

// NewReportRepository creates a new ReportRepository
func NewReportRepository(db *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{DB: db}
}

// Create inserts a new report. The unique (reporter_id, resource_type,
// resource_id) index rejects a repeated report of the same resource.
func (r *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	query := `
		INSERT INTO reports (id, reporter_id, resource_type, resource_id, reason)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	err := r.DB.QueryRow(ctx, query,
		report.ID, report.ReporterID, report.ResourceType, report.ResourceID, report.Reason).
		Scan(&report.CreatedAt)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrDuplicateRequest
		}
		return fmt.Errorf("error creating report: %w", err)
	}
	return nil
}

// ListUnresolved returns open reports, oldest first, for the moderation queue
func (r *ReportRepository) ListUnresolved(ctx context.Context, offset uint64, limit int) ([]*models.Report, int64, error) {
	query := `
		SELECT id, reporter_id, resource_type, resource_id, reason, resolved, created_at
		FROM reports
		WHERE resolved = FALSE
		ORDER BY created_at ASC
		OFFSET $1 LIMIT $2
	`
	rows, err := r.DB.Query(ctx, query, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing reports: %w", err)
	}
	defer rows.Close()

	var reports []*models.Report
	for rows.Next() {
		var report models.Report
		if err := rows.Scan(
			&report.ID, &report.ReporterID, &report.ResourceType, &report.ResourceID,
			&report.Reason, &report.Resolved, &report.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("error scanning report row: %w", err)
		}
		reports = append(reports, &report)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating report rows: %w", err)
	}

	var total int64
	if err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM reports WHERE resolved = FALSE`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting reports: %w", err)
	}

	return reports, total, nil
}

// Resolve marks a report handled and returns what it pointed at
func (r *ReportRepository) Resolve(ctx context.Context, id string) (resourceType, resourceID string, err error) {
	query := `
		UPDATE reports SET resolved = TRUE WHERE id = $1
		RETURNING resource_type, resource_id
	`
	if err := r.DB.QueryRow(ctx, query, id).Scan(&resourceType, &resourceID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", "", apperrors.ErrResourceNotFound
		}
		return "", "", fmt.Errorf("error resolving report: %w", err)
	}
	return resourceType, resourceID, nil
}

// RemoveResource takes down a reported resource. Removal of an already-gone
// resource is a no-op.
func (r *ReportRepository) RemoveResource(ctx context.Context, resourceType, resourceID string) error {
	stmt, ok := removalStatements[resourceType]
	if !ok {
		return apperrors.NewValidationError("unknown resource type")
	}
	if _, err := r.DB.Exec(ctx, stmt, resourceID); err != nil {
		return fmt.Errorf("error removing reported resource: %w", err)
	}
	return nil
}
