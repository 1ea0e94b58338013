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
)

// reportableResources is the closed set of resource families a report may
// target.
var reportableResources = map[string]bool{
	"post":             true,
	"comment":          true,
	"profile":          true,
	"event":            true,
	"project":          true,
	"marketplace_item": true,
	"message":          true,
}

// reportRepository is the slice of the report repository this service
// consumes.
type reportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	ListUnresolved(ctx context.Context, offset uint64, limit int) ([]*models.Report, int64, error)
	Resolve(ctx context.Context, id string) (resourceType, resourceID string, err error)
	RemoveResource(ctx context.Context, resourceType, resourceID string) error
}

// ModerationService defines the interface for content reporting and the
// moderation queue
type ModerationService interface {
	Report(ctx context.Context, caller *auth.Identity, req *dto.ReportRequest) (*models.Report, error)
	Queue(ctx context.Context, caller *auth.Identity, offset uint64, limit int) ([]*models.Report, int64, error)
	Resolve(ctx context.Context, caller *auth.Identity, reportID string, removeResource bool) error
}

type moderationServiceImpl struct {
	reports reportRepository
	logger  zerolog.Logger
}

// NewModerationService creates a new ModerationService
func NewModerationService(reports reportRepository, logger zerolog.Logger) ModerationService {
	return &moderationServiceImpl{reports: reports, logger: logger}
}

// Report files a moderation report. Any authenticated user may report;
// repeated reports of the same resource by the same user conflict.
func (s *moderationServiceImpl) Report(ctx context.Context, caller *auth.Identity, req *dto.ReportRequest) (*models.Report, error) {
	if !reportableResources[req.ResourceType] {
		return nil, apperrors.NewValidationError("unknown resource type")
	}
	if err := validation.ResourceID(req.ResourceID); err != nil {
		return nil, err
	}
	reason, err := validation.RequiredText("reason", req.Reason, validation.ContentMaxLength)
	if err != nil {
		return nil, err
	}

	report := &models.Report{
		ID:           uuid.New().String(),
		ReporterID:   caller.UserID,
		ResourceType: req.ResourceType,
		ResourceID:   req.ResourceID,
		Reason:       reason,
	}
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("reporterId", caller.UserID).
		Str("resourceType", req.ResourceType).
		Str("resourceId", req.ResourceID).
		Msg("Content reported")
	return report, nil
}

// Queue returns open reports. Moderators only.
func (s *moderationServiceImpl) Queue(ctx context.Context, caller *auth.Identity, offset uint64, limit int) ([]*models.Report, int64, error) {
	if !caller.Can(permissions.CapModerateContent) {
		return nil, 0, apperrors.NewForbiddenError("your role cannot view the moderation queue")
	}
	return s.reports.ListUnresolved(ctx, offset, limit)
}

// Resolve marks a report handled. Moderators only. Taking the reported
// resource down as well requires the platform-management capability.
func (s *moderationServiceImpl) Resolve(ctx context.Context, caller *auth.Identity, reportID string, removeResource bool) error {
	if !caller.Can(permissions.CapModerateContent) {
		return apperrors.NewForbiddenError("your role cannot resolve reports")
	}
	if removeResource && !caller.Can(permissions.CapManagePlatform) {
		return apperrors.NewForbiddenError("your role cannot remove reported content")
	}
	if err := validation.ResourceID(reportID); err != nil {
		return err
	}

	resourceType, resourceID, err := s.reports.Resolve(ctx, reportID)
	if err != nil {
		return err
	}
	if !removeResource {
		return nil
	}

	if err := s.reports.RemoveResource(ctx, resourceType, resourceID); err != nil {
		return err
	}
	s.logger.Info().
		Str("moderatorId", caller.UserID).
		Str("resourceType", resourceType).
		Str("resourceId", resourceID).
		Msg("Reported resource removed")
	return nil
}
