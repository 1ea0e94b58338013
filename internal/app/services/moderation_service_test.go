package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/campuslink/campuslink/internal/app/models"
	"github.com/campuslink/campuslink/internal/app/models/dto"
	"github.com/campuslink/campuslink/internal/pkg/apperrors"
)

const openReportID = "d3b8e0f4-1a26-4b3c-9d5a-7af4e2f6cc33"

type fakeReports struct {
	reports map[string]*models.Report
	removed []string
}

func (f *fakeReports) Create(_ context.Context, report *models.Report) error {
	f.reports[report.ID] = report
	return nil
}

func (f *fakeReports) ListUnresolved(context.Context, uint64, int) ([]*models.Report, int64, error) {
	var open []*models.Report
	for _, r := range f.reports {
		if !r.Resolved {
			open = append(open, r)
		}
	}
	return open, int64(len(open)), nil
}

func (f *fakeReports) Resolve(_ context.Context, id string) (string, string, error) {
	r, ok := f.reports[id]
	if !ok {
		return "", "", apperrors.ErrResourceNotFound
	}
	r.Resolved = true
	return r.ResourceType, r.ResourceID, nil
}

func (f *fakeReports) RemoveResource(_ context.Context, resourceType, resourceID string) error {
	f.removed = append(f.removed, resourceType+":"+resourceID)
	return nil
}

func newModerationService() (ModerationService, *fakeReports) {
	reports := &fakeReports{reports: map[string]*models.Report{
		openReportID: {ID: openReportID, ReporterID: receiverID, ResourceType: "post", ResourceID: homePostID},
	}}
	return NewModerationService(reports, zerolog.Nop()), reports
}

func TestReport_UnknownResourceTypeRejected(t *testing.T) {
	svc, _ := newModerationService()

	_, err := svc.Report(context.Background(), studentIdentity(), &dto.ReportRequest{
		ResourceType: "college",
		ResourceID:   homePostID,
		Reason:       "not a reportable thing",
	})
	if !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("got %v, want ErrValidationFailed", err)
	}
}

func TestQueue_StudentForbidden(t *testing.T) {
	svc, _ := newModerationService()

	_, _, err := svc.Queue(context.Background(), studentIdentity(), 0, 20)
	if !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("got %v, want ErrPermissionDenied", err)
	}
}

func TestResolve_WithoutRemovalKeepsResource(t *testing.T) {
	svc, reports := newModerationService()

	if err := svc.Resolve(context.Background(), facultyIdentity(), openReportID, false); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !reports.reports[openReportID].Resolved {
		t.Errorf("report not marked resolved")
	}
	if len(reports.removed) != 0 {
		t.Errorf("resource removed without removal being requested")
	}
}

func TestResolve_NonModeratorForbidden(t *testing.T) {
	svc, reports := newModerationService()

	err := svc.Resolve(context.Background(), studentIdentity(), openReportID, true)
	if !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("got %v, want ErrPermissionDenied", err)
	}
	if len(reports.removed) != 0 {
		t.Errorf("resource removed despite missing capability")
	}
	if reports.reports[openReportID].Resolved {
		t.Errorf("report resolved despite missing capability")
	}
}

func TestResolve_RemovalTakesResourceDown(t *testing.T) {
	svc, reports := newModerationService()

	if err := svc.Resolve(context.Background(), facultyIdentity(), openReportID, true); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(reports.removed) != 1 || reports.removed[0] != "post:"+homePostID {
		t.Errorf("removed = %v, want [post:%s]", reports.removed, homePostID)
	}
}
