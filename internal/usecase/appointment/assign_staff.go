package appointment

import (
	"context"

	"github.com/rishangit/s-ams-sub002/internal/audit"
	domain "github.com/rishangit/s-ams-sub002/internal/domain/appointment"
	"github.com/rishangit/s-ams-sub002/internal/inflight"
	"github.com/rishangit/s-ams-sub002/internal/metrics"
	"github.com/rishangit/s-ams-sub002/internal/models"
)

// AssignStaff is the sub-flow an owner's confirm is redirected into. The
// appointment becomes Confirmed only when the assignment is stored.
type AssignStaff struct {
	repo    domain.Repository
	guard   inflight.Guard
	audit   *audit.Dispatcher
	metrics *metrics.WorkflowMetrics
}

func NewAssignStaff(
	repo domain.Repository,
	guard inflight.Guard,
	audit *audit.Dispatcher,
	metrics *metrics.WorkflowMetrics,
) *AssignStaff {
	return &AssignStaff{
		repo:    repo,
		guard:   guard,
		audit:   audit,
		metrics: metrics,
	}
}

func (uc *AssignStaff) Execute(
	ctx context.Context,
	rc domain.RoleContext,
	appointmentID uint,
	staffID uint,
) (*models.Appointment, error) {

	if !domain.CanAdvance(rc.Role) {
		return nil, domain.ErrForbidden
	}

	ap, err := uc.repo.GetAppointment(ctx, rc, appointmentID)
	if err != nil {
		return nil, err
	}

	from := domain.Status(ap.Status)
	if err := domain.CanTransition(from, domain.StatusConfirmed); err != nil {
		return nil, err
	}

	release, err := uc.guard.Acquire(ctx, ap.ID)
	if err != nil {
		return nil, err
	}
	defer release()

	updated, err := uc.repo.AssignStaff(ctx, ap.ID, staffID)
	if err != nil {
		uc.metrics.ObserveTransition(from.String(), domain.StatusConfirmed.String(), "failed")
		return nil, persistErr(uc.metrics, "assign_staff", err)
	}

	uc.metrics.ObserveTransition(from.String(), domain.StatusConfirmed.String(), "ok")
	uc.audit.Dispatch(audit.Event{
		CompanyID: updated.CompanyID,
		UserID:    &rc.UserID,
		Action:    audit.ActionStaffAssigned,
		Entity:    "appointment",
		EntityID:  &updated.ID,
		Metadata:  map[string]any{"staff_id": staffID},
	})

	return updated, nil
}
