package appointment

import (
	"context"

	"github.com/rishangit/s-ams-sub002/internal/audit"
	domain "github.com/rishangit/s-ams-sub002/internal/domain/appointment"
	"github.com/rishangit/s-ams-sub002/internal/inflight"
	"github.com/rishangit/s-ams-sub002/internal/metrics"
)

// DeleteAppointment is outside the state machine; any status may be deleted
// by a role that manages appointments.
type DeleteAppointment struct {
	repo    domain.Repository
	guard   inflight.Guard
	audit   *audit.Dispatcher
	metrics *metrics.WorkflowMetrics
}

func NewDeleteAppointment(
	repo domain.Repository,
	guard inflight.Guard,
	audit *audit.Dispatcher,
	metrics *metrics.WorkflowMetrics,
) *DeleteAppointment {
	return &DeleteAppointment{
		repo:    repo,
		guard:   guard,
		audit:   audit,
		metrics: metrics,
	}
}

func (uc *DeleteAppointment) Execute(
	ctx context.Context,
	rc domain.RoleContext,
	appointmentID uint,
) error {

	if !domain.CanManage(rc.Role) {
		return domain.ErrForbidden
	}

	ap, err := uc.repo.GetAppointment(ctx, rc, appointmentID)
	if err != nil {
		return err
	}

	release, err := uc.guard.Acquire(ctx, ap.ID)
	if err != nil {
		return err
	}
	defer release()

	if err := uc.repo.RequestDelete(ctx, ap.ID); err != nil {
		return persistErr(uc.metrics, "request_delete", err)
	}

	uc.audit.Dispatch(audit.Event{
		CompanyID: ap.CompanyID,
		UserID:    &rc.UserID,
		Action:    audit.ActionDeleted,
		Entity:    "appointment",
		EntityID:  &ap.ID,
	})

	return nil
}
