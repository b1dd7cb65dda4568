package appointment

import (
	"context"

	"github.com/rishangit/s-ams-sub002/internal/audit"
	domain "github.com/rishangit/s-ams-sub002/internal/domain/appointment"
	"github.com/rishangit/s-ams-sub002/internal/inflight"
	"github.com/rishangit/s-ams-sub002/internal/metrics"
	"github.com/rishangit/s-ams-sub002/internal/models"
)

type ChangeStatus struct {
	repo    domain.Repository
	guard   inflight.Guard
	audit   *audit.Dispatcher
	metrics *metrics.WorkflowMetrics
}

func NewChangeStatus(
	repo domain.Repository,
	guard inflight.Guard,
	audit *audit.Dispatcher,
	metrics *metrics.WorkflowMetrics,
) *ChangeStatus {
	return &ChangeStatus{
		repo:    repo,
		guard:   guard,
		audit:   audit,
		metrics: metrics,
	}
}

// Execute requests an explicit status change. Illegal transitions are
// rejected before the collaborator is asked to change anything, and
// transitions owned by the assignment or completion flow are refused here.
func (uc *ChangeStatus) Execute(
	ctx context.Context,
	rc domain.RoleContext,
	appointmentID uint,
	to domain.Status,
) (*models.Appointment, error) {

	if !to.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	if !domain.CanRequestStatus(rc.Role, to) {
		return nil, domain.ErrForbidden
	}

	ap, err := uc.repo.GetAppointment(ctx, rc, appointmentID)
	if err != nil {
		return nil, err
	}

	from := domain.Status(ap.Status)
	if err := domain.CanTransition(from, to); err != nil {
		uc.metrics.ObserveTransition(from.String(), to.String(), "invalid")
		return nil, err
	}

	switch domain.Intercept(rc.Role, from, to) {
	case domain.RouteRedirectToAssignment:
		return nil, domain.ErrAssignmentRequired
	case domain.RouteRedirectToCompletion:
		return nil, domain.ErrCompletionRequired
	}

	return uc.apply(ctx, rc, ap, to)
}

// apply fires a transition already checked against the table. The stored
// status only changes once the collaborator confirms.
func (uc *ChangeStatus) apply(
	ctx context.Context,
	rc domain.RoleContext,
	ap *models.Appointment,
	to domain.Status,
) (*models.Appointment, error) {

	release, err := uc.guard.Acquire(ctx, ap.ID)
	if err != nil {
		return nil, err
	}
	defer release()

	from := domain.Status(ap.Status)

	updated, err := uc.repo.RequestStatusChange(ctx, ap.ID, to)
	if err != nil {
		uc.metrics.ObserveTransition(from.String(), to.String(), "failed")
		return nil, persistErr(uc.metrics, "request_status_change", err)
	}

	uc.metrics.ObserveTransition(from.String(), to.String(), "ok")
	uc.audit.Dispatch(audit.Event{
		CompanyID: updated.CompanyID,
		UserID:    &rc.UserID,
		Action:    audit.ActionStatusChanged,
		Entity:    "appointment",
		EntityID:  &updated.ID,
		Metadata: map[string]any{
			"from": from.String(),
			"to":   to.String(),
		},
	})

	return updated, nil
}
