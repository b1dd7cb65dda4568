package appointment

import (
	"context"

	domain "github.com/rishangit/s-ams-sub002/internal/domain/appointment"
	"github.com/rishangit/s-ams-sub002/internal/domain/completion"
	"github.com/rishangit/s-ams-sub002/internal/dto"
	"github.com/rishangit/s-ams-sub002/internal/metrics"
	"github.com/rishangit/s-ams-sub002/internal/models"
)

// CompletionOpener opens the completion workflow for an appointment.
type CompletionOpener interface {
	Execute(
		ctx context.Context,
		rc domain.RoleContext,
		appointmentID uint,
		edit bool,
	) (*completion.Workflow, error)
}

// AdvanceOutcome tells the caller what selecting the advance action did.
// Only RouteDirect changes the stored status.
type AdvanceOutcome struct {
	Route       domain.Route           `json:"route"`
	Appointment dto.AppointmentListDTO `json:"appointment"`
	Staff       []models.Staff         `json:"staff,omitempty"`
	Completion  *completion.Snapshot   `json:"completion,omitempty"`
}

type AdvanceStatus struct {
	repo       domain.Repository
	change     *ChangeStatus
	completion CompletionOpener
	metrics    *metrics.WorkflowMetrics
}

func NewAdvanceStatus(
	repo domain.Repository,
	change *ChangeStatus,
	completion CompletionOpener,
	metrics *metrics.WorkflowMetrics,
) *AdvanceStatus {
	return &AdvanceStatus{
		repo:       repo,
		change:     change,
		completion: completion,
		metrics:    metrics,
	}
}

func (uc *AdvanceStatus) Execute(
	ctx context.Context,
	rc domain.RoleContext,
	appointmentID uint,
) (*AdvanceOutcome, error) {

	if !domain.CanAdvance(rc.Role) {
		return nil, domain.ErrForbidden
	}

	ap, err := uc.repo.GetAppointment(ctx, rc, appointmentID)
	if err != nil {
		return nil, err
	}

	from := domain.Status(ap.Status)
	to, ok := domain.NextStatus(from)
	if !ok {
		return nil, domain.ErrInvalidTransition
	}

	route := domain.Intercept(rc.Role, from, to)
	uc.metrics.ObserveRoute(string(route))

	switch route {
	case domain.RouteRedirectToAssignment:
		staff, err := uc.repo.ListActiveStaff(ctx, ap.CompanyID)
		if err != nil {
			return nil, err
		}
		return &AdvanceOutcome{
			Route:       route,
			Appointment: dto.NewAppointmentListDTO(ap, rc.Role),
			Staff:       staff,
		}, nil

	case domain.RouteRedirectToCompletion:
		wf, err := uc.completion.Execute(ctx, rc, ap.ID, false)
		if err != nil {
			return nil, err
		}
		snap := wf.Snapshot()
		return &AdvanceOutcome{
			Route:       route,
			Appointment: dto.NewAppointmentListDTO(ap, rc.Role),
			Completion:  &snap,
		}, nil
	}

	updated, err := uc.change.apply(ctx, rc, ap, to)
	if err != nil {
		return nil, err
	}
	return &AdvanceOutcome{
		Route:       route,
		Appointment: dto.NewAppointmentListDTO(updated, rc.Role),
	}, nil
}
