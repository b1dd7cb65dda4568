package completion

import (
	"context"

	"github.com/rishangit/s-ams-sub002/internal/audit"
	domain "github.com/rishangit/s-ams-sub002/internal/domain/appointment"
	"github.com/rishangit/s-ams-sub002/internal/domain/completion"
	"github.com/rishangit/s-ams-sub002/internal/dto"
	"github.com/rishangit/s-ams-sub002/internal/httperr"
	"github.com/rishangit/s-ams-sub002/internal/inflight"
	"github.com/rishangit/s-ams-sub002/internal/metrics"
	"github.com/rishangit/s-ams-sub002/internal/models"
)

type SubmitInput struct {
	Lines []completion.LineInput
	Notes string
	Edit  bool
}

type SubmitResult struct {
	Record      *models.CompletionRecord `json:"record"`
	Appointment dto.AppointmentListDTO   `json:"appointment"`
}

type SubmitCompletion struct {
	open    *OpenCompletion
	guard   inflight.Guard
	audit   *audit.Dispatcher
	metrics *metrics.WorkflowMetrics
}

func NewSubmitCompletion(
	open *OpenCompletion,
	guard inflight.Guard,
	audit *audit.Dispatcher,
	metrics *metrics.WorkflowMetrics,
) *SubmitCompletion {
	return &SubmitCompletion{
		open:    open,
		guard:   guard,
		audit:   audit,
		metrics: metrics,
	}
}

// Execute creates (Edit=false) or replaces (Edit=true) the completion record
// of an appointment with the given ledger and notes.
func (uc *SubmitCompletion) Execute(
	ctx context.Context,
	rc domain.RoleContext,
	appointmentID uint,
	in SubmitInput,
) (*SubmitResult, error) {

	if !domain.CanAdvance(rc.Role) {
		return nil, domain.ErrForbidden
	}

	wf, err := uc.open.Execute(ctx, rc, appointmentID, in.Edit)
	if err != nil {
		return nil, err
	}

	switch {
	case in.Edit && wf.Mode() != completion.ModeEdit:
		return nil, completion.ErrNotFound
	case !in.Edit && wf.Mode() != completion.ModeCreate:
		return nil, completion.ErrAlreadyExists
	}

	mode := string(wf.Mode())

	if err := wf.Apply(in.Lines); err != nil {
		uc.metrics.ObserveCompletion(mode, "invalid")
		return nil, err
	}
	if err := wf.SetNotes(in.Notes); err != nil {
		return nil, err
	}

	release, err := uc.guard.Acquire(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	defer release()

	rec, err := wf.Submit(ctx)
	if err != nil {
		uc.metrics.ObserveCompletion(mode, "failed")
		if httperr.IsPersist(err) {
			uc.metrics.ObservePersistFailure(mode + "_completion_record")
		}
		return nil, err
	}

	uc.metrics.ObserveCompletion(mode, "ok")

	action := audit.ActionCompletionCreate
	if in.Edit {
		action = audit.ActionCompletionUpdate
	}
	ap := wf.Appointment()
	uc.audit.Dispatch(audit.Event{
		CompanyID: ap.CompanyID,
		UserID:    &rc.UserID,
		Action:    action,
		Entity:    "completion_record",
		EntityID:  &rec.ID,
		Metadata: map[string]any{
			"appointment_id": ap.ID,
			"total_cost":     rec.TotalCost,
			"lines":          len(rec.ProductsUsed),
		},
	})

	return &SubmitResult{
		Record:      rec,
		Appointment: dto.NewAppointmentListDTO(ap, rc.Role),
	}, nil
}
