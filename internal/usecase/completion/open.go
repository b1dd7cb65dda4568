package completion

import (
	"context"
	"errors"

	domain "github.com/rishangit/s-ams-sub002/internal/domain/appointment"
	"github.com/rishangit/s-ams-sub002/internal/domain/completion"
	"github.com/rishangit/s-ams-sub002/internal/models"
)

// AppointmentReader is the slice of the appointment repository this package
// needs.
type AppointmentReader interface {
	GetAppointment(
		ctx context.Context,
		rc domain.RoleContext,
		appointmentID uint,
	) (*models.Appointment, error)
}

type OpenCompletion struct {
	appointments AppointmentReader
	reader       completion.Reader
	persister    completion.Persister
}

func NewOpenCompletion(
	appointments AppointmentReader,
	reader completion.Reader,
	persister completion.Persister,
) *OpenCompletion {
	return &OpenCompletion{
		appointments: appointments,
		reader:       reader,
		persister:    persister,
	}
}

// Execute opens the workflow in Create mode when no record exists, otherwise
// in View or Edit mode. A missing record is the normal "no history yet" case:
// roles that cannot create one get an empty View of a Completed appointment.
func (uc *OpenCompletion) Execute(
	ctx context.Context,
	rc domain.RoleContext,
	appointmentID uint,
	edit bool,
) (*completion.Workflow, error) {

	if !domain.CanViewHistory(rc.Role) {
		return nil, domain.ErrForbidden
	}

	ap, err := uc.appointments.GetAppointment(ctx, rc, appointmentID)
	if err != nil {
		return nil, err
	}

	record, err := uc.reader.GetCompletionRecordByAppointment(ctx, ap.ID)
	switch {
	case errors.Is(err, completion.ErrNotFound):
		record = nil
	case err != nil:
		return nil, err
	}

	var catalog []models.Product
	if record == nil || edit {
		if !domain.CanAdvance(rc.Role) {
			// no history yet is not an error for a history-only reader
			if record == nil && !edit && domain.Status(ap.Status) == domain.StatusCompleted {
				return completion.EmptyHistory(ap), nil
			}
			return nil, domain.ErrForbidden
		}
		catalog, err = uc.reader.ListActiveProducts(ctx, ap.CompanyID)
		if err != nil {
			return nil, err
		}
	}

	return completion.Open(ap, record, edit, catalog, uc.persister)
}
