package appointment

import (
	"context"

	"github.com/rishangit/s-ams-sub002/internal/models"
)

// Repository is the persistence collaborator for the appointment lifecycle.
// Every mutating call echoes back the stored record.
type Repository interface {
	// -------- Appointment (read) --------
	ListAppointments(
		ctx context.Context,
		rc RoleContext,
	) ([]models.Appointment, error)

	GetAppointment(
		ctx context.Context,
		rc RoleContext,
		appointmentID uint,
	) (*models.Appointment, error)

	// -------- Appointment (state change) --------
	RequestStatusChange(
		ctx context.Context,
		appointmentID uint,
		to Status,
	) (*models.Appointment, error)

	AssignStaff(
		ctx context.Context,
		appointmentID uint,
		staffID uint,
	) (*models.Appointment, error)

	RequestDelete(
		ctx context.Context,
		appointmentID uint,
	) error

	// -------- Staff --------
	ListActiveStaff(
		ctx context.Context,
		companyID uint,
	) ([]models.Staff, error)
}
