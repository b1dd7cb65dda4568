package appointment

import "github.com/rishangit/s-ams-sub002/internal/httperr"

var (
	ErrInvalidTransition = httperr.ErrBusiness("invalid_transition")
	ErrInvalidStatus     = httperr.ErrBusiness("invalid_status")
	ErrInvalidRole       = httperr.ErrBusiness("invalid_role")
	ErrForbidden         = httperr.ErrBusiness("forbidden")

	ErrAppointmentNotFound = httperr.ErrBusiness("appointment_not_found")
	ErrStaffNotFound       = httperr.ErrBusiness("staff_not_found")

	// ErrRejected is returned by persistence when the stored status no longer
	// allows the requested change.
	ErrRejected = httperr.ErrBusiness("rejected")

	ErrAssignmentRequired = httperr.ErrBusiness("staff_assignment_required")
	ErrCompletionRequired = httperr.ErrBusiness("completion_required")
)
