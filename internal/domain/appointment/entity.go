package appointment

import (
	"time"

	"github.com/rishangit/s-ams-sub002/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// Transition applies to on ap when the table allows it, stamping the
// matching lifecycle timestamp.
func Transition(ap *models.Appointment, to Status, now time.Time) error {
	if err := CanTransition(Status(ap.Status), to); err != nil {
		return err
	}

	ap.Status = int(to)
	switch to {
	case StatusConfirmed:
		ap.ConfirmedAt = &now
	case StatusCompleted:
		ap.CompletedAt = &now
	case StatusCancelled:
		ap.CancelledAt = &now
	}
	return nil
}

func Cancel(ap *models.Appointment, now time.Time) error {
	return Transition(ap, StatusCancelled, now)
}

func Confirm(ap *models.Appointment, staffID uint, now time.Time) error {
	if err := Transition(ap, StatusConfirmed, now); err != nil {
		return err
	}
	ap.StaffID = &staffID
	return nil
}

func Complete(ap *models.Appointment, now time.Time) error {
	return Transition(ap, StatusCompleted, now)
}
