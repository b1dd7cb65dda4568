package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/rishangit/s-ams-sub002/internal/domain/appointment"
	"github.com/rishangit/s-ams-sub002/internal/models"
	"github.com/rishangit/s-ams-sub002/internal/timezone"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// scoped narrows appointment queries to what the role may see.
func scoped(q *gorm.DB, rc domain.RoleContext) *gorm.DB {
	switch rc.Role {
	case domain.RoleAdmin:
		return q
	case domain.RoleOwner, domain.RoleStaff:
		return q.Where("appointments.company_id = ?", rc.CompanyID)
	case domain.RoleUser:
		return q.Where("appointments.user_id = ?", rc.UserID)
	default:
		return q.Where("1 = 0")
	}
}

func withProjections(q *gorm.DB) *gorm.DB {
	return q.
		Preload("User").
		Preload("Company").
		Preload("Service").
		Preload("Staff")
}

// --------------------------------------------------
// Appointment (read)
// --------------------------------------------------

func (r *AppointmentGormRepository) ListAppointments(
	ctx context.Context,
	rc domain.RoleContext,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := withProjections(scoped(r.db.WithContext(ctx), rc)).
		Order("scheduled_date ASC, scheduled_time ASC, appointments.id ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	rc domain.RoleContext,
	appointmentID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := withProjections(scoped(r.db.WithContext(ctx), rc)).
		Where("appointments.id = ?", appointmentID).
		First(&ap).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAppointmentNotFound
		}
		return nil, err
	}
	return &ap, nil
}

// --------------------------------------------------
// Appointment (state change)
// --------------------------------------------------

// lockAppointment loads the row for update inside tx.
func lockAppointment(tx *gorm.DB, appointmentID uint) (*models.Appointment, error) {
	var ap models.Appointment
	if err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Company").
		First(&ap, appointmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAppointmentNotFound
		}
		return nil, err
	}
	return &ap, nil
}

func saveAppointment(tx *gorm.DB, ap *models.Appointment) error {
	return tx.Omit(clause.Associations).Save(ap).Error
}

func (r *AppointmentGormRepository) RequestStatusChange(
	ctx context.Context,
	appointmentID uint,
	to domain.Status,
) (*models.Appointment, error) {

	var out *models.Appointment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ap, err := lockAppointment(tx, appointmentID)
		if err != nil {
			return err
		}

		now := timezone.NowIn(ap.Company.Timezone)
		if err := domain.Transition(ap, to, now); err != nil {
			return domain.ErrRejected
		}

		if err := saveAppointment(tx, ap); err != nil {
			return err
		}
		out = ap
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *AppointmentGormRepository) AssignStaff(
	ctx context.Context,
	appointmentID uint,
	staffID uint,
) (*models.Appointment, error) {

	var out *models.Appointment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ap, err := lockAppointment(tx, appointmentID)
		if err != nil {
			return err
		}

		var staff models.Staff
		if err := tx.
			Where("id = ? AND company_id = ? AND active = ?", staffID, ap.CompanyID, true).
			First(&staff).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrStaffNotFound
			}
			return err
		}

		now := timezone.NowIn(ap.Company.Timezone)
		if err := domain.Confirm(ap, staff.ID, now); err != nil {
			return domain.ErrRejected
		}

		if err := saveAppointment(tx, ap); err != nil {
			return err
		}
		out = ap
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RequestDelete removes the appointment and any completion record it owns.
func (r *AppointmentGormRepository) RequestDelete(
	ctx context.Context,
	appointmentID uint,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("appointment_id = ?", appointmentID).
			Delete(&models.CompletionRecord{}).Error; err != nil {
			return err
		}

		res := tx.Delete(&models.Appointment{}, appointmentID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrAppointmentNotFound
		}
		return nil
	})
}

// --------------------------------------------------
// Staff
// --------------------------------------------------

func (r *AppointmentGormRepository) ListActiveStaff(
	ctx context.Context,
	companyID uint,
) ([]models.Staff, error) {

	var staff []models.Staff
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND active = ?", companyID, true).
		Order("name ASC").
		Find(&staff).Error; err != nil {
		return nil, err
	}
	return staff, nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
