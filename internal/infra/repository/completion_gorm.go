package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "github.com/rishangit/s-ams-sub002/internal/domain/appointment"
	"github.com/rishangit/s-ams-sub002/internal/domain/completion"
	"github.com/rishangit/s-ams-sub002/internal/httperr"
	"github.com/rishangit/s-ams-sub002/internal/models"
	"github.com/rishangit/s-ams-sub002/internal/timezone"
)

// --------------------------------------------------
// Products
// --------------------------------------------------

func (r *AppointmentGormRepository) ListActiveProducts(
	ctx context.Context,
	companyID uint,
) ([]models.Product, error) {
	active := true
	return r.ListProducts(ctx, companyID, &active)
}

// ListProducts returns the company catalog. active filters on the flag when set.
func (r *AppointmentGormRepository) ListProducts(
	ctx context.Context,
	companyID uint,
	active *bool,
) ([]models.Product, error) {

	q := r.db.WithContext(ctx).Where("company_id = ?", companyID)
	if active != nil {
		q = q.Where("active = ?", *active)
	}

	var products []models.Product
	if err := q.Order("name ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *AppointmentGormRepository) GetProduct(
	ctx context.Context,
	companyID uint,
	productID uint,
) (*models.Product, error) {

	var p models.Product
	if err := r.db.WithContext(ctx).
		Where("id = ? AND company_id = ?", productID, companyID).
		First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, completion.ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}

// --------------------------------------------------
// Completion records
// --------------------------------------------------

func (r *AppointmentGormRepository) GetCompletionRecordByAppointment(
	ctx context.Context,
	appointmentID uint,
) (*models.CompletionRecord, error) {

	var rec models.CompletionRecord
	if err := r.db.WithContext(ctx).
		Where("appointment_id = ?", appointmentID).
		First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, completion.ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// CreateCompletionRecord stores the record and moves the appointment into
// Completed in the same transaction.
func (r *AppointmentGormRepository) CreateCompletionRecord(
	ctx context.Context,
	data completion.Data,
) (*models.CompletionRecord, error) {

	var out *models.CompletionRecord
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ap, err := lockAppointment(tx, data.AppointmentID)
		if err != nil {
			return err
		}

		var existing int64
		if err := tx.Model(&models.CompletionRecord{}).
			Where("appointment_id = ?", ap.ID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return completion.ErrAlreadyExists
		}

		now := timezone.NowIn(ap.Company.Timezone)
		if domain.Status(ap.Status) != domain.StatusCompleted {
			if err := domain.Complete(ap, now); err != nil {
				return domain.ErrRejected
			}
			if err := saveAppointment(tx, ap); err != nil {
				return err
			}
		}

		lines := ledger(data.ProductsUsed)
		rec := models.CompletionRecord{
			AppointmentID:  ap.ID,
			ProductsUsed:   lines,
			TotalCost:      completion.Total(lines),
			Notes:          data.Notes,
			CompletionDate: now,
		}
		if err := tx.Create(&rec).Error; err != nil {
			if httperr.IsUniqueViolation(err) {
				return completion.ErrAlreadyExists
			}
			return err
		}
		out = &rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateCompletionRecord replaces ledger, notes and total in one write.
func (r *AppointmentGormRepository) UpdateCompletionRecord(
	ctx context.Context,
	recordID uint,
	data completion.Data,
) (*models.CompletionRecord, error) {

	var out *models.CompletionRecord
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec models.CompletionRecord
		if err := tx.First(&rec, recordID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return completion.ErrNotFound
			}
			return err
		}
		if rec.AppointmentID != data.AppointmentID {
			return completion.ErrNotFound
		}

		lines := ledger(data.ProductsUsed)
		rec.ProductsUsed = lines
		rec.TotalCost = completion.Total(lines)
		rec.Notes = data.Notes

		if err := tx.Save(&rec).Error; err != nil {
			return err
		}
		out = &rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ledger stores an empty ledger as [] rather than null.
func ledger(lines []models.ProductUsageLine) []models.ProductUsageLine {
	if lines == nil {
		return []models.ProductUsageLine{}
	}
	return lines
}

var (
	_ completion.Persister = (*AppointmentGormRepository)(nil)
	_ completion.Reader    = (*AppointmentGormRepository)(nil)
)
