package audit

import (
	"context"
	"time"

	"github.com/rishangit/s-ams-sub002/internal/models"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

// Filter narrows an audit log listing. A zero CompanyID lists every company.
type Filter struct {
	CompanyID uint
	Action    string
	Entity    string
	EntityID  *uint
	From      *time.Time
	To        *time.Time

	Page  int
	Limit int
}

// Normalize applies the default page and caps the page size.
func (f *Filter) Normalize() {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > MaxPageSize {
		f.Limit = DefaultPageSize
	}
}

// List returns one page of matching rows, newest first, and the total count.
func (l *Logger) List(ctx context.Context, f Filter) ([]models.AuditLog, int64, error) {
	f.Normalize()

	q := l.db.WithContext(ctx).Model(&models.AuditLog{})

	if f.CompanyID != 0 {
		q = q.Where("company_id = ?", f.CompanyID)
	}
	if f.Action != "" {
		q = q.Where("action = ?", f.Action)
	}
	if f.Entity != "" {
		q = q.Where("entity = ?", f.Entity)
	}
	if f.EntityID != nil {
		q = q.Where("entity_id = ?", *f.EntityID)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at < ?", *f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []models.AuditLog
	if err := q.
		Order("created_at DESC").
		Order("id DESC").
		Limit(f.Limit).
		Offset((f.Page - 1) * f.Limit).
		Find(&logs).Error; err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}
