package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint `gorm:"index" json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"user"`

	CompanyID uint    `gorm:"index" json:"company_id"`
	Company   Company `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"company"`

	ServiceID uint    `json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service"`

	StaffID *uint  `json:"staff_id"`
	Staff   *Staff `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"staff,omitempty"`

	Date string `gorm:"column:scheduled_date;size:10" json:"date"`
	Time string `gorm:"column:scheduled_time;size:5" json:"time"`

	Status int `gorm:"not null;default:0" json:"status"`

	Notes       string     `gorm:"size:255" json:"notes"`
	ConfirmedAt *time.Time `json:"confirmed_at"`
	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
