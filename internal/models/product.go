package models

import "time"

// Product is a consumable used while servicing an appointment.
type Product struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	CompanyID uint `gorm:"index" json:"company_id"`

	Name     string  `gorm:"size:100;not null" json:"name"`
	Category string  `gorm:"size:50" json:"category"`
	UnitCost float64 `json:"unit_cost"`
	Active   bool    `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
