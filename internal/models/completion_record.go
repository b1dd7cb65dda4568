package models

import (
	"time"

	"gorm.io/datatypes"
)

// ProductUsageLine is one product consumed while completing an appointment.
// LineID only addresses the line inside an unsaved ledger.
type ProductUsageLine struct {
	LineID       string  `json:"line_id"`
	ProductID    uint    `json:"product_id"`
	ProductName  string  `json:"product_name"`
	QuantityUsed int     `json:"quantity_used"`
	UnitCost     float64 `json:"unit_cost"`
	Notes        string  `json:"notes,omitempty"`
}

// CompletionRecord is the persisted outcome of a completed appointment.
type CompletionRecord struct {
	ID uint `gorm:"primaryKey" json:"id"`

	AppointmentID uint `gorm:"uniqueIndex;not null" json:"appointment_id"`

	ProductsUsed   datatypes.JSONSlice[ProductUsageLine] `json:"products_used"`
	TotalCost      float64                               `gorm:"not null;default:0" json:"total_cost"`
	Notes          string                                `gorm:"type:text" json:"notes"`
	CompletionDate time.Time                             `json:"completion_date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
