package completion

import (
	"context"

	"github.com/rishangit/s-ams-sub002/internal/models"
)

// Data is the payload of a create or update completion intent.
type Data struct {
	AppointmentID uint                      `json:"appointment_id"`
	ProductsUsed  []models.ProductUsageLine `json:"products_used"`
	TotalCost     float64                   `json:"total_cost"`
	Notes         string                    `json:"notes"`
}

// Persister fulfils completion intents. CreateCompletionRecord also moves the
// appointment into Completed so no second status call is needed.
type Persister interface {
	CreateCompletionRecord(
		ctx context.Context,
		data Data,
	) (*models.CompletionRecord, error)

	UpdateCompletionRecord(
		ctx context.Context,
		recordID uint,
		data Data,
	) (*models.CompletionRecord, error)
}

// Reader is the read side used to decide the workflow mode.
type Reader interface {
	GetCompletionRecordByAppointment(
		ctx context.Context,
		appointmentID uint,
	) (*models.CompletionRecord, error)

	ListActiveProducts(
		ctx context.Context,
		companyID uint,
	) ([]models.Product, error)
}
