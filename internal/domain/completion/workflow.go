package completion

import (
	"context"
	"math"

	"github.com/google/uuid"

	domain "github.com/rishangit/s-ams-sub002/internal/domain/appointment"
	"github.com/rishangit/s-ams-sub002/internal/httperr"
	"github.com/rishangit/s-ams-sub002/internal/models"
)

type Mode string

const (
	ModeCreate Mode = "create"
	ModeView   Mode = "view"
	ModeEdit   Mode = "edit"
)

// NewLine is the index passed to AddOrUpdateLine to append instead of replace.
const NewLine = -1

// Workflow holds the in-progress ledger for closing out one appointment.
// It is not safe for concurrent use; callers keep at most one submission in
// flight per appointment.
type Workflow struct {
	mode        Mode
	appointment *models.Appointment
	record      *models.CompletionRecord
	catalog     []models.Product
	persister   Persister

	lines []models.ProductUsageLine
	notes string
}

// Open picks the mode from whether a record exists and whether the caller
// asked to edit it. record may be nil.
func Open(
	ap *models.Appointment,
	record *models.CompletionRecord,
	edit bool,
	catalog []models.Product,
	persister Persister,
) (*Workflow, error) {

	w := &Workflow{
		appointment: ap,
		record:      record,
		catalog:     catalog,
		persister:   persister,
	}

	switch {
	case record == nil:
		if err := canCreate(ap); err != nil {
			return nil, err
		}
		w.mode = ModeCreate
	case edit:
		w.mode = ModeEdit
	default:
		w.mode = ModeView
	}

	w.load()
	return w, nil
}

// EmptyHistory is the read-only view of a Completed appointment that never
// got a record, for example one an admin advanced directly.
func EmptyHistory(ap *models.Appointment) *Workflow {
	return &Workflow{mode: ModeView, appointment: ap}
}

func canCreate(ap *models.Appointment) error {
	current := domain.Status(ap.Status)
	if current == domain.StatusCompleted {
		return nil
	}
	return domain.CanTransition(current, domain.StatusCompleted)
}

// load copies the persisted ledger into the form, or clears it in Create mode.
func (w *Workflow) load() {
	w.lines = nil
	w.notes = ""
	if w.record == nil {
		return
	}
	w.lines = append([]models.ProductUsageLine(nil), w.record.ProductsUsed...)
	w.notes = w.record.Notes
}

func (w *Workflow) Mode() Mode {
	return w.mode
}

func (w *Workflow) Appointment() *models.Appointment {
	return w.appointment
}

func (w *Workflow) Record() *models.CompletionRecord {
	return w.record
}

func (w *Workflow) Notes() string {
	return w.notes
}

func (w *Workflow) Lines() []models.ProductUsageLine {
	return append([]models.ProductUsageLine(nil), w.lines...)
}

func (w *Workflow) SetNotes(notes string) error {
	if w.mode == ModeView {
		return ErrReadOnly
	}
	w.notes = notes
	return nil
}

// ===============================
// Ledger
// ===============================

// SelectProduct fills name and unit cost from the catalog entry. It runs only
// when a product is chosen; later edits to UnitCost win.
func (w *Workflow) SelectProduct(line *models.ProductUsageLine, productID uint) error {
	p, ok := w.findProduct(productID)
	if !ok {
		return ErrProductUnavailable
	}
	line.ProductID = p.ID
	line.ProductName = p.Name
	line.UnitCost = p.UnitCost
	return nil
}

// AddOrUpdateLine validates line and either replaces the entry at index or,
// with NewLine, appends it under a fresh line id.
func (w *Workflow) AddOrUpdateLine(index int, line models.ProductUsageLine) error {
	if w.mode == ModeView {
		return ErrReadOnly
	}
	if err := validateLine(line); err != nil {
		return err
	}

	if index != NewLine {
		if index < 0 || index >= len(w.lines) {
			return ErrLineNotFound
		}
		existing := w.lines[index]
		if line.ProductID != existing.ProductID {
			if err := w.checkSelectable(line.ProductID, index); err != nil {
				return err
			}
		}
		line.LineID = existing.LineID
		w.lines[index] = line
		return nil
	}

	if err := w.checkSelectable(line.ProductID, NewLine); err != nil {
		return err
	}
	line.LineID = newLineID()
	w.lines = append(w.lines, line)
	return nil
}

// RemoveLine drops the line at index.
func (w *Workflow) RemoveLine(index int) error {
	if w.mode == ModeView {
		return ErrReadOnly
	}
	if index < 0 || index >= len(w.lines) {
		return ErrLineNotFound
	}
	w.lines = append(w.lines[:index], w.lines[index+1:]...)
	return nil
}

// ComputeTotal is always derived from the current ledger.
func (w *Workflow) ComputeTotal() float64 {
	return Total(w.lines)
}

// Total sums quantity times unit cost over lines.
func Total(lines []models.ProductUsageLine) float64 {
	var total float64
	for _, l := range lines {
		total += float64(l.QuantityUsed) * l.UnitCost
	}
	return total
}

// SelectableProducts lists active catalog products not already in the ledger.
// The product on the line being edited at editingIndex stays selectable.
func (w *Workflow) SelectableProducts(editingIndex int) []models.Product {
	out := make([]models.Product, 0, len(w.catalog))
	for _, p := range w.catalog {
		if w.checkSelectable(p.ID, editingIndex) == nil {
			out = append(out, p)
		}
	}
	return out
}

func (w *Workflow) checkSelectable(productID uint, editingIndex int) error {
	p, ok := w.findProduct(productID)
	if !ok || !p.Active {
		return ErrProductUnavailable
	}
	for i, l := range w.lines {
		if i != editingIndex && l.ProductID == productID {
			return ErrDuplicateProduct
		}
	}
	return nil
}

func (w *Workflow) findProduct(id uint) (models.Product, bool) {
	for _, p := range w.catalog {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

func validateLine(line models.ProductUsageLine) error {
	if line.ProductID == 0 {
		return httperr.ErrValidation("product_id", "is required")
	}
	if line.QuantityUsed <= 0 {
		return httperr.ErrValidation("quantity_used", "must be greater than zero")
	}
	if math.IsNaN(line.UnitCost) || math.IsInf(line.UnitCost, 0) || line.UnitCost < 0 {
		return httperr.ErrValidation("unit_cost", "must be zero or greater")
	}
	return nil
}

func newLineID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// ===============================
// Submit / Reset
// ===============================

// Submit emits a create intent in Create mode and an update intent in Edit
// mode. On failure the ledger and notes stay as they were so the caller can
// retry. On success the appointment is flipped to Completed locally and the
// form is reset.
func (w *Workflow) Submit(ctx context.Context) (*models.CompletionRecord, error) {
	var (
		rec *models.CompletionRecord
		err error
	)

	data := w.data()

	switch w.mode {
	case ModeCreate:
		if err := canCreate(w.appointment); err != nil {
			return nil, err
		}
		rec, err = w.persister.CreateCompletionRecord(ctx, data)
		if err != nil {
			return nil, persistErr("create_completion_record", err)
		}
	case ModeEdit:
		rec, err = w.persister.UpdateCompletionRecord(ctx, w.record.ID, data)
		if err != nil {
			return nil, persistErr("update_completion_record", err)
		}
	default:
		return nil, ErrReadOnly
	}

	w.appointment.Status = int(domain.StatusCompleted)
	w.record = rec
	w.mode = ModeView
	w.Reset()

	return rec, nil
}

// persistErr passes business answers such as completion_record_exists
// through and wraps everything else as a collaborator failure.
func persistErr(op string, err error) error {
	if _, ok := httperr.BusinessCode(err); ok {
		return err
	}
	return httperr.Persist(op, err)
}

func (w *Workflow) data() Data {
	return Data{
		AppointmentID: w.appointment.ID,
		ProductsUsed:  w.Lines(),
		TotalCost:     w.ComputeTotal(),
		Notes:         w.notes,
	}
}

// Reset clears the in-progress ledger and notes. Closing the workflow without
// submitting is a Reset; nothing is persisted.
func (w *Workflow) Reset() {
	w.lines = nil
	w.notes = ""
}

// ===============================
// Snapshot
// ===============================

type Snapshot struct {
	Mode               Mode                      `json:"mode"`
	AppointmentID      uint                      `json:"appointment_id"`
	RecordID           *uint                     `json:"record_id,omitempty"`
	ProductsUsed       []models.ProductUsageLine `json:"products_used"`
	Notes              string                    `json:"notes"`
	TotalCost          float64                   `json:"total_cost"`
	SelectableProducts []models.Product          `json:"selectable_products,omitempty"`
}

func (w *Workflow) Snapshot() Snapshot {
	s := Snapshot{
		Mode:          w.mode,
		AppointmentID: w.appointment.ID,
		ProductsUsed:  w.Lines(),
		Notes:         w.notes,
		TotalCost:     w.ComputeTotal(),
	}
	if s.ProductsUsed == nil {
		s.ProductsUsed = []models.ProductUsageLine{}
	}
	if w.record != nil {
		id := w.record.ID
		s.RecordID = &id
	}
	if w.mode != ModeView {
		s.SelectableProducts = w.SelectableProducts(NewLine)
	}
	return s
}
