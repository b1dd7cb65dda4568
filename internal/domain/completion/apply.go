package completion

import (
	"github.com/rishangit/s-ams-sub002/internal/httperr"
	"github.com/rishangit/s-ams-sub002/internal/models"
)

// LineInput is a requested ledger line. A nil UnitCost keeps the catalog
// price (or the stored one for a line already in the ledger).
type LineInput struct {
	ProductID    uint     `json:"product_id"`
	QuantityUsed int      `json:"quantity_used"`
	UnitCost     *float64 `json:"unit_cost"`
	Notes        string   `json:"notes"`
}

// Apply makes the ledger match inputs: lines for products no longer wanted are
// removed, existing products are updated in place, new ones are appended.
// It is all or nothing: on any error the ledger is left as it was.
func (w *Workflow) Apply(inputs []LineInput) error {
	if w.mode == ModeView {
		return ErrReadOnly
	}

	prev := w.Lines()
	if err := w.apply(inputs); err != nil {
		w.lines = prev
		return err
	}
	return nil
}

func (w *Workflow) apply(inputs []LineInput) error {

	wanted := make(map[uint]bool, len(inputs))
	for _, in := range inputs {
		if in.ProductID == 0 {
			return httperr.ErrValidation("product_id", "is required")
		}
		if wanted[in.ProductID] {
			return ErrDuplicateProduct
		}
		wanted[in.ProductID] = true
	}

	for i := len(w.lines) - 1; i >= 0; i-- {
		if !wanted[w.lines[i].ProductID] {
			if err := w.RemoveLine(i); err != nil {
				return err
			}
		}
	}

	for _, in := range inputs {
		index := w.indexOf(in.ProductID)

		var line models.ProductUsageLine
		if index == NewLine {
			if err := w.SelectProduct(&line, in.ProductID); err != nil {
				return err
			}
		} else {
			line = w.lines[index]
		}

		line.QuantityUsed = in.QuantityUsed
		line.Notes = in.Notes
		if in.UnitCost != nil {
			line.UnitCost = *in.UnitCost
		}

		if err := w.AddOrUpdateLine(index, line); err != nil {
			return err
		}
	}

	return nil
}

func (w *Workflow) indexOf(productID uint) int {
	for i, l := range w.lines {
		if l.ProductID == productID {
			return i
		}
	}
	return NewLine
}
