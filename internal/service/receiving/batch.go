package receiving

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/KanomTHX/flexi-furnish-hub-sub005/internal/domain/models"
)

// BatchOptions carries the values a batch needs besides the wizard state.
type BatchOptions struct {
	BatchID string
	VATRate decimal.Decimal
	Now     time.Time
	NewID   func() string
}

// BuildBatch turns a final-step snapshot into the rows to insert: one stock
// movement per line, one serial record per unit and, when a supplier and
// invoice number are bound, one supplier invoice.
func BuildBatch(snap Snapshot, opts BatchOptions) (models.ReceiptBatch, error) {
	if snap.CurrentStep != LastStep {
		return models.ReceiptBatch{}, ErrNotFinalStep
	}
	if len(snap.Items) == 0 {
		return models.ReceiptBatch{}, invalid(StepProductSelection, ErrNoItems, "")
	}

	d := snap.Details
	receivedAt := d.ReceivedAt
	if receivedAt.IsZero() {
		receivedAt = opts.Now
	}

	batch := models.ReceiptBatch{
		ID:         opts.BatchID,
		BranchID:   d.BranchID,
		ReceivedAt: receivedAt,
	}

	subtotal := decimal.Zero
	for _, it := range snap.Items {
		if len(it.Serials) != it.Quantity {
			return models.ReceiptBatch{}, invalid(StepSerialNumbers, ErrSerialMismatch, it.ProductCode)
		}
		total := it.UnitCost.Mul(decimal.NewFromInt(int64(it.Quantity)))
		subtotal = subtotal.Add(total)

		batch.Movements = append(batch.Movements, models.StockMovement{
			ID:              opts.NewID(),
			BatchID:         opts.BatchID,
			BranchID:        d.BranchID,
			ProductID:       it.ProductID,
			MovementType:    models.MovementIn,
			Quantity:        it.Quantity,
			UnitCost:        it.UnitCost,
			TotalCost:       total,
			ReferenceType:   models.ReferenceGoodsReceipt,
			ReferenceNumber: d.InvoiceNumber,
			Notes:           d.Notes,
			CreatedAt:       opts.Now,
		})

		for _, sn := range it.Serials {
			batch.Serials = append(batch.Serials, models.SerialNumber{
				ID:            opts.NewID(),
				BatchID:       opts.BatchID,
				SerialNumber:  sn,
				ProductID:     it.ProductID,
				BranchID:      d.BranchID,
				SupplierID:    d.SupplierID,
				UnitCost:      it.UnitCost,
				Status:        models.SerialAvailable,
				InvoiceNumber: d.InvoiceNumber,
				ReceivedAt:    receivedAt,
			})
		}
		batch.Totals.Units += it.Quantity
	}

	tax := subtotal.Mul(opts.VATRate).Round(2)
	batch.Totals.Lines = len(snap.Items)
	batch.Totals.Subtotal = subtotal
	batch.Totals.Tax = tax
	batch.Totals.Total = subtotal.Add(tax)

	if d.SupplierID != "" && d.InvoiceNumber != "" {
		batch.Invoice = &models.SupplierInvoice{
			ID:            opts.NewID(),
			BatchID:       opts.BatchID,
			InvoiceNumber: d.InvoiceNumber,
			SupplierID:    d.SupplierID,
			BranchID:      d.BranchID,
			InvoiceDate:   receivedAt,
			DueDate:       receivedAt.AddDate(0, 0, d.PaymentTerms),
			Subtotal:      subtotal,
			TaxAmount:     tax,
			TotalAmount:   batch.Totals.Total,
			PaidAmount:    decimal.Zero,
			Status:        models.InvoicePending,
			Notes:         d.Notes,
		}
	}

	return batch, nil
}
