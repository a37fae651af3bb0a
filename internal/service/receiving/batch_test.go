package receiving

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KanomTHX/flexi-furnish-hub-sub005/internal/domain/models"
)

func finalSnapshot(t *testing.T) Snapshot {
	t.Helper()
	w, _ := newTestWizard()
	w.SetBranch("B1")
	w.SetNotes("ของเข้าล็อตแรก")
	require.NoError(t, w.AddProduct(product("P", 1000)))
	require.NoError(t, w.AddProduct(product("Q", 250)))
	require.NoError(t, w.UpdateQuantity(0, 3))
	for range 4 {
		require.NoError(t, w.Advance())
	}
	require.NoError(t, w.SelectSupplier(supplier("S1")))
	require.NoError(t, w.Advance())
	require.Equal(t, LastStep, w.Current())
	return w.Snapshot()
}

func counterIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func TestBuildBatch(t *testing.T) {
	snap := finalSnapshot(t)

	batch, err := BuildBatch(snap, BatchOptions{
		BatchID: "batch-1",
		VATRate: decimal.RequireFromString("0.07"),
		Now:     testNow,
		NewID:   counterIDs(),
	})
	require.NoError(t, err)

	assert.Equal(t, "batch-1", batch.ID)
	assert.Equal(t, "B1", batch.BranchID)
	require.Len(t, batch.Movements, 2)
	require.Len(t, batch.Serials, 4)

	m := batch.Movements[0]
	assert.Equal(t, models.MovementIn, m.MovementType)
	assert.Equal(t, 3, m.Quantity)
	assert.True(t, m.TotalCost.Equal(decimal.NewFromInt(3000)))
	assert.Equal(t, models.ReferenceGoodsReceipt, m.ReferenceType)
	assert.Equal(t, snap.Details.InvoiceNumber, m.ReferenceNumber)
	assert.Equal(t, "batch-1", m.BatchID)

	seen := map[string]bool{}
	for _, sn := range batch.Serials {
		assert.Equal(t, models.SerialAvailable, sn.Status)
		assert.Equal(t, "S1", sn.SupplierID)
		assert.Equal(t, "batch-1", sn.BatchID)
		assert.False(t, seen[sn.ID], "duplicate id %s", sn.ID)
		seen[sn.ID] = true
	}

	assert.Equal(t, 2, batch.Totals.Lines)
	assert.Equal(t, 4, batch.Totals.Units)
	assert.True(t, batch.Totals.Subtotal.Equal(decimal.NewFromInt(3250)))
	assert.True(t, batch.Totals.Tax.Equal(decimal.RequireFromString("227.5")))
	assert.True(t, batch.Totals.Total.Equal(decimal.RequireFromString("3477.5")))

	require.NotNil(t, batch.Invoice)
	inv := batch.Invoice
	assert.Equal(t, snap.Details.InvoiceNumber, inv.InvoiceNumber)
	assert.Equal(t, models.InvoicePending, inv.Status)
	assert.Equal(t, testNow.AddDate(0, 0, 30), inv.DueDate)
	assert.True(t, inv.TotalAmount.Equal(batch.Totals.Total))
	assert.True(t, inv.PaidAmount.IsZero())
}

func TestBuildBatchWithoutInvoiceNumber(t *testing.T) {
	snap := finalSnapshot(t)
	snap.Details.InvoiceNumber = ""

	batch, err := BuildBatch(snap, BatchOptions{BatchID: "b", VATRate: decimal.Zero, Now: testNow, NewID: counterIDs()})
	require.NoError(t, err)
	assert.Nil(t, batch.Invoice)
	assert.True(t, batch.Totals.Tax.IsZero())
	assert.True(t, batch.Totals.Total.Equal(batch.Totals.Subtotal))
}

func TestBuildBatchRejects(t *testing.T) {
	opts := BatchOptions{BatchID: "b", Now: testNow, NewID: counterIDs()}

	t.Run("not at final step", func(t *testing.T) {
		w, _ := newTestWizard()
		_, err := BuildBatch(w.Snapshot(), opts)
		assert.ErrorIs(t, err, ErrNotFinalStep)
	})

	t.Run("serial count drift", func(t *testing.T) {
		snap := finalSnapshot(t)
		snap.Items[0].Serials = snap.Items[0].Serials[:1]
		_, err := BuildBatch(snap, opts)
		assert.ErrorIs(t, err, ErrSerialMismatch)
	})
}
