package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KanomTHX/flexi-furnish-hub-sub005/internal/domain/models"
)

var receivedAt = time.Date(2026, 10, 19, 3, 0, 0, 0, time.UTC)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()
	s, err := Open(ctx, ":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.UpsertProduct(ctx, models.Product{
		ID: "p1", Code: "SOFA-01", Name: "โซฟา", BranchID: "B1", Unit: "ตัว",
		CostPrice: decimal.NewFromInt(1000), SellingPrice: decimal.NewFromInt(1590), IsActive: true,
	}))
	require.NoError(t, s.UpsertProduct(ctx, models.Product{
		ID: "p2", Code: "BED-01", Name: "เตียง", BranchID: "B1", CostPrice: decimal.NewFromInt(5000), IsActive: false,
	}))
	require.NoError(t, s.UpsertProduct(ctx, models.Product{
		ID: "p3", Code: "TBL-01", Name: "โต๊ะ", BranchID: "B2", CostPrice: decimal.NewFromInt(700), IsActive: true,
	}))
	require.NoError(t, s.UpsertSupplier(ctx, models.Supplier{
		ID: "s1", Code: "SUP1", Name: "Siam Furniture", BranchID: "B1", PaymentTerms: 30, IsActive: true,
	}))
	return s
}

func testBatch(id string, serials ...string) models.ReceiptBatch {
	batch := models.ReceiptBatch{ID: id, BranchID: "B1", ReceivedAt: receivedAt}
	batch.Movements = []models.StockMovement{{
		ID: id + "-m1", BatchID: id, BranchID: "B1", ProductID: "p1", MovementType: models.MovementIn,
		Quantity: len(serials), UnitCost: decimal.NewFromInt(1000), TotalCost: decimal.NewFromInt(int64(1000 * len(serials))),
		ReferenceType: models.ReferenceGoodsReceipt, ReferenceNumber: "INV-" + id, CreatedAt: receivedAt,
	}}
	for i, sn := range serials {
		batch.Serials = append(batch.Serials, models.SerialNumber{
			ID: id + "-s" + string(rune('a'+i)), BatchID: id, SerialNumber: sn, ProductID: "p1", BranchID: "B1",
			SupplierID: "s1", UnitCost: decimal.NewFromInt(1000), Status: models.SerialAvailable,
			InvoiceNumber: "INV-" + id, ReceivedAt: receivedAt,
		})
	}
	batch.Invoice = &models.SupplierInvoice{
		ID: id + "-inv", BatchID: id, InvoiceNumber: "INV-" + id, SupplierID: "s1", BranchID: "B1",
		InvoiceDate: receivedAt, DueDate: receivedAt.AddDate(0, 0, 30),
		Subtotal: decimal.NewFromInt(2000), TaxAmount: decimal.NewFromInt(140), TotalAmount: decimal.NewFromInt(2140),
		PaidAmount: decimal.Zero, Status: models.InvoicePending,
	}
	return batch
}

func TestCatalogQueries(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	products, err := s.ListActiveProducts(ctx, "B1")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "SOFA-01", products[0].Code)
	assert.True(t, products[0].CostPrice.Equal(decimal.NewFromInt(1000)))
	assert.True(t, products[0].IsActive)

	suppliers, err := s.ListActiveSuppliers(ctx, "B1")
	require.NoError(t, err)
	require.Len(t, suppliers, 1)
	assert.Equal(t, 30, suppliers[0].PaymentTerms)

	p, err := s.GetProduct(ctx, "p2")
	require.NoError(t, err)
	assert.False(t, p.IsActive)

	_, err = s.GetProduct(ctx, "nope")
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = s.GetSupplier(ctx, "nope")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCommitReceipt(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CommitReceipt(ctx, testBatch("b1", "SN-1", "SN-2")))

	serials, err := s.SerialsByBatch(ctx, "b1")
	require.NoError(t, err)
	require.Len(t, serials, 2)
	assert.Equal(t, models.SerialAvailable, serials[0].Status)
	assert.True(t, serials[0].ReceivedAt.Equal(receivedAt))

	inv, err := s.InvoiceByBatch(ctx, "b1")
	require.NoError(t, err)
	assert.True(t, inv.TotalAmount.Equal(decimal.NewFromInt(2140)))
	assert.True(t, inv.DueDate.Equal(receivedAt.AddDate(0, 0, 30)))

	movements, err := s.MovementsBetween(ctx, receivedAt.Add(-time.Hour), receivedAt.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, movements, 1)
	assert.Equal(t, 2, movements[0].Quantity)
	assert.True(t, movements[0].TotalCost.Equal(decimal.NewFromInt(2000)))

	movements, err = s.MovementsBetween(ctx, receivedAt.Add(time.Hour), receivedAt.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, movements)
}

func TestCommitReceiptRollsBack(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.CommitReceipt(ctx, testBatch("b1", "SN-1")))

	err := s.CommitReceipt(ctx, testBatch("b2", "SN-2", "SN-1"))
	var ce *models.CommitError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, models.StageSerials, ce.Stage)
	assert.True(t, ce.RolledBack)

	serials, err := s.SerialsByBatch(ctx, "b2")
	require.NoError(t, err)
	assert.Empty(t, serials)

	_, err = s.InvoiceByBatch(ctx, "b2")
	assert.ErrorIs(t, err, models.ErrNotFound)

	movements, err := s.MovementsBetween(ctx, receivedAt.Add(-time.Hour), receivedAt.Add(time.Hour))
	require.NoError(t, err)
	assert.Len(t, movements, 1)
}
