package documents

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatThaiDate(t *testing.T) {
	assert.Equal(t, "19/10/2569", FormatThaiDate(time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)))
	assert.Equal(t, "-", FormatThaiDate(time.Time{}))
}

func TestRender(t *testing.T) {
	r := Receipt{
		Number:        "GR-1",
		BranchID:      "BKK01",
		ReceivedAt:    time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		SupplierName:  "Siam Furniture",
		InvoiceNumber: "INV-42",
		Lines: []Line{{
			Code:     "SOFA",
			Name:     "โซฟา 3 ที่นั่ง",
			Quantity: 3,
			UnitCost: decimal.NewFromInt(1000),
			Total:    decimal.NewFromInt(3000),
			Serials:  []string{"S1", "S2", "S3"},
		}},
		Subtotal: decimal.NewFromInt(3000),
		VATRate:  decimal.RequireFromString("0.07"),
		Tax:      decimal.NewFromInt(210),
		Total:    decimal.NewFromInt(3210),
	}

	out := Render(r)

	assert.Contains(t, out, "เลขที่เอกสาร: GR-1")
	assert.Contains(t, out, "วันที่รับ: 05/01/2569")
	assert.Contains(t, out, "ผู้จำหน่าย: Siam Furniture")
	assert.Contains(t, out, "1. SOFA โซฟา 3 ที่นั่ง")
	assert.Contains(t, out, "3,000.00")
	assert.Contains(t, out, "S/N: S1, S2, S3")
	assert.Contains(t, out, "ภาษีมูลค่าเพิ่ม 7%")
	assert.Contains(t, out, "ยอดสุทธิ: 3,210.00")
	assert.NotContains(t, out, "ครบกำหนดชำระ")
}

func TestRenderWithoutVAT(t *testing.T) {
	out := Render(Receipt{Number: "GR-2", Subtotal: decimal.NewFromInt(5), Total: decimal.NewFromInt(5)})
	assert.NotContains(t, out, "ภาษีมูลค่าเพิ่ม")
	assert.Contains(t, out, "ยอดสุทธิ: 5.00")
}
