// Package documents renders printable goods receipt documents.
package documents

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const ruleWidth = 48

var printer = message.NewPrinter(language.Thai)

// Line is one product row of a receipt document.
type Line struct {
	Code     string
	Name     string
	Unit     string
	Quantity int
	UnitCost decimal.Decimal
	Total    decimal.Decimal
	Serials  []string
}

// Receipt is the data printed on a goods receipt.
type Receipt struct {
	Number        string
	BranchID      string
	ReceivedAt    time.Time
	SupplierName  string
	InvoiceNumber string
	DueDate       time.Time
	Notes         string
	Lines         []Line
	Subtotal      decimal.Decimal
	VATRate       decimal.Decimal
	Tax           decimal.Decimal
	Total         decimal.Decimal
}

// FormatMoney formats an amount with Thai digit grouping and two decimals.
func FormatMoney(d decimal.Decimal) string {
	return printer.Sprintf("%.2f", d.Round(2).InexactFloat64())
}

// FormatThaiDate formats t as dd/mm/yyyy in the Buddhist era.
func FormatThaiDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return fmt.Sprintf("%02d/%02d/%d", t.Day(), int(t.Month()), t.Year()+543)
}

// Render produces the plain-text receipt.
func Render(r Receipt) string {
	var b strings.Builder
	rule := strings.Repeat("-", ruleWidth)

	b.WriteString("ใบรับสินค้า / GOODS RECEIPT\n")
	fmt.Fprintf(&b, "เลขที่เอกสาร: %s\n", r.Number)
	fmt.Fprintf(&b, "สาขา: %s\n", r.BranchID)
	fmt.Fprintf(&b, "วันที่รับ: %s\n", FormatThaiDate(r.ReceivedAt))
	if r.SupplierName != "" {
		fmt.Fprintf(&b, "ผู้จำหน่าย: %s\n", r.SupplierName)
	}
	if r.InvoiceNumber != "" {
		fmt.Fprintf(&b, "เลขที่ใบแจ้งหนี้: %s\n", r.InvoiceNumber)
	}
	if !r.DueDate.IsZero() {
		fmt.Fprintf(&b, "ครบกำหนดชำระ: %s\n", FormatThaiDate(r.DueDate))
	}
	b.WriteString(rule + "\n")

	for i, l := range r.Lines {
		fmt.Fprintf(&b, "%d. %s %s\n", i+1, l.Code, l.Name)
		unit := l.Unit
		if unit == "" {
			unit = "ชิ้น"
		}
		fmt.Fprintf(&b, "   %s %s x %s = %s\n", printer.Sprintf("%d", l.Quantity), unit, FormatMoney(l.UnitCost), FormatMoney(l.Total))
		if len(l.Serials) > 0 {
			fmt.Fprintf(&b, "   S/N: %s\n", strings.Join(l.Serials, ", "))
		}
	}

	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "รวมเป็นเงิน: %s\n", FormatMoney(r.Subtotal))
	if r.VATRate.IsPositive() {
		fmt.Fprintf(&b, "ภาษีมูลค่าเพิ่ม %s%%: %s\n", r.VATRate.Mul(decimal.NewFromInt(100)).String(), FormatMoney(r.Tax))
	}
	fmt.Fprintf(&b, "ยอดสุทธิ: %s\n", FormatMoney(r.Total))
	if r.Notes != "" {
		fmt.Fprintf(&b, "หมายเหตุ: %s\n", r.Notes)
	}
	return b.String()
}
