package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus tracks settlement of a supplier invoice.
type InvoiceStatus string

const (
	InvoicePending InvoiceStatus = "pending"
	InvoicePartial InvoiceStatus = "partial"
	InvoicePaid    InvoiceStatus = "paid"
)

// SupplierInvoice is an accounts-payable bill raised from a goods receipt.
type SupplierInvoice struct {
	ID            string          `db:"id" json:"id"`
	BatchID       string          `db:"batch_id" json:"batch_id"`
	InvoiceNumber string          `db:"invoice_number" json:"invoice_number"`
	SupplierID    string          `db:"supplier_id" json:"supplier_id"`
	BranchID      string          `db:"branch_id" json:"branch_id"`
	InvoiceDate   time.Time       `db:"invoice_date" json:"invoice_date"`
	DueDate       time.Time       `db:"due_date" json:"due_date"`
	Subtotal      decimal.Decimal `db:"subtotal" json:"subtotal"`
	TaxAmount     decimal.Decimal `db:"tax_amount" json:"tax_amount"`
	TotalAmount   decimal.Decimal `db:"total_amount" json:"total_amount"`
	PaidAmount    decimal.Decimal `db:"paid_amount" json:"paid_amount"`
	Status        InvoiceStatus   `db:"status" json:"status"`
	Notes         string          `db:"notes" json:"notes"`
}
