package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType classifies stock movements.
type MovementType string

const (
	MovementIn       MovementType = "in"
	MovementOut      MovementType = "out"
	MovementAdjust   MovementType = "adjust"
	MovementTransfer MovementType = "transfer"
)

// ReferenceGoodsReceipt tags movements created by the receiving workflow.
const ReferenceGoodsReceipt = "goods_receipt"

// StockMovement records a change of on-hand quantity for one product.
type StockMovement struct {
	ID              string          `db:"id" json:"id"`
	BatchID         string          `db:"batch_id" json:"batch_id"`
	BranchID        string          `db:"branch_id" json:"branch_id"`
	ProductID       string          `db:"product_id" json:"product_id"`
	MovementType    MovementType    `db:"movement_type" json:"movement_type"`
	Quantity        int             `db:"quantity" json:"quantity"`
	UnitCost        decimal.Decimal `db:"unit_cost" json:"unit_cost"`
	TotalCost       decimal.Decimal `db:"total_cost" json:"total_cost"`
	ReferenceType   string          `db:"reference_type" json:"reference_type"`
	ReferenceNumber string          `db:"reference_number" json:"reference_number"`
	Notes           string          `db:"notes" json:"notes"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
}

// SerialStatus is the lifecycle state of one physical unit.
type SerialStatus string

const (
	SerialAvailable SerialStatus = "available"
	SerialSold      SerialStatus = "sold"
	SerialReserved  SerialStatus = "reserved"
	SerialClaimed   SerialStatus = "claimed"
)

// SerialNumber tags one received unit.
type SerialNumber struct {
	ID            string          `db:"id" json:"id"`
	BatchID       string          `db:"batch_id" json:"batch_id"`
	SerialNumber  string          `db:"serial_number" json:"serial_number"`
	ProductID     string          `db:"product_id" json:"product_id"`
	BranchID      string          `db:"branch_id" json:"branch_id"`
	SupplierID    string          `db:"supplier_id" json:"supplier_id"`
	UnitCost      decimal.Decimal `db:"unit_cost" json:"unit_cost"`
	Status        SerialStatus    `db:"status" json:"status"`
	InvoiceNumber string          `db:"invoice_number" json:"invoice_number"`
	ReceivedAt    time.Time       `db:"received_at" json:"received_at"`
}
