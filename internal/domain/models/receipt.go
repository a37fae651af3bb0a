package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ReceiptTotals aggregates one goods receipt.
type ReceiptTotals struct {
	Lines    int             `json:"lines"`
	Units    int             `json:"units"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// ReceiptBatch is everything one submission writes to the store. All rows
// share BatchID so a partial write can be found and removed.
type ReceiptBatch struct {
	ID         string           `json:"id"`
	BranchID   string           `json:"branch_id"`
	ReceivedAt time.Time        `json:"received_at"`
	Movements  []StockMovement  `json:"movements"`
	Serials    []SerialNumber   `json:"serials"`
	Invoice    *SupplierInvoice `json:"invoice,omitempty"`
	Totals     ReceiptTotals    `json:"totals"`
}

// CommitStage names the insert a receipt commit was performing.
type CommitStage string

const (
	StageMovements CommitStage = "stock_movements"
	StageSerials   CommitStage = "serial_numbers"
	StageInvoice   CommitStage = "supplier_invoice"
)

// CommitError reports which insert of a receipt batch failed and whether the
// rows already written were removed again.
type CommitError struct {
	Stage      CommitStage
	RolledBack bool
	Err        error
}

func (e *CommitError) Error() string {
	state := "rolled back"
	if !e.RolledBack {
		state = "partially committed"
	}
	return fmt.Sprintf("commit %s failed (%s): %v", e.Stage, state, e.Err)
}

func (e *CommitError) Unwrap() error {
	return e.Err
}

// Draft is a persisted wizard snapshot.
type Draft struct {
	ID        string    `bson:"_id" json:"id"`
	BranchID  string    `bson:"branch_id" json:"branch_id"`
	Step      int       `bson:"step" json:"step"`
	Payload   []byte    `bson:"payload" json:"payload"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// ErrDraftNotFound is returned by draft stores for unknown ids.
var ErrDraftNotFound = errors.New("draft not found")

// ErrNotFound is returned by catalog lookups for unknown ids.
var ErrNotFound = errors.New("record not found")
