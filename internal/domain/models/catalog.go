package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a sellable item stocked by a branch.
type Product struct {
	ID           string          `db:"id" json:"id"`
	Code         string          `db:"product_code" json:"product_code"`
	Name         string          `db:"name" json:"name"`
	BranchID     string          `db:"branch_id" json:"branch_id"`
	Unit         string          `db:"unit" json:"unit"`
	CostPrice    decimal.Decimal `db:"cost_price" json:"cost_price"`
	SellingPrice decimal.Decimal `db:"selling_price" json:"selling_price"`
	IsActive     bool            `db:"is_active" json:"is_active"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
}

// SeedCost returns the unit cost a new receive line starts from: the stored
// cost price, or the selling price when no cost has been recorded.
func (p Product) SeedCost() decimal.Decimal {
	if p.CostPrice.IsPositive() {
		return p.CostPrice
	}
	return p.SellingPrice
}

// Supplier is a vendor goods are received from.
type Supplier struct {
	ID           string    `db:"id" json:"id"`
	Code         string    `db:"supplier_code" json:"supplier_code"`
	Name         string    `db:"supplier_name" json:"supplier_name"`
	BranchID     string    `db:"branch_id" json:"branch_id"`
	ContactName  string    `db:"contact_person" json:"contact_person"`
	Phone        string    `db:"phone" json:"phone"`
	TaxID        string    `db:"tax_id" json:"tax_id"`
	PaymentTerms int       `db:"payment_terms" json:"payment_terms"` // days
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
