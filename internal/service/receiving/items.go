package receiving

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/KanomTHX/flexi-furnish-hub-sub005/internal/domain/models"
)

// SerialGenerator produces serial numbers for n units of a product.
type SerialGenerator interface {
	GenerateN(productCode string, n int) []string
}

// ReceiveItem is one product line of a goods receipt.
type ReceiveItem struct {
	ProductID   string          `json:"product_id"`
	ProductCode string          `json:"product_code"`
	ProductName string          `json:"product_name"`
	Unit        string          `json:"unit,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	TotalCost   decimal.Decimal `json:"total_cost"`
	Serials     []string        `json:"serials"`
}

func (it *ReceiveItem) recompute() {
	it.TotalCost = it.UnitCost.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// ItemList is the ordered working list of products to receive. Once serials
// have been generated every quantity change regenerates the affected line so
// its serial count keeps matching its quantity.
type ItemList struct {
	items            []ReceiveItem
	serialsGenerated bool
	generator        SerialGenerator
}

// NewItemList returns an empty list using gen for serial numbers.
func NewItemList(gen SerialGenerator) *ItemList {
	return &ItemList{generator: gen}
}

// Len returns the number of lines.
func (l *ItemList) Len() int {
	return len(l.items)
}

// Items returns a copy of the lines.
func (l *ItemList) Items() []ReceiveItem {
	out := make([]ReceiveItem, len(l.items))
	for i, it := range l.items {
		it.Serials = append([]string(nil), it.Serials...)
		out[i] = it
	}
	return out
}

// SerialsGenerated reports whether serials have been generated for the list.
func (l *ItemList) SerialsGenerated() bool {
	return l.serialsGenerated
}

// Add appends product with quantity 1, or bumps the quantity of an existing
// line for the same product.
func (l *ItemList) Add(p models.Product) {
	for i := range l.items {
		if l.items[i].ProductID == p.ID {
			l.setQuantity(i, l.items[i].Quantity+1)
			return
		}
	}

	item := ReceiveItem{
		ProductID:   p.ID,
		ProductCode: p.Code,
		ProductName: p.Name,
		Unit:        p.Unit,
		Quantity:    1,
		UnitCost:    p.SeedCost(),
	}
	item.recompute()
	if l.serialsGenerated {
		item.Serials = l.generator.GenerateN(item.ProductCode, item.Quantity)
	}
	l.items = append(l.items, item)
}

// UpdateQuantity sets the quantity of line i. A quantity of zero or less
// removes the line.
func (l *ItemList) UpdateQuantity(i, qty int) error {
	if err := l.check(i); err != nil {
		return err
	}
	if qty <= 0 {
		l.removeAt(i)
		return nil
	}
	l.setQuantity(i, qty)
	return nil
}

// UpdateUnitCost sets the unit cost of line i.
func (l *ItemList) UpdateUnitCost(i int, cost decimal.Decimal) error {
	if err := l.check(i); err != nil {
		return err
	}
	if cost.IsNegative() {
		return ErrNegativeCost
	}
	l.items[i].UnitCost = cost
	l.items[i].recompute()
	return nil
}

// Remove deletes line i.
func (l *ItemList) Remove(i int) error {
	if err := l.check(i); err != nil {
		return err
	}
	l.removeAt(i)
	return nil
}

// GenerateSerials replaces the serials of every line.
func (l *ItemList) GenerateSerials() {
	for i := range l.items {
		l.items[i].Serials = l.generator.GenerateN(l.items[i].ProductCode, l.items[i].Quantity)
	}
	l.serialsGenerated = true
}

// Reset drops every line.
func (l *ItemList) Reset() {
	l.items = nil
	l.serialsGenerated = false
}

// Subtotal sums the line totals.
func (l *ItemList) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range l.items {
		total = total.Add(it.TotalCost)
	}
	return total
}

// Units sums the line quantities.
func (l *ItemList) Units() int {
	n := 0
	for _, it := range l.items {
		n += it.Quantity
	}
	return n
}

func (l *ItemList) setQuantity(i, qty int) {
	it := &l.items[i]
	it.Quantity = qty
	it.recompute()
	if l.serialsGenerated {
		it.Serials = l.generator.GenerateN(it.ProductCode, qty)
	}
}

func (l *ItemList) removeAt(i int) {
	l.items = append(l.items[:i], l.items[i+1:]...)
}

func (l *ItemList) check(i int) error {
	if i < 0 || i >= len(l.items) {
		return fmt.Errorf("%w: index %d", ErrItemNotFound, i)
	}
	return nil
}
