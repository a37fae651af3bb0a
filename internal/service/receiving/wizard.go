package receiving

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/KanomTHX/flexi-furnish-hub-sub005/internal/domain/models"
	"github.com/KanomTHX/flexi-furnish-hub-sub005/internal/service/serials"
)

// Details holds the header fields of a goods receipt.
type Details struct {
	BranchID      string    `json:"branch_id"`
	ReceivedAt    time.Time `json:"received_at"`
	SupplierID    string    `json:"supplier_id,omitempty"`
	SupplierName  string    `json:"supplier_name,omitempty"`
	PaymentTerms  int       `json:"payment_terms,omitempty"`
	InvoiceNumber string    `json:"invoice_number,omitempty"`
	Notes         string    `json:"notes,omitempty"`
}

// Wizard is the goods receipt state machine: six ordered steps, exactly one
// active, moved forward only after the current step validates.
type Wizard struct {
	id          string
	steps       []WorkflowStep
	current     Step
	details     Details
	items       *ItemList
	createdAt   time.Time
	submittedAt time.Time
	batchID     string
	now         func() time.Time
}

// Option customizes a Wizard.
type Option func(*wizardOptions)

type wizardOptions struct {
	generator SerialGenerator
	now       func() time.Time
}

// WithSerialGenerator sets the generator used on entering the serial step.
func WithSerialGenerator(gen SerialGenerator) Option {
	return func(o *wizardOptions) {
		if gen != nil {
			o.generator = gen
		}
	}
}

// WithClock overrides the wizard clock.
func WithClock(now func() time.Time) Option {
	return func(o *wizardOptions) {
		if now != nil {
			o.now = now
		}
	}
}

func buildOptions(opts []Option) wizardOptions {
	o := wizardOptions{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if o.generator == nil {
		o.generator = serials.NewGenerator(serials.WithClock(o.now))
	}
	return o
}

// NewWizard starts a workflow at the basic info step.
func NewWizard(id string, opts ...Option) *Wizard {
	o := buildOptions(opts)
	now := o.now()
	return &Wizard{
		id:        id,
		steps:     seedSteps(),
		current:   FirstStep,
		details:   Details{ReceivedAt: now},
		items:     NewItemList(o.generator),
		createdAt: now,
		now:       o.now,
	}
}

// ID returns the draft id.
func (w *Wizard) ID() string { return w.id }

// Current returns the active step.
func (w *Wizard) Current() Step { return w.current }

// Details returns the receipt header.
func (w *Wizard) Details() Details { return w.details }

// Items returns a copy of the product lines.
func (w *Wizard) Items() []ReceiveItem { return w.items.Items() }

// Submitted reports whether the receipt was committed.
func (w *Wizard) Submitted() bool { return !w.submittedAt.IsZero() }

// Steps returns a copy of the progress markers.
func (w *Wizard) Steps() []WorkflowStep {
	return append([]WorkflowStep(nil), w.steps...)
}

// SetBranch selects the receiving branch. Changing the branch clears lines
// and supplier since both are branch scoped.
func (w *Wizard) SetBranch(branchID string) {
	branchID = strings.TrimSpace(branchID)
	if branchID == w.details.BranchID {
		return
	}
	if w.details.BranchID != "" {
		w.items.Reset()
		w.clearSupplier()
	}
	w.details.BranchID = branchID
}

// SetReceivedAt sets the receipt date.
func (w *Wizard) SetReceivedAt(t time.Time) {
	if !t.IsZero() {
		w.details.ReceivedAt = t
	}
}

// SetInvoiceNumber sets the supplier invoice number.
func (w *Wizard) SetInvoiceNumber(no string) {
	w.details.InvoiceNumber = strings.TrimSpace(no)
}

// SetNotes sets free-form notes.
func (w *Wizard) SetNotes(notes string) {
	w.details.Notes = strings.TrimSpace(notes)
}

// SelectSupplier binds the receipt to a supplier of the same branch.
func (w *Wizard) SelectSupplier(s models.Supplier) error {
	if !s.IsActive {
		return ErrInactiveCatalogItem
	}
	if w.details.BranchID != "" && s.BranchID != "" && s.BranchID != w.details.BranchID {
		return ErrSupplierBranch
	}
	w.details.SupplierID = s.ID
	w.details.SupplierName = s.Name
	w.details.PaymentTerms = s.PaymentTerms
	return nil
}

// AddProduct adds one unit of p to the receipt.
func (w *Wizard) AddProduct(p models.Product) error {
	if !p.IsActive {
		return ErrInactiveCatalogItem
	}
	if w.details.BranchID != "" && p.BranchID != "" && p.BranchID != w.details.BranchID {
		return ErrProductBranch
	}
	w.items.Add(p)
	return nil
}

// UpdateQuantity sets the quantity of line i; zero or less removes it.
func (w *Wizard) UpdateQuantity(i, qty int) error {
	return w.items.UpdateQuantity(i, qty)
}

// UpdateUnitCost sets the unit cost of line i.
func (w *Wizard) UpdateUnitCost(i int, cost decimal.Decimal) error {
	return w.items.UpdateUnitCost(i, cost)
}

// RemoveItem deletes line i.
func (w *Wizard) RemoveItem(i int) error {
	return w.items.Remove(i)
}

// Reset returns the wizard to its initial state, keeping the id.
func (w *Wizard) Reset() {
	w.steps = seedSteps()
	w.current = FirstStep
	w.details = Details{ReceivedAt: w.now()}
	w.items.Reset()
}

// Advance validates the active step and moves to the next one. It does
// nothing on the last step.
func (w *Wizard) Advance() error {
	if w.current >= LastStep {
		return nil
	}
	if err := w.validate(w.current); err != nil {
		return err
	}

	next := w.current + 1
	w.steps[w.current-1].Completed = true
	w.steps[w.current-1].Active = false
	w.steps[next-1].Active = true
	w.current = next

	switch next {
	case StepSerialNumbers:
		w.items.GenerateSerials()
	case StepSupplierBinding:
		if w.details.InvoiceNumber == "" {
			w.details.InvoiceNumber = w.autoInvoiceNumber()
		}
	}
	return nil
}

// Retreat moves back one step, clearing the previous step's completion. It
// does nothing on the first step.
func (w *Wizard) Retreat() {
	if w.current <= FirstStep {
		return
	}
	prev := w.current - 1
	w.steps[w.current-1].Active = false
	w.steps[prev-1].Active = true
	w.steps[prev-1].Completed = false
	w.current = prev
}

func (w *Wizard) validate(step Step) error {
	switch step {
	case StepBasicInfo:
		if w.details.BranchID == "" {
			return invalid(step, ErrBranchRequired, "")
		}
	case StepProductSelection:
		if w.items.Len() == 0 {
			return invalid(step, ErrNoItems, "")
		}
	case StepQuantityPricing:
		if w.items.Len() == 0 {
			return invalid(step, ErrNoItems, "")
		}
		for _, it := range w.items.items {
			if !it.UnitCost.IsPositive() {
				return invalid(step, ErrInvalidUnitCost, it.ProductCode)
			}
		}
	case StepSerialNumbers:
		for _, it := range w.items.items {
			if len(it.Serials) != it.Quantity {
				return invalid(step, ErrSerialMismatch,
					fmt.Sprintf("%s has %d serials for %d units", it.ProductCode, len(it.Serials), it.Quantity))
			}
		}
	case StepSupplierBinding:
		if w.details.SupplierID == "" {
			return invalid(step, ErrSupplierRequired, "")
		}
	}
	return nil
}

func (w *Wizard) clearSupplier() {
	w.details.SupplierID = ""
	w.details.SupplierName = ""
	w.details.PaymentTerms = 0
}

func (w *Wizard) autoInvoiceNumber() string {
	return "INV-" + strconv.FormatInt(w.now().UnixMilli(), 10)
}

func (w *Wizard) markSubmitted(batchID string) {
	w.batchID = batchID
	w.submittedAt = w.now()
}
