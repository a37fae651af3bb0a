package receiving

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/KanomTHX/flexi-furnish-hub-sub005/internal/domain/models"
	"github.com/KanomTHX/flexi-furnish-hub-sub005/internal/service/documents"
	"github.com/KanomTHX/flexi-furnish-hub-sub005/internal/service/serials"
)

// DraftStore persists wizard snapshots between requests.
type DraftStore interface {
	SaveDraft(ctx context.Context, draft models.Draft) error
	LoadDraft(ctx context.Context, id string) (models.Draft, error)
	DeleteDraft(ctx context.Context, id string) error
}

// Catalog reads the branch scoped products and suppliers.
type Catalog interface {
	ListActiveProducts(ctx context.Context, branchID string) ([]models.Product, error)
	ListActiveSuppliers(ctx context.Context, branchID string) ([]models.Supplier, error)
	GetProduct(ctx context.Context, id string) (models.Product, error)
	GetSupplier(ctx context.Context, id string) (models.Supplier, error)
}

// Committer writes a receipt batch to the store.
type Committer interface {
	CommitReceipt(ctx context.Context, batch models.ReceiptBatch) error
}

// CatalogView is what the product and supplier pickers show.
type CatalogView struct {
	Products  []models.Product  `json:"products"`
	Suppliers []models.Supplier `json:"suppliers"`
}

// DetailsPatch updates receipt header fields; nil fields are left alone.
type DetailsPatch struct {
	BranchID      *string    `json:"branch_id"`
	ReceivedAt    *time.Time `json:"received_at"`
	InvoiceNumber *string    `json:"invoice_number"`
	Notes         *string    `json:"notes"`
}

// Service runs goods receipt drafts: it restores the wizard from the draft
// store, applies one action and saves it back.
type Service struct {
	drafts    DraftStore
	catalog   Catalog
	committer Committer
	vatRate   decimal.Decimal
	logger    *zap.Logger
	now       func() time.Time
	newID     func() string
	generator SerialGenerator

	mu        sync.Mutex
	locks     map[string]*draftLock
	inflight  map[string]struct{}
	submitted map[string]string
}

type draftLock struct {
	mu   sync.Mutex
	refs int
}

// NewService wires the receiving service.
func NewService(drafts DraftStore, catalog Catalog, committer Committer, vatRate decimal.Decimal, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		drafts:    drafts,
		catalog:   catalog,
		committer: committer,
		vatRate:   vatRate,
		logger:    logger,
		now:       time.Now,
		newID:     uuid.NewString,
		locks:     make(map[string]*draftLock),
		inflight:  make(map[string]struct{}),
		submitted: make(map[string]string),
	}
	s.generator = serials.NewGenerator(serials.WithClock(func() time.Time { return s.now() }))
	return s
}

// Start opens a new draft for a branch.
func (s *Service) Start(ctx context.Context, branchID string) (Snapshot, error) {
	w := NewWizard(s.newID(), s.wizardOptions()...)
	w.SetBranch(branchID)

	snap := w.Snapshot()
	if err := s.save(ctx, snap); err != nil {
		return Snapshot{}, err
	}
	s.logger.Info("receipt draft started", zap.String("draft_id", snap.ID), zap.String("branch_id", branchID))
	return snap, nil
}

// Get returns the current state of a draft.
func (s *Service) Get(ctx context.Context, id string) (Snapshot, error) {
	w, err := s.load(ctx, id)
	if err != nil {
		return Snapshot{}, err
	}
	return w.Snapshot(), nil
}

// Catalog loads the active products and suppliers of a branch concurrently.
func (s *Service) Catalog(ctx context.Context, branchID string) (CatalogView, error) {
	if branchID == "" {
		return CatalogView{}, invalid(StepBasicInfo, ErrBranchRequired, "")
	}

	var view CatalogView
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		products, err := s.catalog.ListActiveProducts(gctx, branchID)
		if err != nil {
			return fmt.Errorf("list products for branch %s: %w", branchID, err)
		}
		view.Products = products
		return nil
	})
	g.Go(func() error {
		suppliers, err := s.catalog.ListActiveSuppliers(gctx, branchID)
		if err != nil {
			return fmt.Errorf("list suppliers for branch %s: %w", branchID, err)
		}
		view.Suppliers = suppliers
		return nil
	})
	if err := g.Wait(); err != nil {
		return CatalogView{}, err
	}
	return view, nil
}

// AddProduct adds one unit of a catalog product to the draft.
func (s *Service) AddProduct(ctx context.Context, id, productID string) (Snapshot, error) {
	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load product %s: %w", productID, err)
	}
	return s.mutate(ctx, id, func(w *Wizard) error {
		return w.AddProduct(product)
	})
}

// UpdateItem applies a cost and a quantity change to one line in a single
// save. The cost is applied first, so a quantity of zero or less still
// removes the line. Either change failing leaves the draft untouched.
func (s *Service) UpdateItem(ctx context.Context, id string, index int, qty *int, cost *decimal.Decimal) (Snapshot, error) {
	return s.mutate(ctx, id, func(w *Wizard) error {
		if cost != nil {
			if err := w.UpdateUnitCost(index, *cost); err != nil {
				return err
			}
		}
		if qty != nil {
			return w.UpdateQuantity(index, *qty)
		}
		return nil
	})
}

// RemoveItem deletes a line.
func (s *Service) RemoveItem(ctx context.Context, id string, index int) (Snapshot, error) {
	return s.mutate(ctx, id, func(w *Wizard) error {
		return w.RemoveItem(index)
	})
}

// SelectSupplier binds the draft to a supplier.
func (s *Service) SelectSupplier(ctx context.Context, id, supplierID string) (Snapshot, error) {
	supplier, err := s.catalog.GetSupplier(ctx, supplierID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load supplier %s: %w", supplierID, err)
	}
	return s.mutate(ctx, id, func(w *Wizard) error {
		return w.SelectSupplier(supplier)
	})
}

// UpdateDetails applies header changes.
func (s *Service) UpdateDetails(ctx context.Context, id string, patch DetailsPatch) (Snapshot, error) {
	return s.mutate(ctx, id, func(w *Wizard) error {
		if patch.BranchID != nil {
			w.SetBranch(*patch.BranchID)
		}
		if patch.ReceivedAt != nil {
			w.SetReceivedAt(*patch.ReceivedAt)
		}
		if patch.InvoiceNumber != nil {
			w.SetInvoiceNumber(*patch.InvoiceNumber)
		}
		if patch.Notes != nil {
			w.SetNotes(*patch.Notes)
		}
		return nil
	})
}

// Advance moves the draft to its next step.
func (s *Service) Advance(ctx context.Context, id string) (Snapshot, error) {
	return s.mutate(ctx, id, func(w *Wizard) error {
		return w.Advance()
	})
}

// Retreat moves the draft to its previous step.
func (s *Service) Retreat(ctx context.Context, id string) (Snapshot, error) {
	return s.mutate(ctx, id, func(w *Wizard) error {
		w.Retreat()
		return nil
	})
}

// Reset clears the draft back to the first step.
func (s *Service) Reset(ctx context.Context, id string) (Snapshot, error) {
	return s.mutate(ctx, id, func(w *Wizard) error {
		w.Reset()
		return nil
	})
}

// Discard drops an unsubmitted draft.
func (s *Service) Discard(ctx context.Context, id string) error {
	unlock := s.lockDraft(id)
	defer unlock()

	if err := s.checkWritable(id); err != nil {
		return err
	}
	w, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if w.Submitted() {
		return ErrAlreadySubmitted
	}
	if err := s.drafts.DeleteDraft(ctx, id); err != nil {
		return fmt.Errorf("delete draft %s: %w", id, err)
	}
	s.logger.Info("receipt draft discarded", zap.String("draft_id", id))
	return nil
}

// Submit commits a final-step draft. Concurrent submissions of the same draft
// are rejected while one is in flight, and a committed draft cannot be
// submitted again.
func (s *Service) Submit(ctx context.Context, id string) (models.ReceiptBatch, error) {
	unlock := s.lockDraft(id)
	w, batch, err := s.prepareSubmit(ctx, id)
	if err != nil {
		unlock()
		return models.ReceiptBatch{}, err
	}
	s.mu.Lock()
	s.inflight[id] = struct{}{}
	s.mu.Unlock()
	unlock()

	commitErr := s.committer.CommitReceipt(ctx, batch)

	unlock = s.lockDraft(id)
	defer unlock()
	s.mu.Lock()
	delete(s.inflight, id)
	s.mu.Unlock()

	if commitErr != nil {
		fields := []zap.Field{zap.String("draft_id", id), zap.String("batch_id", batch.ID), zap.Error(commitErr)}
		var ce *models.CommitError
		if errors.As(commitErr, &ce) {
			fields = append(fields, zap.String("stage", string(ce.Stage)), zap.Bool("rolled_back", ce.RolledBack))
		}
		s.logger.Error("receipt commit failed", fields...)
		return models.ReceiptBatch{}, fmt.Errorf("submit receipt %s: %w", id, commitErr)
	}

	// A persisted submitted draft guards itself on load. Only a draft that
	// could not be saved needs the in-memory marker.
	w.markSubmitted(batch.ID)
	if err := s.save(ctx, w.Snapshot()); err != nil {
		s.mu.Lock()
		s.submitted[id] = batch.ID
		s.mu.Unlock()
		s.logger.Error("receipt committed but draft not updated", zap.String("draft_id", id), zap.String("batch_id", batch.ID), zap.Error(err))
	}

	s.logger.Info("receipt committed",
		zap.String("draft_id", id),
		zap.String("batch_id", batch.ID),
		zap.String("branch_id", batch.BranchID),
		zap.Int("lines", batch.Totals.Lines),
		zap.Int("units", batch.Totals.Units),
		zap.String("total", batch.Totals.Total.StringFixed(2)))
	return batch, nil
}

func (s *Service) prepareSubmit(ctx context.Context, id string) (*Wizard, models.ReceiptBatch, error) {
	if err := s.checkWritable(id); err != nil {
		return nil, models.ReceiptBatch{}, err
	}
	w, err := s.load(ctx, id)
	if err != nil {
		return nil, models.ReceiptBatch{}, err
	}
	if w.Submitted() {
		return nil, models.ReceiptBatch{}, ErrAlreadySubmitted
	}
	batch, err := BuildBatch(w.Snapshot(), BatchOptions{
		BatchID: s.newID(),
		VATRate: s.vatRate,
		Now:     s.now(),
		NewID:   s.newID,
	})
	if err != nil {
		return nil, models.ReceiptBatch{}, err
	}
	return w, batch, nil
}

// Document renders the printable receipt of a final-step or submitted draft.
func (s *Service) Document(ctx context.Context, id string) (string, error) {
	w, err := s.load(ctx, id)
	if err != nil {
		return "", err
	}
	if w.Current() != LastStep && !w.Submitted() {
		return "", ErrNotPrintable
	}
	return documents.Render(s.receiptDocument(w.Snapshot())), nil
}

func (s *Service) receiptDocument(snap Snapshot) documents.Receipt {
	d := snap.Details
	doc := documents.Receipt{
		Number:        snap.ID,
		BranchID:      d.BranchID,
		ReceivedAt:    d.ReceivedAt,
		SupplierName:  d.SupplierName,
		InvoiceNumber: d.InvoiceNumber,
		Notes:         d.Notes,
		VATRate:       s.vatRate,
	}
	if snap.BatchID != "" {
		doc.Number = snap.BatchID
	}
	if d.SupplierID != "" && d.PaymentTerms > 0 {
		doc.DueDate = d.ReceivedAt.AddDate(0, 0, d.PaymentTerms)
	}

	subtotal := decimal.Zero
	for _, it := range snap.Items {
		doc.Lines = append(doc.Lines, documents.Line{
			Code:     it.ProductCode,
			Name:     it.ProductName,
			Unit:     it.Unit,
			Quantity: it.Quantity,
			UnitCost: it.UnitCost,
			Total:    it.TotalCost,
			Serials:  it.Serials,
		})
		subtotal = subtotal.Add(it.TotalCost)
	}
	doc.Subtotal = subtotal
	doc.Tax = subtotal.Mul(s.vatRate).Round(2)
	doc.Total = subtotal.Add(doc.Tax)
	return doc
}

func (s *Service) mutate(ctx context.Context, id string, fn func(w *Wizard) error) (Snapshot, error) {
	unlock := s.lockDraft(id)
	defer unlock()

	if err := s.checkWritable(id); err != nil {
		return Snapshot{}, err
	}
	w, err := s.load(ctx, id)
	if err != nil {
		return Snapshot{}, err
	}
	if w.Submitted() {
		return Snapshot{}, ErrAlreadySubmitted
	}
	if err := fn(w); err != nil {
		return Snapshot{}, err
	}

	snap := w.Snapshot()
	if err := s.save(ctx, snap); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// lockDraft serialises work on one draft. s.mu only guards the maps, so store
// I/O on one draft never waits on another.
func (s *Service) lockDraft(id string) func() {
	s.mu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &draftLock{}
		s.locks[id] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, id)
		}
		s.mu.Unlock()
	}
}

func (s *Service) checkWritable(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[id]; busy {
		return ErrSubmissionInFlight
	}
	if _, done := s.submitted[id]; done {
		return ErrAlreadySubmitted
	}
	return nil
}

func (s *Service) load(ctx context.Context, id string) (*Wizard, error) {
	draft, err := s.drafts.LoadDraft(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load draft %s: %w", id, err)
	}
	snap, err := DecodeDraft(draft)
	if err != nil {
		return nil, err
	}
	return Restore(snap, s.wizardOptions()...)
}

func (s *Service) save(ctx context.Context, snap Snapshot) error {
	draft, err := EncodeDraft(snap, s.now())
	if err != nil {
		return err
	}
	if err := s.drafts.SaveDraft(ctx, draft); err != nil {
		return fmt.Errorf("save draft %s: %w", snap.ID, err)
	}
	return nil
}

func (s *Service) wizardOptions() []Option {
	return []Option{WithClock(s.now), WithSerialGenerator(s.generator)}
}
