// Package supabase stores catalog and receipt data in Supabase tables through
// PostgREST. Each table insert is its own request, so a failed receipt commit
// is undone by deleting the batch's rows from the tables already written.
package supabase

import (
	"context"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/KanomTHX/flexi-furnish-hub-sub005/internal/domain/models"
	supabaseclient "github.com/KanomTHX/flexi-furnish-hub-sub005/pkg/clients/supabase"
)

const (
	productsTable  = "products"
	suppliersTable = "suppliers"
	movementsTable = "stock_movements"
	serialsTable   = "product_serial_numbers"
	invoicesTable  = "supplier_invoices"

	compensateTimeout = 30 * time.Second
)

// Store implements the catalog, receipt commit and movement queries.
type Store struct {
	client supabaseclient.Client
	logger *zap.Logger
}

// NewStore wraps a PostgREST client.
func NewStore(client supabaseclient.Client, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{client: client, logger: logger}
}

// ListActiveProducts returns the active products of a branch ordered by code.
func (s *Store) ListActiveProducts(ctx context.Context, branchID string) ([]models.Product, error) {
	var out []models.Product
	q := url.Values{
		"branch_id": {supabaseclient.Eq(branchID)},
		"is_active": {supabaseclient.Eq("true")},
		"order":     {"product_code.asc"},
	}
	if err := s.client.Select(ctx, productsTable, q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListActiveSuppliers returns the active suppliers of a branch ordered by name.
func (s *Store) ListActiveSuppliers(ctx context.Context, branchID string) ([]models.Supplier, error) {
	var out []models.Supplier
	q := url.Values{
		"branch_id": {supabaseclient.Eq(branchID)},
		"is_active": {supabaseclient.Eq("true")},
		"order":     {"supplier_name.asc"},
	}
	if err := s.client.Select(ctx, suppliersTable, q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetProduct loads one product.
func (s *Store) GetProduct(ctx context.Context, id string) (models.Product, error) {
	var out []models.Product
	if err := s.client.Select(ctx, productsTable, byID(id), &out); err != nil {
		return models.Product{}, err
	}
	if len(out) == 0 {
		return models.Product{}, models.ErrNotFound
	}
	return out[0], nil
}

// GetSupplier loads one supplier.
func (s *Store) GetSupplier(ctx context.Context, id string) (models.Supplier, error) {
	var out []models.Supplier
	if err := s.client.Select(ctx, suppliersTable, byID(id), &out); err != nil {
		return models.Supplier{}, err
	}
	if len(out) == 0 {
		return models.Supplier{}, models.ErrNotFound
	}
	return out[0], nil
}

// MovementsBetween returns movements created in [from, to).
func (s *Store) MovementsBetween(ctx context.Context, from, to time.Time) ([]models.StockMovement, error) {
	q := url.Values{}
	q.Add("created_at", "gte."+from.UTC().Format(time.RFC3339))
	q.Add("created_at", "lt."+to.UTC().Format(time.RFC3339))
	q.Set("order", "created_at.asc")

	var out []models.StockMovement
	if err := s.client.Select(ctx, movementsTable, q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type commitStep struct {
	stage models.CommitStage
	table string
	rows  any
}

// CommitReceipt inserts movements, serials and the invoice in that order. If
// an insert fails the batch's rows are deleted from the failing table and the
// tables already written, in reverse order.
func (s *Store) CommitReceipt(ctx context.Context, batch models.ReceiptBatch) error {
	steps := []commitStep{
		{stage: models.StageMovements, table: movementsTable, rows: batch.Movements},
		{stage: models.StageSerials, table: serialsTable, rows: batch.Serials},
	}
	if batch.Invoice != nil {
		steps = append(steps, commitStep{stage: models.StageInvoice, table: invoicesTable, rows: []models.SupplierInvoice{*batch.Invoice}})
	}

	var written []string
	for _, step := range steps {
		if err := s.client.Insert(ctx, step.table, step.rows); err != nil {
			// A failed insert may still have stored its rows (timeout after
			// the write), so its table is cleaned up too.
			rolledBack := s.compensate(ctx, batch.ID, append(written, step.table))
			return &models.CommitError{Stage: step.stage, RolledBack: rolledBack, Err: err}
		}
		written = append(written, step.table)
	}
	return nil
}

func (s *Store) compensate(ctx context.Context, batchID string, tables []string) bool {
	// Cleanup must run even when the request context is already cancelled.
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensateTimeout)
	defer cancel()

	ok := true
	filter := url.Values{"batch_id": {supabaseclient.Eq(batchID)}}
	for i := len(tables) - 1; i >= 0; i-- {
		if err := s.client.Delete(cctx, tables[i], filter); err != nil {
			ok = false
			s.logger.Error("receipt compensation failed",
				zap.String("batch_id", batchID),
				zap.String("table", tables[i]),
				zap.Error(err))
			continue
		}
		s.logger.Warn("receipt rows removed after failed commit", zap.String("batch_id", batchID), zap.String("table", tables[i]))
	}
	return ok
}

func byID(id string) url.Values {
	return url.Values{"id": {supabaseclient.Eq(id)}, "limit": {"1"}}
}

