// Package sqlite is the local SQL store for catalog reads and receipt
// commits. A receipt batch is written in a single transaction.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/KanomTHX/flexi-furnish-hub-sub005/internal/domain/models"
)

// Store implements the catalog, receipt commit and movement queries.
type Store struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// Open connects to the database at dsn and applies the schema.
func Open(ctx context.Context, dsn string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dsn, err)
	}
	// sqlite serializes writers; a single connection also keeps :memory: databases shared.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, logger: logger}
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Migrate creates missing tables.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Close releases the connection.
func (s *Store) Close() error {
	return s.db.Close()
}

const productColumns = `id, product_code, name, branch_id, unit, cost_price, selling_price, is_active, created_at`

const supplierColumns = `id, supplier_code, supplier_name, branch_id, contact_person, phone, tax_id, payment_terms, is_active, created_at`

// ListActiveProducts returns the active products of a branch ordered by code.
func (s *Store) ListActiveProducts(ctx context.Context, branchID string) ([]models.Product, error) {
	var out []models.Product
	q := `SELECT ` + productColumns + ` FROM products WHERE branch_id = ? AND is_active = 1 ORDER BY product_code`
	if err := s.db.SelectContext(ctx, &out, q, branchID); err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}
	return out, nil
}

// ListActiveSuppliers returns the active suppliers of a branch ordered by name.
func (s *Store) ListActiveSuppliers(ctx context.Context, branchID string) ([]models.Supplier, error) {
	var out []models.Supplier
	q := `SELECT ` + supplierColumns + ` FROM suppliers WHERE branch_id = ? AND is_active = 1 ORDER BY supplier_name`
	if err := s.db.SelectContext(ctx, &out, q, branchID); err != nil {
		return nil, fmt.Errorf("select suppliers: %w", err)
	}
	return out, nil
}

// GetProduct loads one product.
func (s *Store) GetProduct(ctx context.Context, id string) (models.Product, error) {
	var p models.Product
	err := s.db.GetContext(ctx, &p, `SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, models.ErrNotFound
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("get product %s: %w", id, err)
	}
	return p, nil
}

// GetSupplier loads one supplier.
func (s *Store) GetSupplier(ctx context.Context, id string) (models.Supplier, error) {
	var sup models.Supplier
	err := s.db.GetContext(ctx, &sup, `SELECT `+supplierColumns+` FROM suppliers WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Supplier{}, models.ErrNotFound
	}
	if err != nil {
		return models.Supplier{}, fmt.Errorf("get supplier %s: %w", id, err)
	}
	return sup, nil
}

// UpsertProduct inserts or replaces a product.
func (s *Store) UpsertProduct(ctx context.Context, p models.Product) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES (:id, :product_code, :name, :branch_id, :unit, :cost_price, :selling_price, :is_active, :created_at)
		ON CONFLICT (id) DO UPDATE SET
			product_code = excluded.product_code,
			name = excluded.name,
			branch_id = excluded.branch_id,
			unit = excluded.unit,
			cost_price = excluded.cost_price,
			selling_price = excluded.selling_price,
			is_active = excluded.is_active`, p)
	if err != nil {
		return fmt.Errorf("upsert product %s: %w", p.ID, err)
	}
	return nil
}

// UpsertSupplier inserts or replaces a supplier.
func (s *Store) UpsertSupplier(ctx context.Context, sup models.Supplier) error {
	if sup.CreatedAt.IsZero() {
		sup.CreatedAt = time.Now()
	}
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO suppliers (`+supplierColumns+`)
		VALUES (:id, :supplier_code, :supplier_name, :branch_id, :contact_person, :phone, :tax_id, :payment_terms, :is_active, :created_at)
		ON CONFLICT (id) DO UPDATE SET
			supplier_code = excluded.supplier_code,
			supplier_name = excluded.supplier_name,
			branch_id = excluded.branch_id,
			contact_person = excluded.contact_person,
			phone = excluded.phone,
			tax_id = excluded.tax_id,
			payment_terms = excluded.payment_terms,
			is_active = excluded.is_active`, sup)
	if err != nil {
		return fmt.Errorf("upsert supplier %s: %w", sup.ID, err)
	}
	return nil
}

// CommitReceipt writes movements, serials and the invoice of a batch in one
// transaction. On failure nothing is kept.
func (s *Store) CommitReceipt(ctx context.Context, batch models.ReceiptBatch) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin receipt transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertMovementsInTx(ctx, tx, batch.Movements); err != nil {
		return &models.CommitError{Stage: models.StageMovements, RolledBack: true, Err: err}
	}
	if err := insertSerialsInTx(ctx, tx, batch.Serials); err != nil {
		return &models.CommitError{Stage: models.StageSerials, RolledBack: true, Err: err}
	}
	if batch.Invoice != nil {
		if err := insertInvoiceInTx(ctx, tx, *batch.Invoice); err != nil {
			return &models.CommitError{Stage: models.StageInvoice, RolledBack: true, Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit receipt %s: %w", batch.ID, err)
	}

	s.logger.Debug("receipt batch stored",
		zap.String("batch_id", batch.ID),
		zap.Int("movements", len(batch.Movements)),
		zap.Int("serials", len(batch.Serials)),
		zap.Bool("invoice", batch.Invoice != nil))
	return nil
}

func insertMovementsInTx(ctx context.Context, tx *sqlx.Tx, movements []models.StockMovement) error {
	const q = `
		INSERT INTO stock_movements (
			id, batch_id, branch_id, product_id, movement_type, quantity,
			unit_cost, total_cost, reference_type, reference_number, notes, created_at
		) VALUES (
			:id, :batch_id, :branch_id, :product_id, :movement_type, :quantity,
			:unit_cost, :total_cost, :reference_type, :reference_number, :notes, :created_at
		)`
	for _, m := range movements {
		m.CreatedAt = m.CreatedAt.UTC()
		if _, err := tx.NamedExecContext(ctx, q, m); err != nil {
			return fmt.Errorf("insert movement for product %s: %w", m.ProductID, err)
		}
	}
	return nil
}

func insertSerialsInTx(ctx context.Context, tx *sqlx.Tx, serials []models.SerialNumber) error {
	const q = `
		INSERT INTO product_serial_numbers (
			id, batch_id, serial_number, product_id, branch_id, supplier_id,
			unit_cost, status, invoice_number, received_at
		) VALUES (
			:id, :batch_id, :serial_number, :product_id, :branch_id, :supplier_id,
			:unit_cost, :status, :invoice_number, :received_at
		)`
	for _, sn := range serials {
		sn.ReceivedAt = sn.ReceivedAt.UTC()
		if _, err := tx.NamedExecContext(ctx, q, sn); err != nil {
			return fmt.Errorf("insert serial %s: %w", sn.SerialNumber, err)
		}
	}
	return nil
}

func insertInvoiceInTx(ctx context.Context, tx *sqlx.Tx, inv models.SupplierInvoice) error {
	const q = `
		INSERT INTO supplier_invoices (
			id, batch_id, invoice_number, supplier_id, branch_id, invoice_date, due_date,
			subtotal, tax_amount, total_amount, paid_amount, status, notes
		) VALUES (
			:id, :batch_id, :invoice_number, :supplier_id, :branch_id, :invoice_date, :due_date,
			:subtotal, :tax_amount, :total_amount, :paid_amount, :status, :notes
		)`
	inv.InvoiceDate = inv.InvoiceDate.UTC()
	inv.DueDate = inv.DueDate.UTC()
	if _, err := tx.NamedExecContext(ctx, q, inv); err != nil {
		return fmt.Errorf("insert invoice %s: %w", inv.InvoiceNumber, err)
	}
	return nil
}

// MovementsBetween returns movements created in [from, to).
func (s *Store) MovementsBetween(ctx context.Context, from, to time.Time) ([]models.StockMovement, error) {
	var out []models.StockMovement
	const q = `
		SELECT id, batch_id, branch_id, product_id, movement_type, quantity, unit_cost, total_cost,
			reference_type, reference_number, notes, created_at
		FROM stock_movements
		WHERE created_at >= ? AND created_at < ?
		ORDER BY created_at, id`
	if err := s.db.SelectContext(ctx, &out, q, from.UTC(), to.UTC()); err != nil {
		return nil, fmt.Errorf("select movements: %w", err)
	}
	return out, nil
}

// SerialsByBatch returns the serial records of one receipt batch.
func (s *Store) SerialsByBatch(ctx context.Context, batchID string) ([]models.SerialNumber, error) {
	var out []models.SerialNumber
	const q = `
		SELECT id, batch_id, serial_number, product_id, branch_id, supplier_id, unit_cost,
			status, invoice_number, received_at
		FROM product_serial_numbers WHERE batch_id = ? ORDER BY serial_number`
	if err := s.db.SelectContext(ctx, &out, q, batchID); err != nil {
		return nil, fmt.Errorf("select serials: %w", err)
	}
	return out, nil
}

// InvoiceByBatch returns the supplier invoice of a batch.
func (s *Store) InvoiceByBatch(ctx context.Context, batchID string) (models.SupplierInvoice, error) {
	var inv models.SupplierInvoice
	const q = `
		SELECT id, batch_id, invoice_number, supplier_id, branch_id, invoice_date, due_date,
			subtotal, tax_amount, total_amount, paid_amount, status, notes
		FROM supplier_invoices WHERE batch_id = ?`
	err := s.db.GetContext(ctx, &inv, q, batchID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.SupplierInvoice{}, models.ErrNotFound
	}
	if err != nil {
		return models.SupplierInvoice{}, fmt.Errorf("get invoice for batch %s: %w", batchID, err)
	}
	return inv, nil
}
