package sqlite

const schema = `
CREATE TABLE IF NOT EXISTS products (
	id            TEXT PRIMARY KEY,
	product_code  TEXT NOT NULL,
	name          TEXT NOT NULL,
	branch_id     TEXT NOT NULL,
	unit          TEXT NOT NULL DEFAULT '',
	cost_price    TEXT NOT NULL DEFAULT '0',
	selling_price TEXT NOT NULL DEFAULT '0',
	is_active     INTEGER NOT NULL DEFAULT 1,
	created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_products_branch ON products (branch_id, is_active);

CREATE TABLE IF NOT EXISTS suppliers (
	id             TEXT PRIMARY KEY,
	supplier_code  TEXT NOT NULL,
	supplier_name  TEXT NOT NULL,
	branch_id      TEXT NOT NULL,
	contact_person TEXT NOT NULL DEFAULT '',
	phone          TEXT NOT NULL DEFAULT '',
	tax_id         TEXT NOT NULL DEFAULT '',
	payment_terms  INTEGER NOT NULL DEFAULT 0,
	is_active      INTEGER NOT NULL DEFAULT 1,
	created_at     TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_suppliers_branch ON suppliers (branch_id, is_active);

CREATE TABLE IF NOT EXISTS stock_movements (
	id               TEXT PRIMARY KEY,
	batch_id         TEXT NOT NULL,
	branch_id        TEXT NOT NULL,
	product_id       TEXT NOT NULL REFERENCES products (id),
	movement_type    TEXT NOT NULL,
	quantity         INTEGER NOT NULL CHECK (quantity > 0),
	unit_cost        TEXT NOT NULL,
	total_cost       TEXT NOT NULL,
	reference_type   TEXT NOT NULL,
	reference_number TEXT NOT NULL DEFAULT '',
	notes            TEXT NOT NULL DEFAULT '',
	created_at       TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_stock_movements_created ON stock_movements (created_at);

CREATE TABLE IF NOT EXISTS product_serial_numbers (
	id             TEXT PRIMARY KEY,
	batch_id       TEXT NOT NULL,
	serial_number  TEXT NOT NULL UNIQUE,
	product_id     TEXT NOT NULL REFERENCES products (id),
	branch_id      TEXT NOT NULL,
	supplier_id    TEXT NOT NULL DEFAULT '',
	unit_cost      TEXT NOT NULL,
	status         TEXT NOT NULL,
	invoice_number TEXT NOT NULL DEFAULT '',
	received_at    TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS supplier_invoices (
	id             TEXT PRIMARY KEY,
	batch_id       TEXT NOT NULL,
	invoice_number TEXT NOT NULL,
	supplier_id    TEXT NOT NULL REFERENCES suppliers (id),
	branch_id      TEXT NOT NULL,
	invoice_date   TIMESTAMP NOT NULL,
	due_date       TIMESTAMP NOT NULL,
	subtotal       TEXT NOT NULL,
	tax_amount     TEXT NOT NULL,
	total_amount   TEXT NOT NULL,
	paid_amount    TEXT NOT NULL DEFAULT '0',
	status         TEXT NOT NULL,
	notes          TEXT NOT NULL DEFAULT '',
	UNIQUE (supplier_id, invoice_number)
);
`
