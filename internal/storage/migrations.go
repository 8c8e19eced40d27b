package storage

import (
	"database/sql"
	"fmt"
)

// schema is the DDL applied once on startup. Idempotent via IF NOT EXISTS.
//
// Two constraints back invariants the write path relies on:
//   - orders.order_number is UNIQUE: the generated display number is
//     timestamp+random and only probabilistically unique, so creation
//     regenerates and retries on conflict.
//   - payments.order_id is UNIQUE: one payment row per order, enforced by
//     the schema rather than by convention.
const schema = `
CREATE TABLE IF NOT EXISTS customers (
    id           TEXT PRIMARY KEY,
    full_name    TEXT NOT NULL,
    email        TEXT NOT NULL,
    phone_number TEXT NOT NULL,
    address      TEXT NOT NULL,
    city         TEXT NOT NULL,
    state        TEXT NOT NULL,
    zip_code     TEXT NOT NULL,
    created_at   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS products (
    id          TEXT PRIMARY KEY,
    title       TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    -- Mutated only by the conditional decrement during order creation.
    inventory   INTEGER NOT NULL DEFAULT 0,
    created_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS product_variants (
    id         TEXT PRIMARY KEY,
    product_id TEXT NOT NULL REFERENCES products(id),
    name       TEXT NOT NULL,
    price      REAL NOT NULL,
    image_url  TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_product_variants_product_id
    ON product_variants(product_id);

CREATE TABLE IF NOT EXISTS orders (
    id           TEXT PRIMARY KEY,
    order_number TEXT NOT NULL UNIQUE,
    status       TEXT NOT NULL,
    customer_id  TEXT NOT NULL REFERENCES customers(id),
    created_at   TEXT NOT NULL,
    updated_at   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS order_items (
    id         TEXT PRIMARY KEY,
    order_id   TEXT NOT NULL REFERENCES orders(id),
    product_id TEXT NOT NULL REFERENCES products(id),
    variant_id TEXT NOT NULL REFERENCES product_variants(id),
    quantity   INTEGER NOT NULL,
    -- Server-resolved catalog price at validation time.
    price      REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id);

CREATE TABLE IF NOT EXISTS payments (
    id         TEXT PRIMARY KEY,
    order_id   TEXT NOT NULL UNIQUE REFERENCES orders(id),
    subtotal   REAL NOT NULL,
    tax        REAL NOT NULL,
    shipping   REAL NOT NULL,
    total      REAL NOT NULL,
    status     TEXT NOT NULL,
    last_four  TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL
);
`

func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("storage: apply schema: %w", err)
	}
	return nil
}
