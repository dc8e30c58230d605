package mysqlstore

import (
	"context"
	"database/sql"
)

var schema = []string{`
CREATE TABLE IF NOT EXISTS orders (
  id               VARCHAR(64)   PRIMARY KEY,
  order_number     VARCHAR(64)   NOT NULL,
  user_id          VARCHAR(64)   NULL,
  status           VARCHAR(16)   NOT NULL,
  payment_status   VARCHAR(16)   NOT NULL,
  total_amount     DECIMAL(15,2) NOT NULL,
  subtotal         DECIMAL(15,2) NOT NULL DEFAULT 0,
  tax_amount       DECIMAL(15,2) NOT NULL DEFAULT 0,
  shipping_amount  DECIMAL(15,2) NOT NULL DEFAULT 0,
  discount_amount  DECIMAL(15,2) NOT NULL DEFAULT 0,
  coupon_code      VARCHAR(64)   NULL,
  payment_method   VARCHAR(32)   NULL,
  shipping_address JSON          NULL,
  admin_notes      JSON          NULL,
  created_at       DATETIME(6)   NOT NULL,
  updated_at       DATETIME(6)   NOT NULL,
  UNIQUE KEY (order_number),
  INDEX (user_id),
  INDEX (created_at)
)`, `
CREATE TABLE IF NOT EXISTS order_items (
  id           VARCHAR(64)   PRIMARY KEY,
  order_id     VARCHAR(64)   NOT NULL,
  product_id   VARCHAR(64)   NOT NULL,
  product_name VARCHAR(255)  NOT NULL,
  quantity     INT           NOT NULL,
  unit_price   DECIMAL(15,2) NOT NULL,
  INDEX (order_id)
)`, `
CREATE TABLE IF NOT EXISTS payments (
  id                   VARCHAR(64)   PRIMARY KEY,
  order_id             VARCHAR(64)   NOT NULL,
  payment_method       VARCHAR(32)   NOT NULL,
  provider             VARCHAR(32)   NOT NULL,
  transaction_id       VARCHAR(128)  NULL,
  amount               DECIMAL(15,2) NOT NULL,
  currency             CHAR(3)       NOT NULL,
  status               VARCHAR(16)   NOT NULL,
  gateway_response     JSON          NULL,
  refund_of_payment_id VARCHAR(64)   NULL,
  refunded_amount      DECIMAL(15,2) NOT NULL DEFAULT 0,
  created_at           DATETIME(6)   NOT NULL,
  processed_at         DATETIME(6)   NULL,
  updated_at           DATETIME(6)   NOT NULL,
  INDEX (order_id),
  INDEX (transaction_id, provider),
  INDEX (created_at)
)`, `
CREATE TABLE IF NOT EXISTS products (
  id             VARCHAR(64)   PRIMARY KEY,
  name           VARCHAR(255)  NOT NULL,
  price          DECIMAL(15,2) NOT NULL,
  stock_quantity INT           NOT NULL DEFAULT 0
)`, `
CREATE TABLE IF NOT EXISTS user_roles (
  user_id VARCHAR(64) NOT NULL,
  role    VARCHAR(16) NOT NULL,
  PRIMARY KEY (user_id, role)
)`, `
CREATE TABLE IF NOT EXISTS coupons (
  code                 VARCHAR(64)   PRIMARY KEY,
  description          VARCHAR(255)  NULL,
  discount_type        VARCHAR(16)   NOT NULL,
  discount_value       DECIMAL(15,2) NOT NULL,
  minimum_order_amount DECIMAL(15,2) NOT NULL DEFAULT 0,
  maximum_discount     DECIMAL(15,2) NULL,
  usage_limit          INT           NULL,
  used_count           INT           NOT NULL DEFAULT 0,
  valid_from           DATETIME(6)   NULL,
  valid_until          DATETIME(6)   NULL,
  is_active            BOOLEAN       NOT NULL DEFAULT TRUE
)`, `
CREATE TABLE IF NOT EXISTS addresses (
  id             VARCHAR(64)  NOT NULL,
  user_id        VARCHAR(64)  NOT NULL,
  recipient_name VARCHAR(255) NOT NULL,
  phone          VARCHAR(32)  NOT NULL,
  line1          VARCHAR(255) NOT NULL,
  ward           VARCHAR(128) NULL,
  district       VARCHAR(128) NULL,
  city           VARCHAR(128) NOT NULL,
  is_default     BOOLEAN      NOT NULL DEFAULT FALSE,
  created_at     DATETIME(6)  NOT NULL,
  updated_at     DATETIME(6)  NOT NULL,
  PRIMARY KEY (user_id, id)
)`}

// InitSchema creates every table the service touches. It is safe to run repeatedly.
func InitSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
