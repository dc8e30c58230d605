package mysqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"storefront_billing/internal/domain/entities"
	"storefront_billing/internal/usecase/interfaces"
)

const orderColumns = `id, order_number, user_id, status, payment_status, total_amount, subtotal, tax_amount,
  shipping_amount, discount_amount, coupon_code, payment_method, shipping_address, admin_notes, created_at, updated_at`

type OrderRepository struct {
	db  *sql.DB
	now func() time.Time
}

var _ interfaces.IOrderRepository = (*OrderRepository)(nil)

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db, now: time.Now}
}

func scanOrder(row rowScanner) (entities.Order, error) {
	var (
		o             entities.Order
		userID        sql.NullString
		coupon        sql.NullString
		method        sql.NullString
		address       []byte
		notes         []byte
		status        string
		paymentStatus string
	)
	err := row.Scan(&o.ID, &o.OrderNumber, &userID, &status, &paymentStatus, &o.TotalAmount, &o.Subtotal, &o.TaxAmount,
		&o.ShippingAmount, &o.DiscountAmount, &coupon, &method, &address, &notes, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return entities.Order{}, err
	}
	o.UserID = userID.String
	o.CouponCode = coupon.String
	o.PaymentMethod = entities.PaymentMethod(method.String)
	o.Status = entities.OrderStatus(status)
	o.PaymentStatus = entities.OrderPaymentStatus(paymentStatus)
	if err := decodeJSON(address, &o.ShippingAddress); err != nil {
		return entities.Order{}, err
	}
	if err := decodeJSON(notes, &o.AdminNotes); err != nil {
		return entities.Order{}, err
	}
	return o, nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (entities.Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Order{}, nil
	}
	return o, err
}

func (r *OrderRepository) ListCreatedBetween(ctx context.Context, from, to time.Time) ([]entities.Order, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE created_at BETWEEN ? AND ? ORDER BY created_at`, from.UTC(), to.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entities.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *OrderRepository) ListItems(ctx context.Context, orderID string) ([]entities.OrderItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, order_id, product_id, product_name, quantity, unit_price FROM order_items WHERE order_id = ? ORDER BY id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entities.OrderItem, 0)
	for rows.Next() {
		var it entities.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.Quantity, &it.UnitPrice); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *OrderRepository) UpdateStatusIfMatch(ctx context.Context, id string, expected, next entities.OrderStatus, note string) (entities.Order, error) {
	query := `UPDATE orders SET status = ?, updated_at = ?`
	args := []any{string(next), r.now().UTC()}
	if note != "" {
		query += `, admin_notes = JSON_ARRAY_APPEND(COALESCE(admin_notes, JSON_ARRAY()), '$', ?)`
		args = append(args, note)
	}
	query += ` WHERE id = ? AND status = ?`
	args = append(args, id, string(expected))

	if err := expectOne(r.db.ExecContext(ctx, query, args...)); err != nil {
		return entities.Order{}, err
	}
	return r.GetByID(ctx, id)
}
