package mysqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"storefront_billing/internal/domain/entities"
	"storefront_billing/internal/usecase/interfaces"

	"github.com/go-sql-driver/mysql"
)

const paymentColumns = `id, order_id, payment_method, provider, transaction_id, amount, currency, status,
  gateway_response, refund_of_payment_id, refunded_amount, created_at, processed_at, updated_at`

// PaymentRepository stores payments, refunds included, in MySQL.
type PaymentRepository struct {
	db *sql.DB
}

var _ interfaces.IPaymentRepository = (*PaymentRepository)(nil)

func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPayment(row rowScanner) (entities.Payment, error) {
	var (
		p           entities.Payment
		txnID       sql.NullString
		refundOf    sql.NullString
		gateway     []byte
		processedAt sql.NullTime
		method      string
		status      string
	)
	err := row.Scan(&p.ID, &p.OrderID, &method, &p.Provider, &txnID, &p.Amount, &p.Currency, &status,
		&gateway, &refundOf, &p.RefundedAmount, &p.CreatedAt, &processedAt, &p.UpdatedAt)
	if err != nil {
		return entities.Payment{}, err
	}
	p.Method = entities.PaymentMethod(method)
	p.Status = entities.PaymentStatus(status)
	p.TransactionID = txnID.String
	p.RefundOfPaymentID = refundOf.String
	p.ProcessedAt = timePtr(processedAt)
	if err := decodeJSON(gateway, &p.GatewayResponse); err != nil {
		return entities.Payment{}, err
	}
	return p, nil
}

func (r *PaymentRepository) queryPayments(ctx context.Context, query string, args ...any) ([]entities.Payment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entities.Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func insertPayment(ctx context.Context, exec interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}, p entities.Payment) error {
	var gateway interface{}
	if len(p.GatewayResponse) > 0 {
		var err error
		if gateway, err = jsonValue(p.GatewayResponse); err != nil {
			return err
		}
	}
	_, err := exec.ExecContext(ctx, `
INSERT INTO payments (`+paymentColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.OrderID, string(p.Method), p.Provider, nullString(p.TransactionID), p.Amount, p.Currency, string(p.Status),
		gateway, nullString(p.RefundOfPaymentID), p.RefundedAmount, p.CreatedAt.UTC(), nullTime(p.ProcessedAt), p.UpdatedAt.UTC(),
	)
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == 1062 {
		return interfaces.ErrConcurrentModification
	}
	return err
}

func (r *PaymentRepository) Create(ctx context.Context, p entities.Payment) (entities.Payment, error) {
	if err := insertPayment(ctx, r.db, p); err != nil {
		return entities.Payment{}, err
	}
	return p, nil
}

func (r *PaymentRepository) GetByID(ctx context.Context, id string) (entities.Payment, error) {
	p, err := scanPayment(r.db.QueryRowContext(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Payment{}, nil
	}
	return p, err
}

func (r *PaymentRepository) ListByOrderID(ctx context.Context, orderID string) ([]entities.Payment, error) {
	return r.queryPayments(ctx, `SELECT `+paymentColumns+` FROM payments WHERE order_id = ? ORDER BY created_at`, orderID)
}

func (r *PaymentRepository) FindByTransaction(ctx context.Context, transactionID, provider string) (entities.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE transaction_id = ?`
	args := []any{transactionID}
	if provider != "" {
		query += ` AND provider = ?`
		args = append(args, provider)
	}
	p, err := scanPayment(r.db.QueryRowContext(ctx, query+` ORDER BY created_at LIMIT 1`, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Payment{}, nil
	}
	return p, err
}

func (r *PaymentRepository) ListCreatedBetween(ctx context.Context, from, to time.Time) ([]entities.Payment, error) {
	return r.queryPayments(ctx, `SELECT `+paymentColumns+` FROM payments WHERE created_at BETWEEN ? AND ? ORDER BY created_at`,
		from.UTC(), to.UTC())
}

func (r *PaymentRepository) UpdateStatusIfMatch(ctx context.Context, id string, expected, next entities.PaymentStatus) error {
	return expectOne(r.db.ExecContext(ctx,
		`UPDATE payments SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
		string(next), time.Now().UTC(), id, string(expected)))
}

func (r *PaymentRepository) ApplyTransition(ctx context.Context, t entities.PaymentTransition) error {
	var gateway interface{}
	if t.GatewayResponse != nil {
		var err error
		if gateway, err = jsonValue(t.GatewayResponse); err != nil {
			return err
		}
	}
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		err := expectOne(tx.ExecContext(ctx, `
UPDATE payments
   SET status = ?, gateway_response = COALESCE(?, gateway_response), processed_at = COALESCE(?, processed_at), updated_at = ?
 WHERE id = ? AND status = ?`,
			string(t.ToStatus), gateway, nullTime(t.ProcessedAt), t.UpdatedAt.UTC(), t.PaymentID, string(t.FromStatus)))
		if err != nil || t.Order == nil {
			return err
		}

		o := t.Order
		query := `UPDATE orders SET updated_at = ?`
		args := []any{t.UpdatedAt.UTC()}
		if o.PaymentStatus != "" {
			query += `, payment_status = ?`
			args = append(args, string(o.PaymentStatus))
		}
		if o.Status != "" {
			query += `, status = ?`
			args = append(args, string(o.Status))
		}
		query += ` WHERE id = ?`
		args = append(args, o.OrderID)
		if o.Status != "" {
			query += ` AND status = ?`
			args = append(args, string(o.OrderFromStatus))
		}
		return expectOne(tx.ExecContext(ctx, query, args...))
	})
}

func (r *PaymentRepository) ApplyRefund(ctx context.Context, app entities.RefundApplication) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := insertPayment(ctx, tx, app.Refund); err != nil {
			return err
		}

		orig := app.Original
		query := `UPDATE payments SET refunded_amount = ?, updated_at = ?`
		args := []any{orig.NewRefunded, orig.UpdatedAt.UTC()}
		if orig.MarkRefunded {
			query += `, status = ?`
			args = append(args, string(entities.PaymentStatusRefunded))
		}
		query += ` WHERE id = ? AND refunded_amount = ?`
		args = append(args, orig.PaymentID, orig.PriorRefunded)
		if err := expectOne(tx.ExecContext(ctx, query, args...)); err != nil {
			return err
		}

		ord := app.Order
		query = `UPDATE orders SET updated_at = ?`
		args = []any{ord.UpdatedAt.UTC()}
		if ord.Note != "" {
			query += `, admin_notes = JSON_ARRAY_APPEND(COALESCE(admin_notes, JSON_ARRAY()), '$', ?)`
			args = append(args, ord.Note)
		}
		if ord.MarkRefunded {
			query += `, status = ?, payment_status = ?`
			args = append(args, string(entities.OrderStatusRefunded), string(entities.OrderPaymentRefunded))
		}
		query += ` WHERE id = ?`
		args = append(args, ord.OrderID)
		if err := expectOne(tx.ExecContext(ctx, query, args...)); err != nil {
			return err
		}

		for _, s := range app.StockRestores {
			if err := expectOne(tx.ExecContext(ctx, `UPDATE products SET stock_quantity = stock_quantity + ? WHERE id = ?`, s.Quantity, s.ProductID)); err != nil {
				return err
			}
		}
		return nil
	})
}
