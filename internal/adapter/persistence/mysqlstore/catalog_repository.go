package mysqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"storefront_billing/internal/domain/entities"
	"storefront_billing/internal/usecase/interfaces"

	"github.com/shopspring/decimal"
)

var ErrProductNotFound = errors.New("product not found")

type ProductRepository struct {
	db *sql.DB
}

var _ interfaces.IProductRepository = (*ProductRepository)(nil)

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (entities.Product, error) {
	var p entities.Product
	err := r.db.QueryRowContext(ctx, `SELECT id, name, price, stock_quantity FROM products WHERE id = ?`, id).
		Scan(&p.ID, &p.Name, &p.Price, &p.StockQuantity)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Product{}, nil
	}
	return p, err
}

func (r *ProductRepository) IncrementStock(ctx context.Context, productID string, quantity int) error {
	err := expectOne(r.db.ExecContext(ctx, `UPDATE products SET stock_quantity = stock_quantity + ? WHERE id = ?`, quantity, productID))
	if errors.Is(err, interfaces.ErrConcurrentModification) {
		return fmt.Errorf("product %s: %w", productID, ErrProductNotFound)
	}
	return err
}

type RoleRepository struct {
	db *sql.DB
}

var _ interfaces.IRoleRepository = (*RoleRepository)(nil)

func NewRoleRepository(db *sql.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) ListRoles(ctx context.Context, userID string) ([]entities.Role, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT role FROM user_roles WHERE user_id = ?`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entities.Role, 0)
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, err
		}
		out = append(out, entities.Role(role))
	}
	return out, rows.Err()
}

type CouponRepository struct {
	db *sql.DB
}

var _ interfaces.ICouponRepository = (*CouponRepository)(nil)

func NewCouponRepository(db *sql.DB) *CouponRepository {
	return &CouponRepository{db: db}
}

func (r *CouponRepository) GetByCode(ctx context.Context, code string) (entities.Coupon, error) {
	var (
		c           entities.Coupon
		description sql.NullString
		discount    string
		maxDiscount decimal.NullDecimal
		usageLimit  sql.NullInt64
		validFrom   sql.NullTime
		validUntil  sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, `
SELECT code, description, discount_type, discount_value, minimum_order_amount, maximum_discount,
       usage_limit, used_count, valid_from, valid_until, is_active
  FROM coupons WHERE code = ?`, code).
		Scan(&c.Code, &description, &discount, &c.DiscountValue, &c.MinimumOrderAmount, &maxDiscount,
			&usageLimit, &c.UsedCount, &validFrom, &validUntil, &c.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Coupon{}, nil
	}
	if err != nil {
		return entities.Coupon{}, err
	}
	c.Description = description.String
	c.DiscountType = entities.DiscountType(discount)
	if maxDiscount.Valid {
		c.MaximumDiscount = &maxDiscount.Decimal
	}
	if usageLimit.Valid {
		limit := int(usageLimit.Int64)
		c.UsageLimit = &limit
	}
	c.ValidFrom = timePtr(validFrom)
	c.ValidUntil = timePtr(validUntil)
	return c, nil
}
