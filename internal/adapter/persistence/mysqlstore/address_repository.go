package mysqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"storefront_billing/internal/domain/entities"
	"storefront_billing/internal/usecase/interfaces"
)

type AddressRepository struct {
	db *sql.DB
}

var _ interfaces.IAddressRepository = (*AddressRepository)(nil)

func NewAddressRepository(db *sql.DB) *AddressRepository {
	return &AddressRepository{db: db}
}

const addressColumns = `id, user_id, recipient_name, phone, line1, ward, district, city, is_default, created_at, updated_at`

func scanAddress(row rowScanner) (entities.Address, error) {
	var (
		a        entities.Address
		ward     sql.NullString
		district sql.NullString
	)
	err := row.Scan(&a.ID, &a.UserID, &a.RecipientName, &a.Phone, &a.Line1, &ward, &district, &a.City,
		&a.IsDefault, &a.CreatedAt, &a.UpdatedAt)
	a.Ward = ward.String
	a.District = district.String
	return a, err
}

func (r *AddressRepository) GetByID(ctx context.Context, userID, id string) (entities.Address, error) {
	a, err := scanAddress(r.db.QueryRowContext(ctx, `SELECT `+addressColumns+` FROM addresses WHERE user_id = ? AND id = ?`, userID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Address{}, nil
	}
	return a, err
}

func (r *AddressRepository) ListByUser(ctx context.Context, userID string) ([]entities.Address, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+addressColumns+` FROM addresses WHERE user_id = ? ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entities.Address, 0)
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AddressRepository) SetDefault(ctx context.Context, userID, id, previousID string, now time.Time) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if previousID != "" && previousID != id {
			err := expectOne(tx.ExecContext(ctx,
				`UPDATE addresses SET is_default = FALSE, updated_at = ? WHERE user_id = ? AND id = ? AND is_default = TRUE`,
				now.UTC(), userID, previousID))
			if err != nil {
				return err
			}
		}
		return expectOne(tx.ExecContext(ctx,
			`UPDATE addresses SET is_default = TRUE, updated_at = ? WHERE user_id = ? AND id = ?`,
			now.UTC(), userID, id))
	})
}
