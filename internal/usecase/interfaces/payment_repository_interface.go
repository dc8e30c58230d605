package interfaces

import (
	"context"
	"time"

	"storefront_billing/internal/domain/entities"
)

// IPaymentRepository abstracts persistence for Payment rows, refunds included.
//
// Lookups return a zero Payment and a nil error when nothing matches.
type IPaymentRepository interface {
	Create(ctx context.Context, p entities.Payment) (entities.Payment, error)
	GetByID(ctx context.Context, id string) (entities.Payment, error)
	ListByOrderID(ctx context.Context, orderID string) ([]entities.Payment, error)
	FindByTransaction(ctx context.Context, transactionID, provider string) (entities.Payment, error)
	ListCreatedBetween(ctx context.Context, from, to time.Time) ([]entities.Payment, error)

	// ApplyTransition writes the payment status change and its order update atomically.
	// It returns ErrConcurrentModification when either row moved since it was read.
	ApplyTransition(ctx context.Context, t entities.PaymentTransition) error
	// ApplyRefund inserts the refund row and applies every cascade write atomically.
	// It returns ErrConcurrentModification when the original payment moved since it was read.
	ApplyRefund(ctx context.Context, app entities.RefundApplication) error
	// UpdateStatusIfMatch sets status to next only while it still equals expected.
	UpdateStatusIfMatch(ctx context.Context, id string, expected, next entities.PaymentStatus) error
}
