package entities

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus is the canonical payment status, independent of provider wording.
type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusCompleted  PaymentStatus = "completed"
	PaymentStatusFailed     PaymentStatus = "failed"
	PaymentStatusCancelled  PaymentStatus = "cancelled"
	PaymentStatusRefunded   PaymentStatus = "refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusProcessing, PaymentStatusCompleted,
		PaymentStatusFailed, PaymentStatusCancelled, PaymentStatusRefunded:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentMethodCardGateway    PaymentMethod = "card_gateway"
	PaymentMethodQRWallet       PaymentMethod = "qr_wallet"
	PaymentMethodCashOnDelivery PaymentMethod = "cash_on_delivery"
	PaymentMethodBankTransfer   PaymentMethod = "bank_transfer"
)

// RefundTransactionPrefix marks refund rows written before refund_of_payment_id existed.
const RefundTransactionPrefix = "REFUND-"

// Payment is one monetary transaction tied to exactly one order.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI order_id-index: order_id
//   - GSI transaction_id-index: transaction_id
//   - GSI created_date-index: created_date (local day), created_at
//
// Refunds are stored as additional Payment rows. New rows link to the refunded payment
// through RefundOfPaymentID; legacy rows only carry the REFUND- transaction id prefix.
type Payment struct {
	ID                string                 `json:"id"`
	OrderID           string                 `json:"order_id"`
	Method            PaymentMethod          `json:"payment_method"`
	Provider          string                 `json:"provider"`
	TransactionID     string                 `json:"transaction_id,omitempty"`
	Amount            decimal.Decimal        `json:"amount"`
	Currency          string                 `json:"currency"`
	Status            PaymentStatus          `json:"status"`
	GatewayResponse   map[string]interface{} `json:"gateway_response,omitempty"`
	RefundOfPaymentID string                 `json:"refund_of_payment_id,omitempty"`
	RefundedAmount    decimal.Decimal        `json:"refunded_amount"`
	CreatedAt         time.Time              `json:"created_at"`
	ProcessedAt       *time.Time             `json:"processed_at,omitempty"`
	UpdatedAt         time.Time              `json:"updated_at"`
}

// IsRefund reports whether the row offsets another payment.
func (p Payment) IsRefund() bool {
	return p.RefundOfPaymentID != "" || strings.HasPrefix(p.TransactionID, RefundTransactionPrefix)
}

// RefundsPayment reports whether p is a refund of original. Legacy rows are matched by
// the transaction id convention REFUND-<original transaction id or id>-<suffix>.
func (p Payment) RefundsPayment(original Payment) bool {
	if !p.IsRefund() || p.OrderID != original.OrderID {
		return false
	}
	if p.RefundOfPaymentID != "" {
		return p.RefundOfPaymentID == original.ID
	}
	ref := original.TransactionID
	if ref == "" {
		ref = original.ID
	}
	return strings.HasPrefix(p.TransactionID, RefundTransactionPrefix+ref+"-")
}

// RefundReference is the id embedded in refund transaction ids of this payment.
func (p Payment) RefundReference() string {
	if p.TransactionID != "" {
		return p.TransactionID
	}
	return p.ID
}
