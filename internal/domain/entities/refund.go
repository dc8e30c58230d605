package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

type RefundMethod string

const (
	RefundMethodOriginal     RefundMethod = "original_method"
	RefundMethodBankTransfer RefundMethod = "bank_transfer"
	RefundMethodCash         RefundMethod = "cash"
	RefundMethodStoreCredit  RefundMethod = "store_credit"
)

func (m RefundMethod) Valid() bool {
	switch m {
	case RefundMethodOriginal, RefundMethodBankTransfer, RefundMethodCash, RefundMethodStoreCredit:
		return true
	}
	return false
}

// RefundInfo is returned to the admin after a refund is booked.
type RefundInfo struct {
	RefundPaymentID     string          `json:"refund_payment_id"`
	OriginalPaymentID   string          `json:"original_payment_id"`
	OrderID             string          `json:"order_id"`
	OrderNumber         string          `json:"order_number"`
	RefundAmount        decimal.Decimal `json:"refund_amount"`
	OriginalAmount      decimal.Decimal `json:"original_amount"`
	TotalRefunded       decimal.Decimal `json:"total_refunded"`
	RemainingRefundable decimal.Decimal `json:"remaining_refundable"`
	IsFullRefund        bool            `json:"is_full_refund"`
	Reason              string          `json:"reason"`
	Method              RefundMethod    `json:"method"`
	TransactionID       string          `json:"transaction_id"`
	ProcessedAt         time.Time       `json:"processed_at"`
}

// RefundApplication groups every write of one refund so the store can apply them atomically.
type RefundApplication struct {
	Refund        Payment
	Original      OriginalPaymentRefundUpdate
	Order         OrderRefundUpdate
	StockRestores []StockDelta
}

// OriginalPaymentRefundUpdate moves the refunded_amount counter of the original payment
// from PriorRefunded to NewRefunded; the write fails if the counter moved meanwhile.
type OriginalPaymentRefundUpdate struct {
	PaymentID     string
	PriorRefunded decimal.Decimal
	NewRefunded   decimal.Decimal
	MarkRefunded  bool
	UpdatedAt     time.Time
}

type OrderRefundUpdate struct {
	OrderID      string
	Note         string
	MarkRefunded bool
	UpdatedAt    time.Time
}
