package response

import (
	"time"

	"storefront_billing/internal/domain/entities"
)

type PaymentResponse struct {
	PaymentID           string     `json:"payment_id"`
	ID                  string     `json:"id"`
	OrderID             string     `json:"order_id"`
	Method              string     `json:"payment_method"`
	Provider            string     `json:"provider"`
	TransactionID       string     `json:"transaction_id,omitempty"`
	Amount              string     `json:"amount"`
	Currency            string     `json:"currency"`
	Status              string     `json:"status"`
	IsRefund            bool       `json:"is_refund"`
	RefundOfPaymentID   string     `json:"refund_of_payment_id,omitempty"`
	RefundedAmount      string     `json:"refunded_amount"`
	RemainingRefundable string     `json:"remaining_refundable,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	ProcessedAt         *time.Time `json:"processed_at,omitempty"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// FromPayment renders money with two decimals. Gateway responses stay server side.
func FromPayment(p entities.Payment) PaymentResponse {
	res := PaymentResponse{
		PaymentID:         p.ID,
		ID:                p.ID,
		OrderID:           p.OrderID,
		Method:            string(p.Method),
		Provider:          p.Provider,
		TransactionID:     p.TransactionID,
		Amount:            p.Amount.StringFixed(2),
		Currency:          p.Currency,
		Status:            string(p.Status),
		IsRefund:          p.IsRefund(),
		RefundOfPaymentID: p.RefundOfPaymentID,
		RefundedAmount:    p.RefundedAmount.StringFixed(2),
		CreatedAt:         p.CreatedAt,
		ProcessedAt:       p.ProcessedAt,
		UpdatedAt:         p.UpdatedAt,
	}
	if !res.IsRefund && p.Status == entities.PaymentStatusCompleted {
		res.RemainingRefundable = p.Amount.Sub(p.RefundedAmount).StringFixed(2)
	}
	return res
}

func FromPayments(payments []entities.Payment) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, FromPayment(p))
	}
	return out
}
