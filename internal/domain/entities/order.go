package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents the fulfilment lifecycle of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusRefunded   OrderStatus = "refunded"
)

var orderStatusRank = map[OrderStatus]int{
	OrderStatusPending:    0,
	OrderStatusConfirmed:  1,
	OrderStatusProcessing: 2,
	OrderStatusShipped:    3,
	OrderStatusDelivered:  4,
}

func (s OrderStatus) Valid() bool {
	return s.Terminal() || s.inRank()
}

// Terminal reports whether no further fulfilment transition is possible.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCancelled || s == OrderStatusRefunded
}

// Rank orders the fulfilment statuses; terminal statuses return -1.
func (s OrderStatus) Rank() int {
	if r, ok := orderStatusRank[s]; ok {
		return r
	}
	return -1
}

func (s OrderStatus) inRank() bool {
	_, ok := orderStatusRank[s]
	return ok
}

// ExpectsPayment reports whether orders in this status must have a payment on file.
func (s OrderStatus) ExpectsPayment() bool {
	switch s {
	case OrderStatusConfirmed, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered:
		return true
	}
	return false
}

type OrderPaymentStatus string

const (
	OrderPaymentUnpaid   OrderPaymentStatus = "unpaid"
	OrderPaymentPaid     OrderPaymentStatus = "paid"
	OrderPaymentFailed   OrderPaymentStatus = "failed"
	OrderPaymentRefunded OrderPaymentStatus = "refunded"
)

type ShippingAddress struct {
	RecipientName string `json:"recipient_name"`
	Phone         string `json:"phone"`
	Line1         string `json:"line1"`
	Ward          string `json:"ward,omitempty"`
	District      string `json:"district,omitempty"`
	City          string `json:"city"`
}

// Order is the purchase aggregate.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI created_date-index: created_date (local day), created_at
//   - GSI user_id-index: user_id
//
// Status and PaymentStatus are only reconciled with the order's payments when a
// payment or refund operation runs.
type Order struct {
	ID              string             `json:"id"`
	OrderNumber     string             `json:"order_number"`
	UserID          string             `json:"user_id,omitempty"`
	Status          OrderStatus        `json:"status"`
	PaymentStatus   OrderPaymentStatus `json:"payment_status"`
	TotalAmount     decimal.Decimal    `json:"total_amount"`
	Subtotal        decimal.Decimal    `json:"subtotal"`
	TaxAmount       decimal.Decimal    `json:"tax_amount"`
	ShippingAmount  decimal.Decimal    `json:"shipping_amount"`
	DiscountAmount  decimal.Decimal    `json:"discount_amount"`
	CouponCode      string             `json:"coupon_code,omitempty"`
	PaymentMethod   PaymentMethod      `json:"payment_method,omitempty"`
	ShippingAddress ShippingAddress    `json:"shipping_address"`
	AdminNotes      []string           `json:"admin_notes,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// OrderItem is an immutable line of an order.
type OrderItem struct {
	ID          string          `json:"id"`
	OrderID     string          `json:"order_id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}
