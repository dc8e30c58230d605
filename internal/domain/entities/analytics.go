package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

type GroupBy string

const (
	GroupByDay   GroupBy = "day"
	GroupByWeek  GroupBy = "week"
	GroupByMonth GroupBy = "month"
)

func (g GroupBy) Valid() bool {
	return g == GroupByDay || g == GroupByWeek || g == GroupByMonth
}

type RevenueBucket struct {
	Period            string          `json:"period"`
	Start             time.Time       `json:"start"`
	Revenue           decimal.Decimal `json:"revenue"`
	Orders            int             `json:"orders"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
}

// PeriodComparison diffs a range against the equal-length range right before it.
// Percentages are nil when the previous value is zero.
type PeriodComparison struct {
	PreviousFrom     time.Time        `json:"previous_from"`
	PreviousTo       time.Time        `json:"previous_to"`
	PreviousRevenue  decimal.Decimal  `json:"previous_revenue"`
	PreviousOrders   int              `json:"previous_orders"`
	RevenueChange    decimal.Decimal  `json:"revenue_change"`
	RevenueChangePct *decimal.Decimal `json:"revenue_change_pct,omitempty"`
	OrdersChange     int              `json:"orders_change"`
	OrdersChangePct  *decimal.Decimal `json:"orders_change_pct,omitempty"`
}

type RevenueReport struct {
	From              time.Time         `json:"from"`
	To                time.Time         `json:"to"`
	GroupBy           GroupBy           `json:"group_by"`
	Buckets           []RevenueBucket   `json:"buckets"`
	TotalRevenue      decimal.Decimal   `json:"total_revenue"`
	TotalOrders       int               `json:"total_orders"`
	AverageOrderValue decimal.Decimal   `json:"average_order_value"`
	Comparison        *PeriodComparison `json:"comparison,omitempty"`
}

type PaymentMethodStat struct {
	Method   PaymentMethod   `json:"method"`
	Count    int             `json:"count"`
	Amount   decimal.Decimal `json:"amount"`
	SharePct decimal.Decimal `json:"share_pct"`
}

type PaymentMethodBreakdown struct {
	From    time.Time           `json:"from"`
	To      time.Time           `json:"to"`
	Total   decimal.Decimal     `json:"total"`
	Methods []PaymentMethodStat `json:"methods"`
}

type UrgentOrder struct {
	OrderID       string             `json:"order_id"`
	OrderNumber   string             `json:"order_number"`
	Status        OrderStatus        `json:"status"`
	PaymentStatus OrderPaymentStatus `json:"payment_status"`
	TotalAmount   decimal.Decimal    `json:"total_amount"`
	AgeHours      float64            `json:"age_hours"`
	Score         float64            `json:"score"`
	Reasons       []string           `json:"reasons"`
	CreatedAt     time.Time          `json:"created_at"`
}
