package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront_billing/internal/domain/entities"
	mock_interfaces "storefront_billing/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

func newAnalytics(t *testing.T) (*AnalyticsUseCase, *mock_interfaces.MockIPaymentRepository, *mock_interfaces.MockIOrderRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	payments := mock_interfaces.NewMockIPaymentRepository(ctrl)
	orders := mock_interfaces.NewMockIOrderRepository(ctrl)
	return NewAnalyticsUseCase(payments, orders, time.UTC, nil), payments, orders
}

func at(day, hour int) time.Time {
	return time.Date(2025, 3, day, hour, 0, 0, 0, time.UTC)
}

func TestAnalyticsUseCase_RangeValidation(t *testing.T) {
	uc, _, _ := newAnalytics(t)

	cases := []struct {
		name     string
		from, to time.Time
		groupBy  entities.GroupBy
		wantErr  error
	}{
		{name: "from after to", from: at(5, 0), to: at(4, 0), wantErr: ErrInvalidDateRange},
		{name: "too long", from: at(1, 0), to: at(1, 0).AddDate(1, 0, 2), wantErr: ErrDateRangeTooLong},
		{name: "bad group", from: at(1, 0), to: at(2, 0), groupBy: "year", wantErr: ErrInvalidGroupBy},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := uc.RevenueReport(context.Background(), adminActor, tc.from, tc.to, tc.groupBy, false); !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}

	if _, err := uc.PaymentMethodBreakdown(context.Background(), customerActor, at(1, 0), at(2, 0)); !errors.Is(err, ErrNotAdmin) {
		t.Fatalf("expected ErrNotAdmin, got %v", err)
	}
}

func TestAnalyticsUseCase_RevenueReport(t *testing.T) {
	uc, _, orders := newAnalytics(t)
	from := at(3, 0)
	to := time.Date(2025, 3, 5, 23, 59, 59, int(999*time.Millisecond), time.UTC)

	orders.EXPECT().ListCreatedBetween(gomock.Any(), from, to).Return([]entities.Order{
		{ID: "o1", Status: entities.OrderStatusDelivered, TotalAmount: d("100"), CreatedAt: at(3, 9)},
		{ID: "o2", Status: entities.OrderStatusConfirmed, TotalAmount: d("50"), CreatedAt: at(3, 18)},
		{ID: "o3", Status: entities.OrderStatusCancelled, TotalAmount: d("999"), CreatedAt: at(4, 10)},
		{ID: "o4", Status: entities.OrderStatusPending, TotalAmount: d("30"), CreatedAt: at(5, 23)},
	}, nil)
	orders.EXPECT().ListCreatedBetween(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, prevFrom, prevTo time.Time) ([]entities.Order, error) {
		if !prevTo.Equal(from.Add(-time.Millisecond)) || !prevFrom.Equal(at(0, 0)) {
			t.Fatalf("unexpected previous period %s - %s", prevFrom, prevTo)
		}
		return []entities.Order{{ID: "p1", Status: entities.OrderStatusDelivered, TotalAmount: d("90")}}, nil
	})

	report, err := uc.RevenueReport(context.Background(), adminActor, from, to, entities.GroupByDay, true)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(report.Buckets) != 3 {
		t.Fatalf("expected 3 daily buckets, got %+v", report.Buckets)
	}
	if report.Buckets[0].Period != "2025-03-03" || report.Buckets[0].Orders != 2 || !report.Buckets[0].AverageOrderValue.Equal(d("75")) {
		t.Fatalf("unexpected first bucket %+v", report.Buckets[0])
	}
	if report.Buckets[1].Orders != 0 || !report.Buckets[1].Revenue.IsZero() {
		t.Fatalf("cancelled order must be excluded, got %+v", report.Buckets[1])
	}
	if !report.TotalRevenue.Equal(d("180")) || report.TotalOrders != 3 {
		t.Fatalf("unexpected totals %s/%d", report.TotalRevenue, report.TotalOrders)
	}
	c := report.Comparison
	if c == nil || !c.RevenueChange.Equal(d("90")) || c.RevenueChangePct == nil || !c.RevenueChangePct.Equal(d("100")) || c.OrdersChange != 2 {
		t.Fatalf("unexpected comparison %+v", c)
	}
}

func TestAnalyticsUseCase_RevenueReport_WeeksAndMonths(t *testing.T) {
	uc, _, orders := newAnalytics(t)
	from := at(1, 0)
	to := at(31, 0)
	orders.EXPECT().ListCreatedBetween(gomock.Any(), from, to).Return([]entities.Order{
		{ID: "o1", Status: entities.OrderStatusDelivered, TotalAmount: d("10"), CreatedAt: at(3, 1)},
	}, nil).Times(2)

	weekly, err := uc.RevenueReport(context.Background(), adminActor, from, to, entities.GroupByWeek, false)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	// 2025-03-01 is a Saturday in ISO week 9.
	if weekly.Buckets[0].Period != "2025-W09" || weekly.Buckets[1].Period != "2025-W10" || weekly.Buckets[1].Orders != 1 {
		t.Fatalf("unexpected weekly buckets %+v", weekly.Buckets[:2])
	}
	if weekly.Comparison != nil {
		t.Fatalf("comparison must be nil when not requested")
	}

	monthly, _ := uc.RevenueReport(context.Background(), adminActor, from, to, entities.GroupByMonth, false)
	if len(monthly.Buckets) != 1 || monthly.Buckets[0].Period != "2025-03" {
		t.Fatalf("unexpected monthly buckets %+v", monthly.Buckets)
	}
}

func TestAnalyticsUseCase_PaymentMethodBreakdown(t *testing.T) {
	uc, payments, _ := newAnalytics(t)
	from, to := at(1, 0), at(2, 0)
	payments.EXPECT().ListCreatedBetween(gomock.Any(), from, to).Return([]entities.Payment{
		{ID: "1", Method: entities.PaymentMethodQRWallet, Status: entities.PaymentStatusCompleted, Amount: d("75")},
		{ID: "2", Method: entities.PaymentMethodCardGateway, Status: entities.PaymentStatusCompleted, Amount: d("25")},
		{ID: "3", Method: entities.PaymentMethodCardGateway, Status: entities.PaymentStatusFailed, Amount: d("500")},
		{ID: "4", Method: entities.PaymentMethodQRWallet, Status: entities.PaymentStatusCompleted, Amount: d("10"), RefundOfPaymentID: "1"},
	}, nil)

	out, err := uc.PaymentMethodBreakdown(context.Background(), adminActor, from, to)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !out.Total.Equal(d("100")) || len(out.Methods) != 2 {
		t.Fatalf("unexpected breakdown %+v", out)
	}
	if out.Methods[0].Method != entities.PaymentMethodQRWallet || !out.Methods[0].SharePct.Equal(d("75")) || out.Methods[0].Count != 1 {
		t.Fatalf("unexpected first method %+v", out.Methods[0])
	}
}

func TestAnalyticsUseCase_UrgentOrders(t *testing.T) {
	uc, _, orders := newAnalytics(t)
	now := at(20, 12)
	uc.now = func() time.Time { return now }

	orders.EXPECT().ListCreatedBetween(gomock.Any(), now.Add(-urgentWindow), now).Return([]entities.Order{
		{ID: "fresh", Status: entities.OrderStatusPending, PaymentStatus: entities.OrderPaymentUnpaid, CreatedAt: now.Add(-2 * time.Hour)},
		{ID: "stuck", Status: entities.OrderStatusProcessing, PaymentStatus: entities.OrderPaymentPaid, CreatedAt: now.Add(-72 * time.Hour)},
		{ID: "cod", Status: entities.OrderStatusPending, PaymentStatus: entities.OrderPaymentUnpaid, PaymentMethod: entities.PaymentMethodCashOnDelivery, CreatedAt: now.Add(-2 * time.Hour)},
		{ID: "done", Status: entities.OrderStatusDelivered, CreatedAt: now.Add(-100 * time.Hour)},
	}, nil)

	out, err := uc.UrgentOrders(context.Background(), adminActor, 2)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected limit to apply, got %d", len(out))
	}
	if out[0].OrderID != "stuck" || out[1].OrderID != "cod" {
		t.Fatalf("unexpected order %s, %s", out[0].OrderID, out[1].OrderID)
	}
	if out[0].Score != 169 || len(out[0].Reasons) != 1 {
		t.Fatalf("unexpected score %+v", out[0])
	}
}
