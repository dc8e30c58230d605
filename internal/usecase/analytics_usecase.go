package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"storefront_billing/internal/domain/entities"
	"storefront_billing/internal/usecase/interfaces"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	maxReportRange     = 366 * 24 * time.Hour
	urgentWindow       = 30 * 24 * time.Hour
	defaultUrgentLimit = 20
	maxUrgentLimit     = 100
)

var (
	ErrInvalidDateRange = errors.New("from must not be after to")
	ErrDateRangeTooLong = errors.New("date range must not exceed 366 days")
	ErrInvalidGroupBy   = errors.New("group_by must be one of day, week, month")
)

// IAnalyticsUseCase builds the admin dashboard reports.
type IAnalyticsUseCase interface {
	RevenueReport(ctx context.Context, actor entities.Actor, from, to time.Time, groupBy entities.GroupBy, compare bool) (entities.RevenueReport, error)
	PaymentMethodBreakdown(ctx context.Context, actor entities.Actor, from, to time.Time) (entities.PaymentMethodBreakdown, error)
	UrgentOrders(ctx context.Context, actor entities.Actor, limit int) ([]entities.UrgentOrder, error)
}

type AnalyticsUseCase struct {
	payments interfaces.IPaymentRepository
	orders   interfaces.IOrderRepository
	loc      *time.Location
	logger   *zap.Logger
	now      func() time.Time
}

var _ IAnalyticsUseCase = (*AnalyticsUseCase)(nil)

func NewAnalyticsUseCase(payments interfaces.IPaymentRepository, orders interfaces.IOrderRepository, loc *time.Location, logger *zap.Logger) *AnalyticsUseCase {
	return &AnalyticsUseCase{
		payments: payments,
		orders:   orders,
		loc:      locationOrLocal(loc),
		logger:   componentLogger(logger, "analytics"),
		now:      time.Now,
	}
}

func validateRange(from, to time.Time) error {
	if from.After(to) {
		return ErrInvalidDateRange
	}
	if to.Sub(from) > maxReportRange {
		return ErrDateRangeTooLong
	}
	return nil
}

func (u *AnalyticsUseCase) RevenueReport(ctx context.Context, actor entities.Actor, from, to time.Time, groupBy entities.GroupBy, compare bool) (entities.RevenueReport, error) {
	if !actor.IsAdmin() {
		return entities.RevenueReport{}, ErrNotAdmin
	}
	if groupBy == "" {
		groupBy = entities.GroupByDay
	}
	if !groupBy.Valid() {
		return entities.RevenueReport{}, ErrInvalidGroupBy
	}
	if err := validateRange(from, to); err != nil {
		return entities.RevenueReport{}, err
	}

	orders, err := u.revenueOrders(ctx, from, to)
	if err != nil {
		return entities.RevenueReport{}, err
	}

	report := entities.RevenueReport{
		From:         from,
		To:           to,
		GroupBy:      groupBy,
		Buckets:      u.emptyBuckets(from, to, groupBy),
		TotalRevenue: decimal.Zero,
	}
	index := make(map[string]int, len(report.Buckets))
	for i, b := range report.Buckets {
		index[b.Period] = i
	}
	for _, o := range orders {
		key, _ := u.bucketOf(o.CreatedAt, groupBy)
		i, ok := index[key]
		if !ok {
			continue
		}
		report.Buckets[i].Revenue = report.Buckets[i].Revenue.Add(o.TotalAmount)
		report.Buckets[i].Orders++
		report.TotalRevenue = report.TotalRevenue.Add(o.TotalAmount)
		report.TotalOrders++
	}
	for i := range report.Buckets {
		report.Buckets[i].AverageOrderValue = average(report.Buckets[i].Revenue, report.Buckets[i].Orders)
	}
	report.AverageOrderValue = average(report.TotalRevenue, report.TotalOrders)

	if compare {
		prevTo := from.Add(-time.Millisecond)
		prevFrom := prevTo.Add(-to.Sub(from))
		prevOrders, err := u.revenueOrders(ctx, prevFrom, prevTo)
		if err != nil {
			return entities.RevenueReport{}, err
		}
		prevRevenue := decimal.Zero
		for _, o := range prevOrders {
			prevRevenue = prevRevenue.Add(o.TotalAmount)
		}
		report.Comparison = &entities.PeriodComparison{
			PreviousFrom:     prevFrom,
			PreviousTo:       prevTo,
			PreviousRevenue:  prevRevenue,
			PreviousOrders:   len(prevOrders),
			RevenueChange:    report.TotalRevenue.Sub(prevRevenue),
			RevenueChangePct: percentChange(report.TotalRevenue, prevRevenue),
			OrdersChange:     report.TotalOrders - len(prevOrders),
			OrdersChangePct:  percentChange(decimal.NewFromInt(int64(report.TotalOrders)), decimal.NewFromInt(int64(len(prevOrders)))),
		}
	}

	u.logger.Debug("revenue report built",
		zap.Time("from", from), zap.Time("to", to),
		zap.String("group_by", string(groupBy)), zap.Int("orders", report.TotalOrders))
	return report, nil
}

func (u *AnalyticsUseCase) revenueOrders(ctx context.Context, from, to time.Time) ([]entities.Order, error) {
	all, err := u.orders.ListCreatedBetween(ctx, from, to)
	if err != nil {
		u.logger.Error("loading orders failed", zap.Error(err))
		return nil, err
	}
	out := make([]entities.Order, 0, len(all))
	for _, o := range all {
		if o.Status == entities.OrderStatusCancelled {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

// bucketOf returns the period label and period start of t in the report time zone.
func (u *AnalyticsUseCase) bucketOf(t time.Time, groupBy entities.GroupBy) (string, time.Time) {
	local := t.In(u.loc)
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, u.loc)
	switch groupBy {
	case entities.GroupByWeek:
		offset := (int(day.Weekday()) + 6) % 7
		start := day.AddDate(0, 0, -offset)
		year, week := start.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week), start
	case entities.GroupByMonth:
		start := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, u.loc)
		return start.Format("2006-01"), start
	default:
		return day.Format("2006-01-02"), day
	}
}

func (u *AnalyticsUseCase) emptyBuckets(from, to time.Time, groupBy entities.GroupBy) []entities.RevenueBucket {
	var buckets []entities.RevenueBucket
	_, cursor := u.bucketOf(from, groupBy)
	for !cursor.After(to) {
		label, start := u.bucketOf(cursor, groupBy)
		buckets = append(buckets, entities.RevenueBucket{Period: label, Start: start, Revenue: decimal.Zero, AverageOrderValue: decimal.Zero})
		switch groupBy {
		case entities.GroupByWeek:
			cursor = start.AddDate(0, 0, 7)
		case entities.GroupByMonth:
			cursor = start.AddDate(0, 1, 0)
		default:
			cursor = start.AddDate(0, 0, 1)
		}
	}
	return buckets
}

func average(total decimal.Decimal, n int) decimal.Decimal {
	if n == 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(n))).Round(2)
}

func (u *AnalyticsUseCase) PaymentMethodBreakdown(ctx context.Context, actor entities.Actor, from, to time.Time) (entities.PaymentMethodBreakdown, error) {
	if !actor.IsAdmin() {
		return entities.PaymentMethodBreakdown{}, ErrNotAdmin
	}
	if err := validateRange(from, to); err != nil {
		return entities.PaymentMethodBreakdown{}, err
	}

	payments, err := u.payments.ListCreatedBetween(ctx, from, to)
	if err != nil {
		u.logger.Error("loading payments failed", zap.Error(err))
		return entities.PaymentMethodBreakdown{}, err
	}

	stats := make(map[entities.PaymentMethod]*entities.PaymentMethodStat)
	total := decimal.Zero
	for _, p := range payments {
		if p.Status != entities.PaymentStatusCompleted || p.IsRefund() {
			continue
		}
		s, ok := stats[p.Method]
		if !ok {
			s = &entities.PaymentMethodStat{Method: p.Method, Amount: decimal.Zero}
			stats[p.Method] = s
		}
		s.Count++
		s.Amount = s.Amount.Add(p.Amount)
		total = total.Add(p.Amount)
	}

	out := entities.PaymentMethodBreakdown{From: from, To: to, Total: total, Methods: make([]entities.PaymentMethodStat, 0, len(stats))}
	for _, s := range stats {
		if total.IsPositive() {
			s.SharePct = s.Amount.Div(total).Mul(decimal.NewFromInt(100)).Round(2)
		}
		out.Methods = append(out.Methods, *s)
	}
	sort.Slice(out.Methods, func(i, j int) bool {
		a, b := out.Methods[i], out.Methods[j]
		if !a.Amount.Equal(b.Amount) {
			return a.Amount.GreaterThan(b.Amount)
		}
		return a.Method < b.Method
	})
	return out, nil
}

func (u *AnalyticsUseCase) UrgentOrders(ctx context.Context, actor entities.Actor, limit int) ([]entities.UrgentOrder, error) {
	if !actor.IsAdmin() {
		return nil, ErrNotAdmin
	}
	if limit <= 0 {
		limit = defaultUrgentLimit
	}
	if limit > maxUrgentLimit {
		limit = maxUrgentLimit
	}

	now := u.now()
	orders, err := u.orders.ListCreatedBetween(ctx, now.Add(-urgentWindow), now)
	if err != nil {
		u.logger.Error("loading orders failed", zap.Error(err))
		return nil, err
	}

	out := make([]entities.UrgentOrder, 0)
	for _, o := range orders {
		if uo, ok := scoreOrder(o, now); ok {
			out = append(out, uo)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

var urgentStatusWeight = map[entities.OrderStatus]float64{
	entities.OrderStatusPending:    1.0,
	entities.OrderStatusConfirmed:  1.5,
	entities.OrderStatusProcessing: 2.0,
}

// scoreOrder ranks open orders: age in hours times a status weight, plus fixed penalties.
func scoreOrder(o entities.Order, now time.Time) (entities.UrgentOrder, bool) {
	weight, open := urgentStatusWeight[o.Status]
	if !open {
		return entities.UrgentOrder{}, false
	}
	age := now.Sub(o.CreatedAt).Hours()
	if age < 0 {
		age = 0
	}
	score := age * weight
	reasons := make([]string, 0, 3)

	unpaid := o.PaymentStatus != entities.OrderPaymentPaid
	switch {
	case o.PaymentStatus == entities.OrderPaymentFailed:
		score += 15
		reasons = append(reasons, "payment failed")
	case unpaid && o.PaymentMethod == entities.PaymentMethodCashOnDelivery && o.Status == entities.OrderStatusPending:
		score += 10
		reasons = append(reasons, "unconfirmed cash on delivery order")
	case unpaid && o.Status == entities.OrderStatusPending && age > 24:
		score += 10
		reasons = append(reasons, "awaiting payment for more than 24h")
	}
	if o.Status != entities.OrderStatusPending && age > 48 {
		score += 25
		reasons = append(reasons, "not shipped after 48h")
	}

	return entities.UrgentOrder{
		OrderID:       o.ID,
		OrderNumber:   o.OrderNumber,
		Status:        o.Status,
		PaymentStatus: o.PaymentStatus,
		TotalAmount:   o.TotalAmount,
		AgeHours:      roundHours(age),
		Score:         roundHours(score),
		Reasons:       reasons,
		CreatedAt:     o.CreatedAt,
	}, true
}

func roundHours(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
