package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront_billing/internal/domain/entities"
	"storefront_billing/internal/usecase/interfaces"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const reconciliationDateLayout = "2006-01-02"

var ErrInvalidReconciliationDate = errors.New("invalid reconciliation date, expected YYYY-MM-DD")

type ReconcileCommand struct {
	Date           string
	IncludePartial bool
	AutoFix        bool
}

// IReconciliationUseCase cross-checks one day of payments against their orders.
type IReconciliationUseCase interface {
	Reconcile(ctx context.Context, actor entities.Actor, cmd ReconcileCommand) (entities.ReconciliationReport, error)
}

type ReconciliationUseCase struct {
	payments interfaces.IPaymentRepository
	orders   interfaces.IOrderRepository
	events   interfaces.IEventPublisher
	loc      *time.Location
	logger   *zap.Logger
	now      func() time.Time
}

var _ IReconciliationUseCase = (*ReconciliationUseCase)(nil)

func NewReconciliationUseCase(
	payments interfaces.IPaymentRepository,
	orders interfaces.IOrderRepository,
	events interfaces.IEventPublisher,
	loc *time.Location,
	logger *zap.Logger,
) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		payments: payments,
		orders:   orders,
		events:   events,
		loc:      locationOrLocal(loc),
		logger:   componentLogger(logger, "reconciliation"),
		now:      time.Now,
	}
}

// scan holds the day's rows and the order map built from them.
type scan struct {
	regular  []entities.Payment
	refunds  []entities.Payment
	byID     map[string]entities.Payment
	orders   map[string]entities.Order
	missing  map[string]bool
	dayOrder []entities.Order
}

func (u *ReconciliationUseCase) Reconcile(ctx context.Context, actor entities.Actor, cmd ReconcileCommand) (entities.ReconciliationReport, error) {
	if !actor.IsAdmin() {
		return entities.ReconciliationReport{}, ErrNotAdmin
	}
	day, err := u.parseDay(cmd.Date)
	if err != nil {
		return entities.ReconciliationReport{}, err
	}
	start := day
	end := day.AddDate(0, 0, 1).Add(-time.Millisecond)
	dateLabel := day.Format(reconciliationDateLayout)

	log := u.logger.With(zap.String("date", dateLabel), zap.Bool("auto_fix", cmd.AutoFix))
	log.Info("reconciliation started", zap.String("actor", actor.UserID))

	payments, err := u.payments.ListCreatedBetween(ctx, start, end)
	if err != nil {
		log.Error("loading payments failed", zap.Error(err))
		return entities.ReconciliationReport{}, err
	}
	dayOrders, err := u.orders.ListCreatedBetween(ctx, start, end)
	if err != nil {
		log.Error("loading orders failed", zap.Error(err))
		return entities.ReconciliationReport{}, err
	}

	s := scan{
		byID:    make(map[string]entities.Payment, len(payments)),
		orders:  make(map[string]entities.Order, len(dayOrders)),
		missing: make(map[string]bool),
	}
	for _, p := range payments {
		s.byID[p.ID] = p
		if p.IsRefund() {
			if cmd.IncludePartial {
				s.refunds = append(s.refunds, p)
			}
			continue
		}
		s.regular = append(s.regular, p)
	}
	for _, o := range dayOrders {
		s.orders[o.ID] = o
		if o.Status.ExpectsPayment() {
			s.dayOrder = append(s.dayOrder, o)
		}
	}
	if err := u.resolveOrders(ctx, &s); err != nil {
		log.Error("resolving orders failed", zap.Error(err))
		return entities.ReconciliationReport{}, err
	}

	report := entities.ReconciliationReport{
		Date:           dateLabel,
		IncludePartial: cmd.IncludePartial,
		AutoFix:        cmd.AutoFix,
		Issues:         make([]entities.ReconciliationIssue, 0),
		FixedIssues:    make([]entities.ReconciliationIssue, 0),
	}

	report.Issues = append(report.Issues, amountMismatches(s)...)
	for _, issue := range statusMismatches(s) {
		if cmd.AutoFix && issue.AutoFixable {
			if ferr := u.payments.UpdateStatusIfMatch(ctx, issue.PaymentID, entities.PaymentStatus(issue.Actual), entities.PaymentStatus(issue.Expected)); ferr != nil {
				log.Warn("auto-fix failed", zap.String("payment_id", issue.PaymentID), zap.Error(ferr))
				issue.Description = fmt.Sprintf("%s (auto-fix failed: %v)", issue.Description, ferr)
				report.Issues = append(report.Issues, issue)
				continue
			}
			log.Info("auto-fixed payment status", zap.String("payment_id", issue.PaymentID), zap.String("status", issue.Expected))
			report.FixedIssues = append(report.FixedIssues, issue)
			continue
		}
		report.Issues = append(report.Issues, issue)
	}
	report.Issues = append(report.Issues, missingPayments(s)...)
	report.Issues = append(report.Issues, duplicatePayments(s)...)
	report.Issues = append(report.Issues, orphanPayments(s)...)
	if cmd.IncludePartial {
		orphans, err := u.orphanRefunds(ctx, s)
		if err != nil {
			log.Error("resolving refund originals failed", zap.Error(err))
			return entities.ReconciliationReport{}, err
		}
		report.Issues = append(report.Issues, orphans...)
	}

	report.Summary = summarize(s, report)
	log.Info("reconciliation finished",
		zap.Int("issues", report.Summary.TotalIssues),
		zap.Int("auto_fixed", report.Summary.AutoFixed),
		zap.String("discrepancy", report.Summary.TotalDiscrepancy.String()),
	)
	publishEvent(ctx, u.events, u.logger, entities.DomainEvent{
		Type:       entities.EventReconciliationCompleted,
		Key:        dateLabel,
		OccurredAt: u.now(),
		Payload:    report.Summary,
	})
	return report, nil
}

func (u *ReconciliationUseCase) parseDay(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		now := u.now().In(u.loc)
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, u.loc), nil
	}
	day, err := time.ParseInLocation(reconciliationDateLayout, raw, u.loc)
	if err != nil {
		return time.Time{}, ErrInvalidReconciliationDate
	}
	return day, nil
}

// resolveOrders fetches orders of the day's payments that were created on another day.
func (u *ReconciliationUseCase) resolveOrders(ctx context.Context, s *scan) error {
	for _, p := range s.regular {
		if p.OrderID == "" {
			continue
		}
		if _, ok := s.orders[p.OrderID]; ok || s.missing[p.OrderID] {
			continue
		}
		o, err := u.orders.GetByID(ctx, p.OrderID)
		if err != nil {
			return err
		}
		if o.ID == "" {
			s.missing[p.OrderID] = true
			continue
		}
		s.orders[o.ID] = o
	}
	return nil
}

func (u *ReconciliationUseCase) orphanRefunds(ctx context.Context, s scan) ([]entities.ReconciliationIssue, error) {
	var issues []entities.ReconciliationIssue
	siblings := make(map[string][]entities.Payment)
	for _, r := range s.refunds {
		resolved := false
		if r.RefundOfPaymentID != "" {
			if _, ok := s.byID[r.RefundOfPaymentID]; ok {
				resolved = true
			} else {
				orig, err := u.payments.GetByID(ctx, r.RefundOfPaymentID)
				if err != nil {
					return nil, err
				}
				resolved = orig.ID != ""
			}
		} else if r.OrderID != "" {
			list, ok := siblings[r.OrderID]
			if !ok {
				var err error
				list, err = u.payments.ListByOrderID(ctx, r.OrderID)
				if err != nil {
					return nil, err
				}
				siblings[r.OrderID] = list
			}
			for _, p := range list {
				if !p.IsRefund() && r.RefundsPayment(p) {
					resolved = true
					break
				}
			}
		}
		if resolved {
			continue
		}
		issues = append(issues, entities.ReconciliationIssue{
			Type:        entities.IssueOrphanPayment,
			Severity:    entities.SeverityMedium,
			PaymentID:   r.ID,
			OrderID:     r.OrderID,
			Actual:      r.Amount.StringFixed(2),
			Description: fmt.Sprintf("refund %s does not resolve to an original payment", r.TransactionID),
			Suggestion:  "Link the refund to its original payment or void it",
		})
	}
	return issues, nil
}

func amountMismatches(s scan) []entities.ReconciliationIssue {
	var issues []entities.ReconciliationIssue
	for _, p := range s.regular {
		o, ok := s.orders[p.OrderID]
		if !ok {
			continue
		}
		diff := o.TotalAmount.Sub(p.Amount)
		if diff.Abs().LessThanOrEqual(amountTolerance) {
			continue
		}
		severity := entities.SeverityMedium
		if diff.IsPositive() {
			severity = entities.SeverityHigh
		}
		abs := diff.Abs()
		issues = append(issues, entities.ReconciliationIssue{
			Type:        entities.IssueAmountMismatch,
			Severity:    severity,
			PaymentID:   p.ID,
			OrderID:     o.ID,
			OrderNumber: o.OrderNumber,
			Expected:    o.TotalAmount.StringFixed(2),
			Actual:      p.Amount.StringFixed(2),
			Difference:  &abs,
			Description: fmt.Sprintf("order %s total %s differs from payment amount %s", o.OrderNumber, o.TotalAmount.StringFixed(2), p.Amount.StringFixed(2)),
			Suggestion:  "Verify the amount charged at the provider and correct the order or payment",
		})
	}
	return issues
}

func statusMismatches(s scan) []entities.ReconciliationIssue {
	var issues []entities.ReconciliationIssue
	for _, p := range s.regular {
		o, ok := s.orders[p.OrderID]
		if !ok {
			continue
		}
		var expected entities.PaymentStatus
		var description string
		switch {
		case o.Status == entities.OrderStatusDelivered && p.Status != entities.PaymentStatusCompleted:
			expected = entities.PaymentStatusCompleted
			description = fmt.Sprintf("order %s is delivered but payment is %s", o.OrderNumber, p.Status)
		case o.Status == entities.OrderStatusPending && p.Status == entities.PaymentStatusCompleted:
			expected = entities.PaymentStatusPending
			description = fmt.Sprintf("order %s is pending but payment is completed", o.OrderNumber)
		default:
			continue
		}
		issues = append(issues, entities.ReconciliationIssue{
			Type:        entities.IssueStatusMismatch,
			Severity:    entities.SeverityMedium,
			PaymentID:   p.ID,
			OrderID:     o.ID,
			OrderNumber: o.OrderNumber,
			Expected:    string(expected),
			Actual:      string(p.Status),
			Description: description,
			Suggestion:  fmt.Sprintf("Set payment status to %s", expected),
			AutoFixable: true,
		})
	}
	return issues
}

func missingPayments(s scan) []entities.ReconciliationIssue {
	paid := make(map[string]bool, len(s.regular))
	for _, p := range s.regular {
		paid[p.OrderID] = true
	}
	var issues []entities.ReconciliationIssue
	for _, o := range s.dayOrder {
		if o.PaymentStatus != entities.OrderPaymentPaid || paid[o.ID] {
			continue
		}
		issues = append(issues, entities.ReconciliationIssue{
			Type:        entities.IssueMissingPayment,
			Severity:    entities.SeverityHigh,
			OrderID:     o.ID,
			OrderNumber: o.OrderNumber,
			Expected:    o.TotalAmount.StringFixed(2),
			Description: fmt.Sprintf("order %s is marked paid but has no payment record", o.OrderNumber),
			Suggestion:  "Check the provider dashboard and record the missing payment",
		})
	}
	return issues
}

func duplicatePayments(s scan) []entities.ReconciliationIssue {
	byOrder := make(map[string][]string)
	var seen []string
	for _, p := range s.regular {
		if p.OrderID == "" {
			continue
		}
		if _, ok := byOrder[p.OrderID]; !ok {
			seen = append(seen, p.OrderID)
		}
		byOrder[p.OrderID] = append(byOrder[p.OrderID], p.ID)
	}
	var issues []entities.ReconciliationIssue
	for _, orderID := range seen {
		ids := byOrder[orderID]
		if len(ids) < 2 {
			continue
		}
		issues = append(issues, entities.ReconciliationIssue{
			Type:        entities.IssueDuplicatePayment,
			Severity:    entities.SeverityHigh,
			PaymentIDs:  ids,
			OrderID:     orderID,
			OrderNumber: s.orders[orderID].OrderNumber,
			Actual:      fmt.Sprintf("%d payments", len(ids)),
			Expected:    "1 payment",
			Description: fmt.Sprintf("order %s has %d payments", orderID, len(ids)),
			Suggestion:  "Refund or void the extra payments",
		})
	}
	return issues
}

func orphanPayments(s scan) []entities.ReconciliationIssue {
	var issues []entities.ReconciliationIssue
	for _, p := range s.regular {
		if _, ok := s.orders[p.OrderID]; ok {
			continue
		}
		issues = append(issues, entities.ReconciliationIssue{
			Type:        entities.IssueOrphanPayment,
			Severity:    entities.SeverityMedium,
			PaymentID:   p.ID,
			OrderID:     p.OrderID,
			Actual:      p.Amount.StringFixed(2),
			Description: fmt.Sprintf("payment %s references order %q that does not exist", p.ID, p.OrderID),
			Suggestion:  "Attach the payment to its order or refund it",
		})
	}
	return issues
}

func summarize(s scan, report entities.ReconciliationReport) entities.ReconciliationSummary {
	sum := entities.ReconciliationSummary{
		PaymentsScanned:  len(s.regular),
		OrdersScanned:    len(s.dayOrder),
		RefundsScanned:   len(s.refunds),
		ByType:           make(map[entities.IssueType]int),
		BySeverity:       make(map[entities.Severity]int),
		TotalDiscrepancy: decimal.Zero,
		AutoFixed:        len(report.FixedIssues),
	}
	count := func(issue entities.ReconciliationIssue) {
		sum.TotalIssues++
		sum.ByType[issue.Type]++
		sum.BySeverity[issue.Severity]++
		if issue.Type == entities.IssueAmountMismatch && issue.Difference != nil {
			sum.TotalDiscrepancy = sum.TotalDiscrepancy.Add(*issue.Difference)
		}
	}
	for _, issue := range report.Issues {
		count(issue)
	}
	for _, issue := range report.FixedIssues {
		count(issue)
	}
	return sum
}
