package entities

import "github.com/shopspring/decimal"

type IssueType string

const (
	IssueAmountMismatch   IssueType = "amount_mismatch"
	IssueStatusMismatch   IssueType = "status_mismatch"
	IssueMissingPayment   IssueType = "missing_payment"
	IssueDuplicatePayment IssueType = "duplicate_payment"
	IssueOrphanPayment    IssueType = "orphan_payment"
)

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// ReconciliationIssue is computed on every run and never stored.
type ReconciliationIssue struct {
	Type        IssueType        `json:"type"`
	Severity    Severity         `json:"severity"`
	PaymentID   string           `json:"payment_id,omitempty"`
	PaymentIDs  []string         `json:"payment_ids,omitempty"`
	OrderID     string           `json:"order_id,omitempty"`
	OrderNumber string           `json:"order_number,omitempty"`
	Expected    string           `json:"expected,omitempty"`
	Actual      string           `json:"actual,omitempty"`
	Difference  *decimal.Decimal `json:"difference,omitempty"`
	Description string           `json:"description"`
	Suggestion  string           `json:"suggestion"`
	AutoFixable bool             `json:"auto_fixable"`
}

type ReconciliationSummary struct {
	PaymentsScanned  int               `json:"payments_scanned"`
	OrdersScanned    int               `json:"orders_scanned"`
	RefundsScanned   int               `json:"refunds_scanned"`
	TotalIssues      int               `json:"total_issues"`
	ByType           map[IssueType]int `json:"by_type"`
	BySeverity       map[Severity]int  `json:"by_severity"`
	TotalDiscrepancy decimal.Decimal   `json:"total_discrepancy"`
	AutoFixed        int               `json:"auto_fixed"`
}

type ReconciliationReport struct {
	Date           string                `json:"date"`
	IncludePartial bool                  `json:"include_partial"`
	AutoFix        bool                  `json:"auto_fix"`
	Summary        ReconciliationSummary `json:"summary"`
	Issues         []ReconciliationIssue `json:"issues"`
	FixedIssues    []ReconciliationIssue `json:"fixed_issues"`
}
