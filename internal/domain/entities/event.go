package entities

import "time"

type EventType string

const (
	EventPaymentStatusChanged    EventType = "payment.status_changed"
	EventPaymentRefunded         EventType = "payment.refunded"
	EventReconciliationCompleted EventType = "reconciliation.completed"
	EventOrderStatusChanged      EventType = "order.status_changed"
)

// DomainEvent is published after a state change has been stored.
type DomainEvent struct {
	Type       EventType   `json:"type"`
	Key        string      `json:"key"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}
