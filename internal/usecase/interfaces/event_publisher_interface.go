package interfaces

import (
	"context"

	"storefront_billing/internal/domain/entities"
)

// IEventPublisher announces stored state changes to other services.
type IEventPublisher interface {
	Publish(ctx context.Context, event entities.DomainEvent) error
}
