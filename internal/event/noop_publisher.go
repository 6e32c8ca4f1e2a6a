package event

import (
	"context"
	"log/slog"
)

// NoopPublisher drops every event. It stands in when RabbitMQ is disabled.
type NoopPublisher struct {
	logger *slog.Logger
}

var _ EventPublisher = (*NoopPublisher)(nil)

func NewNoopPublisher(logger *slog.Logger) *NoopPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &NoopPublisher{logger: logger.With("component", "NoopPublisher")}
}

func (p *NoopPublisher) PublishCustomerCreated(ctx context.Context, _ CustomerCreatedEvent) error {
	return p.drop(ctx, RoutingKeyCustomerCreated)
}

func (p *NoopPublisher) PublishCustomerUpdated(ctx context.Context, _ CustomerUpdatedEvent) error {
	return p.drop(ctx, RoutingKeyCustomerUpdated)
}

func (p *NoopPublisher) PublishCustomerDeleted(ctx context.Context, _ CustomerDeletedEvent) error {
	return p.drop(ctx, RoutingKeyCustomerDeleted)
}

func (p *NoopPublisher) PublishReportRefreshed(ctx context.Context, _ ReportRefreshedEvent) error {
	return p.drop(ctx, RoutingKeyReportRefreshed)
}

func (p *NoopPublisher) drop(ctx context.Context, routingKey string) error {
	p.logger.DebugContext(ctx, "Event publishing disabled, dropping event", slog.String("routingKey", routingKey))
	return nil
}
