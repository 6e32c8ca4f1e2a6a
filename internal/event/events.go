package event

import (
	"context"
	"time"
)

const (
	RoutingKeyCustomerCreated = "customer.created"
	RoutingKeyCustomerUpdated = "customer.updated"
	RoutingKeyCustomerDeleted = "customer.deleted"
	RoutingKeyReportRefreshed = "report.refreshed"
)

type EventPublisher interface {
	PublishCustomerCreated(ctx context.Context, event CustomerCreatedEvent) error
	PublishCustomerUpdated(ctx context.Context, event CustomerUpdatedEvent) error
	PublishCustomerDeleted(ctx context.Context, event CustomerDeletedEvent) error
	PublishReportRefreshed(ctx context.Context, event ReportRefreshedEvent) error
}

type CustomerEventPayload struct {
	CustomerID         int64      `json:"customerId"`
	Name               string     `json:"name"`
	Gender             string     `json:"gender"`
	BirthDate          string     `json:"birthDate"`
	ExternalCustomerID *string    `json:"externalCustomerId,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          *time.Time `json:"updatedAt,omitempty"`
}

type CustomerCreatedEvent struct {
	Timestamp time.Time            `json:"timestamp"`
	Payload   CustomerEventPayload `json:"payload"`
}

type CustomerUpdatedEvent struct {
	Timestamp time.Time            `json:"timestamp"`
	Payload   CustomerEventPayload `json:"payload"`
}

type CustomerDeletedEvent struct {
	Timestamp  time.Time `json:"timestamp"`
	CustomerID int64     `json:"customerId"`
}

type ReportRefreshedEvent struct {
	Timestamp  time.Time `json:"timestamp"`
	ReportType string    `json:"reportType"`
	ReportDate time.Time `json:"reportDate"`
	Data       string    `json:"data"`
}
