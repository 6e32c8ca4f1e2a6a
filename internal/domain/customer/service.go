package customer

import (
	"context"
	"customer-management/internal/event"
	"customer-management/internal/infrastructure/monitoring"
	"customer-management/internal/pkg/apperrors"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100

	customerNotFound = "Customer not found by repository"
)

type CustomerService interface {
	CreateCustomer(ctx context.Context, cust *Customer) (*Customer, error)
	GetCustomer(ctx context.Context, customerID int64) (*Customer, error)
	UpdateCustomer(ctx context.Context, cust *Customer) (*Customer, error)
	PatchCustomer(ctx context.Context, customerID int64, patch Patch) (*Customer, error)
	DeleteCustomer(ctx context.Context, customerID int64) error
	ListCustomers(ctx context.Context, page, size int) (*Page, error)
	CountCustomers(ctx context.Context) (int64, error)
	ImportCSV(ctx context.Context, r io.Reader) (int, error)
}

// Page is one slice of the customer list ordered by name.
type Page struct {
	Customers []*Customer
	Page      int
	Size      int
	Total     int64
}

func (p *Page) TotalPages() int {
	if p.Size <= 0 {
		return 0
	}
	return int((p.Total + int64(p.Size) - 1) / int64(p.Size))
}

var _ CustomerService = (*customerService)(nil)

type customerService struct {
	repo   CustomerRepository
	pub    event.EventPublisher
	logger *slog.Logger
}

func NewCustomerService(repo CustomerRepository, eventPublisher event.EventPublisher, logger *slog.Logger) CustomerService {
	if repo == nil {
		panic("customer repository cannot be nil")
	}

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCustomerService, using default stderr handler")
	}

	if eventPublisher == nil {
		logger.Warn("Warning: No event publisher provided to NewCustomerService, events will be dropped")
		eventPublisher = event.NewNoopPublisher(logger)
	}

	return &customerService{
		repo:   repo,
		pub:    eventPublisher,
		logger: logger.With(slog.String("component", "customerService")),
	}
}

func NewCustomerEventPayload(cust *Customer) event.CustomerEventPayload {
	if cust == nil {
		return event.CustomerEventPayload{}
	}
	return event.CustomerEventPayload{
		CustomerID:         cust.CustomerID,
		Name:               cust.Name,
		Gender:             string(cust.Gender),
		BirthDate:          cust.BirthDate.Format(DateLayout),
		ExternalCustomerID: cust.ExternalCustomerID,
		CreatedAt:          cust.CreatedAt,
		UpdatedAt:          cust.UpdatedAt,
	}
}

func (s *customerService) publishCreated(ctx context.Context, log *slog.Logger, cust *Customer) {
	createdEvent := event.CustomerCreatedEvent{
		Timestamp: time.Now(),
		Payload:   NewCustomerEventPayload(cust),
	}
	if err := s.pub.PublishCustomerCreated(ctx, createdEvent); err != nil {
		log.ErrorContext(ctx, "Customer created, but FAILED to publish creation event", slog.Any("error", err))
	}
}

func (s *customerService) publishUpdated(ctx context.Context, log *slog.Logger, cust *Customer) {
	updatedEvent := event.CustomerUpdatedEvent{
		Timestamp: time.Now(),
		Payload:   NewCustomerEventPayload(cust),
	}
	if err := s.pub.PublishCustomerUpdated(ctx, updatedEvent); err != nil {
		log.ErrorContext(ctx, "Customer updated, but FAILED to publish update event", slog.Any("error", err))
	}
}

func (s *customerService) CreateCustomer(ctx context.Context, cust *Customer) (*Customer, error) {
	s.logger.InfoContext(ctx, "Attempting to create new customer")

	if cust == nil {
		return nil, fmt.Errorf("%w: customer cannot be nil", apperrors.ErrInvalidArgument)
	}
	if cust.CustomerID != 0 {
		s.logger.WarnContext(ctx, "Validation failed: new customer already has an ID", slog.Int64("customerID", cust.CustomerID))
		return nil, fmt.Errorf("%w: a new customer cannot already have an ID", apperrors.ErrInvalidArgument)
	}
	if err := cust.Validate(); err != nil {
		s.logger.WarnContext(ctx, "Validation failed for new customer", slog.Any("error", err))
		return nil, err
	}

	if err := s.repo.Save(ctx, cust); err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to save new customer", slog.Any("error", err))
		return nil, s.translateSaveError(err, "failed to save new customer")
	}

	log := s.logger.With(slog.Int64("customerID", cust.CustomerID))
	monitoring.RecordCustomerCreated()
	s.publishCreated(ctx, log, cust)

	log.InfoContext(ctx, "Successfully created new customer")
	return cust, nil
}

func (s *customerService) GetCustomer(ctx context.Context, customerID int64) (*Customer, error) {
	log := s.logger.With(slog.Int64("customerID", customerID))
	log.DebugContext(ctx, "Attempting to get customer by ID")

	cust, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			log.WarnContext(ctx, customerNotFound)
			return nil, apperrors.ErrNotFound
		}
		log.ErrorContext(ctx, "Repository error finding customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get customer %d: %w", customerID, err)
	}

	return cust, nil
}

// UpdateCustomer replaces every mutable field of an existing customer.
// The stored createdAt is kept whatever the caller sent.
func (s *customerService) UpdateCustomer(ctx context.Context, cust *Customer) (*Customer, error) {
	if cust == nil {
		return nil, fmt.Errorf("%w: customer cannot be nil", apperrors.ErrInvalidArgument)
	}
	log := s.logger.With(slog.Int64("customerID", cust.CustomerID))
	log.InfoContext(ctx, "Attempting to update customer")

	if cust.CustomerID <= 0 {
		return nil, fmt.Errorf("%w: invalid id", apperrors.ErrInvalidArgument)
	}
	if err := cust.Validate(); err != nil {
		log.WarnContext(ctx, "Validation failed for customer update", slog.Any("error", err))
		return nil, err
	}

	existing, err := s.GetCustomer(ctx, cust.CustomerID)
	if err != nil {
		return nil, err
	}
	cust.CreatedAt = existing.CreatedAt

	if err := s.repo.Save(ctx, cust); err != nil {
		log.ErrorContext(ctx, "Repository failed to save updated customer", slog.Any("error", err))
		return nil, s.translateSaveError(err, fmt.Sprintf("failed to update customer %d", cust.CustomerID))
	}

	s.publishUpdated(ctx, log, cust)
	log.InfoContext(ctx, "Successfully updated customer")
	return cust, nil
}

func (s *customerService) PatchCustomer(ctx context.Context, customerID int64, patch Patch) (*Customer, error) {
	log := s.logger.With(slog.Int64("customerID", customerID))
	log.InfoContext(ctx, "Attempting to patch customer")

	cust, err := s.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		log.InfoContext(ctx, "Empty patch, nothing to save")
		return cust, nil
	}

	cust.ApplyPatch(patch)
	if err := cust.Validate(); err != nil {
		log.WarnContext(ctx, "Validation failed for patched customer", slog.Any("error", err))
		return nil, err
	}

	if err := s.repo.Save(ctx, cust); err != nil {
		log.ErrorContext(ctx, "Repository failed to save patched customer", slog.Any("error", err))
		return nil, s.translateSaveError(err, fmt.Sprintf("failed to patch customer %d", customerID))
	}

	s.publishUpdated(ctx, log, cust)
	log.InfoContext(ctx, "Successfully patched customer")
	return cust, nil
}

func (s *customerService) DeleteCustomer(ctx context.Context, customerID int64) error {
	log := s.logger.With(slog.Int64("customerID", customerID))
	log.InfoContext(ctx, "Attempting to delete customer")

	if err := s.repo.Delete(ctx, customerID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			log.WarnContext(ctx, customerNotFound)
			return apperrors.ErrNotFound
		}
		log.ErrorContext(ctx, "Repository error deleting customer", slog.Any("error", err))
		return fmt.Errorf("failed to delete customer %d: %w", customerID, err)
	}

	deletedEvent := event.CustomerDeletedEvent{Timestamp: time.Now(), CustomerID: customerID}
	if err := s.pub.PublishCustomerDeleted(ctx, deletedEvent); err != nil {
		log.ErrorContext(ctx, "Customer deleted, but FAILED to publish deletion event", slog.Any("error", err))
	}

	log.InfoContext(ctx, "Successfully deleted customer")
	return nil
}

func (s *customerService) ListCustomers(ctx context.Context, page, size int) (*Page, error) {
	if page < 0 {
		return nil, apperrors.NewValidationError("page", "must not be negative")
	}
	if size < 1 || size > MaxPageSize {
		return nil, apperrors.NewValidationError("size", fmt.Sprintf("must be between 1 and %d", MaxPageSize))
	}
	log := s.logger.With(slog.Int("page", page), slog.Int("size", size))

	total, err := s.repo.Count(ctx)
	if err != nil {
		log.ErrorContext(ctx, "Repository error counting customers", slog.Any("error", err))
		return nil, fmt.Errorf("failed to count customers: %w", err)
	}

	customers, err := s.repo.FindPage(ctx, page*size, size)
	if err != nil {
		log.ErrorContext(ctx, "Repository error listing customers", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	log.DebugContext(ctx, "Listed customers", slog.Int("count", len(customers)), slog.Int64("total", total))
	return &Page{Customers: customers, Page: page, Size: size, Total: total}, nil
}

func (s *customerService) CountCustomers(ctx context.Context) (int64, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository error counting customers", slog.Any("error", err))
		return 0, fmt.Errorf("failed to count customers: %w", err)
	}
	return total, nil
}

// ImportCSV validates every row before writing anything, then inserts all
// customers in one transaction.
func (s *customerService) ImportCSV(ctx context.Context, r io.Reader) (int, error) {
	s.logger.InfoContext(ctx, "Attempting to import customers from CSV")

	customers, err := ParseCSV(r)
	if err != nil {
		s.logger.WarnContext(ctx, "CSV import rejected", slog.Any("error", err))
		return 0, err
	}

	if err := s.repo.SaveAll(ctx, customers); err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to import customers", slog.Any("error", err))
		return 0, s.translateSaveError(err, "failed to import customers")
	}

	monitoring.RecordCustomersImported(len(customers))
	for _, cust := range customers {
		s.publishCreated(ctx, s.logger.With(slog.Int64("customerID", cust.CustomerID)), cust)
	}

	s.logger.InfoContext(ctx, "Successfully imported customers", slog.Int("count", len(customers)))
	return len(customers), nil
}

func (s *customerService) translateSaveError(err error, msg string) error {
	switch {
	case errors.Is(err, apperrors.ErrAlreadyExists):
		return fmt.Errorf("%w: %w", ErrDuplicateExternalID, err)
	case errors.Is(err, apperrors.ErrNotFound):
		return apperrors.ErrNotFound
	default:
		return fmt.Errorf("%s: %w", msg, err)
	}
}
