package handler

import (
	"customer-management/internal/api/handler/dto"
	"customer-management/internal/domain/customer"
	"customer-management/internal/pkg/apperrors"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

const (
	customerEntity = "customer"

	maxImportBytes = 10 << 20

	contentTypeJSON       = "application/json"
	contentTypeMergePatch = "application/merge-patch+json"
)

type CustomerHandler struct {
	service customer.CustomerService
	appName string
	logger  *slog.Logger
}

func NewCustomerHandler(s customer.CustomerService, appName string, l *slog.Logger) *CustomerHandler {
	if s == nil {
		panic("customer service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &CustomerHandler{
		service: s,
		appName: appName,
		logger:  l.With("component", "CustomerHandler"),
	}
}

func getCustomerIDFromURL(r *http.Request) (int64, error) {
	idStr := chi.URLParam(r, "customerID")
	if idStr == "" {
		return 0, fmt.Errorf("%w: customerID not found in URL path", apperrors.ErrInvalidArgument)
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid customerID format in URL path: %s", apperrors.ErrInvalidArgument, idStr)
	}
	return id, nil
}

// checkBodyID enforces that an update body carries the id of the path.
func checkBodyID(bodyID *int64, pathID int64) error {
	if bodyID == nil {
		return fmt.Errorf("%w: invalid id", apperrors.ErrInvalidArgument)
	}
	if *bodyID != pathID {
		return fmt.Errorf("%w: invalid ID", apperrors.ErrInvalidArgument)
	}
	return nil
}

// updateError turns a missing customer into a client error for PUT and PATCH.
func updateError(err error) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("%w: entity not found", apperrors.ErrInvalidArgument)
	}
	return err
}

func logLevelFor(err error) slog.Level {
	var validationError *apperrors.ValidationError
	if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrInvalidArgument) ||
		errors.As(err, &validationError) || errors.Is(err, customer.ErrDuplicateExternalID) {
		return slog.LevelWarn
	}
	return slog.LevelError
}

// CreateCustomer handles POST /api/customers
// @Summary Create a new customer
// @Description Creates a customer. The id is assigned by the server and must not be sent.
// @Tags Customers
// @Accept json
// @Produce json
// @Param request body dto.CustomerRequest true "Customer to create"
// @Success 201 {object} dto.CustomerResponse "Customer successfully created"
// @Header 201 {string} Location "URL of the new customer"
// @Failure 400 {object} dto.ErrorResponse "Invalid payload, id present or duplicate externalCustomerId"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/customers [post]
func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	h.logger.DebugContext(r.Context(), "Received create customer request")

	var req dto.CustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if req.ID != nil {
		respondError(w, fmt.Errorf("%w: a new customer cannot already have an ID", apperrors.ErrInvalidArgument))
		return
	}

	cust, err := req.ToDomain()
	if err != nil {
		h.logger.WarnContext(r.Context(), "Request validation failed", slog.Any("error", err))
		respondError(w, err)
		return
	}

	created, err := h.service.CreateCustomer(r.Context(), cust)
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to create customer", slog.Any("error", err))
		respondError(w, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/customers/%d", created.CustomerID))
	setEntityAlert(w, h.appName, customerEntity, "created", created.CustomerID)
	h.logger.InfoContext(r.Context(), "Customer created successfully", slog.Int64("customerID", created.CustomerID))
	respondJSON(w, http.StatusCreated, dto.NewCustomerResponse(created))
}

// GetCustomer handles GET /api/customers/{customerID}
// @Summary Retrieve a customer
// @Tags Customers
// @Produce json
// @Param customerID path int true "Customer ID" Minimum(1)
// @Success 200 {object} dto.CustomerResponse "Customer details retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid customer ID format"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/customers/{customerID} [get]
func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := getCustomerIDFromURL(r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to get customer ID from URL", slog.Any("error", err))
		respondError(w, err)
		return
	}

	cust, err := h.service.GetCustomer(r.Context(), customerID)
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to get customer", slog.Any("error", err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewCustomerResponse(cust))
}

// UpdateCustomer handles PUT /api/customers/{customerID}
// @Summary Replace a customer
// @Description Replaces every field of an existing customer. The body id must match the path id.
// @Tags Customers
// @Accept json
// @Produce json
// @Param customerID path int true "Customer ID" Minimum(1)
// @Param request body dto.CustomerRequest true "Full customer"
// @Success 200 {object} dto.CustomerResponse "Customer updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid payload, id mismatch or unknown customer"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/customers/{customerID} [put]
func (h *CustomerHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := getCustomerIDFromURL(r)
	if err != nil {
		respondError(w, err)
		return
	}
	log := h.logger.With(slog.Int64("customerID", customerID))

	var req dto.CustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		log.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := checkBodyID(req.ID, customerID); err != nil {
		respondError(w, err)
		return
	}

	cust, err := req.ToDomain()
	if err != nil {
		respondError(w, err)
		return
	}

	updated, err := h.service.UpdateCustomer(r.Context(), cust)
	if err != nil {
		log.Log(r.Context(), logLevelFor(err), "Service failed to update customer", slog.Any("error", err))
		respondError(w, updateError(err))
		return
	}

	setEntityAlert(w, h.appName, customerEntity, "updated", updated.CustomerID)
	log.InfoContext(r.Context(), "Customer updated successfully")
	respondJSON(w, http.StatusOK, dto.NewCustomerResponse(updated))
}

// PatchCustomer handles PATCH /api/customers/{customerID}
// @Summary Partially update a customer
// @Description Applies a JSON merge patch: only the members present in the body change.
// @Tags Customers
// @Accept json,application/merge-patch+json
// @Produce json
// @Param customerID path int true "Customer ID" Minimum(1)
// @Param request body dto.CustomerPatchRequest true "Fields to change, including the id"
// @Success 200 {object} dto.CustomerResponse "Customer updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid payload, id mismatch or unknown customer"
// @Failure 415 {object} dto.ErrorResponse "Unsupported content type"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/customers/{customerID} [patch]
func (h *CustomerHandler) PatchCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := getCustomerIDFromURL(r)
	if err != nil {
		respondError(w, err)
		return
	}
	log := h.logger.With(slog.Int64("customerID", customerID))

	if mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err != nil ||
		(mediaType != contentTypeJSON && mediaType != contentTypeMergePatch) {
		respondJSON(w, http.StatusUnsupportedMediaType, dto.ErrorResponse{Error: dto.ErrorDetail{
			Message: "Content-Type must be application/json or application/merge-patch+json",
		}})
		return
	}

	var req dto.CustomerPatchRequest
	if err := decodeJSON(r, &req); err != nil {
		log.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := checkBodyID(req.ID, customerID); err != nil {
		respondError(w, err)
		return
	}

	patch, err := req.ToPatch()
	if err != nil {
		respondError(w, err)
		return
	}

	patched, err := h.service.PatchCustomer(r.Context(), customerID, patch)
	if err != nil {
		log.Log(r.Context(), logLevelFor(err), "Service failed to patch customer", slog.Any("error", err))
		respondError(w, updateError(err))
		return
	}

	setEntityAlert(w, h.appName, customerEntity, "updated", patched.CustomerID)
	log.InfoContext(r.Context(), "Customer patched successfully")
	respondJSON(w, http.StatusOK, dto.NewCustomerResponse(patched))
}

// DeleteCustomer handles DELETE /api/customers/{customerID}
// @Summary Delete a customer
// @Tags Customers
// @Param customerID path int true "Customer ID" Minimum(1)
// @Success 204 "Customer deleted"
// @Failure 400 {object} dto.ErrorResponse "Invalid customer ID format"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/customers/{customerID} [delete]
func (h *CustomerHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := getCustomerIDFromURL(r)
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.service.DeleteCustomer(r.Context(), customerID); err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to delete customer", slog.Int64("customerID", customerID), slog.Any("error", err))
		respondError(w, err)
		return
	}

	setEntityAlert(w, h.appName, customerEntity, "deleted", customerID)
	h.logger.InfoContext(r.Context(), "Customer deleted successfully", slog.Int64("customerID", customerID))
	respondJSON(w, http.StatusNoContent, nil)
}

// ListCustomers handles GET /api/customers
// @Summary List customers
// @Description Returns one page of customers sorted by name. Paging links are in the Link header.
// @Tags Customers
// @Produce json
// @Param page query int false "Zero-based page index" default(0) minimum(0)
// @Param size query int false "Page size" default(20) minimum(1) maximum(100)
// @Success 200 {array} dto.CustomerResponse "Customers"
// @Header 200 {integer} X-Total-Count "Total number of customers"
// @Header 200 {string} Link "RFC 5988 paging links"
// @Failure 400 {object} dto.ErrorResponse "Invalid paging parameters"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/customers [get]
func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	pageNum, err := queryInt(r, "page", 0)
	if err != nil {
		respondError(w, err)
		return
	}
	size, err := queryInt(r, "size", customer.DefaultPageSize)
	if err != nil {
		respondError(w, err)
		return
	}

	page, err := h.service.ListCustomers(r.Context(), pageNum, size)
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to list customers", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := make([]dto.CustomerResponse, len(page.Customers))
	for i, cust := range page.Customers {
		resp[i] = dto.NewCustomerResponse(cust)
	}

	setPaginationHeaders(w, r.URL, page)
	respondJSON(w, http.StatusOK, resp)
}

// CountCustomers handles GET /api/customers/count
// @Summary Count customers
// @Tags Customers
// @Produce json
// @Success 200 {integer} int "Number of customers"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/customers/count [get]
func (h *CustomerHandler) CountCustomers(w http.ResponseWriter, r *http.Request) {
	total, err := h.service.CountCustomers(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, total)
}

// ImportCSV handles POST /api/customers/import-csv
// @Summary Import customers from CSV
// @Description Reads a CSV file with the header name,gender,birthDate,externalCustomerId. Every row is validated first and all rows are inserted in one transaction.
// @Tags Customers
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file"
// @Success 201 {object} dto.ImportResponse "Number of imported customers"
// @Failure 400 {object} dto.ErrorResponse "Missing file or invalid row"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/customers/import-csv [post]
func (h *CustomerHandler) ImportCSV(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		h.logger.WarnContext(r.Context(), "Import request without a readable file", slog.Any("error", err))
		respondError(w, apperrors.NewValidationError("file", "a CSV file is required in form field 'file'"))
		return
	}
	defer file.Close()

	log := h.logger.With(slog.String("filename", header.Filename), slog.Int64("size", header.Size))
	imported, err := h.service.ImportCSV(r.Context(), file)
	if err != nil {
		log.Log(r.Context(), logLevelFor(err), "Service failed to import customers", slog.Any("error", err))
		respondError(w, err)
		return
	}

	log.InfoContext(r.Context(), "Customers imported successfully", slog.Int("count", imported))
	respondJSON(w, http.StatusCreated, dto.ImportResponse{Imported: imported})
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.NewValidationError(name, "must be an integer")
	}
	return v, nil
}
