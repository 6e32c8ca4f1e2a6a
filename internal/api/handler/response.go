package handler

import (
	"customer-management/internal/api/handler/dto"
	"customer-management/internal/domain/customer"
	"customer-management/internal/pkg/apperrors"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const maxBodyBytes = 1 << 20

func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return fmt.Errorf("no request body")
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	if payload == nil {
		w.WriteHeader(status)
		return
	}
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Default().Error("Failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":{"message":"Internal server error"}}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

func respondError(w http.ResponseWriter, err error) {
	status, message, field, code := http.StatusInternalServerError, "An unexpected error occurred.", "", ""
	var validationError *apperrors.ValidationError
	var appErr *apperrors.AppError

	switch {
	case errors.As(err, &validationError):
		status, message, field = http.StatusBadRequest, validationError.Message, validationError.Field
	case errors.Is(err, customer.ErrDuplicateExternalID):
		status, message, field = http.StatusBadRequest, customer.ErrDuplicateExternalID.Error(), "externalCustomerId"
	case errors.Is(err, apperrors.ErrNotFound):
		status, message = http.StatusNotFound, "Resource not found."
	case errors.Is(err, apperrors.ErrInvalidArgument), errors.Is(err, apperrors.ErrValidation):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, apperrors.ErrNoData):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, apperrors.ErrAlreadyExists):
		status, message = http.StatusConflict, "Resource already exists."
	case errors.As(err, &appErr):
		code, message = appErr.Code, appErr.Message
		slog.Default().Error("Internal error", "error", err)
	default:
		slog.Default().Error("Unhandled internal error", "error", err)
	}

	resp := dto.ErrorResponse{
		Error: dto.ErrorDetail{
			Code:    code,
			Message: message,
			Field:   field,
		},
	}
	respondJSON(w, status, resp)
}

// setEntityAlert writes the alert headers clients use to show a notification
// for a mutating call, e.g. X-app-alert: app.customer.created.
func setEntityAlert(w http.ResponseWriter, appName, entity, action string, id int64) {
	w.Header().Set("X-"+appName+"-alert", appName+"."+entity+"."+action)
	w.Header().Set("X-"+appName+"-params", strconv.FormatInt(id, 10))
}

// setPaginationHeaders writes X-Total-Count and an RFC 5988 Link header.
func setPaginationHeaders(w http.ResponseWriter, u *url.URL, page *customer.Page) {
	w.Header().Set("X-Total-Count", strconv.FormatInt(page.Total, 10))

	pageLink := func(n int, rel string) string {
		q := u.Query()
		q.Set("page", strconv.Itoa(n))
		q.Set("size", strconv.Itoa(page.Size))
		return fmt.Sprintf(`<%s?%s>; rel="%s"`, u.Path, q.Encode(), rel)
	}

	lastPage := page.TotalPages() - 1
	if lastPage < 0 {
		lastPage = 0
	}
	var links []string
	if page.Page < lastPage {
		links = append(links, pageLink(page.Page+1, "next"))
	}
	if page.Page > 0 {
		links = append(links, pageLink(page.Page-1, "prev"))
	}
	links = append(links, pageLink(lastPage, "last"), pageLink(0, "first"))
	w.Header().Set("Link", strings.Join(links, ","))
}
