package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/luisltferreira/CliMate-App/internal/domain"
)

const (
	codeMethodNotAllowed    = "method_not_allowed"
	codeNotFound            = "not_found"
	codeInvalidRequestBody  = "invalid_request_body"
	codeValidationError     = "validation_error"
	codeNameRequired        = "name_required"
	codeUserRequired        = "user_required"
	codeUserNotFound        = "user_not_found"
	codeEventNotFound       = "event_not_found"
	codeInvalidID           = "invalid_id"
	codeInvalidCoordinates  = "invalid_coordinates"
	codeLocationRequired    = "location_required"
	codeInvalidStep         = "invalid_step"
	codeAddressNotFound     = "address_not_found"
	codePermissionDenied    = "permission_denied"
	codeStorageUnavailable  = "storage_unavailable"
	codeForbidden           = "forbidden"
	codeInternalError       = "internal_error"
)

type errorResponse struct {
	Error  string   `json:"error"`
	Code   string   `json:"code"`
	Fields []string `json:"fields,omitempty"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeErrorFields(w, status, code, msg, nil)
}

func writeErrorFields(w http.ResponseWriter, status int, code, msg string, fields []string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error:  msg,
		Code:   code,
		Fields: fields,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

func isStorageUnavailable(err error) bool {
	return errors.Is(err, domain.ErrStorageUnavailable)
}

// writeValidationError reports every violated field, not just the first.
func writeValidationError(w http.ResponseWriter, verr *domain.ValidationError) {
	writeErrorFields(w, http.StatusBadRequest, codeValidationError, verr.Error(), verr.Fields)
}
