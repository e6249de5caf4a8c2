// Package httputil centralizes JSON response writing and domain error
// translation so handlers stay thin.
package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "hangar/pkg/domain-errors"
)

// errorBody is the wire shape for every rejected operation.
type errorBody struct {
	Error       string `json:"error"`
	Description string `json:"error_description,omitempty"`
}

// statusByCode maps domain error codes to HTTP statuses. Codes absent from
// the map are treated as internal.
var statusByCode = map[dErrors.Code]int{
	dErrors.CodeBadRequest:   http.StatusBadRequest,
	dErrors.CodeInvalidInput: http.StatusBadRequest,
	dErrors.CodeNotFound:     http.StatusNotFound,
	dErrors.CodeConflict:     http.StatusConflict,
	dErrors.CodeUnauthorized: http.StatusUnauthorized,
	dErrors.CodeForbidden:    http.StatusForbidden,

	dErrors.CodeInvalidMetadata:     http.StatusUnprocessableEntity,
	dErrors.CodeMintingDisabled:     http.StatusConflict,
	dErrors.CodeSupplyExhausted:     http.StatusConflict,
	dErrors.CodeSupplyLimitDecrease: http.StatusUnprocessableEntity,
	dErrors.CodeNotAllowlisted:      http.StatusForbidden,

	dErrors.CodeNotOwner:          http.StatusForbidden,
	dErrors.CodeInvalidPrice:      http.StatusUnprocessableEntity,
	dErrors.CodeNotListed:         http.StatusConflict,
	dErrors.CodeAlreadyListed:     http.StatusConflict,
	dErrors.CodePriceMismatch:     http.StatusUnprocessableEntity,
	dErrors.CodeSelfPurchase:      http.StatusConflict,
	dErrors.CodeStaleListing:      http.StatusConflict,
	dErrors.CodeReentrantCall:     http.StatusConflict,
	dErrors.CodeInsufficientFunds: http.StatusPaymentRequired,
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Decode parses the request body into T. On failure it writes a bad_request
// response and reports false; the handler should return immediately.
func Decode[T any](w http.ResponseWriter, r *http.Request) (T, bool) {
	var v T
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "malformed request body"))
		var zero T
		return zero, false
	}
	return v, true
}

// WriteError translates a domain error into an HTTP response. The specific
// failure kind always reaches the caller; internal error details do not.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	status, ok := statusByCode[code]
	if !ok {
		code = dErrors.CodeInternal
		status = http.StatusInternalServerError
	}

	body := errorBody{Error: string(code)}
	if code != dErrors.CodeInternal {
		var de *dErrors.Error
		if errors.As(err, &de) {
			body.Description = de.Message()
		}
	}
	WriteJSON(w, status, body)
}
