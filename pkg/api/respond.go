package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Sternrassler/catalog-api/pkg/catalog"
	"github.com/Sternrassler/catalog-api/pkg/logging"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Detail string               `json:"detail"`
	Errors []catalog.FieldError `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps an error kind onto an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, catalog.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, catalog.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, catalog.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, catalog.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError sends the error response for err. Server-side failures are
// logged and their details withheld from the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	body := errorBody{Detail: err.Error()}

	var catErr *catalog.Error
	if errors.As(err, &catErr) {
		body.Detail = catErr.Message
		body.Errors = catErr.Fields
	}

	switch status {
	case http.StatusServiceUnavailable:
		logging.FromContext(r.Context()).Error().Err(err).Msg("Dependency unavailable")
		body = errorBody{Detail: "service temporarily unavailable"}
	case http.StatusInternalServerError:
		logging.FromContext(r.Context()).Error().Err(err).Msg("Unhandled error")
		body = errorBody{Detail: "internal server error"}
	}

	writeJSON(w, status, body)
}

func invalid(msg string, fields ...catalog.FieldError) error {
	return &catalog.Error{Kind: catalog.ErrInvalidArgument, Message: msg, Fields: fields}
}
