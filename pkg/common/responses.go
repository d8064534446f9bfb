package common

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	pkgerrors "supramolecular/pkg/errors"
)

// RespondJSON sends a JSON response
func RespondJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// ParseJSONBody decodes a JSON request body with a size limit. Unknown
// fields are rejected.
func ParseJSONBody(w http.ResponseWriter, r *http.Request, v interface{}, maxBytes int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return pkgerrors.NewValidationErrorf("request body exceeds %d bytes", tooLarge.Limit).
				WithCode("BODY_TOO_LARGE")
		case errors.Is(err, io.EOF):
			return pkgerrors.NewValidationError("request body is empty")
		}
		return pkgerrors.NewValidationError("invalid request body").WithCause(err)
	}
	if decoder.More() {
		return pkgerrors.NewValidationError("request body has trailing data")
	}
	return nil
}
