package common

import (
	"net/http"
	"strconv"

	pkgerrors "supramolecular/pkg/errors"
)

// ExtractLimit reads the limit query parameter. Zero means "use the default".
func ExtractLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, pkgerrors.NewValidationErrorf("limit must be a non-negative integer, got %q", raw)
	}
	return limit, nil
}
