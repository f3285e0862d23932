package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/teranos/nodegraph/db"
	"github.com/teranos/nodegraph/errors"
	grapherr "github.com/teranos/nodegraph/graph/error"
)

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		return errors.Wrap(err, "failed to encode JSON")
	}
	return nil
}

// writeError writes a JSON error response
func writeError(w http.ResponseWriter, status int, message string) {
	_ = writeJSON(w, status, map[string]string{"error": message})
}

// writeGraphError writes err as an ErrorMessage with a status derived from
// its graph error category
func writeGraphError(w http.ResponseWriter, err error) {
	_ = writeJSON(w, statusFor(err), errorMessage(err))
}

// statusFor maps graph error categories onto HTTP status codes
func statusFor(err error) int {
	if db.IsDatabaseClosed(err) {
		return http.StatusServiceUnavailable
	}
	var ge *grapherr.GraphError
	if !errors.As(err, &ge) {
		return http.StatusInternalServerError
	}
	switch ge.Category {
	case grapherr.CategoryParse, grapherr.CategoryLayout, grapherr.CategoryImport:
		return http.StatusBadRequest
	case grapherr.CategoryFilter:
		if ge.Subcategory == grapherr.SubcategoryFilterUnknownFocus {
			return http.StatusNotFound
		}
		return http.StatusBadRequest
	case grapherr.CategoryStorage:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// requireMethod checks if the request method matches the expected method
func requireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return false
	}
	return true
}

// floatParam reads a positive float query parameter, falling back to def
// when it is absent
func floatParam(r *http.Request, name string, def float64) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 {
		return 0, errors.Newf("%s must be a positive number, got %q", name, raw)
	}
	return v, nil
}

// intParam reads a non-negative integer query parameter, falling back to def
// when it is absent
func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, errors.Newf("%s must be a non-negative integer, got %q", name, raw)
	}
	return v, nil
}
