package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/Dan9191/message-service/internal/service"
)

// writeJSON writes a JSON response with status code.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeDetail sends a single message under the "detail" key.
func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// parseError marks a request body that is not well-formed JSON.
type parseError struct{ err error }

func (e *parseError) Error() string { return "JSON parse error - " + e.err.Error() }

// decodeJSON reads the body into dst. An empty body decodes as an empty
// object; a value of the wrong type for a field becomes a validation error.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	err := dec.Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err == nil {
		if err = dec.Decode(&struct{}{}); errors.Is(err, io.EOF) {
			return nil
		}
		if err == nil {
			err = errors.New("unexpected data after the JSON value")
		}
		return &parseError{err: err}
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return &service.ValidationError{Fields: map[string][]string{
			typeErr.Field: {fmt.Sprintf("expected %s", typeErr.Type)},
		}}
	}
	return &parseError{err: err}
}

// writeError maps an error to its client-visible response. resource names
// the record kind in not-found messages.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, resource string, err error) {
	var verr *service.ValidationError
	var perr *parseError
	switch {
	case errors.As(err, &perr):
		writeDetail(w, http.StatusBadRequest, perr.Error())
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, verr.Fields)
	case errors.Is(err, service.ErrNotFound):
		writeDetail(w, http.StatusNotFound, fmt.Sprintf("No %s matches the given query.", resource))
	default:
		h.log.Errorf("%s %s failed: %v", r.Method, r.URL.Path, err)
		writeDetail(w, http.StatusInternalServerError, "internal server error")
	}
}
