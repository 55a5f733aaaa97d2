// Package handlers provides HTTP handlers for InvestPro.
package handlers

import (
	"encoding/json"
	stderrors "errors"
	"log"
	"net/http"

	"investpro/internal/errors"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// writeError maps an error to its HTTP status and writes it as JSON.
// Internal errors are logged and collapsed into a generic message so
// details never leak to the client.
func writeError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)

	message := "An error occurred. Please try again."
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		message = appErr.Message
	}
	if status >= http.StatusInternalServerError {
		log.Printf("Request error: %v", err)
	}

	writeJSON(w, status, map[string]string{"error": message})
}

// decodeJSON decodes a request body into v, capping the body size.
func decodeJSON(r *http.Request, v any) error {
	body := http.MaxBytesReader(nil, r.Body, 1<<20)
	defer body.Close()

	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Validation("invalid request body")
	}
	return nil
}
