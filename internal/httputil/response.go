package httputil

import (
	"encoding/json"
	"net/http"
)

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers already sent; nothing left to do.
			return
		}
	}
}

// WriteRawJSON writes pre-rendered JSON, e.g. a cached listing page.
func WriteRawJSON(w http.ResponseWriter, status int, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}

// WriteError writes a legacy single-key error payload, e.g.
// {"noprofile": "There is no profile for this user"}. The clients key off
// the field name, so the shape is part of the API contract.
func WriteError(w http.ResponseWriter, status int, key, message string) {
	WriteJSON(w, status, map[string]string{key: message})
}

// WriteErrors writes a field→message error map, the shape produced by the
// validation layer.
func WriteErrors(w http.ResponseWriter, status int, errs map[string]string) {
	WriteJSON(w, status, errs)
}

// WriteUnauthorized writes the standard pre-handler auth failure.
func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, "unauthorized", message)
}

// WriteInternalError writes a 500 with a generic error key.
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, "error", message)
}
