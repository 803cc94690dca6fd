package server

import (
	"encoding/json"
	"net/http"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func SendJSON(w http.ResponseWriter, httpCode int, resp interface{}) {
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(httpCode)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, "Failed to encode response payload to JSON", http.StatusInternalServerError)
	}
}

func SendHTTPError(w http.ResponseWriter, httpCode int, kind string, err error) {
	SendJSON(w, httpCode, &ErrorResponse{
		Error: err.Error(),
		Kind:  kind,
	})
}
