package providers

import (
	"net/http"

	json "github.com/goccy/go-json"
)

type errorResponse struct {
	Error string `json:"error"`
}

// WriteJSON writes an already encoded JSON body.
func WriteJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// WriteJSONError answers with {"error": message}.
func WriteJSONError(w http.ResponseWriter, status int, message string) {
	gson, err := json.Marshal(errorResponse{Error: message})
	if err != nil {
		http.Error(w, message, status)
		return
	}
	WriteJSON(w, status, gson)
}
