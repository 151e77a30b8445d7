package httphandler

import (
	"encoding/json"
	"net/http"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// TokenCheckResponse is the JSON representation of a credential validity check.
type TokenCheckResponse struct {
	Account string `json:"account"`
	Valid   bool   `json:"valid"`
}

// TokenExchangeResponse is the JSON representation of a completed grant exchange.
type TokenExchangeResponse struct {
	Account   string `json:"account"`
	MemberID  string `json:"member_id,omitempty"`
	ExpiresAt string `json:"expires_at"`
}

// CreatePostRequest is the JSON body for the on-demand publish endpoint.
type CreatePostRequest struct {
	Account   string `json:"account"`
	Text      string `json:"text"`
	MediaURL  string `json:"media_url,omitempty"`
	MediaType string `json:"media_type,omitempty"`
}

// CreatePostResponse is the JSON representation of a successful publish.
type CreatePostResponse struct {
	Account  string `json:"account"`
	HasMedia bool   `json:"has_media"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}
