// Handler helper functions: response writing and error mapping.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/matiasleandrokruk/chatrelay/internal/domain/chat"
)

const (
	headerContentType = "Content-Type"
	mimeJSON          = "application/json"
)

// Error codes carried in the errorCode field of the error envelope.
const (
	codeValidationFailed     = "VALIDATION_FAILED"
	codeConstraintViolation  = "CONSTRAINT_VIOLATION"
	codeBadRequest           = "BAD_REQUEST"
	codeAIServiceUnavailable = "AI_SERVICE_UNAVAILABLE"
	codeInternalServerError  = "INTERNAL_SERVER_ERROR"
)

// ErrorResponse is the uniform error envelope for every failed request.
type ErrorResponse struct {
	Status    int    `json:"status"`
	ErrorCode string `json:"errorCode"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// writeJSON writes body as JSON with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set(headerContentType, mimeJSON)
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		http.Error(w, `{"error":"failed to encode response"}`, http.StatusInternalServerError)
	}
}

// writeError writes the JSON error envelope.
func writeError(w http.ResponseWriter, statusCode int, code, message string) {
	writeJSON(w, statusCode, ErrorResponse{
		Status:    statusCode,
		ErrorCode: code,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// writeChatError maps a routing failure onto the HTTP error envelope.
// The empty-message code differs between the query and body bindings, so
// the caller supplies it. hint is the raw llm value from the request and
// names the rejected provider in the message.
func writeChatError(w http.ResponseWriter, err error, hint, emptyMessageCode string) {
	switch {
	case errors.Is(err, chat.ErrEmptyMessage):
		writeError(w, http.StatusBadRequest, emptyMessageCode, "message: Message cannot be empty")
	case errors.Is(err, chat.ErrUnsupportedProvider):
		writeError(w, http.StatusBadRequest, codeBadRequest, "Unsupported LLM type: "+strings.TrimSpace(hint))
	case errors.Is(err, chat.ErrUpstreamUnavailable):
		writeError(w, http.StatusServiceUnavailable, codeAIServiceUnavailable, "AI service is unavailable")
	default:
		writeError(w, http.StatusInternalServerError, codeInternalServerError, "internal server error")
	}
}
