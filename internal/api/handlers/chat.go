package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/matiasleandrokruk/chatrelay/internal/domain/chat"
)

// ChatService is the routing capability the handler depends on.
type ChatService interface {
	Route(ctx context.Context, message, hint string) (*chat.Exchange, error)
}

type ChatHandler struct {
	chatService ChatService
}

func NewChatHandler(chatService ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

type chatRequest struct {
	Message string `json:"message"`
	LLM     string `json:"llm,omitempty"`
}

// ChatResponse is the wire shape of a successful chat call. LLM carries
// the canonical name of the provider that answered; Timestamp is epoch
// milliseconds.
type ChatResponse struct {
	Response  string `json:"response"`
	LLM       string `json:"llm"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

// chatInput is the normalized request regardless of binding. The two
// bindings report an empty message under different error codes.
type chatInput struct {
	message          string
	hint             string
	emptyMessageCode string
}

// Chat handles both bindings of the chat endpoint: GET with message/llm
// query parameters and POST with a JSON body.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	in, err := buildChatInput(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "invalid request body")
		return
	}

	ex, err := h.chatService.Route(r.Context(), in.message, in.hint)
	if err != nil {
		writeChatError(w, err, in.hint, in.emptyMessageCode)
		return
	}

	writeJSON(w, http.StatusOK, exchangeToResponse(ex))
}

// buildChatInput extracts the message and provider hint from either
// binding. Validation of the message itself is left to the routing layer.
func buildChatInput(r *http.Request) (chatInput, error) {
	if r.Method == http.MethodGet {
		q := r.URL.Query()
		return chatInput{
			message:          q.Get("message"),
			hint:             q.Get("llm"),
			emptyMessageCode: codeConstraintViolation,
		}, nil
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return chatInput{}, fmt.Errorf("decode chat request: %w", err)
	}
	return chatInput{
		message:          req.Message,
		hint:             req.LLM,
		emptyMessageCode: codeValidationFailed,
	}, nil
}

// exchangeToResponse converts a domain Exchange to the wire ChatResponse.
func exchangeToResponse(ex *chat.Exchange) ChatResponse {
	return ChatResponse{
		Response:  ex.Response,
		LLM:       ex.Provider.String(),
		Message:   ex.Message,
		Timestamp: ex.At.UnixMilli(),
	}
}
