package handlers

import (
	"net/http"

	"github.com/careops/frontdesk/internal/backend"
	"github.com/careops/frontdesk/pkg/logging"
)

// InboxHandler serves the conversation inbox. The backend owns the mailbox;
// sync is an opaque trigger whose effect shows up in the next list read.
type InboxHandler struct {
	client    *backend.Client
	logger    *logging.Logger
	loginPath string
}

func NewInboxHandler(client *backend.Client, loginPath string, logger *logging.Logger) *InboxHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &InboxHandler{
		client:    client,
		logger:    logger.Component("inbox"),
		loginPath: loginPath,
	}
}

// List returns the workspace's conversations.
// GET /app/inbox
func (h *InboxHandler) List(w http.ResponseWriter, r *http.Request) {
	token, ok := sessionToken(w, r)
	if !ok {
		return
	}
	h.respondWithList(w, r, token)
}

// Get returns one conversation with its messages.
// GET /app/inbox/{conversationID}
func (h *InboxHandler) Get(w http.ResponseWriter, r *http.Request) {
	token, ok := sessionToken(w, r)
	if !ok {
		return
	}
	conversationID, ok := intParam(r, "conversationID")
	if !ok {
		jsonError(w, http.StatusNotFound, "conversation not found")
		return
	}
	conv, err := h.client.GetConversation(r.Context(), token, conversationID)
	if err != nil {
		writeBackendError(w, err, h.loginPath)
		return
	}
	writeJSON(w, http.StatusOK, conv)
}

type sendMessageRequest struct {
	Body string `json:"body"`
}

// SendMessage posts a reply and returns the re-read conversation.
// POST /app/inbox/{conversationID}/messages
func (h *InboxHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	token, ok := sessionToken(w, r)
	if !ok {
		return
	}
	conversationID, ok := intParam(r, "conversationID")
	if !ok {
		jsonError(w, http.StatusNotFound, "conversation not found")
		return
	}
	var req sendMessageRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Body == "" {
		jsonError(w, http.StatusBadRequest, "message body is required")
		return
	}
	err := h.client.SendMessage(r.Context(), token, backend.MessageRequest{
		ConversationID: conversationID,
		Body:           req.Body,
	})
	if err != nil {
		writeBackendError(w, err, h.loginPath)
		return
	}
	conv, err := h.client.GetConversation(r.Context(), token, conversationID)
	if err != nil {
		writeBackendError(w, err, h.loginPath)
		return
	}
	writeJSON(w, http.StatusOK, conv)
}

// Sync asks the backend to pull new mail, then returns the re-read list.
// POST /app/inbox/sync
func (h *InboxHandler) Sync(w http.ResponseWriter, r *http.Request) {
	token, ok := sessionToken(w, r)
	if !ok {
		return
	}
	if err := h.client.SyncInbox(r.Context(), token); err != nil {
		writeBackendError(w, err, h.loginPath)
		return
	}
	h.respondWithList(w, r, token)
}

func (h *InboxHandler) respondWithList(w http.ResponseWriter, r *http.Request, token string) {
	conversations, err := h.client.ListConversations(r.Context(), token)
	if err != nil {
		writeBackendError(w, err, h.loginPath)
		return
	}
	if conversations == nil {
		conversations = []backend.Conversation{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"conversations": conversations})
}
