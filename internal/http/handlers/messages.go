package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/sarmini1/messagely/internal/auth"
	"github.com/sarmini1/messagely/internal/http/respond"
	"github.com/sarmini1/messagely/internal/middleware"
	"github.com/sarmini1/messagely/internal/models/dto"
	"github.com/sarmini1/messagely/internal/storage"
	"github.com/sarmini1/messagely/internal/users"
)

// MessageHandler owns message creation, detail, and read receipts.
type MessageHandler struct {
	svc    *users.Service
	tokens *auth.TokenManager
}

// NewMessageHandler constructs the handler.
func NewMessageHandler(svc *users.Service, tokens *auth.TokenManager) *MessageHandler {
	return &MessageHandler{svc: svc, tokens: tokens}
}

// Register attaches message routes to the mux. All of them require a
// bearer token.
func (h *MessageHandler) Register(mux *http.ServeMux) {
	mux.Handle("POST /messages", middleware.RequireAuth(h.tokens, http.HandlerFunc(h.handleSend)))
	mux.Handle("GET /messages/{id}", middleware.RequireAuth(h.tokens, http.HandlerFunc(h.handleGet)))
	mux.Handle("POST /messages/{id}/read", middleware.RequireAuth(h.tokens, http.HandlerFunc(h.handleMarkRead)))
}

func (h *MessageHandler) handleSend(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.UsernameFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "missing authenticated user")
		return
	}
	var req dto.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	to := strings.TrimSpace(req.ToUsername)
	if to == "" || strings.TrimSpace(req.Body) == "" {
		respond.Error(w, http.StatusBadRequest, "to_username and body are required")
		return
	}

	message, err := h.svc.Send(r.Context(), caller, to, req.Body)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "no such recipient")
			return
		}
		log.Printf("send message %s -> %s: %v", caller, to, err)
		respond.Error(w, http.StatusInternalServerError, "failed to send message")
		return
	}
	respond.JSON(w, http.StatusCreated, "message sent", message)
}

func (h *MessageHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.UsernameFromContext(r.Context())
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid message id")
		return
	}

	message, err := h.svc.GetMessage(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "no such message")
			return
		}
		log.Printf("get message %d: %v", id, err)
		respond.Error(w, http.StatusInternalServerError, "failed to fetch message")
		return
	}
	if caller != message.FromUser.Username && caller != message.ToUser.Username {
		respond.Error(w, http.StatusForbidden, "not a participant of this message")
		return
	}
	respond.JSON(w, http.StatusOK, "message", message)
}

func (h *MessageHandler) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.UsernameFromContext(r.Context())
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid message id")
		return
	}

	// Only the recipient may acknowledge a message, so fetch first and
	// check before mutating.
	message, err := h.svc.GetMessage(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "no such message")
			return
		}
		log.Printf("get message %d: %v", id, err)
		respond.Error(w, http.StatusInternalServerError, "failed to fetch message")
		return
	}
	if caller != message.ToUser.Username {
		respond.Error(w, http.StatusForbidden, "only the recipient can mark a message read")
		return
	}

	updated, err := h.svc.MarkMessageRead(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "no such message")
			return
		}
		log.Printf("mark message %d read: %v", id, err)
		respond.Error(w, http.StatusInternalServerError, "failed to mark message read")
		return
	}
	respond.JSON(w, http.StatusOK, "message read", updated)
}
