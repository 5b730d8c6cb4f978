package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/sarmini1/messagely/internal/auth"
	"github.com/sarmini1/messagely/internal/http/respond"
	"github.com/sarmini1/messagely/internal/middleware"
	"github.com/sarmini1/messagely/internal/storage"
	"github.com/sarmini1/messagely/internal/users"
)

// UserHandler serves the directory listing, profiles, and per-user
// message views.
type UserHandler struct {
	svc    *users.Service
	tokens *auth.TokenManager
}

// NewUserHandler constructs the handler.
func NewUserHandler(svc *users.Service, tokens *auth.TokenManager) *UserHandler {
	return &UserHandler{svc: svc, tokens: tokens}
}

// Register attaches user routes to the mux. The listing is public;
// everything else needs a bearer token, and the message views are
// restricted to their own user.
func (h *UserHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /users", h.handleList)
	mux.Handle("GET /users/{username}", middleware.RequireAuth(h.tokens, http.HandlerFunc(h.handleGet)))
	mux.Handle("GET /users/{username}/from", middleware.RequireAuth(h.tokens, http.HandlerFunc(h.handleMessagesFrom)))
	mux.Handle("GET /users/{username}/to", middleware.RequireAuth(h.tokens, http.HandlerFunc(h.handleMessagesTo)))
}

func (h *UserHandler) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.All(r.Context())
	if err != nil {
		log.Printf("list users: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to list users")
		return
	}
	respond.JSON(w, http.StatusOK, "users", list)
}

func (h *UserHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	user, err := h.svc.Get(r.Context(), username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "no such user")
			return
		}
		log.Printf("get user %s: %v", username, err)
		respond.Error(w, http.StatusInternalServerError, "failed to fetch user")
		return
	}
	respond.JSON(w, http.StatusOK, "user", user)
}

func (h *UserHandler) handleMessagesFrom(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	if !callerIs(r, username) {
		respond.Error(w, http.StatusForbidden, "cannot read another user's messages")
		return
	}
	messages, err := h.svc.MessagesFrom(r.Context(), username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "no such user")
			return
		}
		log.Printf("messages from %s: %v", username, err)
		respond.Error(w, http.StatusInternalServerError, "failed to fetch messages")
		return
	}
	respond.JSON(w, http.StatusOK, "messages sent", messages)
}

func (h *UserHandler) handleMessagesTo(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	if !callerIs(r, username) {
		respond.Error(w, http.StatusForbidden, "cannot read another user's messages")
		return
	}
	messages, err := h.svc.MessagesTo(r.Context(), username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "no such user")
			return
		}
		log.Printf("messages to %s: %v", username, err)
		respond.Error(w, http.StatusInternalServerError, "failed to fetch messages")
		return
	}
	respond.JSON(w, http.StatusOK, "messages received", messages)
}

func callerIs(r *http.Request, username string) bool {
	caller, ok := middleware.UsernameFromContext(r.Context())
	return ok && caller == username
}
