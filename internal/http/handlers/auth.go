package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/sarmini1/messagely/internal/auth"
	"github.com/sarmini1/messagely/internal/http/respond"
	"github.com/sarmini1/messagely/internal/models/dto"
	"github.com/sarmini1/messagely/internal/storage"
	"github.com/sarmini1/messagely/internal/users"
)

// AuthHandler owns the register and login endpoints.
type AuthHandler struct {
	svc    *users.Service
	tokens *auth.TokenManager
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(svc *users.Service, tokens *auth.TokenManager) *AuthHandler {
	return &AuthHandler{svc: svc, tokens: tokens}
}

// Register attaches auth routes to the mux.
func (h *AuthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /register", h.handleRegister)
	mux.HandleFunc("POST /login", h.handleLogin)
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if err := validateRegistration(req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.svc.Register(r.Context(),
		strings.TrimSpace(req.Username), req.Password,
		strings.TrimSpace(req.FirstName), strings.TrimSpace(req.LastName),
		strings.TrimSpace(req.Phone))
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			respond.Error(w, http.StatusConflict, "username already taken")
			return
		}
		log.Printf("register user: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	token, err := h.tokens.Generate(created.Username)
	if err != nil {
		log.Printf("generate token: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to generate token")
		return
	}
	respond.JSON(w, http.StatusCreated, "user created", dto.TokenResponse{Token: token})
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		respond.Error(w, http.StatusBadRequest, "username and password are required")
		return
	}

	ok, err := h.svc.Authenticate(r.Context(), username, req.Password)
	if err != nil {
		log.Printf("authenticate %s: %v", username, err)
		respond.Error(w, http.StatusInternalServerError, "failed to authenticate")
		return
	}
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "invalid username/password")
		return
	}

	if err := h.svc.TouchLastLogin(r.Context(), username); err != nil {
		log.Printf("touch last login %s: %v", username, err)
		respond.Error(w, http.StatusInternalServerError, "failed to record login")
		return
	}

	token, err := h.tokens.Generate(username)
	if err != nil {
		log.Printf("generate token: %v", err)
		respond.Error(w, http.StatusInternalServerError, "failed to generate token")
		return
	}
	respond.JSON(w, http.StatusOK, "login successful", dto.TokenResponse{Token: token})
}

func validateRegistration(req dto.RegisterRequest) error {
	if strings.TrimSpace(req.Username) == "" {
		return errors.New("username is required")
	}
	if req.Password == "" {
		return errors.New("password is required")
	}
	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		return errors.New("first_name and last_name are required")
	}
	if strings.TrimSpace(req.Phone) == "" {
		return errors.New("phone is required")
	}
	return nil
}
