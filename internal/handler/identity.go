package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MikhailRaia/link-rewards/internal/middleware"
	"github.com/MikhailRaia/link-rewards/internal/model"
	"github.com/MikhailRaia/link-rewards/internal/service"
	"github.com/MikhailRaia/link-rewards/internal/storage"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	defer r.Body.Close()

	_, err := h.identity.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			writeMessage(w, http.StatusBadRequest, "name, email and password are required")
		case errors.Is(err, storage.ErrEmailTaken):
			writeMessage(w, http.StatusConflict, "email already registered")
		default:
			writeMessage(w, http.StatusInternalServerError, "failed to register user")
		}
		return
	}

	writeMessage(w, http.StatusCreated, "user registered")
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	defer r.Body.Close()

	token, user, err := h.identity.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeMessage(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		writeMessage(w, http.StatusInternalServerError, "failed to log in")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Token: token, User: user})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "user not authenticated")
		return
	}

	user, err := h.identity.GetUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			writeMessage(w, http.StatusNotFound, "user not found")
			return
		}
		writeMessage(w, http.StatusInternalServerError, "failed to load user")
		return
	}

	writeJSON(w, http.StatusOK, user)
}
