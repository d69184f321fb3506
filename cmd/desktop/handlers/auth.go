package handlers

import (
	"net/http"

	"github.com/dmoreira/rentdesk/internal/auth"
	"github.com/dmoreira/rentdesk/internal/validate"
)

// AuthHandler serves local login and password changes.
type AuthHandler struct {
	service   *auth.Service
	validator *validate.Validator
}

// NewAuthHandler creates the handler for /auth.
func NewAuthHandler(service *auth.Service, v *validate.Validator) *AuthHandler {
	return &AuthHandler{service: service, validator: v}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.service.Authenticate(req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type passwordRequest struct {
	Username    string `json:"username" validate:"required"`
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=4"`
}

// ChangePassword handles POST /auth/password. The old password must still
// verify before the new one is set.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req passwordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.service.Authenticate(req.Username, req.OldPassword)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.service.SetPassword(user.ID, req.NewPassword); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"changed": true})
}
