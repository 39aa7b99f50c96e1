package handlers

import (
	"net/http"

	"github.com/pcbuilderguide/pcbg/internal/apperr"
	"github.com/pcbuilderguide/pcbg/internal/auth"
)

// ==========================
// Auth Handler
// ==========================
type AuthHandler struct {
	Service *auth.Service
}

type signupUser struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// ==========================
// Signup
// ==========================
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var input auth.SignupInput
	if !decodeJSON(w, r, &input) {
		return
	}

	user, err := h.Service.Signup(r.Context(), input)
	if err != nil {
		writeError(w, r, err, "failed to register user")
		return
	}

	JSON(w, http.StatusCreated, map[string]interface{}{
		"message": "User registered successfully",
		"user":    signupUser{ID: user.ID, Username: user.Username, Email: user.Email},
	})
}

// ==========================
// Login
// ==========================
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input auth.LoginInput
	if !decodeJSON(w, r, &input) {
		return
	}

	res, err := h.Service.Login(r.Context(), input)
	if err != nil {
		writeError(w, r, err, "failed to login")
		return
	}

	message := "Login successful"
	if res.Admin {
		message = "Admin login successful"
	}
	JSON(w, http.StatusOK, map[string]interface{}{
		"message":   message,
		"token":     res.Token,
		"expiresAt": res.ExpiresAt,
		"user":      res.User,
	})
}

// ==========================
// Current User
// ==========================
func (h *AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, r, apperr.ErrUnauthenticated, "")
		return
	}

	user, err := h.Service.CurrentUser(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "failed to get user data")
		return
	}

	JSON(w, http.StatusOK, user)
}

// ==========================
// Logout
// ==========================

// Logout only acknowledges. Tokens are stateless; the client discards its copy.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}
