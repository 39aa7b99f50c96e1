package handlers

import (
	"net/http"

	"github.com/pcbuilderguide/pcbg/internal/apperr"
	"github.com/pcbuilderguide/pcbg/internal/auth"
	"github.com/pcbuilderguide/pcbg/internal/contact"
)

// ContactHandler serves the contact form and the admin message listing.
type ContactHandler struct {
	Service *contact.Service
}

// Submit stores a contact form submission.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var input contact.SubmitInput
	if !decodeJSON(w, r, &input) {
		return
	}

	msg, err := h.Service.Submit(r.Context(), input)
	if err != nil {
		writeError(w, r, err, "failed to process contact message")
		return
	}

	JSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Contact message received successfully",
		"id":      msg.ID,
	})
}

// List returns all contact messages. Admin only.
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, r, apperr.ErrUnauthenticated, "")
		return
	}

	messages, err := h.Service.List(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "failed to retrieve contact messages")
		return
	}

	JSON(w, http.StatusOK, messages)
}
