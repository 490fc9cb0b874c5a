package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"euromillones/internal/transport/httputil"
	"euromillones/internal/validation"
)

// emailParam pulls the email path parameter through the sanitizer and full
// address policy. Suspicious patterns that survive sanitization are treated
// as invalid outright. Body-bearing methods carry no sanitized parameter
// map, so the raw route value goes through the same sanitizer here.
func (h *Handler) emailParam(r *http.Request, name string) (string, bool) {
	raw := h.sanitizer.Param(name, chi.URLParam(r, name))
	if params, ok := validation.ParamsFrom(r.Context()); ok {
		raw = params[name]
	}
	email := h.sanitizer.Email(raw)
	if validation.IsSuspicious(email) || !validation.ValidEmail(email) {
		return "", false
	}
	return email, true
}

func (h *Handler) handleGetUser(w http.ResponseWriter, r *http.Request) {
	email, ok := h.emailParam(r, "email")
	if !ok {
		writeRejection(w, "Invalid email format", "email")
		return
	}

	user, err := h.users.Lookup(r.Context(), email)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"email":   user.Email,
		"user_id": user.ID,
	})
}

func (h *Handler) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	payload, _ := validation.PayloadFrom(r.Context())
	email := h.sanitizer.Email(stringField(payload, "email"))
	if validation.IsSuspicious(email) || !validation.ValidEmail(email) {
		writeRejection(w, "Invalid email format", "email")
		return
	}

	user, err := h.users.Register(r.Context(), email)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]any{
		"message": "User created",
		"email":   user.Email,
	})
}

func (h *Handler) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	oldEmail, ok := h.emailParam(r, "email")
	if !ok {
		writeRejection(w, "Invalid old email format", "old_email")
		return
	}

	payload, _ := validation.PayloadFrom(r.Context())
	newEmail := h.sanitizer.Email(stringField(payload, "email"))
	if validation.IsSuspicious(newEmail) || !validation.ValidEmail(newEmail) {
		writeRejection(w, "Invalid new email format", "new_email")
		return
	}

	if err := h.users.ChangeEmail(r.Context(), oldEmail, newEmail); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"message":   "User email updated",
		"old_email": oldEmail,
		"new_email": newEmail,
	})
}

func (h *Handler) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	email, ok := h.emailParam(r, "email")
	if !ok {
		writeRejection(w, "Invalid email format", "email")
		return
	}

	if err := h.users.Remove(r.Context(), email); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "User deleted",
		"email":   email,
	})
}
