package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/JelipeElGuapo/safebuzz/internal/auth"
)

// Validation messages shown before anything reaches the provider.
const (
	msgMissingFields    = "Por favor completa todos los campos."
	msgPasswordMismatch = "Las contraseñas no coinciden"
	msgPasswordTooShort = "La contraseña debe tener al menos 6 caracteres"
)

type AuthHandler struct {
	store *auth.Store
}

func NewAuthHandler(store *auth.Store) *AuthHandler {
	return &AuthHandler{store: store}
}

type sessionView struct {
	User      *auth.Identity `json:"user"`
	IsLoading bool           `json:"isLoading"`
	Error     string         `json:"error,omitempty"`
}

func (h *AuthHandler) session() sessionView {
	return sessionView{
		User:      h.store.Identity(),
		IsLoading: h.store.Loading(),
		Error:     h.store.LastError(),
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ok := h.store.Login(r.Context(), body.Email, body.Password)

	status := http.StatusOK
	if !ok {
		status = http.StatusUnauthorized
	}
	writeJSON(w, status, map[string]any{
		"success": ok,
		"user":    h.store.Identity(),
		"error":   h.store.LastError(),
	})
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name            string `json:"name"`
		Email           string `json:"email"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirmPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	// Caller-side preconditions: these never reach the provider.
	if strings.TrimSpace(body.Name) == "" || body.Email == "" || body.Password == "" {
		writeError(w, http.StatusBadRequest, msgMissingFields)
		return
	}
	if body.Password != body.ConfirmPassword {
		writeError(w, http.StatusBadRequest, msgPasswordMismatch)
		return
	}
	if utf8.RuneCountInString(body.Password) < 6 {
		writeError(w, http.StatusBadRequest, msgPasswordTooShort)
		return
	}

	ok := h.store.Register(r.Context(), body.Name, body.Email, body.Password)

	status := http.StatusOK
	if !ok {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, map[string]any{
		"success": ok,
		"user":    h.store.Identity(),
		"error":   h.store.LastError(),
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.store.Logout(r.Context())

	if err := h.store.LastError(); err != "" {
		writeJSON(w, http.StatusBadGateway, h.session())
		return
	}
	writeJSON(w, http.StatusOK, h.session())
}

func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.session())
}

func (h *AuthHandler) ClearError(w http.ResponseWriter, r *http.Request) {
	h.store.ClearError()
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) EmailExists(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		writeError(w, http.StatusBadRequest, "missing email")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{
		"exists": h.store.EmailRegistered(r.Context(), email),
	})
}
