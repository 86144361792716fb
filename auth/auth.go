package auth

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"kobetex/store"
	"kobetex/utils"

	"github.com/julienschmidt/httprouter"
)

// Handlers covers the minimal user registry: registration fires on
// the first purchase gate, email is the correlation key to order
// history, and passwords are opaque strings compared as-is.
type Handlers struct {
	Store    *store.Store
	NewToken func(username, userID string) (string, error)
}

func NewHandlers(st *store.Store, newToken func(username, userID string) (string, error)) *Handlers {
	return &Handlers{Store: st, NewToken: newToken}
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		log.Println("Register decode error:", err)
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if body.Name == "" || !utils.ValidEmail(body.Email) {
		http.Error(w, "Name and a valid email are required", http.StatusBadRequest)
		return
	}
	if len(body.Password) < 4 {
		http.Error(w, "Password must be at least 4 characters", http.StatusBadRequest)
		return
	}

	user, err := h.Store.Register(body.Name, body.Email, body.Password)
	if err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		http.Error(w, "Registration failed", http.StatusInternalServerError)
		return
	}

	token, err := h.NewToken(user.Name, user.ID)
	if err != nil {
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, map[string]any{"user": user, "token": token})
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		log.Println("Login decode error:", err)
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	user, err := h.Store.Login(body.Email, body.Password)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	token, err := h.NewToken(user.Name, user.ID)
	if err != nil {
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"user": user, "token": token})
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.Store.Logout()
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

// Me resolves the caller's registry entry from the session token.
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	user, ok := h.Store.UserByID(userID)
	if !ok {
		http.Error(w, "Unknown user", http.StatusNotFound)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, user)
}
