package admin

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"kobetex/models"
	"kobetex/store"
	"kobetex/utils"

	"github.com/julienschmidt/httprouter"
)

// Handlers is the admin panel surface: the password gate, order
// lifecycle actions, seat resets and resource uploads.
type Handlers struct {
	Store    *store.Store
	NewToken func() (string, error)
}

func NewHandlers(st *store.Store, newToken func() (string, error)) *Handlers {
	return &Handlers{Store: st, NewToken: newToken}
}

// Gate compares the shared password in plaintext and hands out a
// short-lived admin token. The authenticated state lives only in the
// caller's tab; reloading the panel re-locks it.
func (h *Handlers) Gate(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if !h.Store.CheckAdminPassword(body.Password) {
		http.Error(w, "Wrong password", http.StatusUnauthorized)
		return
	}

	token, err := h.NewToken()
	if err != nil {
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"token": token})
}

// ListOrders returns the full ledger for the admin table.
func (h *Handlers) ListOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	txns := h.Store.Transactions()
	if txns == nil {
		txns = []models.Transaction{}
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"transactions": txns})
}

func parseID(w http.ResponseWriter, ps httprouter.Params) (int64, bool) {
	id, err := strconv.ParseInt(ps.ByName("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid order id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// SetStatus approves or rejects one order.
func (h *Handlers) SetStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := parseID(w, ps)
	if !ok {
		return
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	txn, err := h.Store.SetStatus(id, body.Status)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, store.ErrFinalStatus):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"transaction": txn})
}

// RegenerateCode reissues the access code of an approved order.
func (h *Handlers) RegenerateCode(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := parseID(w, ps)
	if !ok {
		return
	}
	txn, err := h.Store.RegenerateCode(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"transaction": txn})
}

// UpdateProgress sets service progress; when a file payload is
// attached the delivery is terminal and progress is forced to 100.
func (h *Handlers) UpdateProgress(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := parseID(w, ps)
	if !ok {
		return
	}
	var body struct {
		Progress int                   `json:"progress"`
		File     *models.DeliveredFile `json:"file,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	txn, err := h.Store.UpdateServiceProgress(id, body.Progress, body.File)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, store.ErrUploadTooBig):
			http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
		default:
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"transaction": txn})
}

// confirmRequired enforces the explicit confirmation step on
// destructive actions; there is no undo.
func confirmRequired(w http.ResponseWriter, r *http.Request) bool {
	if r.URL.Query().Get("confirm") != "true" {
		http.Error(w, "Destructive action requires confirm=true", http.StatusBadRequest)
		return false
	}
	return true
}

// DeleteOrder removes one order. Consumed seats stay spent.
func (h *Handlers) DeleteOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if !confirmRequired(w, r) {
		return
	}
	id, ok := parseID(w, ps)
	if !ok {
		return
	}
	h.Store.Delete(id)
	w.WriteHeader(http.StatusNoContent)
}

// ClearOrders wipes the whole ledger.
func (h *Handlers) ClearOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if !confirmRequired(w, r) {
		return
	}
	h.Store.ClearAll()
	w.WriteHeader(http.StatusNoContent)
}

// ResetSeats restores a session to full capacity.
func (h *Handlers) ResetSeats(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sessionID := ps.ByName("id")
	if sessionID == "" {
		http.Error(w, "Missing session id", http.StatusBadRequest)
		return
	}
	sessions, ok := h.Store.ResetSession(sessionID)
	if !ok {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"sessions": sessions})
}

// UploadResource stores one admin-managed artifact (registration
// form, contract or course content) as a data URI.
func (h *Handlers) UploadResource(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	kind := ps.ByName("kind")
	var body struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		log.Println("UploadResource decode error:", err)
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	if err := h.Store.SetResource(kind, body.Name, body.URL); err != nil {
		switch {
		case errors.Is(err, store.ErrUploadTooBig):
			http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
		case errors.Is(err, store.ErrUnknownKind):
			http.Error(w, err.Error(), http.StatusNotFound)
		default:
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, h.Store.Resources())
}

// SetWhatsAppLink updates the group invite link.
func (h *Handlers) SetWhatsAppLink(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body struct {
		Link string `json:"link"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	h.Store.SetWhatsAppLink(body.Link)
	utils.RespondWithJSON(w, http.StatusOK, h.Store.Resources())
}
