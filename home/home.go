// Package home serves the public storefront endpoints: session
// availability, the resource registry, active notifications, order
// lookup and access-code validation.
package home

import (
	"encoding/json"
	"errors"
	"net/http"

	"kobetex/models"
	"kobetex/store"
	"kobetex/utils"

	"github.com/julienschmidt/httprouter"
)

type Handlers struct {
	Store *store.Store
}

func NewHandlers(st *store.Store) *Handlers {
	return &Handlers{Store: st}
}

// GetSessions lists the training cohorts with their seat counts.
func (h *Handlers) GetSessions(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"sessions": h.Store.Inventory.List()})
}

// GetResources returns the admin-managed document registry.
func (h *Handlers) GetResources(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	utils.RespondWithJSON(w, http.StatusOK, h.Store.Resources())
}

// GetNotifications returns the messages that have not yet expired.
func (h *Handlers) GetNotifications(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	active := h.Store.Notifier.Active()
	if active == nil {
		active = []models.Notification{}
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"notifications": active})
}

// MyOrders returns the caller's order history, correlated by email.
func (h *Handlers) MyOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	user, ok := h.Store.UserByID(userID)
	if !ok {
		http.Error(w, "Unknown user", http.StatusNotFound)
		return
	}
	orders := h.Store.OrdersByEmail(user.Email)
	if orders == nil {
		orders = []models.Transaction{}
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"transactions": orders})
}

// ValidateCode checks a customer-entered access code. Expired codes
// get their own message so the customer asks for a regenerated code
// instead of assuming the order is gone.
func (h *Handlers) ValidateCode(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	txn, err := h.Store.ValidateCode(body.Code)
	if err != nil {
		status := http.StatusNotFound
		if errors.Is(err, store.ErrCodeExpired) {
			status = http.StatusGone
		}
		utils.RespondWithJSON(w, status, map[string]any{"valid": false, "error": err.Error()})
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"valid":     true,
		"orderId":   txn.ID,
		"orderType": txn.Type,
		"resources": h.Store.Resources(),
	})
}
