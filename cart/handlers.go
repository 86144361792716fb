package cart

import (
	"encoding/json"
	"log"
	"net/http"

	"kobetex/models"
	"kobetex/utils"

	"github.com/julienschmidt/httprouter"
)

var validItemTypes = map[string]bool{
	models.ItemFullPackage:     true,
	models.ItemRegistrationFee: true,
	models.ItemReservationFee:  true,
	models.ItemCustomQuote:     true,
	models.ItemAIPack:          true,
	models.ItemService:         true,
}

// Handlers exposes the per-user cart over HTTP.
type Handlers struct {
	Carts *Registry
}

func NewHandlers(carts *Registry) *Handlers {
	return &Handlers{Carts: carts}
}

// AddToCart appends a new line; identical payloads produce distinct
// lines on purpose.
func (h *Handlers) AddToCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var item models.CartItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		log.Println("AddToCart decode error:", err)
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if item.Name == "" || item.Price <= 0 || !validItemTypes[item.Type] {
		http.Error(w, "Missing or invalid fields", http.StatusBadRequest)
		return
	}

	added := h.Carts.For(userID).Add(item)
	utils.RespondWithJSON(w, http.StatusCreated, added)
}

// GetCart returns the current lines and the derived total.
func (h *Handlers) GetCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	c := h.Carts.For(userID)
	items := c.Items()
	if items == nil {
		items = []models.CartItem{}
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"items": items,
		"total": c.Total(),
	})
}

// RemoveFromCart drops one line by id.
func (h *Handlers) RemoveFromCart(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	itemID := ps.ByName("itemid")
	if itemID == "" {
		http.Error(w, "Missing item id", http.StatusBadRequest)
		return
	}

	h.Carts.For(userID).Remove(itemID)
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

// ClearCart empties the user's cart.
func (h *Handlers) ClearCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	h.Carts.For(userID).Clear()
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}
