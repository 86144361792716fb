package receipts

import (
	"fmt"
	"net/http"
	"strconv"

	"kobetex/models"
	"kobetex/store"

	"github.com/julienschmidt/httprouter"
)

// Handlers serves receipt and certificate downloads.
type Handlers struct {
	Store *store.Store
}

func NewHandlers(st *store.Store) *Handlers {
	return &Handlers{Store: st}
}

func (h *Handlers) lookup(w http.ResponseWriter, ps httprouter.Params) (models.Transaction, bool) {
	id, err := strconv.ParseInt(ps.ByName("id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid order id", http.StatusBadRequest)
		return models.Transaction{}, false
	}
	txn, ok := h.Store.Get(id)
	if !ok {
		http.Error(w, "Order not found", http.StatusNotFound)
		return models.Transaction{}, false
	}
	return txn, true
}

// GetReceipt streams the payment receipt PDF.
func (h *Handlers) GetReceipt(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	txn, ok := h.lookup(w, ps)
	if !ok {
		return
	}

	data, err := Receipt(txn)
	if err != nil {
		http.Error(w, "Failed to generate PDF", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=recu-%d.pdf", txn.ID))
	w.Write(data)
}

// GetCertificate streams the completion certificate; only delivered
// service orders have one.
func (h *Handlers) GetCertificate(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	txn, ok := h.lookup(w, ps)
	if !ok {
		return
	}
	if txn.DeliveredFile == nil {
		http.Error(w, "Order has no delivered service", http.StatusConflict)
		return
	}

	data, err := Certificate(txn)
	if err != nil {
		http.Error(w, "Failed to generate PDF", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=certificat-%d.pdf", txn.ID))
	w.Write(data)
}
