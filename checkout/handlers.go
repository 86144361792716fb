package checkout

import (
	"encoding/json"
	"log"
	"net/http"

	"kobetex/utils"

	"github.com/julienschmidt/httprouter"
)

// GetState reports where the user's flow currently stands.
func (s *Service) GetState(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	f := s.FlowFor(userID)
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"state": f.State()})
}

// SubmitDetails handles the Details step.
func (s *Service) SubmitDetails(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var body struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		log.Println("checkout details decode error:", err)
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	f := s.FlowFor(userID)
	if err := f.SubmitDetails(body.Name, body.Phone, body.Email); err != nil {
		utils.RespondWithJSON(w, http.StatusBadRequest, map[string]any{
			"state": f.State(),
			"error": err.Error(),
		})
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"state": f.State()})
}

// Back returns from Payment to Details.
func (s *Service) Back(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	f := s.FlowFor(userID)
	if err := f.Back(); err != nil {
		utils.RespondWithJSON(w, http.StatusBadRequest, map[string]any{
			"state": f.State(),
			"error": err.Error(),
		})
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"state": f.State()})
}

// SubmitPayment handles the Payment step and, on success, commits the
// order and returns the confirmation payload.
func (s *Service) SubmitPayment(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var body struct {
		Method string `json:"method"`
		Ref    string `json:"paymentRef"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		log.Println("checkout payment decode error:", err)
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	f := s.FlowFor(userID)
	// checked before the flow advances so a rejected submission leaves
	// the user on the payment step, not on a dead confirmation
	if len(s.Carts.For(userID).Items()) == 0 {
		utils.RespondWithJSON(w, http.StatusBadRequest, map[string]any{
			"state": f.State(),
			"error": ErrEmptyCart.Error(),
		})
		return
	}
	if err := f.SubmitPayment(body.Method, body.Ref); err != nil {
		utils.RespondWithJSON(w, http.StatusBadRequest, map[string]any{
			"state": f.State(),
			"error": err.Error(),
		})
		return
	}

	txn, link, err := s.Complete(userID, f)
	if err != nil {
		utils.RespondWithJSON(w, http.StatusBadRequest, map[string]any{
			"state": f.State(),
			"error": err.Error(),
		})
		return
	}
	s.Reset(userID)

	utils.RespondWithJSON(w, http.StatusCreated, map[string]any{
		"state":       StateConfirmation,
		"order":       txn,
		"whatsappUrl": link,
	})
}
