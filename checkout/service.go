package checkout

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"kobetex/cart"
	"kobetex/mailer"
	"kobetex/models"
	"kobetex/store"
)

// Service ties the flow to the ledger, the cart and the outbound
// channels. One flow per user at a time; starting over replaces it.
type Service struct {
	Store        *store.Store
	Carts        *cart.Registry
	Mailer       mailer.Sender
	SupportPhone string

	mu    sync.Mutex
	flows map[string]*Flow
}

func NewService(st *store.Store, carts *cart.Registry, sender mailer.Sender, supportPhone string) *Service {
	return &Service{
		Store:        st,
		Carts:        carts,
		Mailer:       sender,
		SupportPhone: supportPhone,
		flows:        make(map[string]*Flow),
	}
}

// FlowFor returns the user's in-progress flow, creating one at the
// Details step on first use.
func (s *Service) FlowFor(userID string) *Flow {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.flows[userID]
	if !ok {
		f = NewFlow()
		s.flows[userID] = f
	}
	return f
}

// Reset discards the user's flow so the next request starts fresh.
func (s *Service) Reset(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.flows, userID)
}

// Complete runs once the flow reaches Confirmation: it snapshots the
// cart into a pending order, fires the best-effort email, builds the
// WhatsApp deep link and clears the cart. The cart is cleared no
// matter what the outbound channels do. An empty cart never becomes
// an order.
func (s *Service) Complete(userID string, f *Flow) (models.Transaction, string, error) {
	c := s.Carts.For(userID)
	items := c.Items()
	total := c.Total()
	if len(items) == 0 {
		return models.Transaction{}, "", ErrEmptyCart
	}

	txn := s.Store.CreateOrder(store.Customer{
		Name:   f.Name,
		Phone:  f.Phone,
		Email:  f.Email,
		Method: f.Method,
		Ref:    f.Ref,
	}, items, total)

	go s.sendOrderEmail(txn)

	link := WhatsAppLink(s.SupportPhone, txn)
	c.Clear()
	return txn, link, nil
}

// sendOrderEmail is fire-and-forget; a relay failure never reaches
// the customer.
func (s *Service) sendOrderEmail(t models.Transaction) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	msg := fmt.Sprintf("Commande #%d — %s, %d FCFA (%s, réf %s)",
		t.ID, t.Type, t.Amount, t.Method, t.PaymentRef)
	err := s.Mailer.Send(ctx, mailer.Params{
		ToName:   t.Name,
		FromName: "KOB LaTeX",
		Message:  msg,
		ReplyTo:  t.Email,
	})
	if err != nil {
		log.Printf("order email for #%d failed: %v", t.ID, err)
	}
}
