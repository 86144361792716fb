// Package checkout drives the three-step order flow: Details →
// Payment → Confirmation. Back-navigation exists only from Payment to
// Details; Confirmation is terminal.
package checkout

import (
	"errors"

	"kobetex/utils"
)

type State string

const (
	StateDetails      State = "details"
	StatePayment      State = "payment"
	StateConfirmation State = "confirmation"
)

// Mobile-money providers accepted at the payment step.
const (
	MethodFlooz  = "flooz"
	MethodTMoney = "tmoney"
)

// MinRefLen is the honor-system floor on the self-reported SMS
// payment reference.
const MinRefLen = 3

var (
	ErrNameRequired  = errors.New("name is required")
	ErrPhoneRequired = errors.New("phone is required")
	ErrBadEmail      = errors.New("email format is invalid")
	ErrBadMethod     = errors.New("payment method must be flooz or tmoney")
	ErrShortRef      = errors.New("payment reference must be at least 3 characters")
	ErrWrongState    = errors.New("action not allowed in this step")
	ErrEmptyCart     = errors.New("cart is empty")
)

// Flow is one customer's walk through the checkout. It is a pure state
// machine; order creation and outbound side effects live in Service.
type Flow struct {
	state State

	Name  string
	Phone string
	Email string

	Method string
	Ref    string
}

func NewFlow() *Flow {
	return &Flow{state: StateDetails}
}

func (f *Flow) State() State {
	return f.state
}

// SubmitDetails validates the contact fields and advances to Payment.
// Email is optional but must match the pattern when present.
func (f *Flow) SubmitDetails(name, phone, email string) error {
	if f.state != StateDetails {
		return ErrWrongState
	}
	if name == "" {
		return ErrNameRequired
	}
	if phone == "" {
		return ErrPhoneRequired
	}
	if email != "" && !utils.ValidEmail(email) {
		return ErrBadEmail
	}
	f.Name, f.Phone, f.Email = name, phone, email
	f.state = StatePayment
	return nil
}

// Back returns from Payment to Details; no other step can go back.
func (f *Flow) Back() error {
	if f.state != StatePayment {
		return ErrWrongState
	}
	f.state = StateDetails
	return nil
}

// SubmitPayment validates the provider and reference and reaches the
// terminal Confirmation state.
func (f *Flow) SubmitPayment(method, ref string) error {
	if f.state != StatePayment {
		return ErrWrongState
	}
	if method != MethodFlooz && method != MethodTMoney {
		return ErrBadMethod
	}
	if len(ref) < MinRefLen {
		return ErrShortRef
	}
	f.Method, f.Ref = method, ref
	f.state = StateConfirmation
	return nil
}
