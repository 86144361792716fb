package models

import "time"

// Item type vocabulary for cart lines.
const (
	ItemFullPackage     = "full-package"
	ItemRegistrationFee = "registration-fee"
	ItemReservationFee  = "reservation-fee"
	ItemCustomQuote     = "custom-quote"
	ItemAIPack          = "ai-pack"
	ItemService         = "service"
)

// Order type, derived from the cart contents at checkout.
const (
	OrderFullPackage  = "full-package"
	OrderReservation  = "reservation"
	OrderRegistration = "registration"
	OrderService      = "service"
)

// Transaction statuses.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Session is a scheduled training cohort with fixed seat capacity.
type Session struct {
	ID        string `json:"id" bson:"id"` // slug, e.g. "2026-09-A"
	Title     string `json:"title" bson:"title"`
	Dates     string `json:"dates" bson:"dates"` // human-readable range
	Total     int    `json:"total" bson:"total"`
	Available int    `json:"available" bson:"available"`
}

// CartItem is one priced line pending checkout.
type CartItem struct {
	ID        string `json:"id" bson:"id"`
	Name      string `json:"name" bson:"name"`
	Price     int64  `json:"price" bson:"price"` // FCFA
	Type      string `json:"type" bson:"type"`
	Details   string `json:"details,omitempty" bson:"details,omitempty"`
	SessionID string `json:"sessionId,omitempty" bson:"sessionId,omitempty"`
}

// DeliveredFile records the artifact handed over when a service order
// is completed.
type DeliveredFile struct {
	Name        string    `json:"name" bson:"name"`
	URL         string    `json:"url" bson:"url"` // data URI
	DeliveredAt time.Time `json:"deliveredAt" bson:"deliveredAt"`
}

// Transaction is a checked-out cart awaiting manual payment
// verification. Items are a snapshot taken at checkout and never
// change afterwards.
type Transaction struct {
	ID              int64          `json:"id" bson:"id"`
	Name            string         `json:"name" bson:"name"`
	Phone           string         `json:"phone" bson:"phone"`
	Email           string         `json:"email,omitempty" bson:"email,omitempty"`
	Method          string         `json:"method" bson:"method"` // mobile-money provider
	PaymentRef      string         `json:"paymentRef" bson:"paymentRef"`
	Amount          int64          `json:"amount" bson:"amount"`
	Type            string         `json:"type" bson:"type"`
	Status          string         `json:"status" bson:"status"`
	Date            string         `json:"date" bson:"date"` // YYYY-MM-DD
	Code            string         `json:"code,omitempty" bson:"code,omitempty"`
	CodeExpiresAt   int64          `json:"codeExpiresAt,omitempty" bson:"codeExpiresAt,omitempty"` // epoch ms
	Items           []CartItem     `json:"items" bson:"items"`
	ServiceProgress int            `json:"serviceProgress" bson:"serviceProgress"`
	DeliveredFile   *DeliveredFile `json:"deliveredFile,omitempty" bson:"deliveredFile,omitempty"`
}

// User is the minimal registry entry; email is the correlation key
// between a visitor and their order history. The password is stored
// as-is — this is a UI gate, not an auth system.
type User struct {
	ID           string    `json:"id" bson:"id"`
	Name         string    `json:"name" bson:"name"`
	Email        string    `json:"email" bson:"email"`
	Password     string    `json:"password" bson:"password"`
	RegisteredAt time.Time `json:"registeredAt" bson:"registeredAt"`
}

// Resource is one admin-uploaded static artifact.
type Resource struct {
	Name string `json:"name" bson:"name"`
	URL  string `json:"url" bson:"url"` // may be a large data URI
}

// GlobalResources is the singleton registry of admin-managed documents
// served to all approved customers.
type GlobalResources struct {
	RegistrationForm *Resource `json:"registrationForm,omitempty" bson:"registrationForm,omitempty"`
	Contract         *Resource `json:"contract,omitempty" bson:"contract,omitempty"`
	CourseContent    *Resource `json:"courseContent,omitempty" bson:"courseContent,omitempty"`
	WhatsAppLink     string    `json:"whatsappLink,omitempty" bson:"whatsappLink,omitempty"`
}

// Notification is a transient user-facing message; it self-destructs
// after a fixed delay.
type Notification struct {
	ID      string `json:"id"`
	Message string `json:"message"`
	Type    string `json:"type"` // success, error, info
}
