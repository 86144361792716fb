// Package store is the process-wide state facade: the order ledger,
// the seat inventory, the user registry, the resource registry and the
// notification bus behind one mutex, persisted across the two storage
// tiers.
package store

import (
	"errors"
	"sync"
	"time"

	"kobetex/inventory"
	"kobetex/models"
	"kobetex/notify"
	"kobetex/persist"
	"kobetex/utils"
)

// CodeWindow is how long an access code stays valid after issue.
const CodeWindow = 3 * time.Minute

// MaxUploadBytes caps uploaded resource and delivery payloads.
const MaxUploadBytes = 50 << 20

// DefaultAdminPassword seeds the light tier on first boot; the admin
// can change it afterwards. Plaintext on purpose — this gate is not a
// security boundary.
const DefaultAdminPassword = "kobetex2026"

var (
	ErrNotFound    = errors.New("transaction not found")
	ErrFinalStatus = errors.New("transaction already in a terminal status")
	ErrNotApproved = errors.New("transaction is not approved")

	ErrCodeNotFound = errors.New("no order matches this code")
	ErrCodeExpired  = errors.New("this code has expired; request a regenerated code")

	ErrEmailTaken    = errors.New("an account already exists for this email")
	ErrBadLogin      = errors.New("unknown email or password")
	ErrUploadTooBig  = errors.New("file exceeds the 50MB upload limit")
	ErrUnknownKind   = errors.New("unknown resource kind")
	ErrEmptyResource = errors.New("resource name and content are required")
)

// Clock and generator hooks are injectable so tests get deterministic
// ids and a controllable expiry window.
type Clock func() time.Time
type OrderIDGen func() int64
type CodeGen func() string

// Customer carries the checkout form fields into order creation.
type Customer struct {
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Email  string `json:"email,omitempty"`
	Method string `json:"method"`
	Ref    string `json:"paymentRef"`
}

// Store composes the subsystems. Constructed once at process start;
// fully reconstructible for tests.
type Store struct {
	mu sync.Mutex

	light persist.KV
	heavy persist.BlobStore

	Inventory *inventory.Tracker
	Notifier  *notify.Bus

	// Injectable hooks, assigned before Load if overridden.
	Now     Clock
	NextID  OrderIDGen
	NewCode CodeGen

	// OnChange, when set, receives an event name and payload after
	// each committed mutation (the live admin feed hooks in here).
	OnChange func(event string, data any)

	txns          []models.Transaction
	users         []models.User
	currentUser   string
	resources     models.GlobalResources
	adminPassword string

	loaded         bool
	dirtyTxns      bool
	dirtyResources bool
}

// New wires a store over the given tiers. Call Load before serving.
func New(light persist.KV, heavy persist.BlobStore, bus *notify.Bus) *Store {
	s := &Store{
		light:     light,
		heavy:     heavy,
		Inventory: inventory.NewTracker(inventory.Seed()),
		Notifier:  bus,
		Now:       time.Now,
		NewCode:   utils.GenerateAccessCode,
	}
	s.NextID = s.defaultNextID()
	return s
}

// defaultNextID issues millisecond-timestamp ids, bumping past the
// last issued id when the clock has not advanced so two orders created
// in the same millisecond never collide.
func (s *Store) defaultNextID() OrderIDGen {
	var mu sync.Mutex
	var last int64
	return func() int64 {
		mu.Lock()
		defer mu.Unlock()
		id := s.Now().UnixMilli()
		if id <= last {
			id = last + 1
		}
		last = id
		return id
	}
}

func (s *Store) emit(event string, data any) {
	if s.OnChange != nil {
		s.OnChange(event, data)
	}
}

// classify derives the order type from the cart lines with fixed
// priority: full-package beats reservation beats registration;
// anything else is a service order.
func classify(items []models.CartItem) string {
	hasReservation := false
	hasRegistration := false
	for _, it := range items {
		switch it.Type {
		case models.ItemFullPackage:
			return models.OrderFullPackage
		case models.ItemReservationFee:
			hasReservation = true
		case models.ItemRegistrationFee:
			hasRegistration = true
		}
	}
	if hasReservation {
		return models.OrderReservation
	}
	if hasRegistration {
		return models.OrderRegistration
	}
	return models.OrderService
}

// CreateOrder snapshots the cart into a pending transaction.
func (s *Store) CreateOrder(c Customer, items []models.CartItem, total int64) models.Transaction {
	s.mu.Lock()
	txn := models.Transaction{
		ID:              s.NextID(),
		Name:            c.Name,
		Phone:           c.Phone,
		Email:           c.Email,
		Method:          c.Method,
		PaymentRef:      c.Ref,
		Amount:          total,
		Type:            classify(items),
		Status:          models.StatusPending,
		Date:            s.Now().Format("2006-01-02"),
		Items:           append([]models.CartItem(nil), items...),
		ServiceProgress: 0,
	}
	s.txns = append(s.txns, txn)
	s.persistTxnsLocked()
	s.mu.Unlock()

	s.Notifier.Push("Commande enregistrée — en attente de validation", "success")
	s.emit("order_created", txn)
	return txn
}

// SetStatus moves a pending transaction forward. Approval issues a
// fresh access code and consumes at most one seat per linked session;
// re-approving an already-approved order regenerates the code without
// touching inventory. Rejection changes nothing else. Both terminal
// states refuse any other transition.
func (s *Store) SetStatus(id int64, status string) (models.Transaction, error) {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return models.Transaction{}, ErrNotFound
	}
	txn := &s.txns[idx]

	switch status {
	case models.StatusApproved:
		firstApproval := txn.Status != models.StatusApproved
		if txn.Status == models.StatusRejected {
			s.mu.Unlock()
			return models.Transaction{}, ErrFinalStatus
		}
		if firstApproval {
			// One seat per linked session, regardless of how many
			// lines reference it.
			seen := make(map[string]bool)
			for _, it := range txn.Items {
				if it.SessionID != "" && !seen[it.SessionID] {
					seen[it.SessionID] = true
					s.Inventory.Decrement(it.SessionID)
				}
			}
			s.light.Set(persist.KeySessions, s.Inventory.List())
			txn.ServiceProgress = 5
		}
		txn.Status = models.StatusApproved
		txn.Code = s.NewCode()
		txn.CodeExpiresAt = s.Now().Add(CodeWindow).UnixMilli()
	case models.StatusRejected:
		if txn.Status != models.StatusPending {
			s.mu.Unlock()
			return models.Transaction{}, ErrFinalStatus
		}
		txn.Status = models.StatusRejected
	default:
		s.mu.Unlock()
		return models.Transaction{}, errors.New("invalid status")
	}

	s.persistTxnsLocked()
	out := *txn
	s.mu.Unlock()

	if status == models.StatusApproved {
		s.Notifier.Push("Commande approuvée — code d'accès émis", "success")
	} else {
		s.Notifier.Push("Commande rejetée", "error")
	}
	s.emit("order_status", out)
	return out, nil
}

// RegenerateCode issues a new code and a new validity window for an
// approved order whose code lapsed. Status and inventory stay put.
func (s *Store) RegenerateCode(id int64) (models.Transaction, error) {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return models.Transaction{}, ErrNotFound
	}
	txn := &s.txns[idx]
	if txn.Status != models.StatusApproved {
		s.mu.Unlock()
		return models.Transaction{}, ErrNotApproved
	}
	txn.Code = s.NewCode()
	txn.CodeExpiresAt = s.Now().Add(CodeWindow).UnixMilli()
	s.persistTxnsLocked()
	out := *txn
	s.mu.Unlock()

	s.emit("order_code", out)
	return out, nil
}

// UpdateServiceProgress sets the 0–100 progress. A non-nil file marks
// terminal delivery: the progress argument is overridden to 100 and
// the artifact is stamped with the delivery time.
func (s *Store) UpdateServiceProgress(id int64, progress int, file *models.DeliveredFile) (models.Transaction, error) {
	if file != nil && len(file.URL) > MaxUploadBytes {
		return models.Transaction{}, ErrUploadTooBig
	}

	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return models.Transaction{}, ErrNotFound
	}
	txn := &s.txns[idx]

	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}
	txn.ServiceProgress = progress

	if file != nil {
		file.DeliveredAt = s.Now()
		txn.DeliveredFile = file
		txn.ServiceProgress = 100
	}

	s.persistTxnsLocked()
	out := *txn
	s.mu.Unlock()

	if file != nil {
		s.Notifier.Push("Document livré", "success")
	}
	s.emit("order_progress", out)
	return out, nil
}

// Delete removes one transaction. Unknown ids are a no-op. Consumed
// seats are not restored: a purged approved order keeps its seat spent.
func (s *Store) Delete(id int64) {
	s.mu.Lock()
	kept := s.txns[:0]
	removed := false
	for _, t := range s.txns {
		if t.ID == id {
			removed = true
			continue
		}
		kept = append(kept, t)
	}
	s.txns = kept
	if removed {
		s.persistTxnsLocked()
	}
	s.mu.Unlock()

	if removed {
		s.emit("order_deleted", id)
	}
}

// ClearAll drops the whole ledger. Seats stay spent, as with Delete.
func (s *Store) ClearAll() {
	s.mu.Lock()
	s.txns = nil
	s.persistTxnsLocked()
	s.mu.Unlock()

	s.emit("orders_cleared", nil)
}

// ValidateCode resolves a customer-entered code. An expired code is
// reported as expired, not as unknown, so the UI can point the
// customer at code regeneration instead of implying the order is gone.
func (s *Store) ValidateCode(code string) (models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	nowMs := s.Now().UnixMilli()
	for _, t := range s.txns {
		if t.Status != models.StatusApproved || t.Code != code {
			continue
		}
		if t.CodeExpiresAt != 0 && nowMs >= t.CodeExpiresAt {
			return models.Transaction{}, ErrCodeExpired
		}
		return t, nil
	}
	return models.Transaction{}, ErrCodeNotFound
}

// Transactions returns a snapshot of the ledger, newest last.
func (s *Store) Transactions() []models.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Transaction, len(s.txns))
	copy(out, s.txns)
	return out
}

// Get returns one transaction by id.
func (s *Store) Get(id int64) (models.Transaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return models.Transaction{}, false
	}
	return s.txns[idx], true
}

// OrdersByEmail returns a customer's history; email is the sole
// correlation key.
func (s *Store) OrdersByEmail(email string) []models.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Transaction
	for _, t := range s.txns {
		if t.Email == email {
			out = append(out, t)
		}
	}
	return out
}

func (s *Store) indexLocked(id int64) int {
	for i := range s.txns {
		if s.txns[i].ID == id {
			return i
		}
	}
	return -1
}
