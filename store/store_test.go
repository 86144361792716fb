package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"kobetex/models"
	"kobetex/notify"
	"kobetex/persist"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := New(persist.NewMemKV(), persist.NewMemBlobs(), notify.NewBusTTL(10*time.Millisecond))
	var next int64
	s.NextID = func() int64 { next++; return next }
	s.Load(context.Background())
	return s
}

func sessionItem(sessionID string) models.CartItem {
	return models.CartItem{
		ID:        "line-1",
		Name:      "Formation complète",
		Price:     50000,
		Type:      models.ItemFullPackage,
		SessionID: sessionID,
	}
}

func TestApproveDecrementsOneSeatPerSession(t *testing.T) {
	s := newTestStore(t)
	sessions := s.Inventory.List()
	sid := sessions[0].ID
	total := sessions[0].Total

	// two lines pointing at the same session must cost one seat
	items := []models.CartItem{sessionItem(sid), {
		ID: "line-2", Name: "Frais d'inscription", Price: 5000,
		Type: models.ItemRegistrationFee, SessionID: sid,
	}}
	txn := s.CreateOrder(Customer{Name: "Afi", Phone: "90112233", Method: "flooz", Ref: "REF123"}, items, 55000)

	if _, err := s.SetStatus(txn.ID, models.StatusApproved); err != nil {
		t.Fatalf("approve: %v", err)
	}
	got, _ := s.Inventory.Get(sid)
	if got.Available != total-1 {
		t.Fatalf("expected %d seats, got %d", total-1, got.Available)
	}

	// re-approval regenerates the code but must not touch inventory
	if _, err := s.SetStatus(txn.ID, models.StatusApproved); err != nil {
		t.Fatalf("re-approve: %v", err)
	}
	got, _ = s.Inventory.Get(sid)
	if got.Available != total-1 {
		t.Fatalf("re-approval changed seats: got %d", got.Available)
	}
}

func TestSeatFloorsAtZero(t *testing.T) {
	s := newTestStore(t)
	sid := s.Inventory.List()[0].ID
	total := s.Inventory.List()[0].Total

	for i := 0; i < total+5; i++ {
		txn := s.CreateOrder(Customer{Name: "X", Phone: "90000000", Method: "tmoney", Ref: "REF"},
			[]models.CartItem{sessionItem(sid)}, 50000)
		if _, err := s.SetStatus(txn.ID, models.StatusApproved); err != nil {
			t.Fatalf("approve %d: %v", i, err)
		}
	}
	got, _ := s.Inventory.Get(sid)
	if got.Available != 0 {
		t.Fatalf("expected floor at 0, got %d", got.Available)
	}
}

func TestCodeValidityWindow(t *testing.T) {
	s := newTestStore(t)
	t0 := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	current := t0
	s.Now = func() time.Time { return current }

	txn := s.CreateOrder(Customer{Name: "Kossi", Phone: "91223344", Method: "flooz", Ref: "ABC"},
		[]models.CartItem{sessionItem("")}, 50000)
	approved, err := s.SetStatus(txn.ID, models.StatusApproved)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.CodeExpiresAt != t0.Add(CodeWindow).UnixMilli() {
		t.Fatalf("unexpected expiry %d", approved.CodeExpiresAt)
	}

	current = t0.Add(CodeWindow - time.Millisecond)
	if _, err := s.ValidateCode(approved.Code); err != nil {
		t.Fatalf("code should be valid just before expiry: %v", err)
	}

	current = t0.Add(CodeWindow)
	if _, err := s.ValidateCode(approved.Code); err != ErrCodeExpired {
		t.Fatalf("expected ErrCodeExpired at the boundary, got %v", err)
	}

	if _, err := s.ValidateCode("KOB-NOPENOPE"); err != ErrCodeNotFound {
		t.Fatalf("expected ErrCodeNotFound, got %v", err)
	}
}

func TestRegenerateCodeReopensWindow(t *testing.T) {
	s := newTestStore(t)
	t0 := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	current := t0
	s.Now = func() time.Time { return current }

	txn := s.CreateOrder(Customer{Name: "Ama", Phone: "92334455", Method: "tmoney", Ref: "XYZ"},
		[]models.CartItem{sessionItem("")}, 20000)

	// regeneration before approval is refused
	if _, err := s.RegenerateCode(txn.ID); err != ErrNotApproved {
		t.Fatalf("expected ErrNotApproved, got %v", err)
	}

	approved, _ := s.SetStatus(txn.ID, models.StatusApproved)
	current = t0.Add(10 * time.Minute)
	if _, err := s.ValidateCode(approved.Code); err != ErrCodeExpired {
		t.Fatalf("expected expired, got %v", err)
	}

	fresh, err := s.RegenerateCode(txn.ID)
	if err != nil {
		t.Fatalf("regenerate: %v", err)
	}
	if fresh.Status != models.StatusApproved {
		t.Fatalf("regeneration must not alter status, got %s", fresh.Status)
	}
	if _, err := s.ValidateCode(fresh.Code); err != nil {
		t.Fatalf("fresh code should validate: %v", err)
	}
}

func TestOrderTypeClassification(t *testing.T) {
	s := newTestStore(t)

	// reservation beats registration when no full package is present
	items := []models.CartItem{
		{ID: "a", Name: "Réservation", Price: 10000, Type: models.ItemReservationFee},
		{ID: "b", Name: "Inscription", Price: 5000, Type: models.ItemRegistrationFee},
	}
	txn := s.CreateOrder(Customer{Name: "Edem", Phone: "93445566", Method: "flooz", Ref: "R1"}, items, 15000)
	if txn.Type != models.OrderReservation {
		t.Fatalf("expected reservation, got %s", txn.Type)
	}

	items = append(items, models.CartItem{ID: "c", Name: "Pack complet", Price: 50000, Type: models.ItemFullPackage})
	txn = s.CreateOrder(Customer{Name: "Edem", Phone: "93445566", Method: "flooz", Ref: "R2"}, items, 65000)
	if txn.Type != models.OrderFullPackage {
		t.Fatalf("expected full-package, got %s", txn.Type)
	}

	txn = s.CreateOrder(Customer{Name: "Edem", Phone: "93445566", Method: "flooz", Ref: "R3"},
		[]models.CartItem{{ID: "d", Name: "Mise en page mémoire", Price: 30000, Type: models.ItemCustomQuote}}, 30000)
	if txn.Type != models.OrderService {
		t.Fatalf("expected service, got %s", txn.Type)
	}
}

func TestDeliveryForcesCompletion(t *testing.T) {
	s := newTestStore(t)
	txn := s.CreateOrder(Customer{Name: "Sena", Phone: "94556677", Method: "tmoney", Ref: "D1"},
		[]models.CartItem{{ID: "a", Name: "Relecture", Price: 15000, Type: models.ItemService}}, 15000)

	updated, err := s.UpdateServiceProgress(txn.ID, 40, nil)
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	if updated.ServiceProgress != 40 {
		t.Fatalf("expected 40, got %d", updated.ServiceProgress)
	}

	// a file payload is terminal delivery, whatever progress says
	updated, err = s.UpdateServiceProgress(txn.ID, 10, &models.DeliveredFile{
		Name: "memoire.pdf", URL: "data:application/pdf;base64,AAAA",
	})
	if err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if updated.ServiceProgress != 100 {
		t.Fatalf("delivery must force 100, got %d", updated.ServiceProgress)
	}
	if updated.DeliveredFile == nil || updated.DeliveredFile.DeliveredAt.IsZero() {
		t.Fatal("delivered file must carry a delivery timestamp")
	}
}

func TestProgressClamped(t *testing.T) {
	s := newTestStore(t)
	txn := s.CreateOrder(Customer{Name: "Yawa", Phone: "95667788", Method: "flooz", Ref: "C1"},
		[]models.CartItem{{ID: "a", Name: "Relecture", Price: 15000, Type: models.ItemService}}, 15000)

	updated, _ := s.UpdateServiceProgress(txn.ID, 150, nil)
	if updated.ServiceProgress != 100 {
		t.Fatalf("expected clamp to 100, got %d", updated.ServiceProgress)
	}
	updated, _ = s.UpdateServiceProgress(txn.ID, -3, nil)
	if updated.ServiceProgress != 0 {
		t.Fatalf("expected clamp to 0, got %d", updated.ServiceProgress)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	txn := s.CreateOrder(Customer{Name: "Komi", Phone: "96778899", Method: "tmoney", Ref: "Z1"},
		[]models.CartItem{{ID: "a", Name: "Pack IA", Price: 8000, Type: models.ItemAIPack}}, 8000)

	s.Delete(9999) // unknown id: no-op
	if len(s.Transactions()) != 1 {
		t.Fatal("deleting an unknown id must leave the ledger unchanged")
	}

	s.Delete(txn.ID)
	s.Delete(txn.ID)
	if len(s.Transactions()) != 0 {
		t.Fatal("delete failed")
	}
}

func TestDeleteDoesNotRestoreSeats(t *testing.T) {
	s := newTestStore(t)
	sid := s.Inventory.List()[0].ID
	total := s.Inventory.List()[0].Total

	txn := s.CreateOrder(Customer{Name: "Abra", Phone: "97889900", Method: "flooz", Ref: "S1"},
		[]models.CartItem{sessionItem(sid)}, 50000)
	s.SetStatus(txn.ID, models.StatusApproved)
	s.Delete(txn.ID)

	got, _ := s.Inventory.Get(sid)
	if got.Available != total-1 {
		t.Fatalf("deleting an approved order must keep its seat spent, got %d", got.Available)
	}
}

func TestStatusTransitionsAreForwardOnly(t *testing.T) {
	s := newTestStore(t)
	txn := s.CreateOrder(Customer{Name: "Mawuli", Phone: "98990011", Method: "tmoney", Ref: "F1"},
		[]models.CartItem{{ID: "a", Name: "Inscription", Price: 5000, Type: models.ItemRegistrationFee}}, 5000)

	if _, err := s.SetStatus(txn.ID, models.StatusRejected); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if _, err := s.SetStatus(txn.ID, models.StatusApproved); err != ErrFinalStatus {
		t.Fatalf("rejected orders must stay rejected, got %v", err)
	}

	txn2 := s.CreateOrder(Customer{Name: "Mawuli", Phone: "98990011", Method: "tmoney", Ref: "F2"},
		[]models.CartItem{{ID: "b", Name: "Inscription", Price: 5000, Type: models.ItemRegistrationFee}}, 5000)
	s.SetStatus(txn2.ID, models.StatusApproved)
	if _, err := s.SetStatus(txn2.ID, models.StatusRejected); err != ErrFinalStatus {
		t.Fatalf("approved orders must not become rejected, got %v", err)
	}
}

func TestLoadMergesPreLoadMutations(t *testing.T) {
	// Prime the heavy tier with pre-existing history.
	heavy := persist.NewMemBlobs()
	history := []models.Transaction{{
		ID: 100, Name: "Ancien", Phone: "90000001", Method: "flooz",
		PaymentRef: "OLD", Amount: 5000, Type: models.OrderRegistration,
		Status: models.StatusPending, Date: "2026-08-01",
		Items: []models.CartItem{{ID: "h", Name: "Inscription", Price: 5000, Type: models.ItemRegistrationFee}},
	}}
	data, _ := json.Marshal(history)
	heavy.Save(context.Background(), persist.BlobTransactions, data)

	s := New(persist.NewMemKV(), heavy, notify.NewBusTTL(10*time.Millisecond))
	s.NextID = func() int64 { return 200 }

	// Mutation issued before the initial load resolves.
	s.CreateOrder(Customer{Name: "Nouveau", Phone: "90000002", Method: "tmoney", Ref: "NEW"},
		[]models.CartItem{{ID: "n", Name: "Pack IA", Price: 8000, Type: models.ItemAIPack}}, 8000)

	s.Load(context.Background())

	// The persisted snapshot must hold history plus the new order,
	// not the new order alone.
	raw, err := heavy.Load(context.Background(), persist.BlobTransactions)
	if err != nil || raw == nil {
		t.Fatalf("load blob: %v", err)
	}
	var persisted []models.Transaction
	if err := json.Unmarshal(raw, &persisted); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(persisted) != 2 {
		t.Fatalf("expected merged history of 2, got %d", len(persisted))
	}
	ids := map[int64]bool{persisted[0].ID: true, persisted[1].ID: true}
	if !ids[100] || !ids[200] {
		t.Fatalf("expected ids 100 and 200, got %v", ids)
	}
}

func TestOrdersByEmail(t *testing.T) {
	s := newTestStore(t)
	s.CreateOrder(Customer{Name: "A", Phone: "1", Email: "a@ex.com", Method: "flooz", Ref: "1"},
		[]models.CartItem{{ID: "x", Name: "Inscription", Price: 5000, Type: models.ItemRegistrationFee}}, 5000)
	s.CreateOrder(Customer{Name: "B", Phone: "2", Email: "b@ex.com", Method: "flooz", Ref: "2"},
		[]models.CartItem{{ID: "y", Name: "Inscription", Price: 5000, Type: models.ItemRegistrationFee}}, 5000)

	if got := len(s.OrdersByEmail("a@ex.com")); got != 1 {
		t.Fatalf("expected 1 order for a@ex.com, got %d", got)
	}
	if got := len(s.OrdersByEmail("nobody@ex.com")); got != 0 {
		t.Fatalf("expected 0 orders, got %d", got)
	}
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestStore(t)
	u, err := s.Register("Jean Dupont", "jean@ex.com", "motdepasse")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := s.Register("Autre", "jean@ex.com", "x"); err != ErrEmailTaken {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	if _, err := s.Login("jean@ex.com", "mauvais"); err != ErrBadLogin {
		t.Fatalf("expected ErrBadLogin, got %v", err)
	}
	logged, err := s.Login("jean@ex.com", "motdepasse")
	if err != nil || logged.ID != u.ID {
		t.Fatalf("login failed: %v", err)
	}

	cur, ok := s.CurrentUser()
	if !ok || cur.ID != u.ID {
		t.Fatal("current user should be set after login")
	}
	s.Logout()
	if _, ok := s.CurrentUser(); ok {
		t.Fatal("current user should be cleared after logout")
	}
}

func TestResourceUploadLimits(t *testing.T) {
	s := newTestStore(t)

	if err := s.SetResource(ResourceContract, "", "data:x"); err != ErrEmptyResource {
		t.Fatalf("expected ErrEmptyResource, got %v", err)
	}
	if err := s.SetResource("bogus", "f.pdf", "data:x"); err != ErrUnknownKind {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
	if err := s.SetResource(ResourceContract, "contrat.pdf", "data:application/pdf;base64,AAAA"); err != nil {
		t.Fatalf("upload: %v", err)
	}
	res := s.Resources()
	if res.Contract == nil || res.Contract.Name != "contrat.pdf" {
		t.Fatal("contract resource not stored")
	}
}

func TestDefaultIDsNeverCollide(t *testing.T) {
	// Default generator, frozen clock: the worst case for id reuse.
	s := New(persist.NewMemKV(), persist.NewMemBlobs(), notify.NewBusTTL(10*time.Millisecond))
	frozen := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	s.Now = func() time.Time { return frozen }
	s.Load(context.Background())

	item := []models.CartItem{{ID: "x", Name: "Inscription", Price: 5000, Type: models.ItemRegistrationFee}}
	a := s.CreateOrder(Customer{Name: "A", Phone: "1", Method: "flooz", Ref: "1"}, item, 5000)
	b := s.CreateOrder(Customer{Name: "B", Phone: "2", Method: "flooz", Ref: "2"}, item, 5000)
	if a.ID == b.ID {
		t.Fatalf("two orders in the same millisecond share id %d", a.ID)
	}

	s.Delete(a.ID)
	if got := len(s.Transactions()); got != 1 {
		t.Fatalf("deleting one order removed %d of 2", 2-got)
	}
	if _, ok := s.Get(b.ID); !ok {
		t.Fatal("the other customer's order must survive")
	}
}

func TestAdminPasswordGate(t *testing.T) {
	s := newTestStore(t)
	if !s.CheckAdminPassword(DefaultAdminPassword) {
		t.Fatal("seeded password should pass")
	}
	if s.CheckAdminPassword("") || s.CheckAdminPassword("wrong") {
		t.Fatal("wrong passwords must fail")
	}
	s.SetAdminPassword("nouveau")
	if s.CheckAdminPassword(DefaultAdminPassword) || !s.CheckAdminPassword("nouveau") {
		t.Fatal("password change not applied")
	}
}
