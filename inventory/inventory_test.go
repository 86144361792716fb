package inventory

import "testing"

func TestDecrementFloorsAtZero(t *testing.T) {
	tr := NewTracker(Seed())
	id := Seed()[0].ID
	total := Seed()[0].Total

	for i := 0; i < total+3; i++ {
		tr.Decrement(id)
	}
	got, ok := tr.Get(id)
	if !ok {
		t.Fatal("session missing")
	}
	if got.Available != 0 {
		t.Fatalf("expected 0, got %d", got.Available)
	}
}

func TestResetRestoresCapacity(t *testing.T) {
	tr := NewTracker(Seed())
	id := Seed()[1].ID
	tr.Decrement(id)
	tr.Decrement(id)
	tr.Reset(id)

	got, _ := tr.Get(id)
	if got.Available != got.Total {
		t.Fatalf("expected full capacity %d, got %d", got.Total, got.Available)
	}
}

func TestListIsASnapshot(t *testing.T) {
	tr := NewTracker(Seed())
	list := tr.List()
	list[0].Available = 0

	got, _ := tr.Get(list[0].ID)
	if got.Available != got.Total {
		t.Fatal("mutating a List result must not affect the tracker")
	}
}
