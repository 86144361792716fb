package notify

import (
	"sync"
	"time"

	"kobetex/models"
	"kobetex/utils"
)

// DefaultTTL is how long a notification stays visible.
const DefaultTTL = 5 * time.Second

// Bus is the in-memory queue of transient user-facing messages. Each
// entry removes itself after the TTL, independent of other state.
type Bus struct {
	mu     sync.Mutex
	ttl    time.Duration
	active []models.Notification
}

func NewBus() *Bus {
	return &Bus{ttl: DefaultTTL}
}

// NewBusTTL is for tests that cannot wait five seconds.
func NewBusTTL(ttl time.Duration) *Bus {
	return &Bus{ttl: ttl}
}

// Push queues a message and schedules its expiry.
func (b *Bus) Push(message, typ string) models.Notification {
	n := models.Notification{
		ID:      utils.GetUUID(),
		Message: message,
		Type:    typ,
	}
	b.mu.Lock()
	b.active = append(b.active, n)
	b.mu.Unlock()

	time.AfterFunc(b.ttl, func() {
		b.remove(n.ID)
	})
	return n
}

func (b *Bus) remove(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	kept := b.active[:0]
	for _, n := range b.active {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	b.active = kept
}

// Active returns the notifications that have not yet expired.
func (b *Bus) Active() []models.Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.Notification, len(b.active))
	copy(out, b.active)
	return out
}
