package persist

import (
	"context"
	"encoding/json"
	"log"
	"sync"
)

// MemKV is the in-memory light tier: the local-only strategy, the
// degraded mode when Redis is down, and the test fixture.
type MemKV struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemKV() *MemKV {
	return &MemKV{data: make(map[string][]byte)}
}

func (m *MemKV) Set(key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		log.Println("MemKV marshal error for", key, ":", err)
		return
	}
	m.mu.Lock()
	m.data[key] = data
	m.mu.Unlock()
}

func (m *MemKV) Get(key string, out any) bool {
	m.mu.RLock()
	data, ok := m.data[key]
	m.mu.RUnlock()
	if !ok {
		return false
	}
	return json.Unmarshal(data, out) == nil
}

// MemBlobs is the in-memory heavy tier.
type MemBlobs struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemBlobs() *MemBlobs {
	return &MemBlobs{data: make(map[string][]byte)}
}

func (m *MemBlobs) Load(_ context.Context, name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.data[name]
	if !ok {
		return nil, nil
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, nil
}

func (m *MemBlobs) Save(_ context.Context, name string, data []byte) {
	cp := make([]byte, len(data))
	copy(cp, data)
	m.mu.Lock()
	m.data[name] = cp
	m.mu.Unlock()
}
