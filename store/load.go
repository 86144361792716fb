package store

import (
	"context"
	"encoding/json"
	"log"

	"kobetex/inventory"
	"kobetex/models"
	"kobetex/persist"
)

// Load pulls both tiers into memory. It MUST finish before heavy-tier
// writes are allowed: a mutation racing the initial load would
// otherwise persist an empty ledger over the stored history. Mutations
// issued before Load resolves are held in memory and merged with the
// stored history here, then flushed.
func (s *Store) Load(ctx context.Context) {
	// Light tier first: small, synchronous, no ordering hazard.
	var sessions []models.Session
	if s.light.Get(persist.KeySessions, &sessions) && len(sessions) > 0 {
		s.Inventory = inventory.NewTracker(sessions)
	} else {
		s.light.Set(persist.KeySessions, s.Inventory.List())
	}

	var users []models.User
	if s.light.Get(persist.KeyUsers, &users) {
		s.mu.Lock()
		s.users = users
		s.mu.Unlock()
	}

	var current string
	if s.light.Get(persist.KeyCurrentUser, &current) {
		s.mu.Lock()
		s.currentUser = current
		s.mu.Unlock()
	}

	var adminPw string
	if s.light.Get(persist.KeyAdminPassword, &adminPw) && adminPw != "" {
		s.mu.Lock()
		s.adminPassword = adminPw
		s.mu.Unlock()
	} else {
		s.mu.Lock()
		s.adminPassword = DefaultAdminPassword
		s.mu.Unlock()
		s.light.Set(persist.KeyAdminPassword, DefaultAdminPassword)
	}

	// Heavy tier: merge stored history with anything created while
	// the load was pending.
	storedTxns := s.loadTransactions(ctx)
	storedRes := s.loadResources(ctx)

	s.mu.Lock()
	preload := s.txns
	s.txns = storedTxns
	known := make(map[int64]bool, len(storedTxns))
	for _, t := range storedTxns {
		known[t.ID] = true
	}
	for _, t := range preload {
		if !known[t.ID] {
			s.txns = append(s.txns, t)
		}
	}

	if storedRes != nil && !s.dirtyResources {
		s.resources = *storedRes
	}

	s.loaded = true
	flushTxns := s.dirtyTxns || len(preload) > 0
	flushRes := s.dirtyResources
	if flushTxns {
		s.persistTxnsLocked()
	}
	if flushRes {
		s.persistResourcesLocked()
	}
	s.mu.Unlock()
}

func (s *Store) loadTransactions(ctx context.Context) []models.Transaction {
	data, err := s.heavy.Load(ctx, persist.BlobTransactions)
	if err != nil || data == nil {
		return nil
	}
	var txns []models.Transaction
	if err := json.Unmarshal(data, &txns); err != nil {
		log.Println("store: corrupt transactions blob, starting empty:", err)
		return nil
	}
	return txns
}

func (s *Store) loadResources(ctx context.Context) *models.GlobalResources {
	data, err := s.heavy.Load(ctx, persist.BlobResources)
	if err != nil || data == nil {
		return nil
	}
	var res models.GlobalResources
	if err := json.Unmarshal(data, &res); err != nil {
		log.Println("store: corrupt resources blob, ignoring:", err)
		return nil
	}
	return &res
}

// persistTxnsLocked writes the ledger to the heavy tier, or defers the
// write when the initial load has not completed yet. Caller holds the
// mutex.
func (s *Store) persistTxnsLocked() {
	if !s.loaded {
		s.dirtyTxns = true
		return
	}
	s.dirtyTxns = false
	data, err := json.Marshal(s.txns)
	if err != nil {
		log.Println("store: marshal transactions error:", err)
		return
	}
	s.heavy.Save(context.Background(), persist.BlobTransactions, data)
}

func (s *Store) persistResourcesLocked() {
	if !s.loaded {
		s.dirtyResources = true
		return
	}
	s.dirtyResources = false
	data, err := json.Marshal(s.resources)
	if err != nil {
		log.Println("store: marshal resources error:", err)
		return
	}
	s.heavy.Save(context.Background(), persist.BlobResources, data)
}
