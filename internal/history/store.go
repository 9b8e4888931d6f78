package history

import (
	"hash/fnv"
	"sync"

	"fraud-review-system/internal/config"
	"fraud-review-system/internal/models"
)

const shardCount = 32

// Store keeps a bounded recent-activity window per entity key.
//
// Keys are hashed onto a fixed set of shards, each guarded by its own
// RWMutex: appends for the same entity are linearizable while unrelated
// entities proceed in parallel. Windows are owned exclusively by the store;
// Window always returns a copy.
type Store struct {
	cfg    config.HistoryConfig
	shards [shardCount]*shard
}

type shard struct {
	mu      sync.RWMutex
	windows map[string][]models.EntitySummary
}

// NewStore creates an empty history store with the given capacity policy.
func NewStore(cfg config.HistoryConfig) *Store {
	s := &Store{cfg: cfg}
	for i := range s.shards {
		s.shards[i] = &shard{windows: make(map[string][]models.EntitySummary)}
	}
	return s
}

func (s *Store) shardFor(key string) *shard {
	h := fnv.New32a()
	h.Write([]byte(key))
	return s.shards[h.Sum32()%shardCount]
}

// Append adds a summary to the entity's window, evicting the oldest entries
// beyond the count cap and, when a horizon is configured, entries older than
// the horizon behind the newest timestamp. Eviction is silent; it is normal
// operation, not an error.
func (s *Store) Append(entityKey string, summary models.EntitySummary) {
	if entityKey == "" {
		return
	}

	sh := s.shardFor(entityKey)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	window := append(sh.windows[entityKey], summary)

	if s.cfg.Horizon > 0 {
		cutoff := window[len(window)-1].Timestamp.Add(-s.cfg.Horizon)
		drop := 0
		for drop < len(window)-1 && window[drop].Timestamp.Before(cutoff) {
			drop++
		}
		window = window[drop:]
	}

	if s.cfg.MaxEntries > 0 && len(window) > s.cfg.MaxEntries {
		window = window[len(window)-s.cfg.MaxEntries:]
	}

	sh.windows[entityKey] = window
}

// Window returns the entity's summaries, oldest first. An unseen entity
// yields an empty slice, never an error.
func (s *Store) Window(entityKey string) []models.EntitySummary {
	if entityKey == "" {
		return nil
	}

	sh := s.shardFor(entityKey)
	sh.mu.RLock()
	defer sh.mu.RUnlock()

	window := sh.windows[entityKey]
	if len(window) == 0 {
		return nil
	}

	out := make([]models.EntitySummary, len(window))
	copy(out, window)
	return out
}

// Len returns the number of entries currently held for the entity.
func (s *Store) Len(entityKey string) int {
	if entityKey == "" {
		return 0
	}

	sh := s.shardFor(entityKey)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	return len(sh.windows[entityKey])
}

// Clear drops all windows. Used by the admin clear endpoint.
func (s *Store) Clear() {
	for _, sh := range s.shards {
		sh.mu.Lock()
		sh.windows = make(map[string][]models.EntitySummary)
		sh.mu.Unlock()
	}
}
