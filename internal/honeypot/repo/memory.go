package repo

import (
	"context"
	"sync"
	"time"

	"github.com/scamtrap-poc/server/internal/honeypot/model"
	logx "github.com/scamtrap-poc/server/pkg/logger"
)

const sweepInterval = time.Minute

// MemorySessionStore is the default session registry: an in-process map with
// a per-entry idle TTL and a hard capacity bound. When full, the entry
// touched longest ago is evicted to make room. State is gone on process
// termination, which is the documented lifecycle.
type MemorySessionStore struct {
	mu       sync.Mutex
	entries  map[string]*memoryEntry
	ttl      time.Duration
	capacity int
	now      func() time.Time
}

type memoryEntry struct {
	state   *model.SessionState
	touched time.Time
}

func NewMemorySessionStore(ttl time.Duration, capacity int) *MemorySessionStore {
	if capacity <= 0 {
		capacity = 1
	}
	return &MemorySessionStore{
		entries:  make(map[string]*memoryEntry),
		ttl:      ttl,
		capacity: capacity,
		now:      time.Now,
	}
}

func (s *MemorySessionStore) Get(_ context.Context, sessionID string) (*model.SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[sessionID]
	if !ok {
		return nil, nil
	}
	if s.expired(entry) {
		delete(s.entries, sessionID)
		return nil, nil
	}
	return entry.state, nil
}

func (s *MemorySessionStore) Put(_ context.Context, sessionID string, state *model.SessionState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[sessionID]; !exists && len(s.entries) >= s.capacity {
		s.evictOldestLocked()
	}
	s.entries[sessionID] = &memoryEntry{state: state, touched: s.now()}
	return nil
}

// StartSweeper runs a background loop that drops expired sessions until ctx
// is cancelled.
func (s *MemorySessionStore) StartSweeper(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := s.sweep(); n > 0 {
					logx.Debug().Int("evicted", n).Msg("session sweeper dropped expired sessions")
				}
			case <-ctx.Done():
				logx.Info().Msg("session sweeper shutting down")
				return
			}
		}
	}()
}

func (s *MemorySessionStore) sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, entry := range s.entries {
		if s.expired(entry) {
			delete(s.entries, id)
			evicted++
		}
	}
	return evicted
}

func (s *MemorySessionStore) expired(entry *memoryEntry) bool {
	return s.ttl > 0 && s.now().Sub(entry.touched) > s.ttl
}

func (s *MemorySessionStore) evictOldestLocked() {
	var oldestID string
	var oldest time.Time
	for id, entry := range s.entries {
		if oldestID == "" || entry.touched.Before(oldest) {
			oldestID = id
			oldest = entry.touched
		}
	}
	if oldestID != "" {
		logx.Warn().Str("sessionID", oldestID).Msg("session registry full, evicting oldest session")
		delete(s.entries, oldestID)
	}
}

var _ model.SessionStore = (*MemorySessionStore)(nil)
