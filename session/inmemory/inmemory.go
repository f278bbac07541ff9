package inmemory

import (
	"sort"
	"sync"
	"time"

	"github.com/mohammad-safakhou/histchat/session"
)

type entry struct {
	turns      []session.Turn
	createdAt  time.Time
	lastAccess time.Time
}

// Store is an in-memory session.Store guarded by a single RWMutex. Critical
// sections cover only map and slice manipulation, so mutations on one
// session exclude each other while nothing ever blocks on I/O under the
// lock.
type Store struct {
	sessions   map[string]*entry
	maxHistory int
	mu         sync.RWMutex
	now        func() time.Time
}

// NewStore creates a store retaining at most maxHistory turns per session.
func NewStore(maxHistory int) *Store {
	return &Store{
		sessions:   make(map[string]*entry),
		maxHistory: maxHistory,
		now:        time.Now,
	}
}

var _ session.Store = (*Store)(nil)

// getOrCreateLocked returns the entry for id, creating it if absent.
// Callers must hold the write lock.
func (s *Store) getOrCreateLocked(id string) *entry {
	e, ok := s.sessions[id]
	if !ok {
		now := s.now()
		e = &entry{createdAt: now, lastAccess: now}
		s.sessions[id] = e
	}
	return e
}

func (s *Store) GetOrCreate(id string) []session.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.getOrCreateLocked(id)
	e.lastAccess = s.now()
	return copyTurns(e.turns)
}

func (s *Store) Append(id string, turns ...session.Turn) {
	if len(turns) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.getOrCreateLocked(id)
	e.turns = append(e.turns, turns...)
	if over := len(e.turns) - s.maxHistory; over > 0 {
		// FIFO eviction: drop the oldest turns, never the newest.
		e.turns = append(e.turns[:0], e.turns[over:]...)
	}
	e.lastAccess = s.now()
}

func (s *Store) History(id string) []session.Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.sessions[id]
	if !ok {
		return nil
	}
	return copyTurns(e.turns)
}

func (s *Store) Clear(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	if !ok {
		return
	}
	e.turns = nil
	e.lastAccess = s.now()
}

func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

func (s *Store) Exists(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sessions[id]
	return ok
}

func (s *Store) MessageCount(id string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.sessions[id]
	if !ok {
		return 0
	}
	return len(e.turns)
}

func (s *Store) List() []session.Info {
	s.mu.RLock()
	defer s.mu.RUnlock()
	infos := make([]session.Info, 0, len(s.sessions))
	for id, e := range s.sessions {
		infos = append(infos, session.Info{
			ID:           id,
			MessageCount: len(e.turns),
			CreatedAt:    e.createdAt,
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos
}

func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *Store) CreatedAt(id string) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.sessions[id]
	if !ok {
		return time.Time{}, false
	}
	return e.createdAt, true
}

func (s *Store) LastAccess(id string) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.sessions[id]
	if !ok {
		return time.Time{}, false
	}
	return e.lastAccess, true
}

func (s *Store) EvictIdle(olderThan time.Duration) int {
	if olderThan <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(-olderThan)
	evicted := 0
	for id, e := range s.sessions {
		if e.lastAccess.Before(cutoff) {
			delete(s.sessions, id)
			evicted++
		}
	}
	return evicted
}

func copyTurns(turns []session.Turn) []session.Turn {
	if len(turns) == 0 {
		return nil
	}
	out := make([]session.Turn, len(turns))
	copy(out, turns)
	return out
}
