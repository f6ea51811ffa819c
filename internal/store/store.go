package store

import (
	"strings"
	"sync"
	"time"

	"github.com/crimson-sun/triage/internal/model"
)

// DefaultCapacity is the ring size used by the service.
const DefaultCapacity = 512

// Record is one remembered verdict, newest records served first.
type Record struct {
	Time    time.Time    `json:"time"`
	Level   string       `json:"level"`
	Domain  model.Domain `json:"domain"`
	Message string       `json:"message"`
}

// Store is a fixed-capacity in-memory ring of recent verdict records. It is
// the only state the service keeps between requests, and it is never
// persisted.
type Store struct {
	mu      sync.RWMutex
	records []Record
	next    int
	full    bool
}

// New creates a Store holding at most capacity records.
func New(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{records: make([]Record, capacity)}
}

// Add remembers a verdict, evicting the oldest record once full.
func (s *Store) Add(r Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[s.next] = r
	s.next++
	if s.next == len(s.records) {
		s.next = 0
		s.full = true
	}
}

// Recent returns up to limit records, newest first, optionally filtered by
// level (case-insensitive).
func (s *Store) Recent(limit int, level string) []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []Record{}
	for _, r := range s.snapshotLocked() {
		if level != "" && !strings.EqualFold(r.Level, level) {
			continue
		}
		out = append(out, r)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

// Search returns up to limit records whose message contains query,
// case-insensitively, newest first.
func (s *Store) Search(query string, limit int) []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(query)
	out := []Record{}
	for _, r := range s.snapshotLocked() {
		if !strings.Contains(strings.ToLower(r.Message), q) {
			continue
		}
		out = append(out, r)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

// Len reports how many records are held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.full {
		return len(s.records)
	}
	return s.next
}

// snapshotLocked returns records newest first. Caller holds at least a read lock.
func (s *Store) snapshotLocked() []Record {
	n := s.next
	if !s.full {
		out := make([]Record, n)
		for i := 0; i < n; i++ {
			out[i] = s.records[n-1-i]
		}
		return out
	}
	size := len(s.records)
	out := make([]Record, size)
	for i := 0; i < size; i++ {
		out[i] = s.records[(n-1-i+size)%size]
	}
	return out
}
