package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore implements Store with in-memory maps. Used for testing, the
// CLI and development. Not suitable for production (no persistence).
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]User
	evals []Evaluation
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[string]User),
	}
}

func (s *MemoryStore) InsertUser(_ context.Context, user User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.Prefix]; ok {
		return fmt.Errorf("user with prefix %s already exists", user.Prefix)
	}
	s.users[user.Prefix] = user
	return nil
}

func (s *MemoryStore) GetUser(_ context.Context, prefix string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[prefix]
	if !ok {
		return User{}, fmt.Errorf("user %s: %w", prefix, ErrNotFound)
	}
	return user, nil
}

func (s *MemoryStore) InsertEvaluation(_ context.Context, eval Evaluation) (Evaluation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if eval.ID == uuid.Nil {
		eval.ID = uuid.New()
	}
	if eval.CreatedAt.IsZero() {
		eval.CreatedAt = time.Now().UTC()
	}
	// Store a copy of the raw result to avoid external mutation.
	eval.Result = append([]byte(nil), eval.Result...)
	s.evals = append(s.evals, eval)
	return eval, nil
}

// ListEvaluations returns the most recent evaluations first. A non-positive
// limit returns everything.
func (s *MemoryStore) ListEvaluations(_ context.Context, limit int32) ([]Evaluation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.evals)
	if limit > 0 && int(limit) < n {
		n = int(limit)
	}
	out := make([]Evaluation, 0, n)
	for i := len(s.evals) - 1; i >= 0 && len(out) < n; i-- {
		eval := s.evals[i]
		eval.Result = append([]byte(nil), eval.Result...)
		out = append(out, eval)
	}
	return out, nil
}

func (s *MemoryStore) Ping(_ context.Context) error {
	return nil
}
