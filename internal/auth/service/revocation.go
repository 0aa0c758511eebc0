package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// RevocationStore records tokens invalidated before their natural expiry.
// Implementations must tolerate concurrent use. Revoke is idempotent.
type RevocationStore interface {
	// Revoke adds token. expiresAt is the token's own expiry when known,
	// zero otherwise, and only drives pruning.
	Revoke(ctx context.Context, token string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, token string) (bool, error)
	// PruneExpired forgets entries whose token expired before cutoff and
	// returns how many were dropped. Entries with an unknown expiry stay.
	PruneExpired(ctx context.Context, cutoff time.Time) (int, error)
	Len() int
}

// MemoryRevocationStore is a process-local RevocationStore backed by a
// sync.Map, so concurrent Revoke and IsRevoked calls never contend on a
// single lock.
type MemoryRevocationStore struct {
	entries sync.Map // token -> time.Time
	size    atomic.Int64
}

var _ RevocationStore = (*MemoryRevocationStore)(nil)

func NewMemoryRevocationStore() *MemoryRevocationStore {
	return &MemoryRevocationStore{}
}

func (s *MemoryRevocationStore) Revoke(_ context.Context, token string, expiresAt time.Time) error {
	if _, loaded := s.entries.LoadOrStore(token, expiresAt); !loaded {
		s.size.Add(1)
	}
	return nil
}

func (s *MemoryRevocationStore) IsRevoked(_ context.Context, token string) (bool, error) {
	_, ok := s.entries.Load(token)
	return ok, nil
}

func (s *MemoryRevocationStore) PruneExpired(_ context.Context, cutoff time.Time) (int, error) {
	var pruned int
	s.entries.Range(func(key, value any) bool {
		exp := value.(time.Time)
		if !exp.IsZero() && exp.Before(cutoff) {
			if _, deleted := s.entries.LoadAndDelete(key); deleted {
				s.size.Add(-1)
				pruned++
			}
		}
		return true
	})
	return pruned, nil
}

func (s *MemoryRevocationStore) Len() int {
	return int(s.size.Load())
}
