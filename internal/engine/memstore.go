package engine

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type holdKey struct {
	sessionID uuid.UUID
	seatID    uuid.UUID
}

// MemoryHoldStore is a HoldStore backed by a mutex-guarded map.  It
// provides the same conditional-create and compare-and-set semantics
// as the MySQL store and is suitable for tests and single-node
// deployments.  The mutex serializes every (session, seat) mutation,
// so concurrent Acquire calls on one seat resolve with exactly one
// winner.
type MemoryHoldStore struct {
	mu    sync.Mutex
	holds map[holdKey]*SeatHold
}

// NewMemoryHoldStore returns an empty in-memory hold store.
func NewMemoryHoldStore() *MemoryHoldStore {
	return &MemoryHoldStore{holds: make(map[holdKey]*SeatHold)}
}

// Acquire stores h as the live hold for its pair iff the current
// record, if any, is not live at now.  The superseded record is
// overwritten in place; like the SQL store, only the latest record
// per pair is kept.
func (s *MemoryHoldStore) Acquire(ctx context.Context, h *SeatHold, now time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	k := holdKey{sessionID: h.SessionID, seatID: h.SeatID}
	if cur, ok := s.holds[k]; ok && cur.Live(now) {
		return ErrHoldConflict
	}
	cp := *h
	s.holds[k] = &cp
	return nil
}

// Find returns a copy of the most recent hold record for the pair, or
// nil when none exists.
func (s *MemoryHoldStore) Find(ctx context.Context, sessionID, seatID uuid.UUID) (*SeatHold, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.holds[holdKey{sessionID: sessionID, seatID: seatID}]
	if !ok {
		return nil, nil
	}
	cp := *h
	return &cp, nil
}

// Transition flips the stored record from one state to another iff it
// matches the expected state and token, returning the updated copy.
func (s *MemoryHoldStore) Transition(ctx context.Context, sessionID, seatID uuid.UUID, token string, from, to HoldState, now time.Time) (*SeatHold, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.holds[holdKey{sessionID: sessionID, seatID: seatID}]
	if !ok || h.State != from || h.Token != token {
		return nil, ErrStaleHold
	}
	h.State = to
	h.UpdatedAt = now
	cp := *h
	return &cp, nil
}

// ListForSession returns copies of the most recent hold record per
// seat for the session.
func (s *MemoryHoldStore) ListForSession(ctx context.Context, sessionID uuid.UUID) ([]SeatHold, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []SeatHold
	for k, h := range s.holds {
		if k.sessionID == sessionID {
			out = append(out, *h)
		}
	}
	return out, nil
}

// Sweep drops records that stopped being live before now.  Expiry is
// already evaluated lazily on every read, so sweeping is purely a
// memory-reclamation aid for long-running processes.
func (s *MemoryHoldStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for k, h := range s.holds {
		if !h.Live(now) {
			delete(s.holds, k)
			n++
		}
	}
	return n
}
