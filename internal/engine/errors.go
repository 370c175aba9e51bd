// Package engine implements the seat-availability and time-conflict
// resolution core of the booking platform: the seat map, the session
// conflict checker, the per-session availability index, the seat-hold
// state machine and the booking coordinator that ties them together.
//
// The engine owns no storage.  It reads catalog data through
// CatalogReader, mutates holds through HoldStore (the only mutable
// shared resource) and projects the SOLD_OUT flag through
// SessionWriter.
package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Sentinel errors surfaced by hold-state transitions.
var (
	// ErrHoldExpired is returned by Confirm when the hold's expiry has
	// passed.  The caller must re-hold the seat.
	ErrHoldExpired = errors.New("hold expired")
	// ErrHoldNotFound is returned by Confirm when no live hold exists
	// for the seat.
	ErrHoldNotFound = errors.New("hold not found")
	// ErrTokenMismatch is returned by Confirm when the hold belongs to
	// a different holder token.
	ErrTokenMismatch = errors.New("holder token mismatch")
	// ErrSessionNotBookable is returned by Book when the session is
	// not in the OPEN status.
	ErrSessionNotBookable = errors.New("session is not open for booking")
	// ErrInvalidInterval is returned by CheckOverlap when the proposed
	// end time is not after the start time.
	ErrInvalidInterval = errors.New("end time must be after start time")

	// ErrHoldConflict is returned by HoldStore.Acquire when a live
	// hold already covers the seat.  The engine translates it into a
	// SeatUnavailableError.
	ErrHoldConflict = errors.New("seat already held")
	// ErrStaleHold is returned by HoldStore.Transition when the stored
	// record no longer matches the expected state and token; it
	// signals a lost race, not a caller mistake.
	ErrStaleHold = errors.New("hold state changed concurrently")
)

// NotFoundError reports an unknown hall, session or seat.
type NotFoundError struct {
	Kind string // "hall", "session" or "seat"
	ID   uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// ConflictError reports a scheduling overlap or a lost race during
// confirm.  SessionID names the first conflicting session found; the
// checker does not enumerate all conflicts.
type ConflictError struct {
	SessionID uuid.UUID
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict with session %s", e.SessionID)
}

// SeatUnavailableError lists the seats that could not be held.  Book
// reports every failed seat so the caller can retry with an adjusted
// selection without re-deriving full session state.
type SeatUnavailableError struct {
	SeatIDs []uuid.UUID
}

func (e *SeatUnavailableError) Error() string {
	ids := make([]string, len(e.SeatIDs))
	for i, id := range e.SeatIDs {
		ids[i] = id.String()
	}
	return fmt.Sprintf("seats unavailable: %s", strings.Join(ids, ", "))
}
