package engine

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kinohall/booking-engine/internal/model"
)

// CatalogReader is the engine's read-only view of the catalog.  It
// must reflect committed state at call time; halls, seats and session
// schedules change rarely, so implementations may cache them.
type CatalogReader interface {
	GetHall(ctx context.Context, hallID uuid.UUID) (*model.Hall, error)
	ListSeats(ctx context.Context, hallID uuid.UUID) ([]model.Seat, error)
	GetSession(ctx context.Context, sessionID uuid.UUID) (*model.Session, error)
	ListSessionsForHall(ctx context.Context, hallID uuid.UUID) ([]model.Session, error)
}

// SessionWriter applies derived session-status changes.  The engine
// uses it only for the SOLD_OUT projection; a failure here is logged
// by the coordinator and never fails a booking.
type SessionWriter interface {
	SetSessionStatus(ctx context.Context, sessionID uuid.UUID, status model.SessionStatus) error
}

// HoldStore persists seat holds keyed by (session, seat).  All
// mutation for one key must be serialized: Acquire is a conditional
// create (it fails with ErrHoldConflict when a live hold exists) and
// Transition is a compare-and-set on state and holder token (it fails
// with ErrStaleHold when the stored record does not match).  The
// current time is passed in explicitly so that liveness checks are
// deterministic under test.
type HoldStore interface {
	// Acquire stores h as the live hold for its (session, seat) pair
	// iff no live hold exists.  A hold is live when it is RESERVED, or
	// HELD with an expiry after now.
	Acquire(ctx context.Context, h *SeatHold, now time.Time) error
	// Find returns the most recent hold record for the pair, or nil
	// when the pair has never been held.  Released and expired records
	// are returned as stored; liveness is the caller's concern.
	Find(ctx context.Context, sessionID, seatID uuid.UUID) (*SeatHold, error)
	// Transition flips the live hold from one state to another iff the
	// stored record carries the expected state and token.
	Transition(ctx context.Context, sessionID, seatID uuid.UUID, token string, from, to HoldState, now time.Time) (*SeatHold, error)
	// ListForSession returns the most recent hold record per seat for
	// the session, in no particular order.
	ListForSession(ctx context.Context, sessionID uuid.UUID) ([]SeatHold, error)
}

// Config carries the tunables of the engine.  Zero values fall back to
// defaults in New.
type Config struct {
	// DefaultHoldTTL bounds how long a hold stays live when the caller
	// does not pass an explicit TTL.  Defaults to 10 minutes.
	DefaultHoldTTL time.Duration
	// DefaultBuffer is the minimum gap between sessions in halls that
	// do not declare their own buffer.  Defaults to zero.
	DefaultBuffer time.Duration
	// Now supplies the current time; defaults to time.Now.  Tests
	// inject a fake clock here.
	Now func() time.Time
}

// Engine is the seat-availability and conflict-resolution core.  It is
// safe for concurrent use as long as the HoldStore honors its
// serialization contract.
type Engine struct {
	catalog    CatalogReader
	holds      HoldStore
	sessions   SessionWriter
	defaultTTL time.Duration
	buffer     time.Duration
	now        func() time.Time
}

// New constructs an Engine.  catalog and holds must be non-nil;
// sessions may be nil when no SOLD_OUT projection is wanted.
func New(catalog CatalogReader, holds HoldStore, sessions SessionWriter, cfg Config) *Engine {
	if catalog == nil || holds == nil {
		panic("nil collaborator passed to engine.New")
	}
	if cfg.DefaultHoldTTL <= 0 {
		cfg.DefaultHoldTTL = 10 * time.Minute
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Engine{
		catalog:    catalog,
		holds:      holds,
		sessions:   sessions,
		defaultTTL: cfg.DefaultHoldTTL,
		buffer:     cfg.DefaultBuffer,
		now:        cfg.Now,
	}
}

// seatForSession resolves the session and the seat within the
// session's hall.  It returns NotFoundError for an unknown session or
// a seat that does not belong to the hall.
func (e *Engine) seatForSession(ctx context.Context, sessionID, seatID uuid.UUID) (*model.Session, *model.Seat, error) {
	sess, err := e.catalog.GetSession(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	seats, err := e.catalog.ListSeats(ctx, sess.HallID)
	if err != nil {
		return nil, nil, err
	}
	for i := range seats {
		if seats[i].ID == seatID {
			return sess, &seats[i], nil
		}
	}
	return nil, nil, &NotFoundError{Kind: "seat", ID: seatID}
}
