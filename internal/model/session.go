package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SessionStatus is the lifecycle state of a scheduled session.
type SessionStatus string

const (
	SessionPlanned    SessionStatus = "PLANNED"
	SessionOpen       SessionStatus = "OPEN"
	SessionSoldOut    SessionStatus = "SOLD_OUT"
	SessionInProgress SessionStatus = "IN_PROGRESS"
	SessionCompleted  SessionStatus = "COMPLETED"
)

// Active reports whether the status still occupies its hall slot.
// COMPLETED sessions never conflict with new schedules.
func (s SessionStatus) Active() bool { return s != SessionCompleted }

// Bookable reports whether seats may be booked for a session in this
// status.  Only OPEN sessions accept bookings.
func (s SessionStatus) Bookable() bool { return s == SessionOpen }

// Session represents a scheduled screening of a movie in a hall.
// Start and end times are timezone-aware instants; the scheduling
// invariant (no two active sessions in one hall with overlapping
// [StartTime, EndTime) intervals) is enforced by the engine's conflict
// checker, not here.
//
// Fields:
//  ID        – primary key identifier.
//  MovieID   – movie being screened (association, no ownership).
//  HallID    – hall hosting the session.
//  PricingID – pricing plan used to price seats for this session.
//  StartTime – when the session begins.
//  EndTime   – when the session ends, strictly after StartTime.
//  Status    – lifecycle state.
type Session struct {
	ID        uuid.UUID
	MovieID   uuid.UUID
	HallID    uuid.UUID
	PricingID uuid.UUID
	StartTime time.Time
	EndTime   time.Time
	Status    SessionStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewSession validates the parameters and returns a Session with a
// fresh UUID.  Status defaults to PLANNED.
func NewSession(movieID, hallID, pricingID uuid.UUID, start, end time.Time, status SessionStatus) (*Session, error) {
	if movieID == uuid.Nil || hallID == uuid.Nil || pricingID == uuid.Nil {
		return nil, fmt.Errorf("%w: session requires movie, hall and pricing references", ErrValidation)
	}
	if start.IsZero() || end.IsZero() {
		return nil, fmt.Errorf("%w: session times are required", ErrValidation)
	}
	if !end.After(start) {
		return nil, fmt.Errorf("%w: session end time must be after start time", ErrValidation)
	}
	if status == "" {
		status = SessionPlanned
	}
	switch status {
	case SessionPlanned, SessionOpen, SessionSoldOut, SessionInProgress, SessionCompleted:
	default:
		return nil, fmt.Errorf("%w: unknown session status %q", ErrValidation, status)
	}
	now := time.Now().UTC()
	return &Session{
		ID:        uuid.New(),
		MovieID:   movieID,
		HallID:    hallID,
		PricingID: pricingID,
		StartTime: start.UTC(),
		EndTime:   end.UTC(),
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
