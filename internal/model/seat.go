package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SeatStatus is the physical condition of a seat.  It is a hall-level
// property independent of any session: a BROKEN seat is unavailable
// for every session until repaired, while per-session availability is
// derived from seat holds by the engine.
type SeatStatus string

const (
	SeatFree     SeatStatus = "FREE"
	SeatReserved SeatStatus = "RESERVED"
	SeatBroken   SeatStatus = "BROKEN"
)

// Seat describes a physical seat in a hall.  Seats are owned by their
// hall; the HallID field is a lookup reference only.
//
// Fields:
//  ID         – primary key identifier.
//  HallID     – hall to which this seat belongs.
//  RowLabel   – letter or string designating the row, 1..16 characters.
//  Number     – seat number within the row, at least 1.
//  GridX      – horizontal position in the hall's seat grid.
//  GridY      – vertical position in the hall's seat grid.
//  Status     – physical condition (FREE, RESERVED, BROKEN).
//  SeatTypeID – reference to the seat type (standard, VIP, ...).
type Seat struct {
	ID         uuid.UUID
	HallID     uuid.UUID
	RowLabel   string
	Number     int
	GridX      int
	GridY      int
	Status     SeatStatus
	SeatTypeID uuid.UUID
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewSeat validates the parameters and returns a Seat with a fresh
// UUID.  Status defaults to FREE.
func NewSeat(hallID, seatTypeID uuid.UUID, rowLabel string, number, gridX, gridY int) (*Seat, error) {
	if hallID == uuid.Nil {
		return nil, fmt.Errorf("%w: seat requires a hall", ErrValidation)
	}
	if seatTypeID == uuid.Nil {
		return nil, fmt.Errorf("%w: seat requires a seat type", ErrValidation)
	}
	if l := len(rowLabel); l < 1 || l > 16 {
		return nil, fmt.Errorf("%w: row label must be 1..16 characters", ErrValidation)
	}
	if number < 1 {
		return nil, fmt.Errorf("%w: seat number must be at least 1", ErrValidation)
	}
	if gridX < 0 || gridY < 0 {
		return nil, fmt.Errorf("%w: grid position must not be negative", ErrValidation)
	}
	now := time.Now().UTC()
	return &Seat{
		ID:         uuid.New(),
		HallID:     hallID,
		RowLabel:   rowLabel,
		Number:     number,
		GridX:      gridX,
		GridY:      gridY,
		Status:     SeatFree,
		SeatTypeID: seatTypeID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// Bookable reports whether the seat can be sold at all.  BROKEN seats
// stay in the layout for rendering but are excluded from bookable
// capacity.
func (s *Seat) Bookable() bool { return s.Status != SeatBroken }

// SeatType categorises seats for pricing (e.g. STANDARD, VIP,
// ACCESSIBLE).  Pricing items reference seat types by ID.
type SeatType struct {
	ID          uuid.UUID
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewSeatType validates the name and description and returns a
// SeatType with a fresh UUID.
func NewSeatType(name, description string) (*SeatType, error) {
	if l := len(name); l < 3 || l > 64 {
		return nil, fmt.Errorf("%w: seat type name must be 3..64 characters", ErrValidation)
	}
	if l := len(description); l < 3 || l > 64 {
		return nil, fmt.Errorf("%w: seat type description must be 3..64 characters", ErrValidation)
	}
	now := time.Now().UTC()
	return &SeatType{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
