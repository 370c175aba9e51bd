package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Pricing is a named pricing plan referenced by sessions.  The actual
// prices live in PricingItem rows attached to the plan.
type Pricing struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewPricing validates the plan name and returns a Pricing with a
// fresh UUID.
func NewPricing(name string) (*Pricing, error) {
	if l := len(name); l < 3 || l > 64 {
		return nil, fmt.Errorf("%w: pricing name must be 3..64 characters", ErrValidation)
	}
	now := time.Now().UTC()
	return &Pricing{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// PricingItem prices one seat type within a pricing plan for a day of
// week and a time-of-day window.  PricingID references pricing.id and
// SeatTypeID references seat_types.id.
//
// Fields:
//  ID         – primary key identifier.
//  PricingID  – owning pricing plan.
//  SeatTypeID – seat type this price applies to.
//  PriceCents – price in cents, positive.
//  DayOfWeek  – ISO day of week, 1 (Monday) .. 7 (Sunday).
//  StartTime  – start of the applicable time window.
//  EndTime    – end of the applicable time window, after StartTime.
type PricingItem struct {
	ID         uuid.UUID
	PricingID  uuid.UUID
	SeatTypeID uuid.UUID
	PriceCents uint32
	DayOfWeek  int
	StartTime  time.Time
	EndTime    time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewPricingItem validates the parameters and returns a PricingItem
// with a fresh UUID.
func NewPricingItem(pricingID, seatTypeID uuid.UUID, priceCents uint32, dayOfWeek int, start, end time.Time) (*PricingItem, error) {
	if pricingID == uuid.Nil {
		return nil, fmt.Errorf("%w: pricing item requires a pricing plan", ErrValidation)
	}
	if seatTypeID == uuid.Nil {
		return nil, fmt.Errorf("%w: pricing item requires a seat type", ErrValidation)
	}
	if priceCents == 0 {
		return nil, fmt.Errorf("%w: price must be positive", ErrValidation)
	}
	if dayOfWeek < 1 || dayOfWeek > 7 {
		return nil, fmt.Errorf("%w: day of week must be within 1..7", ErrValidation)
	}
	if !end.After(start) {
		return nil, fmt.Errorf("%w: pricing window end must be after start", ErrValidation)
	}
	now := time.Now().UTC()
	return &PricingItem{
		ID:         uuid.New(),
		PricingID:  pricingID,
		SeatTypeID: seatTypeID,
		PriceCents: priceCents,
		DayOfWeek:  dayOfWeek,
		StartTime:  start.UTC(),
		EndTime:    end.UTC(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}
