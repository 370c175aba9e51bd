package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Hall represents a screening hall.  A hall owns its seats: seat grid
// coordinates are unique within the hall and the number of seats may
// never exceed TotalCapacity.  BufferMinutes is the minimum gap
// required between two sessions scheduled in this hall (cleaning
// time); zero means the engine-wide default applies.
//
// Fields:
//  ID            – primary key identifier.
//  Name          – hall name, 3..64 characters, unique.
//  IsActive      – whether the hall can host new sessions.
//  TotalCapacity – maximum number of seats, more than 6.
//  GridRows      – number of rows in the seat grid.
//  GridCols      – number of seats per row in the seat grid.
//  BufferMinutes – per-hall session buffer override (0 = default).
type Hall struct {
	ID            uuid.UUID
	Name          string
	IsActive      bool
	TotalCapacity int
	GridRows      int
	GridCols      int
	BufferMinutes int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewHall validates the parameters and returns a Hall with a fresh
// UUID.  The grid must fit within the declared capacity.
func NewHall(name string, capacity, gridRows, gridCols, bufferMinutes int) (*Hall, error) {
	if l := len(name); l < 3 || l > 64 {
		return nil, fmt.Errorf("%w: hall name must be 3..64 characters", ErrValidation)
	}
	if capacity <= 6 {
		return nil, fmt.Errorf("%w: hall capacity must be greater than 6", ErrValidation)
	}
	if gridRows < 1 || gridCols < 1 {
		return nil, fmt.Errorf("%w: seat grid dimensions must be positive", ErrValidation)
	}
	if gridRows*gridCols > capacity {
		return nil, fmt.Errorf("%w: seat grid %dx%d exceeds capacity %d", ErrValidation, gridRows, gridCols, capacity)
	}
	if bufferMinutes < 0 {
		return nil, fmt.Errorf("%w: buffer minutes must not be negative", ErrValidation)
	}
	now := time.Now().UTC()
	return &Hall{
		ID:            uuid.New(),
		Name:          name,
		IsActive:      true,
		TotalCapacity: capacity,
		GridRows:      gridRows,
		GridCols:      gridCols,
		BufferMinutes: bufferMinutes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// Buffer returns the hall's session buffer as a duration, or the
// provided fallback when the hall has no override.
func (h *Hall) Buffer(fallback time.Duration) time.Duration {
	if h.BufferMinutes > 0 {
		return time.Duration(h.BufferMinutes) * time.Minute
	}
	return fallback
}
