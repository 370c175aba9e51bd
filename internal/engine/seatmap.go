package engine

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/kinohall/booking-engine/internal/model"
)

// SeatsForHall returns the hall's seat map in stable (row label, seat
// number) order.  Broken seats are included so callers can render the
// full layout.  Unknown halls yield a NotFoundError.
func (e *Engine) SeatsForHall(ctx context.Context, hallID uuid.UUID) ([]model.Seat, error) {
	if _, err := e.catalog.GetHall(ctx, hallID); err != nil {
		return nil, err
	}
	seats, err := e.catalog.ListSeats(ctx, hallID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(seats, func(i, j int) bool {
		if seats[i].RowLabel != seats[j].RowLabel {
			return seats[i].RowLabel < seats[j].RowLabel
		}
		return seats[i].Number < seats[j].Number
	})
	return seats, nil
}

// Capacity returns the number of bookable seats in the hall, i.e. the
// seat map minus physically broken seats.  This is the count the
// SOLD_OUT projection compares against, which may be lower than the
// hall's declared TotalCapacity.
func (e *Engine) Capacity(ctx context.Context, hallID uuid.UUID) (int, error) {
	if _, err := e.catalog.GetHall(ctx, hallID); err != nil {
		return 0, err
	}
	seats, err := e.catalog.ListSeats(ctx, hallID)
	if err != nil {
		return 0, err
	}
	n := 0
	for i := range seats {
		if seats[i].Bookable() {
			n++
		}
	}
	return n, nil
}
