package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CheckOverlap validates a proposed [start, end) slot for a hall
// against the hall's existing sessions.  Intervals are half-open, so
// back-to-back sessions sharing an instant do not conflict unless the
// hall requires a buffer between sessions.  Pass excludeSessionID to
// ignore the session being rescheduled (uuid.Nil to exclude nothing).
//
// It returns nil when the slot is free, a ConflictError naming the
// first conflicting session otherwise.  COMPLETED sessions never
// conflict.
func (e *Engine) CheckOverlap(ctx context.Context, hallID uuid.UUID, start, end time.Time, excludeSessionID uuid.UUID) error {
	hall, err := e.catalog.GetHall(ctx, hallID)
	if err != nil {
		return err
	}
	if !end.After(start) {
		return ErrInvalidInterval
	}
	buffer := hall.Buffer(e.buffer)
	sessions, err := e.catalog.ListSessionsForHall(ctx, hallID)
	if err != nil {
		return err
	}
	for i := range sessions {
		s := &sessions[i]
		if s.ID == excludeSessionID || !s.Status.Active() {
			continue
		}
		// [s1,e1) and [s2,e2) overlap iff s1 < e2 && s2 < e1; the
		// buffer widens each existing slot on both sides.
		if start.Before(s.EndTime.Add(buffer)) && s.StartTime.Before(end.Add(buffer)) {
			return &ConflictError{SessionID: s.ID}
		}
	}
	return nil
}
