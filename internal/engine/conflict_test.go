package engine

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/kinohall/booking-engine/internal/model"
)

func TestCheckOverlapConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Existing session runs 10:00-12:00; 11:00-13:00 overlaps it.
	err := f.engine.CheckOverlap(ctx, f.hall.ID, dayAt(t, "11:00"), dayAt(t, "13:00"), uuid.Nil)
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	require.Equal(t, f.session.ID, conflict.SessionID)
}

func TestCheckOverlapBackToBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Half-open intervals: a session starting exactly at 12:00 is fine.
	require.NoError(t, f.engine.CheckOverlap(ctx, f.hall.ID, dayAt(t, "12:00"), dayAt(t, "14:00"), uuid.Nil))
	require.NoError(t, f.engine.CheckOverlap(ctx, f.hall.ID, dayAt(t, "08:00"), dayAt(t, "10:00"), uuid.Nil))
}

func TestCheckOverlapHallBuffer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// A 15-minute cleaning buffer forbids the back-to-back slot.
	f.catalog.mu.Lock()
	f.catalog.halls[f.hall.ID].BufferMinutes = 15
	f.catalog.mu.Unlock()

	err := f.engine.CheckOverlap(ctx, f.hall.ID, dayAt(t, "12:00"), dayAt(t, "14:00"), uuid.Nil)
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)

	require.NoError(t, f.engine.CheckOverlap(ctx, f.hall.ID, dayAt(t, "12:15"), dayAt(t, "14:00"), uuid.Nil))
}

func TestCheckOverlapExcludesOwnSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// An in-place edit of the existing session must not conflict with
	// its own prior slot.
	err := f.engine.CheckOverlap(ctx, f.hall.ID, dayAt(t, "10:30"), dayAt(t, "12:30"), f.session.ID)
	require.NoError(t, err)
}

func TestCheckOverlapIgnoresCompletedSessions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.catalog.mu.Lock()
	f.catalog.sessions[f.session.ID].Status = model.SessionCompleted
	f.catalog.mu.Unlock()

	require.NoError(t, f.engine.CheckOverlap(ctx, f.hall.ID, dayAt(t, "11:00"), dayAt(t, "13:00"), uuid.Nil))
}

func TestCheckOverlapActiveStatusesConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, status := range []model.SessionStatus{
		model.SessionPlanned, model.SessionOpen, model.SessionSoldOut, model.SessionInProgress,
	} {
		f.catalog.mu.Lock()
		f.catalog.sessions[f.session.ID].Status = status
		f.catalog.mu.Unlock()

		err := f.engine.CheckOverlap(ctx, f.hall.ID, dayAt(t, "11:00"), dayAt(t, "13:00"), uuid.Nil)
		var conflict *ConflictError
		require.ErrorAs(t, err, &conflict, "status %s must conflict", status)
	}
}

func TestCheckOverlapInvalidInterval(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.engine.CheckOverlap(ctx, f.hall.ID, dayAt(t, "13:00"), dayAt(t, "13:00"), uuid.Nil)
	require.ErrorIs(t, err, ErrInvalidInterval)
}

func TestCheckOverlapUnknownHall(t *testing.T) {
	f := newFixture(t)
	err := f.engine.CheckOverlap(context.Background(), uuid.New(), dayAt(t, "10:00"), dayAt(t, "11:00"), uuid.Nil)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestCheckOverlapDefaultBuffer(t *testing.T) {
	catalogFixture := newFixture(t)
	ctx := context.Background()

	// Rebuild the engine with an engine-wide default buffer; the hall
	// has no override so the default applies.
	eng := New(catalogFixture.catalog, NewMemoryHoldStore(), catalogFixture.catalog, Config{
		Now:           catalogFixture.clock.Now,
		DefaultBuffer: 10 * time.Minute,
	})
	err := eng.CheckOverlap(ctx, catalogFixture.hall.ID, dayAt(t, "12:05"), dayAt(t, "14:00"), uuid.Nil)
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	require.NoError(t, eng.CheckOverlap(ctx, catalogFixture.hall.ID, dayAt(t, "12:10"), dayAt(t, "14:00"), uuid.Nil))
}
