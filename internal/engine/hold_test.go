package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/kinohall/booking-engine/internal/model"
)

func TestHoldThenConfirm(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	h, err := f.engine.Hold(ctx, f.session.ID, f.seatA.ID, "token1", 10*time.Minute)
	require.NoError(t, err)
	require.Equal(t, HoldHeld, h.State)
	require.Equal(t, f.clock.Now().Add(10*time.Minute), h.ExpiresAt)

	confirmed, err := f.engine.Confirm(ctx, f.session.ID, f.seatA.ID, "token1")
	require.NoError(t, err)
	require.Equal(t, HoldReserved, confirmed.State)

	// Confirming again with the same token is a no-op.
	again, err := f.engine.Confirm(ctx, f.session.ID, f.seatA.ID, "token1")
	require.NoError(t, err)
	require.Equal(t, HoldReserved, again.State)
}

func TestHoldOnHeldSeatFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.engine.Hold(ctx, f.session.ID, f.seatA.ID, "token1", 10*time.Minute)
	require.NoError(t, err)

	_, err = f.engine.Hold(ctx, f.session.ID, f.seatA.ID, "token2", 10*time.Minute)
	var su *SeatUnavailableError
	require.ErrorAs(t, err, &su)
	require.Equal(t, []uuid.UUID{f.seatA.ID}, su.SeatIDs)
}

func TestHoldIndependenceAcrossSeats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.engine.Hold(ctx, f.session.ID, f.seatA.ID, "token1", 10*time.Minute)
	require.NoError(t, err)

	// Holding A never affects B.
	free, err := f.engine.IsFree(ctx, f.session.ID, f.seatB.ID)
	require.NoError(t, err)
	require.True(t, free)

	_, err = f.engine.Hold(ctx, f.session.ID, f.seatB.ID, "token2", 10*time.Minute)
	require.NoError(t, err)
}

func TestReleaseRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.engine.Hold(ctx, f.session.ID, f.seatA.ID, "token1", 10*time.Minute)
	require.NoError(t, err)
	require.NoError(t, f.engine.Release(ctx, f.session.ID, f.seatA.ID, "token1"))

	free, err := f.engine.IsFree(ctx, f.session.ID, f.seatA.ID)
	require.NoError(t, err)
	require.True(t, free)

	// A new holder can claim the seat again.
	_, err = f.engine.Hold(ctx, f.session.ID, f.seatA.ID, "token2", 10*time.Minute)
	require.NoError(t, err)
}

func TestReleaseIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.engine.Hold(ctx, f.session.ID, f.seatA.ID, "token1", 10*time.Minute)
	require.NoError(t, err)
	require.NoError(t, f.engine.Release(ctx, f.session.ID, f.seatA.ID, "token1"))
	require.NoError(t, f.engine.Release(ctx, f.session.ID, f.seatA.ID, "token1"))

	// Releasing a seat that was never held is also a no-op.
	require.NoError(t, f.engine.Release(ctx, f.session.ID, f.seatB.ID, "token1"))
}

func TestReleaseDoesNotTouchForeignOrReservedHolds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.engine.Hold(ctx, f.session.ID, f.seatA.ID, "token1", 10*time.Minute)
	require.NoError(t, err)

	// A different token cannot release the hold.
	require.NoError(t, f.engine.Release(ctx, f.session.ID, f.seatA.ID, "token2"))
	free, err := f.engine.IsFree(ctx, f.session.ID, f.seatA.ID)
	require.NoError(t, err)
	require.False(t, free)

	// A confirmed reservation survives Release.
	_, err = f.engine.Confirm(ctx, f.session.ID, f.seatA.ID, "token1")
	require.NoError(t, err)
	require.NoError(t, f.engine.Release(ctx, f.session.ID, f.seatA.ID, "token1"))
	free, err = f.engine.IsFree(ctx, f.session.ID, f.seatA.ID)
	require.NoError(t, err)
	require.False(t, free)
}

func TestExpiredHoldIsFree(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.engine.Hold(ctx, f.session.ID, f.seatA.ID, "token1", time.Second)
	require.NoError(t, err)

	f.clock.Advance(2 * time.Second)

	// Expiry is lazy: no sweep ran, but the seat reads as free.
	free, err := f.engine.IsFree(ctx, f.session.ID, f.seatA.ID)
	require.NoError(t, err)
	require.True(t, free)

	_, err = f.engine.Confirm(ctx, f.session.ID, f.seatA.ID, "token1")
	require.ErrorIs(t, err, ErrHoldExpired)

	// A fresh hold by another token succeeds.
	_, err = f.engine.Hold(ctx, f.session.ID, f.seatA.ID, "token2", 10*time.Minute)
	require.NoError(t, err)
}

func TestConfirmErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.engine.Confirm(ctx, f.session.ID, f.seatA.ID, "token1")
	require.ErrorIs(t, err, ErrHoldNotFound)

	_, err = f.engine.Hold(ctx, f.session.ID, f.seatA.ID, "token1", 10*time.Minute)
	require.NoError(t, err)

	_, err = f.engine.Confirm(ctx, f.session.ID, f.seatA.ID, "token2")
	require.ErrorIs(t, err, ErrTokenMismatch)

	require.NoError(t, f.engine.Release(ctx, f.session.ID, f.seatA.ID, "token1"))
	_, err = f.engine.Confirm(ctx, f.session.ID, f.seatA.ID, "token1")
	require.ErrorIs(t, err, ErrHoldNotFound)
}

func TestHoldOnBrokenSeatFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.catalog.mu.Lock()
	f.catalog.seats[f.hall.ID][0].Status = model.SeatBroken
	f.catalog.mu.Unlock()

	_, err := f.engine.Hold(ctx, f.session.ID, f.seatA.ID, "token1", 10*time.Minute)
	var su *SeatUnavailableError
	require.ErrorAs(t, err, &su)

	free, err := f.engine.IsFree(ctx, f.session.ID, f.seatA.ID)
	require.NoError(t, err)
	require.False(t, free)
}

func TestSnapshotDerivesEffectiveStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	snap, err := f.engine.Snapshot(ctx, f.session.ID)
	require.NoError(t, err)
	require.Equal(t, SeatStatusFree, snap[f.seatA.ID])
	require.Equal(t, SeatStatusFree, snap[f.seatB.ID])

	_, err = f.engine.Hold(ctx, f.session.ID, f.seatA.ID, "token1", 10*time.Minute)
	require.NoError(t, err)
	_, err = f.engine.Hold(ctx, f.session.ID, f.seatB.ID, "token2", time.Second)
	require.NoError(t, err)
	_, err = f.engine.Confirm(ctx, f.session.ID, f.seatA.ID, "token1")
	require.NoError(t, err)

	snap, err = f.engine.Snapshot(ctx, f.session.ID)
	require.NoError(t, err)
	require.Equal(t, SeatStatusReserved, snap[f.seatA.ID])
	require.Equal(t, SeatStatusHeld, snap[f.seatB.ID])

	// B's hold lapses; the snapshot recomputes without any cleanup.
	f.clock.Advance(2 * time.Second)
	snap, err = f.engine.Snapshot(ctx, f.session.ID)
	require.NoError(t, err)
	require.Equal(t, SeatStatusFree, snap[f.seatB.ID])
}

func TestConcurrentHoldsSingleWinner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const attempts = 32
	var wg sync.WaitGroup
	wins := make(chan string, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			token := string(rune('a'+n%26)) + "-token"
			if _, err := f.engine.Hold(ctx, f.session.ID, f.seatA.ID, token, 10*time.Minute); err == nil {
				wins <- token
			}
		}(i)
	}
	wg.Wait()
	close(wins)

	var winners []string
	for w := range wins {
		winners = append(winners, w)
	}
	require.Len(t, winners, 1)

	h, err := f.store.Find(ctx, f.session.ID, f.seatA.ID)
	require.NoError(t, err)
	require.Equal(t, winners[0], h.Token)
}

func TestMemoryStoreSweep(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.engine.Hold(ctx, f.session.ID, f.seatA.ID, "token1", time.Second)
	require.NoError(t, err)
	_, err = f.engine.Hold(ctx, f.session.ID, f.seatB.ID, "token2", time.Hour)
	require.NoError(t, err)

	f.clock.Advance(2 * time.Second)
	require.Equal(t, 1, f.store.Sweep(f.clock.Now()))

	h, err := f.store.Find(ctx, f.session.ID, f.seatB.ID)
	require.NoError(t, err)
	require.NotNil(t, h)
}

func TestHoldsForHolderFiltersByTokenAndLiveness(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.engine.Hold(ctx, f.session.ID, f.seatA.ID, "token1", 10*time.Minute)
	require.NoError(t, err)
	_, err = f.engine.Hold(ctx, f.session.ID, f.seatB.ID, "token2", time.Second)
	require.NoError(t, err)

	_, err = f.engine.Confirm(ctx, f.session.ID, f.seatA.ID, "token1")
	require.NoError(t, err)

	// token2's short hold expires; it must drop out of the listing.
	f.clock.Advance(2 * time.Second)

	mine, err := f.engine.HoldsForHolder(ctx, f.session.ID, "token1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, f.seatA.ID, mine[0].SeatID)
	require.Equal(t, HoldReserved, mine[0].State)

	expired, err := f.engine.HoldsForHolder(ctx, f.session.ID, "token2")
	require.NoError(t, err)
	require.Empty(t, expired)

	var nf *NotFoundError
	_, err = f.engine.HoldsForHolder(ctx, uuid.New(), "token1")
	require.ErrorAs(t, err, &nf)
}
