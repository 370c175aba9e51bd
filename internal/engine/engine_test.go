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

// fakeClock is a manually advanced clock shared by a test's engine and
// assertions.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock(t time.Time) *fakeClock { return &fakeClock{t: t} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// stubCatalog is an in-memory CatalogReader and SessionWriter.
type stubCatalog struct {
	mu       sync.Mutex
	halls    map[uuid.UUID]*model.Hall
	seats    map[uuid.UUID][]model.Seat
	sessions map[uuid.UUID]*model.Session

	statusErr error // forced SetSessionStatus failure
}

func newStubCatalog() *stubCatalog {
	return &stubCatalog{
		halls:    make(map[uuid.UUID]*model.Hall),
		seats:    make(map[uuid.UUID][]model.Seat),
		sessions: make(map[uuid.UUID]*model.Session),
	}
}

func (c *stubCatalog) GetHall(_ context.Context, id uuid.UUID) (*model.Hall, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	h, ok := c.halls[id]
	if !ok {
		return nil, &NotFoundError{Kind: "hall", ID: id}
	}
	cp := *h
	return &cp, nil
}

func (c *stubCatalog) ListSeats(_ context.Context, hallID uuid.UUID) ([]model.Seat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.Seat(nil), c.seats[hallID]...), nil
}

func (c *stubCatalog) GetSession(_ context.Context, id uuid.UUID) (*model.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.sessions[id]
	if !ok {
		return nil, &NotFoundError{Kind: "session", ID: id}
	}
	cp := *s
	return &cp, nil
}

func (c *stubCatalog) ListSessionsForHall(_ context.Context, hallID uuid.UUID) ([]model.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []model.Session
	for _, s := range c.sessions {
		if s.HallID == hallID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (c *stubCatalog) SetSessionStatus(_ context.Context, id uuid.UUID, status model.SessionStatus) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.statusErr != nil {
		return c.statusErr
	}
	s, ok := c.sessions[id]
	if !ok {
		return &NotFoundError{Kind: "session", ID: id}
	}
	s.Status = status
	return nil
}

// fixture wires an engine over the stub catalog and the in-memory
// store with a fake clock pinned at a known instant.
type fixture struct {
	engine  *Engine
	catalog *stubCatalog
	store   *MemoryHoldStore
	clock   *fakeClock

	hall    *model.Hall
	seatA   model.Seat
	seatB   model.Seat
	session *model.Session
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	catalog := newStubCatalog()
	store := NewMemoryHoldStore()
	clock := newFakeClock(time.Date(2026, time.March, 7, 9, 0, 0, 0, time.UTC))

	hall, err := model.NewHall("Main Hall", 10, 1, 2, 0)
	require.NoError(t, err)
	catalog.halls[hall.ID] = hall

	seatType, err := model.NewSeatType("STANDARD", "Standard seat")
	require.NoError(t, err)
	seatA, err := model.NewSeat(hall.ID, seatType.ID, "A", 1, 0, 0)
	require.NoError(t, err)
	seatB, err := model.NewSeat(hall.ID, seatType.ID, "A", 2, 1, 0)
	require.NoError(t, err)
	catalog.seats[hall.ID] = []model.Seat{*seatA, *seatB}

	session := addSession(t, catalog, hall.ID, "10:00", "12:00", model.SessionOpen)

	eng := New(catalog, store, catalog, Config{Now: clock.Now})
	return &fixture{
		engine:  eng,
		catalog: catalog,
		store:   store,
		clock:   clock,
		hall:    hall,
		seatA:   *seatA,
		seatB:   *seatB,
		session: session,
	}
}

// addSession schedules a session on 2026-03-07 between the given
// HH:MM clock times.
func addSession(t *testing.T, catalog *stubCatalog, hallID uuid.UUID, start, end string, status model.SessionStatus) *model.Session {
	t.Helper()
	s, err := model.NewSession(uuid.New(), hallID, uuid.New(), dayAt(t, start), dayAt(t, end), status)
	require.NoError(t, err)
	catalog.mu.Lock()
	catalog.sessions[s.ID] = s
	catalog.mu.Unlock()
	return s
}

func dayAt(t *testing.T, hhmm string) time.Time {
	t.Helper()
	parsed, err := time.Parse("15:04", hhmm)
	require.NoError(t, err)
	return time.Date(2026, time.March, 7, parsed.Hour(), parsed.Minute(), 0, 0, time.UTC)
}

func TestSeatsForHallOrdering(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Shuffle the stored order; SeatsForHall must still sort by
	// (row label, number).
	f.catalog.mu.Lock()
	f.catalog.seats[f.hall.ID] = []model.Seat{f.seatB, f.seatA}
	f.catalog.mu.Unlock()

	seats, err := f.engine.SeatsForHall(ctx, f.hall.ID)
	require.NoError(t, err)
	require.Len(t, seats, 2)
	require.Equal(t, f.seatA.ID, seats[0].ID)
	require.Equal(t, f.seatB.ID, seats[1].ID)
}

func TestSeatsForHallUnknownHall(t *testing.T) {
	f := newFixture(t)
	_, err := f.engine.SeatsForHall(context.Background(), uuid.New())
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	require.Equal(t, "hall", nf.Kind)
}

func TestCapacityExcludesBrokenSeats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	capacity, err := f.engine.Capacity(ctx, f.hall.ID)
	require.NoError(t, err)
	require.Equal(t, 2, capacity)

	f.catalog.mu.Lock()
	f.catalog.seats[f.hall.ID][1].Status = model.SeatBroken
	f.catalog.mu.Unlock()

	capacity, err = f.engine.Capacity(ctx, f.hall.ID)
	require.NoError(t, err)
	require.Equal(t, 1, capacity)

	// The broken seat stays in the layout.
	seats, err := f.engine.SeatsForHall(ctx, f.hall.ID)
	require.NoError(t, err)
	require.Len(t, seats, 2)
}
