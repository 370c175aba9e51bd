package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/kinohall/booking-engine/internal/engine"
	"github.com/kinohall/booking-engine/internal/model"
)

// Catalog adapts the repositories to the engine's CatalogReader and
// SessionWriter interfaces, translating repository sentinels into the
// engine's typed errors.
type Catalog struct {
	halls    *HallRepo
	seats    *SeatRepo
	sessions *SessionRepo
}

// NewCatalog constructs a Catalog over the given repositories.  All
// dependencies must be non-nil.
func NewCatalog(halls *HallRepo, seats *SeatRepo, sessions *SessionRepo) *Catalog {
	if halls == nil || seats == nil || sessions == nil {
		panic("nil repository passed to NewCatalog")
	}
	return &Catalog{halls: halls, seats: seats, sessions: sessions}
}

// GetHall implements engine.CatalogReader.
func (c *Catalog) GetHall(ctx context.Context, hallID uuid.UUID) (*model.Hall, error) {
	h, err := c.halls.GetByID(ctx, hallID)
	if errors.Is(err, ErrNotFound) {
		return nil, &engine.NotFoundError{Kind: "hall", ID: hallID}
	}
	return h, err
}

// ListSeats implements engine.CatalogReader.
func (c *Catalog) ListSeats(ctx context.Context, hallID uuid.UUID) ([]model.Seat, error) {
	return c.seats.ListByHall(ctx, hallID)
}

// GetSession implements engine.CatalogReader.
func (c *Catalog) GetSession(ctx context.Context, sessionID uuid.UUID) (*model.Session, error) {
	s, err := c.sessions.GetByID(ctx, sessionID)
	if errors.Is(err, ErrNotFound) {
		return nil, &engine.NotFoundError{Kind: "session", ID: sessionID}
	}
	return s, err
}

// ListSessionsForHall implements engine.CatalogReader.
func (c *Catalog) ListSessionsForHall(ctx context.Context, hallID uuid.UUID) ([]model.Session, error) {
	return c.sessions.ListByHall(ctx, hallID)
}

// SetSessionStatus implements engine.SessionWriter.
func (c *Catalog) SetSessionStatus(ctx context.Context, sessionID uuid.UUID, status model.SessionStatus) error {
	err := c.sessions.SetStatus(ctx, sessionID, status)
	if errors.Is(err, ErrNotFound) {
		return &engine.NotFoundError{Kind: "session", ID: sessionID}
	}
	return err
}
