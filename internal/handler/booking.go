package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/kinohall/booking-engine/internal/engine"
	"github.com/kinohall/booking-engine/internal/queue"
	"github.com/kinohall/booking-engine/internal/repository"
)

// BookingHandler exposes the seat hold, confirm, release and booking
// endpoints.  All seat-state decisions are delegated to the engine;
// the handler only translates requests, prices confirmed bookings and
// emits the booking.confirmed event.
type BookingHandler struct {
	Engine      *engine.Engine
	SessionRepo *repository.SessionRepo
	SeatRepo    *repository.SeatRepo
	HallRepo    *repository.HallRepo
	MovieRepo   *repository.MovieRepo
	PricingRepo *repository.PricingRepo
}

// NewBookingHandler constructs a BookingHandler.  All dependencies
// must be non-nil.
func NewBookingHandler(eng *engine.Engine, sessions *repository.SessionRepo, seats *repository.SeatRepo, halls *repository.HallRepo, movies *repository.MovieRepo, pricing *repository.PricingRepo) *BookingHandler {
	if eng == nil || sessions == nil || seats == nil || halls == nil || movies == nil || pricing == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{
		Engine:      eng,
		SessionRepo: sessions,
		SeatRepo:    seats,
		HallRepo:    halls,
		MovieRepo:   movies,
		PricingRepo: pricing,
	}
}

// holdRequest is the body of POST /v1/sessions/:id/hold.  The holder
// token is optional; when absent the server mints one and returns it.
type holdRequest struct {
	SeatID      string `json:"seat_id" validate:"required,uuid"`
	HolderToken string `json:"holder_token" validate:"omitempty,min=16,max=64"`
	TTLSeconds  int    `json:"ttl_seconds" validate:"omitempty,min=1,max=3600"`
}

// HoldSeat handles POST /v1/sessions/:id/hold.  It places a temporary
// claim on a single seat.  Returns 201 with the holder token and the
// expiry; 409 when the seat is already held or reserved.
func (h *BookingHandler) HoldSeat(c echo.Context) error {
	sessionID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req holdRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	seatID, err := uuid.Parse(req.SeatID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid seat_id")
	}
	token := req.HolderToken
	if token == "" {
		if token, err = engine.NewHolderToken(); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to generate holder token"})
		}
	}
	ttl := time.Duration(req.TTLSeconds) * time.Second

	hold, err := h.Engine.Hold(c.Request().Context(), sessionID, seatID, token, ttl)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"seat_id":      seatID.String(),
		"holder_token": token,
		"state":        string(hold.State),
		"expires_at":   hold.ExpiresAt.Format(time.RFC3339),
	})
}

// confirmRequest is the body of POST /v1/sessions/:id/confirm.
type confirmRequest struct {
	SeatID      string `json:"seat_id" validate:"required,uuid"`
	HolderToken string `json:"holder_token" validate:"required,min=16,max=64"`
}

// ConfirmSeat handles POST /v1/sessions/:id/confirm.  It finalises a
// single hold into a reservation.  Confirming an already confirmed
// hold with the same token succeeds without change.
func (h *BookingHandler) ConfirmSeat(c echo.Context) error {
	sessionID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req confirmRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	seatID, err := uuid.Parse(req.SeatID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid seat_id")
	}
	hold, err := h.Engine.Confirm(c.Request().Context(), sessionID, seatID, req.HolderToken)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"seat_id": seatID.String(),
		"state":   string(hold.State),
	})
}

// ReleaseSeat handles DELETE /v1/sessions/:id/hold.  Releasing a seat
// without a live hold, or one held by another token, is a no-op; the
// response is 204 either way.
func (h *BookingHandler) ReleaseSeat(c echo.Context) error {
	sessionID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req confirmRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	seatID, err := uuid.Parse(req.SeatID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid seat_id")
	}
	if err := h.Engine.Release(c.Request().Context(), sessionID, seatID, req.HolderToken); err != nil {
		return engineError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// bookRequest is the body of POST /v1/sessions/:id/book.
type bookRequest struct {
	SeatIDs     []string `json:"seat_ids" validate:"required,min=1,max=50,dive,uuid"`
	HolderToken string   `json:"holder_token" validate:"omitempty,min=16,max=64"`
	TTLSeconds  int      `json:"ttl_seconds" validate:"omitempty,min=1,max=3600"`
}

// Book handles POST /v1/sessions/:id/book.  It reserves all requested
// seats atomically: on any failure no seat stays held.  On success the
// response carries the booking id and the total price, and a
// booking.confirmed event is published; publish failures are logged
// and never fail the booking.
func (h *BookingHandler) Book(c echo.Context) error {
	sessionID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req bookRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	seatIDs := make([]uuid.UUID, 0, len(req.SeatIDs))
	for _, raw := range req.SeatIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid seat id "+raw)
		}
		seatIDs = append(seatIDs, id)
	}
	token := req.HolderToken
	if token == "" {
		if token, err = engine.NewHolderToken(); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to generate holder token"})
		}
	}
	ttl := time.Duration(req.TTLSeconds) * time.Second

	ctx := c.Request().Context()
	booking, err := h.Engine.Book(ctx, sessionID, seatIDs, token, ttl)
	if err != nil {
		return engineError(c, err)
	}

	total, labels := h.priceBooking(c, booking)
	h.publishConfirmed(c, booking, total, labels)

	ids := make([]string, 0, len(booking.SeatIDs))
	for _, id := range booking.SeatIDs {
		ids = append(ids, id.String())
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"booking_id":         booking.ID.String(),
		"session_id":         sessionID.String(),
		"seat_ids":           ids,
		"holder_token":       token,
		"total_amount_cents": total,
		"confirmed_at":       booking.ConfirmedAt.Format(time.RFC3339),
	})
}

// GetBooking handles GET /v1/sessions/:id/booking.  It returns the
// caller's live holds and reservations for the session, identified by
// the holder_token query parameter.  An empty list means the token
// holds nothing here (or everything expired).
func (h *BookingHandler) GetBooking(c echo.Context) error {
	sessionID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	token := c.QueryParam("holder_token")
	if len(token) < 16 || len(token) > 64 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid holder_token")
	}
	holds, err := h.Engine.HoldsForHolder(c.Request().Context(), sessionID, token)
	if err != nil {
		return engineError(c, err)
	}
	type item struct {
		SeatID    string `json:"seat_id"`
		State     string `json:"state"`
		ExpiresAt string `json:"expires_at,omitempty"`
	}
	items := make([]item, 0, len(holds))
	for i := range holds {
		it := item{SeatID: holds[i].SeatID.String(), State: string(holds[i].State)}
		if holds[i].State == engine.HoldHeld {
			it.ExpiresAt = holds[i].ExpiresAt.Format(time.RFC3339)
		}
		items = append(items, it)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"session_id": sessionID.String(),
		"items":      items,
	})
}

// priceBooking totals the booked seats under the session's pricing
// plan and collects human-readable seat labels.  A seat type with no
// matching pricing item contributes zero; the booking itself already
// committed, so pricing gaps are logged rather than surfaced.
func (h *BookingHandler) priceBooking(c echo.Context, b *engine.Booking) (uint32, []string) {
	ctx := c.Request().Context()
	sess, err := h.SessionRepo.GetByID(ctx, b.SessionID)
	if err != nil {
		log.Printf("booking: session lookup for pricing failed: %v", err)
		return 0, nil
	}
	var total uint32
	labels := make([]string, 0, len(b.SeatIDs))
	for _, seatID := range b.SeatIDs {
		seat, err := h.SeatRepo.GetByID(ctx, seatID)
		if err != nil {
			log.Printf("booking: seat %s lookup for pricing failed: %v", seatID, err)
			continue
		}
		labels = append(labels, fmt.Sprintf("%s%d", seat.RowLabel, seat.Number))
		price, err := h.PricingRepo.PriceFor(ctx, sess.PricingID, seat.SeatTypeID, sess.StartTime)
		if err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				log.Printf("booking: price lookup for seat %s failed: %v", seatID, err)
			}
			continue
		}
		total += price
	}
	return total, labels
}

// publishConfirmed emits the booking.confirmed event.  Failures are
// logged inside the publisher; the booking has already committed.
func (h *BookingHandler) publishConfirmed(c echo.Context, b *engine.Booking, total uint32, labels []string) {
	ctx := c.Request().Context()
	sess, err := h.SessionRepo.GetByID(ctx, b.SessionID)
	if err != nil {
		log.Printf("booking: session lookup for event failed: %v", err)
		return
	}
	hallName, movieTitle := "", ""
	if hall, err := h.HallRepo.GetByID(ctx, sess.HallID); err == nil {
		hallName = hall.Name
	}
	if movie, err := h.MovieRepo.GetByID(ctx, sess.MovieID); err == nil {
		movieTitle = movie.Title
	}
	_ = queue.PublishBookingConfirmed(ctx, queue.BookingConfirmedEvent{
		BookingID:        b.ID.String(),
		SessionID:        b.SessionID.String(),
		HallID:           sess.HallID.String(),
		HallName:         hallName,
		MovieTitle:       movieTitle,
		StartsAt:         sess.StartTime.Format(time.RFC3339),
		EndsAt:           sess.EndTime.Format(time.RFC3339),
		SeatLabels:       labels,
		TotalAmountCents: total,
		ConfirmedAt:      b.ConfirmedAt.Format(time.RFC3339),
	})
}
