// This file defines the staff API: hall and seat administration, movie
// and genre catalog management, pricing plans, and session scheduling
// gated by the engine's conflict checker.  All routes here sit behind
// JWT authentication and the STAFF role.

package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/kinohall/booking-engine/internal/engine"
	"github.com/kinohall/booking-engine/internal/model"
	"github.com/kinohall/booking-engine/internal/repository"
)

// StaffHandler groups the repositories and engine needed for catalog
// and schedule administration.
type StaffHandler struct {
	Engine      *engine.Engine
	HallRepo    *repository.HallRepo
	SeatRepo    *repository.SeatRepo
	MovieRepo   *repository.MovieRepo
	SessionRepo *repository.SessionRepo
	PricingRepo *repository.PricingRepo
	TechRepo    *repository.TechnologyRepo
}

// NewStaffHandler constructs a StaffHandler.  All dependencies must be
// non-nil.
func NewStaffHandler(eng *engine.Engine, halls *repository.HallRepo, seats *repository.SeatRepo, movies *repository.MovieRepo, sessions *repository.SessionRepo, pricing *repository.PricingRepo, tech *repository.TechnologyRepo) *StaffHandler {
	if eng == nil || halls == nil || seats == nil || movies == nil || sessions == nil || pricing == nil || tech == nil {
		panic("nil dependency passed to NewStaffHandler")
	}
	return &StaffHandler{
		Engine:      eng,
		HallRepo:    halls,
		SeatRepo:    seats,
		MovieRepo:   movies,
		SessionRepo: sessions,
		PricingRepo: pricing,
		TechRepo:    tech,
	}
}

// createHallRequest is the body of POST /v1/staff/halls.  A full seat
// grid is generated on creation; every generated seat uses the given
// seat type.
type createHallRequest struct {
	Name          string `json:"name" validate:"required,min=3,max=64"`
	Capacity      int    `json:"capacity" validate:"required,gt=6"`
	GridRows      int    `json:"grid_rows" validate:"required,min=1,max=26"`
	GridCols      int    `json:"grid_cols" validate:"required,min=1"`
	BufferMinutes int    `json:"buffer_minutes" validate:"omitempty,min=0,max=240"`
	SeatTypeID    string `json:"seat_type_id" validate:"required,uuid"`
}

// CreateHall handles POST /v1/staff/halls.  It creates the hall and
// populates its seat grid: rows are labelled A, B, C... and seats are
// numbered from 1 within each row.
func (h *StaffHandler) CreateHall(c echo.Context) error {
	var req createHallRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	seatTypeID, err := uuid.Parse(req.SeatTypeID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid seat_type_id")
	}
	hall, err := model.NewHall(req.Name, req.Capacity, req.GridRows, req.GridCols, req.BufferMinutes)
	if err != nil {
		return engineError(c, err)
	}
	ctx := c.Request().Context()
	if err := h.HallRepo.Create(ctx, hall); err != nil {
		return engineError(c, err)
	}

	seats := make([]model.Seat, 0, req.GridRows*req.GridCols)
	for row := 0; row < req.GridRows; row++ {
		label := string(rune('A' + row))
		for col := 0; col < req.GridCols; col++ {
			seat, err := model.NewSeat(hall.ID, seatTypeID, label, col+1, col, row)
			if err != nil {
				return engineError(c, err)
			}
			seats = append(seats, *seat)
		}
	}
	if err := h.SeatRepo.CreateBulk(ctx, seats); err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"id":    hall.ID.String(),
		"name":  hall.Name,
		"seats": len(seats),
	})
}

// SetHallActive handles PATCH /v1/staff/halls/:id/active.  Inactive
// halls disappear from public listings but keep their schedule.
func (h *StaffHandler) SetHallActive(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req struct {
		Active *bool `json:"active" validate:"required"`
	}
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.HallRepo.SetActive(c.Request().Context(), id, *req.Active); err != nil {
		return engineError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// CreateSeatType handles POST /v1/staff/seat-types.
func (h *StaffHandler) CreateSeatType(c echo.Context) error {
	var req struct {
		Name        string `json:"name" validate:"required,min=3,max=64"`
		Description string `json:"description" validate:"required,min=3,max=64"`
	}
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	st, err := model.NewSeatType(req.Name, req.Description)
	if err != nil {
		return engineError(c, err)
	}
	if err := h.SeatRepo.CreateSeatType(c.Request().Context(), st); err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": st.ID.String(), "name": st.Name})
}

// SetSeatStatus handles PATCH /v1/staff/seats/:id/status.  Marking a
// seat BROKEN blocks it for every session until it is repaired; live
// holds on the seat are untouched and simply expire.
func (h *StaffHandler) SetSeatStatus(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req struct {
		Status string `json:"status" validate:"required,oneof=FREE RESERVED BROKEN"`
	}
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.SeatRepo.SetStatus(c.Request().Context(), id, model.SeatStatus(req.Status)); err != nil {
		return engineError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// CreateTechnology handles POST /v1/staff/technologies.
func (h *StaffHandler) CreateTechnology(c echo.Context) error {
	var req struct {
		Name string `json:"name" validate:"required,min=3,max=64"`
		Type string `json:"type" validate:"required,min=3,max=64"`
	}
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	tech, err := model.NewTechnology(req.Name, req.Type)
	if err != nil {
		return engineError(c, err)
	}
	if err := h.TechRepo.Create(c.Request().Context(), tech); err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": tech.ID.String(), "name": tech.Name})
}

// AssignHallTechnology handles POST /v1/staff/halls/:id/technologies.
// Assigning an already assigned technology is a no-op.
func (h *StaffHandler) AssignHallTechnology(c echo.Context) error {
	hallID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req struct {
		TechnologyID string `json:"technology_id" validate:"required,uuid"`
	}
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	techID, err := uuid.Parse(req.TechnologyID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid technology_id")
	}
	ctx := c.Request().Context()
	if _, err := h.HallRepo.GetByID(ctx, hallID); err != nil {
		return engineError(c, err)
	}
	if err := h.TechRepo.AssignToHall(ctx, hallID, techID); err != nil {
		return engineError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// createMovieRequest is the body of POST /v1/staff/movies.
type createMovieRequest struct {
	Title           string   `json:"title" validate:"required,min=1,max=128"`
	Slug            *string  `json:"slug" validate:"omitempty,min=1,max=32"`
	DurationMinutes int      `json:"duration_minutes" validate:"required,min=2"`
	Rating          float64  `json:"rating" validate:"min=0,max=10"`
	PosterURL       *string  `json:"poster_url" validate:"omitempty,url"`
	TrailerURL      *string  `json:"trailer_url" validate:"omitempty,url"`
	BackdropURL     *string  `json:"backdrop_url" validate:"omitempty,url"`
	Description     string   `json:"description" validate:"required,min=32,max=512"`
	ReleaseYear     int      `json:"release_year" validate:"required,min=1888"`
	Cast            []string `json:"cast" validate:"omitempty,dive,min=1,max=128"`
	Status          string   `json:"status" validate:"omitempty,oneof=COMING_SOON NOW_PLAYING ENDED"`
	GenreIDs        []string `json:"genre_ids" validate:"omitempty,dive,uuid"`
}

// CreateMovie handles POST /v1/staff/movies.  Genres are linked in the
// same request when genre_ids is present.
func (h *StaffHandler) CreateMovie(c echo.Context) error {
	var req createMovieRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	movie, err := model.NewMovie(model.MovieParams{
		Title:           req.Title,
		Slug:            req.Slug,
		DurationMinutes: req.DurationMinutes,
		Rating:          req.Rating,
		PosterURL:       req.PosterURL,
		TrailerURL:      req.TrailerURL,
		BackdropURL:     req.BackdropURL,
		Description:     req.Description,
		ReleaseYear:     req.ReleaseYear,
		Cast:            req.Cast,
		Status:          model.MovieStatus(req.Status),
	})
	if err != nil {
		return engineError(c, err)
	}
	ctx := c.Request().Context()
	if err := h.MovieRepo.Create(ctx, movie); err != nil {
		return engineError(c, err)
	}
	if len(req.GenreIDs) > 0 {
		genreIDs := make([]uuid.UUID, 0, len(req.GenreIDs))
		for _, raw := range req.GenreIDs {
			id, err := uuid.Parse(raw)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "invalid genre id "+raw)
			}
			genreIDs = append(genreIDs, id)
		}
		if err := h.MovieRepo.LinkGenres(ctx, movie.ID, genreIDs); err != nil {
			return engineError(c, err)
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": movie.ID.String(), "title": movie.Title})
}

// DeleteMovie handles DELETE /v1/staff/movies/:id.  Deletion is soft;
// the movie drops out of listings but existing sessions keep their
// reference.
func (h *StaffHandler) DeleteMovie(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.MovieRepo.SoftDelete(c.Request().Context(), id); err != nil {
		return engineError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// CreateGenre handles POST /v1/staff/genres.
func (h *StaffHandler) CreateGenre(c echo.Context) error {
	var req struct {
		Name string  `json:"name" validate:"required,min=3,max=64"`
		Slug *string `json:"slug" validate:"omitempty,min=1,max=32"`
	}
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	g, err := model.NewGenre(req.Name, req.Slug, nil)
	if err != nil {
		return engineError(c, err)
	}
	if err := h.MovieRepo.CreateGenre(c.Request().Context(), g); err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": g.ID.String(), "name": g.Name})
}

// createSessionRequest is the body of POST /v1/staff/sessions.  Times
// are RFC 3339.
type createSessionRequest struct {
	MovieID   string    `json:"movie_id" validate:"required,uuid"`
	HallID    string    `json:"hall_id" validate:"required,uuid"`
	PricingID string    `json:"pricing_id" validate:"required,uuid"`
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required,gtfield=StartTime"`
	Status    string    `json:"status" validate:"omitempty,oneof=PLANNED OPEN"`
}

// CreateSession handles POST /v1/staff/sessions.  The slot must pass
// the engine's overlap check, which accounts for the hall's cleaning
// buffer; a 409 response names the conflicting session.
func (h *StaffHandler) CreateSession(c echo.Context) error {
	var req createSessionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	movieID, err := uuid.Parse(req.MovieID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid movie_id")
	}
	hallID, err := uuid.Parse(req.HallID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid hall_id")
	}
	pricingID, err := uuid.Parse(req.PricingID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid pricing_id")
	}

	ctx := c.Request().Context()
	if err := h.Engine.CheckOverlap(ctx, hallID, req.StartTime, req.EndTime, uuid.Nil); err != nil {
		return engineError(c, err)
	}
	sess, err := model.NewSession(movieID, hallID, pricingID, req.StartTime, req.EndTime, model.SessionStatus(req.Status))
	if err != nil {
		return engineError(c, err)
	}
	if err := h.SessionRepo.Create(ctx, sess); err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"id":         sess.ID.String(),
		"start_time": sess.StartTime.Format(time.RFC3339),
		"end_time":   sess.EndTime.Format(time.RFC3339),
		"status":     string(sess.Status),
	})
}

// rescheduleRequest is the body of PATCH /v1/staff/sessions/:id.
type rescheduleRequest struct {
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required,gtfield=StartTime"`
}

// RescheduleSession handles PATCH /v1/staff/sessions/:id.  The new
// slot is checked for overlap with every other active session in the
// hall; the session's own current slot is excluded so shrinking or
// shifting within it always succeeds.
func (h *StaffHandler) RescheduleSession(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req rescheduleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()
	sess, err := h.SessionRepo.GetByID(ctx, id)
	if err != nil {
		return engineError(c, err)
	}
	if err := h.Engine.CheckOverlap(ctx, sess.HallID, req.StartTime, req.EndTime, id); err != nil {
		return engineError(c, err)
	}
	if err := h.SessionRepo.Reschedule(ctx, id, req.StartTime, req.EndTime, sess.Status); err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":         id.String(),
		"start_time": req.StartTime.UTC().Format(time.RFC3339),
		"end_time":   req.EndTime.UTC().Format(time.RFC3339),
	})
}

// SetSessionStatus handles PATCH /v1/staff/sessions/:id/status.
// Lifecycle transitions (opening sales, marking in progress or
// completed) are staff decisions; SOLD_OUT is normally projected by
// the engine but may be forced here.
func (h *StaffHandler) SetSessionStatus(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req struct {
		Status string `json:"status" validate:"required,oneof=PLANNED OPEN SOLD_OUT IN_PROGRESS COMPLETED"`
	}
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.SessionRepo.SetStatus(c.Request().Context(), id, model.SessionStatus(req.Status)); err != nil {
		return engineError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// CreatePricing handles POST /v1/staff/pricing.
func (h *StaffHandler) CreatePricing(c echo.Context) error {
	var req struct {
		Name string `json:"name" validate:"required,min=3,max=64"`
	}
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	p, err := model.NewPricing(req.Name)
	if err != nil {
		return engineError(c, err)
	}
	if err := h.PricingRepo.CreatePlan(c.Request().Context(), p); err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": p.ID.String(), "name": p.Name})
}

// ListPricingItems handles GET /v1/staff/pricing/:id/items.  It
// returns every item of the plan so staff can audit a price table
// before attaching the plan to sessions.
func (h *StaffHandler) ListPricingItems(c echo.Context) error {
	pricingID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	plan, err := h.PricingRepo.GetPlan(ctx, pricingID)
	if err != nil {
		return engineError(c, err)
	}
	items, err := h.PricingRepo.ListItems(ctx, pricingID)
	if err != nil {
		return engineError(c, err)
	}
	type item struct {
		ID         string    `json:"id"`
		SeatTypeID string    `json:"seat_type_id"`
		PriceCents uint32    `json:"price_cents"`
		DayOfWeek  int       `json:"day_of_week"`
		StartTime  time.Time `json:"start_time"`
		EndTime    time.Time `json:"end_time"`
	}
	out := make([]item, 0, len(items))
	for i := range items {
		out = append(out, item{
			ID:         items[i].ID.String(),
			SeatTypeID: items[i].SeatTypeID.String(),
			PriceCents: items[i].PriceCents,
			DayOfWeek:  items[i].DayOfWeek,
			StartTime:  items[i].StartTime,
			EndTime:    items[i].EndTime,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"plan": plan.Name, "items": out})
}

// createPricingItemRequest is the body of POST /v1/staff/pricing/:id/items.
type createPricingItemRequest struct {
	SeatTypeID string    `json:"seat_type_id" validate:"required,uuid"`
	PriceCents uint32    `json:"price_cents" validate:"required,gt=0"`
	DayOfWeek  int       `json:"day_of_week" validate:"required,min=1,max=7"`
	StartTime  time.Time `json:"start_time" validate:"required"`
	EndTime    time.Time `json:"end_time" validate:"required,gtfield=StartTime"`
}

// CreatePricingItem handles POST /v1/staff/pricing/:id/items.  The
// day-of-week is ISO numbering: 1 is Monday, 7 is Sunday.
func (h *StaffHandler) CreatePricingItem(c echo.Context) error {
	pricingID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req createPricingItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	seatTypeID, err := uuid.Parse(req.SeatTypeID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid seat_type_id")
	}
	ctx := c.Request().Context()
	if _, err := h.PricingRepo.GetPlan(ctx, pricingID); err != nil {
		return engineError(c, err)
	}
	item, err := model.NewPricingItem(pricingID, seatTypeID, req.PriceCents, req.DayOfWeek, req.StartTime, req.EndTime)
	if err != nil {
		return engineError(c, err)
	}
	if err := h.PricingRepo.CreateItem(ctx, item); err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": item.ID.String()})
}
