// Package handler exposes HTTP handlers for public and staff endpoints.
// This file defines the unauthenticated browse API: movies, halls, seat
// layouts, session schedules and per-session seat availability.
package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kinohall/booking-engine/internal/engine"
	"github.com/kinohall/booking-engine/internal/model"
	"github.com/kinohall/booking-engine/internal/repository"
)

// PublicHandler aggregates the repositories and the engine needed for
// unauthenticated browsing.  Responses expose only safe fields.
type PublicHandler struct {
	MovieRepo   *repository.MovieRepo
	HallRepo    *repository.HallRepo
	SeatRepo    *repository.SeatRepo
	SessionRepo *repository.SessionRepo
	TechRepo    *repository.TechnologyRepo
	Engine      *engine.Engine
}

// NewPublicHandler constructs a PublicHandler.  All dependencies must
// be non-nil.
func NewPublicHandler(movies *repository.MovieRepo, halls *repository.HallRepo, seats *repository.SeatRepo, sessions *repository.SessionRepo, tech *repository.TechnologyRepo, eng *engine.Engine) *PublicHandler {
	if movies == nil || halls == nil || seats == nil || sessions == nil || tech == nil || eng == nil {
		panic("nil dependency passed to NewPublicHandler")
	}
	return &PublicHandler{MovieRepo: movies, HallRepo: halls, SeatRepo: seats, SessionRepo: sessions, TechRepo: tech, Engine: eng}
}

// publicMovie is a movie exposed via the public API.
type publicMovie struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	DurationMinutes int      `json:"duration_minutes"`
	Rating          float64  `json:"rating"`
	Description     string   `json:"description"`
	ReleaseYear     int      `json:"release_year"`
	Cast            []string `json:"cast,omitempty"`
	Status          string   `json:"status"`
	PosterURL       *string  `json:"poster_url,omitempty"`
	TrailerURL      *string  `json:"trailer_url,omitempty"`
}

func toPublicMovie(m *model.Movie) publicMovie {
	return publicMovie{
		ID:              m.ID.String(),
		Title:           m.Title,
		DurationMinutes: m.DurationMinutes,
		Rating:          m.Rating,
		Description:     m.Description,
		ReleaseYear:     m.ReleaseYear,
		Cast:            m.Cast,
		Status:          string(m.Status),
		PosterURL:       m.PosterURL,
		TrailerURL:      m.TrailerURL,
	}
}

// publicHall is a hall exposed via the public API.
type publicHall struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
	GridRows int    `json:"grid_rows"`
	GridCols int    `json:"grid_cols"`
}

// publicSeat is one seat in a layout or availability response.
type publicSeat struct {
	ID       string `json:"id"`
	RowLabel string `json:"row_label"`
	Number   int    `json:"number"`
	GridX    int    `json:"grid_x"`
	GridY    int    `json:"grid_y"`
	Status   string `json:"status"`
}

// publicSession is a session in list and detail responses.
type publicSession struct {
	ID        string    `json:"id"`
	MovieID   string    `json:"movie_id"`
	HallID    string    `json:"hall_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Status    string    `json:"status"`
}

func toPublicSession(s *model.Session) publicSession {
	return publicSession{
		ID:        s.ID.String(),
		MovieID:   s.MovieID.String(),
		HallID:    s.HallID.String(),
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
		Status:    string(s.Status),
	}
}

// ListMovies handles GET /v1/movies.  Soft-deleted movies are never
// returned.
func (h *PublicHandler) ListMovies(c echo.Context) error {
	movies, err := h.MovieRepo.List(c.Request().Context())
	if err != nil {
		return engineError(c, err)
	}
	items := make([]publicMovie, 0, len(movies))
	for i := range movies {
		items = append(items, toPublicMovie(&movies[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetMovie handles GET /v1/movies/:id.
func (h *PublicHandler) GetMovie(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	m, err := h.MovieRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": toPublicMovie(m)})
}

// ListHalls handles GET /v1/halls.  Only active halls are listed.
func (h *PublicHandler) ListHalls(c echo.Context) error {
	halls, err := h.HallRepo.ListActive(c.Request().Context())
	if err != nil {
		return engineError(c, err)
	}
	items := make([]publicHall, 0, len(halls))
	for _, hl := range halls {
		items = append(items, publicHall{
			ID:       hl.ID.String(),
			Name:     hl.Name,
			Capacity: hl.TotalCapacity,
			GridRows: hl.GridRows,
			GridCols: hl.GridCols,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetHallLayout handles GET /v1/halls/:id/layout.  It returns the
// hall's seats ordered by row and number so clients can render the
// grid; the status field here is the seat's physical condition, not
// per-session availability.
func (h *PublicHandler) GetHallLayout(c echo.Context) error {
	hallID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	hall, err := h.HallRepo.GetByID(ctx, hallID)
	if err != nil {
		return engineError(c, err)
	}
	seats, err := h.Engine.SeatsForHall(ctx, hallID)
	if err != nil {
		return engineError(c, err)
	}
	items := make([]publicSeat, 0, len(seats))
	for i := range seats {
		s := &seats[i]
		items = append(items, publicSeat{
			ID:       s.ID.String(),
			RowLabel: s.RowLabel,
			Number:   s.Number,
			GridX:    s.GridX,
			GridY:    s.GridY,
			Status:   string(s.Status),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"hall": publicHall{
			ID:       hall.ID.String(),
			Name:     hall.Name,
			Capacity: hall.TotalCapacity,
			GridRows: hall.GridRows,
			GridCols: hall.GridCols,
		},
		"items": items,
	})
}

// ListSeatTypes handles GET /v1/seat-types.  Seat types are shared
// across halls; clients use them to label seats and explain price
// differences.
func (h *PublicHandler) ListSeatTypes(c echo.Context) error {
	types, err := h.SeatRepo.ListSeatTypes(c.Request().Context())
	if err != nil {
		return engineError(c, err)
	}
	type item struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	items := make([]item, 0, len(types))
	for _, st := range types {
		items = append(items, item{ID: st.ID.String(), Name: st.Name, Description: st.Description})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ListHallTechnologies handles GET /v1/halls/:id/technologies.  It
// returns the projection and sound capabilities of a hall.
func (h *PublicHandler) ListHallTechnologies(c echo.Context) error {
	hallID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	if _, err := h.HallRepo.GetByID(ctx, hallID); err != nil {
		return engineError(c, err)
	}
	techs, err := h.TechRepo.ListByHall(ctx, hallID)
	if err != nil {
		return engineError(c, err)
	}
	type item struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Type string `json:"type"`
	}
	items := make([]item, 0, len(techs))
	for _, t := range techs {
		items = append(items, item{ID: t.ID.String(), Name: t.Name, Type: t.Type})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ListHallSessions handles GET /v1/halls/:id/sessions.
func (h *PublicHandler) ListHallSessions(c echo.Context) error {
	hallID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	sessions, err := h.SessionRepo.ListByHall(c.Request().Context(), hallID)
	if err != nil {
		return engineError(c, err)
	}
	items := make([]publicSession, 0, len(sessions))
	for i := range sessions {
		items = append(items, toPublicSession(&sessions[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ListUpcomingSessions handles GET /v1/sessions.  It returns sessions
// starting after the current instant across all halls.
func (h *PublicHandler) ListUpcomingSessions(c echo.Context) error {
	sessions, err := h.SessionRepo.ListUpcoming(c.Request().Context(), time.Now().UTC())
	if err != nil {
		return engineError(c, err)
	}
	items := make([]publicSession, 0, len(sessions))
	for i := range sessions {
		items = append(items, toPublicSession(&sessions[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetSession handles GET /v1/sessions/:id.
func (h *PublicHandler) GetSession(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	s, err := h.SessionRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": toPublicSession(s)})
}

// GetSessionSeats handles GET /v1/sessions/:id/seats.  It merges the
// hall layout with the engine's availability snapshot, so each seat
// carries its effective status for this session: FREE, HELD, RESERVED
// or BLOCKED.
func (h *PublicHandler) GetSessionSeats(c echo.Context) error {
	sessionID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	sess, err := h.SessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return engineError(c, err)
	}
	seats, err := h.Engine.SeatsForHall(ctx, sess.HallID)
	if err != nil {
		return engineError(c, err)
	}
	snap, err := h.Engine.Snapshot(ctx, sessionID)
	if err != nil {
		return engineError(c, err)
	}
	items := make([]publicSeat, 0, len(seats))
	for i := range seats {
		s := &seats[i]
		items = append(items, publicSeat{
			ID:       s.ID.String(),
			RowLabel: s.RowLabel,
			Number:   s.Number,
			GridX:    s.GridX,
			GridY:    s.GridY,
			Status:   string(snap[s.ID]),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"session_id": sessionID.String(),
		"items":      items,
	})
}
