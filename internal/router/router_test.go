package router

import (
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/kinohall/booking-engine/internal/engine"
	"github.com/kinohall/booking-engine/internal/handler"
	"github.com/kinohall/booking-engine/internal/repository"
)

// newTestServer registers every route group over repositories with no
// live database.  Registration only wires the route table, so nothing
// here touches a connection.
func newTestServer() *echo.Echo {
	hallRepo := repository.NewHallRepo(nil)
	seatRepo := repository.NewSeatRepo(nil)
	sessionRepo := repository.NewSessionRepo(nil)
	movieRepo := repository.NewMovieRepo(nil)
	pricingRepo := repository.NewPricingRepo(nil)
	techRepo := repository.NewTechnologyRepo(nil)
	holdRepo := repository.NewSeatHoldRepo(nil)

	catalog := repository.NewCatalog(hallRepo, seatRepo, sessionRepo)
	eng := engine.New(catalog, holdRepo, catalog, engine.Config{})

	e := echo.New()
	RegisterRoutes(e)
	RegisterPublic(e, handler.NewPublicHandler(movieRepo, hallRepo, seatRepo, sessionRepo, techRepo, eng), nil)
	RegisterBooking(e, handler.NewBookingHandler(eng, sessionRepo, seatRepo, hallRepo, movieRepo, pricingRepo), nil)
	RegisterStaff(e, handler.NewStaffHandler(eng, hallRepo, seatRepo, movieRepo, sessionRepo, pricingRepo, techRepo), "test-secret")
	return e
}

func TestRouteTableCoversAllEndpoints(t *testing.T) {
	e := newTestServer()
	registered := make(map[string]bool, len(e.Routes()))
	for _, r := range e.Routes() {
		registered[r.Method+" "+r.Path] = true
	}

	for _, want := range []string{
		"GET /healthz",
		"GET /v1/movies",
		"GET /v1/movies/:id",
		"GET /v1/halls",
		"GET /v1/seat-types",
		"GET /v1/halls/:id/layout",
		"GET /v1/halls/:id/technologies",
		"GET /v1/halls/:id/sessions",
		"GET /v1/sessions",
		"GET /v1/sessions/:id",
		"GET /v1/sessions/:id/seats",
		"POST /v1/sessions/:id/hold",
		"POST /v1/sessions/:id/confirm",
		"DELETE /v1/sessions/:id/hold",
		"POST /v1/sessions/:id/book",
		"GET /v1/sessions/:id/booking",
		"POST /v1/staff/halls",
		"PATCH /v1/staff/halls/:id/active",
		"POST /v1/staff/halls/:id/technologies",
		"POST /v1/staff/technologies",
		"POST /v1/staff/seat-types",
		"PATCH /v1/staff/seats/:id/status",
		"POST /v1/staff/movies",
		"DELETE /v1/staff/movies/:id",
		"POST /v1/staff/genres",
		"POST /v1/staff/sessions",
		"PATCH /v1/staff/sessions/:id",
		"PATCH /v1/staff/sessions/:id/status",
		"POST /v1/staff/pricing",
		"POST /v1/staff/pricing/:id/items",
		"GET /v1/staff/pricing/:id/items",
	} {
		require.True(t, registered[want], "route %s not registered", want)
	}
}
