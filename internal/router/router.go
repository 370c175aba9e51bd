package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/kinohall/booking-engine/internal/config"
	"github.com/kinohall/booking-engine/internal/handler"
	"github.com/kinohall/booking-engine/internal/middleware"
)

// RegisterRoutes registers routes that need no authentication and no
// shared state: currently only the health check used by load balancers.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterPublic registers the unauthenticated browse endpoints.
// Responses are cached in Redis when a client is available; the cache
// TTL is short enough that availability snapshots stay useful.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, rdb *redis.Client) {
	g := e.Group("/v1")
	g.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	g.GET("/movies", p.ListMovies)
	g.GET("/movies/:id", p.GetMovie)
	g.GET("/halls", p.ListHalls)
	g.GET("/seat-types", p.ListSeatTypes)
	g.GET("/halls/:id/layout", p.GetHallLayout)
	g.GET("/halls/:id/technologies", p.ListHallTechnologies)
	g.GET("/halls/:id/sessions", p.ListHallSessions)
	g.GET("/sessions", p.ListUpcomingSessions)
	g.GET("/sessions/:id", p.GetSession)
	// Per-session seat availability: FREE, HELD, RESERVED or BLOCKED.
	g.GET("/sessions/:id/seats", p.GetSessionSeats)
}

// RegisterBooking registers the customer-facing hold, confirm, release
// and booking endpoints.  Holder tokens stand in for accounts, so no
// JWT is required; the token-bucket limiter shields the hold store
// from request floods.
func RegisterBooking(e *echo.Echo, b *handler.BookingHandler, rdb *redis.Client) {
	g := e.Group("/v1/sessions/:id")
	g.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	g.POST("/hold", b.HoldSeat)
	g.POST("/confirm", b.ConfirmSeat)
	g.DELETE("/hold", b.ReleaseSeat)
	g.POST("/book", b.Book)
	g.GET("/booking", b.GetBooking)
}

// RegisterStaff registers schedule and catalog administration routes.
// Every route requires a valid staff JWT; the role claim must be
// STAFF or ADMIN.
func RegisterStaff(e *echo.Echo, s *handler.StaffHandler, jwtSecret string) {
	g := e.Group("/v1/staff")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("STAFF", "ADMIN"))

	g.POST("/halls", s.CreateHall)
	g.PATCH("/halls/:id/active", s.SetHallActive)
	g.POST("/halls/:id/technologies", s.AssignHallTechnology)
	g.POST("/technologies", s.CreateTechnology)
	g.POST("/seat-types", s.CreateSeatType)
	g.PATCH("/seats/:id/status", s.SetSeatStatus)

	g.POST("/movies", s.CreateMovie)
	g.DELETE("/movies/:id", s.DeleteMovie)
	g.POST("/genres", s.CreateGenre)

	// Session scheduling goes through the engine's overlap check.
	g.POST("/sessions", s.CreateSession)
	g.PATCH("/sessions/:id", s.RescheduleSession)
	g.PATCH("/sessions/:id/status", s.SetSessionStatus)

	g.POST("/pricing", s.CreatePricing)
	g.POST("/pricing/:id/items", s.CreatePricingItem)
	g.GET("/pricing/:id/items", s.ListPricingItems)
}
