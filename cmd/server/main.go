package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/kinohall/booking-engine/internal/config"
	"github.com/kinohall/booking-engine/internal/database"
	"github.com/kinohall/booking-engine/internal/engine"
	"github.com/kinohall/booking-engine/internal/handler"
	"github.com/kinohall/booking-engine/internal/queue"
	"github.com/kinohall/booking-engine/internal/repository"
	"github.com/kinohall/booking-engine/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureSchema(ctx, db); err != nil {
		cancel()
		log.Fatalf("schema setup failed: %v", err)
	}
	cancel()

	hallRepo := repository.NewHallRepo(db)
	seatRepo := repository.NewSeatRepo(db)
	sessionRepo := repository.NewSessionRepo(db)
	movieRepo := repository.NewMovieRepo(db)
	pricingRepo := repository.NewPricingRepo(db)
	techRepo := repository.NewTechnologyRepo(db)
	holdRepo := repository.NewSeatHoldRepo(db)

	catalog := repository.NewCatalog(hallRepo, seatRepo, sessionRepo)
	eng := engine.New(catalog, holdRepo, catalog, engine.Config{
		DefaultHoldTTL: cfg.HoldTTL,
		DefaultBuffer:  cfg.SessionBuffer,
	})

	// Redis is optional; a nil client disables caching and rate limiting.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; response cache and rate limiting disabled")
	}

	// Background jobs: the event consumer and the stale-hold sweeper.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()
	go sweepStaleHolds(holdRepo)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewRequestValidator()

	publicHandler := handler.NewPublicHandler(movieRepo, hallRepo, seatRepo, sessionRepo, techRepo, eng)
	bookingHandler := handler.NewBookingHandler(eng, sessionRepo, seatRepo, hallRepo, movieRepo, pricingRepo)
	staffHandler := handler.NewStaffHandler(eng, hallRepo, seatRepo, movieRepo, sessionRepo, pricingRepo, techRepo)

	router.RegisterRoutes(e)
	router.RegisterPublic(e, publicHandler, rdb)
	router.RegisterBooking(e, bookingHandler, rdb)
	router.RegisterStaff(e, staffHandler, cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// sweepStaleHolds periodically deletes hold records that expired long
// ago.  Correctness never depends on this; expiry is evaluated lazily
// on every read.  The sweep only keeps the seat_holds table from
// growing without bound.
func sweepStaleHolds(holds *repository.SeatHoldRepo) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		cutoff := time.Now().UTC().Add(-24 * time.Hour)
		if n, err := holds.DeleteStale(ctx, cutoff); err != nil {
			log.Printf("hold sweep failed: %v", err)
		} else if n > 0 {
			log.Printf("hold sweep removed %d stale records", n)
		}
		cancel()
	}
}
