package main // Entry point package

import (
	"log"
	"time"

	"github.com/joho/godotenv"    // loads .env files in development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/bus-ticket-booking/internal/booking"
	"github.com/iliyamo/bus-ticket-booking/internal/config"
	"github.com/iliyamo/bus-ticket-booking/internal/handler"
	"github.com/iliyamo/bus-ticket-booking/internal/layout"
	"github.com/iliyamo/bus-ticket-booking/internal/provider"
	"github.com/iliyamo/bus-ticket-booking/internal/queue"
	"github.com/iliyamo/bus-ticket-booking/internal/repository"
	"github.com/iliyamo/bus-ticket-booking/internal/routecache"
	"github.com/iliyamo/bus-ticket-booking/internal/router"
)

func main() {
	// Load .env when present; real environments set variables directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
	cfg := config.Load()

	// Operator API client implements all three collaborator contracts.
	operator := provider.NewHTTPClient(cfg.OperatorAPIURL, 10*time.Second)

	// Optional MySQL persistence: snapshots + booking receipts.
	var snapshots *repository.SnapshotRepo
	var bookings *repository.BookingRepo
	if cfg.DBHost != "" {
		db, err := repository.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			log.Printf("database unavailable, running without persistence: %v", err)
		} else {
			snapshots = repository.NewSnapshotRepo(db)
			bookings = repository.NewBookingRepo(db)
		}
	}

	// Optional Redis: route response cache + submission rate limiting.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable, response cache and rate limiting disabled")
	}

	registry := booking.NewRegistry()
	routes := handler.NewRouteHandler(routecache.New(provider.RouteProviderFunc(operator.FetchRoutes)))
	lookup := handler.NewBookingHandler(bookings)
	sessions := handler.NewSessionHandler(
		registry, operator, operator, snapshots, bookings,
		layout.DefaultPolicy(), cfg.SessionSecret, cfg.SessionTTLMin, cfg.Production(),
	)

	e := echo.New()
	router.RegisterRoutes(e, routes, lookup, config.LoadRouteCacheConfig(), rdb)
	router.RegisterSessions(e, sessions, config.LoadRateLimitConfig(), rdb)

	// Consume booking confirmations in the background.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
