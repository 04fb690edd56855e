package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // the Echo web framework handles routing
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/bus-ticket-booking/internal/config"
	"github.com/iliyamo/bus-ticket-booking/internal/handler"
	"github.com/iliyamo/bus-ticket-booking/internal/middleware"
)

// RegisterRoutes registers routes that do not require a session token.
// The health check is used by load balancers to verify the service is up;
// the route list is public reference data for the search screens and sits
// behind the shared Redis response cache when one is configured.  The PNR
// lookup serves confirmed bookings from the durable records.
func RegisterRoutes(e *echo.Echo, routes *handler.RouteHandler, bookings *handler.BookingHandler, cacheCfg config.RouteCacheConfig, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)
	e.GET("/v1/routes", routes.GetRoutes, middleware.NewRouteCache(cacheCfg, rdb))
	e.GET("/v1/bookings/:pnr", bookings.GetByPNR)
}

// RegisterSessions registers the booking wizard routes.  Session creation
// is open (it mints the session token); everything else lives under the
// session-token middleware so handlers can resolve their controller from
// the request context.  The confirm-passengers route additionally runs
// behind the token bucket because it is the only route that reaches the
// operator's booking endpoint.
func RegisterSessions(e *echo.Echo, s *handler.SessionHandler, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	e.POST("/v1/sessions", s.CreateSession)

	g := e.Group("/v1/sessions/current")
	g.Use(middleware.SessionToken(s.Secret))
	g.GET("", s.GetSession)
	g.DELETE("", s.DeleteSession)
	g.POST("/seats/toggle", s.ToggleSeat)
	g.DELETE("/passengers/:index", s.RemovePassenger)
	g.PATCH("/passengers/:index", s.UpdatePassenger)
	g.POST("/confirm-seats", s.ConfirmSeats)
	g.POST("/back", s.Back)
	g.POST("/confirm-passengers", s.ConfirmPassengers, middleware.NewTokenBucket(rlCfg, rdb))
}
