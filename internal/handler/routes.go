package handler

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bus-ticket-booking/internal/routecache"
)

// RouteHandler serves the origin/destination reference data behind the
// in-process route cache.  Many search screens poll this endpoint; the
// cache guarantees at most one upstream fetch per TTL window no matter
// how many requests arrive at once.
type RouteHandler struct {
	Cache *routecache.Cache
}

// NewRouteHandler constructs a RouteHandler.  The cache must be non-nil.
func NewRouteHandler(cache *routecache.Cache) *RouteHandler {
	if cache == nil {
		panic("nil cache passed to NewRouteHandler")
	}
	return &RouteHandler{Cache: cache}
}

// GetRoutes handles GET /v1/routes.  It returns the serviced sources and
// destinations.  Passing ?refresh=true bypasses the cached copy and
// forces a new upstream fetch.  Upstream failures return 502 with the
// cause kept server-side in the log.
func (h *RouteHandler) GetRoutes(c echo.Context) error {
	force := c.QueryParam("refresh") == "true"
	data, err := h.Cache.Get(c.Request().Context(), force)
	if err != nil {
		log.Printf("route fetch failed: %v", err)
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "failed to load routes"})
	}
	return c.JSON(http.StatusOK, data)
}
