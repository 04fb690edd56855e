package middleware // reusable HTTP middleware for the booking API

import (
	"net/http" // HTTP status codes for responses
	"strings"  // string utilities for prefix checking and trimming

	"github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

	"github.com/iliyamo/bus-ticket-booking/internal/utils"
)

// SessionToken returns an Echo middleware that validates the Bearer
// session token minted when a booking session is created and injects the
// session id into the request context under "session_id".  Handlers for
// the wizard routes resolve their controller from that id.  This is not
// user authentication; it only ties a browser tab to its session.
func SessionToken(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing session token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")
			sessionID, err := utils.ParseSessionToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid session token"})
			}
			c.Set("session_id", sessionID)
			return next(c)
		}
	}
}
