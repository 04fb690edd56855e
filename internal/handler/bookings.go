package handler

import (
	"database/sql"
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bus-ticket-booking/internal/repository"
)

// BookingHandler serves confirmed-booking lookups from the durable booking
// records.  The repo is optional: without a database the endpoint reports
// that lookups are unavailable rather than failing the whole service.
type BookingHandler struct {
	Bookings *repository.BookingRepo
}

// NewBookingHandler constructs a BookingHandler.  A nil repo is allowed.
func NewBookingHandler(bookings *repository.BookingRepo) *BookingHandler {
	return &BookingHandler{Bookings: bookings}
}

// GetByPNR handles GET /v1/bookings/:pnr.  Passengers use it to re-fetch a
// confirmed booking from the PNR printed on the ticket.
func (h *BookingHandler) GetByPNR(c echo.Context) error {
	if h.Bookings == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "booking lookup is not available"})
	}
	pnr := c.Param("pnr")
	if pnr == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "pnr is required"})
	}
	rec, err := h.Bookings.GetByPNR(c.Request().Context(), pnr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no booking for pnr"})
		}
		log.Printf("booking lookup failed for pnr %s: %v", pnr, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load booking"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"booking_id":   rec.BookingID,
		"pnr":          rec.PNR,
		"bus_id":       rec.BusID,
		"seat_numbers": rec.SeatNumbers,
		"total_fare":   rec.TotalFare,
		"contact":      rec.Contact,
		"created_at":   rec.CreatedAt,
	})
}
