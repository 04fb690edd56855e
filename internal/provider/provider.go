// Package provider defines the boundary contracts the booking core talks
// through: the operator's seat feed, the booking submission endpoint and
// the route reference data.  Implementations live behind these interfaces
// so the session controller can be exercised with fakes in tests and
// pointed at the real operator API in production.
package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/iliyamo/bus-ticket-booking/internal/catalog"
	"github.com/iliyamo/bus-ticket-booking/internal/model"
)

// SeatDetailProvider fetches the raw seat feed for one bus.
type SeatDetailProvider interface {
	Fetch(ctx context.Context, busID string) ([]catalog.RawSeat, error)
}

// RouteProvider fetches the serviced boarding and destination points.
type RouteProvider interface {
	Fetch(ctx context.Context) (model.RouteData, error)
}

// RouteProviderFunc adapts a plain function to the RouteProvider
// interface, the way http.HandlerFunc does for http.Handler.
type RouteProviderFunc func(ctx context.Context) (model.RouteData, error)

// Fetch calls f.
func (f RouteProviderFunc) Fetch(ctx context.Context) (model.RouteData, error) { return f(ctx) }

// BookingSubmitter submits a completed session for booking.  Submit returns
// a Receipt on success; failure modes are the typed errors below, which
// callers should unwrap with errors.As.
type BookingSubmitter interface {
	Submit(ctx context.Context, payload BookingPayload) (Receipt, error)
}

// BookingPayload is the submission body for one session.
type BookingPayload struct {
	SessionID    string            `json:"session_id"`
	BusID        string            `json:"bus_id"`
	SeatIDs      []string          `json:"seat_ids"`
	SeatNumbers  []string          `json:"seat_numbers"`
	Passengers   []model.Passenger `json:"passengers"`
	TotalFare    float64           `json:"total_fare"`
	ContactPhone string            `json:"contact_phone"`
}

// Receipt is the successful booking result.
type Receipt struct {
	BookingID string `json:"booking_id"`
	PNR       string `json:"pnr"`
}

// SeatFetchError wraps a failure to fetch or decode a seat feed.
type SeatFetchError struct {
	BusID string
	Err   error
}

func (e *SeatFetchError) Error() string {
	return fmt.Sprintf("fetch seats for bus %s: %v", e.BusID, e.Err)
}

func (e *SeatFetchError) Unwrap() error { return e.Err }

// ConflictError reports that some requested seats were taken by another
// booking between selection and submission.  It always carries the seat
// identifiers so the caller can patch local state without a full re-fetch.
type ConflictError struct {
	UnavailableSeatIDs []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("seats no longer available: %s", strings.Join(e.UnavailableSeatIDs, ", "))
}

// RemoteValidationError reports that the booking endpoint rejected the
// payload.  Problems are the endpoint's own messages.
type RemoteValidationError struct {
	Problems []string
}

func (e *RemoteValidationError) Error() string {
	return fmt.Sprintf("booking rejected: %s", strings.Join(e.Problems, "; "))
}

// ServerError wraps a transport or server-side failure from a collaborator.
// The cause is preserved for logging.
type ServerError struct {
	Status int
	Err    error
}

func (e *ServerError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("upstream error (status %d): %v", e.Status, e.Err)
	}
	return fmt.Sprintf("upstream error: %v", e.Err)
}

func (e *ServerError) Unwrap() error { return e.Err }
