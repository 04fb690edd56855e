package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bus-ticket-booking/internal/booking"
	"github.com/iliyamo/bus-ticket-booking/internal/catalog"
	"github.com/iliyamo/bus-ticket-booking/internal/layout"
	"github.com/iliyamo/bus-ticket-booking/internal/model"
	"github.com/iliyamo/bus-ticket-booking/internal/provider"
	"github.com/iliyamo/bus-ticket-booking/internal/queue"
	"github.com/iliyamo/bus-ticket-booking/internal/repository"
	queue_publisher "github.com/iliyamo/bus-ticket-booking/internal/service"
	"github.com/iliyamo/bus-ticket-booking/internal/utils"
)

// SessionHandler exposes the booking wizard over HTTP.  It owns the
// process-wide session registry and wires the session controller to its
// collaborators: the seat feed, the booking submitter and (optionally)
// the snapshot store that lets sessions survive a restart.  All wizard
// routes except session creation run behind the session-token middleware,
// so handlers read the session id from the request context.
type SessionHandler struct {
	Registry  *booking.Registry
	Seats     provider.SeatDetailProvider
	Submitter provider.BookingSubmitter
	Snapshots *repository.SnapshotRepo // optional; nil disables persistence
	Bookings  *repository.BookingRepo  // optional; nil disables receipts
	Policy    layout.Policy

	Secret     string // session token signing secret
	TTLMin     int    // session token TTL in minutes
	Production bool   // disables the placeholder seat map fallback
}

// NewSessionHandler constructs a SessionHandler.  Registry, seat provider
// and submitter must be non-nil; the repositories may be nil.
func NewSessionHandler(reg *booking.Registry, seats provider.SeatDetailProvider, submitter provider.BookingSubmitter, snapshots *repository.SnapshotRepo, bookings *repository.BookingRepo, policy layout.Policy, secret string, ttlMin int, production bool) *SessionHandler {
	if reg == nil || seats == nil || submitter == nil {
		panic("nil dependency passed to NewSessionHandler")
	}
	return &SessionHandler{
		Registry:   reg,
		Seats:      seats,
		Submitter:  submitter,
		Snapshots:  snapshots,
		Bookings:   bookings,
		Policy:     policy,
		Secret:     secret,
		TTLMin:     ttlMin,
		Production: production,
	}
}

// CreateSession handles POST /v1/sessions.  It fetches and normalizes the
// seat feed for the requested bus, starts a fresh session and returns the
// session token together with the planned seat layout.  Outside
// production, a failing feed falls back to a generated placeholder map so
// the wizard stays usable without the operator API.
func (h *SessionHandler) CreateSession(c echo.Context) error {
	var body struct {
		BusID string `json:"bus_id"`
	}
	if err := c.Bind(&body); err != nil || body.BusID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "bus_id is required"})
	}

	seats, err := h.loadSeats(c.Request().Context(), body.BusID)
	if err != nil {
		log.Printf("seat fetch failed for bus %s: %v", body.BusID, err)
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "failed to load seat map"})
	}

	sessionID := uuid.NewString()
	ctrl := booking.NewController(sessionID, body.BusID, seats, h.Submitter, h.Policy)
	h.Registry.Put(ctrl)

	tok, err := utils.NewSessionToken(h.Secret, sessionID, body.BusID, h.TTLMin)
	if err != nil {
		h.Registry.Delete(sessionID)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to issue session token"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"session_token": tok.Token,
		"expires_at":    tok.Exp.Format(time.RFC3339),
		"step":          ctrl.Step(),
		"layout":        ctrl.Layout(),
	})
}

// GetSession handles GET /v1/sessions/current.  It returns the full wizard
// view: step, seat layout with the selection overlaid, selected seats,
// passengers and the running fare.  When the process restarted since the
// session was created, the session is resumed from its stored snapshot.
func (h *SessionHandler) GetSession(c echo.Context) error {
	ctrl, errResp := h.resolve(c)
	if ctrl == nil {
		return errResp
	}
	return c.JSON(http.StatusOK, h.sessionView(ctrl))
}

// ToggleSeat handles POST /v1/sessions/current/seats/toggle.  It flips one
// seat in or out of the selection.  A click on a seat that is no longer
// selectable is not an error: the response simply reports changed=false
// with the unchanged selection, matching the advisory nature of the seat
// map.
func (h *SessionHandler) ToggleSeat(c echo.Context) error {
	ctrl, errResp := h.resolve(c)
	if ctrl == nil {
		return errResp
	}
	var body struct {
		SeatID string `json:"seat_id"`
	}
	if err := c.Bind(&body); err != nil || body.SeatID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_id is required"})
	}
	changed := ctrl.ToggleSeat(body.SeatID)
	if changed {
		h.persist(c.Request().Context(), ctrl)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"changed":    changed,
		"selection":  ctrl.Selection(),
		"total_fare": ctrl.TotalFare(),
	})
}

// RemovePassenger handles DELETE /v1/sessions/current/passengers/:index.
// It removes the passenger and its seat together so the index alignment
// between roster and selection is preserved; later passengers shift down.
func (h *SessionHandler) RemovePassenger(c echo.Context) error {
	ctrl, errResp := h.resolve(c)
	if ctrl == nil {
		return errResp
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid passenger index"})
	}
	if err := ctrl.RemoveAt(index); err != nil {
		if errors.Is(err, booking.ErrIndexOutOfRange) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no passenger at index"})
		}
		if errors.Is(err, booking.ErrAlreadyInProgress) {
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error(), "in_progress": true})
		}
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	}
	h.persist(c.Request().Context(), ctrl)
	return c.JSON(http.StatusOK, h.sessionView(ctrl))
}

// UpdatePassenger handles PATCH /v1/sessions/current/passengers/:index.
// The body names a single field and its new value; other fields are left
// untouched.  Validation is deferred to the confirm step, so partial
// input is accepted here.
func (h *SessionHandler) UpdatePassenger(c echo.Context) error {
	ctrl, errResp := h.resolve(c)
	if ctrl == nil {
		return errResp
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid passenger index"})
	}
	var body struct {
		Field string `json:"field"`
		Value string `json:"value"`
	}
	if err := c.Bind(&body); err != nil || body.Field == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "field is required"})
	}
	if err := ctrl.UpdatePassenger(index, body.Field, body.Value); err != nil {
		switch {
		case errors.Is(err, booking.ErrIndexOutOfRange):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no passenger at index"})
		case errors.Is(err, booking.ErrWrongStep):
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
		case errors.Is(err, booking.ErrAlreadyInProgress):
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error(), "in_progress": true})
		default:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
	}
	h.persist(c.Request().Context(), ctrl)
	return c.JSON(http.StatusOK, echo.Map{"passengers": ctrl.Passengers()})
}

// ConfirmSeats handles POST /v1/sessions/current/confirm-seats.  It moves
// the wizard to passenger details, padding the roster to the selection.
// An empty selection returns 400.
func (h *SessionHandler) ConfirmSeats(c echo.Context) error {
	ctrl, errResp := h.resolve(c)
	if ctrl == nil {
		return errResp
	}
	if err := ctrl.ConfirmSeats(); err != nil {
		if errors.Is(err, booking.ErrEmptySelection) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "select at least one seat"})
		}
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	}
	h.persist(c.Request().Context(), ctrl)
	return c.JSON(http.StatusOK, h.sessionView(ctrl))
}

// Back handles POST /v1/sessions/current/back.  From passenger details it
// returns to seat selection with passenger data retained.  From seat
// selection it ends the session entirely and the client starts over.
func (h *SessionHandler) Back(c echo.Context) error {
	ctrl, errResp := h.resolve(c)
	if ctrl == nil {
		return errResp
	}
	if err := ctrl.Back(); err != nil {
		if errors.Is(err, booking.ErrExitSession) {
			h.teardown(c.Request().Context(), ctrl.SessionID())
			return c.JSON(http.StatusOK, echo.Map{"ended": true})
		}
		if errors.Is(err, booking.ErrAlreadyInProgress) {
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error(), "in_progress": true})
		}
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	}
	h.persist(c.Request().Context(), ctrl)
	return c.JSON(http.StatusOK, h.sessionView(ctrl))
}

// ConfirmPassengers handles POST /v1/sessions/current/confirm-passengers.
// It validates the roster and submits the booking exactly once.
// Responses:
//   201 – booking accepted; body carries booking_id and pnr.
//   400 – validation failed; body lists every field problem.
//   409 – either some seats were taken (body carries "unavailable" ids and
//         the refreshed layout) or a submission is already in flight
//         (body carries in_progress=true).
//   502 – the operator API failed; the session is unchanged and the
//         client may retry.
func (h *SessionHandler) ConfirmPassengers(c echo.Context) error {
	ctrl, errResp := h.resolve(c)
	if ctrl == nil {
		return errResp
	}
	rec, err := ctrl.ConfirmPassengers(c.Request().Context())
	if err != nil {
		var verr *booking.ValidationError
		var conflict *provider.ConflictError
		var remote *provider.RemoteValidationError
		switch {
		case errors.As(err, &verr):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid passenger details", "fields": verr.Fields})
		case errors.Is(err, booking.ErrAlreadyInProgress):
			return c.JSON(http.StatusConflict, echo.Map{"error": "a submission is already in progress", "in_progress": true})
		case errors.As(err, &conflict):
			h.persist(c.Request().Context(), ctrl)
			return c.JSON(http.StatusConflict, echo.Map{
				"error":       "some seats are no longer available",
				"unavailable": conflict.UnavailableSeatIDs,
				"layout":      ctrl.Layout(),
				"selection":   ctrl.Selection(),
			})
		case errors.As(err, &remote):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": remote.Error()})
		case errors.Is(err, booking.ErrWrongStep):
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
		default:
			log.Printf("booking submission failed for session %s: %v", ctrl.SessionID(), err)
			return c.JSON(http.StatusBadGateway, echo.Map{"error": "booking submission failed, please retry"})
		}
	}

	h.recordBooking(ctrl, rec)
	return c.JSON(http.StatusCreated, echo.Map{
		"booking_id": rec.BookingID,
		"pnr":        rec.PNR,
		"step":       ctrl.Step(),
	})
}

// DeleteSession handles DELETE /v1/sessions/current.  It destroys the
// session and its stored snapshot.  A session with a submission
// outstanding is not deletable until the submission settles.
func (h *SessionHandler) DeleteSession(c echo.Context) error {
	ctrl, errResp := h.resolve(c)
	if ctrl == nil {
		return errResp
	}
	if ctrl.InFlight() {
		return c.JSON(http.StatusConflict, echo.Map{"error": "a submission is already in progress", "in_progress": true})
	}
	h.teardown(c.Request().Context(), ctrl.SessionID())
	return c.NoContent(http.StatusNoContent)
}

// loadSeats fetches and normalizes the seat feed, with the placeholder
// fallback outside production.
func (h *SessionHandler) loadSeats(ctx context.Context, busID string) ([]model.Seat, error) {
	raws, err := h.Seats.Fetch(ctx, busID)
	if err != nil {
		if h.Production {
			return nil, err
		}
		log.Printf("seat fetch failed for bus %s, using placeholder map: %v", busID, err)
		raws = provider.PlaceholderSeatMap(busID)
	}
	return catalog.Normalize(raws), nil
}

// resolve finds the controller for the request's session id, resuming it
// from the snapshot store when the process restarted.  On failure it
// responds itself and returns a nil controller with the response error.
func (h *SessionHandler) resolve(c echo.Context) (*booking.Controller, error) {
	sessionID, ok := c.Get("session_id").(string)
	if !ok || sessionID == "" {
		return nil, c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if ctrl, ok := h.Registry.Get(sessionID); ok {
		return ctrl, nil
	}
	if h.Snapshots == nil {
		return nil, c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
	}
	snap, err := h.Snapshots.Load(c.Request().Context(), sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrSnapshotNotFound) {
			return nil, c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
		}
		return nil, c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load session"})
	}
	seats, err := h.loadSeats(c.Request().Context(), snap.BusID)
	if err != nil {
		return nil, c.JSON(http.StatusBadGateway, echo.Map{"error": "failed to load seat map"})
	}
	ctrl := booking.NewController(sessionID, snap.BusID, seats, h.Submitter, h.Policy)
	ctrl.Restore(snap)
	h.Registry.Put(ctrl)
	return ctrl, nil
}

// persist saves the session snapshot best-effort; persistence failures
// must never fail the wizard request.
func (h *SessionHandler) persist(ctx context.Context, ctrl *booking.Controller) {
	if h.Snapshots == nil {
		return
	}
	if err := h.Snapshots.Save(ctx, ctrl.SessionID(), ctrl.Snapshot()); err != nil {
		log.Printf("snapshot save failed for session %s: %v", ctrl.SessionID(), err)
	}
}

// teardown removes a session from the registry and the snapshot store.
func (h *SessionHandler) teardown(ctx context.Context, sessionID string) {
	h.Registry.Delete(sessionID)
	if h.Snapshots != nil {
		if err := h.Snapshots.Delete(ctx, sessionID); err != nil {
			log.Printf("snapshot delete failed for session %s: %v", sessionID, err)
		}
	}
}

// recordBooking writes the durable receipt and publishes the confirmation
// event.  Both are best-effort: the operator already committed the
// booking, so local bookkeeping failures are logged and swallowed.
func (h *SessionHandler) recordBooking(ctrl *booking.Controller, rec provider.Receipt) {
	selection := ctrl.Selection()
	numbers := make([]string, 0, len(selection))
	for _, s := range selection {
		numbers = append(numbers, s.Number)
	}
	passengers := ctrl.Passengers()
	var contact string
	if len(passengers) > 0 {
		contact = passengers[0].PhoneNumber
	}

	if h.Bookings != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.Bookings.Create(ctx, repository.BookingRecord{
			BookingID:   rec.BookingID,
			PNR:         rec.PNR,
			SessionID:   ctrl.SessionID(),
			BusID:       ctrl.BusID(),
			SeatNumbers: numbers,
			TotalFare:   ctrl.TotalFare(),
			Contact:     contact,
		}); err != nil {
			log.Printf("booking record insert failed for %s: %v", rec.BookingID, err)
		}
	}

	go func() {
		_ = queue_publisher.PublishBookingConfirmed(context.Background(), queue.BookingConfirmedEvent{
			BookingID:    rec.BookingID,
			PNR:          rec.PNR,
			SessionID:    ctrl.SessionID(),
			BusID:        ctrl.BusID(),
			SeatNumbers:  numbers,
			TotalFare:    ctrl.TotalFare(),
			ContactPhone: contact,
			ConfirmedAt:  time.Now().UTC().Format(time.RFC3339),
		})
	}()
}

// sessionView builds the standard wizard response body.
func (h *SessionHandler) sessionView(ctrl *booking.Controller) echo.Map {
	return echo.Map{
		"bus_id":     ctrl.BusID(),
		"step":       ctrl.Step(),
		"layout":     ctrl.Layout(),
		"selection":  ctrl.Selection(),
		"passengers": ctrl.Passengers(),
		"total_fare": ctrl.TotalFare(),
	}
}
