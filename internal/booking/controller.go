package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/iliyamo/bus-ticket-booking/internal/flight"
	"github.com/iliyamo/bus-ticket-booking/internal/layout"
	"github.com/iliyamo/bus-ticket-booking/internal/model"
	"github.com/iliyamo/bus-ticket-booking/internal/provider"
)

// Controller drives one booking session through the wizard steps
// SEAT_SELECTION -> PASSENGER_DETAILS -> CONFIRMATION.  It exclusively
// owns the selection ledger and the passenger roster for the life of the
// session and keeps them index-aligned across every mutation.  All methods
// are safe for concurrent use; local transitions are atomic under the
// session mutex, and the submission latch guarantees that no session ever
// issues two booking requests.  While a submission is outstanding the
// session is frozen: every mutating entry point answers
// ErrAlreadyInProgress until the submission settles, so the state the
// operator accepted is exactly the state the session confirms.
type Controller struct {
	mu sync.Mutex

	sessionID string
	busID     string
	step      model.Step

	seats []model.Seat   // canonical catalog in feed order
	index map[string]int // seat id -> position in seats

	ledger     *SelectionLedger
	passengers []model.Passenger
	receipt    provider.Receipt

	latch     flight.Latch
	submitter provider.BookingSubmitter
	policy    layout.Policy
}

// NewController starts a fresh session for one bus.  The seats slice is
// the normalized catalog; the controller copies it and owns the copy.
func NewController(sessionID, busID string, seats []model.Seat, submitter provider.BookingSubmitter, policy layout.Policy) *Controller {
	c := &Controller{
		sessionID: sessionID,
		busID:     busID,
		step:      model.StepSeatSelection,
		seats:     make([]model.Seat, len(seats)),
		index:     make(map[string]int, len(seats)),
		ledger:    NewSelectionLedger(),
		submitter: submitter,
		policy:    policy,
	}
	copy(c.seats, seats)
	for i, s := range c.seats {
		c.index[s.ID] = i
	}
	return c
}

// SessionID returns the session identifier.
func (c *Controller) SessionID() string { return c.sessionID }

// BusID returns the bus this session books seats on.
func (c *Controller) BusID() string { return c.busID }

// Step returns the current wizard step.
func (c *Controller) Step() model.Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

// Layout plans the renderable seat grid with the session's selection
// overlaid: seats in the selection render as SELECTED without mutating the
// catalog.  The plan is deterministic for a given catalog and selection.
func (c *Controller) Layout() []layout.Row {
	c.mu.Lock()
	defer c.mu.Unlock()
	view := make([]model.Seat, len(c.seats))
	copy(view, c.seats)
	for i := range view {
		if c.ledger.Contains(view[i].ID) {
			view[i].Status = model.StatusSelected
		}
	}
	return layout.Plan(view, c.policy)
}

// Selection returns the selected seats in click order.
func (c *Controller) Selection() []model.Seat {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ledger.Seats()
}

// Passengers returns a copy of the roster in selection order.
func (c *Controller) Passengers() []model.Passenger {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Passenger, len(c.passengers))
	copy(out, c.passengers)
	return out
}

// TotalFare sums the fares of the current selection.
func (c *Controller) TotalFare() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ledger.TotalFare()
}

// Receipt returns the booking receipt once the session reached
// CONFIRMATION; the zero Receipt before that.
func (c *Controller) Receipt() provider.Receipt {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.receipt
}

// InFlight reports whether a booking submission is currently outstanding.
func (c *Controller) InFlight() bool {
	return c.latch.InFlight()
}

// ToggleSeat flips the seat with the given id in or out of the selection
// and reports whether anything changed.  Clicks on unknown ids,
// placeholders or seats whose status has since turned non-selectable are
// silent no-ops.  Toggling is only meaningful during seat selection; the
// roster is reconciled immediately so it never drifts from the selection.
func (c *Controller) ToggleSeat(seatID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.step != model.StepSeatSelection || c.latch.InFlight() {
		return false
	}
	i, ok := c.index[seatID]
	if !ok {
		return false
	}
	changed := c.ledger.Toggle(c.seats[i])
	if changed {
		c.passengers = Reconcile(c.ledger.Seats(), c.passengers)
	}
	return changed
}

// RemoveAt removes the selection entry and the passenger record at the
// given index as one operation, shifting the tail down on both sides.
// Removing only one side would break the index alignment the whole wizard
// depends on.
func (c *Controller) RemoveAt(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.step == model.StepConfirmation {
		return fmt.Errorf("%w: session already confirmed", ErrWrongStep)
	}
	if c.latch.InFlight() {
		return ErrAlreadyInProgress
	}
	if !c.ledger.RemoveAt(index) {
		return ErrIndexOutOfRange
	}
	c.passengers = append(c.passengers[:index], c.passengers[index+1:]...)
	c.passengers = Reconcile(c.ledger.Seats(), c.passengers)
	return nil
}

// UpdatePassenger mutates a single field of the passenger at index.
func (c *Controller) UpdatePassenger(index int, field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.step != model.StepPassengerDetails {
		return fmt.Errorf("%w: passenger details are edited after seats are confirmed", ErrWrongStep)
	}
	if c.latch.InFlight() {
		return ErrAlreadyInProgress
	}
	if index < 0 || index >= len(c.passengers) {
		return ErrIndexOutOfRange
	}
	return SetPassengerField(&c.passengers[index], field, value)
}

// ConfirmSeats advances from seat selection to passenger details.  The
// roster is padded (or trimmed) to match the selection.  An empty
// selection is refused.
func (c *Controller) ConfirmSeats() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.step != model.StepSeatSelection {
		return fmt.Errorf("%w: seats are confirmed from seat selection", ErrWrongStep)
	}
	if c.ledger.Len() == 0 {
		return ErrEmptySelection
	}
	c.passengers = Reconcile(c.ledger.Seats(), c.passengers)
	c.step = model.StepPassengerDetails
	return nil
}

// Back steps the wizard one step towards seat selection.  Passenger data
// is retained so re-entering the details step does not lose input.  From
// seat selection there is no earlier step and ErrExitSession tells the
// caller to end the session.  CONFIRMATION is terminal, and a session
// with a submission outstanding cannot regress out from under it.
func (c *Controller) Back() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.latch.InFlight() {
		return ErrAlreadyInProgress
	}
	switch c.step {
	case model.StepPassengerDetails:
		c.step = model.StepSeatSelection
		return nil
	case model.StepSeatSelection:
		return ErrExitSession
	default:
		return fmt.Errorf("%w: session already confirmed", ErrWrongStep)
	}
}

// ConfirmPassengers validates the roster and submits the booking, moving
// to CONFIRMATION only after the submitter succeeds.  The submission latch
// is checked-and-set atomically, so double clicks, re-renders and retries
// can never produce a second request while one is outstanding; the loser
// observes ErrAlreadyInProgress, and so does every other mutating call
// until the submission settles.  The latch is released on every outcome
// so a failed submission is retryable.  A conflict from the submitter
// patches the offending seats to BOOKED locally, drops them from the
// selection and keeps the session at PASSENGER_DETAILS with the typed
// error returned to the caller.
func (c *Controller) ConfirmPassengers(ctx context.Context) (provider.Receipt, error) {
	c.mu.Lock()
	if c.step != model.StepPassengerDetails {
		c.mu.Unlock()
		return provider.Receipt{}, fmt.Errorf("%w: passengers are confirmed from passenger details", ErrWrongStep)
	}
	c.passengers = Reconcile(c.ledger.Seats(), c.passengers)
	if verr := ValidateRoster(c.passengers); verr != nil {
		c.mu.Unlock()
		return provider.Receipt{}, verr
	}
	if !c.latch.TryAcquire() {
		c.mu.Unlock()
		return provider.Receipt{}, ErrAlreadyInProgress
	}
	payload := c.payloadLocked()
	// The network call runs outside the session mutex so a concurrent
	// ConfirmPassengers fails fast on the latch instead of queueing a
	// second submission behind the lock.
	c.mu.Unlock()

	rec, err := c.submitter.Submit(ctx, payload)

	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.latch.Release()

	if err != nil {
		var conflict *provider.ConflictError
		if errors.As(err, &conflict) {
			c.applyConflictLocked(conflict.UnavailableSeatIDs)
		}
		return provider.Receipt{}, err
	}

	// Patch exactly the seats the operator accepted, captured in the
	// payload before the mutex was released.
	for _, id := range payload.SeatIDs {
		c.patchStatusLocked(id, model.StatusBooked)
	}
	c.receipt = rec
	c.step = model.StepConfirmation
	return rec, nil
}

// Snapshot captures step, selection and passengers for the persistence
// boundary.  Latch state and caches are process concerns and never leave
// the controller.
func (c *Controller) Snapshot() model.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	passengers := make([]model.Passenger, len(c.passengers))
	copy(passengers, c.passengers)
	return model.Snapshot{
		BusID:      c.busID,
		Step:       c.step,
		Selection:  c.ledger.Seats(),
		Passengers: passengers,
	}
}

// Restore resumes a session from a snapshot taken earlier.  Selected seats
// are re-validated against the current catalog: a seat that was taken in
// the meantime is dropped, and if that empties the selection the session
// regresses to seat selection.
func (c *Controller) Restore(snap model.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ledger.Clear()
	for _, s := range snap.Selection {
		if i, ok := c.index[s.ID]; ok {
			c.ledger.Toggle(c.seats[i])
		}
	}
	c.passengers = Reconcile(c.ledger.Seats(), snap.Passengers)
	c.step = snap.Step
	if c.ledger.Len() == 0 && c.step != model.StepSeatSelection {
		c.step = model.StepSeatSelection
	}
}

// Reset returns the session to an empty seat-selection state.  Like every
// other mutation it is refused while a submission is outstanding: the
// settling submission must not find the session it booked torn down.
func (c *Controller) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.latch.InFlight() {
		return ErrAlreadyInProgress
	}
	c.ledger.Clear()
	c.passengers = nil
	c.receipt = provider.Receipt{}
	c.step = model.StepSeatSelection
	return nil
}

// payloadLocked builds the submission payload.  Caller holds the mutex.
func (c *Controller) payloadLocked() provider.BookingPayload {
	seats := c.ledger.Seats()
	ids := make([]string, 0, len(seats))
	numbers := make([]string, 0, len(seats))
	for _, s := range seats {
		ids = append(ids, s.ID)
		numbers = append(numbers, s.Number)
	}
	passengers := make([]model.Passenger, len(c.passengers))
	copy(passengers, c.passengers)
	var contact string
	if len(passengers) > 0 {
		contact = passengers[0].PhoneNumber
	}
	return provider.BookingPayload{
		SessionID:    c.sessionID,
		BusID:        c.busID,
		SeatIDs:      ids,
		SeatNumbers:  numbers,
		Passengers:   passengers,
		TotalFare:    c.ledger.TotalFare(),
		ContactPhone: contact,
	}
}

// applyConflictLocked patches seats reported unavailable by the submitter
// so the UI reflects reality without a re-fetch, and drops them from the
// selection.  Caller holds the mutex.
func (c *Controller) applyConflictLocked(ids []string) {
	for _, id := range ids {
		c.patchStatusLocked(id, model.StatusBooked)
		c.ledger.Remove(id)
	}
	c.passengers = Reconcile(c.ledger.Seats(), c.passengers)
}

// patchStatusLocked updates one catalog seat's status in place.
func (c *Controller) patchStatusLocked(id string, status model.SeatStatus) {
	if i, ok := c.index[id]; ok {
		c.seats[i].Status = status
	}
}
