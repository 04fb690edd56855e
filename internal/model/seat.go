package model

// SeatStatus is the canonical life-cycle state of a seat.  Raw feeds spell
// these values inconsistently ("Payment Done", "payment_pending", "Booked");
// the catalog package is the single place where raw strings are mapped onto
// this closed set.  Downstream code matches on the enum, never on raw text.
type SeatStatus string

const (
	StatusAvailable      SeatStatus = "AVAILABLE"       // free for selection
	StatusSelected       SeatStatus = "SELECTED"        // selected in the current session
	StatusLocked         SeatStatus = "LOCKED"          // held by another session
	StatusBooked         SeatStatus = "BOOKED"          // sold
	StatusPaymentPending SeatStatus = "PAYMENT_PENDING" // payment initiated but not settled
	StatusPaymentDone    SeatStatus = "PAYMENT_DONE"    // payment settled, ticket not yet issued
	StatusUnavailable    SeatStatus = "UNAVAILABLE"     // structurally unavailable (blocked, broken, placeholder)
)

// Selectable reports whether a seat in this status may enter a selection.
// Only AVAILABLE seats can be newly selected; SELECTED seats may be toggled
// back off.  Every other status rejects the click.
func (s SeatStatus) Selectable() bool {
	return s == StatusAvailable || s == StatusSelected
}

// Seat is the canonical seat entity produced by catalog.Normalize.  Exactly
// one Status applies at any time.  Placeholder seats are synthetic grid
// fillers created by the layout planner: they are always UNAVAILABLE, carry
// no price and are never persisted or selectable.
//
// Fields:
//  ID            – stable identifier, unique within one bus.
//  Number        – display label shown on the seat (e.g. "12", "L5").
//  Row           – positive row number, 1-based from the front.
//  Column        – positive column number, 1-based within its row.
//  Status        – canonical status enum.
//  RawStatus     – uppercased source string when it did not map onto the
//                  enum; empty for recognized statuses.
//  Type          – free-form category (window, aisle, sleeper, ...).
//  Price         – non-negative fare for this seat.
//  IsPlaceholder – true only for synthetic gap fillers.
type Seat struct {
	ID            string
	Number        string
	Row           int
	Column        int
	Status        SeatStatus
	RawStatus     string
	Type          string
	Price         float64
	IsPlaceholder bool
}

// Selectable reports whether this seat may be toggled into a selection.
// Placeholders are never selectable regardless of status, and a seat whose
// raw status did not normalize is treated as taken.
func (s Seat) Selectable() bool {
	return !s.IsPlaceholder && s.RawStatus == "" && s.Status.Selectable()
}
