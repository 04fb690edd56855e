package booking

import "github.com/iliyamo/bus-ticket-booking/internal/model"

// SelectionLedger tracks the seats selected in one session.  The selection
// is a map keyed by seat id with an ordered id list alongside it: the map
// makes membership and removal cheap, the list preserves click order,
// which is significant because passenger records align to it by index.
// The ledger is not safe for concurrent use; the owning controller
// serializes access.
type SelectionLedger struct {
	order []string
	seats map[string]model.Seat
}

// NewSelectionLedger returns an empty ledger.
func NewSelectionLedger() *SelectionLedger {
	return &SelectionLedger{seats: make(map[string]model.Seat)}
}

// Toggle flips a seat in or out of the selection and reports whether the
// selection changed.  A placeholder or a seat whose status is outside
// {AVAILABLE, SELECTED} is a silent no-op: stale clicks against refreshed
// data are an expected race, not an error.  Newly selected seats are
// stored with status SELECTED; insertion order is never re-sorted.
func (l *SelectionLedger) Toggle(seat model.Seat) bool {
	if _, ok := l.seats[seat.ID]; ok {
		return l.Remove(seat.ID)
	}
	if !seat.Selectable() {
		return false
	}
	seat.Status = model.StatusSelected
	l.seats[seat.ID] = seat
	l.order = append(l.order, seat.ID)
	return true
}

// Remove drops a seat from the selection by id, shifting later seats down.
// It reports whether the seat was present.
func (l *SelectionLedger) Remove(id string) bool {
	if _, ok := l.seats[id]; !ok {
		return false
	}
	delete(l.seats, id)
	for i, sid := range l.order {
		if sid == id {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
	return true
}

// RemoveAt drops the seat at the given selection index.
func (l *SelectionLedger) RemoveAt(index int) bool {
	if index < 0 || index >= len(l.order) {
		return false
	}
	return l.Remove(l.order[index])
}

// Contains reports whether the seat id is currently selected.
func (l *SelectionLedger) Contains(id string) bool {
	_, ok := l.seats[id]
	return ok
}

// Seats returns the selection in insertion order.
func (l *SelectionLedger) Seats() []model.Seat {
	out := make([]model.Seat, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.seats[id])
	}
	return out
}

// IDs returns the selected seat ids in insertion order.
func (l *SelectionLedger) IDs() []string {
	out := make([]string, len(l.order))
	copy(out, l.order)
	return out
}

// Len returns the number of selected seats.
func (l *SelectionLedger) Len() int { return len(l.order) }

// TotalFare sums the fares of the selected seats.
func (l *SelectionLedger) TotalFare() float64 {
	var total float64
	for _, id := range l.order {
		total += l.seats[id].Price
	}
	return total
}

// Clear empties the selection.  Used on session reset and after a
// successful booking.
func (l *SelectionLedger) Clear() {
	l.order = nil
	l.seats = make(map[string]model.Seat)
}
