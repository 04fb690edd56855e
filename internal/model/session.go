package model

// Step identifies the wizard stage a booking session is in.  The machine
// only ever moves SEAT_SELECTION -> PASSENGER_DETAILS -> CONFIRMATION;
// a conflict during submission keeps it at PASSENGER_DETAILS, and a new
// session starts a fresh machine.
type Step string

const (
	StepSeatSelection    Step = "SEAT_SELECTION"
	StepPassengerDetails Step = "PASSENGER_DETAILS"
	StepConfirmation     Step = "CONFIRMATION"
)

// Snapshot is the persistable view of a booking session used by the
// hosting layer to resume a session across page reloads or service
// restarts.  It carries step, selection and passengers only; the
// submission latch and any cache internals are process state and are
// deliberately absent.
type Snapshot struct {
	BusID      string      `json:"bus_id"`
	Step       Step        `json:"step"`
	Selection  []Seat      `json:"selection"`
	Passengers []Passenger `json:"passengers"`
}

// RouteData is the reference data served by the search flow: the lists of
// boarding and destination points the operator currently services.
type RouteData struct {
	Sources      []string `json:"sources"`
	Destinations []string `json:"destinations"`
}
