package queue

// BookingConfirmedEvent is published when a booking submission is accepted
// by the operator.  It carries enough information for downstream consumers
// to log, notify the contact, or feed analytics without querying anything.
type BookingConfirmedEvent struct {
	BookingID    string   `json:"booking_id"`
	PNR          string   `json:"pnr"`
	SessionID    string   `json:"session_id"`
	BusID        string   `json:"bus_id"`
	SeatNumbers  []string `json:"seats"`
	TotalFare    float64  `json:"total_fare"`
	ContactPhone string   `json:"contact_phone"`
	ConfirmedAt  string   `json:"confirmed_at"`
}
