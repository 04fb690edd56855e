package provider

import (
	"strconv"

	"github.com/iliyamo/bus-ticket-booking/internal/catalog"
)

// PlaceholderSeatMap generates a deterministic 40-seat feed for local
// development when the operator API is unreachable.  The map is only used
// in non-production configuration; production seat fetch failures surface
// as errors instead.  Every seventh seat is pre-booked and every fifth is
// locked so the selection rules are exercised without a live feed.
func PlaceholderSeatMap(busID string) []catalog.RawSeat {
	raws := make([]catalog.RawSeat, 0, 40)
	for i := 1; i <= 40; i++ {
		status := "AVAILABLE"
		switch {
		case i%7 == 0:
			status = "BOOKED"
		case i%5 == 0:
			status = "LOCKED"
		}
		seatType := "AISLE"
		if i%4 == 1 || i%4 == 0 {
			seatType = "WINDOW"
		}
		fare := 550.0
		if seatType == "WINDOW" {
			fare = 600.0
		}
		raws = append(raws, catalog.RawSeat{
			SeatNo: strconv.Itoa(i),
			Status: status,
			Type:   seatType,
			Price:  catalog.Number(fare),
		})
	}
	return raws
}
