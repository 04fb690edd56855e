// Package catalog normalizes raw seat feeds into canonical seats.  Operator
// feeds are messy: the fare lives under any of several field names, seat
// numbers repeat or go missing, statuses arrive in arbitrary casing and
// spelling, and row/column positions are sometimes absent entirely.  This
// package is the single boundary where all of that is cleaned up; everything
// downstream works with model.Seat and model.SeatStatus only.
package catalog

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/iliyamo/bus-ticket-booking/internal/model"
)

// rowWidth is the assumed physical width used to derive row/column when the
// feed does not carry explicit positions.
const rowWidth = 4

// Number accepts a numeric field that the feed may encode as a JSON number,
// a quoted numeric string, or garbage.  Malformed values decode to zero
// instead of failing the whole seat map; a degraded-but-renderable seat is
// preferred over a hard error.
type Number float64

// UnmarshalJSON implements lenient numeric decoding for Number.
func (n *Number) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	if s == "" {
		*n = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*n = 0
		return nil
	}
	*n = Number(f)
	return nil
}

// RawSeat mirrors one seat record as operator feeds actually deliver it.
// Several fields alias the same concept; Normalize resolves the aliases
// with a fixed precedence.  All numeric fields tolerate string encoding.
//
// Fields:
//  SeatID / SeatNo / Number / SeatNumber – competing seat identifiers.
//  Status / SeatStatus                   – competing status spellings.
//  Price / Fare / SeatFare / Cost        – competing fare fields; the first
//                                          non-zero value wins.
//  Row / Column                          – explicit grid position, often 0.
//  Type                                  – free-form category.
type RawSeat struct {
	SeatID     string `json:"seatId"`
	SeatNo     string `json:"seatNo"`
	Number     string `json:"number"`
	SeatNumber string `json:"seat_number"`
	Status     string `json:"status"`
	SeatStatus string `json:"seat_status"`
	Price      Number `json:"price"`
	Fare       Number `json:"fare"`
	SeatFare   Number `json:"seatFare"`
	Cost       Number `json:"cost"`
	Row        Number `json:"row"`
	Column     Number `json:"column"`
	Type       string `json:"type"`
}

// DecodeRawSeats unmarshals a raw feed payload into RawSeat records.
func DecodeRawSeats(payload []byte) ([]RawSeat, error) {
	var raws []RawSeat
	if err := json.Unmarshal(payload, &raws); err != nil {
		return nil, fmt.Errorf("decode seat payload: %w", err)
	}
	return raws, nil
}

// Normalize converts raw feed records into canonical seats.  It never
// fails: malformed numerics degrade to zero, unknown statuses are carried
// through as non-selectable, and missing positions are derived from the
// record's index assuming a four-seat row.  The output order matches the
// input order, which later drives stable layout planning.
func Normalize(raws []RawSeat) []model.Seat {
	seats := make([]model.Seat, 0, len(raws))
	for i, raw := range raws {
		number := firstNonEmpty(raw.SeatNo, raw.Number, raw.SeatNumber, raw.SeatID)
		if number == "" {
			number = strconv.Itoa(i + 1)
		}
		status, rawStatus := normalizeStatus(firstNonEmpty(raw.Status, raw.SeatStatus))
		row, col := position(raw, i)
		seats = append(seats, model.Seat{
			// The index suffix keeps IDs unique even when the feed
			// repeats or omits seat numbers.
			ID:        fmt.Sprintf("%s-%d", number, i+1),
			Number:    number,
			Row:       row,
			Column:    col,
			Status:    status,
			RawStatus: rawStatus,
			Type:      raw.Type,
			Price:     price(raw),
		})
	}
	return seats
}

// price resolves the fare with fixed alias precedence: price, fare,
// seatFare, cost.  The first positive value wins; negatives clamp to zero.
func price(raw RawSeat) float64 {
	for _, p := range []Number{raw.Price, raw.Fare, raw.SeatFare, raw.Cost} {
		if p > 0 {
			return float64(p)
		}
	}
	return 0
}

// position returns the seat's grid coordinates.  Explicit row/column win
// when both are positive; otherwise the coordinates are derived from the
// 1-based record index against the assumed row width.
func position(raw RawSeat, index int) (row, col int) {
	if raw.Row >= 1 && raw.Column >= 1 {
		return int(raw.Row), int(raw.Column)
	}
	n := index + 1
	return (n + rowWidth - 1) / rowWidth, (n-1)%rowWidth + 1
}

// normalizeStatus maps a raw status string onto the canonical enum.  The
// empty string means the feed gave no signal at all, which is treated as
// available.  Known synonyms for "taken" map onto their closest canonical
// state.  Anything unrecognized is preserved (uppercased) in the second
// return value so callers can render it and refuse selection, rather than
// being silently promoted to available.
func normalizeStatus(s string) (model.SeatStatus, string) {
	up := strings.ToUpper(strings.TrimSpace(s))
	canon := strings.NewReplacer(" ", "_", "-", "_").Replace(up)
	switch canon {
	case "":
		return model.StatusAvailable, ""
	case "AVAILABLE", "FREE", "OPEN":
		return model.StatusAvailable, ""
	case "SELECTED":
		return model.StatusSelected, ""
	case "LOCKED", "HELD", "HOLD":
		return model.StatusLocked, ""
	case "BOOKED", "SOLD", "RESERVED", "OCCUPIED":
		return model.StatusBooked, ""
	case "PAYMENT_PENDING", "PENDING_PAYMENT", "PAYMENTPENDING":
		return model.StatusPaymentPending, ""
	case "PAYMENT_DONE", "PAYMENT_SUCCESS", "PAID":
		return model.StatusPaymentDone, ""
	case "UNAVAILABLE", "BLOCKED", "DISABLED":
		return model.StatusUnavailable, ""
	}
	return model.StatusUnavailable, up
}

// firstNonEmpty returns the first argument that is not blank after
// trimming, or the empty string.
func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if t := strings.TrimSpace(v); t != "" {
			return t
		}
	}
	return ""
}
