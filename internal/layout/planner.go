// Package layout arranges canonical seats into the grid the seat map is
// rendered from.  The planner is pure: identical input always yields an
// identical plan, placeholders included, so unrelated state changes (a
// passenger-name keystroke, a re-render) can never reshuffle the seat map.
package layout

import (
	"fmt"
	"sort"

	"github.com/iliyamo/bus-ticket-booking/internal/model"
)

// Policy describes how rows are shaped.  Most coaches have four seats per
// row split two-and-two around the aisle, with a wider bench at the very
// back; buses with a different body are representable by a different
// Policy value rather than by changing the algorithm.
//
// Fields:
//  RowWidth  – slot count for a regular row.
//  RearWidth – slot count for the rear bench row.
//  RearRow   – explicit rear row number; 0 means "the highest numbered
//              row present in the data".
type Policy struct {
	RowWidth  int
	RearWidth int
	RearRow   int
}

// DefaultPolicy matches the standard 2+2 coach with a five-seat rear bench.
func DefaultPolicy() Policy {
	return Policy{RowWidth: 4, RearWidth: 5}
}

// Row is one planned row of the seat grid.  Seats holds the policy's width
// for the row (more when a mis-fed column overflows it), real seats and
// placeholders mixed.  For a
// regular row, Left and Right are views of the aisle split (columns 1–2 and
// 3–4).  For the rear bench, Left and Right are nil and the slots render as
// singletons with wider spacing.
type Row struct {
	Number int
	Rear   bool
	Seats  []model.Seat
	Left   []model.Seat
	Right  []model.Seat
}

// Plan arranges seats into rows according to the policy.  Seats are grouped
// by row number and slotted by column; when two seats claim the same column
// the earlier one in the input wins.  Columns with no seat are filled with
// placeholders so the grid has no holes.  Rows come back in ascending row
// order.
func Plan(seats []model.Seat, policy Policy) []Row {
	if policy.RowWidth < 1 {
		policy.RowWidth = 4
	}
	if policy.RearWidth < 1 {
		policy.RearWidth = policy.RowWidth
	}

	byRow := make(map[int][]model.Seat)
	for _, s := range seats {
		byRow[s.Row] = append(byRow[s.Row], s)
	}
	numbers := make([]int, 0, len(byRow))
	for n := range byRow {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)

	rear := policy.RearRow
	if rear == 0 && len(numbers) > 0 {
		rear = numbers[len(numbers)-1]
	}

	rows := make([]Row, 0, len(numbers))
	for _, n := range numbers {
		width := policy.RowWidth
		isRear := n == rear
		if isRear {
			width = policy.RearWidth
		}
		rows = append(rows, planRow(n, byRow[n], width, isRear))
	}
	return rows
}

// planRow slots one row's seats into a fixed-width grid and splits regular
// rows around the aisle.  A seat whose column exceeds the policy width is
// mis-fed data; the row widens to hold it rather than hiding a sellable
// seat from the grid.
func planRow(number int, seats []model.Seat, width int, rear bool) Row {
	for _, s := range seats {
		if s.Column > width {
			width = s.Column
		}
	}
	slots := make([]model.Seat, width)
	taken := make([]bool, width)
	for _, s := range seats {
		col := s.Column
		if col < 1 || col > width || taken[col-1] {
			continue
		}
		slots[col-1] = s
		taken[col-1] = true
	}
	for i := range slots {
		if !taken[i] {
			slots[i] = placeholder(number, i+1)
		}
	}
	row := Row{Number: number, Rear: rear, Seats: slots}
	if !rear {
		half := width / 2
		row.Left = slots[:half]
		row.Right = slots[half:]
	}
	return row
}

// placeholder builds the synthetic filler seat for an empty slot.  It is
// permanently unavailable, carries no price and is never persisted.
func placeholder(row, col int) model.Seat {
	return model.Seat{
		ID:            fmt.Sprintf("ph-%d-%d", row, col),
		Row:           row,
		Column:        col,
		Status:        model.StatusUnavailable,
		IsPlaceholder: true,
	}
}
