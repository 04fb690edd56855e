package layout_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/bus-ticket-booking/internal/layout"
	"github.com/iliyamo/bus-ticket-booking/internal/model"
)

func seat(id string, row, col int) model.Seat {
	return model.Seat{ID: id, Number: id, Row: row, Column: col, Status: model.StatusAvailable}
}

// tenSeatBus covers rows 1-3 with gaps: row 1 misses column 3, row 2 is
// full, row 3 (the rear) has seats in columns 1, 3 and 5.
func tenSeatBus() []model.Seat {
	return []model.Seat{
		seat("a1", 1, 1), seat("a2", 1, 2), seat("a4", 1, 4),
		seat("b1", 2, 1), seat("b2", 2, 2), seat("b3", 2, 3), seat("b4", 2, 4),
		seat("r1", 3, 1), seat("r3", 3, 3), seat("r5", 3, 5),
	}
}

func TestPlanShape(t *testing.T) {
	rows := layout.Plan(tenSeatBus(), layout.DefaultPolicy())
	require.Len(t, rows, 3)

	// Regular rows: exactly 4 slots split 2+2 around the aisle.
	for _, r := range rows[:2] {
		assert.False(t, r.Rear)
		require.Len(t, r.Seats, 4)
		require.Len(t, r.Left, 2)
		require.Len(t, r.Right, 2)
	}

	// The highest numbered row is the rear bench: 5 singleton slots.
	rear := rows[2]
	assert.True(t, rear.Rear)
	require.Len(t, rear.Seats, 5)
	assert.Nil(t, rear.Left)
	assert.Nil(t, rear.Right)
}

func TestPlanFillsGapsWithPlaceholders(t *testing.T) {
	rows := layout.Plan(tenSeatBus(), layout.DefaultPolicy())

	// Row 1 column 3 has no seat; the slot must be a placeholder, and a
	// placeholder is always unavailable with no price.
	ph := rows[0].Seats[2]
	assert.True(t, ph.IsPlaceholder)
	assert.Equal(t, model.StatusUnavailable, ph.Status)
	assert.Zero(t, ph.Price)
	assert.Equal(t, 1, ph.Row)
	assert.Equal(t, 3, ph.Column)

	// Rear columns 2 and 4 are gaps too.
	assert.True(t, rows[2].Seats[1].IsPlaceholder)
	assert.True(t, rows[2].Seats[3].IsPlaceholder)
	assert.False(t, rows[2].Seats[4].IsPlaceholder)
}

func TestPlanDeterministic(t *testing.T) {
	first := layout.Plan(tenSeatBus(), layout.DefaultPolicy())
	second := layout.Plan(tenSeatBus(), layout.DefaultPolicy())
	assert.Equal(t, first, second, "identical input must yield identical layout, placeholders included")
}

func TestPlanRowsAscending(t *testing.T) {
	// Feed the rows out of order.
	seats := []model.Seat{seat("c1", 3, 1), seat("a1", 1, 1), seat("b1", 2, 1)}
	rows := layout.Plan(seats, layout.DefaultPolicy())
	require.Len(t, rows, 3)
	assert.Equal(t, 1, rows[0].Number)
	assert.Equal(t, 2, rows[1].Number)
	assert.Equal(t, 3, rows[2].Number)
}

func TestPlanExplicitRearRowPolicy(t *testing.T) {
	// A charter bus whose physical rear is row 2 even though row 3 exists
	// in the feed (e.g. a raised cabin): the policy decides, not the data.
	seats := []model.Seat{seat("a1", 1, 1), seat("b1", 2, 1), seat("c1", 3, 1)}
	rows := layout.Plan(seats, layout.Policy{RowWidth: 4, RearWidth: 5, RearRow: 2})
	require.Len(t, rows, 3)
	assert.False(t, rows[0].Rear)
	assert.True(t, rows[1].Rear)
	require.Len(t, rows[1].Seats, 5)
	assert.False(t, rows[2].Rear)
	require.Len(t, rows[2].Seats, 4)
}

func TestPlanWidensRowForOverflowColumn(t *testing.T) {
	// A feed column beyond the policy width must not vanish from the grid.
	seats := []model.Seat{seat("a1", 1, 1), seat("a6", 1, 6), seat("b1", 2, 1)}
	rows := layout.Plan(seats, layout.DefaultPolicy())
	require.Len(t, rows, 2)

	wide := rows[0]
	require.Len(t, wide.Seats, 6)
	assert.Equal(t, "a6", wide.Seats[5].ID)
	for _, col := range []int{2, 3, 4, 5} {
		assert.True(t, wide.Seats[col-1].IsPlaceholder)
	}
}

func TestPlanDuplicateColumnKeepsFirst(t *testing.T) {
	seats := []model.Seat{seat("first", 1, 1), seat("second", 1, 1)}
	rows := layout.Plan(seats, layout.DefaultPolicy())
	require.Len(t, rows, 1)
	assert.Equal(t, "first", rows[0].Seats[0].ID)
}
