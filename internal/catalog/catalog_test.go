package catalog_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/bus-ticket-booking/internal/catalog"
	"github.com/iliyamo/bus-ticket-booking/internal/model"
)

func TestNumberLenientDecoding(t *testing.T) {
	var payload struct {
		A catalog.Number `json:"a"`
		B catalog.Number `json:"b"`
		C catalog.Number `json:"c"`
		D catalog.Number `json:"d"`
	}
	err := json.Unmarshal([]byte(`{"a": 550, "b": "600.5", "c": "not a price", "d": null}`), &payload)
	require.NoError(t, err)
	assert.Equal(t, catalog.Number(550), payload.A)
	assert.Equal(t, catalog.Number(600.5), payload.B)
	assert.Zero(t, payload.C, "garbage degrades to zero instead of failing")
	assert.Zero(t, payload.D)
}

func TestNormalizePriceAliases(t *testing.T) {
	tests := []struct {
		name string
		raw  catalog.RawSeat
		want float64
	}{
		{"price wins over fare", catalog.RawSeat{Price: 550, Fare: 600}, 550},
		{"fare when price absent", catalog.RawSeat{Fare: 600}, 600},
		{"seatFare third", catalog.RawSeat{SeatFare: 450}, 450},
		{"cost last", catalog.RawSeat{Cost: 700}, 700},
		{"all absent", catalog.RawSeat{}, 0},
		{"negative clamps to zero", catalog.RawSeat{Price: -10}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seats := catalog.Normalize([]catalog.RawSeat{tt.raw})
			require.Len(t, seats, 1)
			assert.Equal(t, tt.want, seats[0].Price)
		})
	}
}

func TestNormalizeStableIDs(t *testing.T) {
	// The feed repeats seat number "7" and omits one number entirely;
	// IDs must still be unique.
	raws := []catalog.RawSeat{
		{SeatNo: "7"},
		{SeatNo: "7"},
		{},
	}
	seats := catalog.Normalize(raws)
	require.Len(t, seats, 3)
	assert.Equal(t, "7-1", seats[0].ID)
	assert.Equal(t, "7-2", seats[1].ID)
	assert.Equal(t, "3-3", seats[2].ID, "missing number falls back to the positional index")

	ids := map[string]bool{}
	for _, s := range seats {
		assert.False(t, ids[s.ID], "duplicate id %s", s.ID)
		ids[s.ID] = true
	}
}

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		in         string
		wantStatus model.SeatStatus
		wantRaw    string
	}{
		{"", model.StatusAvailable, ""},
		{"available", model.StatusAvailable, ""},
		{"Booked", model.StatusBooked, ""},
		{"SOLD", model.StatusBooked, ""},
		{"held", model.StatusLocked, ""},
		{"Payment Pending", model.StatusPaymentPending, ""},
		{"payment-pending", model.StatusPaymentPending, ""},
		{"PENDING PAYMENT", model.StatusPaymentPending, ""},
		{"Payment Done", model.StatusPaymentDone, ""},
		{"blocked", model.StatusUnavailable, ""},
		{"LADIES ONLY", model.StatusUnavailable, "LADIES ONLY"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			seats := catalog.Normalize([]catalog.RawSeat{{SeatNo: "1", Status: tt.in}})
			require.Len(t, seats, 1)
			assert.Equal(t, tt.wantStatus, seats[0].Status)
			assert.Equal(t, tt.wantRaw, seats[0].RawStatus)
			if tt.wantRaw != "" {
				assert.False(t, seats[0].Selectable(), "unrecognized status must not be selectable")
			}
		})
	}
}

func TestNormalizeDerivedPositions(t *testing.T) {
	raws := make([]catalog.RawSeat, 9)
	seats := catalog.Normalize(raws)
	require.Len(t, seats, 9)

	// rowWidth=4: seats 1-4 row 1, 5-8 row 2, 9 row 3 column 1.
	assert.Equal(t, 1, seats[0].Row)
	assert.Equal(t, 1, seats[0].Column)
	assert.Equal(t, 1, seats[3].Row)
	assert.Equal(t, 4, seats[3].Column)
	assert.Equal(t, 2, seats[4].Row)
	assert.Equal(t, 1, seats[4].Column)
	assert.Equal(t, 3, seats[8].Row)
	assert.Equal(t, 1, seats[8].Column)
}

func TestNormalizeExplicitPositionsWin(t *testing.T) {
	seats := catalog.Normalize([]catalog.RawSeat{{SeatNo: "12", Row: 3, Column: 2}})
	require.Len(t, seats, 1)
	assert.Equal(t, 3, seats[0].Row)
	assert.Equal(t, 2, seats[0].Column)
}
