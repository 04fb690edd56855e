package booking_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/bus-ticket-booking/internal/booking"
	"github.com/iliyamo/bus-ticket-booking/internal/model"
)

func TestReconcileAlwaysMatchesSelectionLength(t *testing.T) {
	selection := []model.Seat{availableSeat("a", 100), availableSeat("b", 100)}

	tests := []struct {
		name       string
		passengers []model.Passenger
	}{
		{"from empty", nil},
		{"growing", []model.Passenger{{Name: "Asha"}}},
		{"exact", []model.Passenger{{Name: "Asha"}, {Name: "Ravi"}}},
		{"shrinking", []model.Passenger{{Name: "Asha"}, {Name: "Ravi"}, {Name: "Maya"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := booking.Reconcile(selection, tt.passengers)
			require.Len(t, out, len(selection))
			// Existing records survive in place; padding is blank with
			// the default gender.
			if len(tt.passengers) > 0 {
				assert.Equal(t, "Asha", out[0].Name)
			} else {
				assert.Empty(t, out[0].Name)
				assert.Equal(t, model.GenderOther, out[0].Gender)
			}
			// Seat back-references always refresh.
			assert.Equal(t, "a", out[0].SeatNumber)
			assert.Equal(t, "b", out[1].SeatNumber)
		})
	}

	assert.Empty(t, booking.Reconcile(nil, []model.Passenger{{Name: "Asha"}}))
}

func TestValidateRosterCollectsEveryViolation(t *testing.T) {
	passengers := []model.Passenger{
		{Name: "", Age: 0, Gender: "UNKNOWN", PhoneNumber: ""},        // 4 problems (contact phone required)
		{Name: "Ravi", Age: 130, Gender: model.GenderMale},            // 1 problem (age)
		{Name: "Maya", Age: 30, Gender: model.GenderFemale, PhoneNumber: "12345"}, // 1 problem (phone format)
	}
	verr := booking.ValidateRoster(passengers)
	require.NotNil(t, verr)
	assert.Len(t, verr.Fields, 6, "all violations reported at once, not just the first")

	byIndex := map[int][]string{}
	for _, f := range verr.Fields {
		byIndex[f.Index] = append(byIndex[f.Index], f.Field)
	}
	assert.ElementsMatch(t, []string{"name", "age", "gender", "phone_number"}, byIndex[0])
	assert.ElementsMatch(t, []string{"age"}, byIndex[1])
	assert.ElementsMatch(t, []string{"phone_number"}, byIndex[2])
}

func TestValidateRosterPhoneRules(t *testing.T) {
	valid := model.Passenger{Name: "Asha", Age: 30, Gender: model.GenderFemale, PhoneNumber: "9876543210"}

	// Contact passenger must have a phone; later passengers may omit it.
	noPhone := valid
	noPhone.PhoneNumber = ""
	assert.Nil(t, booking.ValidateRoster([]model.Passenger{valid, noPhone}))
	assert.NotNil(t, booking.ValidateRoster([]model.Passenger{noPhone}))

	// A present phone must match the mobile pattern at any index.
	badPhone := valid
	badPhone.PhoneNumber = "1234567890" // leading 1 is not a mobile prefix
	verr := booking.ValidateRoster([]model.Passenger{valid, badPhone})
	require.NotNil(t, verr)
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, 1, verr.Fields[0].Index)
	assert.Equal(t, "phone_number", verr.Fields[0].Field)
}

func TestValidateRosterAcceptsCompleteRoster(t *testing.T) {
	assert.Nil(t, booking.ValidateRoster([]model.Passenger{
		{Name: "Asha", Age: 30, Gender: model.GenderFemale, PhoneNumber: "9876543210"},
		{Name: "Ravi", Age: 62, Gender: model.GenderMale},
	}))
}

func TestSetPassengerField(t *testing.T) {
	var p model.Passenger

	require.NoError(t, booking.SetPassengerField(&p, "name", "Asha"))
	require.NoError(t, booking.SetPassengerField(&p, "age", "30"))
	require.NoError(t, booking.SetPassengerField(&p, "gender", "female"))
	require.NoError(t, booking.SetPassengerField(&p, "phone_number", " 9876543210 "))

	assert.Equal(t, "Asha", p.Name)
	assert.Equal(t, 30, p.Age)
	assert.Equal(t, model.GenderFemale, p.Gender)
	assert.Equal(t, "9876543210", p.PhoneNumber)

	assert.Error(t, booking.SetPassengerField(&p, "age", "thirty"))
	assert.Error(t, booking.SetPassengerField(&p, "seat_number", "7"), "seat back-reference is derived, not settable")
}
