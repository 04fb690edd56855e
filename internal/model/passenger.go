package model

// Gender enumerates the accepted passenger gender values.
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

// ValidGender reports whether g is one of the accepted enum values.
func ValidGender(g Gender) bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// Passenger is one traveller record in a booking session.  Exactly one
// Passenger exists per selected seat, in selection order; the first
// passenger is the booking contact and must carry a reachable phone number.
//
// Fields:
//  SeatNumber  – display label of the seat this passenger occupies.
//  Name        – full name, required before confirmation.
//  Age         – years, 1 to 120.
//  Gender      – MALE, FEMALE or OTHER.
//  PhoneNumber – 10-digit mobile; mandatory for the first passenger,
//                optional (but validated when present) for the rest.
type Passenger struct {
	SeatNumber  string `json:"seat_number"`
	Name        string `json:"name"`
	Age         int    `json:"age"`
	Gender      Gender `json:"gender"`
	PhoneNumber string `json:"phone_number"`
}
