package booking

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/iliyamo/bus-ticket-booking/internal/model"
)

// mobileRx matches a 10-digit Indian mobile number.
var mobileRx = regexp.MustCompile(`^[6-9][0-9]{9}$`)

const (
	minAge = 1
	maxAge = 120
)

// Reconcile aligns the roster to the selection: one passenger per selected
// seat, by index.  Extra selection entries gain blank passenger records
// (default gender OTHER); a shrunken selection truncates the roster tail.
// Seat back-references are refreshed on every call so a removal in the
// middle re-labels the shifted tail correctly.
func Reconcile(selection []model.Seat, passengers []model.Passenger) []model.Passenger {
	out := make([]model.Passenger, len(selection))
	for i := range selection {
		if i < len(passengers) {
			out[i] = passengers[i]
		} else {
			out[i] = model.Passenger{Gender: model.GenderOther}
		}
		out[i].SeatNumber = selection[i].Number
	}
	return out
}

// SetPassengerField mutates a single field of p identified by name.  Field
// names match the JSON wire names.  Unknown fields and malformed ages are
// rejected so a typo cannot silently drop input.
func SetPassengerField(p *model.Passenger, field, value string) error {
	switch field {
	case "name":
		p.Name = value
	case "age":
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("age must be a number")
		}
		p.Age = n
	case "gender":
		p.Gender = model.Gender(strings.ToUpper(strings.TrimSpace(value)))
	case "phone_number":
		p.PhoneNumber = strings.TrimSpace(value)
	default:
		return fmt.Errorf("unknown passenger field %q", field)
	}
	return nil
}

// ValidateRoster checks every passenger and returns all violations at
// once, or nil when the roster is complete.  Rules: name required, age
// within [1,120], gender in the enum, and the first passenger (the booking
// contact) must carry a valid 10-digit mobile number.  Later passengers
// may omit the phone, but a non-empty one must still match.  Validation
// runs before a step transition, never on keystrokes.
func ValidateRoster(passengers []model.Passenger) *ValidationError {
	var fields []FieldError
	for i, p := range passengers {
		if strings.TrimSpace(p.Name) == "" {
			fields = append(fields, FieldError{Index: i, Field: "name", Message: "is required"})
		}
		if p.Age < minAge || p.Age > maxAge {
			fields = append(fields, FieldError{Index: i, Field: "age", Message: fmt.Sprintf("must be between %d and %d", minAge, maxAge)})
		}
		if !model.ValidGender(p.Gender) {
			fields = append(fields, FieldError{Index: i, Field: "gender", Message: "must be MALE, FEMALE or OTHER"})
		}
		switch {
		case i == 0 && p.PhoneNumber == "":
			fields = append(fields, FieldError{Index: i, Field: "phone_number", Message: "is required for the booking contact"})
		case p.PhoneNumber != "" && !mobileRx.MatchString(p.PhoneNumber):
			fields = append(fields, FieldError{Index: i, Field: "phone_number", Message: "must be a valid 10-digit mobile number"})
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}
