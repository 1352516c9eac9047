package draft

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidMiles is returned when a draft is not a finite, non-negative number
var ErrInvalidMiles = errors.New("miles must be a number greater than or equal to 0")

var validate = validator.New()

// Miles is an in-progress mileage edit. The draft text is only applied to the
// committed value on Commit; an invalid draft reverts to the committed value.
type Miles struct {
	committed float64
	draft     string
}

// NewMiles starts a draft from the currently stored value
func NewMiles(committed float64) *Miles {
	return &Miles{
		committed: committed,
		draft:     Format(committed),
	}
}

// Set replaces the draft text without touching the committed value
func (m *Miles) Set(text string) {
	m.draft = text
}

// Draft returns the current draft text
func (m *Miles) Draft() string {
	return m.draft
}

// Committed returns the last valid committed value
func (m *Miles) Committed() float64 {
	return m.committed
}

// Commit validates the draft and, if valid, makes it the committed value.
// On failure the draft reverts and ErrInvalidMiles is returned.
func (m *Miles) Commit() (float64, error) {
	miles, err := Parse(m.draft)
	if err != nil {
		m.Revert()
		return m.committed, err
	}

	m.committed = miles
	m.draft = Format(miles)
	return miles, nil
}

// Revert discards the draft
func (m *Miles) Revert() {
	m.draft = Format(m.committed)
}

// Parse converts user text into a mileage value
func Parse(text string) (float64, error) {
	miles, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(miles) || math.IsInf(miles, 0) {
		return 0, ErrInvalidMiles
	}
	if err := validate.Var(miles, "gte=0"); err != nil {
		return 0, ErrInvalidMiles
	}
	return miles, nil
}

// Format renders a mileage value the way it is shown in an input
func Format(miles float64) string {
	return strconv.FormatFloat(miles, 'f', -1, 64)
}
