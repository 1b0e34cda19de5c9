// Package record defines the canonical comparison form of a fuel fill-up.
//
// Fuelio and LubeLogger hold the same real-world event with independent
// identifiers, timestamp granularity, and numeric precision, so records are
// matched structurally: both sides are projected onto a Canonical value with
// day-precision dates and fixed-precision readings in a single unit system.
// Two records describing the same fill-up must project to equal Canonical
// values regardless of which system produced them.
package record

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrMalformed indicates a record that cannot be normalized because a
// required field is missing or unparsable.
var ErrMalformed = errors.New("malformed record")

// DateLayout is the day-precision date format used in the match key.
const DateLayout = "2006-01-02"

// UnitSystem is the distance/volume unit convention used for comparison and
// for the destination payload.
type UnitSystem string

const (
	// UnitsImperial uses miles and US gallons.
	UnitsImperial UnitSystem = "imperial"

	// UnitsMetric uses kilometres and litres.
	UnitsMetric UnitSystem = "metric"
)

var (
	kmPerMile         = decimal.NewFromFloat(1.609344)
	litresPerUSGallon = decimal.NewFromFloat(3.785411784)
)

// Validate reports an error when u is not a known unit system.
func (u UnitSystem) Validate() error {
	switch u {
	case UnitsImperial, UnitsMetric:
		return nil
	default:
		return fmt.Errorf("unknown unit system %q", u)
	}
}

// Precision is the rounding policy applied when building the match key.
// Coarser values absorb cross-system rounding at the cost of a small
// false-positive risk for distinct same-day fill-ups with identical readings.
type Precision struct {
	// Cost is the number of decimal places kept for the total cost.
	Cost int32

	// Odometer is the number of decimal places kept for the odometer reading.
	Odometer int32

	// Volume is the number of decimal places kept for the fuel volume.
	Volume int32
}

// DefaultPrecision returns the default rounding policy: whole odometer units
// (LubeLogger stores odometer readings as integers), two decimal places for
// volume, two for cost (currency minor units).
func DefaultPrecision() Precision {
	return Precision{Cost: 2, Odometer: 0, Volume: 2}
}

// Canonical is the comparison-ready projection of a fill-up record.
// It is an immutable value with structural equality, usable directly as a
// map key for frequency-counted reconciliation. Numeric fields are
// fixed-precision decimal strings in the canonical unit system.
type Canonical struct {
	// Cost is the total cost, rounded to currency minor units.
	Cost string

	// Date is the fill-up day in DateLayout; time of day is excluded from
	// the match key because the two systems disagree on it.
	Date string

	// FullTank indicates the tank was filled completely.
	FullTank bool

	// Odometer is the rounded odometer reading in the canonical distance unit.
	Odometer string

	// Volume is the rounded fuel volume in the canonical volume unit.
	Volume string
}

// String renders the record for logs.
func (c Canonical) String() string {
	return fmt.Sprintf("%s odo=%s vol=%s cost=%s full=%t",
		c.Date, c.Odometer, c.Volume, c.Cost, c.FullTank)
}

// New builds a Canonical from values already expressed in the canonical unit
// system. Unit conversion must happen before rounding.
func New(date time.Time, odometer, volume, cost decimal.Decimal, fullTank bool, prec Precision) Canonical {
	return Canonical{
		Cost:     cost.StringFixed(prec.Cost),
		Date:     date.Format(DateLayout),
		FullTank: fullTank,
		Odometer: odometer.StringFixed(prec.Odometer),
		Volume:   volume.StringFixed(prec.Volume),
	}
}

// KilometresTo converts a distance in kilometres into the distance unit of
// the given system.
func KilometresTo(units UnitSystem, km decimal.Decimal) decimal.Decimal {
	if units == UnitsImperial {
		return km.Div(kmPerMile)
	}
	return km
}

// LitresTo converts a volume in litres into the volume unit of the given
// system.
func LitresTo(units UnitSystem, litres decimal.Decimal) decimal.Decimal {
	if units == UnitsImperial {
		return litres.Div(litresPerUSGallon)
	}
	return litres
}

// ParseDecimal parses a numeric field, wrapping failures in ErrMalformed.
func ParseDecimal(field, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %s %q", ErrMalformed, field, value)
	}
	return d, nil
}
