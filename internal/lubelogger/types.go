// Package lubelogger provides a client for the LubeLogger vehicle
// maintenance log API.
package lubelogger

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/petrolhead/fuelbridge/internal/record"
)

// DateLayout is the day/month/year date format the LubeLogger API speaks.
const DateLayout = "02/01/2006"

// FillUp is one fuel record in LubeLogger. Values are stored in the unit
// system the destination vehicle is configured with; no unit conversion is
// applied on this side.
type FillUp struct {
	// Cost is the total cost of the fill-up.
	Cost string

	// Date is the fill-up date in DateLayout.
	Date string

	// FuelConsumed is the fuel volume purchased.
	FuelConsumed string

	// ID is the destination-assigned record identifier. Opaque; never used
	// for matching.
	ID string

	// IsFillToFull indicates the tank was filled completely.
	IsFillToFull bool

	// MissedFuelUp indicates a preceding fill-up was not logged.
	MissedFuelUp bool

	// Notes is the free-text note attached to the record.
	Notes string

	// Odometer is the odometer reading at the fill-up.
	Odometer string
}

// Canonical converts the fill-up into its canonical comparison form.
// LubeLogger already stores values in the vehicle's own unit system, so only
// rounding and date truncation are applied.
func (f FillUp) Canonical(prec record.Precision) (record.Canonical, error) {
	date, err := time.Parse(DateLayout, f.Date)
	if err != nil {
		return record.Canonical{}, fmt.Errorf("%w: date %q", record.ErrMalformed, f.Date)
	}

	odometer, err := record.ParseDecimal("odometer", f.Odometer)
	if err != nil {
		return record.Canonical{}, err
	}
	volume, err := record.ParseDecimal("fuelConsumed", f.FuelConsumed)
	if err != nil {
		return record.Canonical{}, err
	}
	cost, err := record.ParseDecimal("cost", f.Cost)
	if err != nil {
		return record.Canonical{}, err
	}

	return record.New(date, odometer, volume, cost, f.IsFillToFull, prec), nil
}

// Vehicle is a vehicle registered in LubeLogger.
type Vehicle struct {
	// ID is the LubeLogger vehicle identifier.
	ID int `json:"id"`

	// LicensePlate is the vehicle registration.
	LicensePlate string `json:"licensePlate"`

	// Make is the vehicle manufacturer.
	Make string `json:"make"`

	// Model is the vehicle model name.
	Model string `json:"model"`

	// Year is the model year.
	Year int `json:"year"`
}

// Title returns a human-readable description of the vehicle for logs.
func (v Vehicle) Title() string {
	return fmt.Sprintf("%d %s %s (%s)", v.Year, v.Make, v.Model, v.LicensePlate)
}

// APIError is a structured rejection from the LubeLogger API.
type APIError struct {
	// Message is the error detail returned by the API, when present.
	Message string

	// StatusCode is the HTTP status of the rejected request.
	StatusCode int
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("lubelogger: status %d: %s", e.StatusCode, e.Message)
}

// apiResponse is the envelope LubeLogger returns for write operations.
type apiResponse struct {
	// Message carries detail about the outcome.
	Message string `json:"message"`

	// Success indicates the operation was accepted.
	Success bool `json:"success"`
}

// gasRecord is the wire form of a fuel record. The API speaks strings for
// numeric and boolean fields.
type gasRecord struct {
	Cost         string `json:"cost"`
	Date         string `json:"date"`
	FuelConsumed string `json:"fuelConsumed"`
	ID           string `json:"id"`
	IsFillToFull string `json:"isFillToFull"`
	MissedFuelUp string `json:"missedFuelUp"`
	Notes        string `json:"notes"`
	Odometer     string `json:"odometer"`
}

// toFillUp converts the wire form into a FillUp.
func (g gasRecord) toFillUp() FillUp {
	return FillUp{
		Cost:         g.Cost,
		Date:         g.Date,
		FuelConsumed: g.FuelConsumed,
		ID:           g.ID,
		IsFillToFull: strings.EqualFold(g.IsFillToFull, "true"),
		MissedFuelUp: strings.EqualFold(g.MissedFuelUp, "true"),
		Notes:        g.Notes,
		Odometer:     g.Odometer,
	}
}

// values renders the fill-up as the form fields the add endpoint expects.
func (f *FillUp) values() map[string]string {
	return map[string]string{
		"cost":         f.Cost,
		"date":         f.Date,
		"fuelConsumed": f.FuelConsumed,
		"isFillToFull": strconv.FormatBool(f.IsFillToFull),
		"missedFuelUp": strconv.FormatBool(f.MissedFuelUp),
		"notes":        f.Notes,
		"odometer":     f.Odometer,
	}
}
