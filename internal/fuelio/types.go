// Package fuelio reads fuel fill-up rows from Fuelio backup CSV exports.
package fuelio

import "time"

// timeLayout is the timestamp format Fuelio uses in sync CSV exports.
const timeLayout = "2006-01-02 15:04"

// FillUp is one fuel purchase event exported by the Fuelio app.
// Numeric fields are kept as exported strings; Fuelio always exports
// kilometres and litres, conversion happens during normalization and
// submission. The struct is read-only: it is materialized fresh from the
// latest backup on every run and never written back.
type FillUp struct {
	// Cost is the total amount paid.
	Cost string

	// Date is the fill-up timestamp, minute precision.
	Date time.Time

	// FullTank indicates the tank was filled completely.
	FullTank bool

	// Latitude of the fill-up location, when recorded.
	Latitude string

	// Longitude of the fill-up location, when recorded.
	Longitude string

	// MissedFillUp indicates the user marked a previous fill-up as not logged.
	MissedFillUp bool

	// Notes is the free-text note entered in the app.
	Notes string

	// Odometer is the odometer reading in kilometres.
	Odometer string

	// Station is the fuel station or city name, when recorded.
	Station string

	// VehicleID is the Fuelio vehicle the record belongs to.
	VehicleID int

	// Volume is the fuel volume purchased, in litres.
	Volume string
}
