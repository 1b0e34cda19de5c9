package fuelio

import (
	"fmt"
	"strings"

	"github.com/petrolhead/fuelbridge/internal/lubelogger"
	"github.com/petrolhead/fuelbridge/internal/record"
)

// Canonical converts the fill-up into its canonical comparison form in the
// given unit system. Fuelio exports kilometres and litres, so distance and
// volume are converted before rounding.
func (f FillUp) Canonical(units record.UnitSystem, prec record.Precision) (record.Canonical, error) {
	if f.Date.IsZero() {
		return record.Canonical{}, fmt.Errorf("%w: missing date", record.ErrMalformed)
	}

	odometer, err := record.ParseDecimal("odometer", f.Odometer)
	if err != nil {
		return record.Canonical{}, err
	}
	volume, err := record.ParseDecimal("volume", f.Volume)
	if err != nil {
		return record.Canonical{}, err
	}
	cost, err := record.ParseDecimal("cost", f.Cost)
	if err != nil {
		return record.Canonical{}, err
	}

	return record.New(
		f.Date,
		record.KilometresTo(units, odometer),
		record.LitresTo(units, volume),
		cost,
		f.FullTank,
		prec,
	), nil
}

// ToLubeLogger converts the fill-up into the destination schema, expressed in
// the destination vehicle's unit system. The conversion and rounding must
// stay consistent with Canonical so that a submitted record matches itself on
// the next run.
func (f FillUp) ToLubeLogger(units record.UnitSystem, prec record.Precision) (*lubelogger.FillUp, error) {
	odometer, err := record.ParseDecimal("odometer", f.Odometer)
	if err != nil {
		return nil, err
	}
	volume, err := record.ParseDecimal("volume", f.Volume)
	if err != nil {
		return nil, err
	}
	cost, err := record.ParseDecimal("cost", f.Cost)
	if err != nil {
		return nil, err
	}

	return &lubelogger.FillUp{
		Cost:         cost.StringFixed(prec.Cost),
		Date:         f.Date.Format(lubelogger.DateLayout),
		FuelConsumed: record.LitresTo(units, volume).StringFixed(prec.Volume),
		IsFillToFull: f.FullTank,
		MissedFuelUp: f.MissedFillUp,
		Notes:        f.notes(),
		Odometer:     record.KilometresTo(units, odometer).StringFixed(prec.Odometer),
	}, nil
}

// notes builds the destination note from the Fuelio-only fields: station,
// location map link, time of day, and the original app note.
func (f FillUp) notes() string {
	var parts []string

	if f.Station != "" {
		parts = append(parts, "Fuel station: "+f.Station)
	}
	if f.Latitude != "" && f.Longitude != "" {
		parts = append(parts, fmt.Sprintf(
			"Location: [%s,%s](https://www.google.com/maps/place/%s,%s)",
			f.Latitude, f.Longitude, f.Latitude, f.Longitude))
	}
	if !f.Date.IsZero() {
		parts = append(parts, "Time: "+f.Date.Format("15:04"))
	}
	if f.Notes != "" {
		parts = append(parts, "Fuelio notes:\n\n"+f.Notes)
	}

	return strings.Join(parts, "\n\n")
}
