package fuelio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// Column indexes within a fill-up row of a Fuelio sync CSV.
const (
	colDate = iota
	colOdometer
	colVolume
	colFullTank
	colCost
	colUnitPrice
	colLatitude
	colLongitude
	colStation
	colNotes
	colMissed
)

// BackupFileName returns the name of the per-vehicle sync CSV inside a
// Fuelio backup archive.
func BackupFileName(vehicleID int) string {
	return fmt.Sprintf("vehicle-%d-sync.csv", vehicleID)
}

// ParseCSV extracts the fuel fill-up rows from a Fuelio sync CSV.
//
// The export is a multi-section file mixing vehicle metadata, fill-ups and
// cost categories under repeated "##" headers, with rows of varying width.
// Only rows whose first column parses as a fill-up timestamp are fuel
// records; everything else is skipped. Rows are returned in file order,
// which is newest first.
func ParseCSV(vehicleID int, r io.Reader) ([]FillUp, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var fills []FillUp
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading fuelio csv: %w", err)
		}
		if len(row) == 0 {
			continue
		}

		ts, err := time.Parse(timeLayout, strings.TrimSpace(row[colDate]))
		if err != nil {
			// Section header or non-fill-up row.
			continue
		}

		fills = append(fills, FillUp{
			Cost:         field(row, colCost),
			Date:         ts,
			FullTank:     flag(row, colFullTank),
			Latitude:     field(row, colLatitude),
			Longitude:    field(row, colLongitude),
			MissedFillUp: flag(row, colMissed),
			Notes:        field(row, colNotes),
			Odometer:     field(row, colOdometer),
			Station:      field(row, colStation),
			VehicleID:    vehicleID,
			Volume:       field(row, colVolume),
		})
	}

	return fills, nil
}

// field returns the trimmed column value, or "" when the row is too short.
func field(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// flag interprets a Fuelio 1/0 column as a boolean.
func flag(row []string, i int) bool {
	return field(row, i) == "1"
}
