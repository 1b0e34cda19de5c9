// Package sync orchestrates the reconciliation of Fuelio fill-ups into
// LubeLogger.
package sync

import (
	"context"

	"github.com/petrolhead/fuelbridge/internal/fuelio"
	"github.com/petrolhead/fuelbridge/internal/lubelogger"
)

// SourceClient provides Fuelio fill-up rows from the latest backup.
type SourceClient interface {
	// VehicleFillUps returns the fill-up rows for a Fuelio vehicle from the
	// newest backup archive in the given Drive folder.
	VehicleFillUps(ctx context.Context, folderID string, vehicleID int) ([]fuelio.FillUp, error)
}

// DestinationClient defines the LubeLogger operations required by the sync
// service.
type DestinationClient interface {
	// AddFillUp creates a fuel record for a vehicle and returns the API
	// response message.
	AddFillUp(ctx context.Context, vehicleID int, fill *lubelogger.FillUp) (string, error)

	// FillUps returns the fuel records currently stored for a vehicle.
	FillUps(ctx context.Context, vehicleID int) ([]lubelogger.FillUp, error)

	// Vehicle returns the destination vehicle details.
	Vehicle(ctx context.Context, vehicleID int) (*lubelogger.Vehicle, error)
}

// SubmitFailure describes one record whose create call was rejected.
type SubmitFailure struct {
	// Date is the fill-up date of the failed record.
	Date string

	// Err is the reason the create was rejected.
	Err error

	// Odometer is the odometer reading of the failed record.
	Odometer string
}

// VehicleResult contains the outcome of reconciling one vehicle.
type VehicleResult struct {
	// Created is the number of records newly created in LubeLogger.
	Created int

	// Err is set when the vehicle run aborted before reconciliation
	// (backup fetch or destination read failed).
	Err error

	// Failures lists the records whose create call failed.
	Failures []SubmitFailure

	// FuelioVehicleID is the source-side vehicle identifier.
	FuelioVehicleID int

	// LubeLoggerVehicleID is the destination-side vehicle identifier.
	LubeLoggerVehicleID int

	// Malformed is the number of records skipped because they could not be
	// normalized.
	Malformed int

	// Matched is the number of source records already present in LubeLogger.
	Matched int

	// Seen is the number of source records read from the backup.
	Seen int
}

// Failed reports whether the vehicle run recorded any failure.
func (r VehicleResult) Failed() bool {
	return r.Err != nil || len(r.Failures) > 0
}

// Result contains the outcome of a full run across all configured vehicles.
type Result struct {
	// DryRun indicates no writes were issued to LubeLogger.
	DryRun bool

	// Vehicles holds the per-vehicle outcomes in configured order.
	Vehicles []VehicleResult
}

// Created is the total number of records created across all vehicles.
func (r *Result) Created() int {
	n := 0
	for _, v := range r.Vehicles {
		n += v.Created
	}
	return n
}

// Failed reports whether any vehicle recorded any failure.
func (r *Result) Failed() bool {
	for _, v := range r.Vehicles {
		if v.Failed() {
			return true
		}
	}
	return false
}

// Failures is the total number of failures across all vehicles, counting an
// aborted vehicle run as one failure.
func (r *Result) Failures() int {
	n := 0
	for _, v := range r.Vehicles {
		n += len(v.Failures)
		if v.Err != nil {
			n++
		}
	}
	return n
}

// Matched is the total number of matched (skipped) records across all
// vehicles.
func (r *Result) Matched() int {
	n := 0
	for _, v := range r.Vehicles {
		n += v.Matched
	}
	return n
}
