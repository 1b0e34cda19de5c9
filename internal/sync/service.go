package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/petrolhead/fuelbridge/internal/config"
	"github.com/petrolhead/fuelbridge/internal/fuelio"
	"github.com/petrolhead/fuelbridge/internal/lubelogger"
	"github.com/petrolhead/fuelbridge/internal/record"
)

// Config holds the required configuration for creating a Service.
type Config struct {
	// Destination is the LubeLogger API client.
	Destination DestinationClient

	// DryRun indicates whether to skip writes to LubeLogger.
	DryRun bool

	// FolderID is the Google Drive folder holding Fuelio backups.
	FolderID string

	// Logger is the structured logger for the service.
	Logger *slog.Logger

	// Precision overrides the match-key rounding policy. Nil means the
	// documented defaults.
	Precision *record.Precision

	// Source provides Fuelio fill-up rows from the latest backup.
	Source SourceClient

	// Vehicles are the source-to-destination vehicle mappings, in run order.
	Vehicles []config.VehicleMapping
}

// validate checks that all required Config fields are set.
func (c *Config) validate() error {
	var errs []error
	if c.Destination == nil {
		errs = append(errs, errors.New("destination client is required"))
	}
	if c.Source == nil {
		errs = append(errs, errors.New("source client is required"))
	}
	if c.FolderID == "" {
		errs = append(errs, errors.New("drive folder ID is required"))
	}
	if len(c.Vehicles) == 0 {
		errs = append(errs, errors.New("at least one vehicle mapping is required"))
	}
	return errors.Join(errs...)
}

// Service orchestrates reconciliation runs. Vehicles are processed
// sequentially in configured order; no state is shared between vehicles or
// carried across runs - every run rebuilds the matched set from live
// destination reads, so manual edits or deletions in LubeLogger are picked
// up automatically.
type Service struct {
	destination DestinationClient
	dryRun      bool
	folderID    string
	logger      *slog.Logger
	precision   record.Precision
	source      SourceClient
	vehicles    []config.VehicleMapping
}

// New creates a new reconciliation service.
func New(cfg Config) (*Service, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	destination := cfg.Destination
	if cfg.DryRun {
		destination = newDryRunClient(cfg.Destination, logger)
	}

	precision := record.DefaultPrecision()
	if cfg.Precision != nil {
		precision = *cfg.Precision
	}

	return &Service{
		destination: destination,
		dryRun:      cfg.DryRun,
		folderID:    cfg.FolderID,
		logger:      logger,
		precision:   precision,
		source:      cfg.Source,
		vehicles:    cfg.Vehicles,
	}, nil
}

// Run executes a full reconciliation cycle across all configured vehicles.
// A vehicle-level failure never aborts the remaining vehicles; the outcome
// of every vehicle is collected into the returned Result.
func (s *Service) Run(ctx context.Context) (*Result, error) {
	result := &Result{DryRun: s.dryRun}

	for _, mapping := range s.vehicles {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.Vehicles = append(result.Vehicles, s.runVehicle(ctx, mapping))
	}

	s.logRunComplete(result)
	return result, nil
}

// runVehicle reconciles a single vehicle: fetch both sides, normalize,
// diff, submit the missing records.
func (s *Service) runVehicle(ctx context.Context, mapping config.VehicleMapping) VehicleResult {
	vr := VehicleResult{
		FuelioVehicleID:     mapping.FuelioID,
		LubeLoggerVehicleID: mapping.LubeLoggerID,
	}

	logger := s.logger.With(
		"fuelio_vehicle_id", mapping.FuelioID,
		"lubelogger_vehicle_id", mapping.LubeLoggerID)

	logger.Info("reconciling vehicle", "units", mapping.Units, "dry_run", s.dryRun)

	vehicle, err := s.destination.Vehicle(ctx, mapping.LubeLoggerID)
	if err != nil {
		vr.Err = fmt.Errorf("fetching lubelogger vehicle: %w", err)
		logger.Error("vehicle run aborted", "error", vr.Err)
		return vr
	}
	logger.Info("found lubelogger vehicle", "vehicle", vehicle.Title())

	fills, err := s.source.VehicleFillUps(ctx, s.folderID, mapping.FuelioID)
	if err != nil {
		vr.Err = fmt.Errorf("fetching fuelio backup: %w", err)
		logger.Error("vehicle run aborted", "error", vr.Err)
		return vr
	}
	if len(fills) == 0 {
		vr.Err = errors.New("no fuel fill-ups found in fuelio backup")
		logger.Error("vehicle run aborted", "error", vr.Err)
		return vr
	}

	existing, err := s.destination.FillUps(ctx, mapping.LubeLoggerID)
	if err != nil {
		vr.Err = fmt.Errorf("fetching lubelogger fill-ups: %w", err)
		logger.Error("vehicle run aborted", "error", vr.Err)
		return vr
	}

	logger.Info("fetched records", "source", len(fills), "destination", len(existing))

	// The backup lists newest first; create oldest first so odometer
	// readings arrive in order.
	fills = slices.Clone(fills)
	slices.Reverse(fills)
	vr.Seen = len(fills)

	sourceFills, sourceCanon := s.normalizeSource(logger, &vr, fills, mapping.Units)
	destCanon := s.normalizeDestination(logger, &vr, existing)

	missing := Reconcile(sourceCanon, destCanon)
	vr.Matched = len(sourceCanon) - len(missing)

	if len(missing) == 0 {
		logger.Info("nothing to add, lubelogger fuel logs are up to date")
		return vr
	}

	// Pair each missing canonical record back to its raw source row,
	// consuming occurrences so duplicates pair one-for-one in order.
	missingCount := make(map[record.Canonical]int, len(missing))
	for _, c := range missing {
		missingCount[c]++
	}

	for i, c := range sourceCanon {
		if missingCount[c] == 0 {
			continue
		}
		missingCount[c]--

		warnNearDuplicate(logger, c, destCanon)
		s.submit(ctx, logger, &vr, mapping, sourceFills[i])
	}

	logger.Info("vehicle reconciled",
		"seen", vr.Seen,
		"matched", vr.Matched,
		"created", vr.Created,
		"failed", len(vr.Failures),
		"malformed", vr.Malformed)

	return vr
}

// normalizeSource canonicalizes the source rows, skipping and counting the
// malformed ones. The returned slices are parallel.
func (s *Service) normalizeSource(
	logger *slog.Logger,
	vr *VehicleResult,
	fills []fuelio.FillUp,
	units record.UnitSystem,
) ([]fuelio.FillUp, []record.Canonical) {
	kept := make([]fuelio.FillUp, 0, len(fills))
	canon := make([]record.Canonical, 0, len(fills))

	for _, f := range fills {
		c, err := f.Canonical(units, s.precision)
		if err != nil {
			vr.Malformed++
			logger.Warn("skipping malformed source record",
				"date", f.Date,
				"odometer", f.Odometer,
				"error", err)
			continue
		}
		kept = append(kept, f)
		canon = append(canon, c)
	}

	return kept, canon
}

// normalizeDestination canonicalizes the destination records. Malformed rows
// are skipped with a warning rather than aborting the vehicle: a record that
// cannot be normalized can never match, and re-importing its source
// counterpart is the lesser harm.
func (s *Service) normalizeDestination(
	logger *slog.Logger,
	vr *VehicleResult,
	existing []lubelogger.FillUp,
) []record.Canonical {
	canon := make([]record.Canonical, 0, len(existing))

	for _, e := range existing {
		c, err := e.Canonical(s.precision)
		if err != nil {
			vr.Malformed++
			logger.Warn("skipping malformed destination record",
				"date", e.Date,
				"odometer", e.Odometer,
				"error", err)
			continue
		}
		canon = append(canon, c)
	}

	return canon
}

// submit converts one source fill-up to the destination schema and issues
// the create call. Failures are recorded per record and never abort the
// remaining creates.
func (s *Service) submit(
	ctx context.Context,
	logger *slog.Logger,
	vr *VehicleResult,
	mapping config.VehicleMapping,
	fill fuelio.FillUp,
) {
	payload, err := fill.ToLubeLogger(mapping.Units, s.precision)
	if err != nil {
		vr.Failures = append(vr.Failures, SubmitFailure{
			Date:     fill.Date.Format(record.DateLayout),
			Err:      err,
			Odometer: fill.Odometer,
		})
		logger.Error("failed to convert fill-up", "date", fill.Date, "error", err)
		return
	}

	msg, err := s.destination.AddFillUp(ctx, mapping.LubeLoggerID, payload)
	if err != nil {
		vr.Failures = append(vr.Failures, SubmitFailure{
			Date:     payload.Date,
			Err:      err,
			Odometer: payload.Odometer,
		})
		logger.Error("failed to create fill-up",
			"date", payload.Date,
			"odometer", payload.Odometer,
			"error", err)
		return
	}

	vr.Created++
	logger.Info("created fill-up",
		"date", payload.Date,
		"odometer", payload.Odometer,
		"response", msg)
}

// logRunComplete logs the final run summary.
func (s *Service) logRunComplete(result *Result) {
	s.logger.Info("run completed",
		"vehicles", len(result.Vehicles),
		"matched", result.Matched(),
		"created", result.Created(),
		"failed", result.Failures(),
		"dry_run", s.dryRun)
}

// warnNearDuplicate flags destination records that share the day and
// odometer reading with an incoming record but differ elsewhere. These are
// usually the same fill-up with hand-edited attributes; the incoming record
// is still created, but the pair needs manual review.
func warnNearDuplicate(logger *slog.Logger, incoming record.Canonical, destination []record.Canonical) {
	for _, d := range destination {
		if d.Date != incoming.Date || d.Odometer != incoming.Odometer || d == incoming {
			continue
		}
		logger.Warn("existing fill-up on same day and odometer with different attributes, likely a duplicate",
			"date", incoming.Date,
			"odometer", incoming.Odometer,
			"existing", d.String(),
			"incoming", incoming.String())
		return
	}
}
