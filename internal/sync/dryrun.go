package sync

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/petrolhead/fuelbridge/internal/lubelogger"
)

// dryRunClient wraps a DestinationClient and logs write operations instead
// of executing them. Reads pass through, so reconciliation runs against real
// destination state.
type dryRunClient struct {
	client  DestinationClient
	counter uint64
	logger  *slog.Logger
}

// newDryRunClient creates a new dryRunClient wrapping the given client.
func newDryRunClient(client DestinationClient, logger *slog.Logger) *dryRunClient {
	return &dryRunClient{
		client: client,
		logger: logger,
	}
}

// AddFillUp logs what would be created and returns a fake response message.
func (d *dryRunClient) AddFillUp(_ context.Context, vehicleID int, fill *lubelogger.FillUp) (string, error) {
	n := atomic.AddUint64(&d.counter, 1)

	d.logger.Info("[DRY-RUN] would create fill-up",
		"vehicle_id", vehicleID,
		"date", fill.Date,
		"odometer", fill.Odometer,
		"fuel_consumed", fill.FuelConsumed,
		"cost", fill.Cost,
		"full_tank", fill.IsFillToFull)

	return fmt.Sprintf("dry-run-fillup-%d", n), nil
}

// FillUps delegates to the real client.
func (d *dryRunClient) FillUps(ctx context.Context, vehicleID int) ([]lubelogger.FillUp, error) {
	return d.client.FillUps(ctx, vehicleID)
}

// Vehicle delegates to the real client.
func (d *dryRunClient) Vehicle(ctx context.Context, vehicleID int) (*lubelogger.Vehicle, error) {
	return d.client.Vehicle(ctx, vehicleID)
}
