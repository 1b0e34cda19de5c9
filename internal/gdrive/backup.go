package gdrive

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/petrolhead/fuelbridge/internal/fuelio"
)

// VehicleFillUps downloads the newest backup archive for a Fuelio vehicle
// from the given Drive folder and parses the fill-up rows from the CSV
// inside it.
func (c *Client) VehicleFillUps(ctx context.Context, folderID string, vehicleID int) ([]fuelio.FillUp, error) {
	csvName := fuelio.BackupFileName(vehicleID)

	backup, err := c.FindNewest(ctx, folderID, csvName+".zip")
	if err != nil {
		return nil, fmt.Errorf("locating backup: %w", err)
	}

	data, err := c.Download(ctx, backup.ID)
	if err != nil {
		return nil, fmt.Errorf("downloading backup %s: %w", backup.Name, err)
	}

	content, err := extractFromZip(data, csvName)
	if err != nil {
		return nil, fmt.Errorf("extracting %s: %w", csvName, err)
	}

	return fuelio.ParseCSV(vehicleID, bytes.NewReader(content))
}

// extractFromZip returns the content of the named file inside a zip archive.
func extractFromZip(archive []byte, name string) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}

	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("opening archive entry: %w", err)
		}
		defer func() { _ = rc.Close() }()
		content, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("reading archive entry: %w", err)
		}
		return content, nil
	}

	return nil, fmt.Errorf("%s not found in archive", name)
}
