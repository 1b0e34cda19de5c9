package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/petrolhead/fuelbridge/internal/config"
)

const configTemplate = `# fuelbridge configuration

lubelogger:
  # Base URL of your LubeLogger instance.
  url: "https://lubelogger.example.com"
  username: ""
  password: ""

drive:
  # Google Drive folder containing Fuelio backups (the folder ID from its URL).
  folder_id: ""
  # "client" opens a browser on first run; "service" uses a service account
  # key (service_account.json in this directory) for non-interactive runs.
  auth_mode: "client"

# Default unit system of your LubeLogger vehicles: "metric" or "imperial".
units: "metric"

# Log verbosity: debug, info, warn, error.
log_level: "info"

# One entry per vehicle to reconcile, processed in order.
vehicles:
  - fuelio_id: 1
    lubelogger_id: 1
    # units: "imperial"   # per-vehicle override
`

var initCmd = &cobra.Command{
	Use:   "init [config-dir]",
	Short: "Create a sample configuration file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		arg := ""
		if len(args) > 0 {
			arg = args[0]
		}
		return runInit(arg)
	},
}

// runInit creates the config directory and writes an annotated template.
func runInit(arg string) error {
	dir, err := config.Dir(arg)
	if err != nil {
		return fmt.Errorf("getting config directory: %w", err)
	}

	configPath := filepath.Join(dir, config.ConfigFileName)
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists: %s", configPath)
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	fmt.Println("Created config file:", configPath)
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  1. Edit the config file with your LubeLogger credentials and Drive folder ID")
	fmt.Println("  2. Place your Google OAuth client secrets at", filepath.Join(dir, "client_secrets.json"))
	fmt.Println("     (or a service account key at", filepath.Join(dir, "service_account.json"), "with auth_mode: service)")
	fmt.Println("  3. Run 'fuelbridge --dry-run' to preview what would be imported")

	return nil
}
