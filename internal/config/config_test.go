package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/petrolhead/fuelbridge/internal/record"
)

const validConfig = `
lubelogger:
  url: https://lubelogger.example.com
  username: admin
  password: hunter2
drive:
  folder_id: drive-folder-1
vehicles:
  - fuelio_id: 1
    lubelogger_id: 7
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0o600)
	require.NoError(t, err)

	return dir
}

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	dir := writeConfig(t, validConfig)

	cfg, err := Load(dir)
	require.NoError(t, err)

	require.Equal(t, DefaultLogLevel, cfg.LogLevel)
	require.Equal(t, record.UnitsMetric, cfg.Units)
	require.Equal(t, "client", cfg.Drive.AuthMode)
	require.Equal(t, filepath.Join(dir, "client_secrets.json"), cfg.Drive.ClientSecretsFile)
	require.Equal(t, filepath.Join(dir, "service_account.json"), cfg.Drive.ServiceAccountFile)
	require.Equal(t, filepath.Join(dir, "token.json"), cfg.Drive.TokenFile)

	require.Len(t, cfg.Vehicles, 1)
	require.Equal(t, record.UnitsMetric, cfg.Vehicles[0].Units)
	require.Nil(t, cfg.Precision)
	require.Equal(t, record.DefaultPrecision(), cfg.Precision.ToRecord())
}

func TestLoadFull(t *testing.T) {
	t.Parallel()

	dir := writeConfig(t, `
log_level: debug
units: imperial
lubelogger:
  url: https://lubelogger.example.com
  username: admin
  password: hunter2
drive:
  auth_mode: service
  folder_id: drive-folder-1
  service_account_file: /etc/fuelbridge/sa.json
precision:
  cost: 2
  odometer: 1
  volume: 3
vehicles:
  - fuelio_id: 1
    lubelogger_id: 7
  - fuelio_id: 2
    lubelogger_id: 8
    units: metric
`)

	cfg, err := Load(dir)
	require.NoError(t, err)

	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, "service", cfg.Drive.AuthMode)
	require.Equal(t, "/etc/fuelbridge/sa.json", cfg.Drive.ServiceAccountFile)
	require.Equal(t, record.Precision{Cost: 2, Odometer: 1, Volume: 3}, cfg.Precision.ToRecord())

	// The global unit system applies only to vehicles without an override.
	require.Equal(t, record.UnitsImperial, cfg.Vehicles[0].Units)
	require.Equal(t, record.UnitsMetric, cfg.Vehicles[1].Units)
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		config  string
		wantErr string
	}{
		"not yaml": {
			config:  "{{nope",
			wantErr: "parsing config file",
		},
		"missing lubelogger url": {
			config: `
lubelogger:
  username: admin
  password: hunter2
drive:
  folder_id: drive-folder-1
vehicles:
  - fuelio_id: 1
    lubelogger_id: 7
`,
			wantErr: "lubelogger.url is required",
		},
		"missing credentials": {
			config: `
lubelogger:
  url: https://lubelogger.example.com
drive:
  folder_id: drive-folder-1
vehicles:
  - fuelio_id: 1
    lubelogger_id: 7
`,
			wantErr: "lubelogger.username is required",
		},
		"missing folder id": {
			config: `
lubelogger:
  url: https://lubelogger.example.com
  username: admin
  password: hunter2
vehicles:
  - fuelio_id: 1
    lubelogger_id: 7
`,
			wantErr: "drive.folder_id is required",
		},
		"bad auth mode": {
			config: `
lubelogger:
  url: https://lubelogger.example.com
  username: admin
  password: hunter2
drive:
  auth_mode: magic
  folder_id: drive-folder-1
vehicles:
  - fuelio_id: 1
    lubelogger_id: 7
`,
			wantErr: `drive.auth_mode must be "client" or "service"`,
		},
		"bad units": {
			config: `
units: nautical
lubelogger:
  url: https://lubelogger.example.com
  username: admin
  password: hunter2
drive:
  folder_id: drive-folder-1
vehicles:
  - fuelio_id: 1
    lubelogger_id: 7
`,
			wantErr: "units:",
		},
		"no vehicles": {
			config: `
lubelogger:
  url: https://lubelogger.example.com
  username: admin
  password: hunter2
drive:
  folder_id: drive-folder-1
`,
			wantErr: "at least one vehicle mapping is required",
		},
		"vehicle missing ids": {
			config: `
lubelogger:
  url: https://lubelogger.example.com
  username: admin
  password: hunter2
drive:
  folder_id: drive-folder-1
vehicles:
  - fuelio_id: 1
`,
			wantErr: "vehicles[0].lubelogger_id is required",
		},
		"duplicate fuelio vehicle": {
			config: `
lubelogger:
  url: https://lubelogger.example.com
  username: admin
  password: hunter2
drive:
  folder_id: drive-folder-1
vehicles:
  - fuelio_id: 1
    lubelogger_id: 7
  - fuelio_id: 1
    lubelogger_id: 8
`,
			wantErr: "duplicate mapping for fuelio vehicle 1",
		},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			dir := writeConfig(t, tc.config)

			cfg, err := Load(dir)
			require.ErrorContains(t, err, tc.wantErr)
			require.Nil(t, cfg)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	cfg, err := Load(t.TempDir())
	require.ErrorContains(t, err, "config file not found")
	require.ErrorContains(t, err, "fuelbridge init")
	require.Nil(t, cfg)
}

func TestDir(t *testing.T) {
	dir, err := Dir("/explicit/path")
	require.NoError(t, err)
	require.Equal(t, "/explicit/path", dir)

	t.Setenv(EnvConfigDir, "/from/env")
	dir, err = Dir("")
	require.NoError(t, err)
	require.Equal(t, "/from/env", dir)

	t.Setenv(EnvConfigDir, "")
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	dir, err = Dir("  ")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, defaultConfigDirName), dir)
}
