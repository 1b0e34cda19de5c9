// Package config loads fuelbridge configuration from a config directory.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/petrolhead/fuelbridge/internal/record"
)

const (
	// ConfigFileName is the configuration file name inside the config directory.
	ConfigFileName = "config.yml"

	// DefaultLogLevel is used when no level is configured.
	DefaultLogLevel = "info"

	// EnvConfigDir overrides the default config directory location.
	EnvConfigDir = "FUELBRIDGE_CONFIG_DIR"

	defaultAuthMode      = "client"
	defaultConfigDirName = ".fuelbridge"
)

// Drive holds Google Drive backup source settings.
type Drive struct {
	// AuthMode selects "service" (non-interactive service account) or
	// "client" (browser-delegated) authentication.
	AuthMode string `yaml:"auth_mode"`

	// ClientSecretsFile is the OAuth client JSON for client mode.
	// Defaults to client_secrets.json in the config directory.
	ClientSecretsFile string `yaml:"client_secrets_file"`

	// FolderID is the Drive folder containing Fuelio backups.
	FolderID string `yaml:"folder_id"`

	// ServiceAccountFile is the service account key JSON for service mode.
	// Defaults to service_account.json in the config directory.
	ServiceAccountFile string `yaml:"service_account_file"`

	// TokenFile caches the OAuth token between runs in client mode.
	// Defaults to token.json in the config directory.
	TokenFile string `yaml:"token_file"`
}

// LubeLogger holds destination API settings.
type LubeLogger struct {
	// Password is the basic auth password.
	Password string `yaml:"password"`

	// URL is the base URL of the LubeLogger instance.
	URL string `yaml:"url"`

	// Username is the basic auth username.
	Username string `yaml:"username"`
}

// Precision overrides the rounding policy used to build the match key.
type Precision struct {
	// Cost is the number of decimal places kept for the total cost.
	Cost int32 `yaml:"cost"`

	// Odometer is the number of decimal places kept for the odometer reading.
	Odometer int32 `yaml:"odometer"`

	// Volume is the number of decimal places kept for the fuel volume.
	Volume int32 `yaml:"volume"`
}

// ToRecord converts the override into the record package's policy type.
// A nil override means the documented defaults.
func (p *Precision) ToRecord() record.Precision {
	if p == nil {
		return record.DefaultPrecision()
	}
	return record.Precision{Cost: p.Cost, Odometer: p.Odometer, Volume: p.Volume}
}

// VehicleMapping pairs one Fuelio vehicle with one LubeLogger vehicle.
// Every processed vehicle must have exactly one mapping; an unmapped vehicle
// is never silently imported.
type VehicleMapping struct {
	// FuelioID is the source-side vehicle identifier.
	FuelioID int `yaml:"fuelio_id"`

	// LubeLoggerID is the destination-side vehicle identifier.
	LubeLoggerID int `yaml:"lubelogger_id"`

	// Units is the unit system the LubeLogger vehicle uses. Defaults to the
	// global setting.
	Units record.UnitSystem `yaml:"units"`
}

// Settings is the root configuration.
type Settings struct {
	// Drive contains Google Drive backup source settings.
	Drive Drive `yaml:"drive"`

	// LogLevel is the default log verbosity (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`

	// LubeLogger contains destination API settings.
	LubeLogger LubeLogger `yaml:"lubelogger"`

	// Precision optionally overrides the match-key rounding policy.
	Precision *Precision `yaml:"precision"`

	// Units is the default unit system for vehicles without an override.
	Units record.UnitSystem `yaml:"units"`

	// Vehicles are the vehicle mappings, processed in listed order.
	Vehicles []VehicleMapping `yaml:"vehicles"`
}

// Dir resolves the config directory: the explicit argument when given, the
// FUELBRIDGE_CONFIG_DIR environment variable, or ~/.fuelbridge.
func Dir(arg string) (string, error) {
	if arg = strings.TrimSpace(arg); arg != "" {
		return arg, nil
	}
	if env := strings.TrimSpace(os.Getenv(EnvConfigDir)); env != "" {
		return env, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, defaultConfigDirName), nil
}

// Load reads and validates the configuration file inside dir, applying
// defaults for omitted fields.
func Load(dir string) (*Settings, error) {
	path := filepath.Join(dir, ConfigFileName)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s (run 'fuelbridge init' to create)", path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Settings
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyDefaults(dir)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults fills omitted fields with built-in defaults, resolving
// credential file paths relative to the config directory.
func (s *Settings) applyDefaults(dir string) {
	if s.LogLevel == "" {
		s.LogLevel = DefaultLogLevel
	}
	if s.Units == "" {
		s.Units = record.UnitsMetric
	}
	if s.Drive.AuthMode == "" {
		s.Drive.AuthMode = defaultAuthMode
	}
	if s.Drive.ClientSecretsFile == "" {
		s.Drive.ClientSecretsFile = filepath.Join(dir, "client_secrets.json")
	}
	if s.Drive.ServiceAccountFile == "" {
		s.Drive.ServiceAccountFile = filepath.Join(dir, "service_account.json")
	}
	if s.Drive.TokenFile == "" {
		s.Drive.TokenFile = filepath.Join(dir, "token.json")
	}
	for i := range s.Vehicles {
		if s.Vehicles[i].Units == "" {
			s.Vehicles[i].Units = s.Units
		}
	}
}

// validate checks that all required fields are set and consistent.
func (s *Settings) validate() error {
	var errs []error

	if s.LubeLogger.URL == "" {
		errs = append(errs, errors.New("lubelogger.url is required"))
	}
	if s.LubeLogger.Username == "" {
		errs = append(errs, errors.New("lubelogger.username is required"))
	}
	if s.LubeLogger.Password == "" {
		errs = append(errs, errors.New("lubelogger.password is required"))
	}
	if s.Drive.FolderID == "" {
		errs = append(errs, errors.New("drive.folder_id is required"))
	}
	if s.Drive.AuthMode != "client" && s.Drive.AuthMode != "service" {
		errs = append(errs, fmt.Errorf("drive.auth_mode must be \"client\" or \"service\", got %q", s.Drive.AuthMode))
	}
	if err := s.Units.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("units: %w", err))
	}
	if len(s.Vehicles) == 0 {
		errs = append(errs, errors.New("at least one vehicle mapping is required"))
	}

	seen := make(map[int]bool, len(s.Vehicles))
	for i, v := range s.Vehicles {
		if v.FuelioID <= 0 {
			errs = append(errs, fmt.Errorf("vehicles[%d].fuelio_id is required", i))
		}
		if v.LubeLoggerID <= 0 {
			errs = append(errs, fmt.Errorf("vehicles[%d].lubelogger_id is required", i))
		}
		if err := v.Units.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("vehicles[%d].units: %w", i, err))
		}
		if v.FuelioID > 0 && seen[v.FuelioID] {
			errs = append(errs, fmt.Errorf("vehicles[%d]: duplicate mapping for fuelio vehicle %d", i, v.FuelioID))
		}
		seen[v.FuelioID] = true
	}

	return errors.Join(errs...)
}
