package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Config is the application configuration, stored in ~/.cedolino/config.json.
// The file supports single-line // comments for documentation purposes.
// Contract and pay rules live separately in settings.yaml.
type Config struct {
	// DataDir holds settings.yaml and the work-entry store.
	DataDir string `json:"data_dir"`
	// Store selects the work-entry backend: "json" or "sqlite".
	Store string `json:"store"`
	// Env is "production" for JSON logs; anything else logs for humans.
	Env string `json:"env"`
	// LogLevel overrides the environment's default log level.
	LogLevel string        `json:"log_level"`
	Outlook  OutlookConfig `json:"outlook"`
}

// OutlookConfig holds Microsoft Graph / Outlook calendar import settings.
type OutlookConfig struct {
	// TenantID is the Azure AD tenant. Use "common" for personal/multi-tenant accounts.
	TenantID string `json:"tenant_id"`
	// ClientID is the Azure app (client) ID for the OAuth2 device code flow.
	ClientID string `json:"client_id"`
	// Timezone is the IANA timezone for event times (e.g. "Europe/Rome"). Empty = UTC.
	Timezone string `json:"timezone"`
	// WorkCategory marks events imported as work intervals.
	WorkCategory string `json:"work_category"`
	// StandbyCategory marks events that flag the day as a standby (reperibilità) day.
	StandbyCategory string `json:"standby_category"`
}

// Store backends.
const (
	StoreJSON   = "json"
	StoreSQLite = "sqlite"
)

const (
	// DefaultTenantID is the Microsoft "common" tenant.
	DefaultTenantID = "common"
	// DefaultClientID is the well-known public Azure CLI app ID. It supports
	// device code flow without a client secret or app registration.
	DefaultClientID = "04b07795-8542-4c4a-95af-30b2c573d5ab"
	DefaultEnv      = "development"
	DefaultLogLevel = "warn"
	DefaultWork     = "Lavoro"
	DefaultStandby  = "Reperibilità"
)

// Environment variables overriding the file. A .env file in the working
// directory is loaded first when present.
const (
	EnvDataDir  = "CEDOLINO_DATA_DIR"
	EnvStore    = "CEDOLINO_STORE"
	EnvEnv      = "CEDOLINO_ENV"
	EnvLogLevel = "CEDOLINO_LOG_LEVEL"
)

// ErrUnknownStore is returned for a store value other than json or sqlite.
var ErrUnknownStore = errors.New("unknown store")

// defaultConfig returns a Config pre-filled with defaults for dir.
func defaultConfig(dir string) Config {
	return Config{
		DataDir:  dir,
		Store:    StoreJSON,
		Env:      DefaultEnv,
		LogLevel: DefaultLogLevel,
		Outlook: OutlookConfig{
			TenantID:        DefaultTenantID,
			ClientID:        DefaultClientID,
			WorkCategory:    DefaultWork,
			StandbyCategory: DefaultStandby,
		},
	}
}

// configTemplate is the annotated config written on first run.
// Lines whose trimmed content starts with // are stripped before JSON parsing.
const configTemplate = `// cedolino configuration – ~/.cedolino/config.json
//
// Pay rules (salary, rates, travel policy, standby) are in settings.yaml;
// use "cedolino settings" to view and change them.
{
  // Directory for settings.yaml and the work entries. Empty = this directory.
  "data_dir": "",

  // Work-entry store: "json" (one file per day) or "sqlite" (cedolino.db).
  "store": "json",

  // "production" logs JSON; "development" logs to the console.
  "env": "development",

  // Log level on stderr: "debug", "info", "warn" or "error".
  "log_level": "warn",

  // ── Microsoft Graph / Outlook calendar import ────────────────────────────
  "outlook": {
    // Azure AD tenant ID: "common" or your organisation's tenant GUID.
    "tenant_id": "common",

    // Azure application (client) ID used for the OAuth2 device code flow.
    "client_id": "04b07795-8542-4c4a-95af-30b2c573d5ab",

    // IANA timezone for calendar event times, e.g. "Europe/Rome". Empty = UTC.
    "timezone": "",

    // Events with this category become work intervals.
    "work_category": "Lavoro",

    // Events with this category mark the day as a standby day.
    "standby_category": "Reperibilità"
  }
}
`

// Dir returns the configuration directory: $CEDOLINO_DATA_DIR when set,
// otherwise ~/.cedolino.
func Dir() (string, error) {
	if dir := os.Getenv(EnvDataDir); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".cedolino"), nil
}

// stripLineComments removes lines whose leading non-whitespace content starts
// with //. Only full-line comments are handled; inline comments are not stripped.
func stripLineComments(data []byte) []byte {
	var out []byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if bytes.HasPrefix(bytes.TrimLeft(line, " \t"), []byte("//")) {
			continue
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out
}

// Load loads .env if present and reads config.json from Dir.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("loading .env: %w", err)
	}
	dir, err := Dir()
	if err != nil {
		return Config{}, err
	}
	return LoadFrom(dir)
}

// LoadFrom reads dir/config.json, creating it with annotated defaults on first
// run, then applies environment overrides.
func LoadFrom(dir string) (Config, error) {
	path := filepath.Join(dir, "config.json")
	cfg := defaultConfig(dir)

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
	case err != nil:
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	default:
		var parsed Config
		if err := json.Unmarshal(stripLineComments(data), &parsed); err != nil {
			return cfg, fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
		}
		cfg = withDefaults(parsed, dir)
	}

	applyEnv(&cfg)
	if cfg.Store != StoreJSON && cfg.Store != StoreSQLite {
		return cfg, fmt.Errorf("%w: %q (want %q or %q)", ErrUnknownStore, cfg.Store, StoreJSON, StoreSQLite)
	}
	return cfg, nil
}

// withDefaults fills zero-value fields so callers always get a usable Config
// even if the user only partially fills in the file.
func withDefaults(cfg Config, dir string) Config {
	def := defaultConfig(dir)
	if cfg.DataDir == "" {
		cfg.DataDir = def.DataDir
	}
	if cfg.Store == "" {
		cfg.Store = def.Store
	}
	if cfg.Env == "" {
		cfg.Env = def.Env
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = def.LogLevel
	}
	if cfg.Outlook.TenantID == "" {
		cfg.Outlook.TenantID = def.Outlook.TenantID
	}
	if cfg.Outlook.ClientID == "" {
		cfg.Outlook.ClientID = def.Outlook.ClientID
	}
	if cfg.Outlook.WorkCategory == "" {
		cfg.Outlook.WorkCategory = def.Outlook.WorkCategory
	}
	if cfg.Outlook.StandbyCategory == "" {
		cfg.Outlook.StandbyCategory = def.Outlook.StandbyCategory
	}
	return cfg
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvStore); v != "" {
		cfg.Store = v
	}
	if v := os.Getenv(EnvEnv); v != "" {
		cfg.Env = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
}

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
