// Package config loads and saves the user configuration file (config.json).
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Default configuration values used when a field is missing in the file.
const (
	AppDirName        = "riot-account-manager"
	DefaultConfigFile = "config.json"
	DefaultRegion     = "euw1"
	DefaultTheme      = "dark"
	DefaultUpdateRepo = "kattitatu/riot-account-manager"

	// APIKeyEnv overrides the stored API key when the file has none.
	APIKeyEnv = "RIOT_API_KEY"
)

// Config is the root user configuration. It is loaded once at startup and
// passed by pointer to every component that needs it.
type Config struct {
	APIKey string `json:"riot_api_key,omitempty"`
	Region string `json:"region"`
	Theme  string `json:"theme"`

	// RiotClientPath overrides client discovery when set.
	RiotClientPath string `json:"riot_client_path,omitempty"`
	DataDir        string `json:"data_dir,omitempty"`

	Log    LogConfig    `json:"log"`
	Update UpdateConfig `json:"update"`

	// apiKeyFromEnv is true when APIKey came from the environment and must
	// not be written back to disk.
	apiKeyFromEnv bool
}

// LogConfig holds logging level, format and the optional debug log file.
type LogConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
	File   string `json:"file,omitempty"`
}

// UpdateConfig points the update checker at a release feed.
type UpdateConfig struct {
	Repo string `json:"repo"`
}

// Default returns a config with every default applied.
func Default() Config {
	return Config{
		Region: DefaultRegion,
		Theme:  DefaultTheme,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Update: UpdateConfig{
			Repo: DefaultUpdateRepo,
		},
	}
}

// DefaultDir returns the per-user application directory.
func DefaultDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(configDir, AppDirName)
}

// DefaultPath returns the default location of config.json.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), DefaultConfigFile)
}

// Load reads the JSON config at path and applies defaults for missing fields.
// A missing file is not an error. A .env file in the working directory is
// loaded first so RIOT_API_KEY can be supplied there.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyDefaults()
	if cfg.APIKey == "" {
		if key := strings.TrimSpace(os.Getenv(APIKeyEnv)); key != "" {
			cfg.APIKey = key
			cfg.apiKeyFromEnv = true
		}
	}
	if cfg.DataDir == "" {
		cfg.DataDir = filepath.Dir(path)
	}
	return &cfg, nil
}

// Save writes cfg to path, creating the parent directory.
func Save(path string, cfg *Config) error {
	if path == "" {
		path = DefaultPath()
	}
	out := *cfg
	if out.apiKeyFromEnv {
		out.APIKey = ""
	}
	data, err := json.MarshalIndent(out, "", "    ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}

// SetAPIKey stores a key that will be persisted on the next Save.
func (c *Config) SetAPIKey(key string) {
	c.APIKey = strings.TrimSpace(key)
	c.apiKeyFromEnv = false
}

// APIKeyFromEnv reports whether the active key came from the environment.
func (c *Config) APIKeyFromEnv() bool { return c.apiKeyFromEnv }

// AccountsPath is the accounts file inside the data directory.
func (c *Config) AccountsPath() string {
	return filepath.Join(c.DataDir, "accounts.json")
}

// BackupDir is the root that holds one session backup per account.
func (c *Config) BackupDir() string {
	return filepath.Join(c.DataDir, "account_backups")
}

func (c *Config) applyDefaults() {
	d := Default()
	if c.Region == "" {
		c.Region = d.Region
	}
	c.Region = strings.ToLower(strings.TrimSpace(c.Region))
	if c.Theme == "" {
		c.Theme = d.Theme
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
	if c.Update.Repo == "" {
		c.Update.Repo = d.Update.Repo
	}
}
