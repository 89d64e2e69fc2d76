// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap/zapcore"

	"github.com/javiermolinar/horario/internal/dateutil"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "HORARIO_"

// Config holds the application configuration.
type Config struct {
	School  SchoolConfig  `toml:"school"`
	Storage StorageConfig `toml:"storage"`
	LLM     LLMConfig     `toml:"llm"`
	UI      UIConfig      `toml:"ui"`
	Alerts  AlertsConfig  `toml:"alerts"`
	Admin   AdminConfig   `toml:"admin"`
	Server  ServerConfig  `toml:"server"`
	Log     LogConfig     `toml:"log"`
}

// SchoolConfig holds school calendar settings.
type SchoolConfig struct {
	Weekdays []string `toml:"weekdays"` // days offered by the editor, e.g. ["monday", ...]
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

// LLMConfig holds LLM provider settings.
type LLMConfig struct {
	Provider string `toml:"provider"` // "copilot", "ollama", "lmstudio"
	Model    string `toml:"model"`    // e.g., "gpt-4o"
	BaseURL  string `toml:"base_url"` // e.g., "http://localhost:11434"
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme string `toml:"theme"` // built-in name or path to a .toml theme file
}

// AlertsConfig holds bell settings.
type AlertsConfig struct {
	Enabled          bool   `toml:"enabled"`
	BellDuration     string `toml:"bell_duration"`      // e.g., "2s"
	BreakEndDuration string `toml:"break_end_duration"` // e.g., "4s"
}

// AdminConfig holds editing access settings.
type AdminConfig struct {
	PINHash string `toml:"pin_hash"` // bcrypt hash; empty leaves editing open
}

// ServerConfig holds HTTP settings.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // console or json
	Path   string `toml:"path"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		School: SchoolConfig{
			Weekdays: []string{"monday", "tuesday", "wednesday", "thursday", "friday"},
		},
		Storage: StorageConfig{
			DBPath: defaultDataPath("horario.db"),
		},
		LLM: LLMConfig{
			Provider: "copilot",
			Model:    "gpt-4o",
			BaseURL:  "http://localhost:11434",
		},
		UI: UIConfig{
			Theme: "frappe",
		},
		Alerts: AlertsConfig{
			Enabled:          true,
			BellDuration:     "2s",
			BreakEndDuration: "4s",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
			Path:   defaultDataPath("horario.log"),
		},
	}
}

// defaultDataPath returns a path inside the user data directory.
func defaultDataPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return filepath.Join(home, ".local", "share", "horario", name)
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "horario", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, loads .env
// files, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	// Try to load from file (not an error if it doesn't exist)
	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	if err := loadDotEnv(filepath.Join(filepath.Dir(path), ".env"), ".env"); err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)
	cfg.Log.Path = expandPath(cfg.Log.Path)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// loadDotEnv loads the existing files among paths into the process
// environment. Variables already set are not overwritten.
func loadDotEnv(paths ...string) error {
	var existing []string
	seen := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil || seen[abs] {
			continue
		}
		seen[abs] = true
		if _, err := os.Stat(abs); err == nil {
			existing = append(existing, abs)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("loading .env: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) error {
	if v := getenv("WEEKDAYS"); v != "" {
		cfg.School.Weekdays = splitList(v)
	}

	if v := getenv("DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}

	if v := getenv("LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := getenv("LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}

	if v := getenv("UI_THEME"); v != "" {
		cfg.UI.Theme = v
	}

	if v := getenv("ALERTS_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sALERTS_ENABLED: %w", EnvPrefix, err)
		}
		cfg.Alerts.Enabled = enabled
	}
	if v := getenv("BELL_DURATION"); v != "" {
		cfg.Alerts.BellDuration = v
	}
	if v := getenv("BREAK_END_DURATION"); v != "" {
		cfg.Alerts.BreakEndDuration = v
	}

	if v := getenv("ADMIN_PIN_HASH"); v != "" {
		cfg.Admin.PINHash = v
	}

	if v := getenv("SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}

	if v := getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := getenv("LOG_PATH"); v != "" {
		cfg.Log.Path = v
	}

	return nil
}

func getenv(key string) string {
	return strings.TrimSpace(os.Getenv(EnvPrefix + key))
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if len(c.School.Weekdays) == 0 {
		return errors.New("at least one weekday must be configured")
	}
	for _, day := range c.School.Weekdays {
		if !dateutil.IsWeekdayName(day) {
			return fmt.Errorf("invalid weekday: %s", day)
		}
	}

	if c.Storage.DBPath == "" {
		return errors.New("db_path must be set")
	}

	if _, err := parseDuration(c.Alerts.BellDuration, "bell_duration"); err != nil {
		return err
	}
	if _, err := parseDuration(c.Alerts.BreakEndDuration, "break_end_duration"); err != nil {
		return err
	}

	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log format must be 'console' or 'json', got %q", c.Log.Format)
	}

	if c.Server.Addr == "" {
		return errors.New("server addr must be set")
	}

	return nil
}

func parseDuration(s, field string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration like \"2s\", got %q", field, s)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %q", field, s)
	}
	return d, nil
}

// BellDuration returns the regular ring length.
func (c *Config) BellDuration() time.Duration {
	d, err := parseDuration(c.Alerts.BellDuration, "bell_duration")
	if err != nil {
		return 2 * time.Second
	}
	return d
}

// BreakEndDuration returns the ring length at the end of a break.
func (c *Config) BreakEndDuration() time.Duration {
	d, err := parseDuration(c.Alerts.BreakEndDuration, "break_end_duration")
	if err != nil {
		return 4 * time.Second
	}
	return d
}

// Weekdays returns the configured school weekdays in configured order.
func (c *Config) Weekdays() []time.Weekday {
	out := make([]time.Weekday, 0, len(c.School.Weekdays))
	for _, name := range c.School.Weekdays {
		if !dateutil.IsWeekdayName(name) {
			continue
		}
		d, err := dateutil.ParseWeekday(name, time.Time{})
		if err != nil {
			continue
		}
		out = append(out, d)
	}
	return out
}

// IsSchoolDay returns true if day is a configured school weekday.
func (c *Config) IsSchoolDay(day time.Weekday) bool {
	for _, d := range c.Weekdays() {
		if d == day {
			return true
		}
	}
	return false
}

// HasPIN reports whether an admin PIN is configured.
func (c *Config) HasPIN() bool {
	return c.Admin.PINHash != ""
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
