// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/roomclerk/roomclerk/internal/weekday"
)

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Filename string `yaml:"filename"`
}

// BookingConfig holds the defaults seeded on first start and the knobs of the
// meeting surfaces.
type BookingConfig struct {
	// Default availability window, used only when none has been saved yet.
	DefaultOpensAt  string   `yaml:"default_opens_at"`
	DefaultClosesAt string   `yaml:"default_closes_at"`
	DefaultDays     []string `yaml:"default_days"`

	// FutureListLimit caps the meeting listing when the client gives no limit.
	FutureListLimit int `yaml:"future_list_limit"`

	// Meetings older than RetentionDays are purged by the nightly job.
	// Zero disables the job.
	RetentionDays int    `yaml:"retention_days"`
	RetentionCron string `yaml:"retention_cron"`
}

type Config struct {
	App struct {
		Name            string `yaml:"name"`
		Environment     string `yaml:"environment"`
		Port            int    `yaml:"port"`
		ShutdownSeconds int    `yaml:"shutdown_seconds"`
	} `yaml:"app"`

	Database DatabaseConfig `yaml:"database"`

	Booking BookingConfig `yaml:"booking"`
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	var cfg Config
	cfg.App.Name = "roomclerk"
	cfg.App.Environment = "development"
	cfg.App.Port = 8080
	cfg.App.ShutdownSeconds = 30
	cfg.Database.Driver = "sqlite"
	cfg.Database.Filename = "data/roomclerk.db"
	cfg.Booking = BookingConfig{
		DefaultOpensAt:  "07:00",
		DefaultClosesAt: "17:00",
		DefaultDays:     []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"},
		FutureListLimit: 10,
		RetentionDays:   365,
		RetentionCron:   "0 3 * * *",
	}
	return &cfg
}

// Load loads both .env and yaml configuration. A missing config file falls
// back to Default.
func Load(configPath string) (*Config, error) {
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	cfg := Default()

	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}
	if c.App.Port == 0 {
		return fmt.Errorf("app port is required")
	}
	if c.Database.Driver != "sqlite" {
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}
	if c.Database.Filename == "" {
		return fmt.Errorf("database filename is required for sqlite")
	}
	if _, err := c.Booking.DefaultDaySet(); err != nil {
		return err
	}
	if len(c.Booking.DefaultDays) == 0 {
		return fmt.Errorf("at least one default booking day is required")
	}
	if c.Booking.RetentionDays < 0 {
		return fmt.Errorf("retention_days must be 0 or greater")
	}
	return nil
}

// DefaultDaySet decodes the configured default days.
func (b BookingConfig) DefaultDaySet() (weekday.Set, error) {
	days, err := weekday.FromNames(b.DefaultDays)
	if err != nil {
		return 0, fmt.Errorf("invalid default_days: %w", err)
	}
	return days, nil
}
