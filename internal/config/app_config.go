package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// AppConfig represents the complete application configuration
type AppConfig struct {
	Export     ExportConfig     `toml:"export"`
	Import     ImportConfig     `toml:"import"`
	Jobs       JobsConfig       `toml:"jobs"`
	Validation ValidationConfig `toml:"validation"`
}

// ExportConfig contains object storage settings for generated exports
type ExportConfig struct {
	Bucket         string `toml:"bucket"`
	URLExpiryHours int    `toml:"url_expiry_hours"`
}

// ImportConfig contains limits applied to uploaded import files
type ImportConfig struct {
	MaxFileSizeMB int `toml:"max_file_size_mb"`
	MaxRows       int `toml:"max_rows"`
}

// JobsConfig contains scheduling intervals for background jobs
type JobsConfig struct {
	StockAlertIntervalMinutes     int `toml:"stock_alert_interval_minutes"`
	SnapshotWarmupIntervalMinutes int `toml:"snapshot_warmup_interval_minutes"`
}

// ValidationConfig contains tunable validation thresholds
type ValidationConfig struct {
	MinProfitMargin float64 `toml:"min_profit_margin"`
}

// DefaultAppConfig returns the configuration used when no file is provided.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		Export: ExportConfig{
			Bucket:         "koperasimart-exports",
			URLExpiryHours: 24,
		},
		Import: ImportConfig{
			MaxFileSizeMB: 10,
			MaxRows:       5000,
		},
		Jobs: JobsConfig{
			StockAlertIntervalMinutes:     30,
			SnapshotWarmupIntervalMinutes: 15,
		},
		Validation: ValidationConfig{
			MinProfitMargin: 10.0,
		},
	}
}

// LoadAppConfig loads configuration from a TOML file, applying defaults for
// any section the file omits.
func LoadAppConfig(filename string) (*AppConfig, error) {
	config := DefaultAppConfig()
	_, err := toml.DecodeFile(filename, config)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}
	return config, nil
}
