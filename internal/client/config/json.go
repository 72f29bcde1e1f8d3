package config

import (
	"fmt"
	"os"
	"time"

	"github.com/bytedance/sonic"
)

// Duration accepts either a Go duration string ("10s") or integer
// nanoseconds in JSON.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := sonic.ConfigStd.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		d.Duration = parsed
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
	return nil
}

// JSONConfig is the DTO for the config file. Empty strings and absent
// durations leave the current values alone, so a partial file keeps the
// defaults.
type JSONConfig struct {
	DraftDatabasePath string    `json:"draft_database_path"`
	AutosaveInterval  *Duration `json:"autosave_interval"`
	DraftMaxAge       *Duration `json:"draft_max_age"`
	DatabaseDSN       string    `json:"database_dsn"`
	S3Bucket          string    `json:"s3_bucket"`
	S3Region          string    `json:"s3_region"`
	S3BaseEndpoint    string    `json:"s3_base_endpoint"`
	S3AccessKey       string    `json:"s3_access_key"`
	S3SecretKey       string    `json:"s3_secret_key"`
	LogLevel          string    `json:"log_level"`
	LogFile           string    `json:"log_file"`
}

// parseJSON overlays cfg with the file named by -c/-config, if any.
func parseJSON(cfg *Config, args []string) error {
	path := configFilePath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	var jc JSONConfig
	if err := sonic.ConfigStd.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&cfg.DraftDatabasePath, jc.DraftDatabasePath)
	setString(&cfg.DatabaseDSN, jc.DatabaseDSN)
	setString(&cfg.S3Bucket, jc.S3Bucket)
	setString(&cfg.S3Region, jc.S3Region)
	setString(&cfg.S3BaseEndpoint, jc.S3BaseEndpoint)
	setString(&cfg.S3AccessKey, jc.S3AccessKey)
	setString(&cfg.S3SecretKey, jc.S3SecretKey)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFile, jc.LogFile)
	if jc.AutosaveInterval != nil {
		cfg.AutosaveInterval = jc.AutosaveInterval.Duration
	}
	if jc.DraftMaxAge != nil {
		cfg.DraftMaxAge = jc.DraftMaxAge.Duration
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
