package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// dotEnvFile is read when present; real environment variables win over it.
var dotEnvFile = ".env"

const (
	envDraftDB          = "QUOTES_DRAFT_DB"
	envAutosaveInterval = "QUOTES_AUTOSAVE_INTERVAL"
	envDraftMaxAge      = "QUOTES_DRAFT_MAX_AGE"
	envDatabaseDSN      = "QUOTES_DATABASE_DSN"
	envS3Bucket         = "QUOTES_S3_BUCKET"
	envS3Region         = "QUOTES_S3_REGION"
	envS3Endpoint       = "QUOTES_S3_ENDPOINT"
	envS3AccessKey      = "QUOTES_S3_ACCESS_KEY"
	envS3SecretKey      = "QUOTES_S3_SECRET_KEY"
	envLogLevel         = "QUOTES_LOG_LEVEL"
	envLogFile          = "QUOTES_LOG_FILE"
)

type lookupFunc func(key string) (string, bool)

// envLookup resolves keys from the process environment, falling back to the
// dotenv file at path. A missing or unreadable file is ignored.
func envLookup(path string) lookupFunc {
	fileVars, err := godotenv.Read(path)
	if err != nil {
		fileVars = nil
	}
	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fileVars[key]
		return v, ok
	}
}

func parseEnv(cfg *Config, lookup lookupFunc) error {
	strs := map[string]*string{
		envDraftDB:     &cfg.DraftDatabasePath,
		envDatabaseDSN: &cfg.DatabaseDSN,
		envS3Bucket:    &cfg.S3Bucket,
		envS3Region:    &cfg.S3Region,
		envS3Endpoint:  &cfg.S3BaseEndpoint,
		envS3AccessKey: &cfg.S3AccessKey,
		envS3SecretKey: &cfg.S3SecretKey,
		envLogLevel:    &cfg.LogLevel,
		envLogFile:     &cfg.LogFile,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	durations := map[string]*time.Duration{
		envAutosaveInterval: &cfg.AutosaveInterval,
		envDraftMaxAge:      &cfg.DraftMaxAge,
	}
	for key, dst := range durations {
		v, ok := lookup(key)
		if !ok || v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = d
	}
	return nil
}
