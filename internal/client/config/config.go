package config

import "time"

// Config holds runtime settings for the quote wizard CLI.
//
// Fields:
//   - DraftDatabasePath: SQLite file holding local drafts (":memory:" for a throwaway store).
//   - AutosaveInterval: how often the wizard snapshots itself into the draft store.
//   - DraftMaxAge: drafts older than this are ignored and purged at start-up; 0 keeps them forever.
//   - DatabaseDSN: PostgreSQL DSN of the quote backend; empty disables submission.
//   - S3*: object storage for the archived JSON copy of submitted quotes; empty bucket disables it.
//   - LogLevel / LogFile: slog level name and destination (stderr when empty).
//   - EditQuoteID: open an already submitted quote instead of starting a new one.
type Config struct {
	DraftDatabasePath string
	AutosaveInterval  time.Duration
	DraftMaxAge       time.Duration

	DatabaseDSN string

	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
	S3AccessKey    string
	S3SecretKey    string

	LogLevel string
	LogFile  string

	EditQuoteID string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DraftDatabasePath = "quotewizard.db"
	c.AutosaveInterval = 10 * time.Second
	c.DraftMaxAge = 30 * 24 * time.Hour
	c.S3Region = "eu-west-2"
	c.LogLevel = "warn"
}

// LoadConfig constructs a Config from defaults, then overlays the JSON file
// named by -c/-config, the environment and finally the command-line flags.
// args are the program arguments without the program name.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg, envLookup(dotEnvFile)); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ArchiveEnabled reports whether submitted quotes should be copied to S3.
func (c *Config) ArchiveEnabled() bool {
	return c.S3Bucket != ""
}
