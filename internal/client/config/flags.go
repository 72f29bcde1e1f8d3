package config

import (
	"flag"
	"io"
	"time"
)

var ownFlags = []string{"-d", "-i", "-max-age", "-dsn", "-bucket", "-region", "-endpoint", "-log-level", "-log-file", "-edit"}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-d string          path of the local draft database
//	-i int             autosave interval (in seconds)
//	-max-age duration  drafts older than this are discarded (0 keeps them)
//	-dsn string        PostgreSQL DSN of the quote backend
//	-bucket string     S3 bucket for archived quotes
//	-region string     S3 region
//	-endpoint string   S3-compatible endpoint URL
//	-log-level string  debug, info, warn or error
//	-log-file string   write logs to this file instead of stderr
//	-edit string       id of a submitted quote to edit
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.DraftDatabasePath, "d", cfg.DraftDatabasePath, "path of the local draft database")
	autosave := fs.Int("i", int(cfg.AutosaveInterval.Seconds()), "autosave interval (in seconds)")
	fs.DurationVar(&cfg.DraftMaxAge, "max-age", cfg.DraftMaxAge, "maximum draft age, 0 keeps drafts forever")
	fs.StringVar(&cfg.DatabaseDSN, "dsn", cfg.DatabaseDSN, "PostgreSQL DSN of the quote backend")
	fs.StringVar(&cfg.S3Bucket, "bucket", cfg.S3Bucket, "S3 bucket for archived quotes")
	fs.StringVar(&cfg.S3Region, "region", cfg.S3Region, "S3 region")
	fs.StringVar(&cfg.S3BaseEndpoint, "endpoint", cfg.S3BaseEndpoint, "S3-compatible endpoint URL")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "log file")
	fs.StringVar(&cfg.EditQuoteID, "edit", cfg.EditQuoteID, "id of a submitted quote to edit")

	if err := fs.Parse(filterArgs(args, ownFlags)); err != nil {
		return err
	}

	// Keep sub-second intervals from JSON or env unless -i was given.
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "i" {
			cfg.AutosaveInterval = time.Duration(*autosave) * time.Second
		}
	})
	return nil
}
