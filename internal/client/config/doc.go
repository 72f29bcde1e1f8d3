// Package config loads runtime configuration for the quote wizard CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via flags: -c or -config.
//  3. Environment variables QUOTES_*, with a .env file in the working
//     directory as fallback (loaded with godotenv, never overriding the
//     real environment).
//  4. Command-line flags, which override earlier values.
//
// # JSON schema
//
// Durations can be either strings like "10s" or integer nanoseconds:
//
//	{
//	  "draft_database_path": "/home/me/.quotewizard/drafts.db",
//	  "autosave_interval": "10s",
//	  "draft_max_age": "720h",
//	  "database_dsn": "postgres://quotes@localhost:5432/quotes",
//	  "s3_bucket": "quote-archive",
//	  "s3_region": "eu-west-2"
//	}
//
// Environment
//
//	QUOTES_DRAFT_DB, QUOTES_AUTOSAVE_INTERVAL, QUOTES_DRAFT_MAX_AGE,
//	QUOTES_DATABASE_DSN, QUOTES_S3_BUCKET, QUOTES_S3_REGION,
//	QUOTES_S3_ENDPOINT, QUOTES_S3_ACCESS_KEY, QUOTES_S3_SECRET_KEY,
//	QUOTES_LOG_LEVEL, QUOTES_LOG_FILE
package config
