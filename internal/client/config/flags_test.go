package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		start    Config
		expected *Config
		wantErr  bool
	}{
		{
			name:  "all flags",
			args:  []string{"-d", "x.db", "-i", "30", "-max-age", "48h", "-dsn", "postgres://x", "-bucket", "b", "-region", "r", "-endpoint", "http://s3", "-log-level", "debug", "-log-file", "w.log", "-edit", "q-1"},
			start: Config{},
			expected: &Config{
				DraftDatabasePath: "x.db", AutosaveInterval: 30 * time.Second, DraftMaxAge: 48 * time.Hour,
				DatabaseDSN: "postgres://x", S3Bucket: "b", S3Region: "r", S3BaseEndpoint: "http://s3",
				LogLevel: "debug", LogFile: "w.log", EditQuoteID: "q-1",
			},
		},
		{
			name:     "interval untouched without -i",
			args:     []string{"-c", "ignored.json", "-d", "x.db"},
			start:    Config{AutosaveInterval: 1500 * time.Millisecond},
			expected: &Config{DraftDatabasePath: "x.db", AutosaveInterval: 1500 * time.Millisecond},
		},
		{
			name:    "incorrect interval",
			args:    []string{"-i", "abc"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.start
			err := parseFlags(&cfg, tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.expected, &cfg))
		})
	}
}
