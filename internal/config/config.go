package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the CLI's configuration.
type Config struct {
	// APIKey is the Plurk API key sent with every request.
	APIKey string

	// Host overrides the API host. Empty means the production host.
	Host string

	// Insecure uses plain HTTP for non-login calls.
	Insecure bool

	// Username is the default login name when -user is not given.
	Username string

	// TraceFile is the path of the request trace log. Empty disables
	// tracing.
	TraceFile string

	// ArchivePath is the path of the SQLite archive. Empty disables
	// archiving.
	ArchivePath string
}

// Load reads configuration from environment variables. Only the API key is
// required; flags may still override any of these.
func Load() (*Config, error) {
	apiKey := os.Getenv("PLURK_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("PLURK_API_KEY is required")
	}

	insecure := false
	if v := os.Getenv("PLURK_INSECURE"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid PLURK_INSECURE: %w", err)
		}
		insecure = parsed
	}

	return &Config{
		APIKey:      apiKey,
		Host:        os.Getenv("PLURK_HOST"),
		Insecure:    insecure,
		Username:    os.Getenv("PLURK_USERNAME"),
		TraceFile:   os.Getenv("PLURK_TRACE_FILE"),
		ArchivePath: os.Getenv("PLURK_ARCHIVE"),
	}, nil
}
