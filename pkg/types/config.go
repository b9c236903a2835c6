// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout bounds each HTTP request; expiry counts as a transport failure.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "impact-finder/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// EutilsConfig holds settings for the NCBI E-utilities client.
type EutilsConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the E-utilities root, without a trailing slash.
	BaseURL string `json:"base_url" yaml:"base_url"`

	// APIKey is an optional NCBI API key for higher rate limits.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Tool and Email identify the caller to NCBI. Both are optional.
	Tool  string `json:"tool,omitempty" yaml:"tool,omitempty"`
	Email string `json:"email,omitempty" yaml:"email,omitempty"`

	// MaxAttempts is the total number of tries per request (default 3).
	MaxAttempts int `json:"max_attempts" yaml:"max_attempts"`

	// RetryDelay is the fixed wait between attempts (default 1s).
	RetryDelay time.Duration `json:"retry_delay" yaml:"retry_delay"`

	// MaxIDs caps the number of PMIDs requested from esearch (default 1000).
	MaxIDs int `json:"max_ids" yaml:"max_ids"`

	// BatchSize is the number of PMIDs per esummary request (default 200).
	BatchSize int `json:"batch_size" yaml:"batch_size"`

	// BatchPause is the wait after one esummary batch finishes and before
	// the next one starts (default 500ms).
	BatchPause time.Duration `json:"batch_pause" yaml:"batch_pause"`

	// RequestsPerSecond caps the request rate of one client across all
	// callers. Zero selects NCBI's limit (3, or 10 with an API key); a
	// negative value disables the cap.
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`
}

// OpenAlexConfig holds settings for the optional OpenAlex journal metrics
// lookup.
type OpenAlexConfig struct {
	HTTPConfig `yaml:",inline"`

	// Enabled turns the lookup on. It is off by default.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// BaseURL is the OpenAlex API root, without a trailing slash.
	BaseURL string `json:"base_url" yaml:"base_url"`

	// Mailto is sent with every request to join OpenAlex's polite pool.
	Mailto string `json:"mailto,omitempty" yaml:"mailto,omitempty"`

	// RequestsPerSecond caps the lookup rate (default 10). A negative value
	// disables the cap.
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`
}

// ServerConfig holds settings for the web form server.
type ServerConfig struct {
	Address      string        `json:"address" yaml:"address"`
	ReadTimeout  time.Duration `json:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout" yaml:"write_timeout"`
}

// LogConfig selects the log level and output format (json or console).
type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
}

// Config groups the settings of every component.
type Config struct {
	Eutils   EutilsConfig   `json:"eutils" yaml:"eutils"`
	OpenAlex OpenAlexConfig `json:"openalex" yaml:"openalex"`
	Server   ServerConfig   `json:"server" yaml:"server"`
	Log      LogConfig      `json:"log" yaml:"log"`
}
