package reporter

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Config holds the process-wide reporter configuration. It is set once by
// Init and read-only afterwards.
type Config struct {
	// BaseURL is the tracker instance root, e.g. https://gitlab.com
	BaseURL string

	// Token is the private API token used for all tracker calls.
	Token string

	// ProjectID is the numeric ID of the project issues are filed under.
	ProjectID int

	// AssigneeID optionally assigns newly created issues to a user.
	// Zero means unassigned.
	AssigneeID int

	// ReportsPerMinute caps how many reports may reach the tracker.
	// Reports beyond the cap are dropped (and logged), which keeps a
	// crash-looping program from hammering the tracker.
	// Default: 6
	ReportsPerMinute float64

	// Burst is the rate limiter burst size.
	// Default: 3
	Burst int

	// RequestTimeout bounds each individual tracker call.
	// Default: 10s, Range: 1s-5m
	RequestTimeout time.Duration

	// Logger receives the reporter's diagnostic output. Defaults to the
	// standard logger.
	Logger *log.Logger
}

// DefaultConfig returns a Config with every tunable at its default.
// BaseURL, Token and ProjectID have no defaults and must be supplied.
func DefaultConfig() Config {
	return Config{
		ReportsPerMinute: 6,
		Burst:            3,
		RequestTimeout:   10 * time.Second,
	}
}

// ConfigFromEnv builds a Config from GLREPORTER_* environment variables,
// falling back to defaults for anything unset:
//
//	GLREPORTER_URL           tracker base URL
//	GLREPORTER_TOKEN         private API token
//	GLREPORTER_PROJECT_ID    numeric project ID
//	GLREPORTER_ASSIGNEE_ID   optional assignee user ID
//	GLREPORTER_RATE_PER_MIN  reports per minute
//	GLREPORTER_BURST         rate limiter burst
//	GLREPORTER_TIMEOUT_SECS  per-request timeout in seconds
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	cfg.BaseURL = os.Getenv("GLREPORTER_URL")
	cfg.Token = os.Getenv("GLREPORTER_TOKEN")

	if v := os.Getenv("GLREPORTER_PROJECT_ID"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid GLREPORTER_PROJECT_ID %q: %w", v, err)
		}
		cfg.ProjectID = id
	}
	if v := os.Getenv("GLREPORTER_ASSIGNEE_ID"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid GLREPORTER_ASSIGNEE_ID %q: %w", v, err)
		}
		cfg.AssigneeID = id
	}
	if v := os.Getenv("GLREPORTER_RATE_PER_MIN"); v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return cfg, fmt.Errorf("invalid GLREPORTER_RATE_PER_MIN %q: %w", v, err)
		}
		cfg.ReportsPerMinute = rate
	}
	if v := os.Getenv("GLREPORTER_BURST"); v != "" {
		burst, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid GLREPORTER_BURST %q: %w", v, err)
		}
		cfg.Burst = burst
	}
	if v := os.Getenv("GLREPORTER_TIMEOUT_SECS"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid GLREPORTER_TIMEOUT_SECS %q: %w", v, err)
		}
		cfg.RequestTimeout = time.Duration(secs) * time.Second
	}

	return cfg, nil
}

// withDefaults fills unset tunables so callers only have to supply the
// tracker coordinates.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.ReportsPerMinute == 0 {
		c.ReportsPerMinute = d.ReportsPerMinute
	}
	if c.Burst == 0 {
		c.Burst = d.Burst
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = d.RequestTimeout
	}
	return c
}

// Validate checks that the configuration is complete and in range.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL %q: %w", c.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base URL must be http or https (got %q)", c.BaseURL)
	}
	if c.Token == "" {
		return fmt.Errorf("token is required")
	}
	if c.ProjectID <= 0 {
		return fmt.Errorf("project ID must be positive (got %d)", c.ProjectID)
	}
	if c.AssigneeID < 0 {
		return fmt.Errorf("assignee ID cannot be negative (got %d)", c.AssigneeID)
	}
	if c.ReportsPerMinute <= 0 {
		return fmt.Errorf("reports per minute must be positive (got %g)", c.ReportsPerMinute)
	}
	if c.Burst < 1 {
		return fmt.Errorf("burst must be at least 1 (got %d)", c.Burst)
	}
	if c.RequestTimeout < time.Second || c.RequestTimeout > 5*time.Minute {
		return fmt.Errorf("request timeout must be between 1s and 5m (got %v)", c.RequestTimeout)
	}
	return nil
}
