package main

import (
	"testing"

	"gopkg.in/yaml.v3"
)

func TestStarterConfigRoundTrips(t *testing.T) {
	flagURL = "https://gitlab.example.com"
	flagToken = "glpat-test"
	flagProject = 42
	t.Cleanup(func() {
		flagURL, flagToken, flagProject = "", "", 0
	})

	data, err := yaml.Marshal(starterConfig())
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("generated config does not parse: %v", err)
	}

	if cfg.URL != "https://gitlab.example.com" {
		t.Errorf("URL = %q", cfg.URL)
	}
	if cfg.Token != "glpat-test" {
		t.Errorf("Token = %q", cfg.Token)
	}
	if cfg.ProjectID != 42 {
		t.Errorf("ProjectID = %d, want 42", cfg.ProjectID)
	}
	if cfg.RatePerMin != 6 || cfg.Burst != 3 || cfg.TimeoutSecs != 10 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestStarterConfigDefaultURL(t *testing.T) {
	cfg := starterConfig()
	if cfg.URL != "https://gitlab.com" {
		t.Errorf("URL = %q, want the public instance default", cfg.URL)
	}
}
