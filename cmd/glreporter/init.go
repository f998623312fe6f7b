package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// fileConfig is the on-disk shape of $HOME/.glreporter/config.yaml.
type fileConfig struct {
	URL         string  `yaml:"url"`
	Token       string  `yaml:"token"`
	ProjectID   int     `yaml:"project_id"`
	AssigneeID  int     `yaml:"assignee_id,omitempty"`
	RatePerMin  float64 `yaml:"rate_per_min,omitempty"`
	Burst       int     `yaml:"burst,omitempty"`
	TimeoutSecs int     `yaml:"timeout_secs,omitempty"`
}

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter configuration file",
	Long: `Write a starter config.yaml. Values given via --url, --token and
--project are filled in; everything else gets a sensible default.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("finding home directory: %w", err)
			}
			path = filepath.Join(home, ".glreporter", "config.yaml")
		}

		if _, err := os.Stat(path); err == nil && !initForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}

		data, err := yaml.Marshal(starterConfig())
		if err != nil {
			return fmt.Errorf("rendering config: %w", err)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
		// Token lives in this file, keep it private.
		if err := os.WriteFile(path, data, 0o600); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Wrote %s\n", path)
		return nil
	},
}

// starterConfig builds the template written by init, seeded from any global
// flags the user passed.
func starterConfig() fileConfig {
	cfg := fileConfig{
		URL:         "https://gitlab.com",
		RatePerMin:  6,
		Burst:       3,
		TimeoutSecs: 10,
	}
	if flagURL != "" {
		cfg.URL = flagURL
	}
	if flagToken != "" {
		cfg.Token = flagToken
	}
	if flagProject != 0 {
		cfg.ProjectID = flagProject
	}
	return cfg
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}
