package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	reporter "github.com/M0r13n/go-gitlab-reporter"
	"github.com/M0r13n/go-gitlab-reporter/internal/gitlab"
)

var (
	cfgFile     string
	flagURL     string
	flagToken   string
	flagProject int
)

var rootCmd = &cobra.Command{
	Use:   "glreporter",
	Short: "Report uncaught panics to a GitLab issue tracker",
	Long: `glreporter manages the configuration for go-gitlab-reporter and lets you
verify and exercise the reporting pipeline without crashing a real program.

Configuration is resolved from flags, GLREPORTER_* environment variables and
the config file (default $HOME/.glreporter/config.yaml), in that order.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.glreporter/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagURL, "url", "", "tracker base URL (e.g. https://gitlab.com)")
	rootCmd.PersistentFlags().StringVar(&flagToken, "token", "", "private API token")
	rootCmd.PersistentFlags().IntVar(&flagProject, "project", 0, "numeric project ID")
}

// initConfig reads in the config file and GLREPORTER_* environment variables.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			os.Exit(1)
		}
		viper.AddConfigPath(filepath.Join(home, ".glreporter"))
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("glreporter")
	viper.AutomaticEnv()

	// Config file found or not, flags and env still apply.
	_ = viper.ReadInConfig()
}

// loadConfig resolves the reporter configuration from flags, environment and
// config file, flags winning.
func loadConfig() (reporter.Config, error) {
	cfg := reporter.DefaultConfig()

	cfg.BaseURL = viper.GetString("url")
	cfg.Token = viper.GetString("token")
	cfg.ProjectID = viper.GetInt("project_id")
	cfg.AssigneeID = viper.GetInt("assignee_id")
	if v := viper.GetFloat64("rate_per_min"); v > 0 {
		cfg.ReportsPerMinute = v
	}
	if v := viper.GetInt("burst"); v > 0 {
		cfg.Burst = v
	}
	if v := viper.GetInt("timeout_secs"); v > 0 {
		cfg.RequestTimeout = time.Duration(v) * time.Second
	}

	if flagURL != "" {
		cfg.BaseURL = flagURL
	}
	if flagToken != "" {
		cfg.Token = flagToken
	}
	if flagProject != 0 {
		cfg.ProjectID = flagProject
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("incomplete configuration (run 'glreporter init'): %w", err)
	}
	return cfg, nil
}

// newClient builds a tracker client from the resolved configuration.
func newClient() (*gitlab.Client, reporter.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, cfg, err
	}
	return gitlab.NewClient(cfg.BaseURL, cfg.Token, cfg.ProjectID, cfg.RequestTimeout), cfg, nil
}
