package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	reporter "github.com/M0r13n/go-gitlab-reporter"
)

var testMessage string

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "File a synthetic crash report end to end",
	Long: `Send a synthetic crash through the full reporting pipeline: fingerprint,
dedupe search, and issue creation. Running it twice demonstrates
deduplication: the second run adds a note to the first run's issue instead of
opening a new one.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := reporter.Init(cfg); err != nil && !errors.Is(err, reporter.ErrAlreadyInstalled) {
			return err
		}

		url, err := reporter.Capture(fmt.Errorf("synthetic crash: %s", testMessage))
		if err != nil {
			return fmt.Errorf("report failed: %w", err)
		}
		fmt.Printf("Report filed: %s\n", url)
		return nil
	},
}

func init() {
	testCmd.Flags().StringVar(&testMessage, "message", "glreporter self-test", "message for the synthetic crash")
	rootCmd.AddCommand(testCmd)
}
