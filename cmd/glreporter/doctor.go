package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	reporter "github.com/M0r13n/go-gitlab-reporter"
	"github.com/M0r13n/go-gitlab-reporter/internal/gitlab"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check reporter configuration and tracker health",
	Long: `Run health checks to diagnose common configuration and connectivity issues.

This command checks:
- Configuration completeness
- Tracker reachability
- Token validity
- Project access
- Issue API access

Exit codes:
  0 - All checks passed
  1 - One or more checks failed
  2 - Critical failures that prevent reporting entirely`,
	Run: func(cmd *cobra.Command, args []string) {
		green := color.New(color.FgGreen).SprintFunc()
		red := color.New(color.FgRed).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()

		fmt.Printf("Running glreporter health checks...\n\n")

		var failures []string
		var criticalFailures []string

		// Check 1: configuration
		fmt.Printf("%s Configuration\n", cyan("→"))
		client, cfg, err := newClient()
		if err != nil {
			criticalFailures = append(criticalFailures, err.Error())
			fmt.Printf("  %s %v\n", red("✗"), err)
			fmt.Printf("\n%s Critical failures prevent reporting\n", red("✗"))
			os.Exit(2)
		}
		fmt.Printf("  %s Tracker %s, project %d\n", green("✓"), cfg.BaseURL, cfg.ProjectID)

		ctx := context.Background()

		// Check 2: reachability, auth and project access in one round-trip
		fmt.Printf("%s Tracker access\n", cyan("→"))
		project, err := client.Ping(ctx)
		switch {
		case err == nil:
			fmt.Printf("  %s Project found: %s\n", green("✓"), project.PathWithNamespace)
		case errors.Is(err, gitlab.ErrNetwork):
			criticalFailures = append(criticalFailures, fmt.Sprintf("Tracker unreachable: %v", err))
			fmt.Printf("  %s Tracker unreachable\n", red("✗"))
		case errors.Is(err, gitlab.ErrAuth):
			criticalFailures = append(criticalFailures, fmt.Sprintf("Token rejected: %v", err))
			fmt.Printf("  %s Token rejected (check GLREPORTER_TOKEN)\n", red("✗"))
		case errors.Is(err, gitlab.ErrNotFound):
			criticalFailures = append(criticalFailures, fmt.Sprintf("Project %d not found", cfg.ProjectID))
			fmt.Printf("  %s Project %d not found\n", red("✗"), cfg.ProjectID)
		default:
			failures = append(failures, err.Error())
			fmt.Printf("  %s %v\n", red("✗"), err)
		}

		// Check 3: issue API
		fmt.Printf("%s Issue API\n", cyan("→"))
		if issues, err := client.ListIssues(ctx, gitlab.StateOpened, []string{reporter.IssueLabel}); err != nil {
			failures = append(failures, fmt.Sprintf("Issue listing failed: %v", err))
			fmt.Printf("  %s Issue listing failed\n", red("✗"))
		} else {
			fmt.Printf("  %s Issue API accessible (%d open crash issues)\n", green("✓"), len(issues))
			if len(issues) > 25 {
				fmt.Printf("  %s WARNING: large backlog of open crash issues\n", yellow("⚠"))
			}
		}

		fmt.Println()
		switch {
		case len(criticalFailures) > 0:
			fmt.Printf("%s Critical failures prevent reporting\n", red("✗"))
			os.Exit(2)
		case len(failures) > 0:
			fmt.Printf("%s %d check(s) failed\n", red("✗"), len(failures))
			os.Exit(1)
		default:
			fmt.Printf("%s All checks passed\n", green("✓"))
		}
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
