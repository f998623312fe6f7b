package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	reporter "github.com/M0r13n/go-gitlab-reporter"
	"github.com/M0r13n/go-gitlab-reporter/internal/gitlab"
)

var issuesState string

var issuesCmd = &cobra.Command{
	Use:   "issues",
	Short: "List auto-filed crash issues",
	RunE: func(cmd *cobra.Command, args []string) error {
		state := gitlab.State(issuesState)
		switch state {
		case gitlab.StateOpened, gitlab.StateClosed, gitlab.StateAll:
		default:
			return fmt.Errorf("invalid --state %q (want opened, closed or all)", issuesState)
		}

		client, _, err := newClient()
		if err != nil {
			return err
		}

		issues, err := client.ListIssues(context.Background(), state, []string{reporter.IssueLabel})
		if err != nil {
			return err
		}
		if len(issues) == 0 {
			fmt.Println("No crash issues found.")
			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.Header("IID", "State", "Title", "URL")
		for _, issue := range issues {
			table.Append(strconv.Itoa(issue.IID), issue.State, issue.Title, issue.WebURL)
		}
		table.Render()
		return nil
	},
}

func init() {
	issuesCmd.Flags().StringVar(&issuesState, "state", "opened", "issue state filter: opened, closed or all")
	rootCmd.AddCommand(issuesCmd)
}
