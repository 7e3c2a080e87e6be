package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dt-pm-tools/git-autometa/internal/git"
	"github.com/dt-pm-tools/git-autometa/internal/jira"
	"github.com/spf13/cobra"
)

var startPush bool

var startWorkCmd = &cobra.Command{
	Use:   "start-work [issue-key]",
	Short: "Create and check out a work branch for a JIRA issue",
	Long: `Fetches a JIRA issue, derives a branch name from the configured pattern,
and creates/checks out that branch on top of an up-to-date default branch.
Without an issue key, your open assigned issues are listed to pick from.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}

		client, err := newJiraClient()
		if err != nil {
			return err
		}

		var issue *jira.Issue
		if len(args) == 1 {
			issue, err = client.GetIssue(args[0])
			if err != nil {
				return fmt.Errorf("fetching issue: %w", err)
			}
		} else {
			issue, err = pickIssue(client)
			if err != nil {
				return err
			}
			if issue == nil {
				return nil // cancelled
			}
		}

		branch := formatBranchName(appConfig, issue)
		fmt.Fprintf(os.Stderr, "Preparing branch %s for %s: %s\n", branch, issue.Key, issue.Fields.Summary)

		repo := git.New()
		finalBranch, err := repo.PrepareWorkBranch(branch)
		if err != nil {
			return fmt.Errorf("preparing branch: %w", err)
		}

		if startPush {
			if err := repo.PushBranch(finalBranch); err != nil {
				return fmt.Errorf("pushing branch: %w", err)
			}
			fmt.Fprintf(os.Stderr, "Pushed %s to origin\n", finalBranch)
		}

		fmt.Printf("Ready on branch: %s\n", finalBranch)
		fmt.Printf("Issue: %s\n", issue.BrowseURL(appConfig.Jira.URL))
		return nil
	},
}

// pickIssue lists open assigned issues and lets the user select one. Returns
// nil when the user cancels.
func pickIssue(client *jira.Client) (*jira.Issue, error) {
	issues, err := client.SearchMyIssues(15)
	if err != nil {
		return nil, fmt.Errorf("searching assigned issues: %w", err)
	}
	if len(issues) == 0 {
		return nil, fmt.Errorf("no open issues assigned to you; pass an issue key explicitly")
	}

	fmt.Println("Open issues assigned to you:")
	for i, issue := range issues {
		fmt.Printf(" %2d. %-12s %s\n", i+1, issue.Key, issue.Fields.Summary)
		fmt.Printf("     %s / %s\n", issue.Fields.IssueType.Name, issue.Fields.Status.Name)
	}
	fmt.Println("  0. Cancel")

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("Select an issue: ")
		line, _ := reader.ReadString('\n')
		choice, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil || choice < 0 || choice > len(issues) {
			fmt.Printf("Enter a number between 0 and %d\n", len(issues))
			continue
		}
		if choice == 0 {
			return nil, nil
		}
		// Re-fetch to get the full description.
		return client.GetIssue(issues[choice-1].Key)
	}
}

func init() {
	startWorkCmd.Flags().BoolVar(&startPush, "push", false, "push the new branch to origin")
	rootCmd.AddCommand(startWorkCmd)
}
