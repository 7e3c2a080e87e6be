package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dt-pm-tools/git-autometa/internal/markdown"
	"github.com/spf13/cobra"
)

var issueOutputDir string

var issueCmd = &cobra.Command{
	Use:   "issue <issue-key>",
	Short: "Fetch a JIRA issue and print it as Markdown",
	Long:  `Fetches a JIRA issue by key and prints it as Markdown, with the description converted from JIRA markup. Writes to stdout by default, or to a file with --output-dir.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}

		client, err := newJiraClient()
		if err != nil {
			return err
		}

		issueKey := strings.ToUpper(args[0])
		issue, err := client.GetIssue(issueKey)
		if err != nil {
			return fmt.Errorf("fetching issue %s: %w", issueKey, err)
		}

		var b strings.Builder
		b.WriteString(fmt.Sprintf("# %s: %s\n\n", issue.Key, issue.Fields.Summary))
		b.WriteString(fmt.Sprintf("**Type:** %s · **Status:** %s", issue.Fields.IssueType.Name, issue.Fields.Status.Name))
		if issue.Fields.Assignee != nil {
			b.WriteString(fmt.Sprintf(" · **Assignee:** %s", issue.Fields.Assignee.DisplayName))
		}
		b.WriteString("\n\n")
		if desc := markdown.ConvertDescription(issue.Fields.Description); desc != "" {
			b.WriteString(desc)
			b.WriteString("\n")
		} else {
			b.WriteString("(No description)\n")
		}
		b.WriteString(fmt.Sprintf("\n%s\n", issue.BrowseURL(appConfig.Jira.URL)))
		md := b.String()

		if issueOutputDir != "" {
			if err := os.MkdirAll(issueOutputDir, 0755); err != nil {
				return fmt.Errorf("creating output directory: %w", err)
			}
			filename := filepath.Join(issueOutputDir, issue.Key+".md")
			if err := os.WriteFile(filename, []byte(md), 0644); err != nil {
				return fmt.Errorf("writing file: %w", err)
			}
			fmt.Fprintf(os.Stderr, "Written to %s\n", filename)
		} else {
			fmt.Print(md)
		}

		return nil
	},
}

func init() {
	issueCmd.Flags().StringVar(&issueOutputDir, "output-dir", "", "write output to <dir>/<KEY>.md instead of stdout")
	rootCmd.AddCommand(issueCmd)
}
