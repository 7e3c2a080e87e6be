package cmd

import (
	"fmt"
	"os"

	"github.com/dt-pm-tools/git-autometa/internal/git"
	"github.com/dt-pm-tools/git-autometa/internal/github"
	"github.com/spf13/cobra"
)

var (
	prBaseBranch string
	prNoDraft    bool
	prDryRun     bool
)

var createPRCmd = &cobra.Command{
	Use:   "create-pr",
	Short: "Open a GitHub pull request for the current branch",
	Long: `Derives the JIRA issue key from the current branch name, renders the PR
title and body from the configured templates (with the issue description
converted to Markdown), and opens the pull request via the gh CLI.

Use --dry-run to print the title and body without creating anything.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return err
		}

		repo := git.New()
		head, err := repo.CurrentBranch()
		if err != nil {
			return fmt.Errorf("determining current branch: %w", err)
		}

		key, ok := issueKeyFromBranch(head)
		if !ok {
			return fmt.Errorf("no JIRA issue key found in branch name %q", head)
		}

		client, err := newJiraClient()
		if err != nil {
			return err
		}
		issue, err := client.GetIssue(key)
		if err != nil {
			return fmt.Errorf("fetching issue %s: %w", key, err)
		}

		gh := github.NewClient(appConfig.GitHub.Owner, appConfig.GitHub.Repo)

		base := prBaseBranch
		if base == "" {
			base = appConfig.PullRequest.BaseBranch
		}
		if base == "" {
			base = gh.DefaultBranch()
		}

		commits, err := repo.CommitSubjects(base)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not list commits against %s: %v\n", base, err)
			commits = nil
		}

		title := formatPRTitle(appConfig, issue)
		body := renderPRBody(appConfig, issue, commits)
		draft := appConfig.PullRequest.Draft && !prNoDraft

		if prDryRun {
			fmt.Fprintf(os.Stderr, "Dry run: would open PR %s -> %s (draft: %v)\n\n", head, base, draft)
			fmt.Printf("%s\n\n%s", title, body)
			return nil
		}

		if err := gh.TestConnection(); err != nil {
			return err
		}

		// Don't open a duplicate if this branch already has a PR.
		if existing, err := gh.PullRequestForBranch(head); err == nil && existing != nil {
			fmt.Printf("Branch %s already has a pull request: %s\n", head, existing.URL)
			return nil
		}

		prURL, err := gh.CreatePullRequest(title, body, head, base, draft)
		if err != nil {
			return fmt.Errorf("creating pull request: %w", err)
		}

		fmt.Printf("Created pull request: %s\n", prURL)
		return nil
	},
}

func init() {
	createPRCmd.Flags().StringVar(&prBaseBranch, "base-branch", "", "base branch for the PR (overrides config)")
	createPRCmd.Flags().BoolVar(&prNoDraft, "no-draft", false, "create the PR ready for review")
	createPRCmd.Flags().BoolVar(&prDryRun, "dry-run", false, "print the PR title and body without creating it")
	rootCmd.AddCommand(createPRCmd)
}
