package cmd

import (
	"fmt"
	"os"

	"github.com/dt-pm-tools/git-autometa/internal/config"
	"github.com/dt-pm-tools/git-autometa/internal/git"
	"github.com/dt-pm-tools/git-autometa/internal/github"
	"github.com/dt-pm-tools/git-autometa/internal/secrets"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show repository, configuration, and credential status",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		fmt.Println("Repository:")
		repo := git.New()
		branch, err := repo.CurrentBranch()
		if err != nil {
			fmt.Println("  Current branch: (not a git repository)")
		} else {
			fmt.Printf("  Current branch: %s\n", branch)
			if key, ok := issueKeyFromBranch(branch); ok {
				fmt.Printf("  Issue key:      %s\n", key)
			} else {
				fmt.Println("  Issue key:      (none in branch name)")
			}
		}
		if remote, err := repo.RemoteURL("origin"); err == nil && remote != "" {
			fmt.Printf("  Remote origin:  %s\n", remote)
		} else {
			fmt.Println("  Remote origin:  (not set)")
		}

		fmt.Println()
		fmt.Println("Configuration:")
		path := cfgFile
		if path == "" {
			path = config.DefaultPath()
		}
		if _, err := os.Stat(path); err == nil {
			fmt.Printf("  Config file:    %s\n", path)
		} else {
			fmt.Printf("  Config file:    %s (missing)\n", path)
		}
		fmt.Printf("  JIRA URL:       %s\n", orUnset(cfg.Jira.URL))
		fmt.Printf("  JIRA email:     %s\n", orUnset(cfg.Jira.Email))
		fmt.Printf("  Branch pattern: %s\n", cfg.Git.BranchPattern)
		fmt.Printf("  PR base branch: %s\n", cfg.PullRequest.BaseBranch)

		fmt.Println()
		fmt.Println("Credentials:")
		tokenStatus := "not configured"
		if cfg.Jira.Token != "" {
			tokenStatus = "present (config/env)"
		} else if cfg.Jira.Email != "" {
			if _, err := secrets.GetJiraToken(cfg.Jira.Email); err == nil {
				tokenStatus = "present (keyring)"
			} else {
				tokenStatus = "missing"
			}
		}
		fmt.Printf("  JIRA token:     %s\n", tokenStatus)

		gh := github.NewClient(cfg.GitHub.Owner, cfg.GitHub.Repo)
		if err := gh.TestConnection(); err == nil {
			fmt.Println("  GitHub CLI:     authenticated")
		} else {
			fmt.Printf("  GitHub CLI:     %v\n", err)
		}

		return nil
	},
}

func orUnset(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
