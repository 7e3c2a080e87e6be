package cmd

import (
	"fmt"
	"os"

	"github.com/dt-pm-tools/git-autometa/internal/config"
	"github.com/dt-pm-tools/git-autometa/internal/jira"
	"github.com/dt-pm-tools/git-autometa/internal/secrets"
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	appConfig config.Config
	version   = "0.2.0"
)

var rootCmd = &cobra.Command{
	Use:     "git-autometa",
	Short:   "Automate JIRA-driven git workflows",
	Long:    `git-autometa turns a JIRA issue into a work branch and later into a GitHub pull request, with the PR body rendered from the issue description.`,
	Version: version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.git-autometa.yaml)")
}

// loadConfig loads and validates configuration. Commands that need JIRA access call this.
func loadConfig() error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w\nRun 'git-autometa config' to set up credentials", err)
	}
	appConfig = cfg
	return nil
}

// newJiraClient builds a JIRA client, taking the API token from config/env
// first and the OS keyring second.
func newJiraClient() (*jira.Client, error) {
	token := appConfig.Jira.Token
	if token == "" {
		var err error
		token, err = secrets.GetJiraToken(appConfig.Jira.Email)
		if err != nil {
			return nil, fmt.Errorf("no JIRA token configured: %w\nRun 'git-autometa config' to store one", err)
		}
	}
	return jira.NewClient(appConfig.Jira.URL, appConfig.Jira.Email, token), nil
}
