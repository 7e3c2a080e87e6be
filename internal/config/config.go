package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds all git-autometa settings.
type Config struct {
	Jira        JiraConfig        `yaml:"jira"         mapstructure:"jira"`
	GitHub      GitHubConfig      `yaml:"github"       mapstructure:"github"`
	Git         GitConfig         `yaml:"git"          mapstructure:"git"`
	PullRequest PullRequestConfig `yaml:"pull_request" mapstructure:"pull_request"`
}

// JiraConfig holds JIRA connection settings. Token may be empty, in which
// case the OS keyring is consulted at runtime.
type JiraConfig struct {
	URL   string `yaml:"url"             mapstructure:"url"`
	Email string `yaml:"email"           mapstructure:"email"`
	Token string `yaml:"token,omitempty" mapstructure:"token"`
}

// GitHubConfig optionally pins gh operations to a repository.
type GitHubConfig struct {
	Owner string `yaml:"owner,omitempty" mapstructure:"owner"`
	Repo  string `yaml:"repo,omitempty"  mapstructure:"repo"`
}

// GitConfig controls branch naming. BranchPattern supports the placeholders
// {jira_id}, {jira_title}, and {jira_type}.
type GitConfig struct {
	BranchPattern   string `yaml:"branch_pattern"    mapstructure:"branch_pattern"`
	MaxBranchLength int    `yaml:"max_branch_length" mapstructure:"max_branch_length"`
}

// PullRequestConfig controls PR creation. TitlePattern and Template support
// the branch placeholders plus {jira_url}, {jira_description}, and
// {commit_messages}.
type PullRequestConfig struct {
	TitlePattern string `yaml:"title_pattern" mapstructure:"title_pattern"`
	Draft        bool   `yaml:"draft"         mapstructure:"draft"`
	BaseBranch   string `yaml:"base_branch"   mapstructure:"base_branch"`
	Template     string `yaml:"template"      mapstructure:"template"`
}

// DefaultTemplate is the PR body used when no template is configured.
const DefaultTemplate = `## Summary

Resolves [{jira_id}]({jira_url}): {jira_title}

{jira_description}

## Commits

{commit_messages}
`

// DefaultPath returns the default config file path (~/.git-autometa.yaml).
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".git-autometa.yaml"
	}
	return filepath.Join(home, ".git-autometa.yaml")
}

// Load reads config from the YAML file and applies env var overrides.
// configPath may be empty to use the default path.
func Load(configPath string) (Config, error) {
	// A local .env can supply the env overrides below (useful in CI).
	_ = godotenv.Load()

	v := viper.New()

	if configPath == "" {
		configPath = DefaultPath()
	}

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	v.SetDefault("git.branch_pattern", "feature/{jira_id}-{jira_title}")
	v.SetDefault("git.max_branch_length", 50)
	v.SetDefault("pull_request.title_pattern", "{jira_id}: {jira_title}")
	v.SetDefault("pull_request.draft", true)
	v.SetDefault("pull_request.base_branch", "main")
	v.SetDefault("pull_request.template", DefaultTemplate)

	// Env var overrides
	v.BindEnv("jira.url", "JIRA_URL")
	v.BindEnv("jira.email", "JIRA_EMAIL")
	v.BindEnv("jira.token", "JIRA_TOKEN")
	v.BindEnv("github.owner", "GITHUB_OWNER")
	v.BindEnv("github.repo", "GITHUB_REPO")

	// Read the config file (ignore "not found" errors so env vars still work)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Validate checks that required fields are present.
func (c Config) Validate() error {
	if c.Jira.URL == "" {
		return fmt.Errorf("JIRA URL is required (set in config file or JIRA_URL env var)")
	}
	if c.Jira.Email == "" {
		return fmt.Errorf("JIRA email is required (set in config file or JIRA_EMAIL env var)")
	}
	return nil
}

// Save writes the config to the given path (or default path if empty).
func Save(cfg Config, configPath string) error {
	if configPath == "" {
		configPath = DefaultPath()
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
