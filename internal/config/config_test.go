package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "feature/{jira_id}-{jira_title}", cfg.Git.BranchPattern)
	assert.Equal(t, 50, cfg.Git.MaxBranchLength)
	assert.Equal(t, "{jira_id}: {jira_title}", cfg.PullRequest.TitlePattern)
	assert.True(t, cfg.PullRequest.Draft)
	assert.Equal(t, "main", cfg.PullRequest.BaseBranch)
	assert.Equal(t, DefaultTemplate, cfg.PullRequest.Template)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `jira:
  url: https://example.atlassian.net
  email: me@example.com
git:
  branch_pattern: "{jira_type}/{jira_id}"
  max_branch_length: 40
pull_request:
  draft: false
  base_branch: develop
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://example.atlassian.net", cfg.Jira.URL)
	assert.Equal(t, "me@example.com", cfg.Jira.Email)
	assert.Equal(t, "{jira_type}/{jira_id}", cfg.Git.BranchPattern)
	assert.Equal(t, 40, cfg.Git.MaxBranchLength)
	assert.False(t, cfg.PullRequest.Draft)
	assert.Equal(t, "develop", cfg.PullRequest.BaseBranch)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("jira:\n  url: https://file.atlassian.net\n"), 0600))

	t.Setenv("JIRA_URL", "https://env.atlassian.net")
	t.Setenv("JIRA_EMAIL", "env@example.com")
	t.Setenv("JIRA_TOKEN", "env-token")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://env.atlassian.net", cfg.Jira.URL)
	assert.Equal(t, "env@example.com", cfg.Jira.Email)
	assert.Equal(t, "env-token", cfg.Jira.Token)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	var cfg Config
	cfg.Jira.URL = "https://example.atlassian.net"
	cfg.Jira.Email = "me@example.com"
	cfg.GitHub.Owner = "acme"
	cfg.GitHub.Repo = "widgets"
	cfg.Git.BranchPattern = "feature/{jira_id}"
	cfg.Git.MaxBranchLength = 60
	cfg.PullRequest.TitlePattern = "{jira_id}: {jira_title}"
	cfg.PullRequest.BaseBranch = "main"
	cfg.PullRequest.Template = "body"

	require.NoError(t, Save(cfg, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Jira.URL, loaded.Jira.URL)
	assert.Equal(t, cfg.GitHub.Owner, loaded.GitHub.Owner)
	assert.Equal(t, cfg.Git.MaxBranchLength, loaded.Git.MaxBranchLength)
	assert.Equal(t, "body", loaded.PullRequest.Template)
}

func TestValidate(t *testing.T) {
	var cfg Config
	require.Error(t, cfg.Validate())

	cfg.Jira.URL = "https://example.atlassian.net"
	require.Error(t, cfg.Validate())

	cfg.Jira.Email = "me@example.com"
	assert.NoError(t, cfg.Validate())
}
