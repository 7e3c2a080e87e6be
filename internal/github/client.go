package github

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
)

// runner executes an external command and returns its stdout/stderr. Tests
// swap it for a fake.
type runner func(name string, args ...string) (stdout, stderr string, err error)

// Client provides GitHub operations through the gh CLI, which carries its own
// authentication.
type Client struct {
	owner string
	repo  string
	run   runner
}

// NewClient constructs a client. If owner and repo are both non-empty, gh
// operations are pinned to that repository via --repo; otherwise gh infers
// the repository from the working directory's remotes.
func NewClient(owner, repo string) *Client {
	return &Client{
		owner: strings.TrimSpace(owner),
		repo:  strings.TrimSpace(repo),
		run:   runCommand,
	}
}

// TestConnection verifies that gh is installed and authenticated.
func (c *Client) TestConnection() error {
	if _, _, err := c.run("gh", "--version"); err != nil {
		return fmt.Errorf("GitHub CLI not found; install 'gh' first: %w", err)
	}
	if _, stderr, err := c.run("gh", "auth", "status"); err != nil {
		return fmt.Errorf("GitHub CLI not authenticated; run 'gh auth login': %s", strings.TrimSpace(stderr))
	}
	return nil
}

// DefaultBranch returns the repository's default branch, falling back to
// "main" when gh cannot tell us.
func (c *Client) DefaultBranch() string {
	args := c.scoped("repo", "view", "--json", "defaultBranchRef")
	stdout, _, err := c.run("gh", args...)
	if err != nil {
		return "main"
	}
	var payload struct {
		DefaultBranchRef struct {
			Name string `json:"name"`
		} `json:"defaultBranchRef"`
	}
	if err := json.Unmarshal([]byte(stdout), &payload); err != nil || payload.DefaultBranchRef.Name == "" {
		return "main"
	}
	return payload.DefaultBranchRef.Name
}

// CreatePullRequest opens a pull request and returns its URL.
func (c *Client) CreatePullRequest(title, body, head, base string, draft bool) (string, error) {
	if strings.TrimSpace(title) == "" {
		return "", fmt.Errorf("PR title is required")
	}
	args := []string{"pr", "create", "--title", title, "--body", body}
	if head != "" {
		args = append(args, "--head", head)
	}
	if base != "" {
		args = append(args, "--base", base)
	}
	if draft {
		args = append(args, "--draft")
	}
	args = c.scoped(args...)

	stdout, stderr, err := c.run("gh", args...)
	if err != nil {
		return "", fmt.Errorf("gh pr create: %s", strings.TrimSpace(stderr))
	}

	// gh prints the PR URL on stdout.
	prURL := strings.TrimSpace(stdout)
	if !strings.HasPrefix(prURL, "http://") && !strings.HasPrefix(prURL, "https://") {
		return "", fmt.Errorf("unexpected gh output: %q", prURL)
	}
	return prURL, nil
}

// PullRequest holds the PR fields the CLI displays.
type PullRequest struct {
	Number      int    `json:"number"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	HeadRefName string `json:"headRefName"`
	BaseRefName string `json:"baseRefName"`
	IsDraft     bool   `json:"isDraft"`
}

// ListPullRequests lists pull requests. state is one of open, closed, merged,
// all; limit <= 0 uses the gh default.
func (c *Client) ListPullRequests(state string, limit int) ([]PullRequest, error) {
	args := []string{"pr", "list", "--json", "number,title,url,headRefName,baseRefName,isDraft"}
	if state != "" {
		args = append(args, "--state", state)
	}
	if limit > 0 {
		args = append(args, "--limit", fmt.Sprintf("%d", limit))
	}
	args = c.scoped(args...)

	stdout, stderr, err := c.run("gh", args...)
	if err != nil {
		return nil, fmt.Errorf("gh pr list: %s", strings.TrimSpace(stderr))
	}
	var prs []PullRequest
	if err := json.Unmarshal([]byte(stdout), &prs); err != nil {
		return nil, fmt.Errorf("parsing gh pr list output: %w", err)
	}
	return prs, nil
}

// PullRequestForBranch returns the PR whose head is the given branch, or nil
// if none exists.
func (c *Client) PullRequestForBranch(branch string) (*PullRequest, error) {
	prs, err := c.ListPullRequests("all", 0)
	if err != nil {
		return nil, err
	}
	for i := range prs {
		if prs[i].HeadRefName == branch {
			return &prs[i], nil
		}
	}
	return nil, nil
}

func (c *Client) scoped(args ...string) []string {
	if c.owner != "" && c.repo != "" {
		return append(args, "--repo", c.owner+"/"+c.repo)
	}
	return args
}

func runCommand(name string, args ...string) (string, string, error) {
	cmd := exec.Command(name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}
