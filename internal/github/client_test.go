package github

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner records invocations and replays canned responses keyed by the
// first two gh arguments.
type fakeRunner struct {
	calls     [][]string
	responses map[string]struct {
		stdout string
		stderr string
		err    error
	}
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{responses: map[string]struct {
		stdout string
		stderr string
		err    error
	}{}}
}

func (f *fakeRunner) respond(key, stdout, stderr string, err error) {
	f.responses[key] = struct {
		stdout string
		stderr string
		err    error
	}{stdout, stderr, err}
}

func (f *fakeRunner) run(name string, args ...string) (string, string, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	key := name
	if len(args) > 0 {
		key += " " + args[0]
	}
	if len(args) > 1 {
		key += " " + args[1]
	}
	r, ok := f.responses[key]
	if !ok {
		return "", "", fmt.Errorf("unexpected command: %s %v", name, args)
	}
	return r.stdout, r.stderr, r.err
}

func newTestClient(owner, repo string, f *fakeRunner) *Client {
	c := NewClient(owner, repo)
	c.run = f.run
	return c
}

func TestCreatePullRequest(t *testing.T) {
	f := newFakeRunner()
	f.respond("gh pr create", "https://github.com/acme/widgets/pull/42\n", "", nil)

	c := newTestClient("acme", "widgets", f)
	url, err := c.CreatePullRequest("PROJ-1: add widgets", "body text", "feature/proj-1", "main", true)
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/acme/widgets/pull/42", url)

	require.Len(t, f.calls, 1)
	assert.Equal(t, []string{
		"gh", "pr", "create",
		"--title", "PROJ-1: add widgets",
		"--body", "body text",
		"--head", "feature/proj-1",
		"--base", "main",
		"--draft",
		"--repo", "acme/widgets",
	}, f.calls[0])
}

func TestCreatePullRequestOmitsOptionalFlags(t *testing.T) {
	f := newFakeRunner()
	f.respond("gh pr create", "https://github.com/acme/widgets/pull/7", "", nil)

	c := newTestClient("", "", f)
	_, err := c.CreatePullRequest("title", "body", "", "", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"gh", "pr", "create", "--title", "title", "--body", "body"}, f.calls[0])
}

func TestCreatePullRequestRequiresTitle(t *testing.T) {
	c := newTestClient("acme", "widgets", newFakeRunner())
	_, err := c.CreatePullRequest("  ", "body", "", "", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title is required")
}

func TestCreatePullRequestRejectsNonURLOutput(t *testing.T) {
	f := newFakeRunner()
	f.respond("gh pr create", "something unexpected", "", nil)

	c := newTestClient("acme", "widgets", f)
	_, err := c.CreatePullRequest("title", "body", "", "", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected gh output")
}

func TestDefaultBranch(t *testing.T) {
	f := newFakeRunner()
	f.respond("gh repo view", `{"defaultBranchRef":{"name":"develop"}}`, "", nil)
	c := newTestClient("acme", "widgets", f)
	assert.Equal(t, "develop", c.DefaultBranch())
}

func TestDefaultBranchFallsBackToMain(t *testing.T) {
	f := newFakeRunner()
	f.respond("gh repo view", "", "no internet", fmt.Errorf("exit status 1"))
	c := newTestClient("acme", "widgets", f)
	assert.Equal(t, "main", c.DefaultBranch())

	f2 := newFakeRunner()
	f2.respond("gh repo view", "not json", "", nil)
	c2 := newTestClient("acme", "widgets", f2)
	assert.Equal(t, "main", c2.DefaultBranch())
}

func TestPullRequestForBranch(t *testing.T) {
	f := newFakeRunner()
	f.respond("gh pr list", `[
		{"number": 1, "title": "old", "url": "https://github.com/acme/widgets/pull/1", "headRefName": "feature/old", "baseRefName": "main", "isDraft": false},
		{"number": 2, "title": "mine", "url": "https://github.com/acme/widgets/pull/2", "headRefName": "feature/proj-9", "baseRefName": "main", "isDraft": true}
	]`, "", nil)

	c := newTestClient("acme", "widgets", f)
	pr, err := c.PullRequestForBranch("feature/proj-9")
	require.NoError(t, err)
	require.NotNil(t, pr)
	assert.Equal(t, 2, pr.Number)
	assert.True(t, pr.IsDraft)

	none, err := c.PullRequestForBranch("feature/absent")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestTestConnectionReportsMissingAuth(t *testing.T) {
	f := newFakeRunner()
	f.respond("gh --version", "gh version 2.40.0", "", nil)
	f.respond("gh auth status", "", "You are not logged into any GitHub hosts", fmt.Errorf("exit status 1"))

	c := newTestClient("", "", f)
	err := c.TestConnection()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not authenticated")
}
