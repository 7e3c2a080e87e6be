package git

import (
	"bytes"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
)

// Repo runs git commands against one working tree.
type Repo struct {
	// Dir is the directory git commands run in. Empty means the process
	// working directory.
	Dir string
}

// New returns a Repo bound to the current working directory.
func New() *Repo { return &Repo{} }

// CurrentBranch returns the name of the checked-out branch.
func (r *Repo) CurrentBranch() (string, error) {
	return r.run("rev-parse", "--abbrev-ref", "HEAD")
}

// RemoteURL returns the URL of the given remote.
func (r *Repo) RemoteURL(remote string) (string, error) {
	return r.run("remote", "get-url", remote)
}

// PrepareWorkBranch syncs the default branch and creates/checks out a work
// branch with the desired name. If that name is already taken locally or on
// origin, a numeric suffix (-2, -3, ...) is appended until a free name is
// found. Returns the branch name actually created.
func (r *Repo) PrepareWorkBranch(desired string) (string, error) {
	if _, err := r.run("rev-parse", "--git-dir"); err != nil {
		return "", fmt.Errorf("not a git repository: %w", err)
	}

	// Best effort: update remote refs so the existence checks below see the
	// current state of origin.
	_, _ = r.run("fetch", "--all", "--prune")

	base := r.defaultBranch()
	if base != "" {
		if r.branchExists(base) {
			if _, err := r.run("checkout", base); err != nil {
				return "", err
			}
		} else if r.remoteBranchExists("origin", base) {
			if _, err := r.run("checkout", "-b", base, "origin/"+base); err != nil {
				return "", err
			}
		}
		if r.hasRemote("origin") && r.remoteBranchExists("origin", base) {
			_, _ = r.run("pull", "--ff-only", "origin", base)
		}
	}

	name := desired
	for r.branchExists(name) || r.remoteBranchExists("origin", name) {
		name = nextBranchName(name)
	}

	args := []string{"checkout", "-b", name}
	if base != "" {
		args = append(args, base)
	}
	if _, err := r.run(args...); err != nil {
		return "", err
	}
	return name, nil
}

// PushBranch pushes the branch to origin, setting the upstream.
func (r *Repo) PushBranch(name string) error {
	if !r.hasRemote("origin") {
		return fmt.Errorf("no 'origin' remote configured")
	}
	_, err := r.run("push", "-u", "origin", name)
	return err
}

// Patterns for JIRA key prefixes on commit subjects: "[ABC-123] msg" and
// "ABC-123: msg".
var (
	bracketKeyRe = regexp.MustCompile(`^\[[A-Z][A-Z0-9]*-\d+\]\s*`)
	bareKeyRe    = regexp.MustCompile(`^[A-Z][A-Z0-9]*-\d+\s*[:\-]?\s*`)
)

// CommitSubjects returns the non-merge commit subjects in base..HEAD with any
// leading JIRA key tag stripped, for use as PR bullet points.
func (r *Repo) CommitSubjects(base string) ([]string, error) {
	out, err := r.run("log", "--no-merges", "--pretty=%s", base+"..HEAD")
	if err != nil {
		return nil, err
	}
	if out == "" {
		return nil, nil
	}
	var subjects []string
	for _, line := range strings.Split(out, "\n") {
		s := stripIssueKey(strings.TrimSpace(line))
		if s != "" {
			subjects = append(subjects, s)
		}
	}
	return subjects, nil
}

func stripIssueKey(subject string) string {
	subject = bracketKeyRe.ReplaceAllString(subject, "")
	return bareKeyRe.ReplaceAllString(subject, "")
}

// defaultBranch prefers main, falls back to master, and returns "" when
// neither exists anywhere.
func (r *Repo) defaultBranch() string {
	for _, name := range []string{"main", "master"} {
		if r.branchExists(name) || r.remoteBranchExists("origin", name) {
			return name
		}
	}
	return ""
}

func (r *Repo) branchExists(name string) bool {
	_, err := r.run("show-ref", "--verify", "--quiet", "refs/heads/"+name)
	return err == nil
}

func (r *Repo) remoteBranchExists(remote, name string) bool {
	if !r.hasRemote(remote) {
		return false
	}
	_, err := r.run("ls-remote", "--exit-code", "--heads", remote, "refs/heads/"+name)
	return err == nil
}

func (r *Repo) hasRemote(name string) bool {
	out, err := r.run("remote")
	if err != nil {
		return false
	}
	for _, line := range strings.Split(out, "\n") {
		if line == name {
			return true
		}
	}
	return false
}

// nextBranchName increments a trailing -<n> suffix, or appends -2 when the
// name has none.
func nextBranchName(name string) string {
	idx := strings.LastIndex(name, "-")
	if idx >= 0 {
		if n, err := strconv.Atoi(name[idx+1:]); err == nil && n > 1 {
			return fmt.Sprintf("%s-%d", name[:idx], n+1)
		}
	}
	return name + "-2"
}

func (r *Repo) run(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	if r.Dir != "" {
		cmd.Dir = r.Dir
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return "", fmt.Errorf("git %s: %s", strings.Join(args, " "), strings.TrimSpace(stderr.String()))
		}
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return strings.TrimSpace(stdout.String()), nil
}
