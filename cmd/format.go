package cmd

import (
	"regexp"
	"strings"

	"github.com/dt-pm-tools/git-autometa/internal/config"
	"github.com/dt-pm-tools/git-autometa/internal/jira"
	"github.com/dt-pm-tools/git-autometa/internal/markdown"
)

var branchIssueKeyRe = regexp.MustCompile(`[A-Z][A-Z0-9]*-\d+`)

// issueKeyFromBranch finds the first JIRA key (like ABC-123) embedded in a
// branch name.
func issueKeyFromBranch(branch string) (string, bool) {
	key := branchIssueKeyRe.FindString(branch)
	return key, key != ""
}

// formatBranchName expands the configured branch pattern for an issue and
// bounds the result to the configured maximum length.
func formatBranchName(cfg config.Config, issue *jira.Issue) string {
	maxLen := cfg.Git.MaxBranchLength

	// Leave room for the key plus pattern text and separators when sizing
	// the title slug.
	slugBudget := maxLen - len(issue.Key) - 10
	if slugBudget < 10 {
		slugBudget = 10
	}

	name := cfg.Git.BranchPattern
	name = strings.ReplaceAll(name, "{jira_id}", issue.Key)
	name = strings.ReplaceAll(name, "{jira_title}", issue.SlugifyTitle(slugBudget))
	name = strings.ReplaceAll(name, "{jira_type}", issue.TypeName())
	name = sanitizeBranchName(name)

	if maxLen > 0 && len(name) > maxLen {
		name = name[:maxLen]
	}
	return strings.Trim(name, "-")
}

var (
	branchCharRe = regexp.MustCompile(`[^A-Za-z0-9/._-]+`)
	dashRunRe    = regexp.MustCompile(`-{2,}`)
)

func sanitizeBranchName(name string) string {
	name = branchCharRe.ReplaceAllString(name, "-")
	return dashRunRe.ReplaceAllString(name, "-")
}

// formatPRTitle expands the configured title pattern. Unlike branch names,
// the title keeps the full issue summary.
func formatPRTitle(cfg config.Config, issue *jira.Issue) string {
	title := cfg.PullRequest.TitlePattern
	title = strings.ReplaceAll(title, "{jira_id}", issue.Key)
	title = strings.ReplaceAll(title, "{jira_title}", issue.Fields.Summary)
	title = strings.ReplaceAll(title, "{jira_type}", issue.TypeName())
	title = strings.TrimSpace(title)
	if title == "" {
		return issue.Key + ": " + issue.Fields.Summary
	}
	return title
}

// renderPRBody fills the PR body template with issue data, the converted
// description, and the branch's commit subjects.
func renderPRBody(cfg config.Config, issue *jira.Issue, commits []string) string {
	description := markdown.ConvertDescription(issue.Fields.Description)
	if description == "" {
		description = "See JIRA issue for details."
	}

	var commitSection string
	for _, msg := range commits {
		if commitSection != "" {
			commitSection += "\n"
		}
		commitSection += "- " + msg
	}

	body := cfg.PullRequest.Template
	body = strings.ReplaceAll(body, "{jira_id}", issue.Key)
	body = strings.ReplaceAll(body, "{jira_title}", issue.Fields.Summary)
	body = strings.ReplaceAll(body, "{jira_type}", issue.TypeName())
	body = strings.ReplaceAll(body, "{jira_url}", issue.BrowseURL(cfg.Jira.URL))
	body = strings.ReplaceAll(body, "{jira_description}", description)
	body = strings.ReplaceAll(body, "{commit_messages}", commitSection)
	return strings.TrimSpace(body) + "\n"
}
