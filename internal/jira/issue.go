package jira

import (
	"regexp"
	"strings"
)

var (
	nonSlugRe   = regexp.MustCompile(`[^a-z0-9\s-]`)
	spaceRunRe  = regexp.MustCompile(`\s+`)
	hyphenRunRe = regexp.MustCompile(`-+`)
)

// SlugifyTitle converts the issue summary into a lowercase, hyphen-delimited
// slug suitable for branch names, truncated to maxLength bytes when
// maxLength is positive.
func (i *Issue) SlugifyTitle(maxLength int) string {
	slug := strings.ToLower(i.Fields.Summary)
	slug = nonSlugRe.ReplaceAllString(slug, "")
	slug = spaceRunRe.ReplaceAllString(slug, "-")
	slug = hyphenRunRe.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if maxLength > 0 && len(slug) > maxLength {
		slug = strings.TrimRight(slug[:maxLength], "-")
	}
	return slug
}

// TypeName returns the lowercase issue type ("bug", "task", ...).
func (i *Issue) TypeName() string {
	return strings.ToLower(strings.TrimSpace(i.Fields.IssueType.Name))
}

// BrowseURL returns the human-facing issue URL for the given server base URL.
func (i *Issue) BrowseURL(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + "/browse/" + i.Key
}
