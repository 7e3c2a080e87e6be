package git

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextBranchName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"feature/proj-1-login", "feature/proj-1-login-2"},
		{"feature/proj-1-login-2", "feature/proj-1-login-3"},
		{"feature/proj-1-login-9", "feature/proj-1-login-10"},
		// A trailing -1 reads as part of the slug, not a suffix.
		{"feature/proj-1", "feature/proj-1-2"},
		{"plain", "plain-2"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, nextBranchName(tt.in), "input %q", tt.in)
	}
}

func TestStripIssueKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"[PROJ-123] fix the parser", "fix the parser"},
		{"PROJ-123: fix the parser", "fix the parser"},
		{"PROJ-123 - fix the parser", "fix the parser"},
		{"PROJ-123 fix the parser", "fix the parser"},
		{"fix the parser", "fix the parser"},
		// Lowercase prefixes are not issue keys.
		{"proj-123: fix the parser", "proj-123: fix the parser"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, stripIssueKey(tt.in), "input %q", tt.in)
	}
}
