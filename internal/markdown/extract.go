package markdown

import (
	"strings"

	"github.com/dt-pm-tools/git-autometa/internal/jira"
)

// ExtractText flattens an ADF document tree into plain text: one line per
// block node, blocks joined by newline, the whole result trimmed. Formatting
// marks are dropped; only text content survives. A nil or unrecognized node
// contributes an empty string, since the tree comes from an external API
// whose schema may grow.
func ExtractText(node *jira.ADFNode) string {
	if node == nil {
		return ""
	}
	return strings.TrimSpace(extractNode(node))
}

func extractNode(node *jira.ADFNode) string {
	switch node.Type {
	case "text":
		return node.Text

	case "paragraph", "heading":
		// Text leaves carry their own inter-word spacing, so children are
		// concatenated directly and whitespace runs collapsed afterwards.
		return collapseSpaces(joinChildren(node))

	case "listItem":
		return "• " + collapseSpaces(joinChildren(node))

	default:
		// doc, bulletList, orderedList, and anything unknown: children
		// become blocks separated by newlines.
		parts := make([]string, 0, len(node.Content))
		for i := range node.Content {
			if p := extractNode(&node.Content[i]); p != "" {
				parts = append(parts, p)
			}
		}
		return strings.Join(parts, "\n")
	}
}

func joinChildren(node *jira.ADFNode) string {
	var b strings.Builder
	for i := range node.Content {
		b.WriteString(extractNode(&node.Content[i]))
	}
	return b.String()
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ConvertDescription renders an issue description to Markdown regardless of
// which representation the API returned: wiki markup strings go through
// Convert, ADF trees are flattened to plain text first. Tree-derived text
// keeps no inline formatting: extraction drops the marks, and plain text is
// a no-op for Convert.
func ConvertDescription(d jira.Description) string {
	if d.Doc != nil {
		return Convert(ExtractText(d.Doc))
	}
	return Convert(d.Text)
}
