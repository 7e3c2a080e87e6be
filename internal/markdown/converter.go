package markdown

import (
	"regexp"
	"strings"
)

// Block-level patterns. The block passes run before the inline rules so that
// fence and quote delimiters are rewritten before any emphasis markers are
// considered.
var (
	codeBlockLangRe = regexp.MustCompile(`(?s)\{code:([^}]+)\}(.*?)\{code\}`)
	codeBlockRe     = regexp.MustCompile(`(?s)\{code\}(.*?)\{code\}`)
	noformatRe      = regexp.MustCompile(`(?s)\{noformat\}(.*?)\{noformat\}`)
	quoteRe         = regexp.MustCompile(`(?s)\{quote\}(.*?)\{quote\}`)
	headerRe        = regexp.MustCompile(`(?m)^h([1-6])\.\s*(.+)$`)
	rawHeaderLineRe = regexp.MustCompile(`^h[1-6]\.\s`)
	numberedItemRe  = regexp.MustCompile(`^(#+)\s+(.+)$`)
	bulletItemRe    = regexp.MustCompile(`^(\*+)\s+(.+)$`)
	blankRunRe      = regexp.MustCompile(`\n\s*\n\s*\n`)
)

// inlineRule is one ordered match/replace pair. guard, when non-zero, rejects
// any match whose neighbouring byte equals it, so a rule never consumes
// markers that belong to a doubled delimiter (e.g. the ** produced by the
// bold rule, or a -- sequence).
type inlineRule struct {
	re    *regexp.Regexp
	repl  string
	guard byte
}

// inlineRules are applied top to bottom. The order is load-bearing: each rule
// must not re-match text produced by the rules above it (strikethrough emits
// ~~, which the guarded subscript rule below leaves alone; bold emits **,
// which its own guard and character class leave alone).
var inlineRules = []inlineRule{
	{re: regexp.MustCompile(`\[([^|\]]+)\|([^\]]+)\]`), repl: "[$1]($2)"},
	{re: regexp.MustCompile(`\*([^*\n]+?)\*`), repl: "**$1**", guard: '*'},
	{re: regexp.MustCompile(`_([^_\n]+?)_`), repl: "*$1*"},
	{re: regexp.MustCompile(`\{\{([^}]+?)\}\}`), repl: "`$1`"},
	{re: regexp.MustCompile(`-([^-\n]+?)-`), repl: "~~$1~~", guard: '-'},
	{re: regexp.MustCompile(`\+([^+\n]+?)\+`), repl: "**$1**"},
	{re: regexp.MustCompile(`\^([^\^\n]+?)\^`), repl: "<sup>$1</sup>"},
	{re: regexp.MustCompile(`~([^~\n]+?)~`), repl: "<sub>$1</sub>", guard: '~'},
}

// Convert rewrites JIRA wiki markup into GitHub-flavored Markdown. Supported
// syntax:
// - Headings: h1. .. h6.
// - Lists: * bullets and # ordered items, nested by repeating the marker
// - Inline: *bold*, _italic_, {{code}}, -strike-, +underline+, ^sup^, ~sub~
// - Links: [text|url]
// - Blocks: {code[:lang]}, {noformat}, {quote}
// - Tables: ||h1||h2|| header rows and |c1|c2| data rows
//
// Unrecognized markup passes through unchanged; Convert never fails. Empty
// input yields empty output.
func Convert(text string) string {
	if text == "" {
		return ""
	}

	s := strings.ReplaceAll(text, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	// Pass order matters: blocks before inline rules so fence bodies are in
	// place first, lists before headers so converted "# " headings are not
	// mistaken for ordered-list items.
	s = convertCodeBlocks(s)
	s = convertNoformat(s)
	s = convertQuotes(s)
	s = convertTables(s)
	s = applyInlineRules(s)
	s = convertLists(s)
	s = convertHeaders(s)
	return cleanWhitespace(s)
}

func convertCodeBlocks(s string) string {
	// {code:lang} ... {code} -> ```lang ... ```
	s = codeBlockLangRe.ReplaceAllString(s, "```${1}${2}```")
	// {code} ... {code} -> ``` ... ```
	return codeBlockRe.ReplaceAllString(s, "```${1}```")
}

func convertNoformat(s string) string {
	return noformatRe.ReplaceAllString(s, "```${1}```")
}

func convertQuotes(s string) string {
	return quoteRe.ReplaceAllStringFunc(s, func(block string) string {
		m := quoteRe.FindStringSubmatch(block)
		if len(m) != 2 {
			return block
		}
		lines := strings.Split(strings.TrimSpace(m[1]), "\n")
		for i, line := range lines {
			if strings.TrimSpace(line) == "" {
				lines[i] = ">"
			} else {
				lines[i] = "> " + line
			}
		}
		return strings.Join(lines, "\n")
	})
}

// convertTables is a line-oriented scan with a single bit of state: whether
// the previous line was a recognized table row. A ||-delimited row opens a
// table and becomes the header plus a synthesized --- separator; further
// ||-rows and |-rows are data rows. Any other line closes the table.
func convertTables(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	inTable := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case len(trimmed) >= 4 && strings.HasPrefix(trimmed, "||") && strings.HasSuffix(trimmed, "||"):
			cells := splitTableRow(trimmed, "||")
			out = append(out, formatTableRow(cells))
			if !inTable {
				out = append(out, separatorRow(len(cells)))
				inTable = true
			}
		case inTable && len(trimmed) >= 2 && strings.HasPrefix(trimmed, "|") && strings.HasSuffix(trimmed, "|"):
			out = append(out, formatTableRow(splitTableRow(trimmed, "|")))
		default:
			inTable = false
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

func splitTableRow(row, delim string) []string {
	parts := strings.Split(strings.Trim(row, "|"), delim)
	cells := make([]string, len(parts))
	for i, p := range parts {
		cells[i] = strings.TrimSpace(p)
	}
	return cells
}

func formatTableRow(cells []string) string {
	return "| " + strings.Join(cells, " | ") + " |"
}

func separatorRow(columns int) string {
	sep := make([]string, columns)
	for i := range sep {
		sep[i] = "---"
	}
	return formatTableRow(sep)
}

func applyInlineRules(s string) string {
	for _, rule := range inlineRules {
		if rule.guard != 0 {
			s = replaceGuarded(s, rule.re, rule.guard, rule.repl)
		} else {
			s = rule.re.ReplaceAllString(s, rule.repl)
		}
	}
	return s
}

// replaceGuarded applies re across s, skipping any match immediately preceded
// or followed by the guard byte. RE2 has no lookaround, so the adjacency
// checks are done against the match boundaries instead.
func replaceGuarded(s string, re *regexp.Regexp, guard byte, repl string) string {
	var b strings.Builder
	rest := s
	for {
		loc := re.FindStringSubmatchIndex(rest)
		if loc == nil {
			b.WriteString(rest)
			return b.String()
		}
		start, end := loc[0], loc[1]
		if (start > 0 && rest[start-1] == guard) || (end < len(rest) && rest[end] == guard) {
			// Adjacent to the guard byte: leave the opening delimiter alone
			// and keep scanning after it.
			b.WriteString(rest[:start+1])
			rest = rest[start+1:]
			continue
		}
		b.WriteString(rest[:start])
		b.Write(re.ExpandString(nil, repl, rest, loc))
		rest = rest[end:]
	}
}

func convertLists(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		// Unconverted headers pass through so the header pass still sees them.
		if rawHeaderLineRe.MatchString(line) {
			continue
		}
		if m := numberedItemRe.FindStringSubmatch(line); m != nil {
			// Every ordered item renders a literal "1."; Markdown renderers
			// number them, and JIRA's markup carries no counter to preserve.
			lines[i] = strings.Repeat("  ", len(m[1])-1) + "1. " + m[2]
			continue
		}
		if m := bulletItemRe.FindStringSubmatch(line); m != nil {
			lines[i] = strings.Repeat("  ", len(m[1])-1) + "* " + m[2]
		}
	}
	return strings.Join(lines, "\n")
}

func convertHeaders(s string) string {
	return headerRe.ReplaceAllStringFunc(s, func(line string) string {
		m := headerRe.FindStringSubmatch(line)
		if len(m) != 3 {
			return line
		}
		level := int(m[1][0] - '0')
		return strings.Repeat("#", level) + " " + strings.TrimSpace(m[2])
	})
}

func cleanWhitespace(s string) string {
	s = blankRunRe.ReplaceAllString(s, "\n\n")
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
