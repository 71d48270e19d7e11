package enricher

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var headingPattern = regexp.MustCompile(`(?m)^#{1,6}\s`)

// Introduction derives a short description from extracted markdown.
//
// Text before the first heading is used when it is longer than minLead
// characters. Otherwise the section after the first heading is used, up to
// the second heading, else up to the first blank line, else capped at
// maxChars. Without any heading the document is cut at the first blank line
// or at maxChars. An empty result means no introduction.
func Introduction(markdown string, minLead, maxChars int) string {
	loc := headingPattern.FindStringIndex(markdown)
	if loc == nil {
		return firstBlock(markdown, maxChars)
	}

	if lead := strings.TrimSpace(markdown[:loc[0]]); utf8.RuneCountInString(lead) > minLead {
		return lead
	}

	rest := ""
	if _, after, ok := strings.Cut(markdown[loc[0]:], "\n"); ok {
		rest = strings.TrimSpace(after)
	}

	if next := headingPattern.FindStringIndex(rest); next != nil {
		return strings.TrimSpace(rest[:next[0]])
	}

	return firstBlock(rest, maxChars)
}

func firstBlock(text string, maxChars int) string {
	text = strings.TrimSpace(text)
	if before, _, ok := strings.Cut(text, "\n\n"); ok {
		return strings.TrimSpace(before)
	}
	return strings.TrimSpace(truncateRunes(text, maxChars))
}

func truncateRunes(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
