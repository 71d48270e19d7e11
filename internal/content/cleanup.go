package content

import (
	"regexp"
	"strings"
)

var (
	// "### [ ](https://...) Title" left behind by anchored headings.
	brokenHeadingLink = regexp.MustCompile(`(#{1,6})\s+\[\s*\]\([^)]+\)\s+([^\n]+)\n`)
	// "**Name**is" with the space after the bold run lost.
	boldNoSpace = regexp.MustCompile(`\*\*([^*]+)\*\*([a-z])`)
	// A line made of two or more bold fragments.
	boldRunLine = regexp.MustCompile(`(?m)^(\*\*[^*\n]+\*\*[^*\n]*){2,}$`)
	boldItem    = regexp.MustCompile(`\*\*([^*]+)\*\*([^*]*)`)
)

// Cleanup repairs known artifacts of the markdown conversion. Lines of
// run-together bold items become a bullet list.
func Cleanup(markdown string) string {
	markdown = brokenHeadingLink.ReplaceAllString(markdown, "${1} ${2}\n")
	markdown = boldNoSpace.ReplaceAllString(markdown, "**${1}** ${2}")
	return boldRunLine.ReplaceAllStringFunc(markdown, bulletBoldItems)
}

func bulletBoldItems(line string) string {
	items := boldItem.FindAllStringSubmatch(line, -1)
	if len(items) < 2 {
		return line
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		bold, text := strings.TrimSpace(item[1]), strings.TrimSpace(item[2])
		if text == "" {
			out = append(out, "- **"+bold+"**")
			continue
		}
		out = append(out, "- **"+bold+"** "+text)
	}

	return strings.Join(out, "\n")
}
