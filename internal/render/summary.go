package render

import (
	"strings"
	"time"

	nethtml "golang.org/x/net/html"
)

// CleanSummary flattens an HTML fragment into plain text: tags dropped,
// entities decoded, whitespace collapsed. Script and style subtrees are
// skipped entirely.
func CleanSummary(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return collapseWhitespace(fragment)
	}

	tokenizer := nethtml.NewTokenizer(strings.NewReader(fragment))
	var b strings.Builder
	skipDepth := 0

	for {
		switch tokenizer.Next() {
		case nethtml.ErrorToken:
			return collapseWhitespace(b.String())
		case nethtml.StartTagToken:
			name, _ := tokenizer.TagName()
			if isSkippedTag(string(name)) {
				skipDepth++
			}
		case nethtml.EndTagToken:
			name, _ := tokenizer.TagName()
			if isSkippedTag(string(name)) && skipDepth > 0 {
				skipDepth--
			}
		case nethtml.TextToken:
			if skipDepth == 0 {
				b.WriteString(tokenizer.Token().Data)
				b.WriteByte(' ')
			}
		}
	}
}

func isSkippedTag(name string) bool {
	return name == "script" || name == "style"
}

func collapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// Truncate cuts the text at limit runes, trimming trailing space and
// appending an ellipsis when something was dropped.
func Truncate(text string, limit int) string {
	if limit < 1 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return strings.TrimRight(string(runes[:limit]), " ") + "…"
}

// FormatDate renders a published timestamp for the list views. Zero times
// render empty rather than the epoch.
func FormatDate(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return ts.Local().Format("02 Jan 2006 15:04")
}
