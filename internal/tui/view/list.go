package view

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/vavlxxx/Feed-Fusion/internal/api"
	"github.com/vavlxxx/Feed-Fusion/internal/app"
	"github.com/vavlxxx/Feed-Fusion/internal/render"
	tuitheme "github.com/vavlxxx/Feed-Fusion/internal/tui/theme"
)

var reANSICodes = regexp.MustCompile(`\x1b\[[0-9;]*m`)

type NewsLineParams struct {
	Item       app.Item
	Subscribed bool
	Active     bool
	Width      int
}

// RenderNewsLine lays out one feed row: cursor marker, title, channel and
// date right-aligned. The title yields space to the date label first.
func RenderNewsLine(p NewsLineParams, th tuitheme.Theme) string {
	cursorMarker := " "
	if p.Active {
		cursorMarker = ">"
	}
	prefix := fmt.Sprintf("  %s ", cursorMarker)

	date := render.FormatDate(p.Item.Published)
	right := "[" + date + "]"
	if p.Item.ChannelTitle != "" {
		right = p.Item.ChannelTitle + " " + right
	}

	available := p.Width - visibleLen(prefix) - 1 - visibleLen(right)
	if available < 1 {
		available = 1
	}
	title := truncateRunes(strings.TrimSpace(p.Item.Title), available)
	styled := th.StyleNewsTitle(p.Subscribed, title)

	gap := p.Width - visibleLen(prefix) - visibleLen(title) - visibleLen(right)
	if gap < 1 {
		gap = 1
	}
	return th.RenderActiveLine(p.Active, prefix+styled+strings.Repeat(" ", gap)+th.NewsSource.Render(right))
}

type ChannelLineParams struct {
	Channel    api.Channel
	Subscribed bool
	Selected   bool
	Active     bool
	Width      int
}

// RenderChannelLine lays out one catalog row. Selected marks the pending
// filter selection, Subscribed the persisted edge.
func RenderChannelLine(p ChannelLineParams, th tuitheme.Theme) string {
	cursorMarker := " "
	if p.Active {
		cursorMarker = ">"
	}
	selectedMarker := " "
	if p.Selected {
		selectedMarker = "*"
	}
	subMark := "   "
	if p.Subscribed {
		subMark = " " + th.Subscribed.Render("✓") + " "
	}

	prefix := fmt.Sprintf("  %s%s", cursorMarker, selectedMarker)
	label := strings.TrimSpace(p.Channel.Title)
	if label == "" {
		label = fmt.Sprintf("channel #%d", p.Channel.ID)
	}
	available := p.Width - visibleLen(prefix) - visibleLen(subMark) - 1
	if available < 1 {
		available = 1
	}
	label = truncateRunes(label, available)
	return th.RenderActiveLine(p.Active, prefix+subMark+label)
}

// RenderCategoryLine lays out one category filter row.
func RenderCategoryLine(category api.Category, selected, active bool, width int, th tuitheme.Theme) string {
	cursorMarker := " "
	if active {
		cursorMarker = ">"
	}
	selectedMarker := " "
	if selected {
		selectedMarker = "*"
	}
	label := truncateRunes(string(category), width-6)
	return th.RenderActiveLine(active, fmt.Sprintf("  %s%s %s", cursorMarker, selectedMarker, th.Category.Render(label)))
}

// summaryPreviewLimit matches the card preview length of the web client.
const summaryPreviewLimit = 180

// SummaryPreview flattens the HTML summary and cuts it for the one-line
// preview under the selected feed row.
func SummaryPreview(summary string, width int) string {
	text := render.Truncate(render.CleanSummary(summary), summaryPreviewLimit)
	return truncateRunes(text, width-8)
}

func truncateRunes(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return strings.Repeat(".", maxLen)
	}
	runes := []rune(s)
	return string(runes[:maxLen-3]) + "..."
}

func visibleLen(s string) int {
	return utf8.RuneCountInString(stripANSIText(s))
}

func stripANSIText(s string) string {
	return reANSICodes.ReplaceAllString(s, "")
}
