package view

import (
	"strings"

	"github.com/vavlxxx/Feed-Fusion/internal/app"
	"github.com/vavlxxx/Feed-Fusion/internal/render"
	tuitheme "github.com/vavlxxx/Feed-Fusion/internal/tui/theme"
)

// ImagePreviewState carries the async image preview for the detail pane.
type ImagePreviewState struct {
	Loading bool
	Raw     string
	Err     string
}

// DetailLines builds the scrollable detail pane for one feed item: metadata
// header, cleaned summary wrapped to width, then the optional image preview.
func DetailLines(item app.Item, width int, preview ImagePreviewState, th tuitheme.Theme) []string {
	lines := make([]string, 0, 16)
	title := strings.TrimSpace(item.Title)
	if title == "" {
		title = "(untitled)"
	}
	lines = append(lines, wrapText(title, width)...)
	lines = append(lines, "")

	meta := func(label, value string) {
		if value == "" {
			return
		}
		lines = append(lines, th.MetaLabel.Render(label)+" "+th.MetaValue.Render(value))
	}
	meta("channel:", item.ChannelTitle)
	meta("source:", item.Source)
	meta("category:", string(item.Category))
	meta("published:", render.FormatDate(item.Published))
	meta("link:", item.Link)

	if summary := render.CleanSummary(item.Summary); summary != "" {
		lines = append(lines, "")
		lines = append(lines, wrapText(summary, width)...)
	}

	if extra := previewLines(preview, width); len(extra) > 0 {
		lines = append(lines, "")
		lines = append(lines, extra...)
	}
	return lines
}

func previewLines(preview ImagePreviewState, width int) []string {
	if preview.Loading {
		return []string{"Loading image preview..."}
	}
	if raw := strings.TrimRight(preview.Raw, "\r\n"); strings.TrimSpace(raw) != "" {
		return centerLines(strings.Split(raw, "\n"), width)
	}
	if msg := strings.TrimSpace(preview.Err); msg != "" {
		return []string{"Image preview unavailable: " + msg}
	}
	return nil
}

// DetailMaxTop clamps the scroll offset so the last page stays full.
func DetailMaxTop(linesLen, bodyHeight int) int {
	maxTop := linesLen - bodyHeight
	if maxTop < 0 {
		return 0
	}
	return maxTop
}

func RenderDetailLines(lines []string, top, maxLines int) string {
	if len(lines) == 0 {
		return ""
	}
	if top < 0 {
		top = 0
	}
	if top > len(lines)-1 {
		top = len(lines) - 1
	}
	end := len(lines)
	if maxLines > 0 && top+maxLines < end {
		end = top + maxLines
	}
	return strings.Join(lines[top:end], "\n") + "\n"
}

func wrapText(s string, width int) []string {
	if width < 10 {
		width = 10
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}
	lines := make([]string, 0, 4)
	var line strings.Builder
	for _, word := range words {
		if line.Len() == 0 {
			line.WriteString(word)
			continue
		}
		if visibleLen(line.String())+1+visibleLen(word) > width {
			lines = append(lines, line.String())
			line.Reset()
			line.WriteString(word)
			continue
		}
		line.WriteString(" ")
		line.WriteString(word)
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return lines
}

func centerLines(lines []string, width int) []string {
	if width <= 0 || len(lines) == 0 {
		return lines
	}
	out := make([]string, len(lines))
	for i, line := range lines {
		visible := visibleLen(line)
		if visible >= width {
			out[i] = line
			continue
		}
		out[i] = strings.Repeat(" ", (width-visible)/2) + line
	}
	return out
}
