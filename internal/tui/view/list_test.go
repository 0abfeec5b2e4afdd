package view

import (
	"strings"
	"testing"
	"time"

	"github.com/vavlxxx/Feed-Fusion/internal/api"
	"github.com/vavlxxx/Feed-Fusion/internal/app"
	tuitheme "github.com/vavlxxx/Feed-Fusion/internal/tui/theme"
)

func TestRenderNewsLineFitsWidth(t *testing.T) {
	th := tuitheme.Default()
	line := RenderNewsLine(NewsLineParams{
		Item: app.Item{
			NewsItem: api.NewsItem{
				Title:     "A very long headline that will certainly not fit into a narrow terminal",
				Published: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
			},
			ChannelTitle: "TechWire",
		},
		Width: 60,
	}, th)
	if got := visibleLen(line); got > 60 {
		t.Fatalf("line width = %d, want <= 60: %q", got, stripANSIText(line))
	}
	if !strings.Contains(stripANSIText(line), "TechWire") {
		t.Errorf("channel title missing: %q", stripANSIText(line))
	}
}

func TestRenderNewsLineCursorMarker(t *testing.T) {
	th := tuitheme.Default()
	item := app.Item{NewsItem: api.NewsItem{Title: "Short"}}
	active := stripANSIText(RenderNewsLine(NewsLineParams{Item: item, Active: true, Width: 40}, th))
	idle := stripANSIText(RenderNewsLine(NewsLineParams{Item: item, Width: 40}, th))
	if !strings.Contains(active, ">") {
		t.Errorf("active line lacks cursor marker: %q", active)
	}
	if strings.Contains(idle, ">") {
		t.Errorf("idle line carries cursor marker: %q", idle)
	}
}

func TestRenderChannelLineMarkers(t *testing.T) {
	th := tuitheme.Default()
	line := stripANSIText(RenderChannelLine(ChannelLineParams{
		Channel:    api.Channel{ID: 5, Title: "TechWire"},
		Subscribed: true,
		Selected:   true,
		Width:      40,
	}, th))
	if !strings.Contains(line, "*") {
		t.Errorf("selected marker missing: %q", line)
	}
	if !strings.Contains(line, "✓") {
		t.Errorf("subscription marker missing: %q", line)
	}
}

func TestRenderChannelLinePlaceholderTitle(t *testing.T) {
	th := tuitheme.Default()
	line := stripANSIText(RenderChannelLine(ChannelLineParams{
		Channel: api.Channel{ID: 42},
		Width:   40,
	}, th))
	if !strings.Contains(line, "channel #42") {
		t.Errorf("placeholder title missing: %q", line)
	}
}

func TestSummaryPreviewStripsAndTruncates(t *testing.T) {
	long := "<p>" + strings.Repeat("word ", 80) + "</p>"
	got := SummaryPreview(long, 60)
	if strings.Contains(got, "<p>") {
		t.Errorf("markup leaked: %q", got)
	}
	if visibleLen(got) > 52 {
		t.Errorf("preview too wide: %d runes", visibleLen(got))
	}
	if SummaryPreview("", 60) != "" {
		t.Error("empty summary should yield an empty preview")
	}
}

func TestTruncateRunesCyrillic(t *testing.T) {
	got := truncateRunes("Происшествия на дорогах", 15)
	if visibleLen(got) > 15 {
		t.Fatalf("truncated to %d runes, want <= 15: %q", visibleLen(got), got)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncation marker missing: %q", got)
	}
}
