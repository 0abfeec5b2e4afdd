package view

import (
	"fmt"
	"strings"

	"github.com/vavlxxx/Feed-Fusion/internal/feed"
	tuitheme "github.com/vavlxxx/Feed-Fusion/internal/tui/theme"
)

func Toolbar(tab string, inDetail bool) string {
	if inDetail {
		return "j/k scroll | [ ] prev/next | o open | i image | esc back | ? help"
	}
	switch tab {
	case "channels":
		return "j/k move | space select | enter apply | s sub/unsub | r reload | tab switch | ? help"
	case "categories":
		return "j/k move | space select | enter apply | tab switch | ? help"
	case "profile":
		return "e edit | enter save | esc cancel | tab switch | ? help"
	case "admin":
		return "n new | e edit | x delete | enter save | esc cancel | tab switch | ? help"
	case "auth":
		return "tab next field | enter submit | ctrl+r register mode | esc cancel"
	default:
		return "j/k move | enter details | n more | / search | o order | R reset | r refresh | tab switch | ? help"
	}
}

// Footer summarizes the committed filter and the sequence progress.
func Footer(filters feed.Snapshot, state feed.State, shown, total int, hasNext bool, th tuitheme.Theme) string {
	parts := []string{
		th.MetaLabel.Render("filter") + " " + th.MetaValue.Render(FilterSummary(filters)),
		th.MetaValue.Render(fmt.Sprintf("%d of %d shown", shown, total)),
	}
	if state == feed.StateExhausted {
		parts = append(parts, th.MetaValue.Render("end of feed"))
	} else if hasNext {
		parts = append(parts, th.MetaValue.Render("n: more"))
	}
	return strings.Join(parts, " • ")
}

// FilterSummary renders the committed filter in a compact human form.
func FilterSummary(filters feed.Snapshot) string {
	parts := make([]string, 0, 4)
	if filters.Query != "" {
		parts = append(parts, fmt.Sprintf("%q", filters.Query))
	}
	if n := len(filters.ChannelIDs); n > 0 {
		parts = append(parts, fmt.Sprintf("%d channels", n))
	}
	if n := len(filters.Categories); n > 0 {
		parts = append(parts, fmt.Sprintf("%d categories", n))
	}
	order := "newest first"
	if !filters.RecentFirst {
		order = "oldest first"
	}
	parts = append(parts, order)
	return strings.Join(parts, ", ")
}

// StatusLine renders the state label plus the most recent status or error.
func StatusLine(state feed.State, status, warning string, th tuitheme.Theme) string {
	stateLabel := th.StateIdle.Render("state")
	if warning != "" {
		stateLabel = th.StateWarn.Render("state")
	} else if state == feed.StateLoading {
		stateLabel = th.StateLoad.Render("state")
	}
	main := "Ready"
	if status != "" {
		main = status
	} else if warning != "" {
		main = warning
	}
	return fmt.Sprintf("%s: %s | %s", stateLabel, state, th.MetaValue.Render(main))
}
