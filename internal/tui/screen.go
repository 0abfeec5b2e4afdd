package tui

import (
	"fmt"
	"strings"

	"github.com/vavlxxx/Feed-Fusion/internal/api"
	tuistate "github.com/vavlxxx/Feed-Fusion/internal/tui/state"
	"github.com/vavlxxx/Feed-Fusion/internal/tui/view"
)

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n")

	switch {
	case m.showHelp:
		b.WriteString(m.helpView())
	case m.form != nil:
		b.WriteString(m.formView())
	case m.inDetail:
		b.WriteString(view.Toolbar("", true))
		b.WriteString("\n\n")
		b.WriteString(m.detailView())
	default:
		b.WriteString(view.Toolbar(tabLabels[m.tab], false))
		b.WriteString("\n\n")
		b.WriteString(m.tabView())
	}

	b.WriteString("\n")
	b.WriteString(view.StatusLine(m.snap.FeedState, m.status, m.warning, m.th))
	b.WriteString("\n")
	b.WriteString(view.Footer(m.snap.Filters, m.snap.FeedState, len(m.snap.Items), m.snap.TotalCount, m.snap.HasNext, m.th))
	b.WriteString("\n")
	return b.String()
}

func (m Model) header() string {
	parts := []string{m.th.Title.Render("Feed Fusion")}
	last := tabProfile
	if m.snap.User != nil && m.snap.User.IsAdmin() {
		last = tabAdmin
	}
	for i := 0; i <= last; i++ {
		parts = append(parts, m.th.RenderTab(i == m.tab, tabLabels[i]))
	}
	if m.snap.User != nil {
		parts = append(parts, m.th.MetaValue.Render("@"+m.snap.User.Username))
	} else {
		parts = append(parts, m.th.MetaLabel.Render("anonymous"))
	}
	return strings.Join(parts, " ")
}

func (m Model) tabView() string {
	switch m.tab {
	case tabChannels:
		return m.channelsView()
	case tabCategories:
		return m.categoriesView()
	case tabProfile:
		return m.profileView()
	case tabAdmin:
		return m.adminView()
	default:
		return m.feedView()
	}
}

func (m Model) feedView() string {
	if len(m.snap.Items) == 0 {
		if m.loading {
			return "Loading feed...\n"
		}
		return "No news match the current filter. Press R to reset.\n"
	}
	var b strings.Builder
	start, end := tuistate.Window(len(m.snap.Items), m.feedCursor, m.listHeight())
	for i := start; i < end; i++ {
		item := m.snap.Items[i]
		b.WriteString(view.RenderNewsLine(view.NewsLineParams{
			Item:       item,
			Subscribed: m.service.SubscribedTo(item.ChannelID),
			Active:     i == m.feedCursor,
			Width:      m.contentWidth(),
		}, m.th))
		b.WriteString("\n")
		if i == m.feedCursor {
			if preview := view.SummaryPreview(item.Summary, m.contentWidth()); preview != "" {
				b.WriteString("      " + m.th.MetaValue.Render(preview) + "\n")
			}
		}
	}
	return b.String()
}

func (m Model) detailView() string {
	if len(m.snap.Items) == 0 {
		return m.feedView()
	}
	item := m.snap.Items[m.feedCursor]
	lines := view.DetailLines(item, m.contentWidth(), m.previewState(item.ID), m.th)
	return view.RenderDetailLines(lines, m.detailTop, m.detailBodyHeight())
}

func (m Model) channelsView() string {
	if len(m.snap.Channels) == 0 {
		return "Channel catalog is empty. Press r to reload.\n"
	}
	var b strings.Builder
	b.WriteString(m.th.Section.Render("Channels"))
	b.WriteString("\n")
	start, end := tuistate.Window(len(m.snap.Channels), m.channelCursor, m.listHeight()-1)
	for i := start; i < end; i++ {
		ch := m.snap.Channels[i]
		_, selected := m.snap.Pending.ChannelIDs[ch.ID]
		b.WriteString(view.RenderChannelLine(view.ChannelLineParams{
			Channel:    ch,
			Subscribed: m.service.SubscribedTo(ch.ID),
			Selected:   selected,
			Active:     i == m.channelCursor,
			Width:      m.contentWidth(),
		}, m.th))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) categoriesView() string {
	var b strings.Builder
	b.WriteString(m.th.Section.Render("Categories"))
	b.WriteString("\n")
	for i, category := range api.Categories() {
		_, selected := m.snap.Pending.Categories[category]
		b.WriteString(view.RenderCategoryLine(category, selected, i == m.categoryCursor, m.contentWidth(), m.th))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) profileView() string {
	var b strings.Builder
	if m.snap.User == nil {
		b.WriteString("Not signed in.\n\n")
		b.WriteString("e: sign in | ctrl+r: register\n")
		return b.String()
	}
	u := m.snap.User
	b.WriteString(m.th.Section.Render("Profile"))
	b.WriteString("\n")
	field := func(label, value string) {
		if value == "" {
			value = "-"
		}
		b.WriteString("  " + m.th.MetaLabel.Render(label) + " " + m.th.MetaValue.Render(value) + "\n")
	}
	field("username:  ", u.Username)
	field("role:      ", u.Role)
	field("first name:", u.FirstName)
	field("last name: ", u.LastName)
	field("telegram:  ", u.TelegramID)
	b.WriteString("\ne: edit | x: sign out\n")
	return b.String()
}

func (m Model) adminView() string {
	var b strings.Builder
	b.WriteString(m.th.Section.Render("Channel administration"))
	b.WriteString("\n")
	if m.pendingDeleteID != 0 {
		b.WriteString(fmt.Sprintf("Delete channel #%d? y to confirm, any other key to cancel\n", m.pendingDeleteID))
		return b.String()
	}
	if len(m.snap.Channels) == 0 {
		b.WriteString("No channels. Press n to create one.\n")
		return b.String()
	}
	start, end := tuistate.Window(len(m.snap.Channels), m.adminCursor, m.listHeight()-1)
	for i := start; i < end; i++ {
		ch := m.snap.Channels[i]
		b.WriteString(view.RenderChannelLine(view.ChannelLineParams{
			Channel: ch,
			Active:  i == m.adminCursor,
			Width:   m.contentWidth(),
		}, m.th))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) formView() string {
	f := m.form
	var b strings.Builder
	b.WriteString(view.Toolbar("auth", false))
	b.WriteString("\n\n")
	b.WriteString(m.th.Section.Render(f.title))
	b.WriteString("\n")
	for i, label := range f.labels {
		value := f.values[i]
		if i < len(f.masked) && f.masked[i] {
			value = strings.Repeat("*", len([]rune(value)))
		}
		marker := "  "
		styledLabel := m.th.FormLabel.Render(label)
		if i == f.focus {
			marker = "> "
			styledLabel = m.th.FormFieldFocus.Render(label)
			value += "_"
		}
		b.WriteString(fmt.Sprintf("%s%s: %s\n", marker, styledLabel, m.th.FormValue.Render(value)))
	}
	return b.String()
}

func (m Model) helpView() string {
	sections := []struct {
		title string
		keys  []string
	}{
		{"Feed", []string{
			"j/k, arrows    move",
			"g/G            top / bottom",
			"enter          open details",
			"n              load next page",
			"/              search query",
			"o              flip sort order",
			"R              reset filters",
			"r              reload current feed",
		}},
		{"Filters", []string{
			"space          select channel / category",
			"enter          apply selection",
		}},
		{"Account", []string{
			"e              sign in / edit profile",
			"ctrl+r         register",
			"x              sign out",
			"s              subscribe / unsubscribe (channels tab)",
		}},
		{"General", []string{
			"tab/shift+tab  switch tabs",
			"?              toggle help",
			"q, ctrl+c      quit",
		}},
	}
	var b strings.Builder
	b.WriteString("Help (? to close)\n\n")
	for _, section := range sections {
		b.WriteString(m.th.Section.Render(section.title))
		b.WriteString("\n")
		for _, key := range section.keys {
			b.WriteString("  " + key + "\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}
