package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vavlxxx/Feed-Fusion/internal/api"
	"github.com/vavlxxx/Feed-Fusion/internal/app"
	"github.com/vavlxxx/Feed-Fusion/internal/feed"
)

type fakeService struct {
	snap app.Snapshot

	query          string
	toggledIDs     []int64
	toggledCats    []api.Category
	commitCalls    int
	resetCalls     int
	loadMoreCalls  int
	refreshCalls   int
	loginUser      string
	loginPass      string
	logoutCalls    int
	subscribed     map[int64]bool
	deletedID      int64
	createdDrafts  []api.ChannelDraft
	updatedTitles  []string
	registeredUser string
}

func (f *fakeService) Snapshot() app.Snapshot              { return f.snap }
func (f *fakeService) Bootstrap(context.Context) error     { return nil }
func (f *fakeService) SetQuery(q string)                   { f.query = q }
func (f *fakeService) ToggleChannel(id int64)              { f.toggledIDs = append(f.toggledIDs, id) }
func (f *fakeService) ToggleCategory(c api.Category)       { f.toggledCats = append(f.toggledCats, c) }
func (f *fakeService) SetRecentFirst(bool)                 {}
func (f *fakeService) CommitFilters(context.Context) error { f.commitCalls++; return nil }
func (f *fakeService) ResetFilters(context.Context) error  { f.resetCalls++; return nil }
func (f *fakeService) RefreshFeed(context.Context) error   { f.refreshCalls++; return nil }
func (f *fakeService) LoadMore(context.Context) error      { f.loadMoreCalls++; return nil }

func (f *fakeService) Login(_ context.Context, username, password string) (api.User, error) {
	f.loginUser, f.loginPass = username, password
	return api.User{Username: username}, nil
}

func (f *fakeService) Register(_ context.Context, username, _ string) error {
	f.registeredUser = username
	return nil
}

func (f *fakeService) Logout() { f.logoutCalls++ }

func (f *fakeService) UpdateProfile(context.Context, string, string, string) (api.User, error) {
	return api.User{}, nil
}

func (f *fakeService) Subscribe(_ context.Context, id int64) error {
	if f.subscribed == nil {
		f.subscribed = make(map[int64]bool)
	}
	f.subscribed[id] = true
	return nil
}

func (f *fakeService) Unsubscribe(_ context.Context, id int64) error {
	delete(f.subscribed, id)
	return nil
}

func (f *fakeService) SubscribedTo(id int64) bool            { return f.subscribed[id] }
func (f *fakeService) RefreshChannels(context.Context) error { return nil }

func (f *fakeService) CreateChannel(_ context.Context, draft api.ChannelDraft) error {
	f.createdDrafts = append(f.createdDrafts, draft)
	return nil
}

func (f *fakeService) UpdateChannel(_ context.Context, _ int64, title, _, _ string) error {
	f.updatedTitles = append(f.updatedTitles, title)
	return nil
}

func (f *fakeService) DeleteChannel(_ context.Context, id int64) error {
	f.deletedID = id
	return nil
}

func baseSnapshot() app.Snapshot {
	return app.Snapshot{
		Channels: []api.Channel{
			{ID: 3, Title: "WorldDesk"},
			{ID: 5, Title: "TechWire"},
		},
		Filters: feed.Snapshot{RecentFirst: true, PageSize: 9},
		Pending: feed.Filters{
			ChannelIDs: map[int64]struct{}{},
			Categories: map[api.Category]struct{}{},
		},
		Items: []app.Item{
			{NewsItem: api.NewsItem{ID: 1, Title: "First", ChannelID: 5}, ChannelTitle: "TechWire"},
			{NewsItem: api.NewsItem{ID: 2, Title: "Second", ChannelID: 3}, ChannelTitle: "WorldDesk"},
		},
		FeedState:  feed.StateIdle,
		HasNext:    true,
		TotalCount: 12,
	}
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func typeString(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		next, _ := m.Update(keyMsg(string(r)))
		m = next.(Model)
	}
	return m
}

func TestLoadMoreKeyTriggersFetch(t *testing.T) {
	svc := &fakeService{snap: baseSnapshot()}
	m := NewModel(svc)
	m.loading = false

	next, cmd := m.Update(keyMsg("n"))
	m = next.(Model)
	if cmd == nil {
		t.Fatal("expected a load-more command")
	}
	if !m.loading {
		t.Error("model should enter loading")
	}
	if _, ok := cmd().(feedResultMsg); !ok {
		t.Fatal("command did not produce a feed result")
	}
	if svc.loadMoreCalls != 1 {
		t.Errorf("LoadMore calls = %d, want 1", svc.loadMoreCalls)
	}

	// A second press while loading must not issue another fetch.
	if _, cmd := m.Update(keyMsg("n")); cmd != nil {
		t.Error("load-more issued while already loading")
	}
}

func TestSearchFormCommitsQuery(t *testing.T) {
	svc := &fakeService{snap: baseSnapshot()}
	m := NewModel(svc)
	m.loading = false

	next, _ := m.Update(keyMsg("/"))
	m = next.(Model)
	if m.form == nil || m.form.kind != formSearch {
		t.Fatal("search form did not open")
	}

	m = typeString(t, m, "golang")
	next, cmd := m.Update(keyMsg("enter"))
	m = next.(Model)
	if m.form != nil {
		t.Error("form should close on submit")
	}
	if svc.query != "golang" {
		t.Errorf("query = %q, want golang", svc.query)
	}
	if cmd == nil {
		t.Fatal("expected a commit command")
	}
	cmd()
	if svc.commitCalls != 1 {
		t.Errorf("commit calls = %d, want 1", svc.commitCalls)
	}
}

func TestChannelSelectionAndApply(t *testing.T) {
	svc := &fakeService{snap: baseSnapshot()}
	m := NewModel(svc)
	m.loading = false
	m.tab = tabChannels

	next, _ := m.Update(keyMsg("j"))
	m = next.(Model)
	next, _ = m.Update(keyMsg(" "))
	m = next.(Model)
	if len(svc.toggledIDs) != 1 || svc.toggledIDs[0] != 5 {
		t.Fatalf("toggled ids = %v, want [5]", svc.toggledIDs)
	}

	next, cmd := m.Update(keyMsg("enter"))
	m = next.(Model)
	if m.tab != tabFeed {
		t.Error("apply should jump back to the feed tab")
	}
	if cmd == nil {
		t.Fatal("expected a commit command")
	}
	cmd()
	if svc.commitCalls != 1 {
		t.Errorf("commit calls = %d, want 1", svc.commitCalls)
	}
}

func TestLoginFormFlow(t *testing.T) {
	svc := &fakeService{snap: baseSnapshot()}
	m := NewModel(svc)
	m.loading = false
	m.tab = tabProfile

	next, _ := m.Update(keyMsg("e"))
	m = next.(Model)
	if m.form == nil || m.form.kind != formLogin {
		t.Fatal("login form did not open")
	}

	m = typeString(t, m, "ada")
	next, _ = m.Update(keyMsg("tab"))
	m = next.(Model)
	m = typeString(t, m, "secret")
	next, cmd := m.Update(keyMsg("enter"))
	m = next.(Model)
	if cmd == nil {
		t.Fatal("expected a login command")
	}
	msg := cmd()
	if svc.loginUser != "ada" || svc.loginPass != "secret" {
		t.Fatalf("login called with %q/%q", svc.loginUser, svc.loginPass)
	}

	next, _ = m.Update(msg)
	m = next.(Model)
	if !strings.Contains(m.status, "ada") {
		t.Errorf("status = %q, want sign-in confirmation", m.status)
	}
}

func TestEmptyLoginRejectedLocally(t *testing.T) {
	svc := &fakeService{snap: baseSnapshot()}
	m := NewModel(svc)
	m.tab = tabProfile

	next, _ := m.Update(keyMsg("e"))
	m = next.(Model)
	next, cmd := m.Update(keyMsg("enter")) // jump to password
	m = next.(Model)
	next, cmd = m.Update(keyMsg("enter")) // submit with both fields empty
	m = next.(Model)
	if cmd != nil {
		t.Fatal("empty credentials should not reach the service")
	}
	if m.warning == "" {
		t.Error("expected a validation warning")
	}
}

func TestAdminTabHiddenForReaders(t *testing.T) {
	snap := baseSnapshot()
	snap.User = &api.User{Username: "ada", Role: "reader"}
	svc := &fakeService{snap: snap}
	m := NewModel(svc)
	m.tab = tabProfile

	next, _ := m.Update(keyMsg("tab"))
	m = next.(Model)
	if m.tab == tabAdmin {
		t.Fatal("reader reached the admin tab")
	}

	snap.User = &api.User{Username: "root", Role: api.RoleAdmin}
	svc.snap = snap
	m.snap = snap
	m.tab = tabProfile
	next, _ = m.Update(keyMsg("tab"))
	m = next.(Model)
	if m.tab != tabAdmin {
		t.Fatal("admin could not reach the admin tab")
	}
}

func TestDeleteChannelNeedsConfirmation(t *testing.T) {
	snap := baseSnapshot()
	snap.User = &api.User{Username: "root", Role: api.RoleAdmin}
	svc := &fakeService{snap: snap}
	m := NewModel(svc)
	m.tab = tabAdmin

	next, _ := m.Update(keyMsg("x"))
	m = next.(Model)
	if m.pendingDeleteID != 3 {
		t.Fatalf("pending delete = %d, want 3", m.pendingDeleteID)
	}

	// Any key but y cancels.
	next, cmd := m.Update(keyMsg("j"))
	m = next.(Model)
	if cmd == nil {
		t.Fatal("cancel should schedule a status clear")
	}
	if svc.deletedID != 0 {
		t.Fatal("cancelled delete reached the service")
	}

	next, _ = m.Update(keyMsg("x"))
	m = next.(Model)
	next, cmd = m.Update(keyMsg("y"))
	m = next.(Model)
	if cmd == nil {
		t.Fatal("expected a delete command")
	}
	cmd()
	if svc.deletedID != 3 {
		t.Errorf("deleted id = %d, want 3", svc.deletedID)
	}
}

func TestDetailNavigation(t *testing.T) {
	svc := &fakeService{snap: baseSnapshot()}
	m := NewModel(svc)
	m.loading = false

	next, _ := m.Update(keyMsg("enter"))
	m = next.(Model)
	if !m.inDetail {
		t.Fatal("enter should open the detail pane")
	}

	next, _ = m.Update(keyMsg("]"))
	m = next.(Model)
	if m.feedCursor != 1 {
		t.Errorf("cursor = %d, want 1", m.feedCursor)
	}

	next, _ = m.Update(keyMsg("esc"))
	m = next.(Model)
	if m.inDetail {
		t.Error("esc should close the detail pane")
	}
}

func TestEmptiedFeedClosesDetailPane(t *testing.T) {
	svc := &fakeService{snap: baseSnapshot()}
	m := NewModel(svc)
	m.loading = false
	m.width = 80
	m.height = 24

	next, _ := m.Update(keyMsg("enter"))
	m = next.(Model)
	if !m.inDetail {
		t.Fatal("enter should open the detail pane")
	}

	// A refresh that resolves to an empty feed must drop the detail pane,
	// not leave the cursor pointing past the items.
	empty := baseSnapshot()
	empty.Items = nil
	empty.HasNext = false
	empty.TotalCount = 0
	svc.snap = empty

	next, _ = m.Update(feedResultMsg{})
	m = next.(Model)
	if m.inDetail {
		t.Error("detail pane should close when the feed empties")
	}
	if out := m.View(); !strings.Contains(out, "No news match") {
		t.Errorf("view should fall back to the empty feed message:\n%s", out)
	}

	next, _ = m.Update(keyMsg("j"))
	if m = next.(Model); m.feedCursor != 0 {
		t.Errorf("cursor = %d, want 0", m.feedCursor)
	}
}

func TestViewRendersFeed(t *testing.T) {
	svc := &fakeService{snap: baseSnapshot()}
	m := NewModel(svc)
	m.loading = false
	m.width = 80
	m.height = 24

	out := m.View()
	if !strings.Contains(out, "First") || !strings.Contains(out, "Feed Fusion") {
		t.Errorf("view missing expected content:\n%s", out)
	}
	if !strings.Contains(out, "2 of 12 shown") {
		t.Errorf("footer missing progress:\n%s", out)
	}
}
