package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vavlxxx/Feed-Fusion/internal/api"
	"github.com/vavlxxx/Feed-Fusion/internal/app"
	tuistate "github.com/vavlxxx/Feed-Fusion/internal/tui/state"
	tuitheme "github.com/vavlxxx/Feed-Fusion/internal/tui/theme"
	"github.com/vavlxxx/Feed-Fusion/internal/tui/view"
)

type Service interface {
	Snapshot() app.Snapshot
	Bootstrap(ctx context.Context) error

	SetQuery(query string)
	ToggleChannel(id int64)
	ToggleCategory(category api.Category)
	SetRecentFirst(recentFirst bool)
	CommitFilters(ctx context.Context) error
	ResetFilters(ctx context.Context) error
	RefreshFeed(ctx context.Context) error
	LoadMore(ctx context.Context) error

	Login(ctx context.Context, username, password string) (api.User, error)
	Register(ctx context.Context, username, password string) error
	Logout()
	UpdateProfile(ctx context.Context, firstName, lastName, telegramID string) (api.User, error)

	Subscribe(ctx context.Context, channelID int64) error
	Unsubscribe(ctx context.Context, channelID int64) error
	SubscribedTo(channelID int64) bool
	RefreshChannels(ctx context.Context) error

	CreateChannel(ctx context.Context, draft api.ChannelDraft) error
	UpdateChannel(ctx context.Context, id int64, title, link, description string) error
	DeleteChannel(ctx context.Context, id int64) error
}

const (
	tabFeed = iota
	tabChannels
	tabCategories
	tabProfile
	tabAdmin
)

var tabLabels = []string{"feed", "channels", "categories", "profile", "admin"}

type bootstrapDoneMsg struct{ err error }

type feedResultMsg struct{ err error }

type channelsReloadedMsg struct{ err error }

type loginResultMsg struct {
	username string
	err      error
}

type registerResultMsg struct {
	username string
	err      error
}

type profileSavedMsg struct{ err error }

type subscriptionToggledMsg struct {
	subscribed bool
	err        error
}

type channelSavedMsg struct {
	action string
	err    error
}

type imagePreviewMsg struct {
	itemID  int64
	preview string
	err     error
}

type clearStatusMsg struct{ id int }

const (
	formSearch = iota
	formLogin
	formRegister
	formProfile
	formChannelNew
	formChannelEdit
)

type form struct {
	kind      int
	title     string
	labels    []string
	values    []string
	masked    []bool
	focus     int
	channelID int64
}

type Model struct {
	service Service
	th      tuitheme.Theme
	snap    app.Snapshot

	tab            int
	feedCursor     int
	channelCursor  int
	categoryCursor int
	adminCursor    int

	inDetail  bool
	detailTop int
	form      *form

	pendingDeleteID int64

	width  int
	height int

	loading  bool
	status   string
	statusID int
	warning  string
	showHelp bool

	imagePreview        map[int64]string
	imagePreviewErr     map[int64]string
	imagePreviewLoading map[int64]bool
	renderImageFn       func(string, int) (string, error)
}

func NewModel(service Service) Model {
	return Model{
		service:             service,
		th:                  tuitheme.Default(),
		snap:                service.Snapshot(),
		loading:             true,
		renderImageFn:       view.RenderImagePreview,
		imagePreview:        make(map[int64]string),
		imagePreviewErr:     make(map[int64]string),
		imagePreviewLoading: make(map[int64]bool),
	}
}

func (m Model) Init() tea.Cmd {
	return bootstrapCmd(m.service)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		return m.updateKey(msg)
	case bootstrapDoneMsg:
		m.loading = false
		m.snap = m.service.Snapshot()
		if msg.err != nil {
			m.warning = msg.err.Error()
			return m, nil
		}
		m.warning = ""
		return m, nil
	case feedResultMsg:
		m.loading = false
		m.snap = m.service.Snapshot()
		m.feedCursor = tuistate.ClampCursor(m.feedCursor, len(m.snap.Items))
		if len(m.snap.Items) == 0 {
			m.inDetail = false
			m.detailTop = 0
		}
		if msg.err != nil {
			m.warning = msg.err.Error()
			return m, nil
		}
		m.warning = ""
		return m, nil
	case channelsReloadedMsg:
		m.snap = m.service.Snapshot()
		if msg.err != nil {
			m.warning = msg.err.Error()
			return m, nil
		}
		return m.setStatus("Channel catalog reloaded")
	case loginResultMsg:
		m.snap = m.service.Snapshot()
		if msg.err != nil {
			m.warning = msg.err.Error()
			return m, nil
		}
		m.warning = ""
		return m.setStatus(fmt.Sprintf("Signed in as %s", msg.username))
	case registerResultMsg:
		if msg.err != nil {
			m.warning = msg.err.Error()
			return m, nil
		}
		m.warning = ""
		return m.setStatus(fmt.Sprintf("Account %s created, sign in to continue", msg.username))
	case profileSavedMsg:
		m.snap = m.service.Snapshot()
		if msg.err != nil {
			m.warning = msg.err.Error()
			return m, nil
		}
		m.warning = ""
		return m.setStatus("Profile saved")
	case subscriptionToggledMsg:
		m.snap = m.service.Snapshot()
		if msg.err != nil {
			m.warning = msg.err.Error()
			return m, nil
		}
		if msg.subscribed {
			return m.setStatus("Subscribed")
		}
		return m.setStatus("Unsubscribed")
	case channelSavedMsg:
		m.snap = m.service.Snapshot()
		m.adminCursor = tuistate.ClampCursor(m.adminCursor, len(m.snap.Channels))
		if msg.err != nil {
			m.warning = msg.err.Error()
			return m, nil
		}
		m.warning = ""
		return m.setStatus("Channel " + msg.action)
	case imagePreviewMsg:
		delete(m.imagePreviewLoading, msg.itemID)
		if msg.err != nil {
			m.imagePreviewErr[msg.itemID] = msg.err.Error()
			return m, nil
		}
		m.imagePreview[msg.itemID] = msg.preview
		return m, nil
	case clearStatusMsg:
		if msg.id == m.statusID {
			m.status = ""
		}
		return m, nil
	}
	return m, nil
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.form != nil {
		return m.updateForm(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "?":
		m.showHelp = !m.showHelp
		return m, nil
	}

	if m.showHelp {
		if msg.String() == "esc" {
			m.showHelp = false
		}
		return m, nil
	}

	if m.inDetail {
		return m.updateDetail(msg)
	}

	switch msg.String() {
	case "tab":
		m.tab = m.nextTab(1)
		return m, nil
	case "shift+tab":
		m.tab = m.nextTab(-1)
		return m, nil
	}

	switch m.tab {
	case tabFeed:
		return m.updateFeed(msg)
	case tabChannels:
		return m.updateChannels(msg)
	case tabCategories:
		return m.updateCategories(msg)
	case tabProfile:
		return m.updateProfile(msg)
	case tabAdmin:
		return m.updateAdmin(msg)
	}
	return m, nil
}

func (m Model) nextTab(delta int) int {
	last := tabProfile
	if m.snap.User != nil && m.snap.User.IsAdmin() {
		last = tabAdmin
	}
	tab := m.tab + delta
	if tab < 0 {
		tab = last
	}
	if tab > last {
		tab = 0
	}
	return tab
}

func (m Model) updateFeed(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.feedCursor = tuistate.ClampCursor(m.feedCursor-1, len(m.snap.Items))
		return m, nil
	case "down", "j":
		m.feedCursor = tuistate.ClampCursor(m.feedCursor+1, len(m.snap.Items))
		return m, nil
	case "g":
		m.feedCursor = 0
		return m, nil
	case "G":
		m.feedCursor = tuistate.ClampCursor(len(m.snap.Items)-1, len(m.snap.Items))
		return m, nil
	case "pgup":
		m.feedCursor = tuistate.ClampCursor(m.feedCursor-m.pageStep(), len(m.snap.Items))
		return m, nil
	case "pgdown":
		m.feedCursor = tuistate.ClampCursor(m.feedCursor+m.pageStep(), len(m.snap.Items))
		return m, nil
	case "enter":
		if len(m.snap.Items) == 0 {
			return m, nil
		}
		m.inDetail = true
		m.detailTop = 0
		return m, nil
	case "n":
		if m.loading {
			return m, nil
		}
		m.loading = true
		return m, loadMoreCmd(m.service)
	case "/":
		m.form = &form{
			kind:   formSearch,
			title:  "Search",
			labels: []string{"query"},
			values: []string{m.snap.Pending.Query},
		}
		return m, nil
	case "o":
		m.service.SetRecentFirst(!m.snap.Filters.RecentFirst)
		m.loading = true
		return m, commitFiltersCmd(m.service)
	case "R":
		m.loading = true
		return m, resetFiltersCmd(m.service)
	case "r":
		m.loading = true
		return m, refreshFeedCmd(m.service)
	}
	return m, nil
}

func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if len(m.snap.Items) == 0 {
		m.inDetail = false
		m.detailTop = 0
		return m, nil
	}
	switch msg.String() {
	case "esc", "backspace":
		m.inDetail = false
		m.detailTop = 0
		return m, nil
	case "up", "k":
		if m.detailTop > 0 {
			m.detailTop--
		}
		return m, nil
	case "down", "j":
		item := m.snap.Items[m.feedCursor]
		lines := view.DetailLines(item, m.contentWidth(), m.previewState(item.ID), m.th)
		if m.detailTop < view.DetailMaxTop(len(lines), m.detailBodyHeight()) {
			m.detailTop++
		}
		return m, nil
	case "[":
		if m.feedCursor > 0 {
			m.feedCursor--
			m.detailTop = 0
		}
		return m, nil
	case "]":
		if m.feedCursor < len(m.snap.Items)-1 {
			m.feedCursor++
			m.detailTop = 0
		}
		return m, nil
	case "i":
		item := m.snap.Items[m.feedCursor]
		if item.Image == "" || m.imagePreviewLoading[item.ID] {
			return m, nil
		}
		if _, ok := m.imagePreview[item.ID]; ok {
			return m, nil
		}
		m.imagePreviewLoading[item.ID] = true
		delete(m.imagePreviewErr, item.ID)
		return m, imagePreviewCmd(item.ID, item.Image, m.contentWidth(), m.renderImageFn)
	}
	return m, nil
}

func (m Model) updateChannels(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.channelCursor = tuistate.ClampCursor(m.channelCursor-1, len(m.snap.Channels))
		return m, nil
	case "down", "j":
		m.channelCursor = tuistate.ClampCursor(m.channelCursor+1, len(m.snap.Channels))
		return m, nil
	case " ":
		if len(m.snap.Channels) == 0 {
			return m, nil
		}
		m.service.ToggleChannel(m.snap.Channels[m.channelCursor].ID)
		m.snap = m.service.Snapshot()
		return m, nil
	case "enter":
		m.loading = true
		m.tab = tabFeed
		return m, commitFiltersCmd(m.service)
	case "s":
		if len(m.snap.Channels) == 0 {
			return m, nil
		}
		id := m.snap.Channels[m.channelCursor].ID
		return m, toggleSubscriptionCmd(m.service, id, m.service.SubscribedTo(id))
	case "r":
		return m, reloadChannelsCmd(m.service)
	}
	return m, nil
}

func (m Model) updateCategories(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	categories := api.Categories()
	switch msg.String() {
	case "up", "k":
		m.categoryCursor = tuistate.ClampCursor(m.categoryCursor-1, len(categories))
		return m, nil
	case "down", "j":
		m.categoryCursor = tuistate.ClampCursor(m.categoryCursor+1, len(categories))
		return m, nil
	case " ":
		m.service.ToggleCategory(categories[m.categoryCursor])
		m.snap = m.service.Snapshot()
		return m, nil
	case "enter":
		m.loading = true
		m.tab = tabFeed
		return m, commitFiltersCmd(m.service)
	}
	return m, nil
}

func (m Model) updateProfile(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.snap.User == nil {
		switch msg.String() {
		case "e", "enter":
			m.form = loginForm("")
			return m, nil
		case "ctrl+r":
			m.form = registerForm("")
			return m, nil
		}
		return m, nil
	}
	switch msg.String() {
	case "e":
		m.form = &form{
			kind:   formProfile,
			title:  "Edit profile",
			labels: []string{"first name", "last name", "telegram id"},
			values: []string{m.snap.User.FirstName, m.snap.User.LastName, m.snap.User.TelegramID},
		}
		return m, nil
	case "x":
		m.service.Logout()
		m.snap = m.service.Snapshot()
		if m.tab == tabAdmin {
			m.tab = tabProfile
		}
		return m.setStatus("Signed out")
	}
	return m, nil
}

func (m Model) updateAdmin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.pendingDeleteID != 0 {
		id := m.pendingDeleteID
		m.pendingDeleteID = 0
		if msg.String() == "y" {
			return m, deleteChannelCmd(m.service, id)
		}
		return m.setStatus("Delete cancelled")
	}

	switch msg.String() {
	case "up", "k":
		m.adminCursor = tuistate.ClampCursor(m.adminCursor-1, len(m.snap.Channels))
		return m, nil
	case "down", "j":
		m.adminCursor = tuistate.ClampCursor(m.adminCursor+1, len(m.snap.Channels))
		return m, nil
	case "n":
		m.form = &form{
			kind:   formChannelNew,
			title:  "New channel",
			labels: []string{"title", "link", "description"},
			values: []string{"", "", ""},
		}
		return m, nil
	case "e":
		if len(m.snap.Channels) == 0 {
			return m, nil
		}
		ch := m.snap.Channels[m.adminCursor]
		m.form = &form{
			kind:      formChannelEdit,
			title:     "Edit channel",
			labels:    []string{"title", "link", "description"},
			values:    []string{ch.Title, ch.Link, ch.Description},
			channelID: ch.ID,
		}
		return m, nil
	case "x":
		if len(m.snap.Channels) == 0 {
			return m, nil
		}
		m.pendingDeleteID = m.snap.Channels[m.adminCursor].ID
		return m, nil
	}
	return m, nil
}

func loginForm(username string) *form {
	return &form{
		kind:   formLogin,
		title:  "Sign in",
		labels: []string{"username", "password"},
		values: []string{username, ""},
		masked: []bool{false, true},
	}
}

func registerForm(username string) *form {
	return &form{
		kind:   formRegister,
		title:  "Register",
		labels: []string{"username", "password"},
		values: []string{username, ""},
		masked: []bool{false, true},
	}
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.form
	switch msg.String() {
	case "esc":
		m.form = nil
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	case "ctrl+r":
		// Flip between the two auth forms keeping the typed username.
		if f.kind == formLogin {
			m.form = registerForm(f.values[0])
			return m, nil
		}
		if f.kind == formRegister {
			m.form = loginForm(f.values[0])
			return m, nil
		}
		return m, nil
	case "tab", "down":
		f.focus = (f.focus + 1) % len(f.values)
		return m, nil
	case "shift+tab", "up":
		f.focus = (f.focus + len(f.values) - 1) % len(f.values)
		return m, nil
	case "enter":
		if f.focus < len(f.values)-1 {
			f.focus++
			return m, nil
		}
		return m.submitForm()
	case "backspace":
		if v := f.values[f.focus]; v != "" {
			runes := []rune(v)
			f.values[f.focus] = string(runes[:len(runes)-1])
		}
		return m, nil
	}

	switch msg.Type {
	case tea.KeyRunes:
		f.values[f.focus] += string(msg.Runes)
	case tea.KeySpace:
		f.values[f.focus] += " "
	}
	return m, nil
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	f := m.form
	m.form = nil
	switch f.kind {
	case formSearch:
		m.service.SetQuery(strings.TrimSpace(f.values[0]))
		m.loading = true
		return m, commitFiltersCmd(m.service)
	case formLogin:
		username := strings.TrimSpace(f.values[0])
		if username == "" || f.values[1] == "" {
			m.warning = "username and password are required"
			return m, nil
		}
		return m, loginCmd(m.service, username, f.values[1])
	case formRegister:
		username := strings.TrimSpace(f.values[0])
		if username == "" || f.values[1] == "" {
			m.warning = "username and password are required"
			return m, nil
		}
		return m, registerCmd(m.service, username, f.values[1])
	case formProfile:
		return m, saveProfileCmd(m.service, f.values[0], f.values[1], f.values[2])
	case formChannelNew:
		draft := api.ChannelDraft{
			Title:       strings.TrimSpace(f.values[0]),
			Link:        strings.TrimSpace(f.values[1]),
			Description: strings.TrimSpace(f.values[2]),
		}
		if draft.Title == "" || draft.Link == "" {
			m.warning = "title and link are required"
			return m, nil
		}
		return m, createChannelCmd(m.service, draft)
	case formChannelEdit:
		return m, updateChannelCmd(m.service, f.channelID, f.values[0], f.values[1], f.values[2])
	}
	return m, nil
}

func (m Model) setStatus(status string) (tea.Model, tea.Cmd) {
	m.status = status
	m.statusID++
	return m, clearStatusCmd(m.statusID)
}

func (m Model) pageStep() int {
	return tuistate.PageStep(m.height, 7)
}

func (m Model) contentWidth() int {
	if m.width <= 0 {
		return 80
	}
	if m.width > 100 {
		return 100
	}
	return m.width
}

func (m Model) detailBodyHeight() int {
	if m.height <= 0 {
		return 20
	}
	body := m.height - 6
	if body < 5 {
		body = 5
	}
	return body
}

func (m Model) listHeight() int {
	if m.height <= 0 {
		return 20
	}
	h := m.height - 7
	if h < 3 {
		h = 3
	}
	return h
}

func (m Model) previewState(itemID int64) view.ImagePreviewState {
	return view.ImagePreviewState{
		Loading: m.imagePreviewLoading[itemID],
		Raw:     m.imagePreview[itemID],
		Err:     m.imagePreviewErr[itemID],
	}
}

func bootstrapCmd(service Service) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return bootstrapDoneMsg{err: service.Bootstrap(ctx)}
	}
}

func commitFiltersCmd(service Service) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 12*time.Second)
		defer cancel()
		return feedResultMsg{err: service.CommitFilters(ctx)}
	}
}

func resetFiltersCmd(service Service) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 12*time.Second)
		defer cancel()
		return feedResultMsg{err: service.ResetFilters(ctx)}
	}
}

func refreshFeedCmd(service Service) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 12*time.Second)
		defer cancel()
		return feedResultMsg{err: service.RefreshFeed(ctx)}
	}
}

func loadMoreCmd(service Service) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 12*time.Second)
		defer cancel()
		return feedResultMsg{err: service.LoadMore(ctx)}
	}
}

func reloadChannelsCmd(service Service) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 12*time.Second)
		defer cancel()
		return channelsReloadedMsg{err: service.RefreshChannels(ctx)}
	}
}

func loginCmd(service Service, username, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 12*time.Second)
		defer cancel()
		_, err := service.Login(ctx, username, password)
		return loginResultMsg{username: username, err: err}
	}
}

func registerCmd(service Service, username, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 12*time.Second)
		defer cancel()
		return registerResultMsg{username: username, err: service.Register(ctx, username, password)}
	}
}

func saveProfileCmd(service Service, firstName, lastName, telegramID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 12*time.Second)
		defer cancel()
		_, err := service.UpdateProfile(ctx, firstName, lastName, telegramID)
		return profileSavedMsg{err: err}
	}
}

func toggleSubscriptionCmd(service Service, channelID int64, subscribed bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 12*time.Second)
		defer cancel()
		if subscribed {
			return subscriptionToggledMsg{subscribed: false, err: service.Unsubscribe(ctx, channelID)}
		}
		return subscriptionToggledMsg{subscribed: true, err: service.Subscribe(ctx, channelID)}
	}
}

func createChannelCmd(service Service, draft api.ChannelDraft) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 12*time.Second)
		defer cancel()
		return channelSavedMsg{action: "created", err: service.CreateChannel(ctx, draft)}
	}
}

func updateChannelCmd(service Service, id int64, title, link, description string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 12*time.Second)
		defer cancel()
		return channelSavedMsg{action: "updated", err: service.UpdateChannel(ctx, id, title, link, description)}
	}
}

func deleteChannelCmd(service Service, id int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 12*time.Second)
		defer cancel()
		return channelSavedMsg{action: "deleted", err: service.DeleteChannel(ctx, id)}
	}
}

func imagePreviewCmd(itemID int64, imageURL string, width int, renderFn func(string, int) (string, error)) tea.Cmd {
	return func() tea.Msg {
		preview, err := renderFn(imageURL, width)
		return imagePreviewMsg{itemID: itemID, preview: preview, err: err}
	}
}

func clearStatusCmd(id int) tea.Cmd {
	return tea.Tick(4*time.Second, func(time.Time) tea.Msg {
		return clearStatusMsg{id: id}
	})
}
