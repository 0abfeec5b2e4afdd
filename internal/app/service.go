package app

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/vavlxxx/Feed-Fusion/internal/api"
	"github.com/vavlxxx/Feed-Fusion/internal/directory"
	"github.com/vavlxxx/Feed-Fusion/internal/feed"
	"github.com/vavlxxx/Feed-Fusion/internal/session"
)

// ErrNoChanges marks a channel update whose diff against the cached
// catalog entry is empty.
var ErrNoChanges = errors.New("no changes to save")

// Client is the slice of the API client the service drives directly; the
// session manager and directory cache hold their own slices.
type Client interface {
	ListNews(ctx context.Context, q api.NewsQuery) (api.NewsPage, error)
	CreateChannel(ctx context.Context, draft api.ChannelDraft) error
	UpdateChannel(ctx context.Context, id int64, patch api.ChannelPatch) error
	DeleteChannel(ctx context.Context, id int64) error
}

// Service is the single surface the presentation layer talks to: imperative
// commands plus a read-only state snapshot. Commands are safe to run from
// background goroutines; all state lives in the owning components.
type Service struct {
	client    Client
	session   *session.Manager
	directory *directory.Cache
	filters   *feed.Model
	engine    *feed.Engine
	log       zerolog.Logger
}

func NewService(client Client, sess *session.Manager, dir *directory.Cache, pageSize int, log zerolog.Logger) *Service {
	return &Service{
		client:    client,
		session:   sess,
		directory: dir,
		filters:   feed.NewModel(pageSize),
		engine:    feed.NewEngine(),
		log:       log,
	}
}

// Item is a feed entry enriched with the channel title from the directory.
type Item struct {
	api.NewsItem
	ChannelTitle string
}

// Snapshot is the read-only state handed to the presentation layer.
type Snapshot struct {
	User          *api.User
	Channels      []api.Channel
	Subscriptions []api.Subscription
	Filters       feed.Snapshot
	Pending       feed.Filters
	Items         []Item
	FeedState     feed.State
	HasNext       bool
	TotalCount    int
	LastError     string
}

func (s *Service) Snapshot() Snapshot {
	items := s.engine.Items()
	enriched := make([]Item, len(items))
	for i, item := range items {
		enriched[i] = Item{NewsItem: item, ChannelTitle: s.directory.TitleFor(item.ChannelID)}
	}

	lastError := ""
	if err := s.engine.Err(); err != nil {
		lastError = err.Error()
	}

	return Snapshot{
		User:          s.session.User(),
		Channels:      s.directory.Channels(),
		Subscriptions: s.session.Subscriptions(),
		Filters:       s.filters.Committed(),
		Pending:       s.filters.Pending(),
		Items:         enriched,
		FeedState:     s.engine.State(),
		HasNext:       s.engine.HasNext(),
		TotalCount:    s.engine.TotalCount(),
		LastError:     lastError,
	}
}

// Bootstrap brings the client up: channel catalog, session resolution (the
// executor handles the refresh ladder on 401), subscriptions for a resolved
// identity, and the first feed page of the default filter. A missing catalog
// is not fatal; the feed enriches with placeholders.
func (s *Service) Bootstrap(ctx context.Context) error {
	if _, err := s.directory.Refresh(ctx); err != nil {
		s.log.Warn().Err(err).Msg("channel catalog unavailable")
	}
	s.session.Bootstrap(ctx)
	return s.ResetFilters(ctx)
}

// Pending filter edits; no side effects until CommitFilters.

func (s *Service) SetQuery(query string)                { s.filters.SetQuery(query) }
func (s *Service) ToggleChannel(id int64)               { s.filters.ToggleChannel(id) }
func (s *Service) ToggleCategory(category api.Category) { s.filters.ToggleCategory(category) }
func (s *Service) SetRecentFirst(recentFirst bool)      { s.filters.SetRecentFirst(recentFirst) }
func (s *Service) SetPageSize(size int)                 { s.filters.SetPageSize(size) }

// CommitFilters promotes the pending selection and restarts the sequence.
func (s *Service) CommitFilters(ctx context.Context) error {
	snap := s.filters.Commit()
	return s.runFetch(ctx, s.engine.Reset(snap))
}

// ResetFilters restores the defaults and restarts the sequence.
func (s *Service) ResetFilters(ctx context.Context) error {
	snap := s.filters.Reset()
	return s.runFetch(ctx, s.engine.Reset(snap))
}

// RefreshFeed restarts the sequence for the current committed filter.
func (s *Service) RefreshFeed(ctx context.Context) error {
	return s.runFetch(ctx, s.engine.Reset(s.filters.Committed()))
}

// LoadMore extends the sequence by one page. While a page is in flight or
// after exhaustion this is a no-op with no network call.
func (s *Service) LoadMore(ctx context.Context) error {
	fetch, ok := s.engine.LoadMore()
	if !ok {
		return nil
	}
	return s.runFetch(ctx, fetch)
}

func (s *Service) runFetch(ctx context.Context, fetch feed.Fetch) error {
	page, err := s.client.ListNews(ctx, fetch.Query)
	s.engine.Apply(fetch, page, err)
	if err != nil {
		s.log.Debug().Err(err).Msg("page fetch failed")
	}
	return err
}

// Session commands.

func (s *Service) Login(ctx context.Context, username, password string) (api.User, error) {
	user, err := s.session.Login(ctx, username, password)
	if err != nil {
		return api.User{}, err
	}
	if err := s.session.RefreshSubscriptions(ctx); err != nil {
		s.log.Debug().Err(err).Msg("subscriptions unavailable after login")
	}
	return user, nil
}

func (s *Service) Register(ctx context.Context, username, password string) error {
	return s.session.Register(ctx, username, password)
}

// Logout drops the credential, identity and subscription edges. The channel
// catalog and the committed filter survive; the feed itself is unaffected.
func (s *Service) Logout() {
	s.session.Logout()
}

func (s *Service) UpdateProfile(ctx context.Context, firstName, lastName, telegramID string) (api.User, error) {
	return s.session.UpdateProfile(ctx, firstName, lastName, telegramID)
}

func (s *Service) Subscribe(ctx context.Context, channelID int64) error {
	if s.session.User() == nil {
		return &api.Error{Kind: api.KindUnauthenticated, Message: "sign in to manage subscriptions"}
	}
	return s.session.Subscribe(ctx, channelID)
}

func (s *Service) Unsubscribe(ctx context.Context, channelID int64) error {
	if s.session.User() == nil {
		return &api.Error{Kind: api.KindUnauthenticated, Message: "sign in to manage subscriptions"}
	}
	return s.session.Unsubscribe(ctx, channelID)
}

func (s *Service) SubscribedTo(channelID int64) bool {
	return s.session.SubscribedTo(channelID)
}

// Channel administration; role "admin" is the sole authorization predicate,
// checked locally before the server enforces it again.

func (s *Service) CreateChannel(ctx context.Context, draft api.ChannelDraft) error {
	if !s.session.IsAdmin() {
		return &api.Error{Kind: api.KindForbidden, Message: "admin rights required"}
	}
	if err := s.client.CreateChannel(ctx, draft); err != nil {
		return err
	}
	_, err := s.directory.Refresh(ctx)
	return err
}

// UpdateChannel diffs the edited fields against the cached catalog entry and
// sends only the changed ones; an empty diff fails with ErrNoChanges before
// any network call.
func (s *Service) UpdateChannel(ctx context.Context, id int64, title, link, description string) error {
	if !s.session.IsAdmin() {
		return &api.Error{Kind: api.KindForbidden, Message: "admin rights required"}
	}
	current, ok := s.directory.ByID(id)
	if !ok {
		return &api.Error{Kind: api.KindNotFound, Message: "unknown channel"}
	}

	var patch api.ChannelPatch
	if title != current.Title {
		patch.Title = &title
	}
	if link != current.Link {
		patch.Link = &link
	}
	if description != current.Description {
		patch.Description = &description
	}
	if patch.IsEmpty() {
		return ErrNoChanges
	}

	if err := s.client.UpdateChannel(ctx, id, patch); err != nil {
		return err
	}
	_, err := s.directory.Refresh(ctx)
	return err
}

func (s *Service) DeleteChannel(ctx context.Context, id int64) error {
	if !s.session.IsAdmin() {
		return &api.Error{Kind: api.KindForbidden, Message: "admin rights required"}
	}
	if err := s.client.DeleteChannel(ctx, id); err != nil {
		return err
	}
	_, err := s.directory.Refresh(ctx)
	return err
}

// RefreshChannels reloads the catalog wholesale.
func (s *Service) RefreshChannels(ctx context.Context) error {
	_, err := s.directory.Refresh(ctx)
	return err
}

// RefreshSubscriptions reloads the edge set for the current identity.
func (s *Service) RefreshSubscriptions(ctx context.Context) error {
	return s.session.RefreshSubscriptions(ctx)
}

// ChannelTitle resolves a channel id for display, with a placeholder for
// unknown ids.
func (s *Service) ChannelTitle(id int64) string {
	return s.directory.TitleFor(id)
}
