package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/vavlxxx/Feed-Fusion/internal/api"
)

// ErrEmptyUpdate marks a profile update with no non-empty field; no network
// call is made in that case.
var ErrEmptyUpdate = errors.New("provide at least one non-empty field")

// AuthClient is the slice of the API client the session manager depends on.
type AuthClient interface {
	Login(ctx context.Context, username, password string) (api.TokenPair, error)
	Register(ctx context.Context, username, password string) error
	Profile(ctx context.Context) (api.User, error)
	UpdateProfile(ctx context.Context, update api.ProfileUpdate) (api.User, error)
	ListSubscriptions(ctx context.Context) ([]api.Subscription, error)
	Subscribe(ctx context.Context, channelID int64) error
	Unsubscribe(ctx context.Context, subID int64) error
}

// Manager owns the authenticated identity and the subscription edges scoped
// to it. Identity is always replaced wholesale, never field-patched.
type Manager struct {
	client AuthClient
	creds  api.CredentialStore
	log    zerolog.Logger

	mu            sync.Mutex
	user          *api.User
	subs          []api.Subscription
	subsByChannel map[int64]api.Subscription
}

func NewManager(client AuthClient, creds api.CredentialStore, log zerolog.Logger) *Manager {
	return &Manager{
		client:        client,
		creds:         creds,
		log:           log,
		subsByChannel: make(map[int64]api.Subscription),
	}
}

// User returns the current identity, or nil when anonymous.
func (m *Manager) User() *api.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return nil
	}
	user := *m.user
	return &user
}

func (m *Manager) IsAdmin() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user != nil && m.user.IsAdmin()
}

// Login posts credentials, stores the returned access token, then resolves
// the identity via a profile fetch.
func (m *Manager) Login(ctx context.Context, username, password string) (api.User, error) {
	pair, err := m.client.Login(ctx, username, password)
	if err != nil {
		return api.User{}, err
	}
	m.creds.Set(pair.AccessToken)

	user, err := m.client.Profile(ctx)
	if err != nil {
		return api.User{}, err
	}
	m.setUser(&user)
	m.log.Debug().Str("username", user.Username).Msg("signed in")
	return user, nil
}

// Register creates an account. The session is untouched; the user still has
// to sign in.
func (m *Manager) Register(ctx context.Context, username, password string) error {
	return m.client.Register(ctx, username, password)
}

// FetchProfile resolves the credential into an identity. Any failure
// degrades to the anonymous state instead of propagating: a broken session
// must not block the rest of the client.
func (m *Manager) FetchProfile(ctx context.Context) *api.User {
	user, err := m.client.Profile(ctx)
	if err != nil {
		m.log.Debug().Err(err).Msg("profile resolution failed, staying anonymous")
		m.setUser(nil)
		return nil
	}
	m.setUser(&user)
	return m.User()
}

// UpdateProfile trims the fields and submits the non-empty ones. The server
// answers with the authoritative record, which replaces the identity whole.
func (m *Manager) UpdateProfile(ctx context.Context, firstName, lastName, telegramID string) (api.User, error) {
	var update api.ProfileUpdate
	if v := strings.TrimSpace(firstName); v != "" {
		update.FirstName = &v
	}
	if v := strings.TrimSpace(lastName); v != "" {
		update.LastName = &v
	}
	if v := strings.TrimSpace(telegramID); v != "" {
		update.TelegramID = &v
	}
	if update.IsEmpty() {
		return api.User{}, ErrEmptyUpdate
	}

	user, err := m.client.UpdateProfile(ctx, update)
	if err != nil {
		return api.User{}, err
	}
	m.setUser(&user)
	return user, nil
}

// Logout clears the credential and the identity locally; the server is not
// called.
func (m *Manager) Logout() {
	m.creds.Clear()
	m.setUser(nil)
	m.log.Debug().Msg("signed out")
}

// Bootstrap re-establishes the session on startup: with a stored credential
// it tries the profile directly and falls back to one refresh cycle; without
// one it lets the refresh endpoint try the ambient cookie session first. The
// refresh cycle itself happens inside the executor on the 401. A transient
// failure (network, 5xx) gets one more attempt before degrading to anonymous.
func (m *Manager) Bootstrap(ctx context.Context) *api.User {
	user, err := m.client.Profile(ctx)
	if err != nil && retryableAtBootstrap(err) {
		m.log.Debug().Err(err).Msg("profile fetch failed at startup, retrying once")
		user, err = m.client.Profile(ctx)
	}
	if err != nil {
		m.log.Debug().Err(err).Msg("profile resolution failed, staying anonymous")
		m.setUser(nil)
		return nil
	}
	m.setUser(&user)
	if err := m.RefreshSubscriptions(ctx); err != nil {
		m.log.Debug().Err(err).Msg("subscriptions unavailable at bootstrap")
	}
	return m.User()
}

// retryableAtBootstrap reports whether a failed startup profile fetch is
// worth a second attempt. Auth rejections are final: the executor has
// already spent its refresh cycle by the time they surface.
func retryableAtBootstrap(err error) bool {
	switch api.KindOf(err) {
	case api.KindUnauthenticated, api.KindForbidden:
		return false
	}
	return true
}

// Subscriptions returns the cached edges for the current identity.
func (m *Manager) Subscriptions() []api.Subscription {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]api.Subscription(nil), m.subs...)
}

// SubscribedTo reports whether the current identity follows the channel.
func (m *Manager) SubscribedTo(channelID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.subsByChannel[channelID]
	return ok
}

// RefreshSubscriptions reloads the edge set wholesale.
func (m *Manager) RefreshSubscriptions(ctx context.Context) error {
	if m.User() == nil {
		return nil
	}
	subs, err := m.client.ListSubscriptions(ctx)
	if err != nil {
		return err
	}

	byChannel := make(map[int64]api.Subscription, len(subs))
	for _, sub := range subs {
		byChannel[sub.ChannelID] = sub
	}

	m.mu.Lock()
	m.subs = subs
	m.subsByChannel = byChannel
	m.mu.Unlock()
	return nil
}

// Subscribe follows a channel and reloads the edge set.
func (m *Manager) Subscribe(ctx context.Context, channelID int64) error {
	if err := m.client.Subscribe(ctx, channelID); err != nil {
		return err
	}
	return m.RefreshSubscriptions(ctx)
}

// Unsubscribe resolves the edge for the channel and removes it. Unknown
// channels are a no-op.
func (m *Manager) Unsubscribe(ctx context.Context, channelID int64) error {
	m.mu.Lock()
	sub, ok := m.subsByChannel[channelID]
	m.mu.Unlock()
	if !ok {
		return nil
	}
	if err := m.client.Unsubscribe(ctx, sub.ID); err != nil {
		return err
	}
	return m.RefreshSubscriptions(ctx)
}

// setUser replaces the identity wholesale. Dropping it also drops the
// subscription edges, which are scoped to the identity.
func (m *Manager) setUser(user *api.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = user
	if user == nil {
		m.subs = nil
		m.subsByChannel = make(map[int64]api.Subscription)
	}
}
