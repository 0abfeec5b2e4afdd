package directory

import (
	"context"
	"fmt"
	"sync"

	"github.com/vavlxxx/Feed-Fusion/internal/api"
)

type Lister interface {
	ListChannels(ctx context.Context) ([]api.Channel, error)
}

// Cache holds the channel catalog keyed by id. Every refresh replaces the
// map wholesale so server-side deletions never leak stale entries; readers
// observe either the old catalog or the new one, never a mix.
type Cache struct {
	mu     sync.RWMutex
	client Lister
	byID   map[int64]api.Channel
	list   []api.Channel
}

func NewCache(client Lister) *Cache {
	return &Cache{
		client: client,
		byID:   make(map[int64]api.Channel),
	}
}

// Refresh fetches the catalog and swaps it in atomically. On failure the
// previous catalog stays intact.
func (c *Cache) Refresh(ctx context.Context) ([]api.Channel, error) {
	channels, err := c.client.ListChannels(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch channel catalog: %w", err)
	}

	byID := make(map[int64]api.Channel, len(channels))
	for _, channel := range channels {
		byID[channel.ID] = channel
	}

	c.mu.Lock()
	c.byID = byID
	c.list = channels
	c.mu.Unlock()

	return c.Channels(), nil
}

// Channels returns a copy of the catalog in server order.
func (c *Cache) Channels() []api.Channel {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]api.Channel(nil), c.list...)
}

func (c *Cache) ByID(id int64) (api.Channel, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	channel, ok := c.byID[id]
	return channel, ok
}

// TitleFor never fails: unknown ids get a synthesized placeholder so feed
// enrichment cannot trip over a channel deleted mid-session.
func (c *Cache) TitleFor(id int64) string {
	if channel, ok := c.ByID(id); ok {
		return channel.Title
	}
	return fmt.Sprintf("channel #%d", id)
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.list)
}
