package directory

import (
	"context"
	"errors"
	"testing"

	"github.com/vavlxxx/Feed-Fusion/internal/api"
)

type fakeLister struct {
	channels []api.Channel
	err      error
}

func (f *fakeLister) ListChannels(ctx context.Context) ([]api.Channel, error) {
	return f.channels, f.err
}

func TestCache_RefreshReplacesWholesale(t *testing.T) {
	lister := &fakeLister{channels: []api.Channel{
		{ID: 1, Title: "World"},
		{ID: 2, Title: "Tech"},
	}}
	cache := NewCache(lister)

	if _, err := cache.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if cache.Len() != 2 {
		t.Fatalf("expected 2 channels, got %d", cache.Len())
	}

	// Channel 2 disappears on the server; the next refresh must drop it.
	lister.channels = []api.Channel{{ID: 1, Title: "World"}}
	if _, err := cache.Refresh(context.Background()); err != nil {
		t.Fatalf("second Refresh returned error: %v", err)
	}
	if _, ok := cache.ByID(2); ok {
		t.Fatal("deleted channel still present after refresh")
	}
	if cache.Len() != 1 {
		t.Fatalf("expected 1 channel, got %d", cache.Len())
	}
}

func TestCache_FailedRefreshKeepsCatalog(t *testing.T) {
	lister := &fakeLister{channels: []api.Channel{{ID: 1, Title: "World"}}}
	cache := NewCache(lister)
	if _, err := cache.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}

	lister.err = errors.New("boom")
	if _, err := cache.Refresh(context.Background()); err == nil {
		t.Fatal("expected refresh error")
	}
	if got := cache.TitleFor(1); got != "World" {
		t.Fatalf("catalog lost after failed refresh: %q", got)
	}
}

func TestCache_TitleForUnknownChannel(t *testing.T) {
	cache := NewCache(&fakeLister{})
	if got := cache.TitleFor(42); got != "channel #42" {
		t.Fatalf("unexpected placeholder: %q", got)
	}
}
