package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// ListChannels fetches the full channel catalog.
func (c *Client) ListChannels(ctx context.Context) ([]Channel, error) {
	var payload struct {
		Data []Channel `json:"data"`
	}
	if err := c.getJSON(ctx, "/channels/", &payload); err != nil {
		return nil, err
	}
	return payload.Data, nil
}

// ChannelDraft is the payload for creating a channel.
type ChannelDraft struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Description string `json:"description"`
}

// ChannelPatch updates a channel; nil fields stay untouched on the server.
type ChannelPatch struct {
	Title       *string `json:"title,omitempty"`
	Link        *string `json:"link,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (p ChannelPatch) IsEmpty() bool {
	return p.Title == nil && p.Link == nil && p.Description == nil
}

// CreateChannel adds a channel to the catalog. Admin only.
func (c *Client) CreateChannel(ctx context.Context, draft ChannelDraft) error {
	payload, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	return c.doJSON(ctx, request{
		method:      http.MethodPost,
		path:        "/channels/",
		contentType: "application/json",
		body:        func() io.Reader { return bytes.NewReader(payload) },
	}, nil)
}

// UpdateChannel applies a partial update to a channel. Admin only.
func (c *Client) UpdateChannel(ctx context.Context, id int64, patch ChannelPatch) error {
	payload, err := json.Marshal(patch)
	if err != nil {
		return err
	}
	return c.doJSON(ctx, request{
		method:      http.MethodPut,
		path:        fmt.Sprintf("/channels/%d", id),
		contentType: "application/json",
		body:        func() io.Reader { return bytes.NewReader(payload) },
	}, nil)
}

// DeleteChannel removes a channel from the catalog. Admin only.
func (c *Client) DeleteChannel(ctx context.Context, id int64) error {
	return c.doJSON(ctx, request{
		method: http.MethodDelete,
		path:   fmt.Sprintf("/channels/%d", id),
	}, nil)
}
