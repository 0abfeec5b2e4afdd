package api

import (
	"context"
	"net/http"
	"strconv"
)

// ListSubscriptions fetches the signed-in user's subscription edges.
func (c *Client) ListSubscriptions(ctx context.Context) ([]Subscription, error) {
	var payload struct {
		Data []Subscription `json:"data"`
	}
	if err := c.getJSON(ctx, "/subscriptions/", &payload); err != nil {
		return nil, err
	}
	return payload.Data, nil
}

// Subscribe follows a channel for the signed-in user.
func (c *Client) Subscribe(ctx context.Context, channelID int64) error {
	return c.doJSON(ctx, request{
		method: http.MethodPost,
		path:   "/subscriptions/?channel_id=" + strconv.FormatInt(channelID, 10),
	}, nil)
}

// Unsubscribe removes a subscription edge by its own id, not the channel id.
func (c *Client) Unsubscribe(ctx context.Context, subID int64) error {
	return c.doJSON(ctx, request{
		method: http.MethodDelete,
		path:   "/subscriptions/?sub_id=" + strconv.FormatInt(subID, 10),
	}, nil)
}
