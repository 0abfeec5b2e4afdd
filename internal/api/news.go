package api

import (
	"context"
	"net/url"
	"strconv"
)

// NewsQuery describes one page request against the feed endpoint.
// SearchAfter is set only for continuation; a fresh sequence omits it.
type NewsQuery struct {
	Limit       int
	RecentFirst bool
	Query       string
	ChannelIDs  []int64
	Categories  []Category
	SearchAfter string
}

// Values renders the query in wire form.
func (q NewsQuery) Values() url.Values {
	v := url.Values{}
	limit := q.Limit
	if limit < 1 {
		limit = 9
	}
	v.Set("limit", strconv.Itoa(limit))
	v.Set("recent_first", strconv.FormatBool(q.RecentFirst))
	if q.Query != "" {
		v.Set("query", q.Query)
	}
	for _, id := range q.ChannelIDs {
		v.Add("channel_ids", strconv.FormatInt(id, 10))
	}
	for _, category := range q.Categories {
		v.Add("categories", string(category))
	}
	if q.SearchAfter != "" {
		v.Set("search_after", q.SearchAfter)
	}
	return v
}

// ListNews fetches one page of the filtered feed.
func (c *Client) ListNews(ctx context.Context, q NewsQuery) (NewsPage, error) {
	var page NewsPage
	if err := c.getJSON(ctx, "/news/?"+q.Values().Encode(), &page); err != nil {
		return NewsPage{}, err
	}
	return page, nil
}
