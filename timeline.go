package plurk

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// offsetLayout is the timestamp format timeline queries expect.
const offsetLayout = "2006-01-02T15:04:05"

// AddPlurkOptions are the optional fields of AddPlurk. The zero value sends
// none of them.
type AddPlurkOptions struct {
	// LimitedTo restricts visibility to the given user ids. Nil means
	// public.
	LimitedTo []int64

	// CommentPolicy controls who may respond. Nil sends no policy and
	// leaves the server default in effect.
	CommentPolicy *CommentPolicy

	// Language is the plurk's language code (e.g. "en").
	Language string
}

// AddPlurk posts a new plurk and returns the created record. An out-of-range
// comment policy is rejected with ErrInvalidArgument before any network call;
// a nil policy is valid and means "send none".
func (c *Client) AddPlurk(ctx context.Context, content, qualifier string, opts *AddPlurkOptions) (*Plurk, error) {
	if err := c.requireSession(); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("content", content)
	params.Set("qualifier", qualifier)

	if opts != nil {
		if opts.CommentPolicy != nil {
			if !opts.CommentPolicy.valid() {
				return nil, fmt.Errorf("comment policy %d: %w", *opts.CommentPolicy, ErrInvalidArgument)
			}
			params.Set("no_comments", strconv.Itoa(int(*opts.CommentPolicy)))
		}
		if len(opts.LimitedTo) > 0 {
			ids, err := json.Marshal(opts.LimitedTo)
			if err != nil {
				return nil, fmt.Errorf("encode limited_to: %w", err)
			}
			params.Set("limited_to", string(ids))
		}
		if opts.Language != "" {
			params.Set("lang", opts.Language)
		}
	}

	var plurk Plurk
	if err := c.request(ctx, "/Timeline/plurkAdd", params, &plurk); err != nil {
		return nil, err
	}
	return &plurk, nil
}

// DeletePlurk removes one of the authenticated user's plurks.
func (c *Client) DeletePlurk(ctx context.Context, id int64) error {
	if err := c.requireSession(); err != nil {
		return err
	}

	params := url.Values{}
	params.Set("plurk_id", strconv.FormatInt(id, 10))
	return c.request(ctx, "/Timeline/plurkDelete", params, nil)
}

// GetPlurk fetches a single plurk and its owner's user record.
func (c *Client) GetPlurk(ctx context.Context, id int64) (*Plurk, *UserInfo, error) {
	if err := c.requireSession(); err != nil {
		return nil, nil, err
	}

	params := url.Values{}
	params.Set("plurk_id", strconv.FormatInt(id, 10))

	var result struct {
		Plurk Plurk    `json:"plurk"`
		User  UserInfo `json:"user"`
	}
	if err := c.request(ctx, "/Timeline/getPlurk", params, &result); err != nil {
		return nil, nil, err
	}
	return &result.Plurk, &result.User, nil
}

// PollPlurks fetches plurks newer than since, oldest first. This is the
// efficient forward query and the right call for polling loops.
func (c *Client) PollPlurks(ctx context.Context, since time.Time, limit int) ([]Plurk, UserMap, error) {
	if err := c.requireSession(); err != nil {
		return nil, nil, err
	}

	params := url.Values{}
	params.Set("offset", since.UTC().Format(offsetLayout))
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	return c.fetchTimeline(ctx, "/Polling/getPlurks", params)
}

// GetPlurks fetches plurks older than before, newest first, optionally
// restricted by filter. This backward query is heavier server-side than
// PollPlurks; prefer PollPlurks when walking forward.
func (c *Client) GetPlurks(ctx context.Context, before time.Time, limit int, filter Filter) ([]Plurk, UserMap, error) {
	if err := c.requireSession(); err != nil {
		return nil, nil, err
	}

	params := url.Values{}
	if !before.IsZero() {
		params.Set("offset", before.UTC().Format(offsetLayout))
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	if filter != FilterNone {
		params.Set("filter", string(filter))
	}
	return c.fetchTimeline(ctx, "/Timeline/getPlurks", params)
}

func (c *Client) fetchTimeline(ctx context.Context, path string, params url.Values) ([]Plurk, UserMap, error) {
	var result struct {
		Plurks []Plurk `json:"plurks"`
		Users  UserMap `json:"plurk_users"`
	}
	if err := c.request(ctx, path, params, &result); err != nil {
		return nil, nil, err
	}
	return result.Plurks, result.Users, nil
}

// GetUnreadCount polls the unread counters and refreshes the client's cached
// copy (see LastUnreadCount).
func (c *Client) GetUnreadCount(ctx context.Context) (*UnreadCount, error) {
	if err := c.requireSession(); err != nil {
		return nil, err
	}

	var counts UnreadCount
	if err := c.request(ctx, "/Polling/getUnreadCount", nil, &counts); err != nil {
		return nil, err
	}
	c.lastUnread = counts
	return &counts, nil
}
