package plurk

import (
	"context"
	"net/url"
	"strconv"
)

// GetResponses fetches the responses to p starting at offset and populates p
// in place: responses are appended in server order, the responder user
// records are merged into p.Friends, and p.ResponseCount is set to the
// server-reported total (which may exceed the local list length when
// fetching a partial page).
func (c *Client) GetResponses(ctx context.Context, p *Plurk, offset int) error {
	if err := c.requireSession(); err != nil {
		return err
	}

	params := url.Values{}
	params.Set("plurk_id", strconv.FormatInt(p.ID, 10))
	params.Set("from_response", strconv.Itoa(offset))

	var result struct {
		Friends       UserMap    `json:"friends"`
		Responses     []Response `json:"responses"`
		ResponseCount int        `json:"response_count"`
	}
	if err := c.request(ctx, "/Responses/get", params, &result); err != nil {
		return err
	}

	p.Responses = append(p.Responses, result.Responses...)
	if p.Friends == nil {
		p.Friends = make(UserMap, len(result.Friends))
	}
	for id, user := range result.Friends {
		p.Friends[id] = user
	}
	p.ResponseCount = result.ResponseCount
	return nil
}

// AddResponse posts a response to the given plurk and returns the created
// record.
func (c *Client) AddResponse(ctx context.Context, plurkID int64, content, qualifier string) (*Response, error) {
	if err := c.requireSession(); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("plurk_id", strconv.FormatInt(plurkID, 10))
	params.Set("content", content)
	params.Set("qualifier", qualifier)

	var response Response
	if err := c.request(ctx, "/Responses/responseAdd", params, &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// DeleteResponse removes a response from a plurk.
func (c *Client) DeleteResponse(ctx context.Context, responseID, plurkID int64) error {
	if err := c.requireSession(); err != nil {
		return err
	}

	params := url.Values{}
	params.Set("response_id", strconv.FormatInt(responseID, 10))
	params.Set("plurk_id", strconv.FormatInt(plurkID, 10))
	return c.request(ctx, "/Responses/responseDelete", params, nil)
}
