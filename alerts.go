package plurk

import (
	"context"
	"net/url"
	"strconv"
)

// GetActiveAlerts fetches the alerts that still need action, e.g. pending
// friendship requests.
func (c *Client) GetActiveAlerts(ctx context.Context) ([]Alert, error) {
	if err := c.requireSession(); err != nil {
		return nil, err
	}

	var alerts []Alert
	if err := c.request(ctx, "/Alerts/getActive", nil, &alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}

// GetAlertHistory fetches dismissed and acted-on alerts. The server caps the
// history at 30 entries.
func (c *Client) GetAlertHistory(ctx context.Context) ([]Alert, error) {
	if err := c.requireSession(); err != nil {
		return nil, err
	}

	var alerts []Alert
	if err := c.request(ctx, "/Alerts/getHistory", nil, &alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}

// GetBlockedUsers fetches a page of the authenticated user's block list
// starting at offset, along with the total count of blocked users.
func (c *Client) GetBlockedUsers(ctx context.Context, offset int) (int, []UserInfo, error) {
	if err := c.requireSession(); err != nil {
		return 0, nil, err
	}

	params := url.Values{}
	if offset > 0 {
		params.Set("offset", strconv.Itoa(offset))
	}

	var result struct {
		Total int        `json:"total"`
		Users []UserInfo `json:"users"`
	}
	if err := c.request(ctx, "/Blocks/get", params, &result); err != nil {
		return 0, nil, err
	}
	return result.Total, result.Users, nil
}
