// Package memberdir is a thin client for the member-directory service, the
// external authority on member capabilities.
package memberdir

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 5 * time.Second},
	}
}

// HasSwimAbility asks the directory whether the member's swim ability has
// been verified.
func (c *Client) HasSwimAbility(ctx context.Context, memberID int64) (bool, error) {
	url := fmt.Sprintf("%s/api/v1/members/%d/swim-ability", c.baseURL, memberID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("failed to build swim ability request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("swim ability request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("swim ability request returned status %d", resp.StatusCode)
	}

	var body struct {
		Verified bool `json:"verified"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, fmt.Errorf("failed to decode swim ability response: %w", err)
	}

	return body.Verified, nil
}
