package realtime

import (
	"fmt"
	"io"
	"net/http"
)

// Client is a simple HTTP client for fetching GTFS-RT protobuf data.
// This is a CLI helper - library users should fetch data themselves.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a new GTFS-RT HTTP client
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{},
	}
}

// Fetch fetches a single GTFS-RT feed from a URL and returns raw protobuf bytes.
// Returns nil if url is empty (allows optional feeds).
func (c *Client) Fetch(url string) ([]byte, error) {
	if url == "" {
		return nil, nil
	}

	resp, err := c.httpClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	return io.ReadAll(resp.Body)
}
