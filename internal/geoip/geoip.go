// Package geoip resolves an IP address to a country name via an external
// HTTP lookup service. Lookups are best-effort: failures and timeouts
// resolve to "Unknown" so login latency is never coupled to the provider.
package geoip

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// UnknownCountry is returned whenever a lookup cannot be completed
const UnknownCountry = "Unknown"

// Client queries a geo-IP lookup endpoint (ip-api.com JSON format)
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a geo-IP client with an explicit request timeout
func NewClient(endpoint string, timeout time.Duration) *Client {
	return &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type lookupResponse struct {
	Status  string `json:"status"`
	Country string `json:"country"`
}

// Country resolves ip to a country name. It never returns an error for
// lookup failures; callers always get a usable value.
func (c *Client) Country(ctx context.Context, ip string) string {
	ip = strings.TrimSpace(ip)
	if ip == "" || isLoopback(ip) {
		return UnknownCountry
	}

	url := fmt.Sprintf("%s/%s?fields=status,country", c.endpoint, ip)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return UnknownCountry
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return UnknownCountry
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return UnknownCountry
	}

	var payload lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return UnknownCountry
	}
	if payload.Status != "success" || payload.Country == "" {
		return UnknownCountry
	}

	return payload.Country
}

func isLoopback(ip string) bool {
	return ip == "127.0.0.1" || ip == "::1" || ip == "localhost"
}
