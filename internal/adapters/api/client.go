package api

import (
	"time"

	"livestock-client/internal/domain/animals"
	"livestock-client/internal/domain/events"
	"livestock-client/internal/domain/inventory"
	"livestock-client/internal/domain/owners"
	"livestock-client/internal/domain/reports"
	"livestock-client/internal/platform/httpclient"
	"livestock-client/internal/store"
)

// Client agrupa los resource gateways del backend de ganadería.
// Todos comparten el mismo httpclient (y por lo tanto la misma política
// de bearer + refresh).
type Client struct {
	hc *httpclient.Client
}

type Config struct {
	BaseURL string
	Timeout time.Duration

	// Tokens opcional; si viene, los requests salen autenticados.
	Tokens httpclient.TokenSource
}

func NewClient(cfg Config) (*Client, error) {
	hc, err := httpclient.NewWithBaseURL(cfg.BaseURL, cfg.Timeout)
	if err != nil {
		return nil, err
	}
	hc.Tokens = cfg.Tokens
	return &Client{hc: hc}, nil
}

// NewClientWithHTTP permite inyectar el httpclient ya armado (tests).
func NewClientWithHTTP(hc *httpclient.Client) *Client {
	return &Client{hc: hc}
}

func (c *Client) Animals() store.Gateway[animals.Animal] {
	return &resource[animals.Animal]{hc: c.hc, base: "/animals"}
}

func (c *Client) Owners() store.Gateway[owners.Owner] {
	return &resource[owners.Owner]{hc: c.hc, base: "/owners"}
}

func (c *Client) Events() store.Gateway[events.Event] {
	return &resource[events.Event]{hc: c.hc, base: "/events"}
}

func (c *Client) Inventory() store.Gateway[inventory.Item] {
	return &resource[inventory.Item]{hc: c.hc, base: "/inventory"}
}

func (c *Client) Reports() store.Gateway[reports.Report] {
	return &resource[reports.Report]{hc: c.hc, base: "/reports"}
}
