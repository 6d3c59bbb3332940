// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package chainledger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"
)

// ErrGatewayNotFound is the transport-level 404; callers map it onto
// the domain taxonomy.
var ErrGatewayNotFound = errors.New("gateway: not found")

// client talks JSON to one or more voting-contract gateway nodes.
// Endpoints are tried in rotation; the first that answers wins.
type client struct {
	endpoints []string
	http      *http.Client
	next      atomic.Uint64
}

func newClient(endpoints []string, timeout time.Duration) (*client, error) {
	if len(endpoints) == 0 {
		return nil, errors.New("at least one gateway endpoint required")
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &client{
		endpoints: dedup(endpoints),
		http:      &http.Client{Timeout: timeout},
	}, nil
}

func dedup(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, ep := range in {
		if _, ok := seen[ep]; ok {
			continue
		}
		seen[ep] = struct{}{}
		out = append(out, ep)
	}
	return out
}

// getJSON fetches path from the gateway and decodes into out.
func (c *client) getJSON(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// postJSON posts body to path and decodes the response into out.
func (c *client) postJSON(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, payload, out)
}

func (c *client) do(ctx context.Context, method, path string, payload []byte, out any) error {
	var lastErr error
	start := c.next.Add(1)
	for i := range c.endpoints {
		ep := c.endpoints[(start+uint64(i))%uint64(len(c.endpoints))]
		err := c.doOne(ctx, method, ep+path, payload, out)
		if err == nil {
			return nil
		}
		// 404 is an answer, not an outage; don't burn other endpoints on it.
		if errors.Is(err, ErrGatewayNotFound) || ctx.Err() != nil {
			return err
		}
		lastErr = err
		slog.Warn("gateway request failed, rotating endpoint", "endpoint", ep, "path", path, "error", err)
	}
	return lastErr
}

func (c *client) doOne(ctx context.Context, method, url string, payload []byte, out any) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		io.Copy(io.Discard, resp.Body)
		return ErrGatewayNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("gateway status %d: %s", resp.StatusCode, bytes.TrimSpace(b))
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
