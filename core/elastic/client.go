package elastic

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// ErrIndexNotFound is returned when the cluster has no such index or alias.
var ErrIndexNotFound = errors.New("index not found")

// Client reads index metadata over the REST API.
type Client struct {
	baseURL  string
	username string
	password string
	timeout  time.Duration
}

// NewClient creates a client for the configured cluster.
func NewClient(cfg Config) *Client {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	return &Client{
		baseURL:  strings.TrimRight(cfg.URL, "/"),
		username: cfg.Username,
		password: cfg.Password,
		timeout:  time.Duration(timeout) * time.Second,
	}
}

// Settings returns the "index" settings block of an index, e.g.
// number_of_shards and uuid.
func (c *Client) Settings(ctx context.Context, index string) (map[string]any, error) {
	body, err := c.get(ctx, index, "_settings")
	if err != nil {
		return nil, err
	}
	settings, _ := body["settings"].(map[string]any)
	indexSettings, _ := settings["index"].(map[string]any)
	if indexSettings == nil {
		return map[string]any{}, nil
	}
	return indexSettings, nil
}

// Mapping returns the mapping of an index. Typed mappings of older clusters
// are unwrapped, preferring the "_doc" type.
func (c *Client) Mapping(ctx context.Context, index string) (map[string]any, error) {
	body, err := c.get(ctx, index, "_mapping")
	if err != nil {
		return nil, err
	}
	mappings, _ := body["mappings"].(map[string]any)
	if mappings == nil {
		return map[string]any{}, nil
	}
	if _, ok := mappings["properties"]; ok {
		return mappings, nil
	}
	if typed, ok := mappings["_doc"].(map[string]any); ok {
		return typed, nil
	}
	for _, v := range mappings {
		if typed, ok := v.(map[string]any); ok {
			if _, hasProps := typed["properties"]; hasProps {
				return typed, nil
			}
		}
	}
	return mappings, nil
}

// get fetches /<index>/<endpoint> and returns the entry of the resolved
// index. An alias resolves to exactly one concrete index.
func (c *Client) get(ctx context.Context, index, endpoint string) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		left := time.Until(deadline)
		if left <= 0 {
			return nil, context.DeadlineExceeded
		}
		timeout = min(timeout, left)
	}

	a := fiber.Get(c.baseURL + "/" + url.PathEscape(index) + "/" + endpoint)
	a.Timeout(timeout)
	if c.username != "" {
		a.BasicAuth(c.username, c.password)
	}

	type response struct {
		code int
		body map[string]any
		errs []error
	}
	done := make(chan response, 1)
	go func() {
		var r response
		r.code, _, r.errs = a.Struct(&r.body)
		done <- r
	}()

	var resp response
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("get %s/%s: %w", index, endpoint, ctx.Err())
	case resp = <-done:
	}

	if resp.code == fiber.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrIndexNotFound, index)
	}
	if len(resp.errs) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("get %s/%s: %w", index, endpoint, err)
		}
		return nil, fmt.Errorf("get %s/%s: %w", index, endpoint, errors.Join(resp.errs...))
	}
	if resp.code < 200 || resp.code >= 300 {
		return nil, fmt.Errorf("get %s/%s: unexpected status %d", index, endpoint, resp.code)
	}

	out := resp.body
	if entry, ok := out[index].(map[string]any); ok {
		return entry, nil
	}
	if len(out) == 1 {
		for _, v := range out {
			if entry, ok := v.(map[string]any); ok {
				return entry, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrIndexNotFound, index)
}
