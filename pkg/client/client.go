// Package client is a Go client for the CampusFound HTTP API. It keeps the
// post feed in memory between reads and drops it whenever a write through
// this client changes the feed.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Config holds configuration for creating a Client.
type Config struct {
	// BaseURL is the server root, e.g. "http://localhost:3000".
	BaseURL string
	// HTTPClient is used for all requests. If nil, http.DefaultClient is used.
	HTTPClient *http.Client
	// Logger defaults to a no-op logger.
	Logger *zap.Logger
}

// Client talks to a CampusFound server. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger

	mu    sync.RWMutex
	feed  []Post
	valid bool
}

func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("client: BaseURL is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("client: invalid BaseURL %q: %w", cfg.BaseURL, err)
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		logger:     log,
	}, nil
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*RegisteredUser, error) {
	var out RegisteredUser
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", req, &out); err != nil {
		return nil, fmt.Errorf("client: register: %w", err)
	}
	return &out, nil
}

// Login checks credentials and returns the public user record.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*User, error) {
	var out User
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", req, &out); err != nil {
		return nil, fmt.Errorf("client: login: %w", err)
	}
	return &out, nil
}

// Posts returns the unfiltered feed, newest first. The first call fetches it;
// later calls are served from memory until Invalidate or a write.
func (c *Client) Posts(ctx context.Context) ([]Post, error) {
	c.mu.RLock()
	if c.valid {
		feed := clonePosts(c.feed)
		c.mu.RUnlock()
		return feed, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid {
		return clonePosts(c.feed), nil
	}
	var feed []Post
	if err := c.do(ctx, http.MethodGet, "/api/posts", nil, &feed); err != nil {
		return nil, fmt.Errorf("client: list posts: %w", err)
	}
	if feed == nil {
		feed = []Post{}
	}
	c.feed, c.valid = feed, true
	c.logger.Debug("feed loaded", zap.Int("posts", len(feed)))
	return clonePosts(feed), nil
}

// SearchPosts lists posts matching f. Filtered results are never cached.
func (c *Client) SearchPosts(ctx context.Context, f Filter) ([]Post, error) {
	path := "/api/posts"
	if q := f.values().Encode(); q != "" {
		path += "?" + q
	}
	var out []Post
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, fmt.Errorf("client: search posts: %w", err)
	}
	if out == nil {
		out = []Post{}
	}
	return out, nil
}

// Post fetches one post, bypassing the feed cache.
func (c *Client) Post(ctx context.Context, id uint64) (*Post, error) {
	var out Post
	if err := c.do(ctx, http.MethodGet, "/api/posts/"+strconv.FormatUint(id, 10), nil, &out); err != nil {
		return nil, fmt.Errorf("client: get post %d: %w", id, err)
	}
	return &out, nil
}

// CreatePost publishes a post and invalidates the feed.
func (c *Client) CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error) {
	var out Post
	if err := c.do(ctx, http.MethodPost, "/api/posts", req, &out); err != nil {
		return nil, fmt.Errorf("client: create post: %w", err)
	}
	c.Invalidate()
	return &out, nil
}

// ResolvePost marks a post resolved and invalidates the feed.
func (c *Client) ResolvePost(ctx context.Context, id uint64) (*ResolveResult, error) {
	var out ResolveResult
	err := c.do(ctx, http.MethodPut, "/api/posts/"+strconv.FormatUint(id, 10)+"/resolve", nil, &out)
	if err != nil {
		// a conflict means someone else resolved it; our copy is stale either way
		if IsConflict(err) {
			c.Invalidate()
		}
		return nil, fmt.Errorf("client: resolve post %d: %w", id, err)
	}
	c.Invalidate()
	return &out, nil
}

// Invalidate drops the cached feed.
func (c *Client) Invalidate() {
	c.mu.Lock()
	c.feed, c.valid = nil, false
	c.mu.Unlock()
}

// Health reports whether the server can reach its store.
func (c *Client) Health(ctx context.Context) error {
	if err := c.do(ctx, http.MethodGet, "/health", nil, nil); err != nil {
		return fmt.Errorf("client: health: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		apiErr := decodeError(resp.StatusCode, data)
		c.logger.Debug("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("request_id", resp.Header.Get("X-Request-ID")),
		)
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func clonePosts(p []Post) []Post {
	out := make([]Post, len(p))
	copy(out, p)
	return out
}
