package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/podx/internal/models"
	"github.com/desertthunder/podx/internal/shared"
	"golang.org/x/oauth2"
)

const defaultBaseURL = "http://localhost:8000"

// Client talks to the podcast agent backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     oauth2.TokenSource
	logger     *log.Logger
}

// NewClient creates a backend client. An empty baseURL and nil client fall back to defaults.
func NewClient(baseURL string, client *http.Client, logger *log.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
		logger:     logger,
	}
}

// UseTokens sets the source consulted for a Bearer token on every request.
//
// Requests go out unauthenticated while the source has no valid token.
func (c *Client) UseTokens(src oauth2.TokenSource) {
	c.tokens = src
}

// BaseURL returns the backend root the client sends requests to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// client returns the HTTP client for one request, wrapping the base transport with the current token.
func (c *Client) client() *http.Client {
	if c.tokens == nil {
		return c.httpClient
	}

	token, err := c.tokens.Token()
	if err != nil || !token.Valid() {
		return c.httpClient
	}

	authed := *c.httpClient
	authed.Transport = &oauth2.Transport{
		Source: oauth2.StaticTokenSource(token),
		Base:   c.httpClient.Transport,
	}
	return &authed
}

// do sends a JSON request and decodes the JSON response into result when non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	requestID := shared.GenerateID()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("backend request", "method", method, "path", path, "request_id", requestID)

	resp, err := c.client().Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", shared.ErrAPIRequest, method, path, err)
	}
	defer resp.Body.Close()

	if err := checkResponse(resp); err != nil {
		c.logger.Warn("backend request failed", "method", method, "path", path, "status", resp.StatusCode, "request_id", requestID)
		return err
	}

	return decodeBody(resp, result)
}

// AuthURL asks the backend for the Spotify authorization URL to hand off to.
func (c *Client) AuthURL(ctx context.Context) (string, error) {
	var resp models.AuthURLResponse
	if err := c.do(ctx, http.MethodGet, "/api/auth/spotify/url", nil, &resp); err != nil {
		return "", err
	}
	if resp.AuthURL == "" {
		return "", fmt.Errorf("%w: empty authUrl", shared.ErrAPIRequest)
	}
	return resp.AuthURL, nil
}

// ExchangeCode completes the OAuth handoff, returning the session token and user.
func (c *Client) ExchangeCode(ctx context.Context, code, state string) (*models.AuthSession, error) {
	var resp models.AuthSession
	req := models.CallbackRequest{Code: code, State: state}
	if err := c.do(ctx, http.MethodPost, "/api/auth/spotify/callback", req, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" || resp.User == nil {
		return nil, fmt.Errorf("%w: callback response missing token or user", shared.ErrAPIRequest)
	}
	return &resp, nil
}

// Me returns the user for the current token.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var resp models.MeResponse
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &resp); err != nil {
		return nil, err
	}
	if resp.User == nil {
		return nil, fmt.Errorf("%w: response missing user", shared.ErrAPIRequest)
	}
	return resp.User, nil
}

// Logout invalidates the current token on the backend.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

// SavePreferences submits the full preference record in one request.
func (c *Client) SavePreferences(ctx context.Context, req models.SavePreferencesRequest) error {
	return c.do(ctx, http.MethodPost, "/api/web/preferences", req, nil)
}

// Status fetches the agent's activity summary.
func (c *Client) Status(ctx context.Context) (*models.Status, error) {
	var status models.Status
	if err := c.do(ctx, http.MethodGet, "/api/web/status", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// RecentEpisodes fetches up to limit recently curated episodes.
func (c *Client) RecentEpisodes(ctx context.Context, limit int) ([]models.Episode, error) {
	if limit <= 0 {
		limit = 5
	}

	query := url.Values{"limit": {fmt.Sprint(limit)}}
	var resp models.EpisodesResponse
	if err := c.do(ctx, http.MethodGet, "/api/web/recent-episodes?"+query.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	if resp.Episodes == nil {
		resp.Episodes = []models.Episode{}
	}
	return resp.Episodes, nil
}
