// Spotify Web API show search
//
// Response types based on https://developer.spotify.com/documentation/web-api/reference/search
package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/podx/internal/models"
	"github.com/desertthunder/podx/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"
)

const (
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	defaultSearchLimit = 10
	maxSearchLimit     = 50
)

// SpotifyImage represents an image resource.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// SpotifyShow represents a simplified show object from search results.
type SpotifyShow struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Publisher   string         `json:"publisher"`
	Images      []SpotifyImage `json:"images"`
	URI         string         `json:"uri"`
}

// SpotifyPaginatedShows represents a page of shows.
type SpotifyPaginatedShows struct {
	Items  []SpotifyShow `json:"items"`
	Total  int           `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
	Next   *string       `json:"next"`
}

// SpotifySearchResponse is the body of GET /v1/search?type=show.
type SpotifySearchResponse struct {
	Shows SpotifyPaginatedShows `json:"shows"`
}

// ToShow maps a search result into a [models.Show], preferring the smallest image.
func (s SpotifyShow) ToShow() models.Show {
	show := models.Show{ID: s.ID, Name: s.Name, Description: s.Publisher}
	if show.Description == "" {
		show.Description = s.Description
	}
	if n := len(s.Images); n > 0 {
		show.ImageURL = s.Images[n-1].URL
	}
	return show
}

// SpotifyCatalog searches Spotify's show catalog with an app-only client credentials token.
type SpotifyCatalog struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	limit      int
	market     string
}

// SpotifyOption configures a [SpotifyCatalog].
type SpotifyOption func(*spotifyOptions)

type spotifyOptions struct {
	baseURL  string
	tokenURL string
	base     *http.Client
	rps      float64
	limit    int
	market   string
}

// WithSpotifyEndpoints overrides the API and token URLs.
func WithSpotifyEndpoints(baseURL, tokenURL string) SpotifyOption {
	return func(o *spotifyOptions) { o.baseURL, o.tokenURL = baseURL, tokenURL }
}

// WithSpotifyHTTPClient sets the client used for both token and API requests.
func WithSpotifyHTTPClient(c *http.Client) SpotifyOption {
	return func(o *spotifyOptions) { o.base = c }
}

// WithSearchRate limits searches to rps per second. Zero or less disables limiting.
func WithSearchRate(rps float64) SpotifyOption {
	return func(o *spotifyOptions) { o.rps = rps }
}

// WithSearchLimit sets how many shows a search returns (1..50).
func WithSearchLimit(n int) SpotifyOption {
	return func(o *spotifyOptions) { o.limit = n }
}

// WithMarket restricts results to an ISO 3166-1 country code.
func WithMarket(market string) SpotifyOption {
	return func(o *spotifyOptions) { o.market = market }
}

// NewSpotifyCatalog creates a catalog client from Spotify app credentials.
func NewSpotifyCatalog(ctx context.Context, cfg shared.SpotifyConfig, opts ...SpotifyOption) (*SpotifyCatalog, error) {
	if !cfg.Configured() {
		return nil, fmt.Errorf("%w: spotify client_id and client_secret", shared.ErrMissingCredentials)
	}

	o := spotifyOptions{
		baseURL:  spotifyBaseURL,
		tokenURL: spotifyTokenURL,
		rps:      cfg.SearchRatePerSecond,
		limit:    defaultSearchLimit,
		market:   "US",
	}
	for _, opt := range opts {
		opt(&o)
	}

	cc := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     o.tokenURL,
	}

	if o.base != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, o.base)
	}

	limit := rate.Inf
	if o.rps > 0 {
		limit = rate.Limit(o.rps)
	}

	return &SpotifyCatalog{
		baseURL:    strings.TrimRight(o.baseURL, "/"),
		httpClient: cc.Client(ctx),
		limiter:    rate.NewLimiter(limit, 1),
		limit:      max(1, min(maxSearchLimit, o.limit)),
		market:     o.market,
	}, nil
}

// SearchShows runs a show search. Blank queries return no results without a request.
func (s *SpotifyCatalog) SearchShows(ctx context.Context, query string) ([]models.Show, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.Show{}, nil
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	params := url.Values{
		"q":     {query},
		"type":  {"show"},
		"limit": {fmt.Sprint(s.limit)},
	}
	if s.market != "" {
		params.Set("market", s.market)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: spotify search: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if err := checkResponse(resp); err != nil {
		return nil, err
	}

	var result SpotifySearchResponse
	if err := decodeBody(resp, &result); err != nil {
		return nil, err
	}

	shows := make([]models.Show, 0, len(result.Shows.Items))
	for _, item := range result.Shows.Items {
		if item.ID == "" {
			continue
		}
		shows = append(shows, item.ToShow())
	}
	return shows, nil
}
