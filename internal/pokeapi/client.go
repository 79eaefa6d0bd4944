// file: internal/pokeapi/client.go
// version: 1.0.0
// guid: e2b6d04f-1c9a-4e73-8f58-3a7d9c0b5e21

package pokeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jdfalk/pokedex/internal/metrics"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the public PokeAPI endpoint.
const DefaultBaseURL = "https://pokeapi.co/api/v2"

// ErrNotFound is returned when the API has no record for an identifier.
var ErrNotFound = errors.New("pokeapi: not found")

// StatusError is returned for non-200, non-404 responses.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("PokeAPI returned status %d for %s", e.StatusCode, e.URL)
}

// Client fetches records from PokeAPI. Requests are never retried.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRateLimit throttles outbound requests to requestsPerMinute with the
// given burst. Zero or negative requestsPerMinute disables throttling.
func WithRateLimit(requestsPerMinute, burst int) Option {
	return func(c *Client) {
		if requestsPerMinute <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		perSecond := float64(requestsPerMinute) / 60.0
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// NewClient creates a client for baseURL; an empty baseURL uses DefaultBaseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetPokemon fetches /pokemon/{id}; id is a name or a numeric id.
func (c *Client) GetPokemon(ctx context.Context, id string) (*Pokemon, error) {
	var p Pokemon
	if err := c.get(ctx, "pokemon", id, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetAbility fetches /ability/{id}.
func (c *Client) GetAbility(ctx context.Context, id string) (*Ability, error) {
	var a Ability
	if err := c.get(ctx, "ability", id, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// GetSpecies fetches /pokemon-species/{id}.
func (c *Client) GetSpecies(ctx context.Context, id string) (*Species, error) {
	var s Species
	if err := c.get(ctx, "pokemon-species", id, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// GetEvolutionChain fetches /evolution-chain/{id}.
func (c *Client) GetEvolutionChain(ctx context.Context, id string) (*EvolutionChain, error) {
	var e EvolutionChain
	if err := c.get(ctx, "evolution-chain", id, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (c *Client) get(ctx context.Context, resource, id string, out any) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%s: empty identifier: %w", resource, ErrNotFound)
	}
	u := fmt.Sprintf("%s/%s/%s", c.baseURL, resource, url.PathEscape(id))
	return c.GetByURL(ctx, resource, u, out)
}

// GetByURL fetches an absolute resource URL, as found in species and
// evolution-chain references, and decodes the JSON body into out. resource
// only labels logs and metrics.
func (c *Client) GetByURL(ctx context.Context, resource, u string, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
	}

	start := time.Now()
	defer func() { metrics.ObserveFetchDuration(resource, time.Since(start)) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	log.Printf("[DEBUG] GET %s", u)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.IncFetch(resource, "error")
		return fmt.Errorf("failed to fetch %s: %w", resource, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		metrics.IncFetch(resource, "not_found")
		return fmt.Errorf("%s %s: %w", resource, u, ErrNotFound)
	default:
		metrics.IncFetch(resource, "error")
		return &StatusError{URL: u, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metrics.IncFetch(resource, "error")
		return fmt.Errorf("failed to decode %s response: %w", resource, err)
	}
	metrics.IncFetch(resource, "ok")
	return nil
}
