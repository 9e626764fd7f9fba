// Package catalog provides the HTTP client for the external creature catalog
// (PokeAPI).
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"creaturedex/internal/creature"
	"creaturedex/platform/apperr"
	"creaturedex/platform/config"
	"creaturedex/platform/logger"
)

// Client lists and resolves creatures from the catalog. It is safe for
// concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limit      int
	offset     int
	cache      ListingCache
	log        *logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithCache enables the listing cache.
func WithCache(cache ListingCache) Option {
	return func(c *Client) { c.cache = cache }
}

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithOffset starts the listing page at offset.
func WithOffset(offset int) Option {
	return func(c *Client) { c.offset = offset }
}

// New creates a catalog client. Every call is bounded by the configured
// timeout and is never retried.
func New(cfg config.CatalogConfig, log *logger.Logger, opts ...Option) *Client {
	base := cfg.GetCatalogBaseURL()
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	c := &Client{
		httpClient: &http.Client{Timeout: cfg.GetCatalogTimeout()},
		baseURL:    base,
		limit:      cfg.GetCatalogPageSize(),
		log:        log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListCandidates returns one page of the catalog listing. An upstream
// failure is a KindNetwork error, never an empty page.
func (c *Client) ListCandidates(ctx context.Context) ([]creature.Candidate, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(c.limit))
	params.Set("offset", strconv.Itoa(c.offset))
	reqURL := c.baseURL + "pokemon/?" + params.Encode()

	if c.cache != nil {
		cached, ok, err := c.cache.Get(ctx, reqURL)
		if err != nil {
			c.log.Warn("catalog cache read failed", "error", err)
		} else if ok {
			return cached, nil
		}
	}

	var page apiListing
	if err := c.getJSON(ctx, reqURL, &page); err != nil {
		return nil, err.WithOp("catalog.ListCandidates")
	}

	candidates := make([]creature.Candidate, 0, len(page.Results))
	for _, item := range page.Results {
		candidates = append(candidates, creature.Candidate{Name: item.Name, DetailRef: item.URL})
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, reqURL, candidates); err != nil {
			c.log.Warn("catalog cache write failed", "error", err)
		}
	}

	return candidates, nil
}

// ResolveDetail fetches the full record behind a candidate. Missing
// base_experience or order upstream become 0, and so does a negative order.
func (c *Client) ResolveDetail(ctx context.Context, candidate creature.Candidate) (creature.Record, error) {
	if candidate.DetailRef == "" {
		return creature.Record{}, apperr.Validation("candidate has no detail reference").WithOp("catalog.ResolveDetail")
	}

	var detail apiDetail
	if err := c.getJSON(ctx, candidate.DetailRef, &detail); err != nil {
		return creature.Record{}, err.WithOp("catalog.ResolveDetail")
	}
	return detail.toRecord(), nil
}

func (c *Client) getJSON(ctx context.Context, reqURL string, out interface{}) *apperr.Error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return apperr.Network("create catalog request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("catalog request failed", "error", err, "url", reqURL)
		return apperr.Network("catalog unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Error("catalog upstream error", "status", resp.StatusCode, "url", reqURL)
		return apperr.Network(fmt.Sprintf("catalog returned status %d", resp.StatusCode), nil).
			WithDetails(map[string]interface{}{"status": resp.StatusCode})
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.log.Error("catalog decode failed", "error", err, "url", reqURL)
		return apperr.Network("decode catalog response", err)
	}
	return nil
}

// apiListing is the raw paginated listing.
type apiListing struct {
	Count   int `json:"count"`
	Results []struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	} `json:"results"`
}

// apiDetail is the subset of the raw detail document that is stored.
type apiDetail struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	Height         int    `json:"height"`
	Weight         int    `json:"weight"`
	BaseExperience *int   `json:"base_experience"`
	Order          *int   `json:"order"`
}

func (a apiDetail) toRecord() creature.Record {
	rec := creature.Record{
		ID:     a.ID,
		Name:   a.Name,
		Height: a.Height,
		Weight: a.Weight,
	}
	if a.BaseExperience != nil {
		rec.BaseExperience = *a.BaseExperience
	}
	// Alternate forms carry order -1 upstream.
	if a.Order != nil && *a.Order > 0 {
		rec.Order = *a.Order
	}
	return rec.Normalized()
}
