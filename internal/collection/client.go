// Package collection provides the HTTP client for the storage API. Every
// operation is a single round trip with no caching.
package collection

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

	"creaturedex/internal/creature"
	"creaturedex/internal/creatures/transport"
	"creaturedex/platform/apperr"
	"creaturedex/platform/config"
	"creaturedex/platform/httpkit"
)

// Client talks to the storage API. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// New creates a storage API client.
func New(cfg config.StorageAPIConfig) *Client {
	return NewWithHTTPClient(cfg.GetStorageAPIURL(), &http.Client{Timeout: cfg.GetStorageAPITimeout()})
}

// NewWithHTTPClient creates a client against baseURL using hc.
func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	return &Client{httpClient: hc, baseURL: strings.TrimRight(baseURL, "/")}
}

// envelope is implemented by every response type of the storage API.
type envelope interface {
	ok() (bool, string)
}

type listEnvelope struct{ transport.CreatureListResponse }
type recordEnvelope struct{ transport.CreatureResponse }
type existsEnvelope struct{ transport.ExistsResponse }
type statsEnvelope struct{ transport.StatsResponse }
type messageEnvelope struct{ transport.MessageResponse }

func (e *listEnvelope) ok() (bool, string)    { return e.Success, e.Error }
func (e *recordEnvelope) ok() (bool, string)  { return e.Success, e.Error }
func (e *existsEnvelope) ok() (bool, string)  { return e.Success, e.Error }
func (e *statsEnvelope) ok() (bool, string)   { return e.Success, e.Error }
func (e *messageEnvelope) ok() (bool, string) { return e.Success, e.Error }

// Ping calls the health route.
func (c *Client) Ping(ctx context.Context) error {
	var out messageEnvelope
	return c.do(ctx, "collection.Ping", http.MethodGet, "/api/health", nil, &out)
}

// Exists reports whether name is collected. Absence is false with no error.
func (c *Client) Exists(ctx context.Context, name string) (bool, error) {
	var out existsEnvelope
	if err := c.do(ctx, "collection.Exists", http.MethodGet, "/api/creatures/exists/"+url.PathEscape(name), nil, &out); err != nil {
		return false, err
	}
	return out.Exists, nil
}

// FindByName fetches a record by name.
func (c *Client) FindByName(ctx context.Context, name string) (creature.Record, error) {
	var out recordEnvelope
	if err := c.do(ctx, "collection.FindByName", http.MethodGet, "/api/creatures/name/"+url.PathEscape(name), nil, &out); err != nil {
		return creature.Record{}, err
	}
	return derefRecord(out.Data), nil
}

// FindByID fetches a record by id.
func (c *Client) FindByID(ctx context.Context, id int) (creature.Record, error) {
	var out recordEnvelope
	if err := c.do(ctx, "collection.FindByID", http.MethodGet, "/api/creatures/"+strconv.Itoa(id), nil, &out); err != nil {
		return creature.Record{}, err
	}
	return derefRecord(out.Data), nil
}

// Insert stores rec and returns it with the store-assigned created_at. A
// duplicate id or name is an apperr.KindConflict.
func (c *Client) Insert(ctx context.Context, rec creature.Record) (creature.Record, error) {
	var out recordEnvelope
	if err := c.do(ctx, "collection.Insert", http.MethodPost, "/api/creatures", transport.FromRecord(rec), &out); err != nil {
		return creature.Record{}, err
	}
	return derefRecord(out.Data), nil
}

// Delete removes a record by id.
func (c *Client) Delete(ctx context.Context, id int) error {
	var out messageEnvelope
	return c.do(ctx, "collection.Delete", http.MethodDelete, "/api/creatures/"+strconv.Itoa(id), nil, &out)
}

// List returns the whole collection.
func (c *Client) List(ctx context.Context) ([]creature.Record, error) {
	var out listEnvelope
	if err := c.do(ctx, "collection.List", http.MethodGet, "/api/creatures", nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// Count returns the number of collected records.
func (c *Client) Count(ctx context.Context) (int, error) {
	stats, err := c.Stats(ctx)
	if err != nil {
		return 0, err
	}
	return stats.Total, nil
}

// Stats summarizes the collection.
func (c *Client) Stats(ctx context.Context) (creature.Stats, error) {
	var out statsEnvelope
	if err := c.do(ctx, "collection.Stats", http.MethodGet, "/api/stats", nil, &out); err != nil {
		return creature.Stats{}, err
	}
	if out.Stats == nil {
		return creature.Stats{}, apperr.Internal("storage api returned no stats").WithOp("collection.Stats")
	}
	return *out.Stats, nil
}

func derefRecord(r *creature.Record) creature.Record {
	if r == nil {
		return creature.Record{}
	}
	return *r
}

func (c *Client) do(ctx context.Context, op, method, path string, body interface{}, out envelope) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return apperr.Wrap(apperr.KindInternal, "encode request", err).WithOp(op)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return apperr.Network("create storage api request", err).WithOp(op)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperr.Network("storage api unreachable", err).WithOp(op)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperr.Network("read storage api response", err).WithOp(op)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return classify(resp.StatusCode, raw).WithOp(op)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return apperr.Network("decode storage api response", err).WithOp(op)
	}
	if success, message := out.ok(); !success {
		if message == "" {
			message = "request rejected"
		}
		return apperr.Internal("rejected by storage api: " + message).WithOp(op)
	}
	return nil
}

// classify maps a non-2xx answer to an error kind.
func classify(status int, raw []byte) *apperr.Error {
	var body httpkit.ErrorResponse
	_ = json.Unmarshal(raw, &body)
	message := body.Error
	if message == "" {
		message = http.StatusText(status)
	}

	switch status {
	case http.StatusNotFound:
		return apperr.NotFound(message)
	case http.StatusConflict:
		return apperr.Conflict(message).WithDetails(body.Details)
	case http.StatusBadRequest:
		return apperr.Validation(message).WithDetails(body.Details)
	default:
		return apperr.Network(fmt.Sprintf("storage api returned status %d: %s", status, message), nil).
			WithDetails(map[string]interface{}{"status": status})
	}
}
