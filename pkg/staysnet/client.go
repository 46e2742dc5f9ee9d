package staysnet

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rendizy/channelsync/pkg/errors"
)

// DefaultHTTPTimeout bounds every channel-manager request. A hung external
// API must never hang a whole sync run.
const DefaultHTTPTimeout = 30 * time.Second

// Range is an inclusive reservation date window.
type Range struct {
	Start time.Time
	End   time.Time
}

// Client lists records from the channel manager. Implementations must be
// safe for concurrent use.
type Client interface {
	// ListGuests returns every client record.
	ListGuests(ctx context.Context) ([]Guest, error)

	// ListProperties returns every listing record.
	ListProperties(ctx context.Context) ([]Listing, error)

	// ListReservations returns booking records whose stay overlaps the
	// given date range.
	ListReservations(ctx context.Context, r Range) ([]Reservation, error)
}

// HTTPClient is the Stays.net external API client.
type HTTPClient struct {
	baseURL string
	auth    string
	http    *http.Client
}

// Compile-time interface check.
var _ Client = (*HTTPClient)(nil)

// NewHTTPClient creates a Stays.net client. The API authenticates with HTTP
// Basic credentials issued per integration.
func NewHTTPClient(baseURL, clientID, clientSecret string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		auth:    base64.StdEncoding.EncodeToString([]byte(clientID + ":" + clientSecret)),
		http:    &http.Client{Timeout: DefaultHTTPTimeout},
	}
}

// WithHTTPClient overrides the underlying http.Client, mainly for tests.
func (c *HTTPClient) WithHTTPClient(hc *http.Client) *HTTPClient {
	c.http = hc
	return c
}

// ListGuests returns every client record.
func (c *HTTPClient) ListGuests(ctx context.Context) ([]Guest, error) {
	var out []Guest
	if err := c.list(ctx, "/booking/clients", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListProperties returns every listing record.
func (c *HTTPClient) ListProperties(ctx context.Context) ([]Listing, error) {
	var out []Listing
	if err := c.list(ctx, "/content/listings", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListReservations returns booking records overlapping the date range.
func (c *HTTPClient) ListReservations(ctx context.Context, r Range) ([]Reservation, error) {
	params := url.Values{}
	params.Set("from", r.Start.UTC().Format("2006-01-02"))
	params.Set("to", r.End.UTC().Format("2006-01-02"))

	var out []Reservation
	if err := c.list(ctx, "/booking/reservations", params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// list performs a GET against the given endpoint and decodes the collection
// envelope into v, which must be a pointer to a slice.
func (c *HTTPClient) list(ctx context.Context, endpoint string, params url.Values, v any) error {
	u := c.baseURL + endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return errors.WrapAPI(endpoint, 0, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Basic "+c.auth)

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.WrapAPI(endpoint, 0, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return errors.NewAPIError(endpoint, resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WrapAPI(endpoint, resp.StatusCode, err)
	}

	return decodeCollection(endpoint, body, v)
}

// decodeCollection unwraps the channel manager's inconsistent collection
// envelopes. Depending on endpoint and API version the records arrive as a
// bare array or nested under "data", "clients", "listings", or
// "reservations".
func decodeCollection(endpoint string, body []byte, v any) error {
	if err := json.Unmarshal(body, v); err == nil {
		return nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return errors.WrapAPI(endpoint, 0, fmt.Errorf("decode response: %w", err))
	}

	for _, key := range []string{"data", "clients", "listings", "reservations"} {
		raw, ok := envelope[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, v); err == nil {
			return nil
		}
	}

	return errors.WrapAPI(endpoint, 0, fmt.Errorf("no recognizable collection in response"))
}
