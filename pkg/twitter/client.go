// Package twitter provides a minimal client for the v1.1-style tweet
// search API: paginated standard search, credential verification, and
// rate-limit-aware request handling.
package twitter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dghubble/oauth1"
	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://api.twitter.com/1.1"

// Client defines the search API operations used by the collector.
type Client interface {
	// Search fetches a single page of results.
	Search(ctx context.Context, req SearchRequest) (*SearchResponse, error)
	// SearchAll pages through results for a query until maxItems
	// statuses are collected or the API signals exhaustion.
	SearchAll(ctx context.Context, query string, maxItems int) ([]Status, error)
	// VerifyCredentials checks that the configured credentials are
	// accepted by the API.
	VerifyCredentials(ctx context.Context) error
}

// Credentials holds the four developer tokens for the API.
type Credentials struct {
	APIKey       string
	APISecret    string
	AccessToken  string
	AccessSecret string
}

// User is the author profile embedded in a status.
type User struct {
	Name        string `json:"name"`
	ScreenName  string `json:"screen_name"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

// Status is one tweet as returned by the search endpoint in extended mode.
type Status struct {
	ID        int64  `json:"id"`
	CreatedAt string `json:"created_at"`
	FullText  string `json:"full_text"`
	User      User   `json:"user"`
}

// SearchMetadata carries the API's pagination hints.
type SearchMetadata struct {
	NextResults string `json:"next_results"`
	Count       int    `json:"count"`
	MaxID       int64  `json:"max_id"`
}

// SearchResponse is one page of search results.
type SearchResponse struct {
	Statuses       []Status       `json:"statuses"`
	SearchMetadata SearchMetadata `json:"search_metadata"`
}

// SearchRequest describes a single page request.
type SearchRequest struct {
	Query string
	Count int
	// MaxID, when nonzero, returns only statuses with an ID at or
	// below it. Used for cursoring: pass lowest seen ID minus one.
	MaxID int64
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit sets a per-second request rate limit. A burst equal to
// the integer portion of rps is allowed.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), max(int(rps), 1))
		}
	}
}

// WithPageSize sets the per-page result count requested from the API.
// The standard search endpoint caps pages at 100.
func WithPageSize(n int) Option {
	return func(c *httpClient) {
		if n > 0 && n <= maxPageSize {
			c.pageSize = n
		}
	}
}

const maxPageSize = 100

type httpClient struct {
	baseURL  string
	pageSize int
	http     *http.Client
	limiter  *rate.Limiter
}

// NewClient creates a search API client. Requests are signed with OAuth
// 1.0a HMAC-SHA1 by wrapping the base client (default or the one from
// WithHTTPClient) in an oauth1 signing transport.
func NewClient(creds Credentials, opts ...Option) Client {
	c := &httpClient{
		baseURL:  defaultBaseURL,
		pageSize: maxPageSize,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}

	cfg := oauth1.NewConfig(creds.APIKey, creds.APISecret)
	ctx := context.WithValue(oauth1.NoContext, oauth1.HTTPClient, c.http)
	signed := cfg.Client(ctx, oauth1.NewToken(creds.AccessToken, creds.AccessSecret))
	signed.Timeout = c.http.Timeout
	c.http = signed

	return c
}

func (c *httpClient) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	params := url.Values{}
	params.Set("q", req.Query)
	params.Set("tweet_mode", "extended")
	count := req.Count
	if count <= 0 || count > maxPageSize {
		count = c.pageSize
	}
	params.Set("count", strconv.Itoa(count))
	if req.MaxID > 0 {
		params.Set("max_id", strconv.FormatInt(req.MaxID, 10))
	}

	body, err := c.get(ctx, "/search/tweets.json", params)
	if err != nil {
		return nil, err
	}

	var resp SearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, eris.Wrap(err, "twitter: decode search response")
	}
	return &resp, nil
}

func (c *httpClient) SearchAll(ctx context.Context, query string, maxItems int) ([]Status, error) {
	if maxItems <= 0 {
		return nil, nil
	}

	var all []Status
	var maxID int64

	for len(all) < maxItems {
		page, err := c.Search(ctx, SearchRequest{Query: query, MaxID: maxID})
		if err != nil {
			return nil, err
		}
		if len(page.Statuses) == 0 {
			break
		}

		for _, s := range page.Statuses {
			all = append(all, s)
			if maxID == 0 || s.ID <= maxID {
				maxID = s.ID - 1
			}
			if len(all) == maxItems {
				return all, nil
			}
		}
	}

	return all, nil
}

func (c *httpClient) VerifyCredentials(ctx context.Context) error {
	_, err := c.get(ctx, "/account/verify_credentials.json", url.Values{})
	if err != nil {
		return eris.Wrap(err, "twitter: verify credentials")
	}
	return nil
}

// get performs a rate-limited GET against the API. A 429 response is
// not an error: the client sleeps until the reset time advertised by
// the API (or a short fallback) and retries, so callers only see rate
// limiting as latency.
func (c *httpClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	for {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, eris.Wrap(err, "twitter: rate limiter wait")
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
		if err != nil {
			return nil, eris.Wrap(err, "twitter: create request")
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, eris.Wrap(err, "twitter: send request")
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close() //nolint:errcheck
		if readErr != nil {
			return nil, eris.Wrap(readErr, "twitter: read response")
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			if err := c.waitForReset(ctx, resp.Header.Get("x-rate-limit-reset")); err != nil {
				return nil, err
			}
			continue
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, eris.New(fmt.Sprintf("twitter: %s returned %d: %s", path, resp.StatusCode, truncate(string(body), 200)))
		}
		return body, nil
	}
}

// waitForReset sleeps until the epoch second in the x-rate-limit-reset
// header. A missing or unparsable header falls back to a fixed delay.
func (c *httpClient) waitForReset(ctx context.Context, resetHeader string) error {
	delay := 15 * time.Second
	if epoch, err := strconv.ParseInt(resetHeader, 10, 64); err == nil {
		if until := time.Until(time.Unix(epoch, 0)); until > 0 {
			delay = until
		} else {
			delay = time.Second
		}
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return eris.Wrap(ctx.Err(), "twitter: canceled during rate limit wait")
	case <-timer.C:
		return nil
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
