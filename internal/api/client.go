// Package api is the HTTP client for the remote catalog service.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Makepad-fr/catalog/internal/model"
	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

const (
	catalogPath = "/api/catalog"
	detailPath  = "/api/product_info/"

	requestIDHeader = "X-Request-ID"
	maxErrorBody    = 512
)

// ErrNotFound is matched (errors.Is) by a 404 StatusError.
var ErrNotFound = errors.New("api: not found")

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("api: unexpected status %d", e.Code)
	}
	return fmt.Sprintf("api: unexpected status %d: %s", e.Code, e.Body)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.Code == http.StatusNotFound
}

// CatalogQuery is one catalog request. Nil filters are not sent.
type CatalogQuery struct {
	StartsWith *string
	EndsWith   *string
	Contains   *string
	Article    *string
	MaxResult  int
	Page       int
	KindSearch int
}

// Values encodes the query string. Zero numeric fields are left out.
func (q CatalogQuery) Values() url.Values {
	v := url.Values{}
	set := func(name string, s *string) {
		if s != nil {
			v.Set(name, *s)
		}
	}
	set("startswith", q.StartsWith)
	set("endswith", q.EndsWith)
	set("contains", q.Contains)
	set("article", q.Article)
	if q.MaxResult > 0 {
		v.Set("max_result", strconv.Itoa(q.MaxResult))
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.KindSearch > 0 {
		v.Set("kind_search", strconv.Itoa(q.KindSearch))
	}
	return v
}

type catalogResponse struct {
	Data       []model.Item `json:"data"`
	Page       int          `json:"page"`
	TotalPages int          `json:"total_pages"`
}

// Options tune the client. Zero values pick the defaults.
type Options struct {
	Timeout         time.Duration
	DetailCacheSize int // <= 0 disables the detail cache
	DetailCacheTTL  time.Duration
	HTTPClient      *http.Client
}

// Client talks to the catalog API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger

	details  *expirable.LRU[int, model.ItemDetail]
	inflight singleflight.Group
}

// New creates a Client for baseURL (scheme and host, no trailing path needed).
func New(baseURL string, logger zerolog.Logger, opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: hc,
		log:        logger.With().Str("component", "api").Logger(),
	}
	if opts.DetailCacheSize > 0 {
		c.details = expirable.NewLRU[int, model.ItemDetail](opts.DetailCacheSize, nil, opts.DetailCacheTTL)
	}
	return c
}

// FetchCatalog fetches one page of the catalog.
func (c *Client) FetchCatalog(ctx context.Context, q CatalogQuery) (model.Page, error) {
	reqURL := c.baseURL + catalogPath
	if enc := q.Values().Encode(); enc != "" {
		reqURL += "?" + enc
	}

	var resp catalogResponse
	if err := c.getJSON(ctx, reqURL, &resp); err != nil {
		return model.Page{}, fmt.Errorf("api: fetch catalog: %w", err)
	}

	page := resp.Page
	if page < 1 {
		page = q.Page
	}
	items := resp.Data
	if items == nil {
		items = []model.Item{}
	}
	return model.Page{Items: items, Page: page, TotalPages: resp.TotalPages}, nil
}

// FetchDetail fetches the full record for one item. Concurrent calls for the
// same id share one request; results are cached when the cache is enabled.
func (c *Client) FetchDetail(ctx context.Context, id int) (model.ItemDetail, error) {
	if c.details != nil {
		if d, ok := c.details.Get(id); ok {
			c.log.Debug().Int("item_id", id).Msg("detail cache hit")
			return d, nil
		}
	}

	// The shared request must outlive any single caller, so it runs detached
	// from ctx (the http.Client timeout still bounds it). A cancelled caller
	// stops waiting without failing the others.
	key := strconv.Itoa(id)
	sharedCtx := context.WithoutCancel(ctx)
	ch := c.inflight.DoChan(key, func() (any, error) {
		var d model.ItemDetail
		if err := c.getJSON(sharedCtx, c.baseURL+detailPath+url.PathEscape(key), &d); err != nil {
			return model.ItemDetail{}, err
		}
		if c.details != nil {
			c.details.Add(id, d)
		}
		return d, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return model.ItemDetail{}, fmt.Errorf("api: fetch detail %d: %w", id, ctx.Err())
	case res = <-ch:
	}
	if res.Shared {
		c.log.Debug().Int("item_id", id).Msg("detail request shared")
	}
	if res.Err != nil {
		return model.ItemDetail{}, fmt.Errorf("api: fetch detail %d: %w", id, res.Err)
	}
	v := res.Val
	return v.(model.ItemDetail), nil
}

func (c *Client) getJSON(ctx context.Context, reqURL string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set(requestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn().Str("request_id", requestID).Str("url", reqURL).Err(err).Msg("request failed")
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("request_id", requestID).
		Str("url", reqURL).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("api response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}
	return nil
}
