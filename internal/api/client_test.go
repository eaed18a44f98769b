package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func newTestClient(t *testing.T, h http.HandlerFunc, opts Options) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", zerolog.Nop(), opts)
}

func TestCatalogQuery_ValuesOmitNil(t *testing.T) {
	t.Parallel()

	q := CatalogQuery{Contains: strPtr("bolt"), MaxResult: 25, Page: 2, KindSearch: 1}
	v := q.Values()

	assert.Equal(t, "bolt", v.Get("contains"))
	assert.Equal(t, "25", v.Get("max_result"))
	assert.Equal(t, "2", v.Get("page"))
	assert.Equal(t, "1", v.Get("kind_search"))
	for _, k := range []string{"startswith", "endswith", "article"} {
		_, present := v[k]
		assert.False(t, present, k)
	}
}

func TestClient_FetchCatalog(t *testing.T) {
	t.Parallel()

	body := `{
		"data": [
			{"id": 1, "name": "Bolt", "created_at": "2024-01-02T03:04:05.123456", "updated_at": "2024-02-03T00:00:00"},
			{"id": 2, "name": "Nut", "created_at": "2024-01-05T00:00:00Z", "updated_at": null}
		],
		"page": 3, "total_pages": 9, "max_result": 25, "kind_search": 1, "contains": "o"
	}`

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/catalog", r.URL.Path)
		assert.Equal(t, "o", r.URL.Query().Get("contains"))
		assert.Equal(t, "3", r.URL.Query().Get("page"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		_, err := uuid.Parse(r.Header.Get(requestIDHeader))
		assert.NoError(t, err, "request id is a uuid")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}, Options{})

	page, err := c.FetchCatalog(context.Background(), CatalogQuery{Contains: strPtr("o"), MaxResult: 25, Page: 3})
	require.NoError(t, err)

	assert.Equal(t, 3, page.Page)
	assert.Equal(t, 9, page.TotalPages)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "Bolt", page.Items[0].Name)
	assert.Equal(t, "02.01.2024", page.Items[0].CreatedAt.Date())
	assert.True(t, page.Items[1].UpdatedAt.IsZero())
}

func TestClient_FetchCatalog_EmptyData(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": null, "total_pages": 0}`))
	}, Options{})

	page, err := c.FetchCatalog(context.Background(), CatalogQuery{Page: 4})
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
	assert.Equal(t, 4, page.Page, "falls back to the requested page")
}

func TestClient_FetchCatalog_StatusError(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}, Options{})

	_, err := c.FetchCatalog(context.Background(), CatalogQuery{Page: 1})
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadGateway, se.Code)
	assert.Equal(t, "boom", se.Body)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestClient_FetchCatalog_BadJSON(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[`))
	}, Options{})

	_, err := c.FetchCatalog(context.Background(), CatalogQuery{Page: 1})
	assert.ErrorContains(t, err, "decode json")
}

func TestClient_FetchCatalog_NoRetry(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}, Options{})

	_, err := c.FetchCatalog(context.Background(), CatalogQuery{Page: 1})
	require.Error(t, err)
	assert.Equal(t, int32(1), hits.Load())
}

func TestClient_FetchDetail(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/product_info/42", r.URL.Path)
		_, _ = w.Write([]byte(`{"id": 42, "name": "Bolt", "full_name": "Bolt M6x20",
			"description": "Steel", "brand": {"name": "Acme"}, "manufacture": {"name": "Acme Works"}}`))
	}, Options{})

	d, err := c.FetchDetail(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, 42, d.ID)
	assert.Equal(t, "Bolt M6x20", d.FullName)
	assert.Equal(t, "Acme", d.BrandName())
	assert.Equal(t, "Acme Works", d.ManufactureName())
}

func TestClient_FetchDetail_NotFound(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}, Options{})

	_, err := c.FetchDetail(context.Background(), 5)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestClient_FetchDetail_Cache(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	handler := func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{"id": 1, "name": "Bolt"}`))
	}

	cached := newTestClient(t, handler, Options{DetailCacheSize: 8, DetailCacheTTL: time.Minute})
	for range 3 {
		_, err := cached.FetchDetail(context.Background(), 1)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), hits.Load())

	hits.Store(0)
	uncached := newTestClient(t, handler, Options{})
	for range 3 {
		_, err := uncached.FetchDetail(context.Background(), 1)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(3), hits.Load())
}

func TestClient_FetchDetail_ErrorsAreNotCached(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"id": 1, "name": "Bolt"}`))
	}, Options{DetailCacheSize: 8, DetailCacheTTL: time.Minute})

	_, err := c.FetchDetail(context.Background(), 1)
	require.Error(t, err)

	d, err := c.FetchDetail(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Bolt", d.Name)
}

func TestClient_FetchDetail_CancelledCallerDoesNotFailSharedWaiters(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	release := make(chan struct{})
	var hits atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			close(started)
		}
		<-release
		_, _ = w.Write([]byte(`{"id": 5, "name": "Washer"}`))
	}, Options{})
	var once sync.Once
	unblock := func() { once.Do(func() { close(release) }) }
	t.Cleanup(unblock)

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := c.FetchDetail(ctxA, 5)
		errA <- err
	}()
	<-started

	type result struct {
		name string
		err  error
	}
	resB := make(chan result, 1)
	go func() {
		d, err := c.FetchDetail(context.Background(), 5)
		resB <- result{d.Name, err}
	}()
	time.Sleep(50 * time.Millisecond) // let the second caller join the flight

	cancelA()
	select {
	case err := <-errA:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("cancelled caller did not return")
	}

	unblock()
	select {
	case r := <-resB:
		require.NoError(t, r.err)
		assert.Equal(t, "Washer", r.name)
	case <-time.After(2 * time.Second):
		t.Fatal("shared caller did not return")
	}
}
