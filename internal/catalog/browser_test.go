package catalog

import (
	"errors"
	"testing"

	"github.com/Makepad-fr/catalog/internal/model"
	"github.com/Makepad-fr/catalog/internal/query"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStorage struct {
	data   map[string]string
	setErr error
	sets   int
}

func (m *memStorage) Get(key string) (string, bool, error) {
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memStorage) Set(key, value string) error {
	m.sets++
	if m.setErr != nil {
		return m.setErr
	}
	if m.data == nil {
		m.data = map[string]string{}
	}
	m.data[key] = value
	return nil
}

func newBrowser(st query.Storage) *Browser {
	return NewBrowser(st, zerolog.Nop())
}

func TestBrowser_RestoresPage(t *testing.T) {
	t.Parallel()

	b := newBrowser(&memStorage{data: map[string]string{query.PageKey: "5"}})
	assert.Equal(t, 5, b.State().Page)
	assert.False(t, b.Snapshot().FilterActive)
}

func TestBrowser_EditsPersistPage(t *testing.T) {
	t.Parallel()

	st := &memStorage{data: map[string]string{query.PageKey: "5"}}
	b := newBrowser(st)

	s, err := b.EditFilter(query.Contains, "x")
	require.NoError(t, err)
	assert.Equal(t, 1, s.Page)
	assert.Equal(t, "1", st.data[query.PageKey])
	assert.True(t, b.Snapshot().FilterActive)

	s, err = b.ChangePage(3)
	require.NoError(t, err)
	assert.Equal(t, "x", s.Contains)
	assert.Equal(t, "3", st.data[query.PageKey])

	s = b.ClearFilters()
	assert.Equal(t, query.Default(), s)
	assert.Equal(t, "1", st.data[query.PageKey])
	assert.False(t, b.Snapshot().FilterActive, "derived flag follows the state")
}

func TestBrowser_StorageFailureIsIgnored(t *testing.T) {
	t.Parallel()

	st := &memStorage{setErr: errors.New("read-only")}
	b := newBrowser(st)

	s, err := b.ChangePage(2)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Page)
	assert.Equal(t, 1, st.sets)
}

func TestBrowser_InvalidEditsLeaveState(t *testing.T) {
	t.Parallel()

	st := &memStorage{}
	b := newBrowser(st)

	_, err := b.ChangePage(0)
	assert.ErrorIs(t, err, query.ErrInvalidPage)
	_, err = b.EditFilter(query.Field("price"), "1")
	assert.ErrorIs(t, err, query.ErrUnknownField)

	assert.Equal(t, query.Default(), b.State())
	assert.Zero(t, st.sets)
}

func TestBrowser_PaginationGatedByBothFlags(t *testing.T) {
	t.Parallel()

	b := newBrowser(nil)
	assert.True(t, b.PaginationEnabled())

	ct := b.BeginCatalog(b.State())
	assert.False(t, b.PaginationEnabled())
	assert.False(t, b.Snapshot().PaginationEnabled())
	assert.False(t, b.CanChangePage(2))

	b.ResolveCatalog(Result{Seq: ct.Seq, Page: model.Page{Page: 1, TotalPages: 3}})
	assert.True(t, b.PaginationEnabled())

	dt := b.BeginDetail(9)
	snap := b.Snapshot()
	assert.True(t, snap.LoadingDetail)
	assert.False(t, snap.LoadingCatalog)
	assert.False(t, snap.PaginationEnabled())
	assert.False(t, b.CanChangePage(2))

	b.ResolveDetail(DetailResult{Seq: dt.Seq, ID: 9, Err: errors.New("nope")})
	snap = b.Snapshot()
	assert.True(t, snap.PaginationEnabled())
	assert.Error(t, snap.DetailErr)
	assert.False(t, snap.HasDetail)
}

func TestBrowser_CanChangePageBounds(t *testing.T) {
	t.Parallel()

	b := newBrowser(nil)
	assert.True(t, b.CanChangePage(4), "total unknown before the first page")

	ct := b.BeginCatalog(b.State())
	b.ResolveCatalog(Result{Seq: ct.Seq, Page: model.Page{Page: 1, TotalPages: 3}})

	assert.False(t, b.CanChangePage(0))
	assert.False(t, b.CanChangePage(1), "already there")
	assert.True(t, b.CanChangePage(3))
	assert.False(t, b.CanChangePage(4))
}

func TestBrowser_RestoredPagePastLastCanGoBack(t *testing.T) {
	t.Parallel()

	st := &memStorage{data: map[string]string{query.PageKey: "50"}}
	b := newBrowser(st)
	require.Equal(t, 50, b.State().Page)

	ct := b.BeginCatalog(b.State())
	b.ResolveCatalog(Result{Seq: ct.Seq, Page: model.Page{Items: []model.Item{}, Page: 50, TotalPages: 3}})

	assert.True(t, b.CanChangePage(49), "back from past the last page")
	assert.True(t, b.CanChangePage(3))
	assert.False(t, b.CanChangePage(51))

	s, err := b.ChangePage(49)
	require.NoError(t, err)
	assert.Equal(t, 49, s.Page)
	assert.Equal(t, "49", st.data[query.PageKey])
}

func TestBrowser_StaleCatalogAcrossEdits(t *testing.T) {
	t.Parallel()

	b := newBrowser(nil)

	sa, err := b.EditFilter(query.StartsWith, "a")
	require.NoError(t, err)
	ta := b.BeginCatalog(sa)

	sb, err := b.EditFilter(query.StartsWith, "ab")
	require.NoError(t, err)
	tb := b.BeginCatalog(sb)

	assert.True(t, b.ResolveCatalog(Result{Seq: tb.Seq, Page: pageOf(1, "ab-item")}))
	assert.False(t, b.ResolveCatalog(Result{Seq: ta.Seq, Page: pageOf(1, "a-item")}))

	snap := b.Snapshot()
	assert.False(t, snap.LoadingCatalog)
	assert.Equal(t, "ab-item", snap.Page.Items[0].Name)
	assert.Equal(t, "ab", snap.Query.StartsWith)
}

func TestBrowser_CatalogErrorSurfaces(t *testing.T) {
	t.Parallel()

	b := newBrowser(nil)
	t1 := b.BeginCatalog(b.State())
	b.ResolveCatalog(Result{Seq: t1.Seq, Page: pageOf(1, "p")})

	t2 := b.BeginCatalog(b.State())
	b.ResolveCatalog(Result{Seq: t2.Seq, Err: errors.New("timeout")})

	snap := b.Snapshot()
	assert.Equal(t, Error, snap.Status)
	assert.Error(t, snap.CatalogErr)
	assert.True(t, snap.HasPage)
	assert.Equal(t, "p", snap.Page.Items[0].Name)
}
