package catalog

import (
	"github.com/Makepad-fr/catalog/internal/model"
	"github.com/Makepad-fr/catalog/internal/query"
	"github.com/rs/zerolog"
)

// Snapshot is everything the view renders.
type Snapshot struct {
	Query          query.State
	Page           model.Page
	HasPage        bool
	Status         Status
	LoadingCatalog bool
	LoadingDetail  bool
	Detail         model.ItemDetail
	HasDetail      bool
	FilterActive   bool
	CatalogErr     error
	DetailErr      error
}

// PaginationEnabled is false while either fetch is in flight.
func (s Snapshot) PaginationEnabled() bool {
	return !s.LoadingCatalog && !s.LoadingDetail
}

// Browser owns the query state and both fetch state machines. It is not safe
// for concurrent use; drive it from one event loop.
type Browser struct {
	state   query.State
	storage query.Storage
	catalog Orchestrator
	detail  DetailFetch
	log     zerolog.Logger
}

// NewBrowser seeds the query state from storage (page only).
func NewBrowser(st query.Storage, logger zerolog.Logger) *Browser {
	b := &Browser{
		state:   query.Restore(st),
		storage: st,
		log:     logger.With().Str("component", "catalog").Logger(),
	}
	b.log.Debug().Int("page", b.state.Page).Msg("query state restored")
	return b
}

// State returns the current (not yet debounced) query state.
func (b *Browser) State() query.State { return b.state }

// EditFilter sets a filter field; the page goes back to 1.
func (b *Browser) EditFilter(f query.Field, value string) (query.State, error) {
	next, err := query.WithFilter(b.state, f, value)
	if err != nil {
		return b.state, err
	}
	b.commit(next)
	return next, nil
}

// ChangePage moves to page n, keeping the filters.
func (b *Browser) ChangePage(n int) (query.State, error) {
	next, err := query.WithPage(b.state, n)
	if err != nil {
		return b.state, err
	}
	b.commit(next)
	return next, nil
}

// ClearFilters drops every filter.
func (b *Browser) ClearFilters() query.State {
	b.commit(query.Clear(b.state))
	return b.state
}

func (b *Browser) commit(next query.State) {
	b.state = next
	if err := query.SavePage(b.storage, next.Page); err != nil {
		b.log.Debug().Err(err).Int("page", next.Page).Msg("persist page failed")
	}
}

// CanChangePage reports whether n is a page the user may move to now.
// Moving back is always allowed, so a restored page past the last one
// (the catalog shrank) can still be left.
func (b *Browser) CanChangePage(n int) bool {
	if !b.PaginationEnabled() || n < 1 || n == b.state.Page {
		return false
	}
	if n < b.state.Page {
		return true
	}
	if p, ok := b.catalog.Page(); ok && p.TotalPages > 0 && n > p.TotalPages {
		return false
	}
	return true
}

// PaginationEnabled is false while the catalog or a detail is loading.
func (b *Browser) PaginationEnabled() bool {
	return !b.catalog.Loading() && !b.detail.Loading()
}

// BeginCatalog issues a request for a settled state.
func (b *Browser) BeginCatalog(s query.State) Ticket {
	t := b.catalog.Begin(s)
	b.log.Debug().Uint64("seq", t.Seq).Int("page", s.Page).Msg("catalog request issued")
	return t
}

// ResolveCatalog applies a catalog result, dropping stale ones.
func (b *Browser) ResolveCatalog(r Result) bool {
	applied := b.catalog.Resolve(r)
	ev := b.log.Debug()
	if r.Err != nil {
		ev = b.log.Warn().Err(r.Err)
	}
	ev.Uint64("seq", r.Seq).Bool("applied", applied).Msg("catalog result")
	return applied
}

// BeginDetail issues a detail request for item id.
func (b *Browser) BeginDetail(id int) DetailTicket {
	t := b.detail.Begin(id)
	b.log.Debug().Uint64("seq", t.Seq).Int("item_id", id).Msg("detail request issued")
	return t
}

// ResolveDetail applies a detail result, dropping stale ones.
func (b *Browser) ResolveDetail(r DetailResult) bool {
	applied := b.detail.Resolve(r)
	ev := b.log.Debug()
	if r.Err != nil {
		ev = b.log.Warn().Err(r.Err)
	}
	ev.Uint64("seq", r.Seq).Int("item_id", r.ID).Bool("applied", applied).Msg("detail result")
	return applied
}

// Snapshot returns the view state. FilterActive is derived on every call.
func (b *Browser) Snapshot() Snapshot {
	page, hasPage := b.catalog.Page()
	detail, hasDetail := b.detail.Detail()
	return Snapshot{
		Query:          b.state,
		Page:           page,
		HasPage:        hasPage,
		Status:         b.catalog.Status(),
		LoadingCatalog: b.catalog.Loading(),
		LoadingDetail:  b.detail.Loading(),
		Detail:         detail,
		HasDetail:      hasDetail,
		FilterActive:   query.IsFilterActive(b.state),
		CatalogErr:     b.catalog.Err(),
		DetailErr:      b.detail.Err(),
	}
}
