// Package catalog sequences catalog and detail fetches for the browser view.
//
// Nothing here blocks or spawns goroutines: Begin/Resolve mutate state and are
// meant to be called from a single event loop; the I/O happens in Ticket.Run,
// which the caller runs wherever it likes and feeds back through Resolve.
package catalog

import (
	"context"

	"github.com/Makepad-fr/catalog/internal/api"
	"github.com/Makepad-fr/catalog/internal/model"
	"github.com/Makepad-fr/catalog/internal/query"
)

// PageSize is sent as max_result on every catalog request, whatever the
// caller configured.
const PageSize = 25

// kindSearch is the API's default search mode.
const kindSearch = 1

// Fetcher is the remote API as the orchestrators see it.
type Fetcher interface {
	FetchCatalog(ctx context.Context, q api.CatalogQuery) (model.Page, error)
	FetchDetail(ctx context.Context, id int) (model.ItemDetail, error)
}

// Status is the orchestrator state for the latest issued request.
type Status int

const (
	Idle Status = iota
	Loading
	Settled
	Error
)

func (s Status) String() string {
	switch s {
	case Loading:
		return "loading"
	case Settled:
		return "settled"
	case Error:
		return "error"
	default:
		return "idle"
	}
}

// Ticket is one issued catalog request.
type Ticket struct {
	Seq   uint64
	State query.State
	Query api.CatalogQuery
}

// Run performs the fetch. It does not touch orchestrator state.
func (t Ticket) Run(ctx context.Context, f Fetcher) Result {
	page, err := f.FetchCatalog(ctx, t.Query)
	return Result{Seq: t.Seq, Page: page, Err: err}
}

// Result is the outcome of a Ticket.
type Result struct {
	Seq  uint64
	Page model.Page
	Err  error
}

// Orchestrator turns settled query states into catalog requests and keeps
// only the outcome of the most recently issued one.
type Orchestrator struct {
	seq     uint64
	status  Status
	page    model.Page
	hasPage bool
	err     error
}

// Begin issues a request for s and enters Loading.
func (o *Orchestrator) Begin(s query.State) Ticket {
	o.seq++
	o.status = Loading
	return Ticket{Seq: o.seq, State: s, Query: RequestFor(s)}
}

// Resolve applies r if it belongs to the latest issued request and reports
// whether it did. On failure the previous page stays displayed.
func (o *Orchestrator) Resolve(r Result) bool {
	if r.Seq != o.seq {
		return false
	}
	if r.Err != nil {
		o.status = Error
		o.err = r.Err
		return true
	}
	o.status = Settled
	o.page = r.Page
	o.hasPage = true
	o.err = nil
	return true
}

func (o *Orchestrator) Status() Status { return o.status }
func (o *Orchestrator) Loading() bool  { return o.status == Loading }
func (o *Orchestrator) Err() error     { return o.err }

// Page returns the displayed page; ok is false before the first success.
func (o *Orchestrator) Page() (model.Page, bool) { return o.page, o.hasPage }

// RequestFor builds the outgoing request. Empty filters are omitted rather
// than sent as "", and MaxResult is always PageSize.
func RequestFor(s query.State) api.CatalogQuery {
	return api.CatalogQuery{
		StartsWith: nonEmpty(s.StartsWith),
		EndsWith:   nonEmpty(s.EndsWith),
		Contains:   nonEmpty(s.Contains),
		Article:    nonEmpty(s.Article),
		MaxResult:  PageSize,
		Page:       s.Page,
		KindSearch: kindSearch,
	}
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
