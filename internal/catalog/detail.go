package catalog

import (
	"context"

	"github.com/Makepad-fr/catalog/internal/model"
)

// DetailTicket is one issued detail request.
type DetailTicket struct {
	Seq uint64
	ID  int
}

// Run performs the fetch.
func (t DetailTicket) Run(ctx context.Context, f Fetcher) DetailResult {
	d, err := f.FetchDetail(ctx, t.ID)
	return DetailResult{Seq: t.Seq, ID: t.ID, Detail: d, Err: err}
}

// DetailResult is the outcome of a DetailTicket.
type DetailResult struct {
	Seq    uint64
	ID     int
	Detail model.ItemDetail
	Err    error
}

// DetailFetch tracks the detail panel: one busy flag, last issued wins.
type DetailFetch struct {
	seq       uint64
	loading   bool
	detail    model.ItemDetail
	hasDetail bool
	err       error
}

// Begin issues a request for item id.
func (d *DetailFetch) Begin(id int) DetailTicket {
	d.seq++
	d.loading = true
	return DetailTicket{Seq: d.seq, ID: id}
}

// Resolve applies r unless a newer request was issued since. A failure keeps
// the previously shown detail.
func (d *DetailFetch) Resolve(r DetailResult) bool {
	if r.Seq != d.seq {
		return false
	}
	d.loading = false
	if r.Err != nil {
		d.err = r.Err
		return true
	}
	d.detail = r.Detail
	d.hasDetail = true
	d.err = nil
	return true
}

func (d *DetailFetch) Loading() bool { return d.loading }
func (d *DetailFetch) Err() error    { return d.err }

// Detail returns the shown detail; ok is false until one has loaded.
func (d *DetailFetch) Detail() (model.ItemDetail, bool) { return d.detail, d.hasDetail }
