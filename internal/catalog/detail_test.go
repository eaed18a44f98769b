package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/Makepad-fr/catalog/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetailFetch_Resolve(t *testing.T) {
	t.Parallel()

	var d DetailFetch
	ticket := d.Begin(7)
	assert.True(t, d.Loading())

	f := &mockFetcher{FetchDetailFunc: func(_ context.Context, id int) (model.ItemDetail, error) {
		return model.ItemDetail{ID: id, Name: "Bolt"}, nil
	}}
	r := ticket.Run(context.Background(), f)
	require.True(t, d.Resolve(r))

	assert.False(t, d.Loading())
	got, ok := d.Detail()
	require.True(t, ok)
	assert.Equal(t, 7, got.ID)
}

func TestDetailFetch_ErrorKeepsPriorDetail(t *testing.T) {
	t.Parallel()

	var d DetailFetch
	first := d.Begin(1)
	require.True(t, d.Resolve(DetailResult{Seq: first.Seq, ID: 1, Detail: model.ItemDetail{ID: 1, Name: "Bolt"}}))

	second := d.Begin(2)
	require.True(t, d.Resolve(DetailResult{Seq: second.Seq, ID: 2, Err: errors.New("gone")}))

	assert.False(t, d.Loading())
	assert.Error(t, d.Err())
	got, ok := d.Detail()
	require.True(t, ok)
	assert.Equal(t, "Bolt", got.Name)
}

func TestDetailFetch_LastClickWins(t *testing.T) {
	t.Parallel()

	var d DetailFetch
	a := d.Begin(1)
	b := d.Begin(2)

	require.True(t, d.Resolve(DetailResult{Seq: b.Seq, ID: 2, Detail: model.ItemDetail{ID: 2}}))
	assert.False(t, d.Resolve(DetailResult{Seq: a.Seq, ID: 1, Detail: model.ItemDetail{ID: 1}}))

	got, _ := d.Detail()
	assert.Equal(t, 2, got.ID)
}
