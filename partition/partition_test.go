package partition

import (
	"testing"

	"github.com/scoresplit/staves/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stave(top int) geom.Stave {
	return geom.Stave{top, top + 10, top + 20, top + 30, top + 40}
}

func TestStripsNoOverlapAndCoversGaps(t *testing.T) {
	r := geom.Result{
		Systems: []geom.System{
			{Staves: []geom.Stave{stave(100), stave(200)}},
			{Staves: []geom.Stave{stave(400)}},
		},
	}
	strips := Strips(r, 600)
	require.Len(t, strips, 3)

	for i := 0; i < len(strips)-1; i++ {
		assert.Equal(t, strips[i].Bottom+1, strips[i+1].Top, "strip %d should be adjacent to strip %d", i, i+1)
	}
	assert.Equal(t, 0, strips[0].Top)
	assert.Equal(t, 599, strips[len(strips)-1].Bottom)
	assert.Equal(t, 0, strips[0].System)
	assert.Equal(t, 1, strips[2].System)
}

func TestStripHeightAndMargin(t *testing.T) {
	s := Strip{Top: 10, Bottom: 20}
	assert.Equal(t, 11, s.Height())

	grown := s.Margin(5, 100)
	assert.Equal(t, 5, grown.Top)
	assert.Equal(t, 25, grown.Bottom)

	clamped := Strip{Top: 2, Bottom: 98}.Margin(5, 100)
	assert.Equal(t, 0, clamped.Top)
	assert.Equal(t, 99, clamped.Bottom)
}

func TestSystemSpansCollapsesPerSystem(t *testing.T) {
	r := geom.Result{
		Systems: []geom.System{
			{Staves: []geom.Stave{stave(100), stave(200)}},
			{Staves: []geom.Stave{stave(400)}},
		},
	}
	strips := Strips(r, 600)
	spans := SystemSpans(strips)
	require.Len(t, spans, 2)
	assert.Equal(t, strips[0].Top, spans[0].Top)
	assert.Equal(t, strips[1].Bottom, spans[0].Bottom)
	assert.Equal(t, strips[2].Top, spans[1].Top)
	assert.Equal(t, strips[2].Bottom, spans[1].Bottom)
}

func TestStripsEmptyResult(t *testing.T) {
	assert.Nil(t, Strips(geom.Result{}, 100))
}

func TestMarginUnionMergesOverlappingGrowth(t *testing.T) {
	strips := []Strip{
		{Top: 10, Bottom: 20},
		{Top: 25, Bottom: 40},
		{Top: 100, Bottom: 110},
	}
	// A margin of 5 grows the first two strips into [5,25] and [20,45],
	// which overlap and must fuse into one region; the third strip
	// stays isolated.
	merged := MarginUnion(strips, 5, 200)
	require.Len(t, merged, 2)
	assert.Equal(t, 5, merged[0].Top)
	assert.Equal(t, 45, merged[0].Bottom)
	assert.Equal(t, 95, merged[1].Top)
	assert.Equal(t, 115, merged[1].Bottom)
}

func TestMarginUnionEmpty(t *testing.T) {
	assert.Nil(t, MarginUnion(nil, 5, 100))
}
