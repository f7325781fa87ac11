package systems

import (
	"testing"

	"github.com/scoresplit/staves/config"
	"github.com/scoresplit/staves/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staveAt(top int) geom.Stave {
	return geom.Stave{top, top + 10, top + 20, top + 30, top + 40}
}

func TestGapFallbackSplitsOnLargeGap(t *testing.T) {
	staveList := []geom.Stave{staveAt(100), staveAt(160), staveAt(500), staveAt(560)}
	sys := gapFallback(staveList)
	require.Len(t, sys, 2)
	assert.Len(t, sys[0].Staves, 2)
	assert.Len(t, sys[1].Staves, 2)
}

func TestClusterNoStavesReturnsEmpty(t *testing.T) {
	mask := &geom.BinaryMask{H: 10, W: 10, Pix: make([]uint8, 100)}
	res := Cluster(mask, nil, config.Default())
	assert.Empty(t, res.Systems)
	assert.Empty(t, res.BarlineInfo)
}

func TestClusterFallsBackWithoutBarlineInk(t *testing.T) {
	mask := &geom.BinaryMask{H: 700, W: 50, Pix: make([]uint8, 700*50)}
	staveList := []geom.Stave{staveAt(100), staveAt(160), staveAt(500), staveAt(560)}
	res := Cluster(mask, staveList, config.Default())
	assert.False(t, res.UsedBarline)
	require.Len(t, res.Systems, 2)
	assert.Len(t, res.BarlineInfo, 2)
	for _, bi := range res.BarlineInfo {
		assert.False(t, bi.Confirmed())
	}
}
