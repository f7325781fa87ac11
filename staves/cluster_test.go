package staves

import (
	"testing"

	"github.com/scoresplit/staves/config"
	"github.com/scoresplit/staves/detecterr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func regularStave(start, spacing int) []int {
	return []int{start, start + spacing, start + 2*spacing, start + 3*spacing, start + 4*spacing}
}

func TestClusterSingleStave(t *testing.T) {
	cfg := config.Default()
	peaks := regularStave(100, 10)
	sts, orphans, err := Cluster(peaks, cfg)
	require.NoError(t, err)
	require.Len(t, sts, 1)
	assert.Empty(t, orphans)
	assert.Equal(t, peaks[0], sts[0][0])
	assert.Equal(t, peaks[4], sts[0][4])
}

func TestClusterTwoStavesBigGap(t *testing.T) {
	cfg := config.Default()
	var peaks []int
	peaks = append(peaks, regularStave(100, 10)...)
	peaks = append(peaks, regularStave(300, 10)...) // gap of 16*typical between the staves
	sts, orphans, err := Cluster(peaks, cfg)
	require.NoError(t, err)
	require.Len(t, sts, 2)
	assert.Empty(t, orphans)
}

func TestClusterInsufficientPeaks(t *testing.T) {
	cfg := config.Default()
	sts, orphans, err := Cluster([]int{1, 2, 3}, cfg)
	require.Error(t, err)
	assert.True(t, detecterr.IsInsufficientPeaks(err))
	assert.Empty(t, sts)
	assert.Len(t, orphans, 3)
}

func TestClusterRepairsFourPeakGroup(t *testing.T) {
	cfg := config.Default()
	// One stave of 5 establishes typical spacing = 10, then a second
	// group missing its middle line (4 peaks spanning what should be
	// 4 gaps of 10).
	peaks := regularStave(100, 10)
	peaks = append(peaks, 300, 310, 330, 340)
	sts, orphans, err := Cluster(peaks, cfg)
	require.NoError(t, err)
	require.Len(t, sts, 2)
	assert.Empty(t, orphans)
	assert.True(t, sts[1].Valid())
}

func TestClusterTrimsSixPeakGroup(t *testing.T) {
	cfg := config.Default()
	peaks := []int{100, 110, 120, 121, 130, 140} // one near-duplicate line
	sts, _, err := Cluster(peaks, cfg)
	require.NoError(t, err)
	require.Len(t, sts, 1)
	assert.True(t, sts[0].Valid())
}
