package detect

import (
	"context"
	"testing"

	"github.com/scoresplit/staves/config"
	"github.com/scoresplit/staves/detecterr"
	"github.com/scoresplit/staves/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildPage draws staveCount*5 horizontal lines, grouped into systems
// per systemSizes, with a continuous vertical barline through every
// system, onto a bright page of the given height and width.
func buildPage(h, w int, systemSizes []int, lineSpacing, systemGap int) geom.PageImage {
	pix := make([]uint8, h*w)
	for i := range pix {
		pix[i] = 250
	}
	draw := func(y int) {
		for x := 0; x < w; x++ {
			pix[y*w+x] = 10
		}
	}
	barlineX := w / 4

	y := 40
	for _, n := range systemSizes {
		sysTop := y
		for s := 0; s < n; s++ {
			for l := 0; l < 5; l++ {
				draw(y)
				y++
				if l != 4 {
					y += lineSpacing - 1
				}
			}
			if s != n-1 {
				y += lineSpacing*3 + 4
			}
		}
		sysBot := y
		for yy := sysTop; yy < sysBot; yy++ {
			pix[yy*w+barlineX] = 10
		}
		y += systemGap
	}
	return geom.PageImage{H: h, W: w, Pix: pix}
}

func TestDetectSingleSystem(t *testing.T) {
	img := buildPage(400, 200, []int{5}, 10, 100)
	res, err := Detect(img, nil, config.Default())
	require.NoError(t, err)
	require.Len(t, res.Systems, 1)
	assert.Len(t, res.Systems[0].Staves, 5)
	assert.Empty(t, res.Orphans)
	assert.GreaterOrEqual(t, res.Confidence.Total, 0.3)
}

func TestDetectFourSystemsFourStaves(t *testing.T) {
	img := buildPage(2600, 300, []int{4, 4, 4, 4}, 10, 120)
	res, err := Detect(img, nil, config.Default())
	require.NoError(t, err)
	require.Len(t, res.Systems, 4)
	for _, sy := range res.Systems {
		assert.Len(t, sy.Staves, 4)
	}
}

func TestDetectEmptyPageIsInsufficientPeaks(t *testing.T) {
	pix := make([]uint8, 100*100)
	for i := range pix {
		pix[i] = 250
	}
	// A single speck of ink: not a uniform (degenerate) image, but far
	// too little to form a stave.
	pix[50*100+50] = 10
	img := geom.PageImage{H: 100, W: 100, Pix: pix}
	res, err := Detect(img, nil, config.Default())
	require.Error(t, err)
	assert.True(t, detecterr.IsInsufficientPeaks(err))
	assert.Empty(t, res.Systems)
	assert.Equal(t, 0.0, res.Confidence.Total)
}

func TestDetectDegenerateImage(t *testing.T) {
	_, err := Detect(geom.PageImage{}, nil, config.Default())
	require.Error(t, err)
	assert.True(t, detecterr.IsDegenerateImage(err))
}

func TestDetectAllIsIndependentPerPage(t *testing.T) {
	good := buildPage(400, 200, []int{5}, 10, 100)
	pix := make([]uint8, 100*100)
	for i := range pix {
		pix[i] = 250
	}
	pix[50*100+50] = 10 // one speck of ink, so the page is not uniform
	blank := geom.PageImage{H: 100, W: 100, Pix: pix}

	results, errs := DetectAll(context.Background(), []geom.PageImage{good, blank}, config.Default())
	require.Len(t, results, 2)
	require.Len(t, errs, 2)
	assert.NoError(t, errs[0])
	assert.Len(t, results[0].Systems, 1)
	assert.True(t, detecterr.IsInsufficientPeaks(errs[1]))
}
