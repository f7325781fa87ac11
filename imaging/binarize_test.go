package imaging

import (
	"testing"

	"github.com/scoresplit/staves/detecterr"
	"github.com/scoresplit/staves/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeStripedImage(h, w int) geom.PageImage {
	pix := make([]uint8, h*w)
	for y := 0; y < h; y++ {
		v := uint8(250)
		if y%20 < 2 {
			v = 20
		}
		for x := 0; x < w; x++ {
			pix[y*w+x] = v
		}
	}
	return geom.PageImage{H: h, W: w, Pix: pix}
}

func TestBinarizeStriped(t *testing.T) {
	img := makeStripedImage(100, 40)
	mask, err := Binarize(img)
	require.NoError(t, err)
	assert.Equal(t, 100, mask.H)
	assert.Equal(t, 40, mask.W)

	// Dark rows (y%20<2) should be ink; bright rows should not.
	assert.True(t, mask.Ink(0, 0))
	assert.True(t, mask.Ink(0, 1))
	assert.False(t, mask.Ink(0, 5))
}

func TestBinarizeDegenerateEmpty(t *testing.T) {
	_, err := Binarize(geom.PageImage{H: 0, W: 0})
	require.Error(t, err)
	assert.True(t, detecterr.IsDegenerateImage(err))
}

func TestBinarizeDegenerateUniform(t *testing.T) {
	pix := make([]uint8, 10*10)
	for i := range pix {
		pix[i] = 128
	}
	_, err := Binarize(geom.PageImage{H: 10, W: 10, Pix: pix})
	require.Error(t, err)
	assert.True(t, detecterr.IsDegenerateImage(err))
}
