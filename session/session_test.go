package session

import (
	"context"
	"testing"

	"github.com/scoresplit/staves/config"
	"github.com/scoresplit/staves/geom"
	"github.com/scoresplit/staves/session/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stripedPage(h, w int) geom.PageImage {
	pix := make([]uint8, h*w)
	for y := 0; y < h; y++ {
		v := uint8(250)
		if y%10 < 2 {
			v = 10
		}
		for x := 0; x < w; x++ {
			pix[y*w+x] = v
		}
	}
	return geom.PageImage{H: h, W: w, Pix: pix}
}

func TestSessionDetectCachesInMemory(t *testing.T) {
	s := New(config.Default(), nil)
	img := stripedPage(400, 200)

	r1, err := s.Detect(context.Background(), img)
	require.NoError(t, err)

	r2, err := s.Detect(context.Background(), img)
	require.NoError(t, err)
	assert.Equal(t, r1.Summary(), r2.Summary())

	s.mu.Lock()
	n := len(s.inMem)
	s.mu.Unlock()
	assert.Equal(t, 1, n)
}

func TestSessionDetectUsesBackingStoreOnMiss(t *testing.T) {
	mem := store.NewMemory()
	s := New(config.Default(), mem)
	img := stripedPage(400, 200)

	_, err := s.Detect(context.Background(), img)
	require.NoError(t, err)

	// A fresh Session with an empty in-process cache but the same
	// backing store should hit the durable tier instead of recomputing.
	s2 := New(config.Default(), mem)
	fp := fingerprint(img)
	data, ok, err := mem.Get(context.Background(), cacheKey(fp))
	require.NoError(t, err)
	require.True(t, ok)
	require.NotEmpty(t, data)

	r2, err := s2.Detect(context.Background(), img)
	require.NoError(t, err)
	assert.NotEmpty(t, r2.Systems)
}

func TestFingerprintDiffersOnPixelChange(t *testing.T) {
	a := stripedPage(100, 100)
	b := stripedPage(100, 100)
	b.Pix[0] = 255 - b.Pix[0]
	assert.NotEqual(t, fingerprint(a), fingerprint(b))
}
