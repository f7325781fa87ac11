package raster

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildSyntheticPDF assembles a minimal, not-fully-valid-but-parseable
// PDF body containing a single FlateDecode DeviceGray image XObject, in
// just enough shape for findImageXObjects/decodePixels to recognise.
func buildSyntheticPDF(t *testing.T, w, h int, pix []byte) []byte {
	t.Helper()
	var deflated bytes.Buffer
	zw := zlib.NewWriter(&deflated)
	_, err := zw.Write(pix)
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	fmt.Fprintf(&buf, "1 0 obj\n<< /Type /XObject /Subtype /Image /Width %d /Height %d "+
		"/BitsPerComponent 8 /ColorSpace /DeviceGray /Filter /FlateDecode /Length %d >>\n",
		w, h, deflated.Len())
	buf.WriteString("stream\n")
	buf.Write(deflated.Bytes())
	buf.WriteString("\nendstream\nendobj\n")
	return buf.Bytes()
}

func TestPageDecodesFlateGrayImage(t *testing.T) {
	w, h := 4, 3
	pix := make([]byte, w*h)
	for i := range pix {
		pix[i] = byte(i * 10)
	}
	pdf := buildSyntheticPDF(t, w, h, pix)

	img, err := Page(pdf, 0, 300)
	require.NoError(t, err)
	assert.Equal(t, w, img.W)
	assert.Equal(t, h, img.H)
	assert.Equal(t, pix, []byte(img.Pix))
}

func TestCountFindsEmbeddedImages(t *testing.T) {
	pdf := buildSyntheticPDF(t, 2, 2, []byte{1, 2, 3, 4})
	assert.Equal(t, 1, Count(pdf))
}

func TestPageOutOfRangeIsError(t *testing.T) {
	pdf := buildSyntheticPDF(t, 2, 2, []byte{1, 2, 3, 4})
	_, err := Page(pdf, 1, 300)
	assert.Error(t, err)
}

func TestPageRejectsTruncatedStream(t *testing.T) {
	pdf := buildSyntheticPDF(t, 10, 10, make([]byte, 100))
	// Corrupt the declared dimensions so the decoded stream looks too
	// short for the claimed size.
	corrupted := bytes.Replace(pdf, []byte("/Width 10"), []byte("/Width 10000"), 1)
	_, err := Page(corrupted, 0, 300)
	assert.Error(t, err)
}
