// Copyright 2020 Staves Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package raster is the rasterisation collaborator that turns one page
// of a scanned-score PDF into a geom.PageImage the
// detection pipeline can consume. It is deliberately narrow, not a
// general PDF renderer: scanned orchestral scores are, almost without
// exception, one embedded raster image per page, so this package finds
// and decodes that embedded image rather than interpreting PDF content
// streams, fonts, or vector graphics. A page built from vector-drawn
// staff lines (rare in practice, and explicitly out of scope here)
// will not be recognised.
package raster

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"

	"github.com/klauspost/compress/zlib"
	"github.com/pkg/errors"

	"github.com/scoresplit/staves/geom"
)

// imageXObject is the subset of a PDF image dictionary this package
// understands.
type imageXObject struct {
	width, height, bitsPerComponent int
	colorSpace                      string
	flateEncoded                    bool
	stream                          []byte
}

var (
	objRE = regexp.MustCompile(`(?s)\d+\s+\d+\s+obj(.*?)endobj`)
	// streamRE captures the dictionary preceding "stream" and the raw
	// bytes up to "endstream"; PDF allows either CRLF or LF right
	// after the "stream" keyword, both handled by trimming below.
	streamRE = regexp.MustCompile(`(?s)(<<.*?>>)\s*stream\r?\n(.*?)endstream`)
	intRE    = func(key string) *regexp.Regexp {
		return regexp.MustCompile(`/` + key + `\s+(\d+)`)
	}
	widthRE  = intRE("Width")
	heightRE = intRE("Height")
	bpcRE    = intRE("BitsPerComponent")
)

// Page extracts the pageIndex'th (0-based, in document order) embedded
// raster image from pdf and returns it as a grayscale PageImage. dpi is
// accepted for interface symmetry with a full rasteriser but unused: a
// pre-scanned embedded image has a fixed pixel grid regardless of the
// caller's desired DPI, so no resampling is performed here.
func Page(pdf []byte, pageIndex int, dpi int) (geom.PageImage, error) {
	images := findImageXObjects(pdf)
	if pageIndex < 0 || pageIndex >= len(images) {
		return geom.PageImage{}, errors.Errorf("raster: page %d out of range (found %d embedded images)", pageIndex, len(images))
	}
	img := images[pageIndex]

	pix, err := decodePixels(img)
	if err != nil {
		return geom.PageImage{}, errors.Wrapf(err, "raster: decoding page %d", pageIndex)
	}
	return geom.PageImage{H: img.height, W: img.width, Pix: pix}, nil
}

// Count returns how many embedded raster images raster.Page can find in
// pdf, i.e. the number of pages this package can rasterise.
func Count(pdf []byte) int {
	return len(findImageXObjects(pdf))
}

func findImageXObjects(pdf []byte) []imageXObject {
	var out []imageXObject
	for _, obj := range objRE.FindAll(pdf, -1) {
		m := streamRE.FindSubmatch(obj)
		if m == nil {
			continue
		}
		dict, body := m[1], m[2]
		if !bytes.Contains(dict, []byte("/Subtype")) || !bytes.Contains(dict, []byte("/Image")) {
			continue
		}
		w, ok1 := firstInt(widthRE, dict)
		h, ok2 := firstInt(heightRE, dict)
		if !ok1 || !ok2 || w <= 0 || h <= 0 {
			continue
		}
		bpc, _ := firstInt(bpcRE, dict)
		if bpc == 0 {
			bpc = 8
		}
		cs := "DeviceGray"
		switch {
		case bytes.Contains(dict, []byte("/DeviceRGB")):
			cs = "DeviceRGB"
		case bytes.Contains(dict, []byte("/Indexed")):
			cs = "Indexed"
		}
		out = append(out, imageXObject{
			width:            w,
			height:           h,
			bitsPerComponent: bpc,
			colorSpace:       cs,
			flateEncoded:     bytes.Contains(dict, []byte("/FlateDecode")),
			stream:           bytes.TrimRight(body, "\r\n"),
		})
	}
	return out
}

func firstInt(re *regexp.Regexp, b []byte) (int, bool) {
	m := re.FindSubmatch(b)
	if m == nil {
		return 0, false
	}
	v, err := strconv.Atoi(string(m[1]))
	if err != nil {
		return 0, false
	}
	return v, true
}

// decodePixels inflates (if needed) and converts the raw sample data of
// an image XObject into single-channel 8-bit intensity, row-major.
func decodePixels(img imageXObject) ([]uint8, error) {
	raw := img.stream
	if img.flateEncoded {
		zr, err := zlib.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, errors.Wrap(err, "opening FlateDecode stream")
		}
		defer zr.Close()
		var buf bytes.Buffer
		if _, err := buf.ReadFrom(zr); err != nil {
			return nil, errors.Wrap(err, "inflating image stream")
		}
		raw = buf.Bytes()
	}
	if img.bitsPerComponent != 8 {
		return nil, fmt.Errorf("raster: unsupported BitsPerComponent %d (only 8 is handled)", img.bitsPerComponent)
	}

	n := img.width * img.height
	switch img.colorSpace {
	case "DeviceGray", "Indexed":
		if len(raw) < n {
			return nil, fmt.Errorf("raster: image stream too short: have %d bytes, need %d", len(raw), n)
		}
		return raw[:n], nil
	case "DeviceRGB":
		if len(raw) < n*3 {
			return nil, fmt.Errorf("raster: RGB image stream too short: have %d bytes, need %d", len(raw), n*3)
		}
		pix := make([]uint8, n)
		for i := 0; i < n; i++ {
			r, g, b := raw[i*3], raw[i*3+1], raw[i*3+2]
			pix[i] = luminance(r, g, b)
		}
		return pix, nil
	default:
		return nil, fmt.Errorf("raster: unsupported color space %q", img.colorSpace)
	}
}

// luminance is the standard Rec. 601 grayscale weighting.
func luminance(r, g, b uint8) uint8 {
	return uint8((299*int(r) + 587*int(g) + 114*int(b)) / 1000)
}
