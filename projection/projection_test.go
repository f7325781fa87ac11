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

package projection

import (
	"testing"

	"github.com/scoresplit/staves/geom"
	"github.com/stretchr/testify/assert"
)

func maskFromRows(rows []string) *geom.BinaryMask {
	h := len(rows)
	w := len(rows[0])
	m := &geom.BinaryMask{H: h, W: w, Pix: make([]uint8, h*w)}
	for y, row := range rows {
		for x, c := range row {
			if c == '#' {
				m.Pix[y*w+x] = 255
			}
		}
	}
	return m
}

func TestHorizontal(t *testing.T) {
	mask := maskFromRows([]string{
		"#.#",
		"...",
		"###",
	})
	assert.Equal(t, []float64{2, 0, 3}, Horizontal(mask))
}

func TestVerticalFullBand(t *testing.T) {
	mask := maskFromRows([]string{
		"#.#",
		"#..",
		"#.#",
	})
	assert.Equal(t, []float64{3, 0, 2}, Vertical(mask, 0, 3, 0, 3))
}

func TestVerticalSubBandRestrictsRowsAndColumns(t *testing.T) {
	mask := maskFromRows([]string{
		"###",
		"...",
		"###",
		"###",
	})
	// Restrict to columns [1,3) and rows [2,4): only the bottom two rows
	// of the last two columns should count.
	assert.Equal(t, []float64{2, 2}, Vertical(mask, 1, 3, 2, 4))
}

func TestVerticalSingleColumn(t *testing.T) {
	mask := maskFromRows([]string{
		"#",
		"#",
		".",
	})
	assert.Equal(t, []float64{2}, Vertical(mask, 0, 1, 0, 3))
}

func TestMax(t *testing.T) {
	assert.Equal(t, 0.0, Max(nil))
	assert.Equal(t, 5.0, Max([]float64{1, 5, 3}))
}
