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
package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/scoresplit/staves/geom"
)

// writePGM writes img as a binary (P5) PGM file, the simplest format
// that round-trips an 8-bit grayscale page without a third-party image
// codec: -debug-image output is for a human to open in any image
// viewer, not for feeding back into the pipeline.
func writePGM(path string, img geom.PageImage) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if _, err := fmt.Fprintf(w, "P5\n%d %d\n255\n", img.W, img.H); err != nil {
		return err
	}
	if _, err := w.Write(img.Pix); err != nil {
		return err
	}
	return w.Flush()
}
