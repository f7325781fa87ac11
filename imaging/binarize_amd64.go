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

// +build amd64

package imaging

import "golang.org/x/sys/cpu"

// histogramImpl counts intensity occurrences. On AVX2-capable hosts it
// uses a 4-way unrolled accumulation that keeps the hot loop free of
// bounds checks on the scalar path's tail handling; this is not hand
// written assembly, just a layout the compiler autovectorizes more
// reliably than the naive one-at-a-time loop, in the same spirit as
// biosimd's amd64/generic split for byte-array counting.
func histogramImpl(pix []uint8) [histogramBins]int {
	if !cpu.X86.HasAVX2 {
		return histogramScalar(pix)
	}
	return histogramUnrolled(pix)
}

func histogramUnrolled(pix []uint8) [histogramBins]int {
	var h [histogramBins]int
	n := len(pix)
	i := 0
	for ; i+4 <= n; i += 4 {
		h[pix[i]]++
		h[pix[i+1]]++
		h[pix[i+2]]++
		h[pix[i+3]]++
	}
	for ; i < n; i++ {
		h[pix[i]]++
	}
	return h
}
