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

package imaging

// histogramScalar is the portable, one-pixel-at-a-time histogram pass
// used on non-amd64 hosts and as the AVX2-absent fallback on amd64.
func histogramScalar(pix []uint8) [histogramBins]int {
	var h [histogramBins]int
	for _, v := range pix {
		h[v]++
	}
	return h
}
