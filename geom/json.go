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

package geom

import "encoding/json"

// jsonAxisScore is the wire shape of AxisScore: lowercase keys, reasons
// never null.
type jsonAxisScore struct {
	Score   float64  `json:"score"`
	Reasons []string `json:"reasons"`
}

// jsonConfidence is the wire shape of ConfidenceReport.
type jsonConfidence struct {
	Total    float64       `json:"total"`
	Gap      jsonAxisScore `json:"gap"`
	Barlines jsonAxisScore `json:"barlines"`
	Staves   jsonAxisScore `json:"staves"`
}

// jsonBarlineInfo is the wire shape of BarlineInfo: x and span are both
// null when no barline was confirmed.
type jsonBarlineInfo struct {
	X    *int    `json:"x"`
	Span *[2]int `json:"span"`
}

// jsonResult is the documented external wire shape of Result: systems
// as nested per-stave row arrays, a flattened top-level staves list
// ignoring system boundaries, and one barline_info entry per system.
type jsonResult struct {
	Systems     [][][5]int        `json:"systems"`
	Staves      [][5]int          `json:"staves"`
	Orphans     []int             `json:"orphans"`
	BarlineInfo []jsonBarlineInfo `json:"barline_info"`
	Confidence  jsonConfidence    `json:"confidence"`
}

// MarshalJSON renders Result as the wire record external collaborators
// (the partitioner, the session/HTTP layer) consume: lowercase keys,
// systems as nested row arrays rather than stave objects, and a
// flattened staves list alongside them.
func (r Result) MarshalJSON() ([]byte, error) {
	systems := make([][][5]int, len(r.Systems))
	for i, sy := range r.Systems {
		rows := make([][5]int, len(sy.Staves))
		for j, s := range sy.Staves {
			rows[j] = [5]int(s)
		}
		systems[i] = rows
	}

	flat := r.FlatStaves()
	staves := make([][5]int, len(flat))
	for i, s := range flat {
		staves[i] = [5]int(s)
	}

	barlineInfo := make([]jsonBarlineInfo, len(r.BarlineInfo))
	for i, b := range r.BarlineInfo {
		entry := jsonBarlineInfo{X: b.X}
		if b.Top != nil && b.Bot != nil {
			span := [2]int{*b.Top, *b.Bot}
			entry.Span = &span
		}
		barlineInfo[i] = entry
	}

	orphans := r.Orphans
	if orphans == nil {
		orphans = []int{}
	}

	return json.Marshal(jsonResult{
		Systems:     systems,
		Staves:      staves,
		Orphans:     orphans,
		BarlineInfo: barlineInfo,
		Confidence: jsonConfidence{
			Total:    r.Confidence.Total,
			Gap:      axisJSON(r.Confidence.Gap),
			Barlines: axisJSON(r.Confidence.Barlines),
			Staves:   axisJSON(r.Confidence.Staves),
		},
	})
}

func axisJSON(a AxisScore) jsonAxisScore {
	reasons := a.Reasons
	if reasons == nil {
		reasons = []string{}
	}
	return jsonAxisScore{Score: a.Score, Reasons: reasons}
}
