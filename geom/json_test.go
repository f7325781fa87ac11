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

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultMarshalJSONShape(t *testing.T) {
	x := 42
	top, bot := 10, 200
	r := Result{
		Systems: []System{
			{Staves: []Stave{{1, 2, 3, 4, 5}, {10, 11, 12, 13, 14}}},
			{Staves: []Stave{{20, 21, 22, 23, 24}}},
		},
		Orphans:     []int{99},
		BarlineInfo: []BarlineInfo{{X: &x, Top: &top, Bot: &bot}, {}},
		Confidence: ConfidenceReport{
			Total:    0.8,
			Gap:      AxisScore{Score: 1, Reasons: []string{"ok"}},
			Barlines: AxisScore{Score: 0.5, Reasons: []string{"1/2 systems confirmed"}},
			Staves:   AxisScore{Score: 1, Reasons: nil},
		},
	}

	data, err := json.Marshal(r)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	systems, ok := decoded["systems"].([]interface{})
	require.True(t, ok, "systems must be a JSON array")
	require.Len(t, systems, 2)
	firstSystem, ok := systems[0].([]interface{})
	require.True(t, ok, "a system must be a nested array of staves, not an object")
	require.Len(t, firstSystem, 2)
	firstStave, ok := firstSystem[0].([]interface{})
	require.True(t, ok, "a stave must be a flat array of 5 rows")
	require.Len(t, firstStave, 5)

	staves, ok := decoded["staves"].([]interface{})
	require.True(t, ok, "staves must be a flattened top-level array")
	assert.Len(t, staves, 3)

	orphans, ok := decoded["orphans"].([]interface{})
	require.True(t, ok)
	assert.Len(t, orphans, 1)

	barlineInfo, ok := decoded["barline_info"].([]interface{})
	require.True(t, ok)
	require.Len(t, barlineInfo, 2)
	confirmed := barlineInfo[0].(map[string]interface{})
	assert.EqualValues(t, 42, confirmed["x"])
	span, ok := confirmed["span"].([]interface{})
	require.True(t, ok)
	assert.EqualValues(t, []interface{}{float64(10), float64(200)}, span)
	unconfirmed := barlineInfo[1].(map[string]interface{})
	assert.Nil(t, unconfirmed["x"])
	assert.Nil(t, unconfirmed["span"])

	confidence, ok := decoded["confidence"].(map[string]interface{})
	require.True(t, ok)
	assert.InDelta(t, 0.8, confidence["total"], 1e-9)
	gap := confidence["gap"].(map[string]interface{})
	assert.Contains(t, gap, "score")
	assert.Contains(t, gap, "reasons")
	barlines := confidence["barlines"].(map[string]interface{})
	assert.Contains(t, barlines, "score")
	stavesAxis := confidence["staves"].(map[string]interface{})
	reasons, ok := stavesAxis["reasons"].([]interface{})
	require.True(t, ok, "nil reasons must encode as [], not null")
	assert.Empty(t, reasons)
}

func TestResultMarshalJSONEmpty(t *testing.T) {
	data, err := json.Marshal(Result{})
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	systems, ok := decoded["systems"].([]interface{})
	require.True(t, ok)
	assert.Empty(t, systems)
	staves, ok := decoded["staves"].([]interface{})
	require.True(t, ok)
	assert.Empty(t, staves)
	orphans, ok := decoded["orphans"].([]interface{})
	require.True(t, ok)
	assert.Empty(t, orphans)
	barlineInfo, ok := decoded["barline_info"].([]interface{})
	require.True(t, ok)
	assert.Empty(t, barlineInfo)
}
