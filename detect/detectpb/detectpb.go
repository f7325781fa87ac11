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

// Package detectpb is the protobuf wire form of a geom.Result, for
// callers that want a typed binary encoding instead of JSON.
// The message types below are plain Go structs with protobuf struct
// tags; they satisfy proto.Message directly (Reset/String/ProtoMessage)
// so github.com/gogo/protobuf/proto can marshal and unmarshal them by
// reflection without a generated .pb.go file.
package detectpb

import (
	"fmt"

	"github.com/gogo/protobuf/proto"
	"github.com/scoresplit/staves/geom"
)

// Stave mirrors geom.Stave as five explicit fields so it encodes as a
// fixed-size protobuf message rather than a repeated field, since the
// count is always exactly 5.
type Stave struct {
	Y0 int32 `protobuf:"varint,1,opt,name=y0"`
	Y1 int32 `protobuf:"varint,2,opt,name=y1"`
	Y2 int32 `protobuf:"varint,3,opt,name=y2"`
	Y3 int32 `protobuf:"varint,4,opt,name=y3"`
	Y4 int32 `protobuf:"varint,5,opt,name=y4"`
}

func (*Stave) Reset()         {}
func (*Stave) ProtoMessage()  {}
func (m *Stave) String() string { return fmt.Sprintf("%+v", *m) }

// System is an ordered list of Stave messages.
type System struct {
	Staves []*Stave `protobuf:"bytes,1,rep,name=staves"`
}

func (*System) Reset()         {}
func (*System) ProtoMessage()  {}
func (m *System) String() string { return fmt.Sprintf("%+v", *m) }

// BarlineInfo mirrors geom.BarlineInfo. HasSpan distinguishes an absent
// span from a span at row 0, since protobuf's zero value cannot.
type BarlineInfo struct {
	X       int32 `protobuf:"varint,1,opt,name=x"`
	HasX    bool  `protobuf:"varint,2,opt,name=has_x,json=hasX"`
	Top     int32 `protobuf:"varint,3,opt,name=top"`
	Bot     int32 `protobuf:"varint,4,opt,name=bot"`
	HasSpan bool  `protobuf:"varint,5,opt,name=has_span,json=hasSpan"`
}

func (*BarlineInfo) Reset()         {}
func (*BarlineInfo) ProtoMessage()  {}
func (m *BarlineInfo) String() string { return fmt.Sprintf("%+v", *m) }

// AxisScore mirrors geom.AxisScore.
type AxisScore struct {
	Score   float64  `protobuf:"fixed64,1,opt,name=score"`
	Reasons []string `protobuf:"bytes,2,rep,name=reasons"`
}

func (*AxisScore) Reset()         {}
func (*AxisScore) ProtoMessage()  {}
func (m *AxisScore) String() string { return fmt.Sprintf("%+v", *m) }

// ConfidenceReport mirrors geom.ConfidenceReport.
type ConfidenceReport struct {
	Total    float64    `protobuf:"fixed64,1,opt,name=total"`
	Gap      *AxisScore `protobuf:"bytes,2,opt,name=gap"`
	Barlines *AxisScore `protobuf:"bytes,3,opt,name=barlines"`
	Staves   *AxisScore `protobuf:"bytes,4,opt,name=staves"`
}

func (*ConfidenceReport) Reset()         {}
func (*ConfidenceReport) ProtoMessage()  {}
func (m *ConfidenceReport) String() string { return fmt.Sprintf("%+v", *m) }

// Result mirrors geom.Result.
type Result struct {
	Systems     []*System      `protobuf:"bytes,1,rep,name=systems"`
	Orphans     []int32        `protobuf:"varint,2,rep,name=orphans"`
	BarlineInfo []*BarlineInfo `protobuf:"bytes,3,rep,name=barline_info,json=barlineInfo"`
	Confidence  *ConfidenceReport `protobuf:"bytes,4,opt,name=confidence"`
}

func (*Result) Reset()         {}
func (*Result) ProtoMessage()  {}
func (m *Result) String() string { return fmt.Sprintf("%+v", *m) }

// FromResult converts a geom.Result into its wire form.
func FromResult(r geom.Result) *Result {
	out := &Result{Orphans: make([]int32, len(r.Orphans))}
	for i, o := range r.Orphans {
		out.Orphans[i] = int32(o)
	}
	for _, sy := range r.Systems {
		sys := &System{}
		for _, s := range sy.Staves {
			sys.Staves = append(sys.Staves, &Stave{
				Y0: int32(s[0]), Y1: int32(s[1]), Y2: int32(s[2]), Y3: int32(s[3]), Y4: int32(s[4]),
			})
		}
		out.Systems = append(out.Systems, sys)
	}
	for _, bi := range r.BarlineInfo {
		pb := &BarlineInfo{}
		if bi.Confirmed() {
			pb.HasX, pb.X = true, int32(*bi.X)
			pb.HasSpan, pb.Top, pb.Bot = true, int32(*bi.Top), int32(*bi.Bot)
		}
		out.BarlineInfo = append(out.BarlineInfo, pb)
	}
	out.Confidence = &ConfidenceReport{
		Total:    r.Confidence.Total,
		Gap:      fromAxis(r.Confidence.Gap),
		Barlines: fromAxis(r.Confidence.Barlines),
		Staves:   fromAxis(r.Confidence.Staves),
	}
	return out
}

func fromAxis(a geom.AxisScore) *AxisScore {
	return &AxisScore{Score: a.Score, Reasons: append([]string(nil), a.Reasons...)}
}

// ToResult converts a wire Result back into geom.Result.
func ToResult(pb *Result) geom.Result {
	var r geom.Result
	for _, o := range pb.Orphans {
		r.Orphans = append(r.Orphans, int(o))
	}
	for _, sys := range pb.Systems {
		var sy geom.System
		for _, s := range sys.Staves {
			sy.Staves = append(sy.Staves, geom.Stave{int(s.Y0), int(s.Y1), int(s.Y2), int(s.Y3), int(s.Y4)})
		}
		r.Systems = append(r.Systems, sy)
	}
	for _, bi := range pb.BarlineInfo {
		info := geom.BarlineInfo{}
		if bi.HasX {
			x := int(bi.X)
			info.X = &x
		}
		if bi.HasSpan {
			top, bot := int(bi.Top), int(bi.Bot)
			info.Top, info.Bot = &top, &bot
		}
		r.BarlineInfo = append(r.BarlineInfo, info)
	}
	if pb.Confidence != nil {
		r.Confidence = geom.ConfidenceReport{
			Total:    pb.Confidence.Total,
			Gap:      toAxis(pb.Confidence.Gap),
			Barlines: toAxis(pb.Confidence.Barlines),
			Staves:   toAxis(pb.Confidence.Staves),
		}
	}
	return r
}

func toAxis(a *AxisScore) geom.AxisScore {
	if a == nil {
		return geom.AxisScore{}
	}
	return geom.AxisScore{Score: a.Score, Reasons: append([]string(nil), a.Reasons...)}
}

// Marshal encodes a geom.Result as a protobuf message.
func Marshal(r geom.Result) ([]byte, error) {
	return proto.Marshal(FromResult(r))
}

// Unmarshal decodes a protobuf message produced by Marshal.
func Unmarshal(data []byte) (geom.Result, error) {
	pb := &Result{}
	if err := proto.Unmarshal(data, pb); err != nil {
		return geom.Result{}, err
	}
	return ToResult(pb), nil
}
