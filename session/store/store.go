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

// Package store holds the durable, second-tier backing stores package
// session can checkpoint cached results to, plus the wire encoding
// those stores persist.
package store

import (
	"context"

	"github.com/scoresplit/staves/detect/detectpb"
	"github.com/scoresplit/staves/geom"
)

// Cache is a durable key-value store for encoded detection results. Get
// reports ok=false, err=nil for a clean miss.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Put(ctx context.Context, key string, data []byte) error
}

// EncodeResult serialises a Result for storage, using the same
// protobuf wire form cmd/stavedetect writes to disk.
func EncodeResult(r geom.Result) ([]byte, error) {
	return detectpb.Marshal(r)
}

// DecodeResult is the inverse of EncodeResult.
func DecodeResult(data []byte) (geom.Result, error) {
	return detectpb.Unmarshal(data)
}
