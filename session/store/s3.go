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

package store

import (
	"context"
	"io/ioutil"
	"path"
	"sync"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/file/s3file"
	"github.com/pkg/errors"
)

// registerS3Once makes sure the "s3" scheme is only wired into
// grailbio/base/file's registry a single time, the way
// bamprovider_test.TestMain does it for its own process.
var registerS3Once sync.Once

func registerS3() {
	registerS3Once.Do(func() {
		file.RegisterImplementation("s3", func() file.Implementation {
			return s3file.NewImplementation(s3file.NewDefaultProvider(session.Options{}), s3file.Options{})
		})
	})
}

// S3 is a Cache backed by an S3 bucket/prefix, through
// github.com/grailbio/base/file's generic path-based I/O (itself
// backed by github.com/aws/aws-sdk-go). Keys are stored as individual
// objects named <prefix>/<key>.
type S3 struct {
	prefix string // e.g. "s3://my-bucket/stave-cache"
}

// NewS3 returns a Cache that stores entries under prefix.
func NewS3(prefix string) *S3 {
	registerS3()
	return &S3{prefix: prefix}
}

// Get implements Cache. Any failure to open the object, including the
// object simply not existing, is reported as a clean cache miss rather
// than an error: session.Session falls back to running the pipeline
// either way, so distinguishing "missing" from "transient S3 error"
// buys nothing here.
func (s *S3) Get(ctx context.Context, key string) ([]byte, bool, error) {
	f, err := file.Open(ctx, path.Join(s.prefix, key))
	if err != nil {
		return nil, false, nil
	}
	defer func() { _ = f.Close(ctx) }()

	data, err := ioutil.ReadAll(f.Reader(ctx))
	if err != nil {
		return nil, false, errors.Wrap(err, "session/store: reading s3 cache entry")
	}
	return data, true, nil
}

// Put implements Cache.
func (s *S3) Put(ctx context.Context, key string, data []byte) error {
	f, err := file.Create(ctx, path.Join(s.prefix, key))
	if err != nil {
		return errors.Wrap(err, "session/store: creating s3 cache entry")
	}
	if _, err := f.Writer(ctx).Write(data); err != nil {
		_ = f.Close(ctx)
		return errors.Wrap(err, "session/store: writing s3 cache entry")
	}
	return f.Close(ctx)
}
