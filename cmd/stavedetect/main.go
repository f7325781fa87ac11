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

/*
stavedetect runs the staff-detection pipeline against one page of a
scanned orchestral score and reports the systems, staves and barlines it
found.
*/

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/scoresplit/staves/config"
	"github.com/scoresplit/staves/detect"
	"github.com/scoresplit/staves/detect/debugimg"
	"github.com/scoresplit/staves/detect/detectpb"
	"github.com/scoresplit/staves/detecterr"
	"github.com/scoresplit/staves/raster"
)

var (
	page        = flag.Int("page", 0, "0-based index of the page to rasterise and detect")
	dpi         = flag.Int("dpi", 300, "Rasterisation DPI passed to the raster package")
	format      = flag.String("format", "json", "Output format for the detection result; 'json' or 'pb'")
	outPath     = flag.String("out", "", "Output path for the detection result; defaults to stdout")
	debugImage  = flag.String("debug-image", "", "If set, write a PGM image with detected staves/orphans overlaid to this path")
	showSummary = flag.Bool("summary", true, "Print a one-line human-readable summary to stderr")
)

func stavedetectUsage() {
	fmt.Printf("Usage: %s [OPTIONS] score.pdf\n", os.Args[0])
	fmt.Printf("Other options:\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = stavedetectUsage
	shutdown := grail.Init()
	defer shutdown()

	allArgs := flag.Args()
	if len(allArgs) != 1 {
		log.Fatalf("Missing positional argument (score.pdf required); please check flag syntax: '%s'", strings.Join(allArgs, " "))
	}
	pdfPath := allArgs[0]

	pdfBytes, err := os.ReadFile(pdfPath)
	if err != nil {
		log.Fatalf("reading %s: %v", pdfPath, err)
	}

	img, err := raster.Page(pdfBytes, *page, *dpi)
	if err != nil {
		log.Fatalf("rasterising page %d of %s: %v", *page, pdfPath, err)
	}

	cfg := config.Default()
	result, err := detect.Detect(img, nil, cfg)
	if err != nil {
		if !detecterr.IsInsufficientPeaks(err) {
			log.Fatalf("detecting staves on page %d of %s: %v", *page, pdfPath, err)
		}
		log.Error.Printf("page %d of %s: %v (continuing with an empty result)", *page, pdfPath, err)
	}

	if *showSummary {
		fmt.Fprintf(os.Stderr, "%s: page %d: %s\n", pdfPath, *page, result.Summary())
	}

	if *debugImage != "" {
		overlay := debugimg.Overlay(img, result)
		if err := writePGM(*debugImage, overlay); err != nil {
			log.Fatalf("writing debug image %s: %v", *debugImage, err)
		}
	}

	out := os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			log.Fatalf("creating %s: %v", *outPath, err)
		}
		defer f.Close()
		out = f
	}

	switch *format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			log.Fatalf("encoding result as JSON: %v", err)
		}
	case "pb":
		data, err := detectpb.Marshal(result)
		if err != nil {
			log.Fatalf("encoding result as protobuf: %v", err)
		}
		if _, err := out.Write(data); err != nil {
			log.Fatalf("writing protobuf result: %v", err)
		}
	default:
		log.Fatalf("unrecognized -format %q; want 'json' or 'pb'", *format)
	}

	if err != nil {
		// InsufficientPeaks already logged above; signal failure to the
		// shell without a second stack of log output.
		os.Exit(1)
	}
}
