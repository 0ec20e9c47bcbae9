// Package pkg provides the core libraries for Tactile, a layout engine for
// tactile graphics printed on swell paper.
//
// # Overview
//
// Tactile turns a bitmap drawing (a floor plan, a sketch) plus detected text
// regions into printable pages: line art thinned until it swells cleanly,
// braille labels placed where they fit, oversized artwork split across
// sheets with registration marks, and a symbol key for labels that had to be
// abbreviated. The pkg directory is organized into these areas:
//
//  1. [core] - Engine (geometry, density, braille, placement, tiling, layout)
//  2. [render/sink] - Output formats (PDF, PNG, JSON)
//  3. [pipeline] - Orchestration (load → layout → render) with caching
//  4. [io] - Bitmap, detections and layout files
//  5. Infrastructure - [cache], [storage], [config], [ocr], [observability]
//
// # Architecture
//
// The data flow through Tactile:
//
//	Bitmap + detected regions
//	         ↓
//	    [core/density] (erode until the raised fraction meets the target)
//	         ↓
//	    [core/placement] (braille labels: original spot, nearby, symbol, dropped)
//	         ↓
//	    [core/tiling] (split across sheets when the artwork is too large)
//	         ↓
//	    [core/layout] (ordered pages: assembly map, tiles or artwork, key)
//	         ↓
//	    PDF/PNG/JSON output
//
// # Quick Start
//
//	job, _ := pipeline.LoadJob([]string{"plan.png"}, "plan.json", 300)
//	runner := pipeline.NewRunner(nil, nil, logger)
//	result, err := runner.Execute(ctx, job, pipeline.Options{Paper: "tabloid"})
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("plan.pdf", result.Artifacts["pdf"], 0o644)
//
// # Main Packages
//
// [core/geom] - Pixel, point and inch units, rectangles, paper sizes and the
// flip from image space (Y down) to page space (Y up).
//
// [core/density] - Morphological erosion of line art toward a target raised
// fraction, with a hard safety bound.
//
// [core/braille] - Translation of label text into braille cells. Grade 1 is
// built in; other translators plug in through [braille.Translator].
//
// [core/placement] - The label resolver: tries the detected position, then
// nearby candidates, then a short symbol with a key entry, then drops.
//
// [core/tiling] - Tile grid planning with overlap, registration marks and the
// assembly map.
//
// [core/layout] - Builds the ordered page model of a job.
//
// [pipeline] - The load → layout → render flow used by both the CLI and the
// HTTP server, with layout and artifact caching.
//
// [cache] - File, Redis and null caches with content-addressed keys.
//
// [storage] - Job records for the HTTP API (memory, file and MongoDB).
//
// # Testing
//
// Run tests:
//
//	go test ./...                 # All tests
//	go test -tags ocr ./pkg/ocr   # Tesseract-backed detection
//	go test -run Example ./...    # Examples only
//
// [core]: https://pkg.go.dev/github.com/matzehuels/tactile/pkg/core
// [core/geom]: https://pkg.go.dev/github.com/matzehuels/tactile/pkg/core/geom
// [core/density]: https://pkg.go.dev/github.com/matzehuels/tactile/pkg/core/density
// [core/braille]: https://pkg.go.dev/github.com/matzehuels/tactile/pkg/core/braille
// [braille.Translator]: https://pkg.go.dev/github.com/matzehuels/tactile/pkg/core/braille#Translator
// [core/placement]: https://pkg.go.dev/github.com/matzehuels/tactile/pkg/core/placement
// [core/tiling]: https://pkg.go.dev/github.com/matzehuels/tactile/pkg/core/tiling
// [core/layout]: https://pkg.go.dev/github.com/matzehuels/tactile/pkg/core/layout
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/tactile/pkg/render/sink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/tactile/pkg/pipeline
// [io]: https://pkg.go.dev/github.com/matzehuels/tactile/pkg/io
// [cache]: https://pkg.go.dev/github.com/matzehuels/tactile/pkg/cache
// [storage]: https://pkg.go.dev/github.com/matzehuels/tactile/pkg/storage
// [config]: https://pkg.go.dev/github.com/matzehuels/tactile/pkg/config
// [ocr]: https://pkg.go.dev/github.com/matzehuels/tactile/pkg/ocr
// [observability]: https://pkg.go.dev/github.com/matzehuels/tactile/pkg/observability
package pkg
