// Package io reads job inputs from disk and persists computed layouts.
//
// # Artwork
//
// [ReadBitmap] decodes PNG, JPEG, GIF, TIFF and BMP images into a
// [raster.Bitmap]. The image is expected to be binarised already: pixels
// darker than mid-grey become raised, everything else stays flat. No
// thresholding policy beyond that lives here.
//
// # Detections
//
// Detected text regions are exchanged as JSON:
//
//	{
//	  "regions": [
//	    {"text": "Kitchen", "x": 100, "y": 100, "width": 50, "height": 20,
//	     "confidence": 0.93, "page": 0}
//	  ]
//	}
//
// Coordinates are pixels of the source artwork (origin top-left). A missing
// confidence means 1. [ReadDetections] rejects negative sizes, confidences
// outside [0, 1] and negative page indices with an INVALID_INPUT error.
//
// # Layouts
//
// [WriteLayout] and [ReadLayout] round-trip the page model as JSON.
// [ExportLayout] additionally writes the regulated artwork of each logical
// page next to the JSON file ("plan.json" gets "plan.artwork-0.png", ...),
// and [ImportLayout] re-attaches those files when they exist, so a stored
// layout can be rendered again without recomputing it.
//
// For the page-space export consumed by external tools, use the JSON sink in
// [render/sink].
//
// [raster.Bitmap]: github.com/matzehuels/tactile/pkg/core/raster.Bitmap
// [render/sink]: github.com/matzehuels/tactile/pkg/render/sink
package io
