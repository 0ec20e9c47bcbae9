// Package raster holds the binary foreground plane of a source artwork.
//
// A [Bitmap] stores one byte per pixel, 1 for raised (foreground) and 0 for
// background. It is produced upstream by a thresholding step; this package
// never decides what is foreground from color data beyond treating dark
// pixels of an already-binarised image as raised (see [FromImage]).
//
// The density regulator erodes bitmaps with [Bitmap.Erode], the layout
// assembler crops them per tile with [Bitmap.Crop], and renderers convert
// them back to images with [Bitmap.Image].
package raster
