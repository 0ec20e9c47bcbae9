// Package render groups the output backends for tactile layouts.
//
// # Overview
//
// Rendering turns a computed [layout.Layout] into files. All backends live in
// the [sink] subpackage:
//
//   - [sink.RenderPDF]: the swell-paper document, one PDF page per layout
//     page, with braille drawn as dots so no braille font is needed
//   - [sink.RenderPNG]: a preview contact sheet of every page
//   - [sink.RenderJSON]: the page model in page coordinates (points, Y up)
//
// Renderers never change the layout. Anything geometric (label boxes, tile
// regions, marks) is decided by [layout.Build]; renderers only convert
// pixel-space positions to their own coordinate frames.
//
// # Usage
//
//	l, _ := runner.Layout(ctx, job, opts)
//	pdf, err := sink.RenderPDF(l, sink.WithPDFTitle("Ground floor"))
//	png, err := sink.RenderPNG(l, sink.WithWidth(600))
//
// [layout.Layout]: https://pkg.go.dev/github.com/matzehuels/tactile/pkg/core/layout#Layout
// [layout.Build]: https://pkg.go.dev/github.com/matzehuels/tactile/pkg/core/layout#Build
// [sink]: https://pkg.go.dev/github.com/matzehuels/tactile/pkg/render/sink
// [sink.RenderPDF]: https://pkg.go.dev/github.com/matzehuels/tactile/pkg/render/sink#RenderPDF
// [sink.RenderPNG]: https://pkg.go.dev/github.com/matzehuels/tactile/pkg/render/sink#RenderPNG
// [sink.RenderJSON]: https://pkg.go.dev/github.com/matzehuels/tactile/pkg/render/sink#RenderJSON
package render
