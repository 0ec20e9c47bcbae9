package geom

import (
	"sort"
	"strings"
)

// PagePoint is a position in physical page space: origin bottom-left, Y up,
// measured in points.
type PagePoint struct {
	X Points `json:"x"`
	Y Points `json:"y"`
}

// PageSize is the size of a physical sheet in points.
type PageSize struct {
	W Points `json:"width"`
	H Points `json:"height"`
}

// ToPageSpace maps a pixel-space point on an image of size img onto a page of
// size page. The Y axis is flipped and both axes are scaled by page/img.
func ToPageSpace(p Point, img Size, page PageSize) PagePoint {
	mustPositive("image width", float64(img.W))
	mustPositive("image height", float64(img.H))
	mustPositive("page width", float64(page.W))
	mustPositive("page height", float64(page.H))

	sx := float64(page.W) / float64(img.W)
	sy := float64(page.H) / float64(img.H)
	return PagePoint{
		X: Points(float64(p.X) * sx),
		Y: Points(float64(img.H-p.Y) * sy),
	}
}

// Paper is a physical sheet format.
type Paper struct {
	Name   string `json:"name" toml:"name"`
	Width  Inches `json:"width_in" toml:"width_in"`
	Height Inches `json:"height_in" toml:"height_in"`
}

// Standard paper formats for swell-paper printers.
var (
	Letter  = Paper{Name: "letter", Width: 8.5, Height: 11}
	Tabloid = Paper{Name: "tabloid", Width: 11, Height: 17}
	A4      = Paper{Name: "a4", Width: 8.27, Height: 11.69}
	A3      = Paper{Name: "a3", Width: 11.69, Height: 16.54}
)

var papers = map[string]Paper{
	Letter.Name:  Letter,
	Tabloid.Name: Tabloid,
	A4.Name:      A4,
	A3.Name:      A3,
}

// PaperByName looks up a standard paper format, ignoring case.
func PaperByName(name string) (Paper, bool) {
	p, ok := papers[strings.ToLower(name)]
	return p, ok
}

// PaperNames returns the standard paper names in sorted order.
func PaperNames() []string {
	names := make([]string, 0, len(papers))
	for n := range papers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Pixels returns the sheet size in whole pixels at dpi.
func (p Paper) Pixels(dpi float64) Size {
	return Size{
		W: Pixels(int(InchesToPixels(p.Width, dpi) + 0.5)),
		H: Pixels(int(InchesToPixels(p.Height, dpi) + 0.5)),
	}
}

// Points returns the sheet size in page space.
func (p Paper) Points() PageSize {
	return PageSize{W: InchesToPoints(p.Width), H: InchesToPoints(p.Height)}
}
