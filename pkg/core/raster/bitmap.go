package raster

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Bitmap is a 1-bit-per-pixel foreground plane stored as one byte per pixel.
type Bitmap struct {
	Width  int
	Height int
	Pix    []uint8
}

// New returns an all-background bitmap. It panics on non-positive sizes.
func New(width, height int) *Bitmap {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("raster: invalid bitmap size %dx%d", width, height))
	}
	return &Bitmap{Width: width, Height: height, Pix: make([]uint8, width*height)}
}

// Clone returns a deep copy of b.
func (b *Bitmap) Clone() *Bitmap {
	c := &Bitmap{Width: b.Width, Height: b.Height, Pix: make([]uint8, len(b.Pix))}
	copy(c.Pix, b.Pix)
	return c
}

// Bounds returns the bitmap rectangle anchored at the origin.
func (b *Bitmap) Bounds() image.Rectangle { return image.Rect(0, 0, b.Width, b.Height) }

// At reports whether (x, y) is raised. Out-of-range coordinates are background.
func (b *Bitmap) At(x, y int) bool {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return false
	}
	return b.Pix[y*b.Width+x] != 0
}

// Set marks (x, y) raised or clears it. Out-of-range coordinates are ignored.
func (b *Bitmap) Set(x, y int, raised bool) {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return
	}
	var v uint8
	if raised {
		v = 1
	}
	b.Pix[y*b.Width+x] = v
}

// Fill raises every pixel of r that lies inside b.
func (b *Bitmap) Fill(r image.Rectangle) {
	r = r.Intersect(b.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := b.Pix[y*b.Width : (y+1)*b.Width]
		for x := r.Min.X; x < r.Max.X; x++ {
			row[x] = 1
		}
	}
}

// Count returns the number of raised pixels.
func (b *Bitmap) Count() int {
	n := 0
	for _, v := range b.Pix {
		if v != 0 {
			n++
		}
	}
	return n
}

// Fraction returns the raised-area fraction: raised pixels over total pixels.
func (b *Bitmap) Fraction() float64 {
	if len(b.Pix) == 0 {
		return 0
	}
	return float64(b.Count()) / float64(len(b.Pix))
}

// Erode applies one pass of binary erosion with a 2×2 structuring element
// anchored at its bottom-right cell. A pixel stays raised only if it and its
// left, upper and upper-left neighbours are all raised. Neighbours outside the
// bitmap are ignored, so raised pixels on the top row and left column are
// judged only by the neighbours that exist.
func (b *Bitmap) Erode() *Bitmap {
	out := &Bitmap{Width: b.Width, Height: b.Height, Pix: make([]uint8, len(b.Pix))}
	w := b.Width
	for y := 0; y < b.Height; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			if b.Pix[i] == 0 {
				continue
			}
			if x > 0 && b.Pix[i-1] == 0 {
				continue
			}
			if y > 0 && b.Pix[i-w] == 0 {
				continue
			}
			if x > 0 && y > 0 && b.Pix[i-w-1] == 0 {
				continue
			}
			out.Pix[i] = 1
		}
	}
	return out
}

// Crop returns a copy of the part of b inside r. Parts of r outside b are
// dropped, so the result may be smaller than r.
func (b *Bitmap) Crop(r image.Rectangle) *Bitmap {
	r = r.Intersect(b.Bounds())
	if r.Empty() {
		return &Bitmap{}
	}
	out := New(r.Dx(), r.Dy())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		copy(out.Pix[(y-r.Min.Y)*out.Width:(y-r.Min.Y+1)*out.Width], b.Pix[y*b.Width+r.Min.X:y*b.Width+r.Max.X])
	}
	return out
}

// Scale resizes b by factor using nearest-neighbour sampling so the result
// stays binary. A factor of 1 returns a clone.
func (b *Bitmap) Scale(factor float64) *Bitmap {
	if factor <= 0 {
		panic(fmt.Sprintf("raster: scale factor must be positive, got %v", factor))
	}
	if factor == 1 {
		return b.Clone()
	}
	w := max(1, int(float64(b.Width)*factor+0.5))
	h := max(1, int(float64(b.Height)*factor+0.5))
	dst := image.NewGray(image.Rect(0, 0, w, h))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), b.Image(), b.Bounds(), draw.Src, nil)
	return FromImage(dst)
}

// Image renders b as a grayscale image: raised pixels black, background white.
func (b *Bitmap) Image() *image.Gray {
	img := image.NewGray(b.Bounds())
	for i, v := range b.Pix {
		if v != 0 {
			img.Pix[i] = 0
		} else {
			img.Pix[i] = 0xff
		}
	}
	return img
}

// FromImage converts an already-binarised image into a bitmap. Pixels darker
// than mid-gray are raised.
func FromImage(img image.Image) *Bitmap {
	r := img.Bounds()
	b := New(r.Dx(), r.Dy())
	if g, ok := img.(*image.Gray); ok {
		for y := 0; y < b.Height; y++ {
			row := g.Pix[g.PixOffset(r.Min.X, r.Min.Y+y):]
			for x := 0; x < b.Width; x++ {
				if row[x] < 0x80 {
					b.Pix[y*b.Width+x] = 1
				}
			}
		}
		return b
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if color.GrayModel.Convert(img.At(x, y)).(color.Gray).Y < 0x80 {
				b.Pix[(y-r.Min.Y)*b.Width+(x-r.Min.X)] = 1
			}
		}
	}
	return b
}
