package raster

import (
	"image"
	"testing"
)

func fromRows(rows ...string) *Bitmap {
	b := New(len(rows[0]), len(rows))
	for y, row := range rows {
		for x, c := range row {
			b.Set(x, y, c == '#')
		}
	}
	return b
}

func rowsOf(b *Bitmap) []string {
	out := make([]string, b.Height)
	for y := 0; y < b.Height; y++ {
		buf := make([]byte, b.Width)
		for x := 0; x < b.Width; x++ {
			if b.At(x, y) {
				buf[x] = '#'
			} else {
				buf[x] = '.'
			}
		}
		out[y] = string(buf)
	}
	return out
}

func equalRows(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFraction(t *testing.T) {
	b := fromRows(
		"##..",
		"##..",
	)
	if got := b.Count(); got != 4 {
		t.Errorf("Count() = %d, want 4", got)
	}
	if got := b.Fraction(); got != 0.5 {
		t.Errorf("Fraction() = %v, want 0.5", got)
	}
}

func TestErode(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "block shrinks toward its bottom-right corner",
			in: []string{
				"....",
				".##.",
				".##.",
				"....",
			},
			want: []string{
				"....",
				"....",
				"..#.",
				"....",
			},
		},
		{
			name: "border pixels ignore missing neighbours",
			in: []string{
				"###",
				"###",
			},
			want: []string{
				"###",
				"###",
			},
		},
		{
			name: "isolated pixel vanishes when left neighbour exists",
			in: []string{
				"...",
				".#.",
				"...",
			},
			want: []string{
				"...",
				"...",
				"...",
			},
		},
		{
			name: "thin line",
			in: []string{
				"....",
				"####",
				"....",
			},
			want: []string{
				"....",
				"....",
				"....",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := fromRows(tt.in...)
			got := rowsOf(in.Erode())
			if !equalRows(got, tt.want) {
				t.Errorf("Erode() =\n%v\nwant\n%v", got, tt.want)
			}
			if !equalRows(rowsOf(in), tt.in) {
				t.Error("Erode() mutated its receiver")
			}
		})
	}
}

func TestErodeNeverGrows(t *testing.T) {
	b := fromRows(
		"#.#.##",
		"######",
		".####.",
		"##..##",
	)
	for i := 0; i < 5; i++ {
		next := b.Erode()
		if next.Count() > b.Count() {
			t.Fatalf("pass %d grew from %d to %d", i, b.Count(), next.Count())
		}
		b = next
	}
}

func TestCrop(t *testing.T) {
	b := fromRows(
		"#...",
		".#..",
		"..#.",
		"...#",
	)
	got := b.Crop(image.Rect(1, 1, 3, 3))
	if want := []string{"#.", ".#"}; !equalRows(rowsOf(got), want) {
		t.Errorf("Crop() = %v, want %v", rowsOf(got), want)
	}

	clipped := b.Crop(image.Rect(2, 2, 10, 10))
	if clipped.Width != 2 || clipped.Height != 2 {
		t.Errorf("clipped crop size = %dx%d, want 2x2", clipped.Width, clipped.Height)
	}
}

func TestScale(t *testing.T) {
	b := fromRows(
		"#.",
		".#",
	)
	got := b.Scale(2)
	want := []string{
		"##..",
		"##..",
		"..##",
		"..##",
	}
	if !equalRows(rowsOf(got), want) {
		t.Errorf("Scale(2) = %v, want %v", rowsOf(got), want)
	}
	if got.Fraction() != b.Fraction() {
		t.Errorf("Scale(2) changed fraction %v -> %v", b.Fraction(), got.Fraction())
	}
}

func TestImageRoundTrip(t *testing.T) {
	b := fromRows(
		"#..#",
		".##.",
	)
	back := FromImage(b.Image())
	if !equalRows(rowsOf(back), rowsOf(b)) {
		t.Errorf("FromImage(Image()) = %v, want %v", rowsOf(back), rowsOf(b))
	}

	sub := b.Image().SubImage(image.Rect(1, 1, 3, 2))
	if got := rowsOf(FromImage(sub)); !equalRows(got, []string{"##"}) {
		t.Errorf("FromImage(sub) = %v", got)
	}
}

func TestNewPanicsOnEmpty(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("New(0, 1) did not panic")
		}
	}()
	New(0, 1)
}
