package geom

import (
	"image"
	"testing"
)

func TestRectIntersects(t *testing.T) {
	tests := []struct {
		name string
		a, b Rect
		want bool
	}{
		{name: "overlap", a: R(0, 0, 10, 10), b: R(5, 5, 10, 10), want: true},
		{name: "contained", a: R(0, 0, 10, 10), b: R(2, 2, 2, 2), want: true},
		{name: "touching edge", a: R(0, 0, 10, 10), b: R(10, 0, 10, 10), want: false},
		{name: "touching corner", a: R(0, 0, 10, 10), b: R(10, 10, 5, 5), want: false},
		{name: "apart", a: R(0, 0, 10, 10), b: R(20, 20, 5, 5), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Intersects(tt.b); got != tt.want {
				t.Errorf("Intersects() = %v, want %v", got, tt.want)
			}
			if got := tt.b.Intersects(tt.a); got != tt.want {
				t.Errorf("Intersects() not symmetric: %v", got)
			}
		})
	}
}

func TestRectInflate(t *testing.T) {
	got := R(10, 20, 30, 40).Inflate(3)
	want := R(7, 17, 36, 46)
	if got != want {
		t.Errorf("Inflate(3) = %+v, want %+v", got, want)
	}
}

func TestRectInflatedSpacing(t *testing.T) {
	// Two boxes 6px apart collide once each is inflated by more than 3px.
	a, b := R(0, 0, 10, 10), R(16, 0, 10, 10)
	if a.Inflate(3).Intersects(b.Inflate(3)) {
		t.Error("boxes exactly one spacing apart should not collide")
	}
	if !a.Inflate(3.5).Intersects(b.Inflate(3.5)) {
		t.Error("boxes closer than the spacing should collide")
	}
}

func TestRectContainsHalfOpen(t *testing.T) {
	r := R(0, 0, 10, 10)
	tests := []struct {
		p    Point
		want bool
	}{
		{Point{0, 0}, true},
		{Point{9.99, 9.99}, true},
		{Point{10, 5}, false},
		{Point{5, 10}, false},
		{Point{-1, 5}, false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.p); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestRectClamp(t *testing.T) {
	bounds := R(0, 0, 100, 100)
	tests := []struct {
		name string
		r    Rect
		want Rect
	}{
		{name: "inside", r: R(10, 10, 20, 20), want: R(10, 10, 20, 20)},
		{name: "negative", r: R(-5, -10, 20, 20), want: R(0, 0, 20, 20)},
		{name: "past far edge", r: R(90, 95, 20, 20), want: R(80, 80, 20, 20)},
		{name: "too wide", r: R(30, 10, 150, 20), want: R(0, 10, 150, 20)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.Clamp(bounds); got != tt.want {
				t.Errorf("Clamp() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRectWithinAndFits(t *testing.T) {
	bounds := R(0, 0, 100, 50)
	if !R(0, 0, 100, 50).Within(bounds) {
		t.Error("bounds should be within itself")
	}
	if R(1, 0, 100, 50).Within(bounds) {
		t.Error("shifted rect should not be within")
	}
	if R(0, 0, 101, 10).Fits(bounds) {
		t.Error("wider rect should not fit")
	}
}

func TestRectIntersect(t *testing.T) {
	got := R(0, 0, 10, 10).Intersect(R(5, 5, 10, 10))
	if got != R(5, 5, 5, 5) {
		t.Errorf("Intersect() = %+v", got)
	}
	if got := R(0, 0, 10, 10).Intersect(R(10, 0, 5, 5)); got != (Rect{}) {
		t.Errorf("Intersect() of touching rects = %+v, want zero", got)
	}
}

func TestRectImageRect(t *testing.T) {
	got := R(1.5, 2.2, 3, 4).ImageRect()
	want := image.Rect(1, 2, 5, 7)
	if got != want {
		t.Errorf("ImageRect() = %v, want %v", got, want)
	}
	if back := FromImageRect(want); back != R(1, 2, 4, 5) {
		t.Errorf("FromImageRect() = %+v", back)
	}
}
