package tiling

import (
	"testing"

	"github.com/matzehuels/tactile/pkg/core/geom"
	"github.com/matzehuels/tactile/pkg/core/placement"
)

func label(i int, x, y geom.Pixels, o placement.Outcome) placement.Label {
	return placement.Label{
		Index:   i,
		Outcome: o,
		Anchor:  geom.Point{X: x, Y: y},
		Box:     geom.R(x, y, 50, 40),
	}
}

func TestAssignTieBreak(t *testing.T) {
	tests := []struct {
		name       string
		rule       TieBreak
		wantRow    int
		wantCol    int
		wantAnchor geom.Point
	}{
		{"top-left", TieTopLeft, 0, 0, geom.Point{X: 2400, Y: 100}},
		{"core", TieCore, 0, 1, geom.Point{X: 105, Y: 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig(letter)
			cfg.TieBreak = tt.rule
			g, err := Plan(geom.Size{W: 6000, H: 8000}, cfg)
			if err != nil {
				t.Fatal(err)
			}
			g.Assign([]placement.Label{label(0, 2400, 100, placement.Placed)})

			owner := g.Tile(tt.wantRow, tt.wantCol)
			if len(owner.Labels) != 1 {
				t.Fatalf("tile (%d,%d) has %d labels, want 1", tt.wantRow, tt.wantCol, len(owner.Labels))
			}
			got := owner.Labels[0]
			if got.Anchor != tt.wantAnchor {
				t.Errorf("local anchor = %v, want %v", got.Anchor, tt.wantAnchor)
			}
			if got.Box.Min() != tt.wantAnchor {
				t.Errorf("local box = %+v, want it at the local anchor", got.Box)
			}
		})
	}
}

func TestAssignEachLabelOnce(t *testing.T) {
	for _, rule := range []TieBreak{TieTopLeft, TieCore} {
		cfg := DefaultConfig(letter)
		cfg.TieBreak = rule
		g, err := Plan(geom.Size{W: 6000, H: 8000}, cfg)
		if err != nil {
			t.Fatal(err)
		}

		var labels []placement.Label
		for i := 0; i < 400; i++ {
			x := geom.Pixels((i * 137) % 6000)
			y := geom.Pixels((i * 211) % 8000)
			o := placement.Placed
			if i%7 == 0 {
				o = placement.Dropped
			}
			labels = append(labels, label(i, x, y, o))
		}
		g.Assign(labels)

		seen := make(map[int]int)
		for _, tile := range g.Tiles {
			for _, l := range tile.Labels {
				seen[l.Index]++
				if l.Outcome == placement.Dropped {
					t.Errorf("%s: dropped label %d assigned", rule, l.Index)
				}
				local := geom.R(0, 0, geom.Pixels(tile.Bounds.Dx()), geom.Pixels(tile.Bounds.Dy()))
				if !local.Contains(l.Anchor) {
					t.Errorf("%s: label %d anchor %v outside tile %d", rule, l.Index, l.Anchor, tile.Index)
				}
			}
		}
		for _, l := range labels {
			want := 1
			if !l.Visible() {
				want = 0
			}
			if seen[l.Index] != want {
				t.Errorf("%s: label %d assigned %d times, want %d", rule, l.Index, seen[l.Index], want)
			}
		}
	}
}

func TestOwners(t *testing.T) {
	g, _ := Plan(geom.Size{W: 6000, H: 8000}, DefaultConfig(letter))
	if got := len(g.Owners(geom.Point{X: 2400, Y: 3000})); got != 4 {
		t.Errorf("corner overlap owners = %d, want 4", got)
	}
	if got := len(g.Owners(geom.Point{X: 100, Y: 100})); got != 1 {
		t.Errorf("interior owners = %d, want 1", got)
	}
}

func TestAssignKeepsBoxOnSheet(t *testing.T) {
	tests := []struct {
		name       string
		rule       TieBreak
		box        geom.Rect
		wantRow    int
		wantCol    int
		wantAnchor geom.Point
		wantWarn   bool
	}{
		// Tile (0,0) spans x 0-2550 and tile (0,1) starts at 2295.
		{"past right edge", TieTopLeft, geom.R(2405, 100, 375, 42), 0, 1, geom.Point{X: 110, Y: 100}, false},
		{"past right edge core rule", TieCore, geom.R(2405, 100, 375, 42), 0, 1, geom.Point{X: 110, Y: 100}, false},
		{"fits first tile", TieTopLeft, geom.R(2400, 100, 100, 42), 0, 0, geom.Point{X: 2400, Y: 100}, false},
		// Straddles the whole overlap band, so no sheet holds it.
		{"wider than overlap", TieTopLeft, geom.R(2200, 100, 500, 42), 0, 0, geom.Point{X: 2050, Y: 100}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig(letter)
			cfg.TieBreak = tt.rule
			g, err := Plan(geom.Size{W: 6000, H: 8000}, cfg)
			if err != nil {
				t.Fatal(err)
			}
			l := placement.Label{Outcome: placement.Placed, Anchor: tt.box.Min(), Box: tt.box}
			g.Assign([]placement.Label{l})

			owner := g.Tile(tt.wantRow, tt.wantCol)
			if len(owner.Labels) != 1 {
				t.Fatalf("tile (%d,%d) has %d labels, want 1", tt.wantRow, tt.wantCol, len(owner.Labels))
			}
			got := owner.Labels[0]
			sheet := geom.R(0, 0, geom.Pixels(owner.Bounds.Dx()), geom.Pixels(owner.Bounds.Dy()))
			if !got.Box.Within(sheet) {
				t.Errorf("box %+v runs off the %vx%v sheet", got.Box, sheet.W, sheet.H)
			}
			if got.Anchor != tt.wantAnchor {
				t.Errorf("local anchor = %v, want %v", got.Anchor, tt.wantAnchor)
			}
			if warned := len(g.Warnings) > 0; warned != tt.wantWarn {
				t.Errorf("warnings = %+v, want warning %v", g.Warnings, tt.wantWarn)
			}
		})
	}
}
