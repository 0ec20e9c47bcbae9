package layout

import (
	"context"
	"fmt"

	"github.com/matzehuels/tactile/pkg/core/braille"
	"github.com/matzehuels/tactile/pkg/core/density"
	"github.com/matzehuels/tactile/pkg/core/geom"
	"github.com/matzehuels/tactile/pkg/core/placement"
	"github.com/matzehuels/tactile/pkg/core/raster"
	"github.com/matzehuels/tactile/pkg/core/tiling"
	"github.com/matzehuels/tactile/pkg/errors"
)

// Source is one logical page of artwork.
type Source struct {
	Bitmap *raster.Bitmap
	DPI    float64 // resolution the bitmap was captured at; 0 means the production DPI
}

// Job is one conversion request. Regions select their logical page with
// Region.Page and are resolved in slice order.
type Job struct {
	ID      string
	Sources []Source
	Regions []placement.Region
}

// Build turns a job into pages. See the package documentation for the stage
// order and error policy.
func Build(ctx context.Context, job Job, t braille.Translator, opts Options) (*Layout, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := validateJob(job); err != nil {
		return nil, err
	}

	b := &builder{
		opts:    opts,
		tr:      t,
		symbols: &placement.Symbols{},
		out: &Layout{
			JobID: job.ID,
			DPI:   opts.DPI,
			Paper: opts.Paper,
		},
	}
	if opts.Grade == braille.Grade2 && !braille.Contracts(t) {
		b.warn(Warning{
			Code:    errors.ErrCodeGradeDowngraded,
			Page:    -1,
			Message: "translator has no grade 2 contractions, labels use grade 1",
		})
	}

	byPage := make([][]placement.Region, len(job.Sources))
	for _, r := range job.Regions {
		byPage[r.Page] = append(byPage[r.Page], r)
	}

	for i, src := range job.Sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := b.source(ctx, i, src, byPage[i]); err != nil {
			return nil, err
		}
	}

	if len(b.out.Key) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		b.add(Page{Kind: KindKey, Source: -1, Key: b.out.Key, Caption: "Symbol key"})
	}

	b.out.Summary.Counts = placement.Count(b.out.Labels)
	b.out.Summary.Pages = len(b.out.Pages)
	return b.out, nil
}

type builder struct {
	opts    Options
	tr      braille.Translator
	symbols *placement.Symbols
	out     *Layout
}

// source runs every stage for one logical page.
func (b *builder) source(ctx context.Context, index int, src Source, regions []placement.Region) error {
	factor := b.opts.Scale
	if src.DPI > 0 {
		factor *= b.opts.DPI / src.DPI
	}
	bm := src.Bitmap
	if factor != 1 {
		bm = bm.Scale(factor)
	}

	d := b.opts.Density
	res := density.Regulate(bm, d.Target, d.MaxIterations)
	bm, res.Bitmap = res.Bitmap, nil
	b.out.Bitmaps = append(b.out.Bitmaps, bm)
	b.out.Summary.Density = append(b.out.Summary.Density, DensityReport{Page: index, Result: res})
	if !res.TargetMet {
		b.warn(Warning{
			Code: errors.ErrCodeDensityTargetMissed,
			Page: index,
			Message: fmt.Sprintf("density %.1f%% is above the %.1f%% target after %d passes",
				res.Achieved*100, d.Target*100, res.Iterations),
		})
	}
	if err := density.Check(index, res.Achieved, d.Safety); err != nil {
		return err
	}

	art := geom.Size{W: geom.Pixels(bm.Width), H: geom.Pixels(bm.Height)}
	paper := b.opts.PaperPixels()
	tiled := tiling.NeedsTiling(art, paper)

	bounds := geom.Rect{W: paper.W, H: paper.H}
	if tiled {
		bounds = geom.Rect{W: art.W, H: art.H}
	}
	labels, err := b.place(index, regions, factor, bounds)
	if err != nil {
		return err
	}

	if !tiled {
		if err := ctx.Err(); err != nil {
			return err
		}
		b.add(Page{
			Kind:   KindArtwork,
			Source: index,
			Region: bm.Bounds(),
			Labels: visible(labels),
		})
		return nil
	}

	cfg := b.opts.Tiling
	cfg.Paper = paper
	grid, err := tiling.Plan(art, cfg)
	if err != nil {
		return err
	}
	grid.Assign(labels)
	for _, w := range grid.Warnings {
		b.warn(Warning{Code: w.Code, Page: index, Message: w.Message})
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	m := grid.AssemblyMap()
	b.add(Page{
		Kind:     KindAssembly,
		Source:   index,
		Assembly: &m,
		Caption:  fmt.Sprintf("Assembly map - %d tiles", len(grid.Tiles)),
	})

	for i := range grid.Tiles {
		if err := ctx.Err(); err != nil {
			return err
		}
		tile := grid.Tiles[i]
		pageLabels := tile.Labels
		tile.Labels = nil
		b.out.Summary.Tiles++
		b.add(Page{
			Kind:    KindTile,
			Source:  index,
			Region:  tile.Bounds,
			Tile:    &tile,
			Labels:  pageLabels,
			Caption: tile.Caption,
		})
	}
	return nil
}

// place resolves the regions of one logical page in full-page coordinates.
func (b *builder) place(index int, regions []placement.Region, factor float64, bounds geom.Rect) ([]placement.Label, error) {
	r := placement.NewResolver(b.opts.Placement, bounds, b.tr, b.opts.Grade, b.symbols)

	labels := make([]placement.Label, 0, len(regions))
	for _, reg := range regions {
		reg.Box = scaleRect(reg.Box, factor)
		l := r.Label(reg)
		l.Index = len(b.out.Labels)
		l.Page = index
		if l.Outcome == placement.Dropped {
			b.warn(Warning{
				Code:    errors.ErrCodePlacementExhausted,
				Page:    index,
				Label:   l.Index,
				Message: fmt.Sprintf("label %q dropped: %s", l.Text, l.Cause),
			})
		}
		labels = append(labels, l)
		b.out.Labels = append(b.out.Labels, l)
	}

	if err := placement.Check(labels, b.opts.Placement.Spacing); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "placement produced overlapping labels")
	}
	b.out.Key = append(b.out.Key, r.Key()...)
	return labels, nil
}

func (b *builder) add(p Page) {
	p.Number = len(b.out.Pages) + 1
	p.Paper = b.opts.Paper
	p.Size = b.opts.PaperPixels()
	b.out.Pages = append(b.out.Pages, p)
}

func (b *builder) warn(w Warning) {
	b.out.Warnings = append(b.out.Warnings, w)
}

func validateJob(job Job) error {
	if len(job.Sources) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "job has no artwork")
	}
	for i, s := range job.Sources {
		if s.Bitmap == nil || s.Bitmap.Width <= 0 || s.Bitmap.Height <= 0 {
			return errors.New(errors.ErrCodeInvalidInput, "artwork %d is empty", i)
		}
		if s.DPI < 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "artwork %d has negative resolution %v", i, s.DPI)
		}
	}
	for i, r := range job.Regions {
		if r.Page < 0 || r.Page >= len(job.Sources) {
			return errors.New(errors.ErrCodeInvalidInput,
				"region %d refers to page %d, job has %d", i, r.Page, len(job.Sources))
		}
	}
	return nil
}

func visible(labels []placement.Label) []placement.Label {
	var out []placement.Label
	for _, l := range labels {
		if l.Visible() {
			out = append(out, l)
		}
	}
	return out
}

func scaleRect(r geom.Rect, f float64) geom.Rect {
	if f == 1 {
		return r
	}
	s := geom.Pixels(f)
	return geom.Rect{X: r.X * s, Y: r.Y * s, W: r.W * s, H: r.H * s}
}
