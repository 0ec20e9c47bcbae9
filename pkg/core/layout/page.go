package layout

import (
	"image"

	"github.com/matzehuels/tactile/pkg/core/density"
	"github.com/matzehuels/tactile/pkg/core/geom"
	"github.com/matzehuels/tactile/pkg/core/placement"
	"github.com/matzehuels/tactile/pkg/core/raster"
	"github.com/matzehuels/tactile/pkg/core/tiling"
	"github.com/matzehuels/tactile/pkg/errors"
)

// Kind is the role of a page.
type Kind string

// Page kinds.
const (
	KindAssembly Kind = "assembly"
	KindArtwork  Kind = "artwork"
	KindTile     Kind = "tile"
	KindKey      Kind = "key"
)

// Page is one physical sheet.
type Page struct {
	Number   int                        `json:"number"`
	Kind     Kind                       `json:"kind"`
	Source   int                        `json:"source"`
	Paper    geom.Paper                 `json:"paper"`
	Size     geom.Size                  `json:"size"`
	Region   image.Rectangle            `json:"region"`
	Tile     *tiling.Tile               `json:"tile,omitempty"`
	Labels   []placement.Label          `json:"labels,omitempty"`
	Key      []placement.SymbolKeyEntry `json:"key,omitempty"`
	Assembly *tiling.AssemblyMap        `json:"assembly,omitempty"`
	Caption  string                     `json:"caption,omitempty"`
}

// Artwork returns the part of the regulated artwork printed on p, or nil for
// pages without artwork.
func (l *Layout) Artwork(p Page) *raster.Bitmap {
	if p.Kind != KindArtwork && p.Kind != KindTile {
		return nil
	}
	if p.Source < 0 || p.Source >= len(l.Bitmaps) || l.Bitmaps[p.Source] == nil {
		return nil
	}
	return l.Bitmaps[p.Source].Crop(p.Region)
}

// Warning is a recoverable problem found while building a layout. Page is
// the logical page it concerns, or -1 when it applies to the whole job.
type Warning struct {
	Code    errors.Code `json:"code"`
	Page    int         `json:"page"`
	Label   int         `json:"label,omitempty"`
	Message string      `json:"message"`
}

// DensityReport is the regulation result of one logical page.
type DensityReport struct {
	Page int `json:"page"`
	density.Result
}

// Summary reports what happened to a job.
type Summary struct {
	placement.Counts
	Density []DensityReport `json:"density"`
	Tiles   int             `json:"tiles"`
	Pages   int             `json:"pages"`
}

// Layout is the complete page model of a job.
type Layout struct {
	JobID    string                     `json:"job_id"`
	DPI      float64                    `json:"dpi"`
	Paper    geom.Paper                 `json:"paper"`
	Pages    []Page                     `json:"pages"`
	Labels   []placement.Label          `json:"labels"`
	Key      []placement.SymbolKeyEntry `json:"key,omitempty"`
	Summary  Summary                    `json:"summary"`
	Warnings []Warning                  `json:"warnings,omitempty"`

	// Bitmaps holds the regulated artwork of each logical page. It is not
	// serialized; renderers re-attach artwork when loading a stored layout.
	Bitmaps []*raster.Bitmap `json:"-"`
}
