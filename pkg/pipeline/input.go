package pipeline

import (
	"encoding/binary"
	"encoding/json"
	"math"

	"github.com/matzehuels/tactile/pkg/cache"
	"github.com/matzehuels/tactile/pkg/core/layout"
	"github.com/matzehuels/tactile/pkg/core/placement"
	"github.com/matzehuels/tactile/pkg/errors"
	tio "github.com/matzehuels/tactile/pkg/io"
)

// LoadJob reads one bitmap per logical page and an optional detections file.
// dpi is the resolution the bitmaps were captured at; zero means they are
// already at the production resolution.
func LoadJob(bitmaps []string, detections string, dpi float64) (layout.Job, error) {
	if len(bitmaps) == 0 {
		return layout.Job{}, errors.New(errors.ErrCodeInvalidInput, "at least one bitmap is required")
	}
	if dpi < 0 {
		return layout.Job{}, errors.New(errors.ErrCodeInvalidConfig, "source dpi must not be negative, got %v", dpi)
	}

	var job layout.Job
	for _, path := range bitmaps {
		b, err := tio.ImportBitmap(path)
		if err != nil {
			return layout.Job{}, err
		}
		job.Sources = append(job.Sources, layout.Source{Bitmap: b, DPI: dpi})
	}

	if detections != "" {
		regions, err := tio.ImportDetections(detections)
		if err != nil {
			return layout.Job{}, err
		}
		job.Regions = regions
	}
	return job, nil
}

// HashJob identifies the artwork and regions of a job. The job ID is not part
// of the hash, so identical inputs share cached layouts.
func HashJob(job layout.Job) string {
	parts := make([][]byte, 0, 2*len(job.Sources)+1)
	for _, s := range job.Sources {
		var hdr [24]byte
		var pix []byte
		if s.Bitmap != nil {
			binary.BigEndian.PutUint64(hdr[0:], uint64(s.Bitmap.Width))
			binary.BigEndian.PutUint64(hdr[8:], uint64(s.Bitmap.Height))
			pix = s.Bitmap.Pix
		}
		binary.BigEndian.PutUint64(hdr[16:], math.Float64bits(s.DPI))
		parts = append(parts, hdr[:], pix)
	}
	regions, _ := json.Marshal(regionsOrEmpty(job.Regions))
	parts = append(parts, regions)
	return cache.HashParts(parts...)
}

func regionsOrEmpty(r []placement.Region) []placement.Region {
	if r == nil {
		return []placement.Region{}
	}
	return r
}
