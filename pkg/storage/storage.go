// Package storage persists job records for the HTTP API.
//
// A record holds the outcome of one layout job: its status, the summary the
// API reports, and the layout JSON for later retrieval. Artwork bitmaps and
// rendered artifacts are not stored; they are reproducible from the cache.
//
// Implementations:
//   - [MemoryStore]: in-process storage for development and tests
//   - [FileStore]: one JSON file per record, for single-instance deployments
//   - [MongoStore]: MongoDB-backed storage for multi-instance deployments
//
// # Usage
//
//	store, err := storage.NewMongoStore(ctx, "mongodb://localhost:27017", "tactile")
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	rec := storage.NewRecord(id, storage.DefaultTTL)
//	rec.Complete(result.InputHash, result.Layout, layoutJSON)
//	store.Put(ctx, rec)
//
//	rec, err = store.Get(ctx, id) // nil, nil when unknown or expired
package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/tactile/pkg/core/layout"
)

// DefaultTTL is how long job records are kept.
const DefaultTTL = 7 * 24 * time.Hour

// Status is the lifecycle state of a job.
type Status string

// Job statuses.
const (
	StatusDone   Status = "done"
	StatusFailed Status = "failed"
)

// Summary is the reported outcome of a job.
type Summary struct {
	Pages        int       `json:"pages" bson:"pages"`
	Tiles        int       `json:"tiles" bson:"tiles"`
	Placed       int       `json:"placed" bson:"placed"`
	Repositioned int       `json:"repositioned" bson:"repositioned"`
	Symbolized   int       `json:"symbolized" bson:"symbolized"`
	Dropped      int       `json:"dropped" bson:"dropped"`
	Density      []float64 `json:"density" bson:"density"` // achieved fraction per source page
}

// SummaryOf extracts the reported summary from a layout.
func SummaryOf(l *layout.Layout) Summary {
	s := Summary{
		Pages:        len(l.Pages),
		Tiles:        l.Summary.Tiles,
		Placed:       l.Summary.Placed,
		Repositioned: l.Summary.Repositioned,
		Symbolized:   l.Summary.Symbolized,
		Dropped:      l.Summary.Dropped,
		Density:      make([]float64, len(l.Summary.Density)),
	}
	for i, d := range l.Summary.Density {
		s.Density[i] = d.Achieved
	}
	return s
}

// Warning is a non-fatal condition reported for a job.
type Warning struct {
	Code    string `json:"code" bson:"code"`
	Page    int    `json:"page" bson:"page"`
	Message string `json:"message" bson:"message"`
}

// Record is a stored job.
type Record struct {
	ID        string          `json:"id" bson:"_id"`
	Status    Status          `json:"status" bson:"status"`
	InputHash string          `json:"input_hash,omitempty" bson:"input_hash,omitempty"`
	Summary   *Summary        `json:"summary,omitempty" bson:"summary,omitempty"`
	Warnings  []Warning       `json:"warnings,omitempty" bson:"warnings,omitempty"`
	Error     string          `json:"error,omitempty" bson:"error,omitempty"`
	Code      string          `json:"code,omitempty" bson:"code,omitempty"`
	Layout    json.RawMessage `json:"-" bson:"layout,omitempty"`
	CreatedAt time.Time       `json:"created_at" bson:"created_at"`
	ExpiresAt time.Time       `json:"expires_at" bson:"expires_at"`
}

// NewRecord creates a record that expires after ttl.
func NewRecord(id string, ttl time.Duration) *Record {
	now := time.Now().UTC()
	return &Record{
		ID:        id,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// Complete marks the record done with the given layout and its JSON form.
func (r *Record) Complete(inputHash string, l *layout.Layout, layoutJSON []byte) {
	s := SummaryOf(l)
	r.Status = StatusDone
	r.InputHash = inputHash
	r.Summary = &s
	r.Layout = layoutJSON
	r.Warnings = r.Warnings[:0]
	for _, w := range l.Warnings {
		r.Warnings = append(r.Warnings, Warning{Code: string(w.Code), Page: w.Page, Message: w.Message})
	}
}

// Fail marks the record failed.
func (r *Record) Fail(code, message string) {
	r.Status = StatusFailed
	r.Code = code
	r.Error = message
}

// IsExpired returns true if the record has expired.
func (r *Record) IsExpired() bool {
	return time.Now().After(r.ExpiresAt)
}

// Store is the interface for job record backends.
type Store interface {
	// Get retrieves a record by ID.
	// Returns nil, nil if the record doesn't exist or has expired.
	Get(ctx context.Context, id string) (*Record, error)

	// Put stores a record, replacing any record with the same ID.
	Put(ctx context.Context, rec *Record) error

	// Delete removes a record.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired records and returns how many were removed.
	Cleanup(ctx context.Context) (int, error)

	// Close releases backend resources.
	Close() error
}
