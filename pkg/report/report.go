// Package report provides persistent storage for comparison reports.
//
// This package defines an interface for report storage with implementations
// for different backends:
//   - file: JSON files in a config directory, for CLI use
//   - mongo: MongoDB collection, for the API server
//
// # Architecture
//
// A Record wraps either a single comparison result or a whole batch report
// under a generated ID, so the API can hand out report URLs and the CLI can
// list past runs. The Store interface supports:
//   - Get/Set/Delete operations by record ID
//   - Listing records newest first
//
// # Usage
//
// Create a store:
//
//	// CLI
//	store, err := report.NewFileStore("")  // Uses ~/.config/svgdiff/reports/
//
//	// API server
//	store, err := report.NewMongoStore(ctx, "mongodb://localhost:27017", "svgdiff")
//
// Persist a run:
//
//	rec := report.NewCompareRecord(result)
//	if err := store.Set(ctx, rec); err != nil {
//	    return err
//	}
package report

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/brothertop/svgdiff/pkg/errors"
	"github.com/brothertop/svgdiff/pkg/pipeline"
)

// RecordKind distinguishes single comparisons from batch runs.
type RecordKind string

const (
	KindCompare RecordKind = "compare"
	KindBatch   RecordKind = "batch"
)

// Record is one persisted report.
type Record struct {
	ID        string                `json:"id" bson:"_id"`
	Kind      RecordKind            `json:"kind" bson:"kind"`
	CreatedAt time.Time             `json:"created_at" bson:"created_at"`
	Result    *pipeline.Result      `json:"result,omitempty" bson:"result,omitempty"`
	Batch     *pipeline.BatchReport `json:"batch,omitempty" bson:"batch,omitempty"`
}

// Store is the interface for report storage backends.
type Store interface {
	// Get retrieves a record by ID. Returns nil, nil if it does not exist.
	Get(ctx context.Context, id string) (*Record, error)

	// Set stores a record.
	Set(ctx context.Context, rec *Record) error

	// Delete removes a record. Deleting a missing record is not an error.
	Delete(ctx context.Context, id string) error

	// List returns records newest first, at most limit of them.
	// A limit of 0 means no limit.
	List(ctx context.Context, limit int) ([]*Record, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// NewCompareRecord wraps a single comparison result in a fresh record.
func NewCompareRecord(result *pipeline.Result) *Record {
	return &Record{
		ID:        uuid.NewString(),
		Kind:      KindCompare,
		CreatedAt: time.Now().UTC(),
		Result:    result,
	}
}

// NewBatchRecord wraps a batch report in a fresh record.
func NewBatchRecord(batch *pipeline.BatchReport) *Record {
	return &Record{
		ID:        uuid.NewString(),
		Kind:      KindBatch,
		CreatedAt: time.Now().UTC(),
		Batch:     batch,
	}
}

// ValidateID rejects record IDs that are not UUIDs, before they reach a
// backend.
func ValidateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.New(errors.ErrCodeValidation, "invalid report id: %s", id)
	}
	return nil
}
