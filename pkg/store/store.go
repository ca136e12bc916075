// Package store persists parsed feature lists so the HTTP API can render
// them again by id.
//
// [MemoryStore] keeps records in process; [MongoStore] keeps them in a
// MongoDB collection. Both assign random UUIDs as ids.
package store

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/plasmap/pkg/errors"
	"github.com/matzehuels/plasmap/pkg/feature"
)

// Record is a stored feature list.
type Record struct {
	ID           string             `json:"id" bson:"_id"`
	Name         string             `json:"name,omitempty" bson:"name,omitempty"`
	Length       int                `json:"length" bson:"length"`
	FeatureCount int                `json:"feature_count" bson:"feature_count"`
	Features     []*feature.Feature `json:"features,omitempty" bson:"features,omitempty"`
	Bases        string             `json:"-" bson:"bases,omitempty"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
}

// NewRecord captures seq under a display name. The record holds copies of
// the features, so later changes to seq do not leak into the store.
func NewRecord(name string, seq *feature.Sequence) *Record {
	fs := make([]*feature.Feature, len(seq.Features))
	for i, f := range seq.Features {
		c := *f
		fs[i] = &c
	}
	return &Record{
		Name:         strings.TrimSpace(name),
		Length:       seq.Length,
		FeatureCount: len(fs),
		Features:     fs,
		Bases:        seq.Bases,
	}
}

// Sequence rebuilds the validated sequence, recomputing cutter groups.
func (r *Record) Sequence() (*feature.Sequence, error) {
	fs := make([]*feature.Feature, len(r.Features))
	for i, f := range r.Features {
		fs[i] = &feature.Feature{
			Name: f.Name, Start: f.Start, End: f.End, Type: f.Type,
			Clockwise: f.Clockwise, Cut: f.Cut, DefaultShow: f.DefaultShow,
		}
	}
	return feature.NewSequence(r.Length, fs, r.Bases)
}

// Summary drops the feature payload.
func (r *Record) Summary() *Record {
	return &Record{ID: r.ID, Name: r.Name, Length: r.Length, FeatureCount: r.FeatureCount, CreatedAt: r.CreatedAt}
}

// Store is a repository of feature lists.
type Store interface {
	// Put assigns an id and creation time to rec and stores it.
	Put(ctx context.Context, rec *Record) (string, error)
	// Get returns SEQUENCE_NOT_FOUND for unknown ids.
	Get(ctx context.Context, id string) (*Record, error)
	// List returns summaries, newest first. limit <= 0 means no limit.
	List(ctx context.Context, limit int) ([]*Record, error)
	Delete(ctx context.Context, id string) error
	Close(ctx context.Context) error
}

func newID() string { return uuid.NewString() }

// checkID rejects anything that is not a UUID before it reaches a backend.
func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidID, err, "invalid sequence id %q", id)
	}
	return nil
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeSequenceNotFound, "sequence %s not found", id)
}

// now is truncated to milliseconds, the resolution MongoDB stores.
func now() time.Time { return time.Now().UTC().Truncate(time.Millisecond) }
