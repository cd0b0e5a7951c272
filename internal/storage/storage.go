package storage

import (
	"context"
	"errors"
	"time"

	"github.com/flarebyte/baldrick-gitvault/internal/model"
	"github.com/oklog/ulid/v2"
)

// ErrNotFound is returned when an archive id does not exist in the store.
var ErrNotFound = errors.New("archive not found")

// Meta describes a stored archive.
type Meta struct {
	ID        string         `json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	Owner     string         `json:"owner"`
	Repo      string         `json:"repo"`
	Note      string         `json:"note,omitempty"`
	Counts    map[string]int `json:"counts"`
}

// Store manages archives in a backend (filesystem or postgres).
type Store interface {
	// Begin creates a new archive for writing.
	Begin(ctx context.Context, owner, repo, note string) (Archive, error)
	// Open returns an existing archive for reading. ErrNotFound if absent.
	Open(ctx context.Context, id string) (Archive, error)
	// List returns metadata for all archives, newest first.
	List(ctx context.Context) ([]Meta, error)
	// Delete removes an archive and all its records.
	Delete(ctx context.Context, id string) error
	// Close releases backend resources.
	Close()
}

// Archive is a single snapshot holding per-entity record sets.
type Archive interface {
	ID() string
	Meta(ctx context.Context) (Meta, error)
	// WriteEntity stores the records for one entity. Writing the same
	// entity twice replaces the previous set.
	WriteEntity(ctx context.Context, entity string, recs []model.Record) error
	// ReadEntity loads the records for one entity. An entity that was
	// never written returns (nil, nil).
	ReadEntity(ctx context.Context, entity string) ([]model.Record, error)
	// Seal finalizes the archive after all entities are written.
	Seal(ctx context.Context) error
}

// NewID returns a new lexicographically sortable archive id.
// Ids created within the same millisecond stay ordered.
func NewID() string {
	return ulid.Make().String()
}
