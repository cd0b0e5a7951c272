// Package strategy implements the per-entity read/transform/write pipelines
// executed by the orchestrators, and the factory that resolves them.
package strategy

import (
	"context"

	"github.com/flarebyte/baldrick-gitvault/internal/entity"
	"github.com/flarebyte/baldrick-gitvault/internal/model"
)

// WriteResult reports what one strategy's write phase committed.
type WriteResult struct {
	Count      int     `json:"count"`
	Created    int     `json:"created"`
	Updated    int     `json:"updated"`
	Deleted    int     `json:"deleted"`
	Skipped    int     `json:"skipped"`
	CreatedIDs []int64 `json:"created_ids,omitempty"`
}

// Strategy is one entity's pipeline. The orchestrator calls the three phases
// in order; sel narrows processing to matching record numbers when the entity
// is configured for a subset.
type Strategy interface {
	EntityName() string
	Read(ctx context.Context, sel entity.Selection, rc *RunContext) ([]model.Record, error)
	Transform(ctx context.Context, recs []model.Record, rc *RunContext) ([]model.Record, error)
	Write(ctx context.Context, recs []model.Record, rc *RunContext) (WriteResult, error)
}

func filterSelection(recs []model.Record, sel entity.Selection) []model.Record {
	if sel.All() {
		return recs
	}
	out := recs[:0:0]
	for _, r := range recs {
		if sel.Includes(r.Number) {
			out = append(out, r)
		}
	}
	return out
}
