package strategy

import (
	"context"

	"github.com/flarebyte/baldrick-gitvault/internal/entity"
	"github.com/flarebyte/baldrick-gitvault/internal/model"
)

// lineage describes where a nested kind finds its parents during a run.
type lineage struct {
	// parent is the entity whose processed records supply the scope.
	parent string
	// byID addresses parents by opaque id instead of user-facing number.
	byID bool
}

var lineages = map[string]lineage{
	"issue_comments":     {parent: "issues"},
	"pr_reviews":         {parent: "pulls"},
	"pr_review_comments": {parent: "pulls"},
	"release_assets":     {parent: "releases", byID: true},
}

// saveStrategy reads records from the remote service and writes them to the
// archive. One instance covers every kind; nested kinds list per parent.
type saveStrategy struct {
	name string
	deps Deps
}

func newSave(name string) Constructor {
	return func(deps Deps) Strategy { return &saveStrategy{name: name, deps: deps} }
}

func (s *saveStrategy) EntityName() string { return s.name }

func (s *saveStrategy) Read(ctx context.Context, sel entity.Selection, rc *RunContext) ([]model.Record, error) {
	lin, nested := lineages[s.name]
	if !nested {
		recs, err := s.deps.Remote.List(ctx, s.name)
		if err != nil {
			return nil, err
		}
		return filterSelection(recs, sel), nil
	}
	var out []model.Record
	for _, p := range rc.Records(lin.parent) {
		key := int64(p.Number)
		if lin.byID {
			key = p.ID
		}
		recs, err := s.deps.Remote.ListForParent(ctx, s.name, key)
		if err != nil {
			return nil, err
		}
		out = append(out, recs...)
	}
	return filterSelection(out, sel), nil
}

func (s *saveStrategy) Transform(ctx context.Context, recs []model.Record, rc *RunContext) ([]model.Record, error) {
	return recs, nil
}

func (s *saveStrategy) Write(ctx context.Context, recs []model.Record, rc *RunContext) (WriteResult, error) {
	if err := s.deps.Archive.WriteEntity(ctx, s.name, recs); err != nil {
		return WriteResult{}, err
	}
	return WriteResult{Count: len(recs), Created: len(recs)}, nil
}
