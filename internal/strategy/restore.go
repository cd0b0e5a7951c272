package strategy

import (
	"context"

	"github.com/flarebyte/baldrick-gitvault/internal/conflict"
	"github.com/flarebyte/baldrick-gitvault/internal/entity"
	"github.com/flarebyte/baldrick-gitvault/internal/model"
)

// restoreStrategy reads records from the archive and writes them to the
// remote service, resolving conflicts against the target first.
type restoreStrategy struct {
	name string
	deps Deps
}

func newRestore(name string) Constructor {
	return func(deps Deps) Strategy { return &restoreStrategy{name: name, deps: deps} }
}

func (s *restoreStrategy) EntityName() string { return s.name }

func (s *restoreStrategy) Read(ctx context.Context, sel entity.Selection, rc *RunContext) ([]model.Record, error) {
	recs, err := s.deps.Archive.ReadEntity(ctx, s.name)
	if err != nil {
		return nil, err
	}
	return filterSelection(recs, sel), nil
}

func (s *restoreStrategy) Transform(ctx context.Context, recs []model.Record, rc *RunContext) ([]model.Record, error) {
	out := make([]model.Record, 0, len(recs))
	for _, r := range recs {
		rr, err := rewriteForCreate(s.name, r, rc)
		if err != nil {
			return nil, err
		}
		out = append(out, rr)
	}
	return out, nil
}

func (s *restoreStrategy) Write(ctx context.Context, recs []model.Record, rc *RunContext) (WriteResult, error) {
	existing, err := s.existing(ctx, recs, rc)
	if err != nil {
		return WriteResult{}, err
	}
	plan, err := conflict.Resolve(s.deps.Policy, existing, recs)
	if err != nil {
		return WriteResult{}, err
	}
	res := WriteResult{Count: len(recs), Skipped: len(plan.Skipped)}
	for _, d := range plan.Delete {
		if err := s.deps.Remote.Delete(ctx, s.name, d); err != nil {
			return res, err
		}
		res.Deleted++
	}
	for _, u := range plan.Update {
		// Address the existing record, send the incoming payload.
		upd := u.Incoming
		upd.ID = u.Existing.ID
		upd.Number = u.Existing.Number
		out, err := s.deps.Remote.Update(ctx, s.name, upd)
		if err != nil {
			return res, err
		}
		res.Updated++
		s.record(rc, u.Incoming, out)
	}
	for _, cr := range plan.Create {
		out, err := s.deps.Remote.Create(ctx, s.name, s.remapParent(cr, rc), cr)
		if err != nil {
			return res, err
		}
		res.Created++
		if out.ID != 0 {
			res.CreatedIDs = append(res.CreatedIDs, out.ID)
		}
		s.record(rc, cr, out)
	}
	return res, nil
}

// existing lists the target's current records of this kind: the whole
// collection for top-level kinds, the remapped parents' children for
// nested kinds.
func (s *restoreStrategy) existing(ctx context.Context, incoming []model.Record, rc *RunContext) ([]model.Record, error) {
	if _, nested := lineages[s.name]; !nested {
		return s.deps.Remote.List(ctx, s.name)
	}
	seen := map[int64]struct{}{}
	var out []model.Record
	for _, r := range incoming {
		parent := s.remapParent(r, rc)
		if _, dup := seen[parent]; dup {
			continue
		}
		seen[parent] = struct{}{}
		recs, err := s.deps.Remote.ListForParent(ctx, s.name, parent)
		if err != nil {
			return nil, err
		}
		out = append(out, recs...)
	}
	return out, nil
}

// remapParent resolves the parent key a nested record should be created
// under, following the remapping recorded by the parent entity's run.
// Parents with no recorded remapping keep their original key.
func (s *restoreStrategy) remapParent(rec model.Record, rc *RunContext) int64 {
	lin, nested := lineages[s.name]
	if !nested {
		return 0
	}
	if lin.byID {
		if mapped, ok := rc.ID(lin.parent, rec.Parent); ok {
			return mapped
		}
		return rec.Parent
	}
	if mapped, ok := rc.Number(lin.parent, int(rec.Parent)); ok {
		return int64(mapped)
	}
	return rec.Parent
}

// record stores the original-to-created remapping for dependent entities.
func (s *restoreStrategy) record(rc *RunContext, orig, created model.Record) {
	if orig.Number != 0 && created.Number != 0 {
		rc.MapNumber(s.name, orig.Number, created.Number)
	}
	if orig.ID != 0 && created.ID != 0 {
		rc.MapID(s.name, orig.ID, created.ID)
	}
}

// assetRestoreStrategy is the explicit override for release assets: their
// binary content is not captured in archives, so restore reports them as
// skipped instead of attempting uploads.
type assetRestoreStrategy struct {
	deps Deps
}

func newAssetRestore(deps Deps) Strategy { return &assetRestoreStrategy{deps: deps} }

func (s *assetRestoreStrategy) EntityName() string { return "release_assets" }

func (s *assetRestoreStrategy) Read(ctx context.Context, sel entity.Selection, rc *RunContext) ([]model.Record, error) {
	recs, err := s.deps.Archive.ReadEntity(ctx, "release_assets")
	if err != nil {
		return nil, err
	}
	return filterSelection(recs, sel), nil
}

func (s *assetRestoreStrategy) Transform(ctx context.Context, recs []model.Record, rc *RunContext) ([]model.Record, error) {
	return recs, nil
}

func (s *assetRestoreStrategy) Write(ctx context.Context, recs []model.Record, rc *RunContext) (WriteResult, error) {
	if len(recs) > 0 && s.deps.Logf != nil {
		s.deps.Logf("release_assets: %d archived assets have no uploadable content, skipping", len(recs))
	}
	return WriteResult{Count: len(recs), Skipped: len(recs)}, nil
}
