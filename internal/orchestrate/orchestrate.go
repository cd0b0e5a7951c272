// Package orchestrate runs the per-entity strategy pipelines in dependency
// order for backup and restore, and reports what each committed.
package orchestrate

import (
	"context"
	"fmt"

	"github.com/flarebyte/baldrick-gitvault/internal/conflict"
	"github.com/flarebyte/baldrick-gitvault/internal/entity"
	"github.com/flarebyte/baldrick-gitvault/internal/remote"
	"github.com/flarebyte/baldrick-gitvault/internal/storage"
	"github.com/flarebyte/baldrick-gitvault/internal/strategy"
)

// ExecError reports a strategy failure mid-run: which entity, which phase,
// and how many prior entities had already committed before the abort.
type ExecError struct {
	Entity    string
	Phase     string
	Completed int
	Err       error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("entity %s failed during %s (%d entities already completed): %v",
		e.Entity, e.Phase, e.Completed, e.Err)
}

func (e *ExecError) Unwrap() error { return e.Err }

// Orchestrator runs save and restore pipelines. Execution is strictly
// sequential: later entities consume context values only available after
// earlier entities complete.
type Orchestrator struct {
	Registry *entity.Registry
	Factory  *strategy.Factory
	Remote   *remote.Client
	Store    storage.Store
	Policy   conflict.Policy
	Logf     func(format string, args ...any)
}

// Save archives every enabled entity of the configured repository into a new
// archive and seals it. The partial report is returned alongside a mid-run
// error so partial completion stays visible.
func (o *Orchestrator) Save(ctx context.Context, owner, repo, note string) (*Report, error) {
	arch, err := o.Store.Begin(ctx, owner, repo, note)
	if err != nil {
		return nil, err
	}
	deps := o.deps(arch)
	rep, err := o.run(ctx, ModeSave, arch.ID(), deps, o.Factory.Save, false)
	if err != nil {
		return rep, err
	}
	if err := arch.Seal(ctx); err != nil {
		return rep, err
	}
	return rep, nil
}

// Restore writes an archive's entities back to the configured repository.
// With dryRun, the write phase is skipped and the report shows what each
// entity would process.
func (o *Orchestrator) Restore(ctx context.Context, archiveID string, dryRun bool) (*Report, error) {
	arch, err := o.Store.Open(ctx, archiveID)
	if err != nil {
		return nil, err
	}
	return o.run(ctx, ModeRestore, archiveID, o.deps(arch), o.Factory.Restore, dryRun)
}

func (o *Orchestrator) deps(arch storage.Archive) strategy.Deps {
	return strategy.Deps{Remote: o.Remote, Archive: arch, Policy: o.Policy, Logf: o.Logf}
}

func (o *Orchestrator) run(ctx context.Context, mode Mode, archiveID string,
	deps strategy.Deps, resolve func(string, strategy.Deps) (strategy.Strategy, error),
	dryRun bool) (*Report, error) {

	enabled := o.Registry.EnabledEntities()

	// Resolve every strategy before executing any: an enabled entity with no
	// implementation aborts before the first remote call.
	strategies := make([]strategy.Strategy, 0, len(enabled))
	for _, e := range enabled {
		st, err := resolve(e.Config.Name, deps)
		if err != nil {
			return nil, err
		}
		strategies = append(strategies, st)
	}

	rc := strategy.NewRunContext()
	rep := &Report{Mode: mode, ArchiveID: archiveID, DryRun: dryRun, Warnings: o.Registry.Warnings()}
	for i, st := range strategies {
		e := enabled[i]
		name := e.Config.Name
		o.logf("%s: %s (%s)", mode, name, describeState(e))

		recs, err := st.Read(ctx, e.Selection, rc)
		if err != nil {
			return rep, &ExecError{Entity: name, Phase: "read", Completed: i, Err: err}
		}
		recs, err = st.Transform(ctx, recs, rc)
		if err != nil {
			return rep, &ExecError{Entity: name, Phase: "transform", Completed: i, Err: err}
		}
		var res strategy.WriteResult
		if dryRun {
			res = strategy.WriteResult{Count: len(recs)}
		} else {
			res, err = st.Write(ctx, recs, rc)
			if err != nil {
				return rep, &ExecError{Entity: name, Phase: "write", Completed: i, Err: err}
			}
		}
		rc.SetRecords(name, recs)
		rep.Entities = append(rep.Entities, EntityReport{
			Name:   name,
			State:  describeState(e),
			Result: res,
		})
	}
	return rep, nil
}

func (o *Orchestrator) logf(format string, args ...any) {
	if o.Logf != nil {
		o.Logf(format, args...)
	}
}

func describeState(e *entity.Registered) string {
	if e.State == entity.EnabledSubset {
		return "subset " + e.Selection.String()
	}
	return e.State.String()
}
