package entity

import (
	"fmt"
	"log"
	"sort"

	"github.com/flarebyte/baldrick-gitvault/internal/config"
)

// Options tunes registry construction.
type Options struct {
	// Strict makes an explicitly enabled entity with an explicitly disabled
	// dependency a fatal error. Non-strict (default) cascades the disable
	// with a warning instead.
	Strict bool
	// Logf receives cascade warnings. Defaults to log.Printf.
	Logf func(format string, args ...any)
}

// Registry holds the resolved entity set for one run. Construction performs
// all validation; a non-nil *Registry is fully resolved and immutable.
type Registry struct {
	entities map[string]*Registered
	// discovery holds catalog order, used as the deterministic tie-break
	// for the execution order.
	discovery []string
	enabled   []*Registered
	warnings  []string
}

// NewRegistry builds a registry from the catalog and an environment snapshot.
// It fails with ErrConfig on an empty catalog, duplicate names, unknown or
// cyclic dependencies, unparseable variable values, and strict-mode conflicts.
func NewRegistry(catalog []Config, env config.EnvSnapshot, opts Options) (*Registry, error) {
	if len(catalog) == 0 {
		return nil, fmt.Errorf("%w: no entities in catalog", ErrConfig)
	}
	logf := opts.Logf
	if logf == nil {
		logf = log.Printf
	}

	r := &Registry{entities: make(map[string]*Registered, len(catalog))}
	for _, c := range catalog {
		if c.Name == "" {
			return nil, fmt.Errorf("%w: entity with empty name", ErrConfig)
		}
		if _, dup := r.entities[c.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate entity %q", ErrConfig, c.Name)
		}
		r.entities[c.Name] = &Registered{Config: c, Selection: SelectAll}
		r.discovery = append(r.discovery, c.Name)
	}

	// Dependency references must resolve inside the catalog.
	for _, name := range r.discovery {
		e := r.entities[name]
		for _, dep := range e.Config.Dependencies {
			d, ok := r.entities[dep]
			if !ok {
				return nil, fmt.Errorf("%w: entity %q depends on unknown entity %q", ErrConfig, name, dep)
			}
			d.dependents = append(d.dependents, name)
		}
	}

	// The dependency relation must be acyclic regardless of enablement.
	if err := r.checkAcyclic(); err != nil {
		return nil, err
	}

	if err := r.loadEnv(env); err != nil {
		return nil, err
	}
	if err := r.validateDeps(opts.Strict, logf); err != nil {
		return nil, err
	}
	if err := r.orderEnabled(); err != nil {
		return nil, err
	}
	return r, nil
}

// loadEnv resolves each entity's state from its configuration variable.
func (r *Registry) loadEnv(env config.EnvSnapshot) error {
	for _, name := range r.discovery {
		e := r.entities[name]
		raw, present := env.Lookup(e.Config.ConfigKey)
		if !present {
			if e.Config.DefaultEnabled {
				e.State = Enabled
			} else {
				e.State = Disabled
			}
			continue
		}
		e.explicit = true
		switch e.Config.Shape {
		case ShapeBool:
			on, err := ParseBool(raw)
			if err != nil {
				return fmt.Errorf("%w: %s: %v", ErrConfig, e.Config.ConfigKey, err)
			}
			if on {
				e.State = Enabled
			} else {
				e.State = Disabled
			}
		case ShapeSelectable:
			sel, on, err := ParseSelection(raw)
			if err != nil {
				return fmt.Errorf("%w: %s: %v", ErrConfig, e.Config.ConfigKey, err)
			}
			switch {
			case !on:
				e.State = Disabled
			case sel.All():
				e.State = Enabled
			default:
				e.State = EnabledSubset
				e.Selection = sel
			}
		}
	}
	return nil
}

// validateDeps enforces the invariant that an enabled entity has no disabled
// dependency. Strict mode raises when the dependency was explicitly disabled;
// everything else disables offenders and cascades, using a worklist bounded
// by entity count.
func (r *Registry) validateDeps(strict bool, logf func(string, ...any)) error {
	if strict {
		for _, name := range r.discovery {
			e := r.entities[name]
			if e.State == Disabled {
				continue
			}
			for _, dep := range e.Config.Dependencies {
				d := r.entities[dep]
				if d.State == Disabled && d.explicit {
					return fmt.Errorf("%w: %s (%s) is enabled but its dependency %s (%s) is explicitly disabled",
						ErrConfig, name, e.Config.ConfigKey, dep, d.Config.ConfigKey)
				}
			}
		}
	}

	// Worklist fixpoint: seed with every entity, re-check dependents of each
	// entity we disable. Each entity is disabled at most once, so this
	// terminates after at most N disables.
	work := append([]string(nil), r.discovery...)
	for len(work) > 0 {
		name := work[0]
		work = work[1:]
		e := r.entities[name]
		if e.State == Disabled {
			continue
		}
		for _, dep := range e.Config.Dependencies {
			if r.entities[dep].State != Disabled {
				continue
			}
			// Explicitly disabled dependencies were rejected above in strict
			// mode; everything left cascades with a warning.
			w := fmt.Sprintf("entity %s disabled: depends on disabled entity %s", name, dep)
			r.warnings = append(r.warnings, w)
			logf("warning: %s", w)
			e.State = Disabled
			e.Selection = SelectAll
			work = append(work, e.dependents...)
			break
		}
	}
	return nil
}

// checkAcyclic runs Kahn's algorithm over the full dependency relation.
// A residue is a cycle; the error names the entities involved.
func (r *Registry) checkAcyclic() error {
	indeg := make(map[string]int, len(r.entities))
	for _, name := range r.discovery {
		indeg[name] = len(r.entities[name].Config.Dependencies)
	}
	queue := make([]string, 0, len(indeg))
	for _, name := range r.discovery {
		if indeg[name] == 0 {
			queue = append(queue, name)
		}
	}
	seen := 0
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		seen++
		for _, dep := range r.entities[name].dependents {
			indeg[dep]--
			if indeg[dep] == 0 {
				queue = append(queue, dep)
			}
		}
	}
	if seen == len(r.entities) {
		return nil
	}
	var cyc []string
	for _, name := range r.discovery {
		if indeg[name] > 0 {
			cyc = append(cyc, name)
		}
	}
	sort.Strings(cyc)
	return fmt.Errorf("%w: dependency cycle involving %v", ErrConfig, cyc)
}

// orderEnabled computes the execution order over enabled entities only.
// Ties are broken by discovery order so runs are reproducible.
func (r *Registry) orderEnabled() error {
	indeg := make(map[string]int)
	for _, name := range r.discovery {
		e := r.entities[name]
		if e.State == Disabled {
			continue
		}
		n := 0
		for _, dep := range e.Config.Dependencies {
			if r.entities[dep].State != Disabled {
				n++
			}
		}
		indeg[name] = n
	}
	emitted := make(map[string]bool, len(indeg))
	for len(r.enabled) < len(indeg) {
		progressed := false
		for _, name := range r.discovery {
			deg, enabled := indeg[name]
			if !enabled || emitted[name] || deg != 0 {
				continue
			}
			emitted[name] = true
			r.enabled = append(r.enabled, r.entities[name])
			for _, dep := range r.entities[name].dependents {
				if _, ok := indeg[dep]; ok {
					indeg[dep]--
				}
			}
			progressed = true
		}
		if !progressed {
			// checkAcyclic rejects cycles before we get here.
			return fmt.Errorf("%w: residual dependency cycle among enabled entities", ErrConfig)
		}
	}
	return nil
}

// Entity returns the registered entity for name, or ErrUnknownEntity.
func (r *Registry) Entity(name string) (*Registered, error) {
	e, ok := r.entities[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEntity, name)
	}
	return e, nil
}

// EnabledEntities returns the enabled entities in execution order: every
// entity appears after all of its enabled dependencies.
func (r *Registry) EnabledEntities() []*Registered {
	return append([]*Registered(nil), r.enabled...)
}

// AllEntityNames returns every catalog name, including disabled entities,
// in discovery order.
func (r *Registry) AllEntityNames() []string {
	return append([]string(nil), r.discovery...)
}

// Warnings returns the cascade-disable warnings emitted during validation.
func (r *Registry) Warnings() []string {
	return append([]string(nil), r.warnings...)
}
