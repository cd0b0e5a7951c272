// Package entity holds the registry of backup entity kinds: their static
// descriptors, environment-driven enablement, dependency validation, and the
// dependency-respecting execution order consumed by the orchestrators.
package entity

import "errors"

// ErrConfig marks fatal configuration problems detected before any I/O:
// unparseable environment values, unknown dependencies, dependency cycles,
// strict-mode conflicts, an empty catalog.
var ErrConfig = errors.New("entity: configuration error")

// ErrUnknownEntity is returned by Registry.Entity for names not in the catalog.
var ErrUnknownEntity = errors.New("entity: unknown entity")

// ValueShape describes what values an entity's environment variable accepts.
type ValueShape int

const (
	// ShapeBool accepts the tolerant boolean grammar only.
	ShapeBool ValueShape = iota
	// ShapeSelectable additionally accepts explicit numeric IDs and ranges
	// ("1,5,10-20"), selecting a subset of records by number.
	ShapeSelectable
)

// Config is the static descriptor of one entity kind. Defined once in the
// catalog, immutable.
type Config struct {
	// Name is the unique identifier, used as map key and in archive units.
	Name string
	// ConfigKey is the environment variable controlling this entity.
	ConfigKey string
	// DefaultEnabled applies when the variable is unset.
	DefaultEnabled bool
	// Shape controls the accepted value grammar.
	Shape ValueShape
	// Dependencies lists entity names that must be enabled for this one to be.
	Dependencies []string
	// Description is documentation only.
	Description string
}

// State is the resolved enablement of an entity for one run.
type State int

const (
	Disabled State = iota
	Enabled
	// EnabledSubset means enabled for an explicit set of record numbers.
	EnabledSubset
)

func (s State) String() string {
	switch s {
	case Disabled:
		return "disabled"
	case Enabled:
		return "enabled"
	case EnabledSubset:
		return "subset"
	}
	return "unknown"
}

// Registered pairs a Config with its resolved state. Built during registry
// construction; immutable afterwards for the remainder of a run.
type Registered struct {
	Config Config
	State  State
	// Selection is meaningful when State is EnabledSubset; otherwise SelectAll.
	Selection Selection

	// explicit is true when the entity's variable was present in the
	// environment (strict mode distinguishes explicit from defaulted values).
	explicit bool
	// dependents holds the names of entities that depend on this one.
	dependents []string
}

// Explicit reports whether the entity's state came from a present environment
// variable rather than its default.
func (r *Registered) Explicit() bool { return r.explicit }

// Dependents returns the names of entities that declare this one as a
// dependency. The returned slice must not be mutated.
func (r *Registered) Dependents() []string { return r.dependents }
