package strategy

import (
	"errors"
	"fmt"

	"github.com/flarebyte/baldrick-gitvault/internal/conflict"
	"github.com/flarebyte/baldrick-gitvault/internal/entity"
	"github.com/flarebyte/baldrick-gitvault/internal/remote"
	"github.com/flarebyte/baldrick-gitvault/internal/storage"
)

// ErrNoStrategy means an enabled entity has no registered implementation.
// This is a defect, not a recoverable condition.
var ErrNoStrategy = errors.New("no strategy for entity")

// Deps carries the collaborators strategies are built with for one run.
type Deps struct {
	Remote  *remote.Client
	Archive storage.Archive
	Policy  conflict.Policy
	Logf    func(format string, args ...any)
}

// Constructor builds a strategy instance bound to the run's collaborators.
type Constructor func(Deps) Strategy

// Factory maps entity names to save and restore constructors. The catalog
// names populate it mechanically; Override replaces an entry for entities
// whose strategy cannot follow the convention.
type Factory struct {
	save    map[string]Constructor
	restore map[string]Constructor
}

func NewFactory() *Factory {
	f := &Factory{
		save:    map[string]Constructor{},
		restore: map[string]Constructor{},
	}
	for _, cfg := range entity.Catalog() {
		f.save[cfg.Name] = newSave(cfg.Name)
		f.restore[cfg.Name] = newRestore(cfg.Name)
	}
	// Assets cannot be recreated from archived metadata alone.
	f.restore["release_assets"] = newAssetRestore
	return f
}

// OverrideSave replaces the save constructor for one entity.
func (f *Factory) OverrideSave(name string, ctor Constructor) { f.save[name] = ctor }

// OverrideRestore replaces the restore constructor for one entity.
func (f *Factory) OverrideRestore(name string, ctor Constructor) { f.restore[name] = ctor }

// Save resolves the save strategy for an entity.
func (f *Factory) Save(name string, deps Deps) (Strategy, error) {
	ctor, ok := f.save[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s (save)", ErrNoStrategy, name)
	}
	return ctor(deps), nil
}

// Restore resolves the restore strategy for an entity.
func (f *Factory) Restore(name string, deps Deps) (Strategy, error) {
	ctor, ok := f.restore[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s (restore)", ErrNoStrategy, name)
	}
	return ctor(deps), nil
}
