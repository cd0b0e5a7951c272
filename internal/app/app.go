// Package app assembles the collaborators commands need for a run: loaded
// configuration, the entity registry, the archive store and the orchestrator.
package app

import (
	"context"
	"fmt"

	"github.com/flarebyte/baldrick-gitvault/internal/config"
	"github.com/flarebyte/baldrick-gitvault/internal/conflict"
	"github.com/flarebyte/baldrick-gitvault/internal/entity"
	"github.com/flarebyte/baldrick-gitvault/internal/orchestrate"
	"github.com/flarebyte/baldrick-gitvault/internal/remote"
	"github.com/flarebyte/baldrick-gitvault/internal/storage"
	"github.com/flarebyte/baldrick-gitvault/internal/strategy"
	"github.com/flarebyte/baldrick-gitvault/internal/vault"
)

// Runtime is the fully wired application for one command invocation.
type Runtime struct {
	Cfg      config.Config
	Env      config.EnvSnapshot
	Registry *entity.Registry
	Store    storage.Store
	Orch     *orchestrate.Orchestrator
}

// NewRegistry loads configuration and builds the entity registry from the
// current environment. Commands that only inspect enablement (entity list)
// stop here; orchestrated runs continue with NewRuntime.
func NewRegistry(logf func(format string, args ...any)) (config.Config, config.EnvSnapshot, *entity.Registry, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, config.EnvSnapshot{}, nil, err
	}
	env := config.Snapshot()
	strict := cfg.StrictDeps
	if v, ok := env.Lookup(config.EnvStrictDeps); ok {
		b, err := entity.ParseBool(v)
		if err != nil {
			return config.Config{}, config.EnvSnapshot{}, nil, fmt.Errorf("%s: %w", config.EnvStrictDeps, err)
		}
		strict = b
	}
	reg, err := entity.NewRegistry(entity.Catalog(), env, entity.Options{Strict: strict, Logf: logf})
	if err != nil {
		return config.Config{}, config.EnvSnapshot{}, nil, err
	}
	return cfg, env, reg, nil
}

// NewRuntime wires the full runtime: registry, remote client with a resolved
// token, archive store and orchestrator. policyOverride, when non-empty,
// wins over the environment and the configuration file. Call Close when done.
func NewRuntime(ctx context.Context, policyOverride string, logf func(format string, args ...any)) (*Runtime, error) {
	cfg, env, reg, err := NewRegistry(logf)
	if err != nil {
		return nil, err
	}
	if cfg.Remote.Owner == "" || cfg.Remote.Repo == "" {
		return nil, fmt.Errorf("remote owner/repo not configured; run bgv config show")
	}

	policyName := cfg.ConflictPolicy
	if v, ok := env.Lookup(config.EnvConflictPolicy); ok {
		policyName = v
	}
	if policyOverride != "" {
		policyName = policyOverride
	}
	policy, err := conflict.ParsePolicy(policyName)
	if err != nil {
		return nil, err
	}

	token, err := vault.ResolveToken(ctx, cfg, env)
	if err != nil {
		return nil, err
	}
	store, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}

	return &Runtime{
		Cfg:      cfg,
		Env:      env,
		Registry: reg,
		Store:    store,
		Orch: &orchestrate.Orchestrator{
			Registry: reg,
			Factory:  strategy.NewFactory(),
			Remote:   remote.NewClient(cfg.Remote, token),
			Store:    store,
			Policy:   policy,
			Logf:     logf,
		},
	}, nil
}

// Close releases the runtime's backend resources.
func (r *Runtime) Close() {
	if r.Store != nil {
		r.Store.Close()
	}
}
