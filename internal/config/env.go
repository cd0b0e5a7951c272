package config

import (
	"os"
	"strings"
)

// Environment variable names outside the per-entity keys.
const (
	EnvToken          = "GITVAULT_TOKEN"
	EnvStrictDeps     = "GITVAULT_STRICT_DEPS"
	EnvConflictPolicy = "GITVAULT_CONFLICT_POLICY"
)

// EnvSnapshot is an immutable capture of the GITVAULT_* environment taken
// once at startup. The entity registry and everything below it receive the
// snapshot by parameter instead of reaching into the ambient environment.
type EnvSnapshot struct {
	vars map[string]string
}

// Snapshot captures all GITVAULT_* variables from the current process
// environment.
func Snapshot() EnvSnapshot {
	return SnapshotFrom(os.Environ())
}

// SnapshotFrom builds a snapshot from an explicit environ list
// ("KEY=value" pairs). Useful in tests.
func SnapshotFrom(environ []string) EnvSnapshot {
	vars := make(map[string]string)
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		if strings.HasPrefix(k, "GITVAULT_") {
			vars[k] = v
		}
	}
	return EnvSnapshot{vars: vars}
}

// Lookup returns the captured value for key and whether it was present.
func (s EnvSnapshot) Lookup(key string) (string, bool) {
	v, ok := s.vars[key]
	return v, ok
}

// Keys returns the captured variable names. The returned slice is a copy.
func (s EnvSnapshot) Keys() []string {
	out := make([]string, 0, len(s.vars))
	for k := range s.vars {
		out = append(out, k)
	}
	return out
}
