package vault

import (
	"context"
	"fmt"

	cfgpkg "github.com/flarebyte/baldrick-gitvault/internal/config"
)

// ResolveToken returns the remote API token for a run. Resolution order:
// the environment variable wins, then the vault secret named by the
// configuration. The caller must never print or log the returned value.
func ResolveToken(ctx context.Context, cfg cfgpkg.Config, env cfgpkg.EnvSnapshot) (string, error) {
	if v, ok := env.Lookup(cfgpkg.EnvToken); ok && v != "" {
		return v, nil
	}
	secret := cfg.Remote.TokenSecret
	if secret == "" {
		return "", fmt.Errorf("no %s set and no token secret configured", cfgpkg.EnvToken)
	}
	b, err := GetSecret(ctx, secret)
	if err != nil {
		return "", fmt.Errorf("resolve token from vault secret %q: %w", secret, err)
	}
	return string(b), nil
}
