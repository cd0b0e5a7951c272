package vaultcmd

import (
	"context"
	"fmt"
	"os"
	"time"

	cfgpkg "github.com/flarebyte/baldrick-gitvault/internal/config"
	vpkg "github.com/flarebyte/baldrick-gitvault/internal/vault"
	"github.com/spf13/cobra"
)

var unsetCmd = &cobra.Command{
	Use:   "unset <name>",
	Short: "Delete a secret from the vault",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cfgpkg.Load()
		if err != nil {
			return err
		}
		dao, err := vpkg.NewVaultDAO(cfg.Vault.Backend)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := dao.UnsetSecret(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "secret %s removed\n", args[0])
		return nil
	},
}

func init() {
	VaultCmd.AddCommand(unsetCmd)
}
