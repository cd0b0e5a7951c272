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

var showCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a secret's metadata (never its value)",
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
		md, err := dao.GetSecretMetadata(ctx, args[0])
		if err != nil {
			return err
		}
		status := "unset"
		if md.IsSet {
			status = "set"
		}
		fmt.Fprintf(os.Stdout, "name: %s\nstatus: %s\nbackend: %s\n", md.Name, status, md.Backend)
		if md.UpdatedAt != nil {
			fmt.Fprintf(os.Stdout, "updated_at: %s\n", md.UpdatedAt.Format(time.RFC3339))
		}
		return nil
	},
}

func init() {
	VaultCmd.AddCommand(showCmd)
}
