package vaultcmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	cfgpkg "github.com/flarebyte/baldrick-gitvault/internal/config"
	vpkg "github.com/flarebyte/baldrick-gitvault/internal/vault"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var setCmd = &cobra.Command{
	Use:   "set <name>",
	Short: "Store a secret value (prompted without echo, never printed)",
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
		fmt.Fprintf(os.Stderr, "value for %s: ", args[0])
		var value []byte
		if term.IsTerminal(int(os.Stdin.Fd())) {
			value, err = term.ReadPassword(int(os.Stdin.Fd()))
			fmt.Fprintln(os.Stderr)
		} else {
			// Piped input, e.g. `bgv vault set api-token < token.txt`
			var line string
			_, err = fmt.Fscanln(os.Stdin, &line)
			value = []byte(strings.TrimSpace(line))
		}
		if err != nil {
			return err
		}
		if len(value) == 0 {
			return fmt.Errorf("empty value")
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := dao.SetSecret(ctx, args[0], value); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "secret %s stored\n", args[0])
		return nil
	},
}

func init() {
	VaultCmd.AddCommand(setCmd)
}
