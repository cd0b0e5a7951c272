package vaultcmd

import (
	"github.com/spf13/cobra"
)

var VaultCmd = &cobra.Command{
	Use:   "vault",
	Short: "Manage secrets (API tokens) in the configured vault backend",
}
