package cmd

import (
	backupcmd "github.com/flarebyte/baldrick-gitvault/cmd/backup"
	configcmd "github.com/flarebyte/baldrick-gitvault/cmd/configcmd"
	entitycmd "github.com/flarebyte/baldrick-gitvault/cmd/entity"
	restorecmd "github.com/flarebyte/baldrick-gitvault/cmd/restore"
	srvcmd "github.com/flarebyte/baldrick-gitvault/cmd/server"
	vaultcmd "github.com/flarebyte/baldrick-gitvault/cmd/vault"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "bgv",
	Short: "Back up and restore repository metadata",
	Long: "bgv archives a repository's metadata (labels, milestones, issues,\n" +
		"comments, pull requests, reviews, releases) to local storage and\n" +
		"restores it, honoring entity dependencies and conflict policies.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(backupcmd.BackupCmd)
	rootCmd.AddCommand(restorecmd.RestoreCmd)
	rootCmd.AddCommand(entitycmd.EntityCmd)
	rootCmd.AddCommand(configcmd.ConfigCmd)
	rootCmd.AddCommand(vaultcmd.VaultCmd)
	rootCmd.AddCommand(srvcmd.ServerCmd)
}
