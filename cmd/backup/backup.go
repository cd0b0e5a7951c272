package backupcmd

import (
	"github.com/spf13/cobra"
)

var BackupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Create and manage metadata archives",
}

func init() {
	BackupCmd.AddCommand(runCmd)
	BackupCmd.AddCommand(listCmd)
	BackupCmd.AddCommand(deleteCmd)
}
