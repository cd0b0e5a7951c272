package backupcmd

import (
	"context"
	"fmt"
	"time"

	"github.com/flarebyte/baldrick-gitvault/internal/config"
	"github.com/flarebyte/baldrick-gitvault/internal/storage"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <archive-id>",
	Short: "Delete an archive and all its records",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		store, err := storage.Open(ctx, cfg.Storage)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Delete(ctx, args[0]); err != nil {
			return err
		}
		fmt.Printf("deleted %s\n", args[0])
		return nil
	},
}
