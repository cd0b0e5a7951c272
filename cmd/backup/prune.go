package backupcmd

import (
	"context"
	"fmt"
	"time"

	"github.com/flarebyte/baldrick-gitvault/internal/config"
	"github.com/flarebyte/baldrick-gitvault/internal/storage"
	"github.com/spf13/cobra"
)

var (
	flagPruneOlderThan time.Duration
	flagPruneDryRun    bool
)

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete archives older than a cutoff",
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagPruneOlderThan <= 0 {
			return fmt.Errorf("--older-than must be positive")
		}
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		store, err := storage.Open(ctx, cfg.Storage)
		if err != nil {
			return err
		}
		defer store.Close()
		items, err := store.List(ctx)
		if err != nil {
			return err
		}
		cutoff := time.Now().Add(-flagPruneOlderThan)
		removed := 0
		for _, it := range items {
			if !it.CreatedAt.Before(cutoff) {
				continue
			}
			if flagPruneDryRun {
				fmt.Printf("would delete %s (created %s)\n", it.ID, it.CreatedAt.Format(time.RFC3339))
				continue
			}
			if err := store.Delete(ctx, it.ID); err != nil {
				return err
			}
			removed++
		}
		if !flagPruneDryRun {
			fmt.Printf("deleted %d archive(s)\n", removed)
		}
		return nil
	},
}

func init() {
	pruneCmd.Flags().DurationVar(&flagPruneOlderThan, "older-than", 0, "Delete archives created before now minus this duration (e.g. 720h)")
	pruneCmd.Flags().BoolVar(&flagPruneDryRun, "dry-run", false, "Only print what would be deleted")
	BackupCmd.AddCommand(pruneCmd)
}
