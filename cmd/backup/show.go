package backupcmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/flarebyte/baldrick-gitvault/internal/config"
	"github.com/flarebyte/baldrick-gitvault/internal/storage"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var flagShowJSON bool

var showCmd = &cobra.Command{
	Use:   "show <archive-id>",
	Short: "Show an archive's metadata and per-entity record counts",
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
		arch, err := store.Open(ctx, args[0])
		if err != nil {
			return err
		}
		meta, err := arch.Meta(ctx)
		if err != nil {
			return err
		}
		if flagShowJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(meta)
		}
		fmt.Printf("id: %s\ncreated_at: %s\nrepo: %s/%s\n",
			meta.ID, meta.CreatedAt.Format(time.RFC3339), meta.Owner, meta.Repo)
		if meta.Note != "" {
			fmt.Printf("note: %s\n", meta.Note)
		}
		names := make([]string, 0, len(meta.Counts))
		for name := range meta.Counts {
			names = append(names, name)
		}
		sort.Strings(names)
		tw := tablewriter.NewWriter(os.Stdout)
		tw.SetHeader([]string{"ENTITY", "RECORDS"})
		for _, name := range names {
			tw.Append([]string{name, strconv.Itoa(meta.Counts[name])})
		}
		tw.Render()
		return nil
	},
}

func init() {
	showCmd.Flags().BoolVar(&flagShowJSON, "json", false, "Output as JSON")
	BackupCmd.AddCommand(showCmd)
}
