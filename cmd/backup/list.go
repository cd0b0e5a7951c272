package backupcmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/flarebyte/baldrick-gitvault/internal/config"
	"github.com/flarebyte/baldrick-gitvault/internal/storage"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var flagListJSON bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List existing archives",
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
		items, err := store.List(ctx)
		if err != nil {
			return err
		}
		if flagListJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(items)
		}
		tw := tablewriter.NewWriter(os.Stdout)
		tw.SetHeader([]string{"ID", "CREATED_AT", "REPO", "RECORDS", "NOTE"})
		for _, it := range items {
			total := 0
			for _, n := range it.Counts {
				total += n
			}
			tw.Append([]string{
				it.ID,
				it.CreatedAt.Format(time.RFC3339),
				fmt.Sprintf("%s/%s", it.Owner, it.Repo),
				strconv.Itoa(total),
				it.Note,
			})
		}
		tw.Render()
		return nil
	},
}

func init() {
	listCmd.Flags().BoolVar(&flagListJSON, "json", false, "Output as JSON")
}
