package restorecmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/flarebyte/baldrick-gitvault/internal/app"
	"github.com/flarebyte/baldrick-gitvault/internal/orchestrate"
	"github.com/spf13/cobra"
)

var (
	flagConflicts string
	flagDryRun    bool
	flagJSON      bool
	flagTimeout   time.Duration
)

var RestoreCmd = &cobra.Command{
	Use:   "restore <archive-id>",
	Short: "Write an archive's entities back to the configured repository",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), flagTimeout)
		defer cancel()
		rt, err := app.NewRuntime(ctx, flagConflicts, log.Printf)
		if err != nil {
			return err
		}
		defer rt.Close()

		rep, err := rt.Orch.Restore(ctx, args[0], flagDryRun)
		if err != nil {
			var ee *orchestrate.ExecError
			if errors.As(err, &ee) && rep != nil {
				fmt.Fprintf(os.Stderr, "aborted: %v\n", ee)
				rep.RenderTable(os.Stderr)
			}
			return err
		}
		if flagJSON {
			return rep.RenderJSON(os.Stdout)
		}
		if flagDryRun {
			fmt.Printf("dry-run: %d records would be processed\n", rep.TotalCount())
		}
		rep.RenderTable(os.Stdout)
		for _, w := range rep.Warnings {
			fmt.Fprintf(os.Stderr, "warning: %s\n", w)
		}
		return nil
	},
}

func init() {
	RestoreCmd.Flags().StringVar(&flagConflicts, "conflicts", "",
		"Conflict policy: fail-if-existing, fail-if-conflict, overwrite, skip, delete-all")
	RestoreCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Read and transform without writing to the remote")
	RestoreCmd.Flags().BoolVar(&flagJSON, "json", false, "Emit the run report as JSON")
	RestoreCmd.Flags().DurationVar(&flagTimeout, "timeout", 30*time.Minute, "Overall run timeout")
}
