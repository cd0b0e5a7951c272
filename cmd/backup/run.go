package backupcmd

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
	flagRunNote    string
	flagRunJSON    bool
	flagRunTimeout time.Duration
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Archive every enabled entity of the configured repository",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), flagRunTimeout)
		defer cancel()
		rt, err := app.NewRuntime(ctx, "", log.Printf)
		if err != nil {
			return err
		}
		defer rt.Close()

		rep, err := rt.Orch.Save(ctx, rt.Cfg.Remote.Owner, rt.Cfg.Remote.Repo, flagRunNote)
		if err != nil {
			var ee *orchestrate.ExecError
			if errors.As(err, &ee) && rep != nil {
				fmt.Fprintf(os.Stderr, "aborted: %v\n", ee)
				rep.RenderTable(os.Stderr)
			}
			return err
		}
		if flagRunJSON {
			return rep.RenderJSON(os.Stdout)
		}
		fmt.Printf("archive %s (%d records)\n", rep.ArchiveID, rep.TotalCount())
		rep.RenderTable(os.Stdout)
		for _, w := range rep.Warnings {
			fmt.Fprintf(os.Stderr, "warning: %s\n", w)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&flagRunNote, "note", "", "Free-form note stored with the archive")
	runCmd.Flags().BoolVar(&flagRunJSON, "json", false, "Emit the run report as JSON")
	runCmd.Flags().DurationVar(&flagRunTimeout, "timeout", 30*time.Minute, "Overall run timeout")
}
