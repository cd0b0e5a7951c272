package entitycmd

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/flarebyte/baldrick-gitvault/internal/app"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var EntityCmd = &cobra.Command{
	Use:   "entity",
	Short: "Inspect entity kinds and their resolved enablement",
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show every entity kind with its state, dependencies and config key",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _, reg, err := app.NewRegistry(log.Printf)
		if err != nil {
			return err
		}
		tw := tablewriter.NewWriter(os.Stdout)
		tw.SetHeader([]string{"ENTITY", "STATE", "DEPENDS_ON", "CONFIG_KEY"})
		for _, name := range reg.AllEntityNames() {
			e, err := reg.Entity(name)
			if err != nil {
				return err
			}
			state := e.State.String()
			if e.Selection.Len() > 0 {
				state = "subset " + e.Selection.String()
			}
			tw.Append([]string{
				e.Config.Name,
				state,
				strings.Join(e.Config.Dependencies, ","),
				e.Config.ConfigKey,
			})
		}
		tw.Render()
		for _, w := range reg.Warnings() {
			fmt.Fprintf(os.Stderr, "warning: %s\n", w)
		}
		return nil
	},
}

func init() {
	EntityCmd.AddCommand(listCmd)
}
