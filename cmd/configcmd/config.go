package configcmd

import (
	"fmt"
	"os"

	"github.com/flarebyte/baldrick-gitvault/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the configuration file",
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration (secrets redacted)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cfg.Storage.Postgres.Password != "" {
			cfg.Storage.Postgres.Password = "<redacted>"
		}
		out, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		os.Stdout.Write(out)
		return nil
	},
}

var pathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file location",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(config.Path())
		return nil
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		var problems []string
		if cfg.Remote.Owner == "" {
			problems = append(problems, "remote.owner is empty")
		}
		if cfg.Remote.Repo == "" {
			problems = append(problems, "remote.repo is empty")
		}
		switch cfg.Storage.Backend {
		case "", "fs", "postgres":
		default:
			problems = append(problems, fmt.Sprintf("storage.backend %q is not fs or postgres", cfg.Storage.Backend))
		}
		if len(problems) > 0 {
			for _, p := range problems {
				fmt.Fprintf(os.Stderr, "problem: %s\n", p)
			}
			return fmt.Errorf("%d configuration problem(s)", len(problems))
		}
		fmt.Println("configuration ok")
		return nil
	},
}

func init() {
	ConfigCmd.AddCommand(showCmd)
	ConfigCmd.AddCommand(pathCmd)
	ConfigCmd.AddCommand(checkCmd)
}
