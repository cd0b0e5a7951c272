package srvcmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"

	"github.com/flarebyte/baldrick-gitvault/internal/app"
	"github.com/flarebyte/baldrick-gitvault/internal/orchestrate"
	"github.com/flarebyte/baldrick-gitvault/internal/server"
	"github.com/flarebyte/baldrick-gitvault/internal/storage"
	"github.com/spf13/cobra"
)

var (
	flagStartAddr       string
	flagStartForeground bool
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the local backup API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !flagStartForeground {
			return detach()
		}
		ctx := context.Background()
		rt, err := app.NewRuntime(ctx, "", log.Printf)
		if err != nil {
			return err
		}
		defer rt.Close()

		addr := flagStartAddr
		if addr == "" {
			addr = rt.Cfg.Server.Addr
		}
		if addr == "" {
			addr = server.DefaultAddr
		}
		svc := server.Service{
			Version: Version,
			Backup: func(ctx context.Context, note string) (*orchestrate.Report, error) {
				return rt.Orch.Save(ctx, rt.Cfg.Remote.Owner, rt.Cfg.Remote.Repo, note)
			},
			List: func(ctx context.Context) ([]storage.Meta, error) {
				return rt.Store.List(ctx)
			},
		}
		log.Printf("serving on %s", addr)
		return server.RunForeground(addr, server.DefaultPIDPath(), svc)
	},
}

// detach re-executes the binary in the background with --foreground set.
func detach() error {
	exe, err := os.Executable()
	if err != nil {
		return err
	}
	c := exec.Command(exe, "server", "start", "--foreground", "--addr", flagStartAddr)
	c.SysProcAttr = server.DetachAttr()
	c.Stdout = nil
	c.Stderr = nil
	if err := c.Start(); err != nil {
		return err
	}
	fmt.Printf("server started (pid %d)\n", c.Process.Pid)
	return c.Process.Release()
}

func init() {
	startCmd.Flags().StringVar(&flagStartAddr, "addr", "", "Listen address (default from config)")
	startCmd.Flags().BoolVar(&flagStartForeground, "foreground", false, "Run in the foreground")
}
