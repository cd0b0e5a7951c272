package srvcmd

import (
	"fmt"
	"os"
	"syscall"

	"github.com/flarebyte/baldrick-gitvault/internal/server"
	"github.com/spf13/cobra"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop a running server",
	RunE: func(cmd *cobra.Command, args []string) error {
		pidPath := server.DefaultPIDPath()
		pid, err := server.ReadPID(pidPath)
		if err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("no pid file at %s; server not running?", pidPath)
			}
			return err
		}
		p, err := os.FindProcess(pid)
		if err != nil {
			return err
		}
		if err := p.Signal(syscall.SIGTERM); err != nil {
			return fmt.Errorf("signal pid %d: %w", pid, err)
		}
		fmt.Printf("sent SIGTERM to pid %d\n", pid)
		return nil
	},
}
